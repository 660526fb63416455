package link

import (
	"errors"
	"io"
	"sync"

	"github.com/danmuck/hotsync/internal/protocol/slp"
)

// pipeTransport is the connection's side of an in-memory duplex stream.
type pipeTransport struct {
	in  *io.PipeReader
	out *io.PipeWriter
}

func (p *pipeTransport) Read(b []byte) (int, error)  { return p.in.Read(b) }
func (p *pipeTransport) Write(b []byte) (int, error) { return p.out.Write(b) }

func (p *pipeTransport) Close() error {
	return errors.Join(p.in.Close(), p.out.Close())
}

// device is the far end of a pipeTransport.
type device struct {
	toConn   *io.PipeWriter
	fromConn *io.PipeReader
}

func newPipePair() (*pipeTransport, *device) {
	connIn, devOut := io.Pipe()
	devIn, connOut := io.Pipe()
	return &pipeTransport{in: connIn, out: connOut}, &device{toConn: devOut, fromConn: devIn}
}

// readPackets reads n packets written by the connection.
func (d *device) readPackets(n int) ([]slp.Packet, error) {
	r := slp.NewReader(d.fromConn, 0)
	var out []slp.Packet
	for len(out) < n {
		if _, err := r.Step(func(p slp.Packet) error {
			out = append(out, p.Clone())
			return nil
		}); err != nil {
			return out, err
		}
	}
	return out, nil
}

type completion struct {
	id  uint64
	err error
}

type recordingObserver struct {
	mu        sync.Mutex
	bytes     int
	packets   int
	framing   []error
	completed []completion
}

func (o *recordingObserver) BytesReceived(n int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.bytes += n
}

func (o *recordingObserver) PacketReceived(slp.Packet) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.packets++
}

func (o *recordingObserver) FramingError(err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.framing = append(o.framing, err)
}

func (o *recordingObserver) JobCompleted(id uint64, _ int, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.completed = append(o.completed, completion{id: id, err: err})
}

func (o *recordingObserver) snapshot() []completion {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]completion(nil), o.completed...)
}

func encode(p slp.Packet) []byte {
	b, err := slp.AppendPacket(nil, p)
	if err != nil {
		panic(err)
	}
	return b
}
