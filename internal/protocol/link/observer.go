package link

import "github.com/danmuck/hotsync/internal/protocol/slp"

// Observer receives connection events. Calls come from the read loop, the
// write loop and Close, so implementations must be safe for concurrent use.
type Observer interface {
	BytesReceived(n int)
	PacketReceived(p slp.Packet)
	FramingError(err error)
	JobCompleted(id uint64, size int, err error)
}

type nopObserver struct{}

func (nopObserver) BytesReceived(int)               {}
func (nopObserver) PacketReceived(slp.Packet)       {}
func (nopObserver) FramingError(error)              {}
func (nopObserver) JobCompleted(uint64, int, error) {}
