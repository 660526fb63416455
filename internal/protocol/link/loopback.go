package link

import "github.com/danmuck/hotsync/internal/protocol/slp"

// Loopback answers loopback packets by echoing them back with source and
// destination swapped. Every other packet goes to next, which may be nil.
func Loopback(next Handler) Handler {
	return HandlerFunc(func(c *Conn, p slp.Packet) error {
		if p.Type != slp.TypeLoopback {
			if next == nil {
				return nil
			}
			return next.HandlePacket(c, p)
		}
		reply := slp.Packet{
			Dest:    p.Src,
			Src:     p.Dest,
			Type:    slp.TypeLoopback,
			TxnID:   p.TxnID,
			Payload: p.Payload,
		}
		// Enqueue copies the payload into the job buffer before returning.
		_, err := c.Enqueue(reply)
		return err
	})
}
