package link

import "github.com/danmuck/hotsync/internal/protocol/slp"

// Config holds connection tuning.
type Config struct {
	// ReadChunkSize is the minimum free space offered to each transport read.
	ReadChunkSize int
	// MaxQueuedJobs bounds the send queue. Zero means unbounded.
	MaxQueuedJobs int
}

func DefaultConfig() Config {
	return Config{
		ReadChunkSize: slp.DefaultChunkSize,
		MaxQueuedJobs: 0,
	}
}
