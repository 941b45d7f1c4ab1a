package transfer

import (
	"datagram-transfer/protocol"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	defaultWindowSize = 10
	defaultChunkSize  = protocol.DefaultPayloadSize

	maxChunkSize = protocol.MaxPayloadSize
)

type Config struct {
	// Number of data segments sent per acknowledgement.
	// Both sides must use the same value, a mismatch is not detected.
	// Zero value means the default.
	WindowSize int
	// Payload capacity of a single segment.
	ChunkSize int

	// Upper bound on every blocking receive.
	// Zero value blocks indefinitely.
	Timeout time.Duration
	// Data segments per second the sender may emit.
	// Zero value disables pacing.
	SendRate float64

	// Optional logger, defaults to the package logger
	Logger logrus.FieldLogger
}

func DefaultConfig() Config {
	return Config{
		WindowSize: defaultWindowSize,
		ChunkSize:  defaultChunkSize,
		Logger:     log,
	}
}

func sanitizeConfig(cfg Config) Config {
	if cfg.WindowSize <= 0 {
		cfg.WindowSize = defaultWindowSize
	}
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = defaultChunkSize
	}
	if cfg.ChunkSize > maxChunkSize {
		cfg.ChunkSize = maxChunkSize
	}
	if cfg.Timeout < 0 {
		cfg.Timeout = 0
	}
	if cfg.SendRate < 0 {
		cfg.SendRate = 0
	}
	if cfg.Logger == nil {
		cfg.Logger = log
	}
	return cfg
}
