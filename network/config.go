package network

import "time"

// Config holds spectator server configuration
type Config struct {
	// Address to bind; empty disables the server
	Address string

	// Connection limits
	MaxPeers int

	// Timing
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	PingInterval time.Duration

	// Buffer sizes
	ReadBufferSize  int
	WriteBufferSize int
	SendQueueSize   int

	// FrameEvery broadcasts one of every N frames (1 = every frame)
	FrameEvery int
}

// DefaultConfig returns production-safe defaults
func DefaultConfig() *Config {
	return &Config{
		Address:         "",
		MaxPeers:        16,
		ReadTimeout:     60 * time.Second,
		WriteTimeout:    10 * time.Second,
		PingInterval:    54 * time.Second,
		ReadBufferSize:  1024,
		WriteBufferSize: 16 * 1024,
		SendQueueSize:   8,
		FrameEvery:      2,
	}
}

// DebugConfig returns config bound to addr with every frame broadcast
func DebugConfig(addr string) *Config {
	cfg := DefaultConfig()
	cfg.Address = addr
	cfg.FrameEvery = 1
	return cfg
}
