package websocket

import "time"

type Config struct {
	ConnectionBufferSize int
	WriteTimeout         time.Duration
	PongTimeout          time.Duration
	PingInterval         time.Duration
	MaxMessageSize       int64
	// RateLimit is the number of requests per second a session may send, RateBurst its bucket size.
	RateLimit float64
	RateBurst int
	// AuthRateLimit applies per client IP on the register and login routes.
	AuthRateLimit float64
	AuthRateBurst int
}

func DefaultConfig() Config {
	return Config{
		ConnectionBufferSize: 256,
		WriteTimeout:         10 * time.Second,
		PongTimeout:          60 * time.Second,
		PingInterval:         50 * time.Second,
		MaxMessageSize:       64 * 1024,
		RateLimit:            20,
		RateBurst:            40,
		AuthRateLimit:        5,
		AuthRateBurst:        10,
	}
}
