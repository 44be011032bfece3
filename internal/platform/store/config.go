package store

import "time"

// Config aggregates per backend configuration
type Config struct {
	AppName string

	PG   PGConfig
	CH   CHConfig
	NATS NATSConfig
}

// PGConfig configures postgres connectivity and tracing
type PGConfig struct {
	Enabled     bool
	URL         string
	MaxConns    int32
	LogSQL      bool
	SlowQueryMs int

	// boot knobs, zero means default
	ConnectRetries int           // default 20
	PingTimeout    time.Duration // default 3s
}

// CHConfig configures the clickhouse analytics mirror
type CHConfig struct {
	Enabled bool
	URL     string
	Role    string
	Tag     string
}

// NATSConfig configures nats connectivity for event fan-out
type NATSConfig struct {
	Enabled       bool
	URL           string
	ConnectWait   time.Duration // default 5s
	ReconnectWait time.Duration // default 2s
	MaxReconnects int           // default 60
}
