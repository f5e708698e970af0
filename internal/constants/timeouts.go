package constants

import "time"

// Timeout constants for various operations
const (
	// Delay between readiness polls of a registered torrent
	DefaultPollInterval = 5 * time.Second

	// 720 polls at 5s bound the readiness wait to one hour
	DefaultMaxPollAttempts = 720

	// Upper bound for a whole stream request served over HTTP
	DefaultStreamTimeout = 65 * time.Minute

	// Timeout for a single torrent search request
	SearchTimeout = 15 * time.Second

	// HTTP server shutdown grace period
	ShutdownTimeout = 10 * time.Second
)
