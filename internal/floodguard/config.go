package floodguard

import "time"

// holds flood guard configuration
type Config struct {
	// whether per-chat flood limiting is active
	Enabled bool

	// max updates per chat per window before dropping
	MaxPerWindow int

	// time window for per-chat flood limiting
	Window time.Duration

	// how long delivered update ids are remembered for dedup
	DedupTTL time.Duration
}

// returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Enabled:      true,
		MaxPerWindow: 20,
		Window:       time.Minute,
		DedupTTL:     10 * time.Minute,
	}
}
