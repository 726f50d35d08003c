package lightclient

import (
	"github.com/rony4d/go-lightclient/history"
)

// Retention period bounds, in seconds.
const (
	MinRetentionPeriod uint32 = 60 * 60
	MaxRetentionPeriod uint32 = 365 * 24 * 60 * 60
)

// Config holds runtime parameters that are not part of the decided state.
type Config struct {
	// MaxEvictPerAppend bounds the stale history slots cleared per accepted
	// update, 0 meaning unbounded.
	MaxEvictPerAppend uint64
}

// DefaultConfig returns the default runtime parameters.
func DefaultConfig() Config {
	return Config{
		MaxEvictPerAppend: history.DefaultMaxEvictPerAppend,
	}
}
