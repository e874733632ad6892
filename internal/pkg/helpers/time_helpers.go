package helpers

import "time"

// ParseDuration parses a duration string, falling back to a default on error.
func ParseDuration(s string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return def
	}
	return d
}
