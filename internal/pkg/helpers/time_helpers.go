// Package helpers holds small parsing utilities shared by bootstrap code.
package helpers

import (
	"time"

	"github.com/rs/zerolog/log"
)

// ParseDuration parses a config duration. Blank input yields fallback
// silently; malformed input yields fallback with a warning. Negative values
// are clamped to zero.
func ParseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		log.Warn().Err(err).Str("value", raw).Dur("fallback", fallback).Msg("Invalid duration, using fallback")
		return fallback
	}
	if d < 0 {
		return 0
	}
	return d
}
