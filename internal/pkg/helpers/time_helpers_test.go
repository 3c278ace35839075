package helpers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		raw  string
		want time.Duration
	}{
		{"", time.Minute},
		{"90s", 90 * time.Second},
		{"0s", 0},
		{"soon", time.Minute},
		{"-5s", 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseDuration(tt.raw, time.Minute), tt.raw)
	}
}
