package format

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDuration(t *testing.T) {
	tests := []struct {
		in       time.Duration
		expected string
	}{
		{in: 250 * time.Microsecond, expected: "250µs"},
		{in: 42 * time.Millisecond, expected: "42ms"},
		{in: 1500 * time.Millisecond, expected: "1.5s"},
		{in: 90 * time.Second, expected: "1.5m"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, Duration(tt.in))
		})
	}
}

func TestBytes(t *testing.T) {
	tests := []struct {
		in       int64
		expected string
	}{
		{in: 0, expected: "0 B"},
		{in: 1023, expected: "1023 B"},
		{in: 1024, expected: "1.0 KB"},
		{in: 1536, expected: "1.5 KB"},
		{in: 5 * 1024 * 1024, expected: "5.0 MB"},
		{in: -50, expected: "-50 B"},
		{in: -2048, expected: "-2.0 KB"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, Bytes(tt.in))
		})
	}
}

func TestByteEdge(t *testing.T) {
	tests := []struct {
		in       float64
		expected string
	}{
		{in: 1024, expected: "1.0 KB"},
		{in: 0, expected: "0 B"},
		{in: -1, expected: "-1 B"},
		{in: 1023.5, expected: "1023.5 B"},
		{in: math.Inf(1), expected: "+Inf B"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, ByteEdge(tt.in))
		})
	}
}
