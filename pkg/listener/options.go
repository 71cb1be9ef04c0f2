package listener

import (
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

// Recognised configuration keys.
const (
	KeyShowOnlyIfEdgeIsExceeded = "showOnlyIfEdgeIsExceeded"
	KeyExecutionTimeEdge        = "executionTimeEdge"
	KeyMemoryUsageEdge          = "memoryUsageEdge"
	KeyMemoryPeakDifferenceEdge = "memoryPeakDifferenceEdge"
)

// Default edges.
const (
	DefaultExecutionTimeEdge        = 100.0
	DefaultMemoryUsageEdge          = 1024.0
	DefaultMemoryPeakDifferenceEdge = 1024.0
)

// Config holds the listener thresholds. A measurement exceeds an edge when it
// is greater than or equal to it.
type Config struct {
	ShowOnlyIfEdgeIsExceeded bool
	// ExecutionTimeEdge is in milliseconds.
	ExecutionTimeEdge float64
	// MemoryUsageEdge is in bytes. It may be fractional.
	MemoryUsageEdge float64
	// MemoryPeakDifferenceEdge is in bytes. It may be fractional.
	MemoryPeakDifferenceEdge float64
}

// DefaultConfig returns the thresholds used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		ShowOnlyIfEdgeIsExceeded: false,
		ExecutionTimeEdge:        DefaultExecutionTimeEdge,
		MemoryUsageEdge:          DefaultMemoryUsageEdge,
		MemoryPeakDifferenceEdge: DefaultMemoryPeakDifferenceEdge,
	}
}

// ParseConfig overlays the recognised keys of configuration onto the
// defaults. Unknown keys and nil values are ignored. Values are not validated;
// a value that cannot be interpreted as the expected kind keeps the default.
func ParseConfig(log logrus.FieldLogger, configuration map[string]any) Config {
	cfg := DefaultConfig()

	if v, ok := configuration[KeyShowOnlyIfEdgeIsExceeded]; ok && v != nil {
		if b, ok := toBool(v); ok {
			cfg.ShowOnlyIfEdgeIsExceeded = b
		} else {
			ignored(log, KeyShowOnlyIfEdgeIsExceeded, v)
		}
	}

	if v, ok := configuration[KeyExecutionTimeEdge]; ok && v != nil {
		if f, ok := toFloat(v); ok {
			cfg.ExecutionTimeEdge = f
		} else {
			ignored(log, KeyExecutionTimeEdge, v)
		}
	}

	if v, ok := configuration[KeyMemoryUsageEdge]; ok && v != nil {
		if f, ok := toFloat(v); ok {
			cfg.MemoryUsageEdge = f
		} else {
			ignored(log, KeyMemoryUsageEdge, v)
		}
	}

	if v, ok := configuration[KeyMemoryPeakDifferenceEdge]; ok && v != nil {
		if f, ok := toFloat(v); ok {
			cfg.MemoryPeakDifferenceEdge = f
		} else {
			ignored(log, KeyMemoryPeakDifferenceEdge, v)
		}
	}

	return cfg
}

// Map returns the configuration in its key/value form.
func (c Config) Map() map[string]any {
	return map[string]any{
		KeyShowOnlyIfEdgeIsExceeded: c.ShowOnlyIfEdgeIsExceeded,
		KeyExecutionTimeEdge:        c.ExecutionTimeEdge,
		KeyMemoryUsageEdge:          c.MemoryUsageEdge,
		KeyMemoryPeakDifferenceEdge: c.MemoryPeakDifferenceEdge,
	}
}

func ignored(log logrus.FieldLogger, key string, value any) {
	log.WithFields(logrus.Fields{
		"key":   key,
		"value": value,
	}).Debug("ignoring configuration value of unexpected type")
}

func toBool(v any) (bool, bool) {
	switch t := v.(type) {
	case bool:
		return t, true
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(t))
		if err != nil {
			return false, false
		}

		return b, true
	}

	if f, ok := toFloat(v); ok {
		return f != 0, true
	}

	return false, false
}

func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int8:
		return float64(t), true
	case int16:
		return float64(t), true
	case int32:
		return float64(t), true
	case int64:
		return float64(t), true
	case uint:
		return float64(t), true
	case uint8:
		return float64(t), true
	case uint16:
		return float64(t), true
	case uint32:
		return float64(t), true
	case uint64:
		return float64(t), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, false
		}

		return f, true
	}

	return 0, false
}
