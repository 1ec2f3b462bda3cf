// Package record maps loosely-typed store records onto the strict domain
// entities and back. Every default is applied here, once, right after a read.
package record

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

func stringField(fields map[string]interface{}, key string) string {
	switch v := fields[key].(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	}
	return ""
}

func stringFieldOr(fields map[string]interface{}, fallback string, keys ...string) string {
	for _, key := range keys {
		if s := stringField(fields, key); s != "" {
			return s
		}
	}
	return fallback
}

func boolField(fields map[string]interface{}, key string) bool {
	switch v := fields[key].(type) {
	case bool:
		return v
	case string:
		b, _ := strconv.ParseBool(v)
		return b
	}
	return false
}

func float64Field(fields map[string]interface{}, key string) float64 {
	switch v := fields[key].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int32:
		return float64(v)
	case int64:
		return float64(v)
	case json.Number:
		f, _ := v.Float64()
		return f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err == nil && !math.IsNaN(f) {
			return f
		}
	}
	return 0
}

func int64Field(fields map[string]interface{}, key string) int64 {
	switch v := fields[key].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case int32:
		return int64(v)
	case float64:
		return int64(v)
	case float32:
		return int64(v)
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			f, _ := v.Float64()
			return int64(f)
		}
		return n
	}
	return 0
}

func stringSliceField(fields map[string]interface{}, key string) []string {
	switch v := fields[key].(type) {
	case []string:
		out := make([]string, len(v))
		copy(out, v)
		return out
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// putString sets key only for non-blank values; the store rejects absent markers.
func putString(fields map[string]interface{}, key, value string) {
	if v := strings.TrimSpace(value); v != "" {
		fields[key] = v
	}
}

func putInt64(fields map[string]interface{}, key string, value int64) {
	if value != 0 {
		fields[key] = value
	}
}
