package normalize

import (
	"encoding/json"
	"fmt"
	"math"
)

// The on-premises mapper walks loosely typed documents produced by either
// go-toml (int64 numbers) or encoding/json (float64 numbers). These helpers
// read a value with the expected type and fall back to the zero value.

func str(v interface{}) string {
	s, _ := v.(string)
	return s
}

func boolOf(v interface{}) bool {
	b, _ := v.(bool)
	return b
}

func mapOf(v interface{}) map[string]interface{} {
	m, _ := v.(map[string]interface{})
	return m
}

// sliceOf returns v as a list; a single table is treated as a one-element list
func sliceOf(v interface{}) []interface{} {
	switch t := v.(type) {
	case []interface{}:
		return t
	case []map[string]interface{}:
		out := make([]interface{}, 0, len(t))
		for _, m := range t {
			out = append(out, m)
		}
		return out
	case map[string]interface{}:
		return []interface{}{t}
	default:
		return nil
	}
}

// strSlice accepts a list of strings or a single string
func strSlice(v interface{}) []string {
	switch t := v.(type) {
	case string:
		if t == "" {
			return nil
		}
		return []string{t}
	case []string:
		return t
	case []interface{}:
		out := make([]string, 0, len(t))
		for _, item := range t {
			if s, ok := item.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

func intOf(v interface{}) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	case json.Number:
		i, _ := n.Int64()
		return int(i)
	default:
		return 0
	}
}

func typeName(v interface{}) string {
	switch v.(type) {
	case nil:
		return "null"
	case []interface{}:
		return "array"
	case string:
		return "string"
	case bool:
		return "boolean"
	case float64, int64, int, json.Number:
		return "number"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// wholeNumber converts a float to uint64 when it has no fractional part
func wholeNumber(f float64) (uint64, bool) {
	if f < 0 || f != math.Trunc(f) || f > math.MaxUint64 {
		return 0, false
	}
	return uint64(f), true
}
