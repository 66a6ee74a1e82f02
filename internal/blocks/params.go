package blocks

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Params is the data of a block as submitted by the builder. Values arrive as
// JSON numbers, numeric strings or booleans depending on the form control
// that produced them.
type Params map[string]any

// Int returns the value of key as an integer.
func (p Params) Int(key string) (int, bool) {
	switch v := p[key].(type) {
	case float64:
		if v != math.Trunc(v) || math.IsInf(v, 0) {
			return 0, false
		}
		return int(v), true
	case int:
		return v, true
	case json.Number:
		n, err := v.Int64()
		return int(n), err == nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		return n, err == nil
	}
	return 0, false
}

// Limit returns a positive limit from key, or def.
func (p Params) Limit(key string, def int) int {
	if n, ok := p.Int(key); ok && n > 0 {
		return n
	}
	return def
}

// Truthy reports whether key is set to a non-empty value: not false, zero,
// "", "0" or an empty list or object.
func (p Params) Truthy(key string) bool {
	switch v := p[key].(type) {
	case nil:
		return false
	case bool:
		return v
	case float64:
		return v != 0
	case int:
		return v != 0
	case json.Number:
		return v.String() != "0"
	case string:
		return v != "" && v != "0"
	case []any:
		return len(v) > 0
	case map[string]any:
		return len(v) > 0
	}
	return true
}

// OptionalID returns the id stored under key when it is set, or nil.
// A set but non-numeric value also yields nil.
func (p Params) OptionalID(key string) *int {
	if !p.Truthy(key) {
		return nil
	}
	n, ok := p.Int(key)
	if !ok {
		return nil
	}
	return &n
}
