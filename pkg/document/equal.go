package document

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Equal reports deep structural equality of two values: object keys are
// compared order-insensitively, sequence elements order-sensitively,
// and numbers by numeric value regardless of decoding representation
// (json.Number from the JSON path, int64/uint64/float64 from YAML).
func Equal(a, b Value) bool {
	switch av := a.(type) {
	case *Object:
		bv, ok := b.(*Object)
		if !ok {
			return false
		}
		if av.Len() != bv.Len() {
			return false
		}
		for _, key := range av.keys {
			bval, ok := bv.Get(key)
			if !ok {
				return false
			}
			if !Equal(av.values[key], bval) {
				return false
			}
		}
		return true
	case []Value:
		bv, ok := b.([]Value)
		if !ok {
			return false
		}
		if len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !Equal(av[i], bv[i]) {
				return false
			}
		}
		return true
	case nil:
		return b == nil
	default:
		if an, aok := asNumber(a); aok {
			bn, bok := asNumber(b)
			return bok && an == bn
		}
		return a == b
	}
}

// asNumber normalizes any numeric representation to float64.
func asNumber(v Value) (float64, bool) {
	switch n := v.(type) {
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float64:
		return n, true
	case float32:
		return float64(n), true
	default:
		return 0, false
	}
}

// Format renders a value for diff output and audit detail: scalars
// verbatim, containers as compact JSON.
func Format(v Value) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case string:
		return val
	case json.Number:
		return string(val)
	case bool:
		return strconv.FormatBool(val)
	case *Object, []Value:
		data, err := json.Marshal(exportable(val))
		if err != nil {
			return fmt.Sprintf("%v", val)
		}
		return string(data)
	default:
		return fmt.Sprintf("%v", val)
	}
}

// exportable converts a value into types encoding/json can marshal
// directly, losing key order only in Format output.
func exportable(v Value) any {
	switch val := v.(type) {
	case *Object:
		m := make(map[string]any, val.Len())
		for _, key := range val.keys {
			m[key] = exportable(val.values[key])
		}
		return m
	case []Value:
		arr := make([]any, len(val))
		for i, item := range val {
			arr[i] = exportable(item)
		}
		return arr
	default:
		return val
	}
}
