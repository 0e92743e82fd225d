package seed

import (
	"cmp"
	"fmt"
	"math"

	"github.com/hupe1980/recstore/metadata"
)

// KeyField names the attribute holding the record key and parses it.
type KeyField[K cmp.Ordered] struct {
	Name  string
	Parse func(metadata.Value) (K, error)
}

// IntKey reads an integer key from field. Integral floats are accepted
// because undeclared fields are decoded as plain JSON numbers.
func IntKey(field string) KeyField[int64] {
	return KeyField[int64]{
		Name: field,
		Parse: func(v metadata.Value) (int64, error) {
			switch v.Kind {
			case metadata.KindInt:
				return v.I64, nil
			case metadata.KindFloat:
				if i, ok := metadata.Int64FromFloat(v.F64); ok {
					return i, nil
				}
				if v.F64 == math.Trunc(v.F64) && !math.IsInf(v.F64, 0) {
					return 0, fmt.Errorf("key %q: %s is out of int64 range", field, v)
				}
			}
			return 0, fmt.Errorf("key %q: %s is not an integer", field, v)
		},
	}
}

// StringKey reads a string key from field.
func StringKey(field string) KeyField[string] {
	return KeyField[string]{
		Name: field,
		Parse: func(v metadata.Value) (string, error) {
			s, ok := v.AsString()
			if !ok {
				return "", fmt.Errorf("key %q: %s is not a string", field, v)
			}
			return s, nil
		},
	}
}
