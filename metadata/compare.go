package metadata

import (
	"cmp"
	"math"
	"strings"
)

// Compare returns the natural ordering of a and b: -1, 0 or +1.
//
// Values of different kinds order by rank: null, numbers, strings, bools,
// arrays. Int and Float are both numbers and compare numerically. Strings
// compare lexicographically by bytes, false sorts before true and arrays
// compare element-wise, then by length.
func Compare(a, b Value) int {
	ra, rb := rank(a.Kind), rank(b.Kind)
	if ra != rb {
		return cmp.Compare(ra, rb)
	}

	switch a.Kind {
	case KindNull, KindInvalid:
		return 0
	case KindInt, KindFloat:
		return compareNumbers(a, b)
	case KindString:
		if a.s == b.s {
			return 0
		}
		return strings.Compare(a.s.Value(), b.s.Value())
	case KindBool:
		switch {
		case a.B == b.B:
			return 0
		case !a.B:
			return -1
		default:
			return 1
		}
	case KindArray:
		n := min(len(a.A), len(b.A))
		for i := 0; i < n; i++ {
			if c := Compare(a.A[i], b.A[i]); c != 0 {
				return c
			}
		}
		return cmp.Compare(len(a.A), len(b.A))
	}
	return 0
}

// Less reports whether a sorts before b under Compare.
func Less(a, b Value) bool {
	return Compare(a, b) < 0
}

// compareNumbers orders two numeric values exactly. An Int is never
// rounded to float64, so Int(2^53+1) and Float(2^53) differ.
func compareNumbers(a, b Value) int {
	switch {
	case a.Kind == KindInt && b.Kind == KindInt:
		return cmp.Compare(a.I64, b.I64)
	case a.Kind == KindFloat && b.Kind == KindFloat:
		return cmp.Compare(a.F64, b.F64)
	case a.Kind == KindInt:
		return -compareFloatInt(b.F64, a.I64)
	default:
		return compareFloatInt(a.F64, b.I64)
	}
}

func compareFloatInt(f float64, i int64) int {
	if math.IsNaN(f) {
		return -1
	}
	if n, ok := Int64FromFloat(f); ok {
		return cmp.Compare(n, i)
	}
	switch {
	case f >= 1<<63:
		return 1
	case f < -(1 << 63):
		return -1
	}
	// f has a fractional part; compare its integer part first.
	t := int64(f)
	if c := cmp.Compare(t, i); c != 0 {
		return c
	}
	if f > float64(t) {
		return 1
	}
	return -1
}

func rank(k Kind) int {
	switch k {
	case KindNull:
		return 1
	case KindInt, KindFloat:
		return 2
	case KindString:
		return 3
	case KindBool:
		return 4
	case KindArray:
		return 5
	default:
		return 0
	}
}
