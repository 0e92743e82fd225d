package metadata

import (
	"encoding/json"
	"fmt"
	"math"
	"slices"
)

// FieldType defines the data type of a record field.
type FieldType uint8

const (
	FieldTypeAny FieldType = iota
	FieldTypeInt
	FieldTypeFloat
	FieldTypeString
	FieldTypeBool
	FieldTypeArray
)

// String returns the string representation of the FieldType.
func (t FieldType) String() string {
	switch t {
	case FieldTypeAny:
		return "Any"
	case FieldTypeInt:
		return "Int"
	case FieldTypeFloat:
		return "Float"
	case FieldTypeString:
		return "String"
	case FieldTypeBool:
		return "Bool"
	case FieldTypeArray:
		return "Array"
	default:
		return "Unknown"
	}
}

// Schema defines the fixed field set of a record type.
type Schema map[string]FieldType

// FieldError describes why a document does not conform to a schema.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("field %q: %s", e.Field, e.Reason)
}

// Has reports whether the schema declares the field.
func (s Schema) Has(field string) bool {
	_, ok := s[field]
	return ok
}

// Fields returns the declared field names in ascending order.
func (s Schema) Fields() []string {
	fields := make([]string, 0, len(s))
	for k := range s {
		fields = append(fields, k)
	}
	slices.Sort(fields)
	return fields
}

// Validate checks that doc carries exactly the declared fields with
// matching types. Null is accepted for every field.
//
// Fields are checked in ascending name order so the reported error is stable.
func (s Schema) Validate(doc Document) error {
	for _, k := range s.Fields() {
		v, ok := doc[k]
		if !ok {
			return &FieldError{Field: k, Reason: "missing"}
		}
		if !checkKind(v.Kind, s[k]) {
			return &FieldError{Field: k, Reason: fmt.Sprintf("has type %s, expected %s", v.Kind, s[k])}
		}
	}
	if len(doc) == len(s) {
		return nil
	}
	extra := make([]string, 0, len(doc))
	for k := range doc {
		if !s.Has(k) {
			extra = append(extra, k)
		}
	}
	slices.Sort(extra)
	return &FieldError{Field: extra[0], Reason: "not declared in schema"}
}

// Coerce converts untyped input (for example decoded JSON) into a Document
// typed by the schema. JSON numbers become Int for Int fields when they are
// integral. Keys not declared in the schema are converted with FromAny and
// left for Validate to reject.
func (s Schema) Coerce(m map[string]any) (Document, error) {
	doc := make(Document, len(m))
	for k, raw := range m {
		v, err := coerce(raw, s[k])
		if err != nil {
			return nil, &FieldError{Field: k, Reason: err.Error()}
		}
		doc[k] = v
	}
	return doc, nil
}

func coerce(raw any, t FieldType) (Value, error) {
	if n, ok := raw.(json.Number); ok {
		if t == FieldTypeInt {
			i, err := n.Int64()
			if err != nil {
				return Value{}, fmt.Errorf("%s is not an integer", n)
			}
			return Int(i), nil
		}
		f, err := n.Float64()
		if err != nil {
			return Value{}, err
		}
		raw = f
	}

	switch t {
	case FieldTypeInt:
		if f, ok := raw.(float64); ok {
			if f != math.Trunc(f) || math.IsInf(f, 0) {
				return Value{}, fmt.Errorf("%v is not an integer", f)
			}
			i, ok := Int64FromFloat(f)
			if !ok {
				return Value{}, fmt.Errorf("%v is out of int64 range", f)
			}
			return Int(i), nil
		}
	case FieldTypeFloat:
		if f, ok := raw.(float64); ok {
			return Float(f), nil
		}
	}
	return FromAny(raw)
}

func checkKind(k Kind, expected FieldType) bool {
	if k == KindNull {
		return true
	}
	switch expected {
	case FieldTypeAny:
		return true
	case FieldTypeInt:
		return k == KindInt
	case FieldTypeFloat:
		return k == KindFloat || k == KindInt // Allow upgrading Int to Float
	case FieldTypeString:
		return k == KindString
	case FieldTypeBool:
		return k == KindBool
	case FieldTypeArray:
		return k == KindArray
	}
	return false
}
