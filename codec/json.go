package codec

import (
	"encoding/json"
)

// JSON is the standard-library JSON codec.
//
// Record fields are metadata.Document values, which encode as tagged
// objects ({"k":...}); plain dumps are decoded through
// metadata.Schema.Coerce instead.
type JSON struct{}

// Marshal encodes the value to JSON.
func (JSON) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

// Unmarshal decodes the JSON data into v.
func (JSON) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

// Name returns the unique name of the codec ("json").
func (JSON) Name() string { return "json" }

// MarshalIndent encodes the value to indented JSON for human-facing output.
func (JSON) MarshalIndent(v any, prefix, indent string) ([]byte, error) {
	return json.MarshalIndent(v, prefix, indent)
}

// Default is the default codec used by the library.
var Default Codec = GoJSON{}

// Indenter is implemented by codecs that can pretty-print.
type Indenter interface {
	MarshalIndent(v any, prefix, indent string) ([]byte, error)
}
