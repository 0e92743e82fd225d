package codec

import (
	"testing"

	"github.com/hupe1980/recstore/metadata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestByName(t *testing.T) {
	for _, name := range []string{"json", "go-json"} {
		c, ok := ByName(name)
		require.True(t, ok)
		assert.Equal(t, name, c.Name())
	}

	_, ok := ByName("msgpack")
	assert.False(t, ok)
}

func TestCodecsInteroperate(t *testing.T) {
	doc := metadata.Document{
		"name":  metadata.String("Phone"),
		"price": metadata.Int(1000),
		"tags":  metadata.Array([]metadata.Value{metadata.String("a"), metadata.Null()}),
	}

	data := MustMarshal(JSON{}, doc)

	var decoded metadata.Document
	require.NoError(t, GoJSON{}.Unmarshal(data, &decoded))
	assert.True(t, doc.Equal(decoded))
}

func TestMarshalIndentPlainMap(t *testing.T) {
	doc := metadata.Document{"name": metadata.String("Shirt"), "quantity": metadata.Int(3)}

	var c Codec = Default
	ind, ok := c.(Indenter)
	require.True(t, ok)

	out, err := ind.MarshalIndent(doc.ToMap(), "", "  ")
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Shirt","quantity":3}`, string(out))
}

func BenchmarkCodec_Marshal_Document(b *testing.B) {
	doc := metadata.Document{
		"tenant": metadata.String("acme"),
		"doc_id": metadata.Int(42),
		"rating": metadata.Float(4.75),
		"active": metadata.Bool(true),
	}

	for _, c := range []Codec{JSON{}, GoJSON{}} {
		b.Run(c.Name(), func(b *testing.B) {
			b.ReportAllocs()
			for b.Loop() {
				if _, err := c.Marshal(doc); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
