package cli

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestShell(t *testing.T, collection string) (*Shell, *bytes.Buffer) {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Collection = collection

	var out bytes.Buffer
	app, err := NewApp(context.Background(), cfg, &out, io.Discard)
	require.NoError(t, err)
	return NewShell(app, &out), &out
}

// run executes line and returns what it printed.
func run(t *testing.T, sh *Shell, out *bytes.Buffer, line string) string {
	t.Helper()
	out.Reset()
	assert.False(t, sh.Exec(context.Background(), line), line)
	return out.String()
}

func TestShellInventorySession(t *testing.T) {
	sh, out := newTestShell(t, "inventory")

	assert.Equal(t, "stored 1\n", run(t, sh, out, "add id=1 name=Phone category=1 quantity=5 price=1000"))
	assert.Equal(t, "stored 2\n", run(t, sh, out, `add id=2 name="Winter Coat" category=clothing quantity=2 price=150`))
	assert.Equal(t, "2\n", run(t, sh, out, "count"))

	got := run(t, sh, out, "get 2")
	assert.Contains(t, got, "Winter Coat")
	assert.Contains(t, got, "Clothing")

	got = run(t, sh, out, "list sort=price desc")
	assert.Less(t, strings.Index(got, "Phone"), strings.Index(got, "Winter Coat"))

	got = run(t, sh, out, "list category=Electronics")
	assert.Contains(t, got, "Phone")
	assert.NotContains(t, got, "Winter Coat")

	for _, line := range []string{"list category=1", "list category=electronics", "find category=ELECTRONICS"} {
		got = run(t, sh, out, line)
		assert.Contains(t, got, "Phone", line)
		assert.NotContains(t, got, "Winter Coat", line)
	}
	assert.Contains(t, run(t, sh, out, "list category=Toys"), "error: where category: unknown category")

	got = run(t, sh, out, "ls match=coat limit=1")
	assert.NotContains(t, got, "Winter Coat", "match is case-sensitive")

	assert.Contains(t, run(t, sh, out, "add id=3 name=Ball category=Toys quantity=1 price=1"), "error: unknown category")
	assert.Contains(t, run(t, sh, out, "list sort=colour"), "error: invalid query")
	assert.Contains(t, run(t, sh, out, "list limit=-1"), "error: invalid limit")

	assert.Equal(t, "removed 1\n", run(t, sh, out, "remove 1"))
	assert.Equal(t, "not found\n", run(t, sh, out, "rm 1"))
	assert.Equal(t, "not found\n", run(t, sh, out, "get 1"))
	assert.Equal(t, "1\n", run(t, sh, out, "count"))

	got = run(t, sh, out, "stats")
	assert.Contains(t, got, "recstore_operations_total")
	assert.Contains(t, got, "op=add")
	assert.Contains(t, got, "collection=inventory")

	assert.Contains(t, run(t, sh, out, "schema"), "quantity")
	assert.Contains(t, run(t, sh, out, "frobnicate"), "error: unknown command")
	assert.Contains(t, run(t, sh, out, `add name="open`), "error: unterminated quote")
	assert.Empty(t, run(t, sh, out, "   "))
}

func TestShellContactsKeysWithSpaces(t *testing.T) {
	sh, out := newTestShell(t, "contacts")

	assert.Equal(t, "stored John Doe\n",
		run(t, sh, out, `add name="John Doe" phone=123-456-7890 email=john.doe@example.com`))

	assert.Contains(t, run(t, sh, out, "get John Doe"), "john.doe@example.com")
	assert.Contains(t, run(t, sh, out, `get "John Doe"`), "123-456-7890")
	assert.Equal(t, "removed John Doe\n", run(t, sh, out, "remove John Doe"))
}

func TestShellExit(t *testing.T) {
	sh, _ := newTestShell(t, "inventory")

	assert.True(t, sh.Exec(context.Background(), "exit"))
	assert.True(t, sh.Exec(context.Background(), " quit "))
}

func TestSplitArgs(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"list", []string{"list"}},
		{"  add  a=1\tb=2 ", []string{"add", "a=1", "b=2"}},
		{`add name="John Doe"`, []string{"add", "name=John Doe"}},
		{`get 'Jane Smith'`, []string{"get", "Jane Smith"}},
		{`add note=""`, []string{"add", "note="}},
		{`add a="x'y"`, []string{"add", "a=x'y"}},
	}

	for _, tt := range tests {
		got, err := splitArgs(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := splitArgs(`get "John`)
	assert.Error(t, err)
}

func TestParseListArgs(t *testing.T) {
	q, err := parseListArgs([]string{"sort=price", "desc", "match=o", "limit=2", "category=Clothing"})
	require.NoError(t, err)

	assert.Equal(t, "price", string(q.Sort))
	assert.True(t, q.Desc)
	assert.Equal(t, "o", q.Match)
	assert.Equal(t, 2, q.Limit)
	assert.Equal(t, []Condition{{Field: "category", Value: "Clothing"}}, q.Where)

	_, err = parseListArgs([]string{"sideways"})
	assert.Error(t, err)
}
