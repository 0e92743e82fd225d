package seed

import (
	"bufio"
	"bytes"
	"cmp"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/hupe1980/recstore"
	"github.com/hupe1980/recstore/blobstore"
	"github.com/hupe1980/recstore/codec"
	"github.com/hupe1980/recstore/metadata"
	"golang.org/x/sync/errgroup"
)

// maxLineSize bounds a single JSON Lines record.
const maxLineSize = 4 << 20

// Target receives loaded records. Both *recstore.Store and
// *recstore.Synchronized satisfy it.
type Target[K cmp.Ordered] interface {
	Schema() metadata.Schema
	AddBatch(records ...recstore.Record[K]) error
}

// Loader decodes record dumps from a blob store.
type Loader[K cmp.Ordered] struct {
	blobs       blobstore.BlobStore
	key         KeyField[K]
	codec       codec.Codec
	concurrency int
}

type options struct {
	codec       codec.Codec
	concurrency int
}

// Option configures a Loader.
type Option func(*options)

// WithCodec sets the codec used to decode objects. Defaults to codec.Default.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c != nil {
			o.codec = c
		}
	}
}

// WithConcurrency bounds the number of blobs decoded in parallel.
// Defaults to 4.
func WithConcurrency(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.concurrency = n
		}
	}
}

// NewLoader creates a loader reading from blobs and keying records by key.
func NewLoader[K cmp.Ordered](blobs blobstore.BlobStore, key KeyField[K], optFns ...Option) *Loader[K] {
	opts := options{codec: codec.Default, concurrency: 4}
	for _, fn := range optFns {
		fn(&opts)
	}

	return &Loader[K]{
		blobs:       blobs,
		key:         key,
		codec:       opts.codec,
		concurrency: opts.concurrency,
	}
}

// Load decodes the named blobs concurrently and adds their records to dst
// in argument order, so a key repeated across blobs ends up with the record
// from the last blob. Nothing is added if any blob fails to decode.
// It returns the number of records added.
func (l *Loader[K]) Load(ctx context.Context, dst Target[K], names ...string) (int, error) {
	schema := dst.Schema()
	decoded := make([][]recstore.Record[K], len(names))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(l.concurrency)
	for i, name := range names {
		g.Go(func() error {
			records, err := l.Decode(ctx, schema, name)
			if err != nil {
				return err
			}
			decoded[i] = records
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	var all []recstore.Record[K]
	for _, records := range decoded {
		all = append(all, records...)
	}
	if err := dst.AddBatch(all...); err != nil {
		return 0, fmt.Errorf("seed: %w", err)
	}
	return len(all), nil
}

// LoadPrefix loads every blob whose name starts with prefix, in name order.
func (l *Loader[K]) LoadPrefix(ctx context.Context, dst Target[K], prefix string) (int, error) {
	names, err := l.blobs.List(ctx, prefix)
	if err != nil {
		return 0, fmt.Errorf("seed: list %q: %w", prefix, err)
	}
	return l.Load(ctx, dst, names...)
}

// Decode reads one blob and converts its objects to records conforming to
// schema.
func (l *Loader[K]) Decode(ctx context.Context, schema metadata.Schema, name string) ([]recstore.Record[K], error) {
	blob, err := l.blobs.Open(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("seed: open %s: %w", name, err)
	}
	defer func() { _ = blob.Close() }()

	r, release, err := decompress(blob, CompressionOf(name))
	if err != nil {
		return nil, fmt.Errorf("seed: %s: %w", name, err)
	}
	defer release()

	var records []recstore.Record[K]
	err = l.objects(bufio.NewReader(r), func(pos string, obj map[string]any) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		rec, err := l.record(schema, obj)
		if err != nil {
			return fmt.Errorf("%s: %w", pos, err)
		}
		records = append(records, rec)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("seed: %s: %w", name, err)
	}
	return records, nil
}

// objects calls fn for every object in r, which holds either a JSON array
// or JSON Lines. pos describes the object location for error messages.
func (l *Loader[K]) objects(r *bufio.Reader, fn func(pos string, obj map[string]any) error) error {
	first, err := peekNonSpace(r)
	if errors.Is(err, io.EOF) {
		return nil
	}
	if err != nil {
		return err
	}

	if first == '[' {
		data, err := io.ReadAll(r)
		if err != nil {
			return err
		}
		var objs []map[string]any
		if err := l.codec.Unmarshal(data, &objs); err != nil {
			return err
		}
		for i, obj := range objs {
			if obj == nil {
				return fmt.Errorf("element %d: not an object", i)
			}
			if err := fn(fmt.Sprintf("element %d", i), obj); err != nil {
				return err
			}
		}
		return nil
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for line := 1; sc.Scan(); line++ {
		data := bytes.TrimSpace(sc.Bytes())
		if len(data) == 0 {
			continue
		}
		var obj map[string]any
		if err := l.codec.Unmarshal(data, &obj); err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		if obj == nil {
			return fmt.Errorf("line %d: not an object", line)
		}
		if err := fn(fmt.Sprintf("line %d", line), obj); err != nil {
			return err
		}
	}
	return sc.Err()
}

func (l *Loader[K]) record(schema metadata.Schema, obj map[string]any) (recstore.Record[K], error) {
	raw, ok := obj[l.key.Name]
	if !ok {
		return recstore.Record[K]{}, fmt.Errorf("missing key %q", l.key.Name)
	}

	if !schema.Has(l.key.Name) {
		delete(obj, l.key.Name)
	}
	doc, err := schema.Coerce(obj)
	if err != nil {
		return recstore.Record[K]{}, err
	}
	if err := schema.Validate(doc); err != nil {
		return recstore.Record[K]{}, err
	}

	kv, err := metadata.FromAny(raw)
	if err != nil {
		return recstore.Record[K]{}, fmt.Errorf("key %q: %w", l.key.Name, err)
	}
	key, err := l.key.Parse(kv)
	if err != nil {
		return recstore.Record[K]{}, err
	}
	return recstore.NewRecord(key, doc), nil
}

func peekNonSpace(r *bufio.Reader) (byte, error) {
	for {
		b, err := r.ReadByte()
		if err != nil {
			return 0, err
		}
		switch b {
		case ' ', '\t', '\r', '\n':
			continue
		}
		return b, r.UnreadByte()
	}
}
