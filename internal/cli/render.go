package cli

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/hupe1980/recstore/codec"
	"github.com/hupe1980/recstore/metadata"
	"github.com/olekukonko/tablewriter"
	"github.com/prometheus/client_golang/prometheus"
)

// columns returns the key column followed by the schema fields. A key that
// is also a schema field is not repeated.
func columns(keyField string, schema metadata.Schema) []string {
	fields := schema.Fields()
	if schema.Has(keyField) {
		return fields
	}
	return append([]string{keyField}, fields...)
}

func newTable(w io.Writer, header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	return table
}

// RenderTable writes rows as a text table.
func RenderTable(w io.Writer, keyField string, schema metadata.Schema, rows []Row) {
	cols := columns(keyField, schema)
	table := newTable(w, cols)
	for _, r := range rows {
		line := make([]string, len(cols))
		for i, c := range cols {
			if v, ok := r.Fields[c]; ok {
				line[i] = v.String()
			} else if c == keyField {
				line[i] = fmt.Sprint(r.Key)
			}
		}
		table.Append(line)
	}
	table.Render()
}

// RenderJSON writes rows as a JSON array of plain objects, including the key.
func RenderJSON(w io.Writer, c codec.Codec, keyField string, rows []Row) error {
	objs := make([]map[string]any, len(rows))
	for i, r := range rows {
		m := r.Fields.ToMap()
		if _, ok := m[keyField]; !ok {
			m[keyField] = r.Key
		}
		objs[i] = m
	}

	var (
		data []byte
		err  error
	)
	if ind, ok := c.(codec.Indenter); ok {
		data, err = ind.MarshalIndent(objs, "", "  ")
	} else {
		data, err = c.Marshal(objs)
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// RenderSchema writes the field names and types.
func RenderSchema(w io.Writer, keyField string, schema metadata.Schema) {
	table := newTable(w, []string{"Field", "Type", "Key"})
	if !schema.Has(keyField) {
		table.Append([]string{keyField, "-", "yes"})
	}
	for _, f := range schema.Fields() {
		key := ""
		if f == keyField {
			key = "yes"
		}
		table.Append([]string{f, schema[f].String(), key})
	}
	table.Render()
}

// RenderStats gathers the registry and writes one row per series.
func RenderStats(w io.Writer, g prometheus.Gatherer) error {
	mfs, err := g.Gather()
	if err != nil {
		return err
	}

	table := newTable(w, []string{"Metric", "Labels", "Value"})
	for _, mf := range mfs {
		for _, m := range mf.GetMetric() {
			labels := make([]string, 0, len(m.GetLabel()))
			for _, lp := range m.GetLabel() {
				labels = append(labels, lp.GetName()+"="+lp.GetValue())
			}
			sort.Strings(labels)

			var value string
			switch {
			case m.GetCounter() != nil:
				value = strconv.FormatFloat(m.GetCounter().GetValue(), 'f', -1, 64)
			case m.GetGauge() != nil:
				value = strconv.FormatFloat(m.GetGauge().GetValue(), 'f', -1, 64)
			case m.GetHistogram() != nil:
				h := m.GetHistogram()
				value = fmt.Sprintf("count=%d sum=%g", h.GetSampleCount(), h.GetSampleSum())
			}
			table.Append([]string{mf.GetName(), strings.Join(labels, ","), value})
		}
	}
	table.Render()
	return nil
}
