// Package table accumulates decoded rows in the order they were produced.
package table

import (
	"fmt"
	"strconv"

	"github.com/zeebo/xxh3"

	"github.com/pfrederiksen/retro-events/internal/decode"
	"github.com/pfrederiksen/retro-events/internal/schema"
)

// Table is an append-only sequence of rows whose columns follow the schema
// order. It is not safe for concurrent appends.
type Table struct {
	rows []decode.Row
}

// New returns an empty table.
func New() *Table {
	return &Table{}
}

// Append adds a row at the end. A row of the wrong width is a programming
// error.
func (t *Table) Append(row decode.Row) {
	if len(row) != schema.Count {
		panic(fmt.Sprintf("table: row has %d columns, want %d", len(row), schema.Count))
	}
	t.rows = append(t.rows, row)
}

// Extend appends every row of other, keeping their order.
func (t *Table) Extend(other *Table) {
	if other == nil {
		return
	}
	t.rows = append(t.rows, other.rows...)
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Rows returns the rows. Callers must not modify them.
func (t *Table) Rows() []decode.Row {
	return t.rows
}

// Row returns row i.
func (t *Table) Row(i int) decode.Row {
	return t.rows[i]
}

// Headers returns the column headers, identical to the schema headers.
func (t *Table) Headers() []string {
	return schema.Headers()
}

// Column returns every value of the named column in row order.
func (t *Table) Column(header string) ([]decode.Value, error) {
	idx, ok := schema.IndexOf(header)
	if !ok {
		return nil, fmt.Errorf("unknown column %q", header)
	}
	out := make([]decode.Value, len(t.rows))
	for i, row := range t.rows {
		out[i] = row[idx]
	}
	return out, nil
}

// Fingerprint hashes the table contents. Tables with the same rows in the
// same order have the same fingerprint.
func (t *Table) Fingerprint() uint64 {
	h := xxh3.New()
	var buf []byte
	for _, row := range t.rows {
		buf = buf[:0]
		for _, v := range row {
			buf = appendValue(buf, v)
		}
		buf = append(buf, '\n')
		_, _ = h.Write(buf)
	}
	return h.Sum64()
}

// appendValue writes a type tag and the value, so "1" and 1 hash differently.
func appendValue(buf []byte, v decode.Value) []byte {
	if !v.Supported() {
		return append(buf, 'u', 0)
	}
	switch x := v.Interface().(type) {
	case string:
		buf = append(buf, 's')
		buf = strconv.AppendQuote(buf, x)
	case int:
		buf = append(buf, 'i')
		buf = strconv.AppendInt(buf, int64(x), 10)
	case bool:
		buf = append(buf, 'b')
		buf = strconv.AppendBool(buf, x)
	default:
		buf = append(buf, 'v')
		buf = append(buf, v.String()...)
	}
	return append(buf, 0)
}

// Concat joins tables in argument order.
func Concat(tables ...*Table) *Table {
	n := 0
	for _, t := range tables {
		if t != nil {
			n += t.Len()
		}
	}
	out := &Table{rows: make([]decode.Row, 0, n)}
	for _, t := range tables {
		out.Extend(t)
	}
	return out
}
