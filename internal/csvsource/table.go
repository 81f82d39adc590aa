// Package csvsource reads the call-center CSV exports dropped in the data directory.
package csvsource

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// ErrMissingColumn is returned when a required column is absent.
var ErrMissingColumn = errors.New("missing column")

// Table is a parsed CSV: one header line plus records.
// Duplicate header names are allowed; lookups resolve to the first one.
type Table struct {
	Header  []string
	Records [][]string
}

// Empty reports whether the table has no records.
func (t Table) Empty() bool { return len(t.Records) == 0 }

// Len is the record count.
func (t Table) Len() int { return len(t.Records) }

// Index returns the position of the first column with the name, or -1.
func (t Table) Index(name string) int {
	for i, h := range t.Header {
		if h == name {
			return i
		}
	}
	return -1
}

// Has reports whether the column exists.
func (t Table) Has(name string) bool { return t.Index(name) >= 0 }

// Column returns the values of the first column with the name.
func (t Table) Column(name string) ([]string, bool) {
	idx := t.Index(name)
	if idx < 0 {
		return nil, false
	}
	out := make([]string, len(t.Records))
	for i, rec := range t.Records {
		out[i] = field(rec, idx)
	}
	return out, true
}

// Value returns a single cell by record and column name.
func (t Table) Value(rec []string, name string) string {
	return field(rec, t.Index(name))
}

func field(rec []string, idx int) string {
	if idx < 0 || idx >= len(rec) {
		return ""
	}
	return rec[idx]
}

// Filter keeps the records for which keep returns true.
func (t Table) Filter(keep func(rec []string) bool) Table {
	out := Table{Header: t.Header}
	for _, rec := range t.Records {
		if keep(rec) {
			out.Records = append(out.Records, rec)
		}
	}
	return out
}

// BetweenDates keeps records whose date column falls within [from, to], compared by day.
// Unparseable dates are dropped. A table without the column is returned as is.
func (t Table) BetweenDates(column string, from, to time.Time) Table {
	idx := t.Index(column)
	if idx < 0 || t.Empty() {
		return t
	}
	lo := dayOf(from)
	hi := dayOf(to)
	return t.Filter(func(rec []string) bool {
		d, ok := ParseDate(field(rec, idx))
		if !ok {
			return false
		}
		d = dayOf(d)
		return !d.Before(lo) && !d.After(hi)
	})
}

func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Read parses CSV bytes. Input that is not valid UTF-8 is decoded as Latin-1.
func Read(r io.Reader) (Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Table{}, err
	}
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	if !utf8.Valid(data) {
		data, err = charmap.ISO8859_1.NewDecoder().Bytes(data)
		if err != nil {
			return Table{}, fmt.Errorf("decode latin-1: %w", err)
		}
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return Table{}, nil
	}

	cr := csv.NewReader(bytes.NewReader(data))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	records, err := cr.ReadAll()
	if err != nil {
		return Table{}, fmt.Errorf("parse csv: %w", err)
	}
	if len(records) == 0 {
		return Table{}, nil
	}
	t := Table{Header: records[0]}
	for _, rec := range records[1:] {
		if blank(rec) {
			continue
		}
		t.Records = append(t.Records, rec)
	}
	return t, nil
}

func blank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// Load reads a CSV file. A missing file yields an empty table and no error.
func Load(path string) (Table, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Table{}, nil
		}
		return Table{}, err
	}
	defer f.Close()
	t, err := Read(f)
	if err != nil {
		return Table{}, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}
