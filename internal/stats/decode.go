package stats

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// DecodeRowSet parses an API body into a RowSet.
// Accepted shapes: a bare list of objects, an envelope {"data": [...]},
// or a single object (summary endpoints), which becomes a one-row set.
// A null or empty body yields an empty set.
func DecodeRowSet(source string, body []byte) (RowSet, error) {
	set := RowSet{Source: source}
	body = bytes.TrimSpace(body)
	if len(body) == 0 || bytes.Equal(body, []byte("null")) {
		return set, nil
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return set, fmt.Errorf("decode %s: %w", source, err)
	}

	var items []any
	switch v := raw.(type) {
	case []any:
		items = v
	case map[string]any:
		if data, ok := v["data"]; ok {
			switch d := data.(type) {
			case []any:
				items = d
			case map[string]any:
				items = []any{d}
			case nil:
			default:
				return set, fmt.Errorf("decode %s: unexpected data field of type %T", source, data)
			}
		} else {
			items = []any{v}
		}
	default:
		return set, fmt.Errorf("decode %s: unexpected body of type %T", source, raw)
	}

	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		set.Rows = append(set.Rows, rowFromObject(obj))
	}
	return set, nil
}

func rowFromObject(obj map[string]any) MetricRow {
	row := NewRow(nil, nil)
	for k, v := range obj {
		switch val := v.(type) {
		case json.Number:
			if f, err := val.Float64(); err == nil {
				row.Measures[k] = f
			}
		case float64:
			row.Measures[k] = val
		case string:
			row.Attrs[k] = val
			// Numeric columns sometimes arrive as strings (NUMERIC serialised by the API).
			if f, ok := ParseNumber(val); ok {
				row.Measures[k] = f
			}
		case bool:
			row.Attrs[k] = strconv.FormatBool(val)
		}
	}
	return row
}

// ParseNumber parses a decimal string. Blank strings and non-finite values are rejected.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	if f != f || f > 1e300 || f < -1e300 {
		return 0, false
	}
	return f, true
}
