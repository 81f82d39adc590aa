package stats

import (
	"testing"
)

func TestDecodeRowSet_Shapes(t *testing.T) {
	tests := []struct {
		name string
		body string
		rows int
	}{
		{"BareList", `[{"team_name":"A","casos_abiertos":3},{"team_name":"B","casos_abiertos":1}]`, 2},
		{"Envelope", `{"data":[{"team_name":"A","casos_abiertos":3}]}`, 1},
		{"EnvelopeNull", `{"data":null}`, 0},
		{"SingleObject", `{"conversaciones_entrantes":120,"pct_atendidas":"81.5"}`, 1},
		{"Null", `null`, 0},
		{"Empty", ``, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set, err := DecodeRowSet("test", []byte(tt.body))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if set.Len() != tt.rows {
				t.Errorf("rows = %d, want %d", set.Len(), tt.rows)
			}
		})
	}
}

func TestDecodeRowSet_NumericStrings(t *testing.T) {
	set, err := DecodeRowSet("resumen", []byte(`{"pct_atendidas":"81.50","team_name":"Ventas","dia":"2024-01-01","ok":true}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r := set.Rows[0]
	if v, ok := r.Measure("pct_atendidas"); !ok || v != 81.5 {
		t.Errorf("pct_atendidas = %v (%v), want 81.5", v, ok)
	}
	if _, ok := r.Measure("team_name"); ok {
		t.Error("team_name should not be numeric")
	}
	if _, ok := r.Measure("dia"); ok {
		t.Error("dia should not be numeric")
	}
	if v, _ := r.Attr("ok"); v != "true" {
		t.Errorf("ok attr = %q, want true", v)
	}
}

func TestDecodeRowSet_Invalid(t *testing.T) {
	if _, err := DecodeRowSet("bad", []byte(`"just a string"`)); err == nil {
		t.Error("expected error for scalar body")
	}
	if _, err := DecodeRowSet("bad", []byte(`{not json`)); err == nil {
		t.Error("expected error for malformed body")
	}
}

func TestRowSet_Helpers(t *testing.T) {
	set := RowSet{Rows: []MetricRow{
		NewRow(map[string]string{"team_name": "B", "agent_email": "x@y"}, map[string]float64{"avg": 10, "cnt": 0}),
		NewRow(map[string]string{"team_name": "A"}, map[string]float64{"avg": 0, "cnt": 0}),
		NewRow(map[string]string{"team_name": "CHATBOT"}, map[string]float64{"avg": 30}),
	}}

	if got := set.Distinct("team_name"); len(got) != 3 || got[0] != "A" {
		t.Errorf("Distinct = %v", got)
	}
	if got := set.Without("team_name", []string{" chatbot "}).Len(); got != 2 {
		t.Errorf("Without = %d rows, want 2", got)
	}
	if got := set.Mean("avg"); got != 40.0/3 {
		t.Errorf("Mean = %v", got)
	}
	if got := set.Mean("missing"); got != 0 {
		t.Errorf("Mean(missing) = %v, want 0", got)
	}
	if got := set.DropAllZero([]string{"avg", "cnt"}).Len(); got != 2 {
		t.Errorf("DropAllZero = %d rows, want 2", got)
	}
	if got := set.Where("agent_email", "x@y").Len(); got != 1 {
		t.Errorf("Where = %d rows, want 1", got)
	}
}
