package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/weiihann/evmbench/harness"
)

func sampleResults() []harness.Result {
	return []harness.Result{
		{
			ID:       "wall_time",
			Name:     "Wall Time",
			Unit:     "ns",
			Hostname: "bench-01",
			Values:   []uint64{1500, 900, 2_500_000},
			Gas:      []uint64{9, 9, 9},
		},
		{
			ID:       "cpu_cycles",
			Name:     "CPU Cycles",
			Unit:     "N",
			Hostname: "bench-01",
			Values:   []uint64{4000, 3900, 3950},
			Gas:      []uint64{9, 9, 9},
		},
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, sampleResults()); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}

	output := buf.String()
	if strings.Count(output, "\n") != 1 || !strings.HasSuffix(output, "\n") {
		t.Errorf("expected a single line, got %q", output)
	}

	var parsed []map[string]any
	if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}

	if len(parsed) != 2 {
		t.Fatalf("expected 2 results, got %d", len(parsed))
	}
	for _, key := range []string{"id", "name", "unit", "hostname", "values", "gas"} {
		if _, ok := parsed[0][key]; !ok {
			t.Errorf("missing key %q", key)
		}
	}
	if !strings.Contains(output, `"values":[1500,900,2500000]`) {
		t.Errorf("values not encoded as integers: %s", output)
	}
}

func TestWriteJSONEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, nil); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}

	if buf.String() != "[]\n" {
		t.Errorf("output = %q, want []", buf.String())
	}

	buf.Reset()
	empty := []harness.Result{{ID: "wall_time", Values: []uint64{}, Gas: []uint64{}}}
	if err := WriteJSON(&buf, empty); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}
	if !strings.Contains(buf.String(), `"values":[],"gas":[]`) {
		t.Errorf("empty sequences not encoded as arrays: %s", buf.String())
	}
}

func TestWriteTable(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteTable(&buf, sampleResults()); err != nil {
		t.Fatalf("WriteTable failed: %v", err)
	}

	output := buf.String()

	for _, want := range []string{
		"### Wall Time (`wall_time`, ns) on bench-01",
		"### CPU Cycles (`cpu_cycles`, N) on bench-01",
		"| 0 | 1500 (1.50µs) | 9 |",
		"| 1 | 900 | 9 |",
		"| 2 | 2500000 (2.50ms) | 9 |",
		"| 2 | 3950 | 9 |",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output:\n%s", want, output)
		}
	}
}

func TestWriteTableNoIterations(t *testing.T) {
	var buf bytes.Buffer
	results := []harness.Result{{ID: "wall_time", Name: "Wall Time", Unit: "ns"}}

	if err := WriteTable(&buf, results); err != nil {
		t.Fatalf("WriteTable failed: %v", err)
	}
	if !strings.Contains(buf.String(), "No iterations.") {
		t.Errorf("expected no-iterations note:\n%s", buf.String())
	}
}

func TestWriteTableEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteTable(&buf, nil); err == nil {
		t.Error("expected error for empty results")
	}
}

func TestFormatNs(t *testing.T) {
	tests := []struct {
		input uint64
		want  string
	}{
		{1000, "1.00µs"},
		{1500, "1.50µs"},
		{999_999, "1000.00µs"},
		{1_000_000, "1.00ms"},
		{1_500_000_000, "1.50s"},
	}

	for _, tt := range tests {
		got := formatNs(tt.input)
		if got != tt.want {
			t.Errorf("formatNs(%d) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
