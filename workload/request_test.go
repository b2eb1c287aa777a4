package workload

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Request
	}{
		{
			name:  "prefixed",
			input: `{"iterations": 3, "code": "0x600160010100"}`,
			want: Request{
				Code:       []byte{0x60, 0x01, 0x60, 0x01, 0x01, 0x00},
				Iterations: 3,
			},
		},
		{
			name:  "bare hex with trailing newline",
			input: "{\"iterations\": 1, \"code\": \"00\"}\n",
			want:  Request{Code: []byte{0x00}, Iterations: 1},
		},
		{
			name:  "zero iterations",
			input: `{"iterations": 0, "code": "0x"}`,
			want:  Request{Code: []byte{}, Iterations: 0},
		},
		{
			name:  "only first line is read",
			input: "{\"iterations\": 2, \"code\": \"00\"}\n{\"garbage\"",
			want:  Request{Code: []byte{0x00}, Iterations: 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(strings.NewReader(tt.input))
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}

			if got.Iterations != tt.want.Iterations {
				t.Errorf("iterations = %d, want %d",
					got.Iterations, tt.want.Iterations)
			}
			if !bytes.Equal(got.Code, tt.want.Code) {
				t.Errorf("code = %x, want %x", got.Code, tt.want.Code)
			}
		})
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
		wantMsg string
	}{
		{name: "empty", input: "", wantMsg: "malformed input"},
		{name: "not json", input: "not json at all", wantMsg: "malformed input"},
		{
			name:    "missing iterations",
			input:   `{"code": "0x00"}`,
			wantErr: ErrMissingIterations,
		},
		{
			name:    "missing code",
			input:   `{"iterations": 1}`,
			wantErr: ErrMissingCode,
		},
		{
			name:    "negative iterations",
			input:   `{"iterations": -1, "code": "00"}`,
			wantMsg: "malformed input",
		},
		{name: "invalid hex", input: `{"iterations": 1, "code": "zz"}`, wantMsg: "decode code"},
		{name: "odd hex", input: `{"iterations": 1, "code": "0x600"}`, wantMsg: "decode code"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.input))
			if err == nil {
				t.Fatal("expected error")
			}

			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantMsg != "" && !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error = %q, want it to contain %q", err, tt.wantMsg)
			}
		})
	}
}

func TestEncodeDecode(t *testing.T) {
	req, _ := NewGenerator(Config{Operations: 5, Seed: 9, Iterations: 4}).Generate()

	var buf bytes.Buffer
	if err := Encode(&buf, req); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	if !strings.HasPrefix(buf.String(), `{"iterations":4,"code":"0x`) {
		t.Errorf("unexpected encoding: %s", buf.String())
	}

	got, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if got.Iterations != 4 || !bytes.Equal(got.Code, req.Code) {
		t.Errorf("round trip mismatch: %+v vs %+v", got, req)
	}
}
