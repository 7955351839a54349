package domain

import (
	"encoding/json"
	"testing"
)

func TestAmountUnmarshal(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want float64
	}{
		{"number", `12.5`, 12.5},
		{"integer", `40`, 40},
		{"numeric string", `"33.25"`, 33.25},
		{"padded numeric string", `" 7 "`, 7},
		{"null degrades to zero", `null`, 0},
		{"empty string degrades to zero", `""`, 0},
		{"garbage degrades to zero", `"fifty"`, 0},
		{"negative", `-3`, -3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var a Amount
			if err := json.Unmarshal([]byte(tt.raw), &a); err != nil {
				t.Fatalf("unmarshal %s: %v", tt.raw, err)
			}
			if a.Float() != tt.want {
				t.Errorf("got %v, want %v", a.Float(), tt.want)
			}
		})
	}
}

// A malformed amount inside a larger payload must not fail the decode.
func TestAmountInsideStruct(t *testing.T) {
	var body struct {
		Amount Amount `json:"amount"`
		Note   string `json:"note"`
	}

	if err := json.Unmarshal([]byte(`{"amount":"not-a-number","note":"ok"}`), &body); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if body.Amount != 0 || body.Note != "ok" {
		t.Fatalf("decoded = %+v", body)
	}
}
