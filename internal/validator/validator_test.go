package validator

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		want     bool
		wantType string
	}{
		{"object", `{"desc": "product"}`, true, ""},
		{"nested object", `{"a": {"b": [1, 2]}}`, true, ""},
		{"string", `"plain text"`, true, ""},
		{"array", `["product"]`, false, "array"},
		{"number", `42`, false, "number"},
		{"null", `null`, false, "null"},
		{"boolean", `true`, false, "boolean"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var payload interface{}
			if err := json.Unmarshal([]byte(tt.raw), &payload); err != nil {
				t.Fatal(err)
			}
			ok, err := Validate(payload)
			if ok != tt.want {
				t.Errorf("Validate(%s) = %v, want %v", tt.raw, ok, tt.want)
			}
			if tt.want {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("error = %v, want ValidationError", err)
			}
			if vErr.Reason != ReasonShape || vErr.Type != tt.wantType {
				t.Errorf("ValidationError = %+v", vErr)
			}
		})
	}
}
