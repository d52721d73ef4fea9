package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/hyperjump/smartdata/internal/models"
)

func sampleRecords() []*models.StoredRecord {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	return []*models.StoredRecord{
		{ID: "r1", Data: map[string]interface{}{"desc": "a product"}, Tags: "product", CreatedAt: now, UpdatedAt: now},
		{ID: "r2", Data: "plain note", Tags: "", CreatedAt: now, UpdatedAt: now},
	}
}

func TestParseOutputFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    OutputFormat
		wantErr bool
	}{
		{"", OutputText, false},
		{"TEXT", OutputText, false},
		{"compact", OutputCompact, false},
		{"json", OutputJSON, false},
		{"xml", "", true},
	}
	for _, tt := range tests {
		got, err := ParseOutputFormat(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseOutputFormat(%q) = %q, %v", tt.in, got, err)
		}
	}
}

func TestWriteRecords_JSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteRecords(&buf, sampleRecords(), OutputJSON); err != nil {
		t.Fatal(err)
	}
	var decoded []models.StoredRecord
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, buf.String())
	}
	if len(decoded) != 2 || decoded[0].ID != "r1" || decoded[1].Data != "plain note" {
		t.Errorf("decoded: %+v", decoded)
	}
}

func TestWriteRecords_JSON_empty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteRecords(&buf, nil, OutputJSON); err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(buf.String()) != "[]" {
		t.Errorf("empty output = %q, want []", buf.String())
	}
}

func TestWriteRecords_Compact(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteRecords(&buf, sampleRecords(), OutputCompact); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %d, want 2", len(lines))
	}
	if lines[0] != "r1\tproduct\t{\"desc\":\"a product\"}" {
		t.Errorf("line 0 = %q", lines[0])
	}
	if !strings.Contains(lines[1], "(untagged)") {
		t.Errorf("line 1 = %q", lines[1])
	}
}

func TestWriteRecords_Text(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteRecords(&buf, sampleRecords(), OutputText); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"2 records", "ID: r1", "Tags: product", "plain note", "2024-05-01T12:00:00Z"} {
		if !strings.Contains(out, want) {
			t.Errorf("text output missing %q:\n%s", want, out)
		}
	}
}

func TestWriteProducts(t *testing.T) {
	products := []*models.Product{{ID: "p1", Name: "Kettle", Description: "Boils water", Price: "19.99"}}
	var buf bytes.Buffer
	if err := WriteProducts(&buf, products, OutputCompact); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "p1\tKettle\t19.99\n" {
		t.Errorf("compact = %q", buf.String())
	}
	buf.Reset()
	if err := WriteProducts(&buf, products, OutputText); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "Boils water") {
		t.Errorf("text = %q", buf.String())
	}
}
