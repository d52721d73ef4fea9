package models

import (
	"testing"
)

func TestRecordListQuery_Normalize(t *testing.T) {
	tests := []struct {
		name       string
		query      RecordListQuery
		wantOffset int
		wantLimit  int
	}{
		{"zero values get default limit", RecordListQuery{}, 0, 50},
		{"negative offset clamped", RecordListQuery{Offset: -3, Limit: 10}, 0, 10},
		{"caps limit at 500", RecordListQuery{Limit: 1000}, 0, 500},
		{"keeps valid values", RecordListQuery{Offset: 20, Limit: 5}, 20, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := tt.query
			q.Normalize()
			if q.Offset != tt.wantOffset || q.Limit != tt.wantLimit {
				t.Errorf("Normalize() = {%d %d}, want {%d %d}", q.Offset, q.Limit, tt.wantOffset, tt.wantLimit)
			}
		})
	}
}

func TestProductInput_Validate(t *testing.T) {
	tests := []struct {
		name    string
		input   ProductInput
		wantErr bool
	}{
		{"valid", ProductInput{Name: "Widget", Price: "9.99"}, false},
		{"trims whitespace", ProductInput{Name: "  Widget ", Price: " 10 "}, false},
		{"empty name", ProductInput{Name: " ", Price: "1"}, true},
		{"empty price", ProductInput{Name: "Widget"}, true},
		{"non-numeric price", ProductInput{Name: "Widget", Price: "cheap"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := tt.input
			err := in.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && (in.Name != "Widget") {
				t.Errorf("name not trimmed: %q", in.Name)
			}
		})
	}
}
