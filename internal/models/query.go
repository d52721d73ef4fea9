package models

import (
	"fmt"
	"strconv"
	"strings"
)

// RecommendQuery is the body of the recommend endpoints.
type RecommendQuery struct {
	Query string `json:"query"`
}

// RecordListQuery selects a page of stored records.
type RecordListQuery struct {
	Offset int `json:"offset,omitempty"`
	Limit  int `json:"limit,omitempty"`
}

// Normalize clamps offset and limit: limit defaults to 50 and is capped at 500.
func (q *RecordListQuery) Normalize() {
	if q.Offset < 0 {
		q.Offset = 0
	}
	if q.Limit <= 0 {
		q.Limit = 50
	}
	if q.Limit > 500 {
		q.Limit = 500
	}
}

// Validate checks that the product has a name and a decimal price, and trims both.
func (p *ProductInput) Validate() error {
	p.Name = strings.TrimSpace(p.Name)
	p.Price = strings.TrimSpace(p.Price)
	if p.Name == "" {
		return fmt.Errorf("name cannot be empty")
	}
	if p.Price == "" {
		return fmt.Errorf("price cannot be empty")
	}
	if _, err := strconv.ParseFloat(p.Price, 64); err != nil {
		return fmt.Errorf("price must be a decimal number: %q", p.Price)
	}
	return nil
}
