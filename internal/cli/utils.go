// Package cli provides CLI output helpers for smartdata.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/hyperjump/smartdata/internal/models"
	"github.com/hyperjump/smartdata/pkg/utils"
)

// OutputFormat is the format for record and product output.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputCompact is one line per item.
	OutputCompact OutputFormat = "compact"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

// ParseOutputFormat maps a flag value to a format. Unknown values are an error.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case "", OutputText:
		return OutputText, nil
	case OutputCompact, OutputJSON:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want text, compact or json)", s)
	}
}

// WriteRecords writes stored records to w in the given format.
func WriteRecords(w io.Writer, records []*models.StoredRecord, format OutputFormat) error {
	switch format {
	case OutputJSON:
		if records == nil {
			records = []*models.StoredRecord{}
		}
		return writeJSON(w, records)
	case OutputCompact:
		for _, rec := range records {
			fmt.Fprintf(w, "%s\t%s\t%s\n", rec.ID, signatureLabel(rec.Tags), utils.Truncate(dataString(rec.Data), 80))
		}
		return nil
	default:
		fmt.Fprintf(w, "\n%d records\n\n", len(records))
		for _, rec := range records {
			fmt.Fprintf(w, "─────────────────────────────────────────────────────────\n")
			fmt.Fprintf(w, "ID: %s\n", rec.ID)
			fmt.Fprintf(w, "Tags: %s\n", signatureLabel(rec.Tags))
			fmt.Fprintf(w, "Updated: %s\n", rec.UpdatedAt.Format(time.RFC3339))
			fmt.Fprintf(w, "\n%s\n\n", utils.Truncate(dataString(rec.Data), 400))
		}
		return nil
	}
}

// WriteProducts writes catalog products to w in the given format.
func WriteProducts(w io.Writer, products []*models.Product, format OutputFormat) error {
	switch format {
	case OutputJSON:
		if products == nil {
			products = []*models.Product{}
		}
		return writeJSON(w, products)
	case OutputCompact:
		for _, p := range products {
			fmt.Fprintf(w, "%s\t%s\t%s\n", p.ID, p.Name, p.Price)
		}
		return nil
	default:
		fmt.Fprintf(w, "\n%d products\n\n", len(products))
		for _, p := range products {
			fmt.Fprintf(w, "%s  %s\n", p.Name, p.Price)
			if p.Description != "" {
				fmt.Fprintf(w, "    %s\n", utils.Truncate(p.Description, 200))
			}
			fmt.Fprintf(w, "    id: %s\n", p.ID)
		}
		return nil
	}
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func signatureLabel(sig string) string {
	if sig == "" {
		return "(untagged)"
	}
	return sig
}

func dataString(data interface{}) string {
	if s, ok := data.(string); ok {
		return s
	}
	b, err := json.Marshal(data)
	if err != nil {
		return fmt.Sprint(data)
	}
	return string(b)
}
