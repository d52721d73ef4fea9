package mapping

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeMapping(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "keyword_mappings.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestStore_LoadKeepsOrder(t *testing.T) {
	path := writeMapping(t, `
products:
  zeta: product
  alpha: product
  widget: gadget
regulations:
  gdpr: regulation
tags:
`)
	m, err := NewStore(path).Load()
	if err != nil {
		t.Fatal(err)
	}
	want := []Entry{{"zeta", "product"}, {"alpha", "product"}, {"widget", "gadget"}}
	if !reflect.DeepEqual(m.Products, want) {
		t.Errorf("products = %v, want %v", m.Products, want)
	}
	if len(m.Regulations) != 1 || m.Regulations[0].Keyword != "gdpr" {
		t.Errorf("regulations = %v", m.Regulations)
	}
	if len(m.Tags) != 0 {
		t.Errorf("null tags section should be empty, got %v", m.Tags)
	}
}

func TestStore_LoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"empty", "   \n"},
		{"malformed", "products: [unclosed"},
		{"top level list", "- products\n- tags\n"},
		{"category not mapping", "products:\n  - product\n"},
		{"duplicate keyword", "products:\n  a: x\n  a: y\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewStore(writeMapping(t, tt.content)).Load()
			var cfgErr *ConfigurationError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("Load() error = %v, want ConfigurationError", err)
			}
		})
	}
	t.Run("missing file", func(t *testing.T) {
		_, err := NewStore(filepath.Join(t.TempDir(), "nope.yaml")).Load()
		var cfgErr *ConfigurationError
		if !errors.As(err, &cfgErr) {
			t.Fatalf("Load() error = %v, want ConfigurationError", err)
		}
		if !errors.Is(err, os.ErrNotExist) {
			t.Errorf("expected wrapped ErrNotExist, got %v", err)
		}
	})
}

func TestStore_SaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "keyword_mappings.yaml")
	store := NewStore(path)
	m := &KeywordMapping{
		Products:    []Entry{{"product", "product"}, {"item", "product"}},
		Regulations: []Entry{{"gdpr", "regulation"}},
		Tags:        []Entry{{"eco", "green"}},
	}
	if err := store.Save(m); err != nil {
		t.Fatal(err)
	}
	loaded, err := store.Load()
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(loaded, m) {
		t.Errorf("loaded = %+v, want %+v", loaded, m)
	}
	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Errorf("expected only the mapping file after save, got %d entries", len(entries))
	}
}

func TestStore_SaveIsVisibleToNextLoad(t *testing.T) {
	store := NewStore(writeMapping(t, "products:\n  product: product\n"))
	m, err := store.Load()
	if err != nil {
		t.Fatal(err)
	}
	if err := m.Set(CategoryProducts, "widget", "product"); err != nil {
		t.Fatal(err)
	}
	if err := store.Save(m); err != nil {
		t.Fatal(err)
	}
	again, err := store.Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(again.Products) != 2 || again.Products[1].Keyword != "widget" {
		t.Errorf("products after save = %v", again.Products)
	}
}

func TestKeywordMapping_Set(t *testing.T) {
	m := &KeywordMapping{Products: []Entry{{"a", "x"}, {"b", "y"}}}
	if err := m.Set(CategoryProducts, "a", "z"); err != nil {
		t.Fatal(err)
	}
	if m.Products[0] != (Entry{"a", "z"}) || len(m.Products) != 2 {
		t.Errorf("existing keyword should be updated in place: %v", m.Products)
	}
	if err := m.Set("colors", "red", "red"); err == nil {
		t.Error("expected error for unknown category")
	}
	if err := m.Set(CategoryTags, "", "x"); err == nil {
		t.Error("expected error for empty keyword")
	}
	if m.Len() != 2 {
		t.Errorf("Len() = %d, want 2", m.Len())
	}
}

func TestKeywordMapping_JSON(t *testing.T) {
	body := `{"tags": {"b": "2", "a": "1"}, "products": {"widget": "product"}, "extra": [1, 2]}`
	var m KeywordMapping
	if err := json.Unmarshal([]byte(body), &m); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(m.Tags, []Entry{{"b", "2"}, {"a", "1"}}) {
		t.Errorf("tags order lost: %v", m.Tags)
	}
	if len(m.Regulations) != 0 {
		t.Errorf("absent regulations should be empty: %v", m.Regulations)
	}
	out, err := json.Marshal(m)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"products":{"widget":"product"},"regulations":{},"tags":{"b":"2","a":"1"}}`
	if string(out) != want {
		t.Errorf("MarshalJSON = %s, want %s", out, want)
	}
}

func TestKeywordMapping_JSONErrors(t *testing.T) {
	bodies := []string{
		`["products"]`,
		`{"products": ["a"]}`,
		`{"products": {"a": 1}}`,
		`{"products": {"a": "x", "a": "y"}}`,
	}
	for _, body := range bodies {
		var m KeywordMapping
		if err := json.Unmarshal([]byte(body), &m); err == nil {
			t.Errorf("Unmarshal(%s) expected error", body)
		}
	}
}
