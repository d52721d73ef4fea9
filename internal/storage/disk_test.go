package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDiskUsage(t *testing.T) {
	dir := t.TempDir()

	f1 := filepath.Join(dir, "record.json")
	if err := os.WriteFile(f1, []byte(`{"a":1}`), 0644); err != nil {
		t.Fatal(err)
	}
	got, err := DiskUsage(f1)
	if err != nil {
		t.Fatal(err)
	}
	if got != (Usage{Files: 1, Bytes: 7}) {
		t.Errorf("single file: got %+v", got)
	}

	products := filepath.Join(dir, "product_data")
	if err := os.Mkdir(products, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(products, "a.json"), []byte("ab"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(products, "b.json"), []byte("c"), 0644); err != nil {
		t.Fatal(err)
	}
	got, err = DiskUsage(products)
	if err != nil {
		t.Fatal(err)
	}
	if got != (Usage{Files: 2, Bytes: 3}) {
		t.Errorf("dir: got %+v", got)
	}

	got, err = DiskUsage("", f1, filepath.Join(dir, "missing"), products)
	if err != nil {
		t.Fatal(err)
	}
	if got != (Usage{Files: 3, Bytes: 10}) {
		t.Errorf("mixed: got %+v", got)
	}
}
