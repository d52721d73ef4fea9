package relocator

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

var testFolders = Folders{Products: "product_data", Regulations: "regsdata", Default: ""}

func TestRelocator_Destination(t *testing.T) {
	base := t.TempDir()
	r := NewRelocator(base, testFolders)
	tests := []struct {
		name string
		tags []string
		want string
	}{
		{"product first", []string{"regulation", "product"}, filepath.Join(base, "product_data")},
		{"product only", []string{"product"}, filepath.Join(base, "product_data")},
		{"regulation only", []string{"regulation"}, filepath.Join(base, "regsdata")},
		{"other tags", []string{"eco", "green"}, base},
		{"no tags", nil, base},
		{"substring is not a tag", []string{"products", "regulations"}, base},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Destination(tt.tags); got != tt.want {
				t.Errorf("Destination(%v) = %s, want %s", tt.tags, got, tt.want)
			}
		})
	}
}

func TestRelocator_RelocateCreatesFolder(t *testing.T) {
	base := t.TempDir()
	watch := t.TempDir()
	src := filepath.Join(watch, "drop.json")
	if err := os.WriteFile(src, []byte(`{"desc":"product"}`), 0644); err != nil {
		t.Fatal(err)
	}
	r := NewRelocator(base, testFolders)
	dest, err := r.Relocate(src, []string{"regulation"})
	if err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(base, "regsdata", "drop.json")
	if dest != want {
		t.Errorf("dest = %s, want %s", dest, want)
	}
	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Error("source should be gone after move")
	}
	data, err := os.ReadFile(dest)
	if err != nil || string(data) != `{"desc":"product"}` {
		t.Errorf("moved file content = %q, %v", data, err)
	}
}

func TestRelocator_FolderAlreadyExists(t *testing.T) {
	base := t.TempDir()
	if err := os.MkdirAll(filepath.Join(base, "product_data"), 0755); err != nil {
		t.Fatal(err)
	}
	src := filepath.Join(t.TempDir(), "a.json")
	_ = os.WriteFile(src, []byte("{}"), 0644)
	if _, err := NewRelocator(base, testFolders).Relocate(src, []string{"product"}); err != nil {
		t.Fatal(err)
	}
}

func TestRelocator_MissingSource(t *testing.T) {
	r := NewRelocator(t.TempDir(), testFolders)
	_, err := r.Relocate(filepath.Join(t.TempDir(), "gone.json"), nil)
	var relErr *RelocationError
	if !errors.As(err, &relErr) {
		t.Fatalf("error = %v, want RelocationError", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected wrapped ErrNotExist, got %v", err)
	}
}

func TestRelocator_UnwritableDestination(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission checks do not apply")
	}
	base := t.TempDir()
	if err := os.Chmod(base, 0555); err != nil {
		t.Fatal(err)
	}
	defer os.Chmod(base, 0755)
	src := filepath.Join(t.TempDir(), "a.json")
	_ = os.WriteFile(src, []byte("{}"), 0644)
	_, err := NewRelocator(base, testFolders).Relocate(src, []string{"product"})
	var relErr *RelocationError
	if !errors.As(err, &relErr) {
		t.Fatalf("error = %v, want RelocationError", err)
	}
	if _, statErr := os.Stat(src); statErr != nil {
		t.Errorf("source should remain after failed move: %v", statErr)
	}
}

func TestRelocator_Folders(t *testing.T) {
	r := NewRelocator("/data/desk", testFolders)
	got := r.Folders()
	if len(got) != 3 || got[0] != "/data/desk/product_data" || got[2] != "/data/desk" {
		t.Errorf("Folders() = %v", got)
	}
}
