// Package relocator moves consumed files into category folders chosen from their tags.
package relocator

import (
	"fmt"
	"os"
	"path/filepath"
)

// Tags that select a destination folder, in precedence order.
const (
	TagProduct    = "product"
	TagRegulation = "regulation"
)

// RelocationError reports a file that could not be moved. The file stays where it was.
type RelocationError struct {
	Source      string
	Destination string
	Err         error
}

func (e *RelocationError) Error() string {
	return fmt.Sprintf("relocate %s to %s: %v", e.Source, e.Destination, e.Err)
}

func (e *RelocationError) Unwrap() error { return e.Err }

// Folders names the destination folders, relative to the base directory.
// An empty name means the base directory itself.
type Folders struct {
	Products    string
	Regulations string
	Default     string
}

// Relocator moves files under one base directory for the lifetime of a run.
type Relocator struct {
	baseDir string
	folders Folders
}

// NewRelocator creates a relocator rooted at baseDir.
func NewRelocator(baseDir string, folders Folders) *Relocator {
	return &Relocator{baseDir: filepath.Clean(baseDir), folders: folders}
}

// BaseDir returns the directory all destinations live under.
func (r *Relocator) BaseDir() string { return r.baseDir }

// Folders returns every destination directory as an absolute path, products first.
func (r *Relocator) Folders() []string {
	return []string{
		filepath.Join(r.baseDir, r.folders.Products),
		filepath.Join(r.baseDir, r.folders.Regulations),
		filepath.Join(r.baseDir, r.folders.Default),
	}
}

// Destination returns the folder for tags. First match wins: a "product" tag selects the
// products folder, then "regulation" the regulations folder, otherwise the default folder.
func (r *Relocator) Destination(tags []string) string {
	switch {
	case contains(tags, TagProduct):
		return filepath.Join(r.baseDir, r.folders.Products)
	case contains(tags, TagRegulation):
		return filepath.Join(r.baseDir, r.folders.Regulations)
	default:
		return filepath.Join(r.baseDir, r.folders.Default)
	}
}

// Relocate moves sourcePath into the destination folder for tags, keeping its base name,
// and returns the new path. The folder is created if missing. A missing source or an
// unwritable destination returns a *RelocationError.
func (r *Relocator) Relocate(sourcePath string, tags []string) (string, error) {
	dir := r.Destination(tags)
	dest := filepath.Join(dir, filepath.Base(sourcePath))
	if _, err := os.Stat(sourcePath); err != nil {
		return "", &RelocationError{Source: sourcePath, Destination: dest, Err: err}
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", &RelocationError{Source: sourcePath, Destination: dest, Err: err}
	}
	if err := os.Rename(sourcePath, dest); err != nil {
		return "", &RelocationError{Source: sourcePath, Destination: dest, Err: err}
	}
	return dest, nil
}

func contains(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}
