package storage

import (
	"io/fs"
	"os"
	"path/filepath"
)

// Usage is the file count and byte total under a path.
type Usage struct {
	Files int   `json:"files"`
	Bytes int64 `json:"bytes"`
}

// DiskUsage sums file counts and sizes of the given paths. Each path may be a file or a
// directory (walked recursively). Missing paths and empty strings contribute nothing;
// other errors are returned.
func DiskUsage(paths ...string) (Usage, error) {
	var total Usage
	for _, p := range paths {
		if p == "" {
			continue
		}
		info, err := os.Stat(p)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return Usage{}, err
		}
		if !info.IsDir() {
			total.Files++
			total.Bytes += info.Size()
			continue
		}
		u, err := dirUsage(p)
		if err != nil {
			return Usage{}, err
		}
		total.Files += u.Files
		total.Bytes += u.Bytes
	}
	return total, nil
}

func dirUsage(dir string) (Usage, error) {
	var u Usage
	err := filepath.WalkDir(dir, func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		u.Files++
		u.Bytes += info.Size()
		return nil
	})
	return u, err
}
