// Package organize files dumped crawler info into per-region category folders.
package organize

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hyperjump/smartdata/pkg/utils"
)

// Regions the organizer accepts, lowercase.
var Regions = []string{"uk", "usa", "australia"}

// Categories are the per-region folders, created even when empty.
var Categories = []string{"products", "regulations", "images"}

// InvalidInputError reports dumped info the organizer cannot place.
type InvalidInputError struct {
	Reason string
}

func (e *InvalidInputError) Error() string { return e.Reason }

// Organizer writes items under baseDir/<Region>/<category>/.
type Organizer struct {
	baseDir string
}

// NewOrganizer creates an organizer rooted at baseDir.
func NewOrganizer(baseDir string) *Organizer {
	return &Organizer{baseDir: baseDir}
}

// RegionDir returns the folder for a region, or "" if the region is unknown.
func (o *Organizer) RegionDir(region string) string {
	region = strings.ToLower(strings.TrimSpace(region))
	for _, r := range Regions {
		if r == region {
			return filepath.Join(o.baseDir, strings.ToUpper(r[:1])+r[1:])
		}
	}
	return ""
}

// Organize writes every item of every category to its own JSON file named by the
// item's filename field and returns the written paths. Input is checked in full
// before anything is written.
func (o *Organizer) Organize(info map[string]interface{}) ([]string, error) {
	if len(info) == 0 {
		return nil, &InvalidInputError{Reason: "No info provided"}
	}
	region, _ := info["region"].(string)
	regionDir := o.RegionDir(region)
	if regionDir == "" {
		return nil, &InvalidInputError{Reason: "Invalid region"}
	}

	type pending struct {
		path string
		item map[string]interface{}
	}
	var writes []pending
	for _, category := range Categories {
		raw, ok := info[category]
		if !ok || raw == nil {
			continue
		}
		items, ok := raw.([]interface{})
		if !ok {
			return nil, &InvalidInputError{Reason: fmt.Sprintf("%s must be a list", category)}
		}
		for i, it := range items {
			item, ok := it.(map[string]interface{})
			if !ok {
				return nil, &InvalidInputError{Reason: fmt.Sprintf("%s[%d] must be an object", category, i)}
			}
			name, _ := item["filename"].(string)
			name = filepath.Base(strings.TrimSpace(name))
			if name == "" || name == "." || name == ".." || name == string(filepath.Separator) {
				return nil, &InvalidInputError{Reason: fmt.Sprintf("%s[%d] has no filename", category, i)}
			}
			writes = append(writes, pending{
				path: filepath.Join(regionDir, category, name),
				item: item,
			})
		}
	}

	for _, category := range Categories {
		if err := os.MkdirAll(filepath.Join(regionDir, category), 0755); err != nil {
			return nil, fmt.Errorf("failed to create %s folder: %w", category, err)
		}
	}
	written := make([]string, 0, len(writes))
	for _, w := range writes {
		data, err := json.Marshal(w.item)
		if err != nil {
			return written, fmt.Errorf("failed to encode %s: %w", w.path, err)
		}
		if err := utils.WriteFileAtomic(w.path, data, 0644); err != nil {
			return written, err
		}
		written = append(written, w.path)
	}
	return written, nil
}
