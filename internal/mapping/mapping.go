// Package mapping provides the keyword → tag mapping tables and their YAML-backed store.
package mapping

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Category names, in the order the classifier consults them.
const (
	CategoryProducts    = "products"
	CategoryRegulations = "regulations"
	CategoryTags        = "tags"
)

// Categories lists every category in classification order.
var Categories = []string{CategoryProducts, CategoryRegulations, CategoryTags}

// Entry maps one keyword to the tag it produces.
type Entry struct {
	Keyword string `json:"keyword"`
	Tag     string `json:"tag"`
}

// KeywordMapping holds the ordered keyword entries of each category.
// Entry order is the order of the persisted resource and survives Load/Save.
type KeywordMapping struct {
	Products    []Entry
	Regulations []Entry
	Tags        []Entry
}

// Entries returns the entries of the named category, or nil for an unknown category.
func (m *KeywordMapping) Entries(category string) []Entry {
	switch category {
	case CategoryProducts:
		return m.Products
	case CategoryRegulations:
		return m.Regulations
	case CategoryTags:
		return m.Tags
	}
	return nil
}

func (m *KeywordMapping) setEntries(category string, entries []Entry) bool {
	switch category {
	case CategoryProducts:
		m.Products = entries
	case CategoryRegulations:
		m.Regulations = entries
	case CategoryTags:
		m.Tags = entries
	default:
		return false
	}
	return true
}

// Set maps keyword to tag in category. An existing keyword keeps its position and gets the new tag;
// a new keyword is appended.
func (m *KeywordMapping) Set(category, keyword, tag string) error {
	if !isCategory(category) {
		return fmt.Errorf("unknown category %q", category)
	}
	if keyword == "" {
		return fmt.Errorf("keyword cannot be empty")
	}
	entries := m.Entries(category)
	for i := range entries {
		if entries[i].Keyword == keyword {
			entries[i].Tag = tag
			return nil
		}
	}
	m.setEntries(category, append(entries, Entry{Keyword: keyword, Tag: tag}))
	return nil
}

// Len returns the total number of entries across all categories.
func (m *KeywordMapping) Len() int {
	return len(m.Products) + len(m.Regulations) + len(m.Tags)
}

func isCategory(name string) bool {
	for _, c := range Categories {
		if c == name {
			return true
		}
	}
	return false
}

// UnmarshalYAML decodes the three category sections keeping keyword order.
// Unknown top-level sections are ignored; a null section is empty.
func (m *KeywordMapping) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: keyword mapping must be a mapping of categories", value.Line)
	}
	var out KeywordMapping
	for i := 0; i+1 < len(value.Content); i += 2 {
		key, val := value.Content[i], value.Content[i+1]
		if !isCategory(key.Value) {
			continue
		}
		entries, err := decodeCategory(key.Value, val)
		if err != nil {
			return err
		}
		out.setEntries(key.Value, entries)
	}
	*m = out
	return nil
}

func decodeCategory(category string, node *yaml.Node) ([]Entry, error) {
	if node.Kind == yaml.ScalarNode && node.Tag == "!!null" {
		return nil, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: category %q must be a mapping of keyword to tag", node.Line, category)
	}
	entries := make([]Entry, 0, len(node.Content)/2)
	seen := make(map[string]bool, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		k, v := node.Content[i], node.Content[i+1]
		if k.Kind != yaml.ScalarNode || v.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("line %d: category %q: keyword and tag must be scalars", k.Line, category)
		}
		if seen[k.Value] {
			return nil, fmt.Errorf("line %d: category %q: duplicate keyword %q", k.Line, category, k.Value)
		}
		seen[k.Value] = true
		entries = append(entries, Entry{Keyword: k.Value, Tag: v.Value})
	}
	return entries, nil
}

// MarshalYAML encodes the mapping as ordered YAML mappings, one section per category.
func (m KeywordMapping) MarshalYAML() (interface{}, error) {
	root := &yaml.Node{Kind: yaml.MappingNode}
	for _, category := range Categories {
		section := &yaml.Node{Kind: yaml.MappingNode}
		for _, e := range m.Entries(category) {
			section.Content = append(section.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: e.Keyword},
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: e.Tag},
			)
		}
		root.Content = append(root.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: category},
			section,
		)
	}
	return root, nil
}
