// Package catalog serves recommendations from the crawler's local products file.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// FileName is the crawler's product dump inside the watch directory.
const FileName = "products.json"

// LocalProduct is one crawled product. Only its name field is interpreted.
type LocalProduct map[string]interface{}

// Name returns the product's name, or "" when absent or not a string.
func (p LocalProduct) Name() string {
	name, _ := p["name"].(string)
	return name
}

// LoadLocalProducts reads a JSON array of product objects from path.
func LoadLocalProducts(path string) ([]LocalProduct, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}
	var products []LocalProduct
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}
	return products, nil
}

// Recommend returns the products whose name contains query, ignoring case.
// An empty query matches every named product.
func Recommend(products []LocalProduct, query string) []LocalProduct {
	q := strings.ToLower(query)
	matches := make([]LocalProduct, 0)
	for _, p := range products {
		name := p.Name()
		if name == "" {
			continue
		}
		if strings.Contains(strings.ToLower(name), q) {
			matches = append(matches, p)
		}
	}
	return matches
}
