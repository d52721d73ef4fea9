// Package storage defines the persistence interface for classified records and catalog products.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hyperjump/smartdata/internal/models"
)

// SignatureSeparator joins tags into a record signature.
const SignatureSeparator = ","

// ErrNotFound is wrapped by lookups that match no row.
var ErrNotFound = errors.New("not found")

// StorageError reports a failed persistence operation. The transaction it ran in has been rolled back.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// Signature joins tags in the given order. Order and duplicates are significant:
// ["a","b"], ["b","a"] and ["a","a","b"] are three different signatures.
func Signature(tags []string) string {
	return strings.Join(tags, SignatureSeparator)
}

// Storage defines record and product persistence operations.
type Storage interface {
	// Record operations
	UpsertRecord(ctx context.Context, payload interface{}, tags []string) (*models.StoredRecord, bool, error)
	GetRecord(ctx context.Context, id string) (*models.StoredRecord, error)
	GetRecordBySignature(ctx context.Context, signature string) (*models.StoredRecord, error)
	ListRecords(ctx context.Context, offset, limit int) ([]*models.StoredRecord, error)

	// Product operations
	CreateProduct(ctx context.Context, input *models.ProductInput) (*models.Product, error)
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	SearchProductsByName(ctx context.Context, query string) ([]*models.Product, error)

	// Stats
	CountRecords(ctx context.Context) (int64, error)
	CountProducts(ctx context.Context) (int64, error)

	Close() error
}

// MergeData shallow-merges incoming into existing: when both are objects the result holds every
// existing key with incoming keys added or overwritten. Otherwise incoming replaces existing.
// existing is not modified.
func MergeData(existing, incoming interface{}) interface{} {
	oldObj, ok1 := existing.(map[string]interface{})
	newObj, ok2 := incoming.(map[string]interface{})
	if !ok1 || !ok2 {
		return incoming
	}
	merged := make(map[string]interface{}, len(oldObj)+len(newObj))
	for k, v := range oldObj {
		merged[k] = v
	}
	for k, v := range newObj {
		merged[k] = v
	}
	return merged
}
