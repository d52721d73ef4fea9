// Package models defines core data structures for classified records, stored records, and products.
package models

import "time"

// ClassifiedRecord is a payload paired with the tags the classifier derived for it.
// Tags keep classifier order and may contain duplicates.
type ClassifiedRecord struct {
	Payload interface{} `json:"payload"`
	Tags    []string    `json:"tags"`
}

// StoredRecord is a persisted classified record. Tags is the comma-joined tag signature;
// at most one StoredRecord exists per signature.
type StoredRecord struct {
	ID        string      `json:"id" db:"id"`
	Data      interface{} `json:"data" db:"data"`
	Tags      string      `json:"tags" db:"tags"`
	CreatedAt time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt time.Time   `json:"updated_at" db:"updated_at"`
}

// Product is a catalog entry served by the recommend endpoints.
type Product struct {
	ID          string `json:"id" db:"id"`
	Name        string `json:"name" db:"name"`
	Description string `json:"description" db:"description"`
	Price       string `json:"price" db:"price"`
}

// ProductInput is the input for creating a catalog product.
type ProductInput struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Price       string `json:"price"`
}
