// Package storage provides the SQLite implementation of the Storage interface.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/hyperjump/smartdata/internal/models"
)

// SQLiteStorage implements Storage using SQLite. One *sql.DB is shared by the watcher
// pipeline and the HTTP handlers; SQLite serializes the writers.
type SQLiteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage opens or creates a SQLite database at dbPath and initializes the schema.
// Parent directories are created if they do not exist.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	// Immediate transactions take the write lock at BEGIN so concurrent upserts queue on the
	// busy timeout instead of failing on a read-to-write lock upgrade.
	db, err := sql.Open("sqlite3", dbPath+"?_busy_timeout=5000&_txlock=immediate")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteStorage{db: db}, nil
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS products (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT,
		price TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_products_name ON products(name);

	CREATE TABLE IF NOT EXISTS product_data (
		id TEXT PRIMARY KEY,
		data TEXT NOT NULL,
		tags TEXT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE UNIQUE INDEX IF NOT EXISTS idx_product_data_tags ON product_data(tags);
	`
	_, err := db.Exec(schema)
	return err
}

const recordColumns = `id, data, tags, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(row rowScanner) (*models.StoredRecord, error) {
	var rec models.StoredRecord
	var dataJSON string
	if err := row.Scan(&rec.ID, &dataJSON, &rec.Tags, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(dataJSON), &rec.Data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal record data: %w", err)
	}
	return &rec, nil
}

// UpsertRecord stores payload under the signature of tags. An existing record with the same
// signature gets payload shallow-merged into its data (see MergeData); otherwise a record is
// inserted with a new ID. The bool result is true when a record was inserted.
// Any failure rolls the transaction back and is returned as a *StorageError.
func (s *SQLiteStorage) UpsertRecord(ctx context.Context, payload interface{}, tags []string) (*models.StoredRecord, bool, error) {
	signature := Signature(tags)
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, false, &StorageError{Op: "begin", Err: err}
	}
	defer tx.Rollback()

	existing, err := scanRecord(tx.QueryRowContext(ctx,
		`SELECT `+recordColumns+` FROM product_data WHERE tags = ?`, signature))
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, false, &StorageError{Op: "lookup", Err: err}
	}

	now := time.Now()
	var rec *models.StoredRecord
	created := existing == nil
	if created {
		rec = &models.StoredRecord{
			ID:        uuid.New().String(),
			Data:      payload,
			Tags:      signature,
			CreatedAt: now,
			UpdatedAt: now,
		}
		dataJSON, err := json.Marshal(rec.Data)
		if err != nil {
			return nil, false, &StorageError{Op: "insert", Err: fmt.Errorf("failed to marshal data: %w", err)}
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO product_data (id, data, tags, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
			rec.ID, string(dataJSON), rec.Tags, rec.CreatedAt, rec.UpdatedAt,
		); err != nil {
			return nil, false, &StorageError{Op: "insert", Err: err}
		}
	} else {
		rec = existing
		rec.Data = MergeData(existing.Data, payload)
		rec.UpdatedAt = now
		dataJSON, err := json.Marshal(rec.Data)
		if err != nil {
			return nil, false, &StorageError{Op: "update", Err: fmt.Errorf("failed to marshal data: %w", err)}
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE product_data SET data = ?, updated_at = ? WHERE id = ?`,
			string(dataJSON), rec.UpdatedAt, rec.ID,
		); err != nil {
			return nil, false, &StorageError{Op: "update", Err: err}
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, false, &StorageError{Op: "commit", Err: err}
	}
	return rec, created, nil
}

// GetRecord returns a stored record by ID.
func (s *SQLiteStorage) GetRecord(ctx context.Context, id string) (*models.StoredRecord, error) {
	rec, err := scanRecord(s.db.QueryRowContext(ctx,
		`SELECT `+recordColumns+` FROM product_data WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("record %s: %w", id, ErrNotFound)
	}
	return rec, err
}

// GetRecordBySignature returns the record stored under an exact tag signature.
func (s *SQLiteStorage) GetRecordBySignature(ctx context.Context, signature string) (*models.StoredRecord, error) {
	rec, err := scanRecord(s.db.QueryRowContext(ctx,
		`SELECT `+recordColumns+` FROM product_data WHERE tags = ?`, signature))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("record with tags %q: %w", signature, ErrNotFound)
	}
	return rec, err
}

// ListRecords returns records, most recently updated first, with offset and limit.
func (s *SQLiteStorage) ListRecords(ctx context.Context, offset, limit int) ([]*models.StoredRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+recordColumns+` FROM product_data ORDER BY updated_at DESC, id LIMIT ? OFFSET ?`,
		limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*models.StoredRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// CreateProduct inserts a catalog product. A missing ID is generated.
func (s *SQLiteStorage) CreateProduct(ctx context.Context, input *models.ProductInput) (*models.Product, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	p := &models.Product{
		ID:          input.ID,
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
	}
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO products (id, name, description, price) VALUES (?, ?, ?, ?)`,
		p.ID, p.Name, p.Description, p.Price,
	)
	if err != nil {
		return nil, &StorageError{Op: "insert product", Err: err}
	}
	return p, nil
}

// GetProduct returns a product by ID.
func (s *SQLiteStorage) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	var p models.Product
	var desc sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, description, price FROM products WHERE id = ?`, id,
	).Scan(&p.ID, &p.Name, &desc, &p.Price)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("product %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	p.Description = desc.String
	return &p, nil
}

// SearchProductsByName returns products whose name contains query (SQL LIKE, so ASCII
// letters match case-insensitively). An empty query matches every product.
func (s *SQLiteStorage) SearchProductsByName(ctx context.Context, query string) ([]*models.Product, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, description, price FROM products WHERE name LIKE ? ESCAPE '\' ORDER BY name, id`,
		"%"+escapeLike(query)+"%",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := []*models.Product{}
	for rows.Next() {
		var p models.Product
		var desc sql.NullString
		if err := rows.Scan(&p.ID, &p.Name, &desc, &p.Price); err != nil {
			return nil, err
		}
		p.Description = desc.String
		products = append(products, &p)
	}
	return products, rows.Err()
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// CountRecords returns the total number of stored records.
func (s *SQLiteStorage) CountRecords(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM product_data`).Scan(&count)
	return count, err
}

// CountProducts returns the total number of catalog products.
func (s *SQLiteStorage) CountProducts(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&count)
	return count, err
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}
