// Package pipeline runs one dropped file through validation, classification, storage, and relocation.
package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/hyperjump/smartdata/internal/mapping"
	"github.com/hyperjump/smartdata/internal/models"
	"github.com/hyperjump/smartdata/internal/relocator"
	"github.com/hyperjump/smartdata/internal/storage"
	"github.com/hyperjump/smartdata/internal/validator"
	"go.uber.org/zap"
)

// Classifier derives tags for a payload.
type Classifier interface {
	Classify(payload interface{}) ([]string, error)
}

// RecordStore persists classified payloads.
type RecordStore interface {
	UpsertRecord(ctx context.Context, payload interface{}, tags []string) (*models.StoredRecord, bool, error)
}

// Relocator moves a consumed file into its category folder.
type Relocator interface {
	Relocate(sourcePath string, tags []string) (string, error)
}

// DecodeError reports a dropped file that is not valid JSON.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Result describes what happened to one file.
type Result struct {
	models.ClassifiedRecord

	Path        string
	Record      *models.StoredRecord
	Created     bool
	Destination string
	StoreErr    error
}

// Pipeline processes files: Validate → Classify → UpsertRecord → Relocate.
type Pipeline struct {
	classifier           Classifier
	store                RecordStore
	relocator            Relocator
	relocateOnStoreError bool
	logger               *zap.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger used for per-file outcomes.
func WithLogger(l *zap.Logger) Option {
	return func(p *Pipeline) { p.logger = l }
}

// WithRelocateOnStoreError moves the file even when storing its record failed.
// By default a file whose record could not be stored stays in the watch directory.
func WithRelocateOnStoreError(enabled bool) Option {
	return func(p *Pipeline) { p.relocateOnStoreError = enabled }
}

// NewPipeline creates a pipeline from its stages.
func NewPipeline(classifier Classifier, store RecordStore, reloc Relocator, opts ...Option) *Pipeline {
	p := &Pipeline{
		classifier: classifier,
		store:      store,
		relocator:  reloc,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ProcessFile reads path as JSON and runs it through the pipeline.
// A decode or validation failure stops before classification and leaves the file in place.
// A mapping failure stops before storage. A storage failure stops before relocation unless
// WithRelocateOnStoreError is set, in which case the file is moved and the storage error is
// still returned. The Result is non-nil whenever the payload was classified.
func (p *Pipeline) ProcessFile(ctx context.Context, path string) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var payload interface{}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}
	if _, err := validator.Validate(payload); err != nil {
		return nil, err
	}
	tags, err := p.classifier.Classify(payload)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Path:             path,
		ClassifiedRecord: models.ClassifiedRecord{Payload: payload, Tags: tags},
	}
	rec, created, err := p.store.UpsertRecord(ctx, res.Payload, res.Tags)
	if err != nil {
		res.StoreErr = err
		if !p.relocateOnStoreError {
			return res, err
		}
	} else {
		res.Record = rec
		res.Created = created
	}

	dest, err := p.relocator.Relocate(path, res.Tags)
	if err != nil {
		return res, err
	}
	res.Destination = dest
	return res, res.StoreErr
}

// HandleFile processes path and logs the outcome. It never returns an error so a failing
// file cannot stop the watcher; it is the watcher callback.
func (p *Pipeline) HandleFile(ctx context.Context, path string) {
	res, err := p.ProcessFile(ctx, path)
	if err == nil {
		p.logger.Info("file processed",
			zap.String("path", path),
			zap.Strings("tags", res.Tags),
			zap.String("record_id", res.Record.ID),
			zap.Bool("created", res.Created),
			zap.String("destination", res.Destination),
		)
		return
	}
	fields := []zap.Field{zap.String("path", path), zap.Error(err)}
	var (
		decodeErr *DecodeError
		validErr  *validator.ValidationError
		cfgErr    *mapping.ConfigurationError
		storeErr  *storage.StorageError
		relErr    *relocator.RelocationError
	)
	switch {
	case errors.As(err, &decodeErr), errors.As(err, &validErr):
		p.logger.Warn("skipping file", fields...)
	case errors.As(err, &cfgErr):
		p.logger.Error("keyword mapping unavailable, file left in place", fields...)
	case errors.As(err, &relErr):
		p.logger.Error("error moving file", fields...)
	case errors.As(err, &storeErr):
		if res != nil && res.Destination != "" {
			fields = append(fields, zap.String("destination", res.Destination))
			p.logger.Error("error storing data, file relocated without a record", fields...)
			return
		}
		p.logger.Error("error storing data, file left in place", fields...)
	default:
		p.logger.Error("error processing file", fields...)
	}
}
