// Package store persists serialized state documents keyed by run ID.
//
// Backends encode documents with a codec from package codec, so the same
// document can live in memory, on disk, in Redis or in PostgreSQL:
//
//	s, err := store.Open(ctx, &cfg)
//	err = s.Save(ctx, runID, doc)
//	doc, err = s.Load(ctx, runID)
//
// Snapshots layers a serialization.Serializer on top of a Store so callers
// work with state values directly.
package store

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/tailored-agentic-units/statewire/codec"
	"github.com/tailored-agentic-units/statewire/serialization"
)

// Sentinel errors for store operations.
var (
	ErrNotFound       = errors.New("run not found")
	ErrInvalidRunID   = errors.New("invalid run id")
	ErrSaveFailed     = errors.New("save failed")
	ErrLoadFailed     = errors.New("load failed")
	ErrDeleteFailed   = errors.New("delete failed")
	ErrSchemaMissing  = errors.New("schema missing")
	ErrUnknownBackend = errors.New("unknown store backend")
)

// Store persists documents by run ID. Implementations are safe for
// concurrent use.
type Store interface {
	// Save writes doc under runID, replacing any existing document.
	Save(ctx context.Context, runID string, doc serialization.Document) error
	// Load returns the document stored under runID or ErrNotFound.
	Load(ctx context.Context, runID string) (serialization.Document, error)
	// Delete removes runID. Missing run IDs are ignored.
	Delete(ctx context.Context, runID string) error
	// List returns every stored run ID in sorted order.
	List(ctx context.Context) ([]string, error)
}

const maxRunIDLength = 128

var runIDPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._:-]*$`)

// ValidateRunID rejects run IDs that are empty, too long, or unsafe as a
// file name or key suffix.
func ValidateRunID(runID string) error {
	if len(runID) == 0 || len(runID) > maxRunIDLength || !runIDPattern.MatchString(runID) {
		return fmt.Errorf("%w: %q", ErrInvalidRunID, runID)
	}
	return nil
}

func encode(c codec.Codec, runID string, doc serialization.Document) ([]byte, error) {
	if doc == nil {
		return nil, fmt.Errorf("%w: %s: nil document", ErrSaveFailed, runID)
	}
	data, err := c.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrSaveFailed, runID, err)
	}
	return data, nil
}

func decode(c codec.Codec, runID string, data []byte) (serialization.Document, error) {
	doc, err := c.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrLoadFailed, runID, err)
	}
	return doc, nil
}
