package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/tailored-agentic-units/statewire/codec"
	"github.com/tailored-agentic-units/statewire/serialization"
)

type fileStore struct {
	root  string
	codec codec.Codec
	ext   string
}

// NewFileStore creates a Store that writes one file per run ID under root.
// File names carry the codec name as extension; writes go through a
// temporary file and a rename so readers never see a partial document.
func NewFileStore(root string, c codec.Codec) Store {
	if c == nil {
		c = codec.JSON()
	}
	return &fileStore{root: root, codec: c, ext: "." + c.Name()}
}

func (s *fileStore) path(runID string) string {
	return filepath.Join(s.root, runID+s.ext)
}

func (s *fileStore) Save(_ context.Context, runID string, doc serialization.Document) error {
	if err := ValidateRunID(runID); err != nil {
		return err
	}
	data, err := encode(s.codec, runID, doc)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(s.root, 0o755); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrSaveFailed, runID, err)
	}

	tmp, err := os.CreateTemp(s.root, ".tmp-*")
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrSaveFailed, runID, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: %s: %v", ErrSaveFailed, runID, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: %s: %v", ErrSaveFailed, runID, err)
	}

	if err := os.Rename(tmpName, s.path(runID)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: %s: %v", ErrSaveFailed, runID, err)
	}
	return nil
}

func (s *fileStore) Load(_ context.Context, runID string) (serialization.Document, error) {
	if err := ValidateRunID(runID); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path(runID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, runID)
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrLoadFailed, runID, err)
	}
	return decode(s.codec, runID, data)
}

func (s *fileStore) Delete(_ context.Context, runID string) error {
	if err := ValidateRunID(runID); err != nil {
		return err
	}
	if err := os.Remove(s.path(runID)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("%w: %s: %v", ErrDeleteFailed, runID, err)
	}
	return nil
}

func (s *fileStore) List(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrLoadFailed, err)
	}

	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") || !strings.HasSuffix(name, s.ext) {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, s.ext))
	}
	slices.Sort(ids)
	return ids, nil
}
