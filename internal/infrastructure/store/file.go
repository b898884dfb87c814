package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	domain "github.com/gokmen-54/nalburos-web-deploy/internal/domain/store"
)

// FileStore is a RecordStore backed by one pretty-printed JSON file per
// collection, for single-register deployments without a database. Writes
// go through a temp file and rename so a crash mid-write cannot truncate a
// collection. WriteAll is sequential per file; cross-collection atomicity
// needs the Postgres backend.
type FileStore struct {
	dir string
}

// NewFileStore creates the data directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Read returns the collection's records, or an empty list when the file does
// not exist yet.
func (f *FileStore) Read(_ context.Context, c domain.Collection) ([]json.RawMessage, error) {
	raw, err := os.ReadFile(f.path(c))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", c, err)
	}
	// Tolerate a UTF-8 BOM left by external editors.
	raw = []byte(strings.TrimPrefix(string(raw), "\uFEFF"))

	var records []json.RawMessage
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("decode %s: %w", c, err)
	}
	return records, nil
}

// Write replaces the collection file.
func (f *FileStore) Write(_ context.Context, c domain.Collection, records []json.RawMessage) error {
	if records == nil {
		records = []json.RawMessage{}
	}
	blob, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", c, err)
	}

	target := f.path(c)
	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, blob, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", c, err)
	}
	if err := os.Rename(tmp, target); err != nil {
		return fmt.Errorf("replace %s: %w", c, err)
	}
	return nil
}

// WriteAll writes each staged collection in turn.
func (f *FileStore) WriteAll(ctx context.Context, batch map[domain.Collection][]json.RawMessage) error {
	for c, records := range batch {
		if err := f.Write(ctx, c, records); err != nil {
			return err
		}
	}
	return nil
}

func (f *FileStore) path(c domain.Collection) string {
	return filepath.Join(f.dir, string(c)+".json")
}
