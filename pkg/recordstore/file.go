package recordstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

var _ Store[struct{}] = (*JSONFile[struct{}])(nil)

// JSONFile keeps a collection as an indented JSON array in a single file.
// Writes overwrite the file in place; concurrent writers from different
// processes are not coordinated.
type JSONFile[T any] struct {
	path string
}

func NewJSONFile[T any](path string) (*JSONFile[T], error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return nil, errors.New("record file path is required")
	}
	return &JSONFile[T]{path: filepath.Clean(trimmed)}, nil
}

func (f *JSONFile[T]) Path() string {
	return f.path
}

func (f *JSONFile[T]) Load(ctx context.Context) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: read %s: %v", ErrPersistence, f.path, err)
	}

	var records []T
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("%w: %w: decode %s: %v", ErrPersistence, ErrCorrupt, f.path, err)
	}
	if records == nil {
		records = []T{}
	}
	return records, nil
}

func (f *JSONFile[T]) Save(ctx context.Context, records []T) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if records == nil {
		records = []T{}
	}
	return WriteDocument(f.path, records)
}

// WriteDocument writes v as indented JSON to path, creating parent
// directories as needed.
func WriteDocument(path string, v any) error {
	payload, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode %s: %v", ErrPersistence, path, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
		return fmt.Errorf("%w: create dir for %s: %v", ErrPersistence, path, err)
	}
	if err := os.WriteFile(path, payload, filePerm); err != nil {
		return fmt.Errorf("%w: write %s: %v", ErrPersistence, path, err)
	}
	return nil
}

// ReadDocument decodes a single JSON document from path.
// A missing file is reported as ErrNotFound.
func ReadDocument(path string, v any) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ErrNotFound
		}
		return fmt.Errorf("%w: read %s: %v", ErrPersistence, path, err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%w: %w: decode %s: %v", ErrPersistence, ErrCorrupt, path, err)
	}
	return nil
}
