package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/dmitrijs2005/sharebox/internal/filex"
)

// ErrNotJSON is returned by FileRepository for values that are not JSON.
var ErrNotJSON = errors.New("value is not valid JSON")

// FileRepository keeps every key in one JSON object on disk. Values must be
// JSON documents; they are embedded as-is so the file stays readable.
type FileRepository struct {
	mu   sync.RWMutex
	path string
	data map[string]json.RawMessage
}

// NewFileRepository loads path if it exists. A missing file starts empty; an
// unreadable or corrupt file is an error.
func NewFileRepository(path string) (*FileRepository, error) {
	if _, err := filex.EnsureDir(filepath.Dir(path)); err != nil {
		return nil, err
	}

	r := &FileRepository{path: path, data: make(map[string]json.RawMessage)}

	content, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return r, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if len(content) == 0 {
		return r, nil
	}
	if err := json.Unmarshal(content, &r.data); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return r, nil
}

func (r *FileRepository) Get(_ context.Context, key string) ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	v, ok := r.data[key]
	if !ok {
		return nil, nil
	}
	return decodeFileValue(v), nil
}

func (r *FileRepository) Set(ctx context.Context, key string, value []byte) error {
	return r.SetMany(ctx, map[string][]byte{key: value})
}

func (r *FileRepository) SetMany(_ context.Context, values map[string][]byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	next := make(map[string]json.RawMessage, len(r.data)+len(values))
	for k, v := range r.data {
		next[k] = v
	}
	for k, v := range values {
		enc, err := encodeFileValue(v)
		if err != nil {
			return fmt.Errorf("failed to set kv[%s]: %w", k, err)
		}
		next[k] = enc
	}
	if err := r.save(next); err != nil {
		return err
	}
	r.data = next
	return nil
}

func (r *FileRepository) Delete(_ context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.data[key]; !ok {
		return nil
	}
	next := make(map[string]json.RawMessage, len(r.data))
	for k, v := range r.data {
		if k != key {
			next[k] = v
		}
	}
	if err := r.save(next); err != nil {
		return err
	}
	r.data = next
	return nil
}

func (r *FileRepository) List(_ context.Context) (map[string][]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make(map[string][]byte, len(r.data))
	for k, v := range r.data {
		result[k] = decodeFileValue(v)
	}
	return result, nil
}

func (r *FileRepository) Clear(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	empty := make(map[string]json.RawMessage)
	if err := r.save(empty); err != nil {
		return err
	}
	r.data = empty
	return nil
}

// save replaces the file atomically.
func (r *FileRepository) save(data map[string]json.RawMessage) error {
	content, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", r.path, err)
	}
	if err := filex.WriteFileAtomic(r.path, content, 0o600); err != nil {
		return fmt.Errorf("failed to save %s: %w", r.path, err)
	}
	return nil
}

func encodeFileValue(v []byte) (json.RawMessage, error) {
	if !json.Valid(v) {
		return nil, ErrNotJSON
	}
	out := make(json.RawMessage, len(v))
	copy(out, v)
	return out, nil
}

func decodeFileValue(v json.RawMessage) []byte {
	out := make([]byte, len(v))
	copy(out, v)
	return out
}
