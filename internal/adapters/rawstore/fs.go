package rawstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"distance-matrix-service/internal/domain"
	"distance-matrix-service/internal/ports"
)

// FSStore archives raw responses as JSON files, one per derived name.
// Writes go to a temp file and are renamed into place so a failed write
// never leaves a corrupt partial archive.
type FSStore struct {
	Dir string
}

func NewFSStore(dir string) (*FSStore, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("raw store: dir must be non-empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("raw store: create dir %q: %w", dir, err)
	}
	return &FSStore{Dir: dir}, nil
}

// Put archives a response under name. Put is write-once: an existing file
// with identical content is a no-op, differing content fails with
// ErrKeyConflict.
func (s *FSStore) Put(ctx context.Context, name string, resp *domain.RawResponse) error {
	if resp == nil {
		return errors.New("put raw response: response is nil")
	}

	data, err := json.MarshalIndent(resp, "", "    ")
	if err != nil {
		return fmt.Errorf("put raw response: marshal: %w", err)
	}

	path := filepath.Join(s.Dir, name+".json")

	existing, err := os.ReadFile(path)
	if err == nil {
		if bytes.Equal(existing, data) {
			return nil
		}
		return fmt.Errorf("put raw response %q: %w", name, ports.ErrKeyConflict)
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("put raw response: read existing %q: %w", path, err)
	}

	tmp, err := os.CreateTemp(s.Dir, name+".tmp-*")
	if err != nil {
		return fmt.Errorf("put raw response: create temp: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("put raw response: write temp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("put raw response: close temp: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("put raw response: rename into place: %w", err)
	}

	return nil
}

func (s *FSStore) Get(ctx context.Context, name string) (*domain.RawResponse, error) {
	path := filepath.Join(s.Dir, name+".json")

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, ports.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get raw response: read %q: %w", path, err)
	}

	var resp domain.RawResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("get raw response: parse %q: %w", path, err)
	}

	return &resp, nil
}

// Find scans the archive directory for a file whose name ends in the
// fingerprint. The cosmetic fragment between prefix and fingerprint is
// unknown to callers looking up by identity alone.
func (s *FSStore) Find(ctx context.Context, fingerprint string) (*domain.RawResponse, error) {
	if strings.TrimSpace(fingerprint) == "" {
		return nil, errors.New("find raw response: fingerprint must be non-empty")
	}

	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		return nil, fmt.Errorf("find raw response: read dir %q: %w", s.Dir, err)
	}

	suffix := "_" + fingerprint + ".json"
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), suffix) {
			continue
		}
		return s.Get(ctx, strings.TrimSuffix(e.Name(), ".json"))
	}

	return nil, ports.ErrNotFound
}
