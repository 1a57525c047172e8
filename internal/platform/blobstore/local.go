package blobstore

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// LocalBlobStore stores blob content and metadata on the local filesystem.
// Each blob is a pair of files under the base directory: <id>.bin for the
// content and <id>.json for the metadata. Suitable for single-node
// deployments; swap in an object-storage backend behind the BlobStore
// interface for anything larger.
type LocalBlobStore struct {
	dir string
	mu  sync.RWMutex
}

// NewLocalBlobStore creates the base directory if needed and returns a store
// rooted at dir.
func NewLocalBlobStore(dir string) (*LocalBlobStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create blob directory %s: %w", dir, err)
	}
	return &LocalBlobStore{dir: dir}, nil
}

func (s *LocalBlobStore) contentPath(id string) string {
	return filepath.Join(s.dir, id+".bin")
}

func (s *LocalBlobStore) metaPath(id string) string {
	return filepath.Join(s.dir, id+".json")
}

// Upload validates inputs, streams the content to disk, computes a SHA-256
// hash, and writes a metadata sidecar file.
func (s *LocalBlobStore) Upload(_ context.Context, meta BlobMetadata, content io.Reader) (*BlobMetadata, error) {
	if meta.FileName == "" {
		return nil, ErrMissingFileName
	}

	meta.ID = uuid.New().String()

	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Create(s.contentPath(meta.ID))
	if err != nil {
		return nil, fmt.Errorf("create blob file: %w", err)
	}
	defer f.Close()

	h := sha256.New()
	n, err := io.Copy(io.MultiWriter(f, h), io.LimitReader(content, MaxFileSize+1))
	if err != nil {
		os.Remove(s.contentPath(meta.ID))
		return nil, fmt.Errorf("write blob content: %w", err)
	}
	if n > MaxFileSize {
		os.Remove(s.contentPath(meta.ID))
		return nil, ErrFileTooLarge
	}

	meta.Size = n
	meta.Hash = fmt.Sprintf("%x", h.Sum(nil))
	meta.CreatedAt = time.Now().UTC()
	if meta.Tags == nil {
		meta.Tags = make(map[string]string)
	}

	if err := s.writeMeta(meta); err != nil {
		os.Remove(s.contentPath(meta.ID))
		return nil, err
	}

	out := meta // copy
	return &out, nil
}

func (s *LocalBlobStore) writeMeta(meta BlobMetadata) error {
	data, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("marshal blob metadata: %w", err)
	}
	if err := os.WriteFile(s.metaPath(meta.ID), data, 0o644); err != nil {
		return fmt.Errorf("write blob metadata: %w", err)
	}
	return nil
}

func (s *LocalBlobStore) readMeta(id string) (*BlobMetadata, error) {
	data, err := os.ReadFile(s.metaPath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrBlobNotFound
		}
		return nil, fmt.Errorf("read blob metadata: %w", err)
	}
	var meta BlobMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("unmarshal blob metadata: %w", err)
	}
	return &meta, nil
}

// Download returns a reader over the blob content and its metadata.
func (s *LocalBlobStore) Download(_ context.Context, id string) (io.ReadCloser, *BlobMetadata, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	meta, err := s.readMeta(id)
	if err != nil {
		return nil, nil, err
	}

	f, err := os.Open(s.contentPath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, ErrBlobNotFound
		}
		return nil, nil, fmt.Errorf("open blob content: %w", err)
	}

	return f, meta, nil
}

// Delete removes a blob's content and metadata files.
func (s *LocalBlobStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.readMeta(id); err != nil {
		return err
	}

	if err := os.Remove(s.contentPath(id)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove blob content: %w", err)
	}
	if err := os.Remove(s.metaPath(id)); err != nil {
		return fmt.Errorf("remove blob metadata: %w", err)
	}
	return nil
}

// GetMetadata returns blob metadata without content.
func (s *LocalBlobStore) GetMetadata(_ context.Context, id string) (*BlobMetadata, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.readMeta(id)
}

// listAll reads every metadata sidecar in the base directory.
func (s *LocalBlobStore) listAll() ([]*BlobMetadata, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read blob directory: %w", err)
	}

	var metas []*BlobMetadata
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		id := strings.TrimSuffix(entry.Name(), ".json")
		meta, err := s.readMeta(id)
		if err != nil {
			continue // skip unreadable sidecars
		}
		metas = append(metas, meta)
	}

	// Newest first for stable pagination
	sort.Slice(metas, func(i, j int) bool {
		return metas[i].CreatedAt.After(metas[j].CreatedAt)
	})

	return metas, nil
}

// ListByOrder returns blobs for a given order, optionally filtered by
// category.
func (s *LocalBlobStore) ListByOrder(_ context.Context, orderID, category string, limit, offset int) ([]*BlobMetadata, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all, err := s.listAll()
	if err != nil {
		return nil, 0, err
	}

	var matched []*BlobMetadata
	for _, m := range all {
		if m.OrderID != orderID {
			continue
		}
		if category != "" && m.Category != category {
			continue
		}
		matched = append(matched, m)
	}

	return paginate(matched, limit, offset)
}

// Search returns blobs matching the given search parameters.
func (s *LocalBlobStore) Search(_ context.Context, params SearchParams) ([]*BlobMetadata, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all, err := s.listAll()
	if err != nil {
		return nil, 0, err
	}

	var matched []*BlobMetadata
	for _, m := range all {
		if matchesSearch(m, params) {
			matched = append(matched, m)
		}
	}

	return paginate(matched, params.Limit, params.Offset)
}

func paginate(matched []*BlobMetadata, limit, offset int) ([]*BlobMetadata, int, error) {
	total := len(matched)
	if limit <= 0 {
		limit = 20
	}
	if offset > len(matched) {
		offset = len(matched)
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}
