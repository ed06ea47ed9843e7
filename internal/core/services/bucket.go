package services

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/studydesk/studydesk-cli/internal/core/domain"
	"github.com/studydesk/studydesk-cli/internal/core/ports/driven"
	"github.com/studydesk/studydesk-cli/internal/core/ports/driving"
)

// Ensure BucketManager implements the interface.
var _ driving.BucketService = (*BucketManager)(nil)

// BucketManager manages bucket directories under the data directory and
// tracks the current bucket in the config store.
type BucketManager struct {
	dataDir string
	config  driven.ConfigStore
}

// NewBucketManager creates a bucket service rooted at dataDir.
func NewBucketManager(dataDir string, config driven.ConfigStore) *BucketManager {
	return &BucketManager{dataDir: dataDir, config: config}
}

// bucketsDir is where bucket directories live.
func (m *BucketManager) bucketsDir() string {
	return filepath.Join(m.dataDir, "buckets")
}

// Create makes a new bucket directory.
func (m *BucketManager) Create(name string) (*domain.Bucket, error) {
	name = domain.NormalizeBucketName(name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}

	path := filepath.Join(m.bucketsDir(), name)
	if _, err := os.Stat(path); err == nil {
		return nil, domain.ErrAlreadyExists
	}

	if err := os.MkdirAll(path, 0o700); err != nil {
		return nil, fmt.Errorf("creating bucket directory: %w", err)
	}

	return &domain.Bucket{Name: name, Path: path}, nil
}

// Open returns an existing bucket.
func (m *BucketManager) Open(name string) (*domain.Bucket, error) {
	name = domain.NormalizeBucketName(name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}

	path := filepath.Join(m.bucketsDir(), name)
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return nil, domain.ErrBucketNotFound
	}

	return &domain.Bucket{Name: name, Path: path}, nil
}

// Use selects a bucket as current, persisting the choice.
func (m *BucketManager) Use(name string) (*domain.Bucket, error) {
	bucket, err := m.Open(name)
	if err != nil {
		return nil, err
	}

	settings, err := m.config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}
	settings.CurrentBucket = bucket.Name
	if err := m.config.Save(settings); err != nil {
		return nil, fmt.Errorf("saving settings: %w", err)
	}

	return bucket, nil
}

// Current returns the currently selected bucket. A stale selection
// (bucket directory deleted out of band) is cleared and reported as no
// current bucket rather than an error.
func (m *BucketManager) Current() (*domain.Bucket, error) {
	settings, err := m.config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}
	if settings.CurrentBucket == "" {
		return nil, nil
	}

	bucket, err := m.Open(settings.CurrentBucket)
	if err != nil {
		settings.CurrentBucket = ""
		if saveErr := m.config.Save(settings); saveErr != nil {
			return nil, fmt.Errorf("clearing stale bucket: %w", saveErr)
		}
		return nil, nil
	}

	return bucket, nil
}

// List returns all bucket names, sorted.
func (m *BucketManager) List() ([]string, error) {
	entries, err := os.ReadDir(m.bucketsDir())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading buckets directory: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// Delete removes a bucket and all its contents irrecoverably. If the
// deleted bucket was current, the current-bucket state is cleared.
func (m *BucketManager) Delete(name string) error {
	bucket, err := m.Open(name)
	if err != nil {
		return err
	}

	if err := os.RemoveAll(bucket.Path); err != nil {
		return fmt.Errorf("deleting bucket: %w", err)
	}

	settings, err := m.config.Load()
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}
	if settings.CurrentBucket == bucket.Name {
		settings.CurrentBucket = ""
		if err := m.config.Save(settings); err != nil {
			return fmt.Errorf("clearing current bucket: %w", err)
		}
	}

	return nil
}
