// Package file provides a TOML file-based implementation of the config
// store port.
package file

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/studydesk/studydesk-cli/internal/core/domain"
	"github.com/studydesk/studydesk-cli/internal/core/ports/driven"
)

// Ensure ConfigStore implements the interface.
var _ driven.ConfigStore = (*ConfigStore)(nil)

// settingsFile mirrors domain.Settings with TOML tags. Persisted field
// names are stable; renaming a domain field must not break old configs.
type settingsFile struct {
	CurrentBucket     string `toml:"current_bucket,omitempty"`
	APIKey            string `toml:"api_key,omitempty"`
	Model             string `toml:"model,omitempty"`
	EmbeddingProvider string `toml:"embedding_provider,omitempty"`
	EmbeddingModel    string `toml:"embedding_model,omitempty"`
	EmbeddingBaseURL  string `toml:"embedding_base_url,omitempty"`
	ChunkSize         int    `toml:"chunk_size,omitempty"`
	ChunkOverlap      int    `toml:"chunk_overlap,omitempty"`
}

// ConfigStore persists settings in a TOML file within the studydesk
// config directory.
type ConfigStore struct {
	mu       sync.Mutex
	filePath string
}

// NewConfigStore creates a TOML-based config store.
// If configDir is empty, defaults to ~/.studydesk/config.toml.
func NewConfigStore(configDir string) (*ConfigStore, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		configDir = filepath.Join(home, ".studydesk")
	}

	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return nil, err
	}

	return &ConfigStore{
		filePath: filepath.Join(configDir, "config.toml"),
	}, nil
}

// Load reads the persisted settings. A missing file yields zero
// settings.
func (s *ConfigStore) Load() (domain.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.Settings{}, nil
		}
		return domain.Settings{}, fmt.Errorf("reading config: %w", err)
	}

	var sf settingsFile
	if err := toml.Unmarshal(data, &sf); err != nil {
		return domain.Settings{}, fmt.Errorf("parsing config: %w", err)
	}

	return domain.Settings{
		CurrentBucket:     sf.CurrentBucket,
		APIKey:            sf.APIKey,
		Model:             sf.Model,
		EmbeddingProvider: sf.EmbeddingProvider,
		EmbeddingModel:    sf.EmbeddingModel,
		EmbeddingBaseURL:  sf.EmbeddingBaseURL,
		ChunkSize:         sf.ChunkSize,
		ChunkOverlap:      sf.ChunkOverlap,
	}, nil
}

// Save persists the settings. The file is written to a temp path and
// renamed into place so a crash never leaves a half-written config.
func (s *ConfigStore) Save(settings domain.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sf := settingsFile{
		CurrentBucket:     settings.CurrentBucket,
		APIKey:            settings.APIKey,
		Model:             settings.Model,
		EmbeddingProvider: settings.EmbeddingProvider,
		EmbeddingModel:    settings.EmbeddingModel,
		EmbeddingBaseURL:  settings.EmbeddingBaseURL,
		ChunkSize:         settings.ChunkSize,
		ChunkOverlap:      settings.ChunkOverlap,
	}

	data, err := toml.Marshal(sf)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	tmp := s.filePath + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	if err := os.Rename(tmp, s.filePath); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replacing config: %w", err)
	}
	return nil
}

// Path returns the configuration file path.
func (s *ConfigStore) Path() string {
	return s.filePath
}
