package driven

import "github.com/studydesk/studydesk-cli/internal/core/domain"

// ConfigStore persists user settings, including the current bucket.
type ConfigStore interface {
	// Load reads the persisted settings. A missing file yields zero
	// settings, not an error.
	Load() (domain.Settings, error)

	// Save persists the settings atomically.
	Save(settings domain.Settings) error
}
