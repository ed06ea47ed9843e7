package driving

import "github.com/studydesk/studydesk-cli/internal/core/domain"

// BucketService manages isolated document collections.
type BucketService interface {
	// Create makes a new bucket. The name is normalized first.
	// Returns domain.ErrAlreadyExists if the bucket exists.
	Create(name string) (*domain.Bucket, error)

	// Open returns an existing bucket.
	// Returns domain.ErrBucketNotFound if it does not exist.
	Open(name string) (*domain.Bucket, error)

	// Use selects a bucket as current, persisting the choice.
	Use(name string) (*domain.Bucket, error)

	// Current returns the currently selected bucket, or nil when none
	// is selected (or the selected bucket has since been deleted).
	Current() (*domain.Bucket, error)

	// List returns all bucket names, sorted.
	List() ([]string, error)

	// Delete removes a bucket and everything in it. If the deleted
	// bucket was current, the current-bucket state is cleared.
	Delete(name string) error
}
