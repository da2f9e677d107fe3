package storage

import "context"

// ObjectStore abstracts attachment persistence. Implementations: local disk
// and a Google Cloud Storage bucket, selected once at startup by the presence
// of a bucket-name configuration value.
type ObjectStore interface {
	// Save writes the object under name and returns when it is durable.
	Save(ctx context.Context, name string, data []byte) error

	// Delete removes the object. Deleting a missing object is not an error.
	Delete(ctx context.Context, name string) error

	// URL returns the path a client uses to fetch the object.
	URL(name string) string
}
