package repositories

import (
	"context"
	"errors"

	"github.com/upb/task-simplifier/models"
)

// ErrMalformedStore is returned when the configuration store exists but
// cannot be parsed
var ErrMalformedStore = errors.New("configuration store is malformed")

// ConfigRepository handles the provider configuration store
type ConfigRepository interface {
	// Load reads every known provider record. A store that does not exist
	// yet yields an empty mapping and no error. Keys outside the provider
	// set are skipped.
	Load(ctx context.Context) (map[models.Provider]models.ProviderConfig, error)

	// Save writes one provider record, leaving every other entry untouched
	Save(ctx context.Context, provider models.Provider, cfg models.ProviderConfig) error

	// Delete removes one provider record. Deleting an absent record is not
	// an error.
	Delete(ctx context.Context, provider models.Provider) error

	// Location describes where the store lives, for logs and file watching
	Location() string
}
