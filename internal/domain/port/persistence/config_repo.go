package persistence

import (
	"context"

	"github.com/amirhossein-jamali/atm-console/internal/domain/entity"
)

// ConfigRepository stores the managed configuration entries
type ConfigRepository interface {
	// List returns every stored entry ordered by key
	List(ctx context.Context) ([]entity.ConfigEntry, error)

	// Update sets the value of an existing key
	//
	// Possible errors:
	// - ErrUnknownConfigKey: If the key is not stored
	// - ErrDatabaseConnection: If database connection fails
	Update(ctx context.Context, entry entity.ConfigEntry) error

	// EnsureKeys inserts the given keys with empty values when missing
	EnsureKeys(ctx context.Context, keys []string) error
}
