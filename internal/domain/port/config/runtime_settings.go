package config

import "github.com/amirhossein-jamali/atm-console/internal/domain/entity"

// RuntimeSettings holds the managed configuration values the running console reads
type RuntimeSettings interface {
	// Apply replaces the values of the given keys
	Apply(entries []entity.ConfigEntry)
	// Value returns the current value of key, or "" when unset
	Value(key string) string
}
