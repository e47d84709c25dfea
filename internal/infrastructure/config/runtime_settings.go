package config

import (
	"sync"

	"github.com/spf13/viper"

	"github.com/amirhossein-jamali/atm-console/internal/domain/entity"
	configport "github.com/amirhossein-jamali/atm-console/internal/domain/port/config"
)

// ViperSettings keeps the managed console keys in their own viper instance.
// The database is the source of truth; values are applied after every load or commit.
type ViperSettings struct {
	mu sync.RWMutex
	v  *viper.Viper
}

// NewRuntimeSettings creates an empty settings holder. Environment variables
// named like the managed keys with the ATM_ prefix act as fallbacks.
func NewRuntimeSettings() configport.RuntimeSettings {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	for _, key := range entity.ConfigKeys {
		_ = v.BindEnv(key)
	}
	return &ViperSettings{v: v}
}

// Apply replaces the values of the given keys
func (s *ViperSettings) Apply(entries []entity.ConfigEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, entry := range entries {
		s.v.Set(entry.Key, entry.Value)
	}
}

// Value returns the current value of key, or "" when unset
func (s *ViperSettings) Value(key string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.v.GetString(key)
}
