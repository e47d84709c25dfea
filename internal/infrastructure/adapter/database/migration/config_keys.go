package migration

import (
	"context"

	"github.com/amirhossein-jamali/atm-console/internal/domain/entity"
	coreport "github.com/amirhossein-jamali/atm-console/internal/domain/port/core"
	"github.com/amirhossein-jamali/atm-console/internal/infrastructure/adapter/repository"
	"gorm.io/gorm"
)

// SeedConfigKeys makes sure every managed key has a row. Existing values are kept.
func SeedConfigKeys(ctx context.Context, db *gorm.DB, logger coreport.Logger) error {
	return repository.NewConfigRepository(db, logger).EnsureKeys(ctx, entity.ConfigKeys)
}
