package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/amirhossein-jamali/atm-console/internal/domain/entity"
	errs "github.com/amirhossein-jamali/atm-console/internal/domain/error"
	coreport "github.com/amirhossein-jamali/atm-console/internal/domain/port/core"
	"github.com/amirhossein-jamali/atm-console/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/atm-console/internal/infrastructure/adapter/model"
)

// ConfigRepository stores the managed console settings using GORM
type ConfigRepository struct {
	db              *gorm.DB
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

// NewConfigRepository creates a new ConfigRepository instance
func NewConfigRepository(db *gorm.DB, logger coreport.Logger) persistence.ConfigRepository {
	return &ConfigRepository{
		db:              db,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
	}
}

func (r *ConfigRepository) wrap(operation string, err error) error {
	r.logger.Error("Database error on configs", map[string]any{
		"operation":  operation,
		"error":      err.Error(),
		"error_type": string(r.errorClassifier.Classify(err)),
	})
	return fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, err.Error())
}

// List returns every stored entry ordered by key
func (r *ConfigRepository) List(ctx context.Context) ([]entity.ConfigEntry, error) {
	var rows []model.ConfigEntry
	if err := r.db.WithContext(ctx).Order("key ASC").Find(&rows).Error; err != nil {
		return nil, r.wrap("list", err)
	}

	entries := make([]entity.ConfigEntry, len(rows))
	for i, row := range rows {
		entries[i] = entity.ConfigEntry{Key: row.Key, Value: row.Value}
	}
	return entries, nil
}

// Update sets the value of an existing key
func (r *ConfigRepository) Update(ctx context.Context, entry entity.ConfigEntry) error {
	result := r.db.WithContext(ctx).Model(&model.ConfigEntry{}).
		Where("key = ?", entry.Key).
		Update("value", entry.Value)
	if result.Error != nil {
		return r.wrap("update", result.Error)
	}

	if result.RowsAffected == 0 {
		r.logger.Warn("Config key not stored", map[string]any{
			"key": entry.Key,
		})
		return fmt.Errorf("%w: %s", errs.ErrUnknownConfigKey, entry.Key)
	}

	r.logger.Debug("Config updated", map[string]any{
		"key": entry.Key,
	})
	return nil
}

// EnsureKeys inserts the given keys with empty values when missing
func (r *ConfigRepository) EnsureKeys(ctx context.Context, keys []string) error {
	if len(keys) == 0 {
		return nil
	}

	rows := make([]model.ConfigEntry, len(keys))
	for i, key := range keys {
		rows[i] = model.ConfigEntry{Key: key}
	}

	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&rows)
	if result.Error != nil {
		return r.wrap("ensure keys", result.Error)
	}

	if result.RowsAffected > 0 {
		r.logger.Info("Config keys seeded", map[string]any{
			"inserted": result.RowsAffected,
		})
	}
	return nil
}
