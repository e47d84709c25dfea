package model

import (
	"time"
)

// ConfigEntry represents one managed console setting
type ConfigEntry struct {
	Key       string    `gorm:"primaryKey;size:64"`
	Value     string    `gorm:"type:text;not null;default:''"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// TableName specifies the table name for ConfigEntry
func (ConfigEntry) TableName() string {
	return "configs"
}
