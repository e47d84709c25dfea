package dto

import "github.com/amirhossein-jamali/atm-console/internal/domain/entity"

// SettingsRequest replaces the edited configuration. Masked secrets are kept as stored.
type SettingsRequest struct {
	Entries []entity.ConfigEntry `json:"entries" binding:"required,dive"`
}

// SettingsResponse lists the configuration with secrets masked
type SettingsResponse struct {
	Entries []entity.ConfigEntry `json:"entries"`
}

// PickFileResponse is the result of the file picker
type PickFileResponse struct {
	Path   string `json:"path,omitempty"`
	Picked bool   `json:"picked"`
}
