package dto

import "github.com/amirhossein-jamali/atm-console/internal/domain/usecase/session"

// PageRequest switches the visible page
type PageRequest struct {
	Page session.Page `json:"page" binding:"required,oneof=composer history settings"`
}

// TunnelResponse is the tunnel state as the console sees it
type TunnelResponse struct {
	Connected bool `json:"connected"`
	Busy      bool `json:"busy"`
}

// HealthResponse reports the state of the console dependencies
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Tunnel   bool   `json:"tunnel"`
	Time     string `json:"time"`
}
