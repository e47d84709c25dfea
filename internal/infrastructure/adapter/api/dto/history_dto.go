package dto

import "github.com/amirhossein-jamali/atm-console/internal/domain/entity"

// HistoryRow is one ledger row as listed
type HistoryRow struct {
	entity.Message
	CanReverse bool `json:"canReverse"`
}

// HistoryResponse is one ledger page, newest first
type HistoryResponse struct {
	Page     int          `json:"page"`
	PageSize int          `json:"pageSize"`
	Rows     []HistoryRow `json:"rows"`
}
