package migration

import (
	"context"

	coreport "github.com/amirhossein-jamali/atm-console/internal/domain/port/core"
	"gorm.io/gorm"
)

// LedgerIndexManager creates the indexes the ledger queries rely on
type LedgerIndexManager struct {
	db     *gorm.DB
	logger coreport.Logger
}

// NewLedgerIndexManager creates a new index manager
func NewLedgerIndexManager(db *gorm.DB, logger coreport.Logger) *LedgerIndexManager {
	return &LedgerIndexManager{
		db:     db,
		logger: logger,
	}
}

type indexStatement struct {
	name string
	sql  string
}

func (m *LedgerIndexManager) isPostgres() bool {
	return m.db.Dialector.Name() == "postgres"
}

// CreateIndexes creates the ledger indexes. Postgres gets a BRIN index for the time column.
func (m *LedgerIndexManager) CreateIndexes(ctx context.Context) error {
	statements := []indexStatement{
		{"idx_messages_trace_rrn", `CREATE INDEX IF NOT EXISTS idx_messages_trace_rrn ON atm_messages (trace_number, rrn)`},
		{"idx_messages_switch", `CREATE INDEX IF NOT EXISTS idx_messages_switch ON atm_messages (switch, id)`},
	}

	if m.isPostgres() {
		statements = append(statements,
			indexStatement{"idx_messages_created_at_brin", `CREATE INDEX IF NOT EXISTS idx_messages_created_at_brin ON atm_messages USING BRIN (created_at) WITH (pages_per_range = 32)`},
			indexStatement{"idx_messages_reversals", `CREATE INDEX IF NOT EXISTS idx_messages_reversals ON atm_messages (id) WHERE transaction LIKE 'REVERSAL%'`},
		)
	} else {
		statements = append(statements,
			indexStatement{"idx_messages_created_at", `CREATE INDEX IF NOT EXISTS idx_messages_created_at ON atm_messages (created_at)`},
		)
	}

	for _, stmt := range statements {
		if err := m.db.WithContext(ctx).Exec(stmt.sql).Error; err != nil {
			m.logger.Error("Failed to create index", map[string]any{
				"index": stmt.name,
				"error": err.Error(),
			})
			return err
		}
	}

	m.logger.Info("Ledger indexes created", map[string]any{
		"count": len(statements),
	})
	return nil
}

// ApplyPerformanceTweaks tunes the ledger table on postgres. Failures are logged, not returned.
func (m *LedgerIndexManager) ApplyPerformanceTweaks(ctx context.Context) error {
	if !m.isPostgres() {
		return nil
	}

	// the ledger is append-only
	if err := m.db.WithContext(ctx).Exec(`ALTER TABLE atm_messages SET (fillfactor = 100)`).Error; err != nil {
		m.logger.Warn("Failed to set fillfactor for atm_messages table", map[string]any{
			"error": err.Error(),
		})
	}

	return nil
}
