package persistence

import (
	"context"

	"github.com/amirhossein-jamali/atm-console/internal/domain/entity"
)

// MessageRepository defines the ledger of sent messages
type MessageRepository interface {
	// Create records a sent message and assigns its ID
	//
	// Possible errors:
	// - ErrConstraintViolation: If required columns are missing
	// - ErrDatabaseConnection: If database connection fails
	Create(ctx context.Context, message *entity.Message) error

	// GetByID retrieves a recorded message
	//
	// Possible errors:
	// - ErrMessageNotFound: If no message has the given ID
	// - ErrDatabaseConnection: If database connection fails
	GetByID(ctx context.Context, id uint64) (*entity.Message, error)

	// List returns up to limit messages ordered newest first, skipping offset rows
	List(ctx context.Context, offset, limit int) ([]entity.Message, error)

	// TraceNumberExists checks if a STAN was already recorded
	// Used to keep issued identifiers unique
	TraceNumberExists(ctx context.Context, traceNumber string) (bool, error)

	// RrnExists checks if an RRN was already recorded
	RrnExists(ctx context.Context, rrn string) (bool, error)
}
