package persistence

import (
	"context"
)

// UnitOfWork defines an interface for coordinating transaction operations
// across multiple repositories to maintain data consistency
type UnitOfWork interface {
	// Begin starts a new transaction and returns a transactional context
	Begin(ctx context.Context) (context.Context, error)

	// Commit commits the transaction in the given context
	Commit(ctx context.Context) error

	// Rollback rolls back the transaction in the given context
	Rollback(ctx context.Context) error

	// GetMessageRepository returns a message repository bound to the current transaction
	GetMessageRepository(ctx context.Context) MessageRepository

	// GetConfigRepository returns a config repository bound to the current transaction
	GetConfigRepository(ctx context.Context) ConfigRepository
}
