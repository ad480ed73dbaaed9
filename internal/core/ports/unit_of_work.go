package ports

import "context"

// UnitOfWork owns one transaction scope and the repositories bound to it.
// Repositories obtained from the same instance share that scope, so writes
// through any of them commit or roll back together.
//
// One instance serves exactly one request flow. Instances are never shared
// across concurrent requests and hold no state beyond their transaction.
type UnitOfWork interface {
	Users() UserRepository
	RefreshTokens() RefreshTokenRepository
	Products() ProductRepository

	// Begin opens the transaction. Calling it while a transaction is
	// already open is a programming error and fails.
	Begin(ctx context.Context) error
	// Commit persists pending changes and releases the transaction handle.
	// With no open transaction it is a safe no-op. On failure the
	// transaction is aborted before the error is returned.
	Commit(ctx context.Context) error
	// Rollback discards pending changes and releases the transaction
	// handle. Safe to call when no transaction is open.
	Rollback(ctx context.Context) error
	// Close aborts any still-open transaction and releases the underlying
	// session. Intended for defer so faults cannot leak the session.
	Close(ctx context.Context) error
}

// UnitOfWorkFactory creates a fresh UnitOfWork per request flow.
type UnitOfWorkFactory interface {
	New(ctx context.Context) (UnitOfWork, error)
}
