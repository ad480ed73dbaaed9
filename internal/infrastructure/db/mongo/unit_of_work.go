package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/acmecorp/identity-service/internal/core/ports"
)

// txSession is the subset of mongo.Session the unit of work drives.
// Narrowed so tests can stand in a stub for the transaction state machine.
type txSession interface {
	StartTransaction(...*options.TransactionOptions) error
	CommitTransaction(context.Context) error
	AbortTransaction(context.Context) error
	EndSession(context.Context)
}

// txScope carries the session shared by every repository of one unit of
// work, so their reads and writes all join the same transaction.
type txScope struct {
	sess txSession
	open bool
}

// bind attaches the session to ctx so driver calls run in its scope.
func (s *txScope) bind(ctx context.Context) context.Context {
	if ms, ok := s.sess.(mongo.Session); ok {
		return mongo.NewSessionContext(ctx, ms)
	}
	return ctx
}

// UnitOfWorkFactory creates one session-backed UnitOfWork per request flow.
type UnitOfWorkFactory struct {
	client *mongo.Client
	db     *mongo.Database
}

func NewUnitOfWorkFactory(client *mongo.Client, db *mongo.Database) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{client: client, db: db}
}

func (f *UnitOfWorkFactory) New(ctx context.Context) (ports.UnitOfWork, error) {
	sess, err := f.client.StartSession()
	if err != nil {
		return nil, fmt.Errorf("start session: %w", err)
	}
	scope := &txScope{sess: sess}
	return &UnitOfWork{
		scope:    scope,
		users:    NewUserRepository(f.db, scope),
		tokens:   NewRefreshTokenRepository(f.db, scope),
		products: NewProductRepository(f.db, scope),
	}, nil
}

// UnitOfWork binds the three repositories to one MongoDB session. All
// repositories are constructed up front and share the session scope.
type UnitOfWork struct {
	scope    *txScope
	users    ports.UserRepository
	tokens   ports.RefreshTokenRepository
	products ports.ProductRepository
}

func (u *UnitOfWork) Users() ports.UserRepository                 { return u.users }
func (u *UnitOfWork) RefreshTokens() ports.RefreshTokenRepository { return u.tokens }
func (u *UnitOfWork) Products() ports.ProductRepository           { return u.products }

// Begin opens the transaction. A second Begin on the same instance is a
// programming error, not a recoverable outcome.
func (u *UnitOfWork) Begin(ctx context.Context) error {
	if u.scope.open {
		return errors.New("unit of work: transaction already open")
	}
	if err := u.scope.sess.StartTransaction(); err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	u.scope.open = true
	return nil
}

// Commit commits the open transaction. With no open transaction it is a
// no-op; infrastructure calling conventions expect that path to be safe.
// On failure the transaction is aborted before the error is returned, and
// the handle is released either way.
func (u *UnitOfWork) Commit(ctx context.Context) error {
	if !u.scope.open {
		return nil
	}
	u.scope.open = false
	if err := u.scope.sess.CommitTransaction(ctx); err != nil {
		_ = u.scope.sess.AbortTransaction(ctx)
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Rollback aborts the open transaction. Safe to call when none is open.
func (u *UnitOfWork) Rollback(ctx context.Context) error {
	if !u.scope.open {
		return nil
	}
	u.scope.open = false
	if err := u.scope.sess.AbortTransaction(ctx); err != nil {
		return fmt.Errorf("rollback transaction: %w", err)
	}
	return nil
}

// Close treats a still-open transaction as an abandoned rollback, then ends
// the session. Deferred by callers so faults cannot leak the session.
func (u *UnitOfWork) Close(ctx context.Context) error {
	if u.scope.open {
		u.scope.open = false
		_ = u.scope.sess.AbortTransaction(ctx)
	}
	u.scope.sess.EndSession(ctx)
	return nil
}
