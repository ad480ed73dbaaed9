package service

import (
	"context"
	"errors"
	"time"

	"github.com/acmecorp/identity-service/internal/core/domain"
	"github.com/acmecorp/identity-service/internal/core/ports"
)

// memStore is the in-memory backing state shared by every unit of work a
// test creates, standing in for the database.
type memStore struct {
	users    map[int64]*domain.User
	tokens   map[string]*domain.RefreshToken
	products map[int64]*domain.Product
	seq      map[string]int64
}

func newMemStore() *memStore {
	return &memStore{
		users:    make(map[int64]*domain.User),
		tokens:   make(map[string]*domain.RefreshToken),
		products: make(map[int64]*domain.Product),
		seq:      make(map[string]int64),
	}
}

func (s *memStore) clone() *memStore {
	c := newMemStore()
	for id, u := range s.users {
		cp := *u
		c.users[id] = &cp
	}
	for k, t := range s.tokens {
		cp := *t
		c.tokens[k] = &cp
	}
	for id, p := range s.products {
		cp := *p
		c.products[id] = &cp
	}
	for k, v := range s.seq {
		c.seq[k] = v
	}
	return c
}

func (s *memStore) nextID(name string) int64 {
	s.seq[name]++
	return s.seq[name]
}

// memUnitOfWork implements ports.UnitOfWork with snapshot-on-Begin,
// restore-on-Rollback semantics so transactional atomicity is observable.
type memUnitOfWork struct {
	store    *memStore
	snapshot *memStore
	open     bool
	closed   bool

	failCommit      bool
	failTokenCreate bool
}

func (u *memUnitOfWork) Users() ports.UserRepository                 { return &memUserRepo{u} }
func (u *memUnitOfWork) RefreshTokens() ports.RefreshTokenRepository { return &memTokenRepo{u} }
func (u *memUnitOfWork) Products() ports.ProductRepository           { return &memProductRepo{u} }

func (u *memUnitOfWork) Begin(context.Context) error {
	if u.open {
		return errors.New("transaction already open")
	}
	u.snapshot = u.store.clone()
	u.open = true
	return nil
}

func (u *memUnitOfWork) Commit(context.Context) error {
	if !u.open {
		return nil
	}
	u.open = false
	if u.failCommit {
		u.restore()
		return errors.New("commit failed")
	}
	u.snapshot = nil
	return nil
}

func (u *memUnitOfWork) Rollback(context.Context) error {
	if !u.open {
		return nil
	}
	u.open = false
	u.restore()
	return nil
}

func (u *memUnitOfWork) Close(ctx context.Context) error {
	if u.open {
		_ = u.Rollback(ctx)
	}
	u.closed = true
	return nil
}

func (u *memUnitOfWork) restore() {
	if u.snapshot == nil {
		return
	}
	u.store.users = u.snapshot.users
	u.store.tokens = u.snapshot.tokens
	u.store.products = u.snapshot.products
	u.store.seq = u.snapshot.seq
	u.snapshot = nil
}

// memFactory hands out unit of works over one shared store and remembers the
// last one so tests can assert it was closed.
type memFactory struct {
	store *memStore
	last  *memUnitOfWork

	failCommit      bool
	failTokenCreate bool
}

func newMemFactory() *memFactory {
	return &memFactory{store: newMemStore()}
}

func (f *memFactory) New(context.Context) (ports.UnitOfWork, error) {
	u := &memUnitOfWork{
		store:           f.store,
		failCommit:      f.failCommit,
		failTokenCreate: f.failTokenCreate,
	}
	f.last = u
	return u, nil
}

// --- repositories ---

type memUserRepo struct{ uow *memUnitOfWork }

func (r *memUserRepo) GetByID(_ context.Context, id int64) (*domain.User, error) {
	u, ok := r.uow.store.users[id]
	if !ok {
		return nil, domain.NotFound("user", id)
	}
	cp := *u
	return &cp, nil
}

func (r *memUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, u := range r.uow.store.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.NotFound("user", username)
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.uow.store.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.NotFound("user", email)
}

func (r *memUserRepo) Create(_ context.Context, user *domain.User) error {
	user.ID = r.uow.store.nextID("users")
	cp := *user
	r.uow.store.users[user.ID] = &cp
	return nil
}

func (r *memUserRepo) Update(_ context.Context, user *domain.User) error {
	if _, ok := r.uow.store.users[user.ID]; !ok {
		return domain.NotFound("user", user.ID)
	}
	cp := *user
	r.uow.store.users[user.ID] = &cp
	return nil
}

func (r *memUserRepo) Exists(_ context.Context, username, email string) (bool, error) {
	for _, u := range r.uow.store.users {
		if u.IsActive && (u.Username == username || u.Email == email) {
			return true, nil
		}
	}
	return false, nil
}

type memTokenRepo struct{ uow *memUnitOfWork }

func (r *memTokenRepo) GetByToken(_ context.Context, token string) (*domain.RefreshToken, error) {
	t, ok := r.uow.store.tokens[token]
	if !ok {
		return nil, domain.NotFoundMsg("refresh token was not found")
	}
	cp := *t
	return &cp, nil
}

func (r *memTokenRepo) GetActiveByUserID(_ context.Context, userID int64, now time.Time) ([]*domain.RefreshToken, error) {
	var out []*domain.RefreshToken
	for _, t := range r.uow.store.tokens {
		if t.UserID == userID && t.IsActive(now) {
			cp := *t
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memTokenRepo) Create(_ context.Context, token *domain.RefreshToken) error {
	if r.uow.failTokenCreate {
		return errors.New("token store unavailable")
	}
	if _, ok := r.uow.store.tokens[token.Token]; ok {
		return domain.Conflict("refresh token already exists")
	}
	cp := *token
	r.uow.store.tokens[token.Token] = &cp
	return nil
}

func (r *memTokenRepo) Update(_ context.Context, token *domain.RefreshToken) error {
	if _, ok := r.uow.store.tokens[token.Token]; !ok {
		return domain.NotFoundMsg("refresh token was not found")
	}
	cp := *token
	r.uow.store.tokens[token.Token] = &cp
	return nil
}

func (r *memTokenRepo) Revoke(_ context.Context, token, revokedByIP, replacedBy string, at time.Time) error {
	t, ok := r.uow.store.tokens[token]
	if !ok {
		return domain.NotFoundMsg("refresh token was not found")
	}
	if t.RevokedAt != nil {
		return domain.Unauthorized("refresh token is revoked")
	}
	revokedAt := at
	t.RevokedAt = &revokedAt
	t.RevokedByIP = revokedByIP
	t.ReplacedByToken = replacedBy
	return nil
}

func (r *memTokenRepo) RevokeAllForUser(_ context.Context, userID int64, revokedByIP string, at time.Time) error {
	for _, t := range r.uow.store.tokens {
		if t.UserID == userID && t.IsActive(at) {
			revokedAt := at
			t.RevokedAt = &revokedAt
			t.RevokedByIP = revokedByIP
		}
	}
	return nil
}

type memProductRepo struct{ uow *memUnitOfWork }

func (r *memProductRepo) GetAll(_ context.Context) ([]*domain.Product, error) {
	out := make([]*domain.Product, 0, len(r.uow.store.products))
	for _, p := range r.uow.store.products {
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func (r *memProductRepo) GetByID(_ context.Context, id int64) (*domain.Product, error) {
	p, ok := r.uow.store.products[id]
	if !ok {
		return nil, domain.NotFound("product", id)
	}
	cp := *p
	return &cp, nil
}

func (r *memProductRepo) Create(_ context.Context, product *domain.Product) error {
	product.ID = r.uow.store.nextID("products")
	cp := *product
	r.uow.store.products[product.ID] = &cp
	return nil
}

func (r *memProductRepo) Update(_ context.Context, product *domain.Product) error {
	if _, ok := r.uow.store.products[product.ID]; !ok {
		return domain.NotFound("product", product.ID)
	}
	cp := *product
	r.uow.store.products[product.ID] = &cp
	return nil
}

func (r *memProductRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.uow.store.products[id]; !ok {
		return domain.NotFound("product", id)
	}
	delete(r.uow.store.products, id)
	return nil
}

func (r *memProductRepo) Exists(_ context.Context, id int64) (bool, error) {
	_, ok := r.uow.store.products[id]
	return ok, nil
}

// --- collaborator stubs ---

type stubLimiter struct {
	blocked   bool
	allowErr  error
	failures  int
	successes int
}

func (l *stubLimiter) Allow(context.Context, string, string) (bool, error) {
	if l.allowErr != nil {
		return false, l.allowErr
	}
	return !l.blocked, nil
}

func (l *stubLimiter) Failure(context.Context, string, string) error {
	l.failures++
	return nil
}

func (l *stubLimiter) Success(context.Context, string, string) error {
	l.successes++
	return nil
}

type stubAudit struct {
	events []domain.SecurityEvent
}

func (a *stubAudit) Record(event domain.SecurityEvent) {
	a.events = append(a.events, event)
}

func (a *stubAudit) count(eventType string) int {
	n := 0
	for _, e := range a.events {
		if e.Type == eventType {
			n++
		}
	}
	return n
}

// fakeHasher keeps the auth tests fast and the hashes inspectable.
type fakeHasher struct{}

func (fakeHasher) Hash(plaintext string) (string, error) { return "hashed:" + plaintext, nil }

func (fakeHasher) Verify(plaintext, hash string) bool { return hash == "hashed:"+plaintext }
