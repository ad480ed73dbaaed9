package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/acmecorp/identity-service/internal/core/domain"
)

const userCollection = "users"

type mongoUser struct {
	ID           int64      `bson:"_id"`
	Username     string     `bson:"username"`
	Email        string     `bson:"email"`
	PasswordHash string     `bson:"password_hash"`
	FirstName    string     `bson:"first_name,omitempty"`
	LastName     string     `bson:"last_name,omitempty"`
	Roles        []string   `bson:"roles"`
	CreatedAt    time.Time  `bson:"created_at"`
	LastLoginAt  *time.Time `bson:"last_login_at,omitempty"`
	IsActive     bool       `bson:"is_active"`
}

type UserRepository struct {
	coll     *mongo.Collection
	counters *mongo.Collection
	scope    *txScope
}

func NewUserRepository(db *mongo.Database, scope *txScope) *UserRepository {
	return &UserRepository{
		coll:     db.Collection(userCollection),
		counters: db.Collection(counterCollection),
		scope:    scope,
	}
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"_id": id}, id)
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"username": username}, username)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email}, email)
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M, key any) (*domain.User, error) {
	var mu mongoUser
	if err := r.coll.FindOne(r.scope.bind(ctx), filter).Decode(&mu); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.NotFound("user", key)
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return userFromDoc(&mu), nil
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	ctx = r.scope.bind(ctx)

	id, err := nextSequence(ctx, r.counters, userCollection)
	if err != nil {
		return err
	}

	doc := docFromUser(user)
	doc.ID = id
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.Conflict("username or email is already registered")
		}
		return fmt.Errorf("insert user: %w", err)
	}
	user.ID = id
	return nil
}

func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	update := bson.M{"$set": bson.M{
		"username":      user.Username,
		"email":         user.Email,
		"password_hash": user.PasswordHash,
		"first_name":    user.FirstName,
		"last_name":     user.LastName,
		"roles":         user.Roles,
		"last_login_at": user.LastLoginAt,
		"is_active":     user.IsActive,
	}}
	res, err := r.coll.UpdateOne(r.scope.bind(ctx), bson.M{"_id": user.ID}, update)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.NotFound("user", user.ID)
	}
	return nil
}

// Exists reports whether an active user already holds the username or email.
func (r *UserRepository) Exists(ctx context.Context, username, email string) (bool, error) {
	filter := bson.M{
		"is_active": true,
		"$or":       []bson.M{{"username": username}, {"email": email}},
	}
	n, err := r.coll.CountDocuments(r.scope.bind(ctx), filter)
	if err != nil {
		return false, fmt.Errorf("user exists: %w", err)
	}
	return n > 0, nil
}

func userFromDoc(mu *mongoUser) *domain.User {
	return &domain.User{
		ID:           mu.ID,
		Username:     mu.Username,
		Email:        mu.Email,
		PasswordHash: mu.PasswordHash,
		FirstName:    mu.FirstName,
		LastName:     mu.LastName,
		Roles:        mu.Roles,
		CreatedAt:    mu.CreatedAt,
		LastLoginAt:  mu.LastLoginAt,
		IsActive:     mu.IsActive,
	}
}

func docFromUser(u *domain.User) *mongoUser {
	return &mongoUser{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Roles:        u.Roles,
		CreatedAt:    u.CreatedAt,
		LastLoginAt:  u.LastLoginAt,
		IsActive:     u.IsActive,
	}
}
