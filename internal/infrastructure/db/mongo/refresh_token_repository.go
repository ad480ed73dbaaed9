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

const refreshTokenCollection = "refresh_tokens"

// The opaque secret is the natural key, so it doubles as _id and gets its
// uniqueness guarantee from the primary index.
type mongoRefreshToken struct {
	Token           string     `bson:"_id"`
	UserID          int64      `bson:"user_id"`
	ExpiresAt       time.Time  `bson:"expires_at"`
	CreatedAt       time.Time  `bson:"created_at"`
	CreatedByIP     string     `bson:"created_by_ip"`
	RevokedAt       *time.Time `bson:"revoked_at,omitempty"`
	RevokedByIP     string     `bson:"revoked_by_ip,omitempty"`
	ReplacedByToken string     `bson:"replaced_by_token,omitempty"`
}

type RefreshTokenRepository struct {
	coll  *mongo.Collection
	scope *txScope
}

func NewRefreshTokenRepository(db *mongo.Database, scope *txScope) *RefreshTokenRepository {
	return &RefreshTokenRepository{coll: db.Collection(refreshTokenCollection), scope: scope}
}

func (r *RefreshTokenRepository) GetByToken(ctx context.Context, token string) (*domain.RefreshToken, error) {
	var mt mongoRefreshToken
	if err := r.coll.FindOne(r.scope.bind(ctx), bson.M{"_id": token}).Decode(&mt); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.NotFoundMsg("refresh token was not found")
		}
		return nil, fmt.Errorf("find refresh token: %w", err)
	}
	return tokenFromDoc(&mt), nil
}

func (r *RefreshTokenRepository) GetActiveByUserID(ctx context.Context, userID int64, now time.Time) ([]*domain.RefreshToken, error) {
	filter := bson.M{
		"user_id":    userID,
		"revoked_at": bson.M{"$exists": false},
		"expires_at": bson.M{"$gt": now},
	}
	cur, err := r.coll.Find(r.scope.bind(ctx), filter)
	if err != nil {
		return nil, fmt.Errorf("find active tokens: %w", err)
	}

	var docs []mongoRefreshToken
	if err := cur.All(r.scope.bind(ctx), &docs); err != nil {
		return nil, fmt.Errorf("decode active tokens: %w", err)
	}
	tokens := make([]*domain.RefreshToken, 0, len(docs))
	for i := range docs {
		tokens = append(tokens, tokenFromDoc(&docs[i]))
	}
	return tokens, nil
}

func (r *RefreshTokenRepository) Create(ctx context.Context, token *domain.RefreshToken) error {
	if _, err := r.coll.InsertOne(r.scope.bind(ctx), docFromToken(token)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.Conflict("refresh token already exists")
		}
		return fmt.Errorf("insert refresh token: %w", err)
	}
	return nil
}

func (r *RefreshTokenRepository) Update(ctx context.Context, token *domain.RefreshToken) error {
	doc := docFromToken(token)
	res, err := r.coll.ReplaceOne(r.scope.bind(ctx), bson.M{"_id": token.Token}, doc)
	if err != nil {
		return fmt.Errorf("update refresh token: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.NotFoundMsg("refresh token was not found")
	}
	return nil
}

// Revoke sets the revocation fields only if the token is not revoked
// already. The filter is the whole concurrency story: of two rotations
// racing on the same token, exactly one matches.
func (r *RefreshTokenRepository) Revoke(ctx context.Context, token, revokedByIP, replacedBy string, at time.Time) error {
	ctx = r.scope.bind(ctx)

	set := bson.M{"revoked_at": at, "revoked_by_ip": revokedByIP}
	if replacedBy != "" {
		set["replaced_by_token"] = replacedBy
	}
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": token, "revoked_at": bson.M{"$exists": false}},
		bson.M{"$set": set},
	)
	if err != nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}
	if res.MatchedCount == 0 {
		n, err := r.coll.CountDocuments(ctx, bson.M{"_id": token})
		if err != nil {
			return fmt.Errorf("revoke refresh token: %w", err)
		}
		if n == 0 {
			return domain.NotFoundMsg("refresh token was not found")
		}
		return domain.Unauthorized("refresh token is revoked")
	}
	return nil
}

func (r *RefreshTokenRepository) RevokeAllForUser(ctx context.Context, userID int64, revokedByIP string, at time.Time) error {
	filter := bson.M{
		"user_id":    userID,
		"revoked_at": bson.M{"$exists": false},
		"expires_at": bson.M{"$gt": at},
	}
	update := bson.M{"$set": bson.M{"revoked_at": at, "revoked_by_ip": revokedByIP}}
	if _, err := r.coll.UpdateMany(r.scope.bind(ctx), filter, update); err != nil {
		return fmt.Errorf("revoke user tokens: %w", err)
	}
	return nil
}

func tokenFromDoc(mt *mongoRefreshToken) *domain.RefreshToken {
	return &domain.RefreshToken{
		Token:           mt.Token,
		UserID:          mt.UserID,
		ExpiresAt:       mt.ExpiresAt,
		CreatedAt:       mt.CreatedAt,
		CreatedByIP:     mt.CreatedByIP,
		RevokedAt:       mt.RevokedAt,
		RevokedByIP:     mt.RevokedByIP,
		ReplacedByToken: mt.ReplacedByToken,
	}
}

func docFromToken(t *domain.RefreshToken) *mongoRefreshToken {
	return &mongoRefreshToken{
		Token:           t.Token,
		UserID:          t.UserID,
		ExpiresAt:       t.ExpiresAt,
		CreatedAt:       t.CreatedAt,
		CreatedByIP:     t.CreatedByIP,
		RevokedAt:       t.RevokedAt,
		RevokedByIP:     t.RevokedByIP,
		ReplacedByToken: t.ReplacedByToken,
	}
}
