package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/acmecorp/identity-service/internal/core/domain"
)

const auditCollection = "security_events"

type mongoSecurityEvent struct {
	Type     string    `bson:"type"`
	UserID   int64     `bson:"user_id,omitempty"`
	Username string    `bson:"username,omitempty"`
	IP       string    `bson:"ip"`
	Detail   string    `bson:"detail,omitempty"`
	At       time.Time `bson:"at"`
}

// AuditRepository appends security events. It deliberately takes no txScope:
// audit writes stay outside user transactions so a rolled-back flow still
// leaves its trace.
type AuditRepository struct {
	coll *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{coll: db.Collection(auditCollection)}
}

func (r *AuditRepository) Create(ctx context.Context, event *domain.SecurityEvent) error {
	doc := mongoSecurityEvent{
		Type:     event.Type,
		UserID:   event.UserID,
		Username: event.Username,
		IP:       event.IP,
		Detail:   event.Detail,
		At:       event.At,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert security event: %w", err)
	}
	return nil
}
