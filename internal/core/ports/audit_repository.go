package ports

import (
	"context"

	"github.com/acmecorp/identity-service/internal/core/domain"
)

// AuditRepository appends security events to the audit trail.
type AuditRepository interface {
	Create(ctx context.Context, event *domain.SecurityEvent) error
}
