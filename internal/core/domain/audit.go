package domain

import "time"

// Security event types recorded in the audit trail.
const (
	EventUserRegistered   = "user_registered"
	EventLoginSucceeded   = "login_succeeded"
	EventLoginFailed      = "login_failed"
	EventTokenReused      = "token_reused"
	EventTokenRevoked     = "token_revoked"
	EventTokensRevokedAll = "tokens_revoked_all"
)

// SecurityEvent is an append-only audit record of an auth-significant action.
// Events are written outside user transactions; losing one never fails the
// flow that produced it.
type SecurityEvent struct {
	Type     string    `json:"type"`
	UserID   int64     `json:"user_id,omitempty"`
	Username string    `json:"username,omitempty"`
	IP       string    `json:"ip"`
	Detail   string    `json:"detail,omitempty"`
	At       time.Time `json:"at"`
}
