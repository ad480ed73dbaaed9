package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/acmecorp/identity-service/internal/core/domain"
	"github.com/acmecorp/identity-service/internal/core/ports"
	"github.com/acmecorp/identity-service/internal/pkg/metrics"
)

// LoginLimiter throttles repeated failed logins per (username, source IP).
type LoginLimiter interface {
	Allow(ctx context.Context, username, ip string) (bool, error)
	Failure(ctx context.Context, username, ip string) error
	Success(ctx context.Context, username, ip string) error
}

// AuditTrail records security-significant events without blocking the caller.
type AuditTrail interface {
	Record(event domain.SecurityEvent)
}

// AuthService orchestrates registration, login and the refresh-token
// lifecycle. Every mutating flow runs inside one unit-of-work transaction;
// faults propagate only after the transaction has been rolled back.
type AuthService struct {
	uow        ports.UnitOfWorkFactory
	tokens     ports.TokenService
	hasher     ports.PasswordHasher
	limiter    LoginLimiter
	audit      AuditTrail
	refreshTTL time.Duration
	log        zerolog.Logger
	now        func() time.Time
}

func NewAuthService(
	uow ports.UnitOfWorkFactory,
	tokens ports.TokenService,
	hasher ports.PasswordHasher,
	limiter LoginLimiter,
	audit AuditTrail,
	refreshTTL time.Duration,
	log zerolog.Logger,
) *AuthService {
	if refreshTTL <= 0 {
		refreshTTL = 7 * 24 * time.Hour
	}
	return &AuthService{
		uow:        uow,
		tokens:     tokens,
		hasher:     hasher,
		limiter:    limiter,
		audit:      audit,
		refreshTTL: refreshTTL,
		log:        log,
		now:        time.Now,
	}
}

// Register creates a new account and issues its first token pair. The user
// row and the refresh token are persisted in one transaction.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput, ip string) (domain.Result[ports.AuthResponse], error) {
	var zero domain.Result[ports.AuthResponse]

	uow, err := s.uow.New(ctx)
	if err != nil {
		return zero, err
	}
	defer uow.Close(ctx)

	taken, err := uow.Users().Exists(ctx, in.Username, in.Email)
	if err != nil {
		return zero, err
	}
	if taken {
		return zero, domain.Conflict("username or email is already registered")
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return zero, err
	}

	if err := uow.Begin(ctx); err != nil {
		return zero, err
	}

	now := s.now().UTC()
	user := &domain.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Roles:        []string{domain.RoleUser},
		CreatedAt:    now,
		IsActive:     true,
	}
	if err := uow.Users().Create(ctx, user); err != nil {
		_ = uow.Rollback(ctx)
		return zero, err
	}

	resp, err := s.issueTokens(ctx, uow, user, ip)
	if err != nil {
		_ = uow.Rollback(ctx)
		return zero, err
	}
	if err := uow.Commit(ctx); err != nil {
		return zero, err
	}

	s.audit.Record(domain.SecurityEvent{Type: domain.EventUserRegistered, UserID: user.ID, Username: user.Username, IP: ip, At: now})
	metrics.RegistrationsTotal.Inc()
	metrics.TokensIssuedTotal.WithLabelValues("register").Inc()
	s.log.Info().Int64("user_id", user.ID).Str("username", user.Username).Msg("user registered")

	return domain.OKMsg(resp, "registration successful"), nil
}

// Login authenticates the user and issues a fresh token pair. Unknown
// username, wrong password and deactivated account all collapse into one
// Unauthorized fault so the response leaks nothing about which it was.
func (s *AuthService) Login(ctx context.Context, in ports.LoginInput, ip string) (domain.Result[ports.AuthResponse], error) {
	var zero domain.Result[ports.AuthResponse]

	allowed, err := s.limiter.Allow(ctx, in.Username, ip)
	if err != nil {
		// limiter outage must not lock everyone out
		s.log.Warn().Err(err).Msg("login limiter unavailable, failing open")
		allowed = true
	}
	if !allowed {
		return zero, domain.Unauthorized("too many failed login attempts, try again later")
	}

	uow, err := s.uow.New(ctx)
	if err != nil {
		return zero, err
	}
	defer uow.Close(ctx)

	user, err := uow.Users().GetByUsername(ctx, in.Username)
	if err != nil {
		if f, ok := domain.AsFault(err); ok && f.Kind == domain.KindNotFound {
			return zero, s.failedLogin(ctx, in.Username, ip, "unknown username")
		}
		return zero, err
	}
	if !user.IsActive {
		return zero, s.failedLogin(ctx, in.Username, ip, "deactivated account")
	}
	if !s.hasher.Verify(in.Password, user.PasswordHash) {
		return zero, s.failedLogin(ctx, in.Username, ip, "wrong password")
	}

	if err := s.limiter.Success(ctx, in.Username, ip); err != nil {
		s.log.Warn().Err(err).Msg("login limiter reset failed")
	}

	if err := uow.Begin(ctx); err != nil {
		return zero, err
	}

	now := s.now().UTC()
	user.LastLoginAt = &now
	if err := uow.Users().Update(ctx, user); err != nil {
		_ = uow.Rollback(ctx)
		return zero, err
	}

	resp, err := s.issueTokens(ctx, uow, user, ip)
	if err != nil {
		_ = uow.Rollback(ctx)
		return zero, err
	}
	if err := uow.Commit(ctx); err != nil {
		return zero, err
	}

	s.audit.Record(domain.SecurityEvent{Type: domain.EventLoginSucceeded, UserID: user.ID, Username: user.Username, IP: ip, At: now})
	metrics.LoginsTotal.WithLabelValues("success").Inc()
	metrics.TokensIssuedTotal.WithLabelValues("login").Inc()

	return domain.OKMsg(resp, "login successful"), nil
}

// Refresh rotates the presented refresh token: the old token is revoked with
// a forward link to its replacement, and a new pair is issued for the same
// user. Both writes commit together or not at all.
func (s *AuthService) Refresh(ctx context.Context, token, ip string) (domain.Result[ports.AuthResponse], error) {
	var zero domain.Result[ports.AuthResponse]

	uow, err := s.uow.New(ctx)
	if err != nil {
		return zero, err
	}
	defer uow.Close(ctx)

	if err := uow.Begin(ctx); err != nil {
		return zero, err
	}

	tok, err := uow.RefreshTokens().GetByToken(ctx, token)
	if err != nil {
		_ = uow.Rollback(ctx)
		if f, ok := domain.AsFault(err); ok && f.Kind == domain.KindNotFound {
			// an unknown secret is indistinguishable from a forged one
			return zero, domain.Unauthorized("invalid refresh token")
		}
		return zero, err
	}

	now := s.now().UTC()
	if !tok.IsActive(now) {
		_ = uow.Rollback(ctx)
		state := tok.State(now)
		if state == domain.TokenRevoked {
			// a rotated token coming back is a replay signal
			s.audit.Record(domain.SecurityEvent{Type: domain.EventTokenReused, UserID: tok.UserID, IP: ip, Detail: "revoked refresh token presented", At: now})
			metrics.TokenReuseDetectedTotal.Inc()
			s.log.Warn().Int64("user_id", tok.UserID).Str("ip", ip).Msg("revoked refresh token presented")
		}
		return zero, domain.Unauthorized(fmt.Sprintf("refresh token is %s", state))
	}

	user, err := uow.Users().GetByID(ctx, tok.UserID)
	if err != nil {
		_ = uow.Rollback(ctx)
		return zero, err
	}
	if !user.IsActive {
		_ = uow.Rollback(ctx)
		return zero, domain.Unauthorized("account is deactivated")
	}

	secret, err := s.tokens.GenerateRefreshToken()
	if err != nil {
		_ = uow.Rollback(ctx)
		return zero, err
	}

	// Conditional revoke: if a concurrent rotation already won, the store
	// reports the token as no longer active and this transaction fails.
	if err := uow.RefreshTokens().Revoke(ctx, tok.Token, ip, secret, now); err != nil {
		_ = uow.Rollback(ctx)
		return zero, err
	}

	access, expiresAt, err := s.tokens.GenerateAccessToken(user)
	if err != nil {
		_ = uow.Rollback(ctx)
		return zero, err
	}
	refresh := &domain.RefreshToken{
		Token:       secret,
		UserID:      user.ID,
		ExpiresAt:   now.Add(s.refreshTTL),
		CreatedAt:   now,
		CreatedByIP: ip,
	}
	if err := uow.RefreshTokens().Create(ctx, refresh); err != nil {
		_ = uow.Rollback(ctx)
		return zero, err
	}
	if err := uow.Commit(ctx); err != nil {
		return zero, err
	}

	metrics.TokensIssuedTotal.WithLabelValues("refresh").Inc()
	metrics.TokensRevokedTotal.WithLabelValues("rotation").Inc()

	resp := ports.AuthResponse{
		AccessToken:  access,
		RefreshToken: secret,
		ExpiresAt:    expiresAt,
		User:         userInfo(user),
	}
	return domain.OKMsg(resp, "token refreshed"), nil
}

// Revoke retires an active refresh token with no replacement (logout).
func (s *AuthService) Revoke(ctx context.Context, token, ip string) (domain.Result[any], error) {
	var zero domain.Result[any]

	uow, err := s.uow.New(ctx)
	if err != nil {
		return zero, err
	}
	defer uow.Close(ctx)

	tok, err := uow.RefreshTokens().GetByToken(ctx, token)
	if err != nil {
		return zero, err
	}

	now := s.now().UTC()
	if !tok.IsActive(now) {
		return zero, domain.Unauthorized(fmt.Sprintf("refresh token is %s", tok.State(now)))
	}

	if err := uow.Begin(ctx); err != nil {
		return zero, err
	}
	if err := uow.RefreshTokens().Revoke(ctx, token, ip, "", now); err != nil {
		_ = uow.Rollback(ctx)
		return zero, err
	}
	if err := uow.Commit(ctx); err != nil {
		return zero, err
	}

	s.audit.Record(domain.SecurityEvent{Type: domain.EventTokenRevoked, UserID: tok.UserID, IP: ip, At: now})
	metrics.TokensRevokedTotal.WithLabelValues("single").Inc()

	return domain.OKMsg[any](nil, "token revoked"), nil
}

// RevokeAll retires every active token owned by the user.
func (s *AuthService) RevokeAll(ctx context.Context, userID int64, ip string) (domain.Result[any], error) {
	var zero domain.Result[any]

	uow, err := s.uow.New(ctx)
	if err != nil {
		return zero, err
	}
	defer uow.Close(ctx)

	user, err := uow.Users().GetByID(ctx, userID)
	if err != nil {
		return zero, err
	}

	now := s.now().UTC()
	active, err := uow.RefreshTokens().GetActiveByUserID(ctx, userID, now)
	if err != nil {
		return zero, err
	}

	if err := uow.Begin(ctx); err != nil {
		return zero, err
	}
	if err := uow.RefreshTokens().RevokeAllForUser(ctx, userID, ip, now); err != nil {
		_ = uow.Rollback(ctx)
		return zero, err
	}
	if err := uow.Commit(ctx); err != nil {
		return zero, err
	}

	s.audit.Record(domain.SecurityEvent{Type: domain.EventTokensRevokedAll, UserID: userID, Username: user.Username, IP: ip, At: now})
	metrics.TokensRevokedTotal.WithLabelValues("all").Inc()
	s.log.Info().Int64("user_id", userID).Int("sessions", len(active)).Msg("all refresh tokens revoked")

	return domain.OKMsg[any](nil, "all tokens revoked"), nil
}

// CurrentUser is a pure read returning the credential-free projection.
func (s *AuthService) CurrentUser(ctx context.Context, userID int64) (domain.Result[ports.UserInfo], error) {
	var zero domain.Result[ports.UserInfo]

	uow, err := s.uow.New(ctx)
	if err != nil {
		return zero, err
	}
	defer uow.Close(ctx)

	user, err := uow.Users().GetByID(ctx, userID)
	if err != nil {
		return zero, err
	}
	return domain.OK(userInfo(user)), nil
}

// failedLogin records the failure and returns the uniform Unauthorized
// fault. The reason stays in the audit trail, never in the response.
func (s *AuthService) failedLogin(ctx context.Context, username, ip, reason string) error {
	if err := s.limiter.Failure(ctx, username, ip); err != nil {
		s.log.Warn().Err(err).Msg("login limiter record failed")
	}
	s.audit.Record(domain.SecurityEvent{Type: domain.EventLoginFailed, Username: username, IP: ip, Detail: reason, At: s.now().UTC()})
	metrics.LoginsTotal.WithLabelValues("failure").Inc()
	return domain.Unauthorized("invalid username or password")
}

// issueTokens creates the access/refresh pair and persists the refresh token
// through the unit of work's open transaction.
func (s *AuthService) issueTokens(ctx context.Context, uow ports.UnitOfWork, user *domain.User, ip string) (ports.AuthResponse, error) {
	access, expiresAt, err := s.tokens.GenerateAccessToken(user)
	if err != nil {
		return ports.AuthResponse{}, err
	}
	secret, err := s.tokens.GenerateRefreshToken()
	if err != nil {
		return ports.AuthResponse{}, err
	}

	now := s.now().UTC()
	refresh := &domain.RefreshToken{
		Token:       secret,
		UserID:      user.ID,
		ExpiresAt:   now.Add(s.refreshTTL),
		CreatedAt:   now,
		CreatedByIP: ip,
	}
	if err := uow.RefreshTokens().Create(ctx, refresh); err != nil {
		return ports.AuthResponse{}, err
	}

	return ports.AuthResponse{
		AccessToken:  access,
		RefreshToken: secret,
		ExpiresAt:    expiresAt,
		User:         userInfo(user),
	}, nil
}

func userInfo(u *domain.User) ports.UserInfo {
	return ports.UserInfo{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Roles:     u.Roles,
	}
}
