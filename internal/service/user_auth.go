package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/jonmorleyjones/hrportal-sub001/internal/model"
	"github.com/jonmorleyjones/hrportal-sub001/internal/store"
	"github.com/jonmorleyjones/hrportal-sub001/internal/tenant"
	"github.com/jonmorleyjones/hrportal-sub001/pkg/jwtutil"
	"github.com/jonmorleyjones/hrportal-sub001/prometheus"
)

// UserLoginResult is what a successful tenant-user login or refresh returns.
type UserLoginResult struct {
	AccessToken  string            `json:"access_token"`
	RefreshToken string            `json:"refresh_token"`
	ExpiresIn    int               `json:"expires_in"`
	User         *model.TenantUser `json:"user"`
}

// UserAuthService handles login, refresh and logout for tenant users.
type UserAuthService struct {
	users      store.UserStore
	tokens     store.RefreshTokenStore
	audit      store.AuditStore
	jwt        *jwtutil.JWT
	accessTTL  time.Duration
	refreshTTL time.Duration
	log        *zap.Logger
}

// NewUserAuthService wires a tenant-user auth service.
func NewUserAuthService(users store.UserStore, tokens store.RefreshTokenStore, audit store.AuditStore, jwt *jwtutil.JWT, accessTTL, refreshTTL time.Duration, log *zap.Logger) *UserAuthService {
	return &UserAuthService{
		users:      users,
		tokens:     tokens,
		audit:      audit,
		jwt:        jwt,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		log:        log,
	}
}

// Login authenticates a user within the resolved tenant scope and issues an
// access/refresh token pair. Every failure is ErrInvalidCredentials.
func (s *UserAuthService) Login(ctx context.Context, scope tenant.Scope, email, password string) (*UserLoginResult, error) {
	prometheus.LoginCounter.WithLabelValues("user").Inc()

	user, err := s.users.FindActiveByEmail(ctx, scope, email)
	if err != nil {
		return nil, fmt.Errorf("looking up user: %w", err)
	}
	if user == nil {
		prometheus.RecordAuthError("invalid_credentials")
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		prometheus.RecordAuthError("invalid_credentials")
		return nil, ErrInvalidCredentials
	}

	now := time.Now()
	if err := s.users.StampLastLogin(ctx, user.ID, now); err != nil {
		return nil, fmt.Errorf("stamping last login: %w", err)
	}
	user.LastLoginAt = &now

	result, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	s.auditEvent(ctx, user, "user.login", "")
	s.log.Info("user logged in",
		zap.Uint("user_id", user.ID),
		zap.Uint("tenant_id", user.TenantID),
		zap.String("email", user.Email))

	return result, nil
}

// Refresh redeems a refresh token exactly once: the submitted token is
// revoked and a fresh access/refresh pair is issued to the same owner. A
// replayed, expired or foreign-kind token fails with ErrInvalidToken.
func (s *UserAuthService) Refresh(ctx context.Context, refreshToken string) (*UserLoginResult, error) {
	current, err := s.tokens.FindActive(ctx, refreshToken, model.OwnerKindUser)
	if err != nil {
		return nil, fmt.Errorf("looking up refresh token: %w", err)
	}
	if current == nil {
		prometheus.RecordAuthError("invalid_token")
		return nil, ErrInvalidToken
	}

	owner, ok := current.Owner()
	if !ok || owner.Kind != model.OwnerKindUser {
		prometheus.RecordAuthError("invalid_token")
		return nil, ErrInvalidToken
	}

	user, err := s.users.FindActiveByID(ctx, owner.ID)
	if err != nil {
		return nil, fmt.Errorf("looking up token owner: %w", err)
	}
	if user == nil {
		prometheus.RecordAuthError("invalid_token")
		return nil, ErrInvalidToken
	}

	next := model.NewRefreshToken(model.UserOwner(user.ID), s.refreshTTL)
	if err := s.tokens.Rotate(ctx, current, next); err != nil {
		if err == store.ErrConflict {
			// Lost a race against a concurrent redeem of the same token.
			prometheus.RecordAuthError("invalid_token")
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("rotating refresh token: %w", err)
	}
	prometheus.TokenRevokedCounter.WithLabelValues("user", "rotation").Inc()
	prometheus.TokensRefreshedCounter.WithLabelValues("user").Inc()

	accessToken, err := s.jwt.GenerateUserToken(user.ID, user.Email, user.Name, user.Role.String(), user.TenantID)
	if err != nil {
		return nil, fmt.Errorf("generating access token: %w", err)
	}
	prometheus.TokenIssuedCounter.WithLabelValues("user", "access_token").Inc()
	prometheus.TokenIssuedCounter.WithLabelValues("user", "refresh_token").Inc()

	s.auditEvent(ctx, user, "user.refresh", "")

	return &UserLoginResult{
		AccessToken:  accessToken,
		RefreshToken: next.Token,
		ExpiresIn:    int(s.accessTTL.Seconds()),
		User:         user,
	}, nil
}

// Logout revokes the submitted refresh token. Unknown and already-revoked
// tokens are a no-op, so repeated logouts succeed.
func (s *UserAuthService) Logout(ctx context.Context, refreshToken string) error {
	if err := s.tokens.Revoke(ctx, refreshToken, model.OwnerKindUser); err != nil {
		return fmt.Errorf("revoking refresh token: %w", err)
	}
	prometheus.TokenRevokedCounter.WithLabelValues("user", "logout").Inc()
	return nil
}

func (s *UserAuthService) issueTokens(ctx context.Context, user *model.TenantUser) (*UserLoginResult, error) {
	accessToken, err := s.jwt.GenerateUserToken(user.ID, user.Email, user.Name, user.Role.String(), user.TenantID)
	if err != nil {
		return nil, fmt.Errorf("generating access token: %w", err)
	}

	refresh := model.NewRefreshToken(model.UserOwner(user.ID), s.refreshTTL)
	if err := s.tokens.Create(ctx, refresh); err != nil {
		return nil, fmt.Errorf("persisting refresh token: %w", err)
	}

	prometheus.TokenIssuedCounter.WithLabelValues("user", "access_token").Inc()
	prometheus.TokenIssuedCounter.WithLabelValues("user", "refresh_token").Inc()

	return &UserLoginResult{
		AccessToken:  accessToken,
		RefreshToken: refresh.Token,
		ExpiresIn:    int(s.accessTTL.Seconds()),
		User:         user,
	}, nil
}

func (s *UserAuthService) auditEvent(ctx context.Context, user *model.TenantUser, action, detail string) {
	userID := user.ID
	entry := &model.AuditLog{
		TenantID:    user.TenantID,
		ActorUserID: &userID,
		Action:      action,
		Detail:      detail,
	}
	if err := s.audit.Append(ctx, entry); err != nil {
		s.log.Warn("failed to append audit entry",
			zap.String("action", action),
			zap.Uint("tenant_id", user.TenantID),
			zap.Error(err))
	}
}
