package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/jonmorleyjones/hrportal-sub001/internal/model"
	"github.com/jonmorleyjones/hrportal-sub001/internal/store"
	"github.com/jonmorleyjones/hrportal-sub001/pkg/jwtutil"
	"github.com/jonmorleyjones/hrportal-sub001/prometheus"
)

// ConsultantLoginResult is what a successful consultant login returns. The
// visible-tenant list rides along so the client can show a tenant picker
// without a second round trip.
type ConsultantLoginResult struct {
	AccessToken  string            `json:"access_token"`
	RefreshToken string            `json:"refresh_token"`
	ExpiresIn    int               `json:"expires_in"`
	Consultant   *model.Consultant `json:"consultant"`
	Tenants      []TenantSummary   `json:"tenants"`
}

// ConsultantRefreshResult is what a successful consultant refresh returns.
type ConsultantRefreshResult struct {
	AccessToken  string            `json:"access_token"`
	RefreshToken string            `json:"refresh_token"`
	ExpiresIn    int               `json:"expires_in"`
	Consultant   *model.Consultant `json:"consultant"`
}

// ConsultantAuthService handles login, refresh and logout for consultants.
// Structurally it mirrors UserAuthService: same state machine, global
// credential lookup instead of tenant-scoped, consultant owner kind in the
// ledger.
type ConsultantAuthService struct {
	consultants store.ConsultantStore
	tokens      store.RefreshTokenStore
	registry    *Registry
	jwt         *jwtutil.JWT
	accessTTL   time.Duration
	refreshTTL  time.Duration
	log         *zap.Logger
}

// NewConsultantAuthService wires a consultant auth service.
func NewConsultantAuthService(consultants store.ConsultantStore, tokens store.RefreshTokenStore, registry *Registry, jwt *jwtutil.JWT, accessTTL, refreshTTL time.Duration, log *zap.Logger) *ConsultantAuthService {
	return &ConsultantAuthService{
		consultants: consultants,
		tokens:      tokens,
		registry:    registry,
		jwt:         jwt,
		accessTTL:   accessTTL,
		refreshTTL:  refreshTTL,
		log:         log,
	}
}

// Login authenticates a consultant by email, globally, and returns the token
// pair together with the consultant's visible tenants and capabilities.
func (s *ConsultantAuthService) Login(ctx context.Context, email, password string) (*ConsultantLoginResult, error) {
	prometheus.LoginCounter.WithLabelValues("consultant").Inc()

	consultant, err := s.consultants.FindActiveByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("looking up consultant: %w", err)
	}
	if consultant == nil {
		prometheus.RecordAuthError("invalid_credentials")
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(consultant.Password), []byte(password)); err != nil {
		prometheus.RecordAuthError("invalid_credentials")
		return nil, ErrInvalidCredentials
	}

	now := time.Now()
	if err := s.consultants.StampLastLogin(ctx, consultant.ID, now); err != nil {
		return nil, fmt.Errorf("stamping last login: %w", err)
	}
	consultant.LastLoginAt = &now

	accessToken, err := s.jwt.GenerateConsultantToken(consultant.ID, consultant.Email, consultant.Name)
	if err != nil {
		return nil, fmt.Errorf("generating access token: %w", err)
	}

	refresh := model.NewRefreshToken(model.ConsultantOwner(consultant.ID), s.refreshTTL)
	if err := s.tokens.Create(ctx, refresh); err != nil {
		return nil, fmt.Errorf("persisting refresh token: %w", err)
	}

	prometheus.TokenIssuedCounter.WithLabelValues("consultant", "access_token").Inc()
	prometheus.TokenIssuedCounter.WithLabelValues("consultant", "refresh_token").Inc()

	tenants, err := s.registry.VisibleTenants(ctx, consultant.ID)
	if err != nil {
		return nil, fmt.Errorf("listing visible tenants: %w", err)
	}

	s.log.Info("consultant logged in",
		zap.Uint("consultant_id", consultant.ID),
		zap.String("email", consultant.Email),
		zap.Int("visible_tenants", len(tenants)))

	return &ConsultantLoginResult{
		AccessToken:  accessToken,
		RefreshToken: refresh.Token,
		ExpiresIn:    int(s.accessTTL.Seconds()),
		Consultant:   consultant,
		Tenants:      tenants,
	}, nil
}

// Refresh rotates a consultant refresh token. The ledger lookup carries no
// tenant filter (consultants are global) but is restricted to
// consultant-owned tokens, so a tenant-user's token never matches.
func (s *ConsultantAuthService) Refresh(ctx context.Context, refreshToken string) (*ConsultantRefreshResult, error) {
	current, err := s.tokens.FindActive(ctx, refreshToken, model.OwnerKindConsultant)
	if err != nil {
		return nil, fmt.Errorf("looking up refresh token: %w", err)
	}
	if current == nil {
		prometheus.RecordAuthError("invalid_token")
		return nil, ErrInvalidToken
	}

	owner, ok := current.Owner()
	if !ok || owner.Kind != model.OwnerKindConsultant {
		prometheus.RecordAuthError("invalid_token")
		return nil, ErrInvalidToken
	}

	consultant, err := s.consultants.FindActiveByID(ctx, owner.ID)
	if err != nil {
		return nil, fmt.Errorf("looking up token owner: %w", err)
	}
	if consultant == nil {
		prometheus.RecordAuthError("invalid_token")
		return nil, ErrInvalidToken
	}

	next := model.NewRefreshToken(model.ConsultantOwner(consultant.ID), s.refreshTTL)
	if err := s.tokens.Rotate(ctx, current, next); err != nil {
		if err == store.ErrConflict {
			prometheus.RecordAuthError("invalid_token")
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("rotating refresh token: %w", err)
	}
	prometheus.TokenRevokedCounter.WithLabelValues("consultant", "rotation").Inc()
	prometheus.TokensRefreshedCounter.WithLabelValues("consultant").Inc()

	accessToken, err := s.jwt.GenerateConsultantToken(consultant.ID, consultant.Email, consultant.Name)
	if err != nil {
		return nil, fmt.Errorf("generating access token: %w", err)
	}
	prometheus.TokenIssuedCounter.WithLabelValues("consultant", "access_token").Inc()
	prometheus.TokenIssuedCounter.WithLabelValues("consultant", "refresh_token").Inc()

	return &ConsultantRefreshResult{
		AccessToken:  accessToken,
		RefreshToken: next.Token,
		ExpiresIn:    int(s.accessTTL.Seconds()),
		Consultant:   consultant,
	}, nil
}

// Logout revokes the submitted refresh token; idempotent like the user flow.
func (s *ConsultantAuthService) Logout(ctx context.Context, refreshToken string) error {
	if err := s.tokens.Revoke(ctx, refreshToken, model.OwnerKindConsultant); err != nil {
		return fmt.Errorf("revoking refresh token: %w", err)
	}
	prometheus.TokenRevokedCounter.WithLabelValues("consultant", "logout").Inc()
	return nil
}
