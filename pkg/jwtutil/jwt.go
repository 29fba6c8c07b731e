package jwtutil

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/jonmorleyjones/hrportal-sub001/pkg/config"
)

// Principal kind discriminator values carried in the "kind" claim.
const (
	KindUser       = "user"
	KindConsultant = "consultant"
)

// ErrInvalidToken is returned for any token that fails signature, issuer,
// audience or expiry checks. Callers decide the HTTP consequence.
var ErrInvalidToken = errors.New("jwtutil: invalid token")

// Claims are the access-token claims for both principal kinds. Tenant users
// carry role and tenant_id; consultants carry is_consultant instead, so one
// validator serves both.
type Claims struct {
	Kind         string `json:"kind"`
	Email        string `json:"email"`
	Name         string `json:"name,omitempty"`
	Role         string `json:"role,omitempty"`
	TenantID     *uint  `json:"tenant_id,omitempty"`
	IsConsultant bool   `json:"is_consultant,omitempty"`
	jwt.RegisteredClaims
}

// SubjectID returns the principal id encoded in the subject claim.
func (c *Claims) SubjectID() (uint, error) {
	id, err := strconv.ParseUint(c.Subject, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("jwtutil: bad subject %q: %w", c.Subject, err)
	}
	return uint(id), nil
}

// JWT issues and validates HS256 access tokens.
type JWT struct {
	cfg *config.JWTConfig
}

// New creates a JWT utility with the given configuration.
func New(cfg *config.JWTConfig) *JWT {
	return &JWT{cfg: cfg}
}

// GenerateUserToken mints an access token for a tenant user.
func (j *JWT) GenerateUserToken(userID uint, email, name string, role string, tenantID uint) (string, error) {
	claims := Claims{
		Kind:     KindUser,
		Email:    email,
		Name:     name,
		Role:     role,
		TenantID: &tenantID,
	}
	return j.sign(userID, claims)
}

// GenerateConsultantToken mints an access token for a consultant. No tenant
// id or role: the is_consultant claim lets a shared authorization layer tell
// the two principal kinds apart.
func (j *JWT) GenerateConsultantToken(consultantID uint, email, name string) (string, error) {
	claims := Claims{
		Kind:         KindConsultant,
		Email:        email,
		Name:         name,
		IsConsultant: true,
	}
	return j.sign(consultantID, claims)
}

func (j *JWT) sign(subjectID uint, claims Claims) (string, error) {
	now := time.Now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Subject:   strconv.FormatUint(uint64(subjectID), 10),
		Issuer:    j.cfg.Issuer,
		Audience:  jwt.ClaimStrings{j.cfg.Audience},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(j.cfg.AccessTokenLifetime)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.cfg.SigningKey))
}

// Validate verifies signature, issuer, audience and expiry (no clock-skew
// tolerance) and returns the claims. Any failure is ErrInvalidToken.
func (j *JWT) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&Claims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(j.cfg.SigningKey), nil
		},
	)
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, ErrInvalidToken
	}
	if !claims.VerifyIssuer(j.cfg.Issuer, true) {
		return nil, ErrInvalidToken
	}
	if !claims.VerifyAudience(j.cfg.Audience, true) {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
