package jwtutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonmorleyjones/hrportal-sub001/pkg/config"
)

func testJWTConfig() *config.JWTConfig {
	return &config.JWTConfig{
		SigningKey:          "test-signing-key",
		Issuer:              "hrportal-test",
		Audience:            "hrportal-test",
		AccessTokenLifetime: 15 * time.Minute,
	}
}

func TestUserTokenRoundTrip(t *testing.T) {
	j := New(testJWTConfig())

	token, err := j.GenerateUserToken(42, "jane@acme.test", "Jane Doe", "admin", 7)
	require.NoError(t, err)

	claims, err := j.Validate(token)
	require.NoError(t, err)

	assert.Equal(t, KindUser, claims.Kind)
	assert.Equal(t, "jane@acme.test", claims.Email)
	assert.Equal(t, "Jane Doe", claims.Name)
	assert.Equal(t, "admin", claims.Role)
	require.NotNil(t, claims.TenantID)
	assert.Equal(t, uint(7), *claims.TenantID)
	assert.False(t, claims.IsConsultant)

	id, err := claims.SubjectID()
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)
}

func TestConsultantTokenCarriesNoTenant(t *testing.T) {
	j := New(testJWTConfig())

	token, err := j.GenerateConsultantToken(9, "pat@consultants.test", "Pat")
	require.NoError(t, err)

	claims, err := j.Validate(token)
	require.NoError(t, err)

	assert.Equal(t, KindConsultant, claims.Kind)
	assert.True(t, claims.IsConsultant)
	assert.Nil(t, claims.TenantID)
	assert.Empty(t, claims.Role)

	id, err := claims.SubjectID()
	require.NoError(t, err)
	assert.Equal(t, uint(9), id)
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	token, err := New(testJWTConfig()).GenerateUserToken(1, "a@b.test", "", "member", 1)
	require.NoError(t, err)

	other := testJWTConfig()
	other.SigningKey = "a-different-key"

	_, err = New(other).Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateRejectsForeignIssuer(t *testing.T) {
	issuing := testJWTConfig()
	issuing.Issuer = "someone-else"

	token, err := New(issuing).GenerateUserToken(1, "a@b.test", "", "member", 1)
	require.NoError(t, err)

	_, err = New(testJWTConfig()).Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateRejectsForeignAudience(t *testing.T) {
	issuing := testJWTConfig()
	issuing.Audience = "some-other-audience"

	token, err := New(issuing).GenerateUserToken(1, "a@b.test", "", "member", 1)
	require.NoError(t, err)

	_, err = New(testJWTConfig()).Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	cfg := testJWTConfig()
	cfg.AccessTokenLifetime = -1 * time.Minute

	token, err := New(cfg).GenerateUserToken(1, "a@b.test", "", "member", 1)
	require.NoError(t, err)

	_, err = New(testJWTConfig()).Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateRejectsGarbage(t *testing.T) {
	_, err := New(testJWTConfig()).Validate("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
