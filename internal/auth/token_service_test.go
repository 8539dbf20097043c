package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pawhaven/internal/model"
)

func newTestTokenService(t *testing.T, sessionTTL, resetTTL time.Duration) *TokenService {
	t.Helper()
	svc, err := NewTokenService("test-secret", sessionTTL, resetTTL)
	require.NoError(t, err)
	return svc
}

func TestNewTokenService_RequiresSecret(t *testing.T) {
	_, err := NewTokenService("", time.Hour, time.Hour)
	assert.Error(t, err)
}

func TestTokenService_SessionRoundTrip(t *testing.T) {
	svc := newTestTokenService(t, time.Hour, time.Hour)
	accountID := uuid.New()

	token, err := svc.IssueSession(accountID, model.RoleAdopter)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.Verify(token, PurposeSession)
	require.NoError(t, err)
	assert.Equal(t, accountID.String(), claims.AccountID)
	assert.Equal(t, model.RoleAdopter, claims.Role)
	assert.Equal(t, PurposeSession, claims.Purpose)
	assert.NotEmpty(t, claims.ID)
}

func TestTokenService_ResetCarriesJTI(t *testing.T) {
	svc := newTestTokenService(t, time.Hour, time.Hour)

	token, jti, err := svc.IssueReset(uuid.New(), model.RoleVolunteer)
	require.NoError(t, err)
	require.NotEmpty(t, jti)

	claims, err := svc.Verify(token, PurposeReset)
	require.NoError(t, err)
	assert.Equal(t, jti, claims.ID)
	assert.Equal(t, model.RoleVolunteer, claims.Role)
}

func TestTokenService_PurposeMismatch(t *testing.T) {
	svc := newTestTokenService(t, time.Hour, time.Hour)

	session, err := svc.IssueSession(uuid.New(), model.RoleStaff)
	require.NoError(t, err)
	reset, _, err := svc.IssueReset(uuid.New(), model.RoleStaff)
	require.NoError(t, err)

	_, err = svc.Verify(session, PurposeReset)
	assert.ErrorIs(t, err, ErrTokenInvalid)
	_, err = svc.Verify(reset, PurposeSession)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenService_Expired(t *testing.T) {
	svc := newTestTokenService(t, -time.Minute, -time.Minute)

	token, err := svc.IssueSession(uuid.New(), model.RoleAdopter)
	require.NoError(t, err)

	_, err = svc.Verify(token, PurposeSession)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestTokenService_TamperedAndForeign(t *testing.T) {
	svc := newTestTokenService(t, time.Hour, time.Hour)
	other, err := NewTokenService("other-secret", time.Hour, time.Hour)
	require.NoError(t, err)

	token, err := svc.IssueSession(uuid.New(), model.RoleAdopter)
	require.NoError(t, err)

	_, err = svc.Verify(token+"x", PurposeSession)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	_, err = other.Verify(token, PurposeSession)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	_, err = svc.Verify("not-a-token", PurposeSession)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}
