package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bnema/campus-cli/internal/domain"
	"github.com/bnema/campus-cli/internal/ports"
	portmocks "github.com/bnema/campus-cli/internal/ports/mocks"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time {
	return c.now
}

var authNow = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

func signedToken(t *testing.T, expiresAt time.Time) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "u-1",
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	})
	signed, err := token.SignedString([]byte("test-key"))
	require.NoError(t, err)
	return signed
}

func TestAuthServiceEstablishThenCurrentUser(t *testing.T) {
	t.Parallel()

	secrets := newMemorySecrets()
	state := newMemoryState()
	auth := NewAuthService(secrets, state, fixedClock{now: authNow}, nil)

	token := signedToken(t, authNow.Add(time.Hour))
	user, err := auth.Establish(context.Background(), domain.LoginResult{Success: true, User: student, Token: token})
	require.NoError(t, err)
	assert.Equal(t, student, user)

	current, ok := auth.CurrentUser(context.Background())
	require.True(t, ok)
	assert.Equal(t, student, current)
	assert.Equal(t, token, auth.Token(context.Background()))
}

func TestAuthServiceExpiredTokenIsSignedOut(t *testing.T) {
	t.Parallel()

	auth := NewAuthService(newMemorySecrets(), newMemoryState(), fixedClock{now: authNow}, nil)

	_, err := auth.Establish(context.Background(), domain.LoginResult{
		Success: true,
		User:    student,
		Token:   signedToken(t, authNow.Add(-time.Minute)),
	})
	require.NoError(t, err)

	_, ok := auth.CurrentUser(context.Background())
	assert.False(t, ok)
}

func TestAuthServiceOpaqueTokenNeverExpiresLocally(t *testing.T) {
	t.Parallel()

	auth := NewAuthService(newMemorySecrets(), newMemoryState(), fixedClock{now: authNow}, nil)

	_, err := auth.Establish(context.Background(), domain.LoginResult{Success: true, User: student, Token: "mock-jwt-token"})
	require.NoError(t, err)

	_, ok := auth.CurrentUser(context.Background())
	assert.True(t, ok)
}

func TestAuthServiceNoStoredUser(t *testing.T) {
	t.Parallel()

	auth := NewAuthService(newMemorySecrets(), newMemoryState(), nil, nil)

	_, ok := auth.CurrentUser(context.Background())
	assert.False(t, ok)
	assert.Empty(t, auth.Token(context.Background()))
}

func TestAuthServiceCorruptUserRecord(t *testing.T) {
	t.Parallel()

	state := newMemoryState()
	require.NoError(t, state.Put(context.Background(), ports.StateKeyUser, "{not json"))
	logger, logs := observedLogger(t)
	auth := NewAuthService(newMemorySecrets(), state, nil, logger)

	_, ok := auth.CurrentUser(context.Background())
	assert.False(t, ok)
	assert.Equal(t, 1, logs.FilterMessage("decode stored user").Len())
}

func TestAuthServiceEstablishRejectsAnonymousUser(t *testing.T) {
	t.Parallel()

	auth := NewAuthService(newMemorySecrets(), newMemoryState(), nil, nil)

	_, err := auth.Establish(context.Background(), domain.LoginResult{Success: true, Token: "jwt"})
	assert.ErrorContains(t, err, "no user id")
}

func TestAuthServiceEstablishRollsBackTokenWhenUserWriteFails(t *testing.T) {
	t.Parallel()

	secrets := newMemorySecrets()
	state := portmocks.NewMockStateStore(t)
	state.EXPECT().Put(mock.Anything, ports.StateKeyUser, mock.Anything).Return(errors.New("disk full")).Once()
	auth := NewAuthService(secrets, state, nil, nil)

	_, err := auth.Establish(context.Background(), domain.LoginResult{Success: true, User: student, Token: "jwt"})
	require.ErrorContains(t, err, "disk full")
	assert.Empty(t, auth.Token(context.Background()))
}

func TestAuthServiceLogoutClearsEverySlot(t *testing.T) {
	t.Parallel()

	secrets := newMemorySecrets()
	state := newMemoryState()
	auth := NewAuthService(secrets, state, nil, nil)
	ctx := context.Background()

	_, err := auth.Establish(ctx, domain.LoginResult{Success: true, User: student, Token: "jwt"})
	require.NoError(t, err)
	require.NoError(t, state.Put(ctx, ports.StateKeyCurrentTenantID, "mit"))

	require.NoError(t, auth.Logout(ctx))

	_, ok := auth.CurrentUser(ctx)
	assert.False(t, ok)
	assert.Empty(t, auth.Token(ctx))
	_, err = state.Get(ctx, ports.StateKeyCurrentTenantID)
	assert.ErrorIs(t, err, domain.ErrStateNotFound)
}

func TestAuthServiceLogoutJoinsFailures(t *testing.T) {
	t.Parallel()

	secrets := portmocks.NewMockSecretStore(t)
	state := portmocks.NewMockStateStore(t)
	secrets.EXPECT().Delete(mock.Anything, ports.SecretKeyAuthToken).Return(errors.New("pass locked")).Once()
	state.EXPECT().Delete(mock.Anything, ports.StateKeyUser).Return(nil).Once()
	state.EXPECT().Delete(mock.Anything, ports.StateKeyCurrentTenantID).Return(errors.New("read-only")).Once()

	err := NewAuthService(secrets, state, nil, nil).Logout(context.Background())
	require.Error(t, err)
	assert.ErrorContains(t, err, "pass locked")
	assert.ErrorContains(t, err, "read-only")
}

func TestAuthServiceFeedsAPIIdentity(t *testing.T) {
	t.Parallel()

	auth := NewAuthService(newMemorySecrets(), newMemoryState(), nil, nil)
	backend := newFakeBackend().reply("POST", "/api/courses/enroll", map[string]string{"message": "ok"})
	api := NewAPI(backend, auth, APIOptions{})

	_, err := api.Enroll(context.Background(), "1", "mit")
	require.ErrorIs(t, err, domain.ErrAuthRequired)

	_, err = auth.Establish(context.Background(), domain.LoginResult{Success: true, User: student, Token: "jwt"})
	require.NoError(t, err)

	_, err = api.Enroll(context.Background(), "1", "mit")
	require.NoError(t, err)
}
