package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/nguyentranbao-ct/merch-api/internal/models"
)

func newTestAuth(t *testing.T) (*authUsecase, *harness) {
	h := newHarness(t)
	return NewAuthUsecase(h.conf, h.store.Users).(*authUsecase), h
}

func TestAuthUsecase_RegisterLogin(t *testing.T) {
	uc, _ := newTestAuth(t)
	ctx := context.Background()

	resp, err := uc.Register(ctx, models.RegisterRequest{
		Username: "alice",
		Email:    " Alice@Example.com ",
		Password: "secret1",
	})
	require.NoError(t, err)
	require.NotNil(t, resp.User)
	assert.Equal(t, "alice@example.com", resp.User.Email)
	assert.Equal(t, models.RoleUser, resp.User.Role)
	assert.NotEqual(t, "secret1", resp.User.PasswordHash)
	assert.Equal(t, int64(3600), resp.ExpiresIn)

	principal, err := uc.VerifyAccessToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, principal.UserID)
	assert.Equal(t, models.RoleUser, principal.Role)

	// a refresh token is not an access token
	_, err = uc.VerifyAccessToken(resp.RefreshToken)
	assert.ErrorIs(t, err, models.ErrInvalidToken)

	_, err = uc.Register(ctx, models.RegisterRequest{Username: "other", Email: "alice@example.com", Password: "secret1"})
	assert.Equal(t, codes.AlreadyExists, status.Code(err))
	_, err = uc.Register(ctx, models.RegisterRequest{Username: "alice", Email: "other@example.com", Password: "secret1"})
	assert.Equal(t, codes.AlreadyExists, status.Code(err))

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{name: "valid", email: "ALICE@example.com", password: "secret1"},
		{name: "wrong password", email: "alice@example.com", password: "nope", wantErr: models.ErrInvalidCredentials},
		{name: "unknown email", email: "bob@example.com", password: "secret1", wantErr: models.ErrInvalidCredentials},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := uc.Login(ctx, models.LoginRequest{Email: tt.email, Password: tt.password})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, resp.AccessToken)
		})
	}
}

func TestAuthUsecase_Refresh(t *testing.T) {
	uc, _ := newTestAuth(t)
	ctx := context.Background()

	registered, err := uc.Register(ctx, models.RegisterRequest{Username: "bob", Email: "bob@example.com", Password: "secret1", Role: models.RoleAdmin})
	require.NoError(t, err)

	refreshed, err := uc.Refresh(ctx, registered.RefreshToken)
	require.NoError(t, err)
	assert.Nil(t, refreshed.User)
	assert.NotEqual(t, registered.AccessToken, refreshed.AccessToken)

	principal, err := uc.VerifyAccessToken(refreshed.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, principal.Role)

	_, err = uc.Refresh(ctx, registered.AccessToken)
	assert.ErrorIs(t, err, models.ErrUnauthorized)
	_, err = uc.Refresh(ctx, "garbage")
	assert.ErrorIs(t, err, models.ErrUnauthorized)

	profile, err := uc.Profile(ctx, principal.UserID)
	require.NoError(t, err)
	assert.Equal(t, "bob", profile.Username)
}

func TestAuthUsecase_VerifyAccessToken(t *testing.T) {
	uc, _ := newTestAuth(t)
	user := &models.User{ID: "u-1", Email: "a@b.c", Role: models.RoleManager}

	issuedAt := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	uc.now = func() time.Time { return issuedAt }
	token, err := uc.sign(user, uc.accessSecret, time.Hour)
	require.NoError(t, err)

	t.Run("valid", func(t *testing.T) {
		uc.now = func() time.Time { return issuedAt.Add(30 * time.Minute) }
		principal, err := uc.VerifyAccessToken(token)
		require.NoError(t, err)
		assert.Equal(t, &models.Principal{UserID: "u-1", Email: "a@b.c", Role: models.RoleManager}, principal)
	})

	t.Run("expired", func(t *testing.T) {
		uc.now = func() time.Time { return issuedAt.Add(2 * time.Hour) }
		_, err := uc.VerifyAccessToken(token)
		assert.ErrorIs(t, err, models.ErrTokenExpired)
	})

	t.Run("wrong secret", func(t *testing.T) {
		uc.now = func() time.Time { return issuedAt }
		forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
			RegisteredClaims: jwt.RegisteredClaims{Subject: "u-1", ExpiresAt: jwt.NewNumericDate(issuedAt.Add(time.Hour))},
		}).SignedString([]byte("other"))
		require.NoError(t, err)
		_, err = uc.VerifyAccessToken(forged)
		assert.ErrorIs(t, err, models.ErrInvalidToken)
	})

	t.Run("none algorithm", func(t *testing.T) {
		unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
			RegisteredClaims: jwt.RegisteredClaims{Subject: "u-1"},
		}).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = uc.VerifyAccessToken(unsigned)
		assert.ErrorIs(t, err, models.ErrInvalidToken)
	})
}
