package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IvanChernomyrdin/go-devlog/internal/server/crypto"
	smodels "github.com/IvanChernomyrdin/go-devlog/internal/server/service/models"
	serr "github.com/IvanChernomyrdin/go-devlog/internal/shared/errors"
)

func TestRegister_NormalizesAndIssuesToken(t *testing.T) {
	e := newEnv(t)
	cfg := testConfig()

	res, err := e.svc.Auth.Register(context.Background(), smodels.RegisterRequest{
		Name:     "  Ann Lee ",
		Username: "  Ann_Lee ",
		Email:    " ANN@Example.COM ",
		Password: "password123",
	})
	require.NoError(t, err)

	assert.Equal(t, "Ann Lee", res.User.Name)
	assert.Equal(t, "ann_lee", res.User.Username)
	assert.Equal(t, "ann@example.com", res.User.Email)
	assert.NotEqual(t, "password123", res.User.PasswordHash)

	claims, err := crypto.ParseAccessToken(res.Token, crypto.JWTConfig{
		Issuer:     cfg.Auth.Issuer,
		SigningKey: cfg.Auth.JWT.SigningKey,
	})
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, claims.Subject)
	// 7 дней по умолчанию
	assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestRegister_DuplicateHandleAnyCase(t *testing.T) {
	e := newEnv(t)
	e.register(t, "ann")

	_, err := e.svc.Auth.Register(context.Background(), smodels.RegisterRequest{
		Name: "Other", Username: "ANN", Email: "other@example.com", Password: "password123",
	})
	assert.ErrorIs(t, err, serr.ErrAlreadyExists)

	_, err = e.svc.Auth.Register(context.Background(), smodels.RegisterRequest{
		Name: "Other", Username: "other", Email: "ANN@EXAMPLE.COM", Password: "password123",
	})
	assert.ErrorIs(t, err, serr.ErrAlreadyExists)
}

func TestRegister_Validation(t *testing.T) {
	valid := smodels.RegisterRequest{Name: "Ann", Username: "ann", Email: "ann@example.com", Password: "password123"}

	cases := []struct {
		name   string
		mutate func(r *smodels.RegisterRequest)
		msg    string
	}{
		{"empty name", func(r *smodels.RegisterRequest) { r.Name = "   " }, "name is required"},
		{"empty username", func(r *smodels.RegisterRequest) { r.Username = "" }, "username is required"},
		{"short username", func(r *smodels.RegisterRequest) { r.Username = "ab" }, "username must be"},
		{"username with space", func(r *smodels.RegisterRequest) { r.Username = "ann lee" }, "username must be"},
		{"bad email", func(r *smodels.RegisterRequest) { r.Email = "ann-at-example" }, "email is not valid"},
		{"short password", func(r *smodels.RegisterRequest) { r.Password = "1234567" }, "password must be at least 8"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := newEnv(t)
			req := valid
			tc.mutate(&req)

			_, err := e.svc.Auth.Register(context.Background(), req)
			require.ErrorIs(t, err, serr.ErrInvalidInput)
			assert.Contains(t, err.Error(), tc.msg)
		})
	}
}

// неверный пароль и неизвестный email неотличимы
func TestLogin_SameErrorForUnknownEmailAndWrongPassword(t *testing.T) {
	e := newEnv(t)
	e.register(t, "ann")
	ctx := context.Background()

	_, errWrong := e.svc.Auth.Login(ctx, smodels.LoginRequest{Email: "ann@example.com", Password: "wrong-password"})
	_, errUnknown := e.svc.Auth.Login(ctx, smodels.LoginRequest{Email: "ghost@example.com", Password: "password123"})

	require.ErrorIs(t, errWrong, serr.ErrInvalidCredentials)
	require.ErrorIs(t, errUnknown, serr.ErrInvalidCredentials)
	assert.Equal(t, errWrong.Error(), errUnknown.Error())
}

func TestLogin_OK_CaseInsensitiveEmail(t *testing.T) {
	e := newEnv(t)
	u := e.register(t, "ann")

	res, err := e.svc.Auth.Login(context.Background(), smodels.LoginRequest{Email: " Ann@Example.com", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, u.ID, res.User.ID)
	assert.NotEmpty(t, res.Token)
}

func TestLogin_EmptyFields(t *testing.T) {
	e := newEnv(t)
	_, err := e.svc.Auth.Login(context.Background(), smodels.LoginRequest{Email: "", Password: ""})
	assert.ErrorIs(t, err, serr.ErrInvalidInput)
}

func TestLogout_RevokesUntilExpiry(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	revoked, err := e.svc.Auth.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, e.svc.Auth.Logout(ctx, "jti-1", time.Now().Add(time.Hour)))
	revoked, err = e.svc.Auth.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	// уже истёкший токен отзывать незачем
	require.NoError(t, e.svc.Auth.Logout(ctx, "jti-2", time.Now().Add(-time.Minute)))
	revoked, err = e.svc.Auth.IsRevoked(ctx, "jti-2")
	require.NoError(t, err)
	assert.False(t, revoked)
}
