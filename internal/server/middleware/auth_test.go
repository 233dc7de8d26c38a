package middleware_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IvanChernomyrdin/go-devlog/internal/server/crypto"
	"github.com/IvanChernomyrdin/go-devlog/internal/server/middleware"
	"github.com/IvanChernomyrdin/go-devlog/internal/server/models"
	serr "github.com/IvanChernomyrdin/go-devlog/internal/shared/errors"
)

const testKey = "supersecretkeysupersecretkey123456"

func testJWT() crypto.JWTConfig {
	return crypto.JWTConfig{
		Issuer:     "devlog",
		Audience:   "devlog-web",
		SigningKey: testKey,
		AccessTTL:  time.Hour,
	}
}

type usersStub map[string]*models.User

func (u usersStub) GetByID(_ context.Context, id string) (*models.User, error) {
	if id == "broken" {
		return nil, errors.New("db down")
	}
	user, ok := u[id]
	if !ok {
		return nil, serr.ErrNotFound
	}
	return user, nil
}

type revokedStub struct {
	ids map[string]bool
	err error
}

func (r revokedStub) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	return r.ids[tokenID], r.err
}

func makeToken(t *testing.T, sub string, cfg crypto.JWTConfig) (string, *jwt.RegisteredClaims) {
	t.Helper()
	tok, err := crypto.NewAccessToken(sub, cfg)
	require.NoError(t, err)
	claims, err := crypto.ParseAccessToken(tok, cfg)
	require.NoError(t, err)
	return tok, claims
}

func okHandler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, ok := middleware.UserFromContext(r.Context())
		require.True(t, ok)
		id, ok := middleware.UserIDFromContext(r.Context())
		require.True(t, ok)
		require.Equal(t, u.ID, id)
		claims, ok := middleware.ClaimsFromContext(r.Context())
		require.True(t, ok)
		require.Equal(t, id, claims.Subject)
		w.WriteHeader(http.StatusNoContent)
	})
}

func serve(v *middleware.JWTVerifier, h http.Handler, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/projects", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rr := httptest.NewRecorder()
	v.AuthMiddleware()(h).ServeHTTP(rr, req)
	return rr
}

func message(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	return body.Message
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	cfg := testJWT()
	users := usersStub{"u1": {ID: "u1", Username: "alice"}}
	v := middleware.NewJWTVerifier(cfg, users, revokedStub{}, nil)

	tok, _ := makeToken(t, "u1", cfg)
	rr := serve(v, okHandler(t), "Bearer "+tok)
	assert.Equal(t, http.StatusNoContent, rr.Code)
}

func TestAuthMiddleware_LowercaseScheme(t *testing.T) {
	cfg := testJWT()
	v := middleware.NewJWTVerifier(cfg, usersStub{"u1": {ID: "u1"}}, nil, nil)

	tok, _ := makeToken(t, "u1", cfg)
	rr := serve(v, okHandler(t), "bearer "+tok)
	assert.Equal(t, http.StatusNoContent, rr.Code)
}

func TestAuthMiddleware_Rejects(t *testing.T) {
	cfg := testJWT()
	users := usersStub{"u1": {ID: "u1"}}

	valid, claims := makeToken(t, "u1", cfg)
	orphan, _ := makeToken(t, "ghost", cfg)

	expiredCfg := cfg
	expiredCfg.AccessTTL = -time.Minute
	expired, err := crypto.NewAccessToken("u1", expiredCfg)
	require.NoError(t, err)

	otherCfg := cfg
	otherCfg.SigningKey = "another-key-another-key-another-key"
	forged, _ := makeToken(t, "u1", otherCfg)

	tests := []struct {
		name    string
		header  string
		revoked revokedStub
		want    string
	}{
		{name: "no header", header: "", want: "missing bearer token"},
		{name: "wrong scheme", header: "Basic " + valid, want: "missing bearer token"},
		{name: "bearer without token", header: "Bearer ", want: "missing bearer token"},
		{name: "garbage", header: "Bearer abc.def.ghi", want: "invalid token"},
		{name: "wrong key", header: "Bearer " + forged, want: "invalid token"},
		{name: "expired", header: "Bearer " + expired, want: "token expired"},
		{name: "revoked", header: "Bearer " + valid, revoked: revokedStub{ids: map[string]bool{claims.ID: true}}, want: "token revoked"},
		{name: "deleted user", header: "Bearer " + orphan, want: "user no longer exists"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true })

			v := middleware.NewJWTVerifier(cfg, users, tt.revoked, nil)
			rr := serve(v, next, tt.header)

			assert.False(t, called)
			assert.Equal(t, http.StatusUnauthorized, rr.Code)
			assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
			assert.Equal(t, "not authorized: "+tt.want, message(t, rr))
		})
	}
}

func TestAuthMiddleware_StoreFailures(t *testing.T) {
	cfg := testJWT()

	t.Run("revocation store", func(t *testing.T) {
		v := middleware.NewJWTVerifier(cfg, usersStub{"u1": {ID: "u1"}}, revokedStub{err: errors.New("redis down")}, nil)
		tok, _ := makeToken(t, "u1", cfg)
		rr := serve(v, okHandler(t), "Bearer "+tok)
		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.Equal(t, serr.ErrInternal.Error(), message(t, rr))
	})

	t.Run("users store", func(t *testing.T) {
		v := middleware.NewJWTVerifier(cfg, usersStub{}, nil, nil)
		tok, _ := makeToken(t, "broken", cfg)
		rr := serve(v, okHandler(t), "Bearer "+tok)
		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})
}

func TestExtractBearer(t *testing.T) {
	assert.Equal(t, "abc", middleware.ExtractBearer("Bearer abc"))
	assert.Equal(t, "abc", middleware.ExtractBearer("  Bearer   abc  "))
	assert.Equal(t, "", middleware.ExtractBearer("Token abc"))
	assert.Equal(t, "", middleware.ExtractBearer("Bearer"))
	assert.Equal(t, "", middleware.ExtractBearer(""))
}

func TestContextHelpers_Empty(t *testing.T) {
	ctx := context.Background()
	_, ok := middleware.UserFromContext(ctx)
	assert.False(t, ok)
	_, ok = middleware.UserIDFromContext(ctx)
	assert.False(t, ok)
	_, ok = middleware.ClaimsFromContext(ctx)
	assert.False(t, ok)

	ctx = middleware.WithUser(ctx, &models.User{ID: "u1"}, nil)
	id, ok := middleware.UserIDFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, "u1", id)
	_, ok = middleware.ClaimsFromContext(ctx)
	assert.False(t, ok)
}
