// Package middleware содержит HTTP middleware сервера.
package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/IvanChernomyrdin/go-devlog/internal/server/crypto"
	"github.com/IvanChernomyrdin/go-devlog/internal/server/models"
	serr "github.com/IvanChernomyrdin/go-devlog/internal/shared/errors"
	"github.com/IvanChernomyrdin/go-devlog/internal/shared/logger"
)

// ctxKey используется как тип ключа для хранения значений в context.Context.
// Отдельный тип предотвращает коллизии ключей между пакетами.
type ctxKey string

const (
	userKey   ctxKey = "user"
	claimsKey ctxKey = "claims"
)

// IdentityResolver — откуда берём пользователя по sub из токена.
type IdentityResolver interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
}

// RevocationChecker — отозван ли токен с этим jti (logout).
type RevocationChecker interface {
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// JWTVerifier — guard защищённых маршрутов.
//
// Используется в HTTP middleware для:
//   - проверки подписи, срока действия, issuer и audience токена
//   - отсечения отозванных токенов
//   - загрузки пользователя и сохранения его в context.Context
type JWTVerifier struct {
	cfg     crypto.JWTConfig
	users   IdentityResolver
	revoked RevocationChecker
	log     *logger.HTTPLogger
}

// NewJWTVerifier создаёт JWTVerifier. revoked может быть nil.
func NewJWTVerifier(cfg crypto.JWTConfig, users IdentityResolver, revoked RevocationChecker, log *logger.HTTPLogger) *JWTVerifier {
	return &JWTVerifier{cfg: cfg, users: users, revoked: revoked, log: log}
}

// UserFromContext возвращает пользователя, которого положил AuthMiddleware.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	u, ok := ctx.Value(userKey).(*models.User)
	return u, ok && u != nil
}

// UserIDFromContext извлекает userID аутентифицированного пользователя из контекста.
//
// Возвращает:
//   - userID
//   - false, если пользователь не аутентифицирован
func UserIDFromContext(ctx context.Context) (string, bool) {
	u, ok := UserFromContext(ctx)
	if !ok {
		return "", false
	}
	return u.ID, true
}

// ClaimsFromContext возвращает claims проверенного токена (нужны logout: jti и exp).
func ClaimsFromContext(ctx context.Context) (*jwt.RegisteredClaims, bool) {
	c, ok := ctx.Value(claimsKey).(*jwt.RegisteredClaims)
	return c, ok && c != nil
}

// WithUser кладёт пользователя и claims в контекст. Нужен в тестах хендлеров.
func WithUser(ctx context.Context, u *models.User, claims *jwt.RegisteredClaims) context.Context {
	ctx = context.WithValue(ctx, userKey, u)
	if claims != nil {
		ctx = context.WithValue(ctx, claimsKey, claims)
	}
	return ctx
}

// AuthMiddleware возвращает HTTP middleware для проверки JWT access-токенов.
//
// Middleware:
//   - ожидает заголовок Authorization: Bearer <token>
//   - валидирует подпись и claims токена
//   - проверяет, что токен не отозван
//   - загружает пользователя по claims.Subject; удалённый пользователь — 401
//   - сохраняет пользователя и claims в context.Context
//
// В случае ошибки возвращает HTTP 401 с JSON {"message": ...}.
func (v *JWTVerifier) AuthMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			tokenStr := ExtractBearer(r.Header.Get("Authorization"))
			if tokenStr == "" {
				unauthorized(w, "missing bearer token")
				return
			}

			claims, err := crypto.ParseAccessToken(tokenStr, v.cfg)
			if err != nil {
				if errors.Is(err, jwt.ErrTokenExpired) {
					unauthorized(w, "token expired")
					return
				}
				unauthorized(w, "invalid token")
				return
			}

			if v.revoked != nil {
				revoked, err := v.revoked.IsRevoked(ctx, claims.ID)
				if err != nil {
					v.internal(w, "revocation check failed", err)
					return
				}
				if revoked {
					unauthorized(w, "token revoked")
					return
				}
			}

			user, err := v.users.GetByID(ctx, claims.Subject)
			if err != nil {
				if errors.Is(err, serr.ErrNotFound) {
					unauthorized(w, "user no longer exists")
					return
				}
				v.internal(w, "load user failed", err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(ctx, user, claims)))
		})
	}
}

// ExtractBearer извлекает JWT из заголовка Authorization.
//
// Ожидаемый формат:
//
//	Authorization: Bearer <token>
//
// Возвращает пустую строку, если формат некорректен.
func ExtractBearer(h string) string {
	h = strings.TrimSpace(h)
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

type errorBody struct {
	Message string `json:"message"`
}

func unauthorized(w http.ResponseWriter, reason string) {
	writeJSONError(w, http.StatusUnauthorized, serr.ErrUnauthorized.Error()+": "+reason)
}

func (v *JWTVerifier) internal(w http.ResponseWriter, msg string, err error) {
	if v.log != nil {
		v.log.Error(msg, zap.Error(err))
	}
	writeJSONError(w, http.StatusInternalServerError, serr.ErrInternal.Error())
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorBody{Message: msg})
}
