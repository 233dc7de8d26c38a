// Package crypto содержит криптографические примитивы,
// используемые сервером DevLog.
//
// В частности, пакет отвечает за:
//   - выпуск и проверку JWT access-токенов (HS256, фиксированный срок жизни);
//   - хэширование паролей (argon2id или bcrypt);
//   - генерацию идентификаторов токенов для отзыва при logout.
package crypto

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	serr "github.com/IvanChernomyrdin/go-devlog/internal/shared/errors"
)

// JWTConfig описывает параметры выпуска и проверки JWT access-токена.
type JWTConfig struct {
	// Issuer — значение поля iss (кто выдал токен). Пустой — не проверяется.
	Issuer string
	// Audience — значение поля aud (для кого предназначен токен). Пустой — не проверяется.
	Audience string
	// SigningKey — секретный ключ для подписи токена (HS256).
	// Должен быть достаточно длинным и случайным.
	SigningKey string
	// AccessTTL — срок жизни access-токена (в DevLog 7 дней).
	AccessTTL time.Duration
}

// NewAccessToken создаёт и подписывает JWT access-токен для пользователя.
//
// Токен содержит стандартные RegisteredClaims:
//   - iss (Issuer), aud (Audience) — если заданы
//   - sub (userID)
//   - jti (случайный идентификатор, нужен для отзыва при logout)
//   - iat (IssuedAt)
//   - exp (ExpiresAt) = iat + AccessTTL
//
// Refresh-токенов нет: после истечения срока клиент логинится заново.
func NewAccessToken(userID string, cfg JWTConfig) (string, error) {
	if strings.TrimSpace(userID) == "" {
		return "", serr.ErrUserIDEmpty
	}
	jti, err := NewTokenID()
	if err != nil {
		return "", err
	}

	now := time.Now()

	claims := jwt.RegisteredClaims{
		Issuer:    cfg.Issuer,
		Subject:   userID,
		ID:        jti,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(cfg.AccessTTL)),
	}
	if cfg.Audience != "" {
		claims.Audience = jwt.ClaimStrings{cfg.Audience}
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(cfg.SigningKey))
}

// ParseAccessToken проверяет подпись, алгоритм, срок жизни, issuer/audience
// и возвращает claims.
//
// Любая проблема с токеном сводится к serr.ErrUnauthorized (обёрнутой),
// чтобы HTTP-слой отвечал единообразно 401.
func ParseAccessToken(tokenStr string, cfg JWTConfig) (*jwt.RegisteredClaims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithExpirationRequired(),
	}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}
	if cfg.Audience != "" {
		opts = append(opts, jwt.WithAudience(cfg.Audience))
	}

	claims := &jwt.RegisteredClaims{}
	_, err := jwt.NewParser(opts...).ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		return []byte(cfg.SigningKey), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, errors.Join(serr.ErrUnauthorized, jwt.ErrTokenExpired)
		}
		return nil, errors.Join(serr.ErrUnauthorized, err)
	}

	if strings.TrimSpace(claims.Subject) == "" {
		return nil, serr.ErrUnauthorized
	}
	return claims, nil
}
