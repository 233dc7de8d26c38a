package service

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/IvanChernomyrdin/go-devlog/internal/server/config"
	"github.com/IvanChernomyrdin/go-devlog/internal/server/crypto"
	"github.com/IvanChernomyrdin/go-devlog/internal/server/models"
	smodels "github.com/IvanChernomyrdin/go-devlog/internal/server/service/models"
	serr "github.com/IvanChernomyrdin/go-devlog/internal/shared/errors"
)

// handleRe — допустимый handle после приведения к нижнему регистру.
var handleRe = regexp.MustCompile(`^[a-z0-9_.-]{3,32}$`)

// AuthService реализует регистрацию, вход и выход.
//
// Ответственность:
//   - регистрация пользователя (handle и email уникальны без учёта регистра)
//   - аутентификация по email и паролю
//   - выпуск access токена (refresh токенов нет, срок жизни фиксированный)
//   - отзыв токена при logout
type AuthService struct {
	users   UsersRepo
	revoked TokenRevoker

	hasher   crypto.Hasher
	jwt      crypto.JWTConfig
	validate *validator.Validate
}

// NewAuthService создаёт AuthService с зависимостями и настройками из конфига.
// revoked может быть nil: тогда logout ничего не делает.
func NewAuthService(users UsersRepo, revoked TokenRevoker, cfg *config.Config) *AuthService {
	argon := crypto.Argon2Params{
		Time:      cfg.Password.Argon2.Time,
		MemoryKiB: cfg.Password.Argon2.MemoryKiB,
		Threads:   cfg.Password.Argon2.Threads,
		KeyLen:    cfg.Password.Argon2.KeyLen,
		SaltLen:   cfg.Password.Argon2.SaltLen,
	}
	hasher, err := crypto.NewHasher(cfg.Password.Hasher, argon, cfg.Password.Bcrypt.Cost)
	if err != nil {
		// Validate конфига не пропускает неизвестный hasher, сюда попадаем только из тестов
		hasher = crypto.Argon2Hasher{Params: argon}
	}

	return &AuthService{
		users:   users,
		revoked: revoked,
		hasher:  hasher,
		jwt: crypto.JWTConfig{
			Issuer:     cfg.Auth.Issuer,
			Audience:   cfg.Auth.Audience,
			SigningKey: cfg.Auth.JWT.SigningKey,
			AccessTTL:  cfg.Auth.AccessTTL,
		},
		validate: newValidator(),
	}
}

// TokenConfig — параметры проверки токенов, тот же набор, которым они подписываются.
// Нужен middleware.JWTVerifier.
func (s *AuthService) TokenConfig() crypto.JWTConfig { return s.jwt }

// newValidator настраивает validator: имена полей берём из json-тегов,
// чтобы в сообщении об ошибке было "username", а не "Username".
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("handle", func(fl validator.FieldLevel) bool {
		return handleRe.MatchString(fl.Field().String())
	})
	return v
}

// Register регистрирует нового пользователя и сразу выдаёт токен.
//
// Валидация (после trim и приведения email/username к нижнему регистру):
//   - все поля обязательны
//   - email валидный
//   - username из [a-z0-9_.-], 3..32 символа
//   - пароль от 8 символов
//
// Ошибки:
//   - ErrInvalidInput при некорректных данных
//   - ErrAlreadyExists если email или username заняты
func (s *AuthService) Register(ctx context.Context, req smodels.RegisterRequest) (*smodels.AuthResponse, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Username = strings.ToLower(strings.TrimSpace(req.Username))
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	if err := s.validate.Struct(req); err != nil {
		return nil, validationError(err)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u, err := s.users.Create(ctx, &models.User{
		Name:         req.Name,
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
	})
	if err != nil {
		return nil, err
	}

	return s.issue(u)
}

// Login аутентифицирует пользователя и выдаёт токен.
//
// Поведение:
//   - не раскрывает факт существования email: неизвестный email и неверный пароль
//     дают одну и ту же ErrInvalidCredentials
//
// Ошибки:
//   - ErrInvalidInput
//   - ErrInvalidCredentials
func (s *AuthService) Login(ctx context.Context, req smodels.LoginRequest) (*smodels.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return nil, serr.Invalid("email and password are required")
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		// не палим существование email
		if errors.Is(err, serr.ErrNotFound) {
			return nil, serr.ErrInvalidCredentials
		}
		return nil, err
	}

	ok, err := s.hasher.Verify(req.Password, u.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return nil, serr.ErrInvalidCredentials
	}

	return s.issue(u)
}

// Logout отзывает токен до момента его естественного истечения.
// tokenID — jti из claims, уже проверенных middleware.
func (s *AuthService) Logout(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if s.revoked == nil || tokenID == "" {
		return nil
	}
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	return s.revoked.Revoke(ctx, crypto.HashTokenID(tokenID), ttl)
}

// IsRevoked сообщает, был ли токен с этим jti отозван.
func (s *AuthService) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	if s.revoked == nil || tokenID == "" {
		return false, nil
	}
	return s.revoked.IsRevoked(ctx, crypto.HashTokenID(tokenID))
}

func (s *AuthService) issue(u *models.User) (*smodels.AuthResponse, error) {
	token, err := crypto.NewAccessToken(u.ID, s.jwt)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &smodels.AuthResponse{Token: token, User: u}, nil
}

// validationError превращает ошибку validator в ErrInvalidInput с понятным текстом
// по первому невалидному полю.
func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return serr.ErrInvalidInput
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return serr.Invalid(fe.Field() + " is required")
	case "email":
		return serr.Invalid("email is not valid")
	case "handle":
		return serr.Invalid("username must be 3-32 characters: a-z, 0-9, '_', '.', '-'")
	case "min":
		return serr.Invalid(fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param()))
	case "max":
		return serr.Invalid(fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param()))
	default:
		return serr.Invalid(fe.Field() + " is not valid")
	}
}
