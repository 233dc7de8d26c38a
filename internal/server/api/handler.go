// Package api реализует HTTP-слой сервера DevLog.
//
// Пакет отвечает за:
//   - обработку входящих запросов и формирование ответов (JSON, статусы);
//   - разбор JSON и multipart/form-data тел в патчи сервисного слоя;
//   - маппинг доменных ошибок (service/repository/storage) в HTTP-коды и сообщения.
//
// Маршруты регистрируются в internal/server/net/http.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/IvanChernomyrdin/go-devlog/internal/server/middleware"
	"github.com/IvanChernomyrdin/go-devlog/internal/server/service"
	"github.com/IvanChernomyrdin/go-devlog/internal/server/storage"
	"github.com/IvanChernomyrdin/go-devlog/internal/shared/logger"
)

// Каждый метод если будет возвращать ответ то будет это делать в JSON
// Вынес Content-Type и JSON для удобства
const (
	JsonContentType string = "application/json"
	ContentType     string = "Content-Type"
)

// DefaultMaxBodyBytes — лимит JSON тела, если в Options не задан.
const DefaultMaxBodyBytes int64 = 1 << 20

// Options — настройки HTTP-слоя из конфига.
type Options struct {
	// MaxBodyBytes — лимит JSON тела запроса.
	MaxBodyBytes int64
	// MaxUploadBytes — лимит одного файла в multipart форме.
	MaxUploadBytes int64
	// LegacyForbiddenStatus — отвечать 401 вместо 403 на чужой ресурс.
	LegacyForbiddenStatus bool
}

// Handler агрегирует зависимости HTTP-слоя и предоставляет методы-хендлеры.
//
// Handler содержит:
//   - Svc: сервисный слой (бизнес-логика);
//   - Log: логгер для записи событий и ошибок;
//   - Verifier: компонент проверки JWT и middleware авторизации.
//
// Методы Handler используются роутером для обработки HTTP-запросов.
type Handler struct {
	Svc      *service.Services
	Log      *logger.HTTPLogger
	Verifier *middleware.JWTVerifier

	opts Options
}

// NewHandler создаёт экземпляр Handler с переданными зависимостями.
//
// svc — набор сервисов приложения,
// log — логгер,
// verifier — JWT-проверка и middleware авторизации,
// opts — лимиты и флаги HTTP-слоя; нулевые лимиты заменяются значениями по умолчанию.
func NewHandler(svc *service.Services, log *logger.HTTPLogger, verifier *middleware.JWTVerifier, opts Options) *Handler {
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = storage.DefaultMaxBytes
	}
	if log == nil {
		log = logger.NewHTTPLogger()
	}
	return &Handler{
		Svc:      svc,
		Log:      log,
		Verifier: verifier,
		opts:     opts,
	}
}

// ErrorResponse стандартный формат ошибки API.
type ErrorResponse struct {
	Message string `json:"message"`
}

// MessageResponse — ответ без данных, например после удаления.
type MessageResponse struct {
	Message string `json:"message"`
}

// Вспомогательная функция вывода ошибки
func WriteError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, ErrorResponse{Message: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set(ContentType, JsonContentType)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
