// Логирование HTTP-запросов
package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/IvanChernomyrdin/go-devlog/internal/shared/logger"
)

// ResponseWriter запоминает статус и размер ответа для лога.
// Статус фиксируется первым WriteHeader или Write, повторные вызовы его не меняют.
type ResponseWriter struct {
	http.ResponseWriter
	Status int
	Size   int
}

func (w *ResponseWriter) WriteHeader(status int) {
	if w.Status == 0 {
		w.Status = status
	}
	w.ResponseWriter.WriteHeader(status)
}

func (w *ResponseWriter) Write(b []byte) (int, error) {
	if w.Status == 0 {
		w.Status = http.StatusOK
	}
	n, err := w.ResponseWriter.Write(b)
	w.Size += n
	return n, err
}

// Unwrap нужен http.ResponseController (Flush и т.п. через обёртку).
func (w *ResponseWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

// LoggerMiddleware пишет по строке на каждый запрос: метод, uri, статус, размер ответа и время.
// К строке добавляются шаблон маршрута chi (/api/projects/{id}) и request id,
// если перед ним стоит chi RequestID. nil — логгер по умолчанию (runtime/logs/http.log).
func LoggerMiddleware(loggerHTTP *logger.HTTPLogger) func(http.Handler) http.Handler {
	if loggerHTTP == nil {
		loggerHTTP = logger.NewHTTPLogger()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wr := &ResponseWriter{ResponseWriter: w}
			next.ServeHTTP(wr, r)

			// хендлер ничего не написал — net/http отдаст 200
			if wr.Status == 0 {
				wr.Status = http.StatusOK
			}

			var fields []zap.Field
			if rc := chi.RouteContext(r.Context()); rc != nil {
				if pattern := rc.RoutePattern(); pattern != "" {
					fields = append(fields, zap.String("route", pattern))
				}
			}
			if id := chimw.GetReqID(r.Context()); id != "" {
				fields = append(fields, zap.String("request_id", id))
			}

			reqLog := loggerHTTP
			if len(fields) > 0 {
				reqLog = &logger.HTTPLogger{Logger: loggerHTTP.With(fields...)}
			}
			reqLog.LogRequest(r.Method, r.RequestURI, wr.Status, wr.Size, float64(time.Since(start).Microseconds())/1000)
		})
	}
}
