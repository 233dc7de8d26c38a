// Package http реализует маршрутизацию HTTP-слоя сервера DevLog.
//
// Пакет отвечает за:
//   - регистрацию HTTP-маршрутов и настройку роутера (chi);
//   - логирование выполнения HTTP-запросов;
//   - CORS для фронтенда;
//   - проверку JWT access-токенов на защищённых маршрутах.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/IvanChernomyrdin/go-devlog/internal/server/api"
	"github.com/IvanChernomyrdin/go-devlog/internal/server/middleware"
	"github.com/IvanChernomyrdin/go-devlog/internal/server/storage"
	"github.com/IvanChernomyrdin/go-devlog/internal/shared/logger"
)

// Options — то, что роутеру нужно помимо хендлеров.
type Options struct {
	// AllowedOrigins — origin'ы фронтенда для CORS. Пусто — CORS не подключается.
	AllowedOrigins []string
	// UploadsDir — каталог local-хранилища картинок, раздаётся по /uploads/*.
	// Листинга каталогов нет, отдаются только сами файлы.
	// Пусто — маршрут не регистрируется (minio/s3 отдают файлы сами).
	UploadsDir string
	// Log — логгер запросов.
	Log *logger.HTTPLogger
}

// NewRouter создаёт и настраивает HTTP-роутер сервера.
//
// Роутер использует chi.Router и регистрирует:
//   - middleware восстановления после паники, логирования и CORS для всех запросов;
//   - /swagger/*, /healthz и /uploads/*;
//   - публичные эндпоинты /api/auth/register, /api/auth/login и /api/public/{handle};
//   - группу защищённых JWT эндпоинтов: auth/me, auth/logout, projects, notes, profile.
func NewRouter(h *api.Handler, opts Options) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	// логирование всех запросов
	r.Use(chimw.RequestID)
	r.Use(middleware.LoggerMiddleware(opts.Log))
	if len(opts.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   opts.AllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Content-Type", "Authorization"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	// добавляем swagger
	r.Get("/swagger/*", httpSwagger.WrapHandler)
	r.Get("/healthz", h.Health)

	if opts.UploadsDir != "" {
		fs := http.StripPrefix("/uploads/", http.FileServer(storage.NewFileSystem(opts.UploadsDir)))
		r.Get("/uploads/*", fs.ServeHTTP)
	}

	r.Route("/api", func(r chi.Router) {
		// Публичные пути
		r.Post("/auth/register", h.Register)
		r.Post("/auth/login", h.Login)
		r.Get("/public/{handle}", h.PublicProfile)

		// защищены пути
		r.Group(func(r chi.Router) {
			// проверка access токена и загрузка пользователя
			r.Use(h.Verifier.AuthMiddleware())

			r.Get("/auth/me", h.Me)
			r.Post("/auth/logout", h.Logout)

			r.Route("/projects", func(r chi.Router) {
				r.Get("/", h.ListProjects)
				r.Post("/", h.CreateProject)
				r.Get("/{id}", h.GetProject)
				r.Put("/{id}", h.UpdateProject)
				r.Delete("/{id}", h.DeleteProject)
			})

			r.Route("/notes", func(r chi.Router) {
				r.Get("/", h.ListNotes)
				r.Post("/", h.CreateNote)
				r.Get("/{id}", h.GetNote)
				r.Put("/{id}", h.UpdateNote)
				r.Delete("/{id}", h.DeleteNote)
			})

			r.Get("/profile", h.GetProfile)
			r.Put("/profile", h.UpdateProfile)
		})
	})

	return r
}
