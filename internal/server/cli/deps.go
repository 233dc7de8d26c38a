package cli

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"

	"github.com/IvanChernomyrdin/go-devlog/internal/server/api"
	"github.com/IvanChernomyrdin/go-devlog/internal/server/config"
	"github.com/IvanChernomyrdin/go-devlog/internal/server/middleware"
	h "github.com/IvanChernomyrdin/go-devlog/internal/server/net/http"
	"github.com/IvanChernomyrdin/go-devlog/internal/server/repository"
	"github.com/IvanChernomyrdin/go-devlog/internal/server/repository/memory"
	"github.com/IvanChernomyrdin/go-devlog/internal/server/repository/mongorepo"
	"github.com/IvanChernomyrdin/go-devlog/internal/server/service"
	"github.com/IvanChernomyrdin/go-devlog/internal/server/sessions"
	"github.com/IvanChernomyrdin/go-devlog/internal/server/storage"
	"github.com/IvanChernomyrdin/go-devlog/internal/shared/logger"
)

// Deps — открытые подключения и собранные поверх них сервисы.
type Deps struct {
	Repos    service.Repositories
	Services *service.Services

	closers []func()
}

// Close закрывает подключения в обратном порядке.
func (d *Deps) Close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		d.closers[i]()
	}
	d.closers = nil
}

// OpenDeps открывает хранилище по db.driver, хранилище картинок по uploads.driver
// и список отозванных токенов (redis или память), затем собирает сервисы.
func OpenDeps(ctx context.Context, cfg *config.Config, log *logger.HTTPLogger) (*Deps, error) {
	d := &Deps{}
	ok := false
	defer func() {
		if !ok {
			d.Close()
		}
	}()

	if err := d.openStore(ctx, cfg, log); err != nil {
		return nil, err
	}

	assets, err := storage.Open(ctx, cfg.Uploads)
	if err != nil {
		return nil, fmt.Errorf("open uploads storage: %w", err)
	}
	d.Repos.Assets = assets

	if cfg.Redis.Enabled {
		rdb, err := sessions.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		d.closers = append(d.closers, func() { _ = rdb.Close() })
		d.Repos.Revoked = sessions.NewRedisRevocations(rdb)
	} else {
		log.Sugar().Warn("redis disabled: revoked tokens are kept in memory and lost on restart")
		d.Repos.Revoked = sessions.NewMemoryRevocations()
	}

	d.Services = service.NewServices(d.Repos, cfg)
	ok = true
	return d, nil
}

func (d *Deps) openStore(ctx context.Context, cfg *config.Config, log *logger.HTTPLogger) error {
	switch cfg.DB.Driver {
	case "postgres":
		db, err := config.OpenPostgres(ctx, cfg.DB, log)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		d.closers = append(d.closers, func() { _ = db.Close() })
		if cfg.Migrations.Enabled {
			if err := config.MigrateUp(db, cfg.Migrations.Path, log); err != nil {
				return fmt.Errorf("apply migrations: %w", err)
			}
		}
		d.usePostgres(db)

	case "mongo":
		client, db, err := config.OpenMongo(ctx, cfg.DB, log)
		if err != nil {
			return fmt.Errorf("connect mongo: %w", err)
		}
		d.closers = append(d.closers, func() { _ = client.Disconnect(context.Background()) })
		if err := mongorepo.EnsureIndexes(ctx, db); err != nil {
			return fmt.Errorf("ensure mongo indexes: %w", err)
		}
		d.Repos.Users = mongorepo.NewUsersRepository(db)
		d.Repos.Projects = mongorepo.NewProjectsRepository(db)
		d.Repos.Notes = mongorepo.NewNotesRepository(db)
		d.Repos.Health = mongorepo.NewHealth(client)

	case "memory":
		log.Sugar().Warn("db.driver=memory: data is lost on restart")
		store := memory.NewStore()
		d.Repos.Users = store.Users()
		d.Repos.Projects = store.Projects()
		d.Repos.Notes = store.Notes()
		d.Repos.Health = store

	default:
		return fmt.Errorf("unknown db driver %q", cfg.DB.Driver)
	}
	return nil
}

func (d *Deps) usePostgres(db *sql.DB) {
	d.Repos.Users = repository.NewUsersRepository(db)
	d.Repos.Projects = repository.NewProjectsRepository(db)
	d.Repos.Notes = repository.NewNotesRepository(db)
	d.Repos.Health = repository.NewHealth(db)
}

// NewHTTPHandler собирает JWT guard, хендлеры и роутер поверх Deps.
func NewHTTPHandler(cfg *config.Config, d *Deps, log *logger.HTTPLogger) http.Handler {
	verifier := middleware.NewJWTVerifier(d.Services.Auth.TokenConfig(), d.Repos.Users, d.Services.Auth, log)

	handler := api.NewHandler(d.Services, log, verifier, api.Options{
		MaxBodyBytes:          cfg.Server.MaxBodyBytes,
		MaxUploadBytes:        cfg.Uploads.MaxBytes,
		LegacyForbiddenStatus: cfg.API.LegacyForbiddenStatus,
	})

	opts := h.Options{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		Log:            log,
	}
	if cfg.Uploads.Driver == "local" {
		opts.UploadsDir = cfg.Uploads.Dir
	}
	return h.NewRouter(handler, opts)
}
