package serverhttp

import (
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"confronto-service/internal/backend"
	confHnd "confronto-service/internal/confronto/handler"
	confSvc "confronto-service/internal/confronto/service"
	"confronto-service/internal/config"
	"confronto-service/internal/middleware"
	"confronto-service/server/http/handlers"
)

func NewRouter(cfg config.Config, logger zerolog.Logger) *chi.Mux {
	r := chi.NewRouter()

	// order matters: recover -> requestID -> logging -> cors -> limit
	r.Use(middleware.Recover(logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logging(logger))
	r.Use(middleware.CORS(cfg.AllowOrigins))
	r.Use(middleware.LimitBytes(int64(cfg.MaxUploadMB) * 1024 * 1024))

	svc := confSvc.New(logger)
	cli := backend.New(cfg.BackendURL, cfg.BackendTimeout)

	r.Get("/health", handlers.Health)

	r.Post("/confronto", confHnd.Confronto(svc, logger))
	r.Post("/confronto/export", confHnd.ConfrontoExport(svc, logger))
	r.Get("/commesse/{id}/confronto", confHnd.CommessaConfronto(svc, cli, logger))

	return r
}
