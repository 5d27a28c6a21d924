package app

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/tempizhere/docstore/internal/config"
	"github.com/tempizhere/docstore/internal/middleware"
	"go.uber.org/zap"
)

// NewRouter создаёт маршрутизатор и регистрирует обработчики.
// Читающие маршруты открыты, мутирующие защищены базовой аутентификацией
// администратора, внутренняя статистика доступна только из доверенной подсети.
func NewRouter(a *App, cfg *config.Config, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.LoggingMiddleware(logger))
	r.Use(middleware.GzipMiddleware)

	requireAdmin := middleware.BasicAuthMiddleware(cfg, logger)

	r.Get("/", a.HandleRoot)
	r.Get("/api/", a.HandleMeta)
	r.Get("/ping", a.HandlePing)

	r.Route("/api/docs", func(r chi.Router) {
		r.Get("/packages", a.HandleListPackages)
		r.Get("/packages/name/{name}", a.HandleGetPackageByName)
		r.Get("/packages/{package_id}", a.HandleGetPackage)
		r.Get("/packages/{package_id}/sources", a.HandleListPackageSources)
		r.Get("/sources/{source_id}", a.HandleGetSource)

		r.Group(func(r chi.Router) {
			r.Use(requireAdmin)
			r.Post("/packages", a.HandleCreatePackage)
			r.Patch("/packages/{package_id}", a.HandlePatchPackage)
			r.Delete("/packages/{package_id}", a.HandleDeletePackage)
			r.Post("/sources", a.HandleCreateSource)
			r.Patch("/sources/{source_id}", a.HandlePatchSource)
			r.Delete("/sources/{source_id}", a.HandleDeleteSource)
		})
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.TrustedSubnetMiddleware(cfg.TrustedSubnet, logger))
		r.Get("/api/internal/stats", a.HandleStats)
	})

	return r
}
