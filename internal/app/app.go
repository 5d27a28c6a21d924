package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/tempizhere/docstore/internal/models"
	"github.com/tempizhere/docstore/internal/repository"
	"github.com/tempizhere/docstore/internal/service"
	"go.uber.org/zap"
)

// Метаданные сервиса для ответа /api/
const (
	serviceName    = "docstore"
	serviceVersion = "0.1.0"
)

// maxID — верхняя граница числовых идентификаторов в пути (2^31)
const maxID = int64(1) << 31

// MetaContact описывает контакт сопровождающего в метаданных API
type MetaContact struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// MetaResponse представляет метаданные API
type MetaResponse struct {
	Name    string      `json:"name"`
	Version string      `json:"version"`
	Contact MetaContact `json:"contact"`
}

// ErrorResponse представляет тело ошибки API
type ErrorResponse struct {
	Detail string                   `json:"detail"`
	Errors []models.ValidationError `json:"errors,omitempty"`
}

// App содержит хендлеры и зависимости
type App struct {
	svc    *service.Service
	db     repository.Database
	logger *zap.Logger
}

// NewApp создаёт новое приложение
func NewApp(svc *service.Service, db repository.Database, logger *zap.Logger) *App {
	return &App{svc: svc, db: db, logger: logger}
}

// HandleRoot перенаправляет на корень API
func (a *App) HandleRoot(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/api/", http.StatusTemporaryRedirect)
}

// HandleMeta возвращает метаданные API
func (a *App) HandleMeta(w http.ResponseWriter, r *http.Request) {
	a.writeJSONResponse(w, http.StatusOK, MetaResponse{
		Name:    serviceName,
		Version: serviceVersion,
		Contact: MetaContact{
			Name: "tempizhere",
			URL:  "https://github.com/tempizhere/docstore",
		},
	})
}

// HandlePing обрабатывает GET-запросы на "/ping"
func (a *App) HandlePing(w http.ResponseWriter, r *http.Request) {
	if a.db == nil {
		http.Error(w, "Database not configured", http.StatusInternalServerError)
		return
	}
	if err := a.db.Ping(); err != nil {
		http.Error(w, "Database connection failed", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// HandleListPackages обрабатывает GET-запросы на "/api/docs/packages"
func (a *App) HandleListPackages(w http.ResponseWriter, r *http.Request) {
	withSources := r.URL.Query().Get("with_sources") == "true"
	packages, err := a.svc.ListPackages(r.Context(), withSources)
	if err != nil {
		a.writeServiceError(w, err, "")
		return
	}
	if packages == nil {
		packages = []models.Package{}
	}
	a.writeJSONResponse(w, http.StatusOK, packages)
}

// HandleCreatePackage обрабатывает POST-запросы на "/api/docs/packages"
func (a *App) HandleCreatePackage(w http.ResponseWriter, r *http.Request) {
	var req models.PackageCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	pkg, err := a.svc.CreatePackage(r.Context(), req)
	if err != nil {
		a.writeServiceError(w, err, "")
		return
	}
	a.writeJSONResponse(w, http.StatusCreated, pkg)
}

// HandleGetPackage обрабатывает GET-запросы на "/api/docs/packages/{package_id}"
func (a *App) HandleGetPackage(w http.ResponseWriter, r *http.Request) {
	id, ok := a.parseID(w, r, "package_id")
	if !ok {
		return
	}
	pkg, err := a.svc.GetPackage(r.Context(), id)
	if err != nil {
		a.writeServiceError(w, err, fmt.Sprintf("No package with id '%d' was found.", id))
		return
	}
	a.writeJSONResponse(w, http.StatusOK, pkg)
}

// HandleGetPackageByName обрабатывает GET-запросы на "/api/docs/packages/name/{name}"
func (a *App) HandleGetPackageByName(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	pkg, err := a.svc.GetPackageByName(r.Context(), name)
	if err != nil {
		a.writeServiceError(w, err, fmt.Sprintf("No package with name '%s' was found.", name))
		return
	}
	a.writeJSONResponse(w, http.StatusOK, pkg)
}

// HandlePatchPackage обрабатывает PATCH-запросы на "/api/docs/packages/{package_id}"
func (a *App) HandlePatchPackage(w http.ResponseWriter, r *http.Request) {
	id, ok := a.parseID(w, r, "package_id")
	if !ok {
		return
	}
	var patch models.PackagePatchRequest
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		a.writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	pkg, err := a.svc.UpdatePackage(r.Context(), id, patch)
	if err != nil {
		a.writeServiceError(w, err, fmt.Sprintf("No package with id '%d' was found.", id))
		return
	}
	a.writeJSONResponse(w, http.StatusOK, pkg)
}

// HandleDeletePackage обрабатывает DELETE-запросы на "/api/docs/packages/{package_id}"
func (a *App) HandleDeletePackage(w http.ResponseWriter, r *http.Request) {
	id, ok := a.parseID(w, r, "package_id")
	if !ok {
		return
	}
	if err := a.svc.DeletePackage(r.Context(), id); err != nil {
		a.writeServiceError(w, err, fmt.Sprintf("No package with id '%d' was found.", id))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleListPackageSources обрабатывает GET-запросы на "/api/docs/packages/{package_id}/sources"
func (a *App) HandleListPackageSources(w http.ResponseWriter, r *http.Request) {
	id, ok := a.parseID(w, r, "package_id")
	if !ok {
		return
	}
	sources, err := a.svc.ListSources(r.Context(), id)
	if err != nil {
		a.writeServiceError(w, err, "")
		return
	}
	if sources == nil {
		sources = []models.Source{}
	}
	a.writeJSONResponse(w, http.StatusOK, sources)
}

// HandleCreateSource обрабатывает POST-запросы на "/api/docs/sources"
func (a *App) HandleCreateSource(w http.ResponseWriter, r *http.Request) {
	var req models.SourceCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	src, err := a.svc.CreateSource(r.Context(), req)
	if err != nil {
		a.writeServiceError(w, err, "")
		return
	}
	a.writeJSONResponse(w, http.StatusCreated, src)
}

// HandleGetSource обрабатывает GET-запросы на "/api/docs/sources/{source_id}"
func (a *App) HandleGetSource(w http.ResponseWriter, r *http.Request) {
	id, ok := a.parseID(w, r, "source_id")
	if !ok {
		return
	}
	src, err := a.svc.GetSource(r.Context(), id)
	if err != nil {
		a.writeServiceError(w, err, fmt.Sprintf("No source with id '%d' was found.", id))
		return
	}
	a.writeJSONResponse(w, http.StatusOK, src)
}

// HandlePatchSource обрабатывает PATCH-запросы на "/api/docs/sources/{source_id}"
func (a *App) HandlePatchSource(w http.ResponseWriter, r *http.Request) {
	id, ok := a.parseID(w, r, "source_id")
	if !ok {
		return
	}
	var patch models.SourcePatchRequest
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		a.writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	src, err := a.svc.UpdateSource(r.Context(), id, patch)
	if err != nil {
		a.writeServiceError(w, err, fmt.Sprintf("No source with id '%d' was found.", id))
		return
	}
	a.writeJSONResponse(w, http.StatusOK, src)
}

// HandleDeleteSource обрабатывает DELETE-запросы на "/api/docs/sources/{source_id}"
func (a *App) HandleDeleteSource(w http.ResponseWriter, r *http.Request) {
	id, ok := a.parseID(w, r, "source_id")
	if !ok {
		return
	}
	if err := a.svc.DeleteSource(r.Context(), id); err != nil {
		a.writeServiceError(w, err, fmt.Sprintf("No source with id '%d' was found.", id))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleStats обрабатывает GET-запросы на "/api/internal/stats"
func (a *App) HandleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	stats, err := a.svc.Stats(r.Context())
	if err != nil {
		a.writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	a.writeJSONResponse(w, http.StatusOK, stats)
}

// parseID извлекает числовой идентификатор из параметра пути.
// Идентификатор должен лежать в диапазоне [0, 2^31).
func (a *App) parseID(w http.ResponseWriter, r *http.Request, param string) (int64, bool) {
	raw := chi.URLParam(r, param)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 0 || id >= maxID {
		a.writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid %s '%s'", param, raw))
		return 0, false
	}
	return id, true
}

// writeServiceError переводит ошибки сервиса и репозитория в HTTP-ответ
func (a *App) writeServiceError(w http.ResponseWriter, err error, notFoundDetail string) {
	var verrs models.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		a.writeJSONResponse(w, http.StatusBadRequest, ErrorResponse{
			Detail: "Validation failed",
			Errors: verrs,
		})
	case errors.Is(err, repository.ErrNotFound):
		if notFoundDetail == "" {
			notFoundDetail = "Not found"
		}
		a.writeError(w, http.StatusNotFound, notFoundDetail)
	case errors.Is(err, repository.ErrPackageNotExists):
		a.writeError(w, http.StatusBadRequest, "documentation package does not exist")
	case errors.Is(err, repository.ErrDuplicateName):
		a.writeError(w, http.StatusConflict, "package name already exists")
	case errors.Is(err, repository.ErrDefaultExists):
		a.writeError(w, http.StatusConflict, "package already has a default source")
	default:
		// сюда попадает и нарушение числа затронутых строк: детали не
		// раскрываются клиенту, транзакция уже откатена
		a.logger.Error("Unhandled service error", zap.Error(err))
		a.writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// writeError пишет JSON-ответ с телом ошибки
func (a *App) writeError(w http.ResponseWriter, status int, detail string) {
	a.writeJSONResponse(w, status, ErrorResponse{Detail: detail})
}

// writeJSONResponse пишет JSON-ответ с проверкой ошибок
func (a *App) writeJSONResponse(w http.ResponseWriter, status int, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "Failed to encode JSON", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		a.logger.Error("Failed to write response", zap.Error(err))
	}
}
