package service

import (
	"context"

	"github.com/tempizhere/docstore/internal/models"
	"github.com/tempizhere/docstore/internal/repository"
)

// Service реализует логику работы с каталогом документации:
// валидирует запросы, выводит производные поля и обращается к хранилищу
type Service struct {
	repo repository.Repository
}

// NewService создаёт новый экземпляр Service
func NewService(repo repository.Repository) *Service {
	return &Service{
		repo: repo,
	}
}

// CreatePackage валидирует запрос и сохраняет пакет вместе с источниками
func (s *Service) CreatePackage(ctx context.Context, req models.PackageCreateRequest) (models.Package, error) {
	if err := req.Validate(); err != nil {
		return models.Package{}, err
	}
	pkg := models.Package{
		Name:                req.Name,
		Homepage:            req.Homepage,
		ProgrammingLanguage: req.ProgrammingLanguage,
	}
	for _, spec := range req.Sources {
		pkg.Sources = append(pkg.Sources, models.Source{
			InventoryURL:     spec.InventoryURL,
			HumanFriendlyURL: models.HumanFriendlyURL(spec.InventoryURL),
			Version:          spec.Version,
			LanguageCode:     spec.LanguageCode,
			Preview:          spec.Preview,
			Default:          spec.Default,
		})
	}
	return s.repo.CreatePackage(ctx, pkg)
}

// GetPackage возвращает пакет с источниками по ID
func (s *Service) GetPackage(ctx context.Context, id int64) (models.Package, error) {
	return s.repo.GetPackage(ctx, id)
}

// GetPackageByName возвращает пакет с источниками по имени
func (s *Service) GetPackageByName(ctx context.Context, name string) (models.Package, error) {
	return s.repo.GetPackageByName(ctx, name)
}

// ListPackages возвращает все пакеты каталога
func (s *Service) ListPackages(ctx context.Context, withSources bool) ([]models.Package, error) {
	return s.repo.ListPackages(ctx, withSources)
}

// UpdatePackage валидирует и применяет частичное обновление пакета
func (s *Service) UpdatePackage(ctx context.Context, id int64, patch models.PackagePatchRequest) (models.Package, error) {
	if err := patch.Validate(); err != nil {
		return models.Package{}, err
	}
	return s.repo.UpdatePackage(ctx, id, patch)
}

// DeletePackage удаляет пакет и каскадно все его источники
func (s *Service) DeletePackage(ctx context.Context, id int64) error {
	return s.repo.DeletePackage(ctx, id)
}

// CreateSource валидирует запрос и сохраняет источник для существующего пакета
func (s *Service) CreateSource(ctx context.Context, req models.SourceCreateRequest) (models.Source, error) {
	if err := req.Validate(); err != nil {
		return models.Source{}, err
	}
	src := models.Source{
		PackageID:        req.PackageID,
		InventoryURL:     req.InventoryURL,
		HumanFriendlyURL: models.HumanFriendlyURL(req.InventoryURL),
		Version:          req.Version,
		LanguageCode:     req.LanguageCode,
		Preview:          req.Preview,
		Default:          req.Default,
	}
	return s.repo.CreateSource(ctx, src)
}

// GetSource возвращает источник вместе с владеющим пакетом
func (s *Service) GetSource(ctx context.Context, id int64) (models.Source, error) {
	return s.repo.GetSource(ctx, id)
}

// ListSources возвращает все источники пакета
func (s *Service) ListSources(ctx context.Context, packageID int64) ([]models.Source, error) {
	return s.repo.ListSources(ctx, packageID)
}

// UpdateSource валидирует и применяет частичное обновление источника.
// При изменении inventory_url человекочитаемый URL выводится заново.
func (s *Service) UpdateSource(ctx context.Context, id int64, patch models.SourcePatchRequest) (models.Source, error) {
	if err := patch.Validate(); err != nil {
		return models.Source{}, err
	}
	if patch.InventoryURL != nil {
		derived := models.HumanFriendlyURL(*patch.InventoryURL)
		patch.HumanFriendlyURL = &derived
	}
	return s.repo.UpdateSource(ctx, id, patch)
}

// DeleteSource удаляет источник по ID
func (s *Service) DeleteSource(ctx context.Context, id int64) error {
	return s.repo.DeleteSource(ctx, id)
}

// Stats возвращает счётчики каталога
func (s *Service) Stats(ctx context.Context) (models.Stats, error) {
	return s.repo.Stats(ctx)
}
