package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/tempizhere/docstore/internal/models"
)

// MemoryRepository реализует интерфейс Repository с использованием map.
// Используется в тестах и при запуске без строки подключения к базе данных.
// Инварианты каталога (уникальность имени, один источник по умолчанию,
// каскадное удаление) соблюдаются так же, как и в PostgreSQL.
type MemoryRepository struct {
	mu            sync.RWMutex
	packages      map[int64]models.Package
	sources       map[int64]models.Source
	nextPackageID int64
	nextSourceID  int64
}

// NewMemoryRepository создаёт новый экземпляр MemoryRepository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		packages:      make(map[int64]models.Package),
		sources:       make(map[int64]models.Source),
		nextPackageID: 1,
		nextSourceID:  1,
	}
}

// nameTaken проверяет занятость имени пакета
func (r *MemoryRepository) nameTaken(name string, exceptID int64) bool {
	for _, pkg := range r.packages {
		if pkg.Name == name && pkg.ID != exceptID {
			return true
		}
	}
	return false
}

// hasDefault проверяет наличие у пакета источника по умолчанию
func (r *MemoryRepository) hasDefault(packageID int64, exceptID int64) bool {
	for _, src := range r.sources {
		if src.PackageID == packageID && src.Default && src.ID != exceptID {
			return true
		}
	}
	return false
}

// sourcesFor возвращает источники пакета в порядке их ID
func (r *MemoryRepository) sourcesFor(packageID int64) []models.Source {
	var sources []models.Source
	for _, src := range r.sources {
		if src.PackageID == packageID {
			sources = append(sources, src)
		}
	}
	sort.Slice(sources, func(i, j int) bool { return sources[i].ID < sources[j].ID })
	return sources
}

// CreatePackage сохраняет пакет вместе с его источниками
func (r *MemoryRepository) CreatePackage(_ context.Context, pkg models.Package) (models.Package, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.nameTaken(pkg.Name, 0) {
		return models.Package{}, ErrDuplicateName
	}
	defaults := 0
	for _, src := range pkg.Sources {
		if src.Default {
			defaults++
		}
	}
	if defaults > 1 {
		return models.Package{}, ErrDefaultExists
	}

	pkg.ID = r.nextPackageID
	r.nextPackageID++
	for i := range pkg.Sources {
		pkg.Sources[i].ID = r.nextSourceID
		pkg.Sources[i].PackageID = pkg.ID
		r.nextSourceID++
		r.sources[pkg.Sources[i].ID] = pkg.Sources[i]
	}
	stored := pkg
	stored.Sources = nil
	r.packages[pkg.ID] = stored
	return pkg, nil
}

// GetPackage возвращает пакет с источниками по ID
func (r *MemoryRepository) GetPackage(_ context.Context, id int64) (models.Package, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	pkg, exists := r.packages[id]
	if !exists {
		return models.Package{}, ErrNotFound
	}
	pkg.Sources = r.sourcesFor(id)
	return pkg, nil
}

// GetPackageByName возвращает пакет с источниками по имени
func (r *MemoryRepository) GetPackageByName(_ context.Context, name string) (models.Package, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, pkg := range r.packages {
		if pkg.Name == name {
			pkg.Sources = r.sourcesFor(pkg.ID)
			return pkg, nil
		}
	}
	return models.Package{}, ErrNotFound
}

// ListPackages возвращает все пакеты, при withSources вместе с источниками
func (r *MemoryRepository) ListPackages(_ context.Context, withSources bool) ([]models.Package, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var packages []models.Package
	for _, pkg := range r.packages {
		if withSources {
			pkg.Sources = r.sourcesFor(pkg.ID)
		}
		packages = append(packages, pkg)
	}
	sort.Slice(packages, func(i, j int) bool { return packages[i].ID < packages[j].ID })
	return packages, nil
}

// UpdatePackage применяет заданные поля патча и возвращает обновлённый пакет
func (r *MemoryRepository) UpdatePackage(_ context.Context, id int64, patch models.PackagePatchRequest) (models.Package, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	pkg, exists := r.packages[id]
	if !exists {
		return models.Package{}, ErrNotFound
	}
	if patch.Name != nil {
		if r.nameTaken(*patch.Name, id) {
			return models.Package{}, ErrDuplicateName
		}
		pkg.Name = *patch.Name
	}
	if patch.Homepage != nil {
		pkg.Homepage = *patch.Homepage
	}
	if patch.ProgrammingLanguage != nil {
		pkg.ProgrammingLanguage = *patch.ProgrammingLanguage
	}
	r.packages[id] = pkg
	pkg.Sources = r.sourcesFor(id)
	return pkg, nil
}

// DeletePackage удаляет пакет и каскадно все его источники
func (r *MemoryRepository) DeletePackage(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.packages[id]; !exists {
		return ErrNotFound
	}
	delete(r.packages, id)
	for srcID, src := range r.sources {
		if src.PackageID == id {
			delete(r.sources, srcID)
		}
	}
	return nil
}

// CreateSource сохраняет источник для существующего пакета
func (r *MemoryRepository) CreateSource(_ context.Context, src models.Source) (models.Source, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.packages[src.PackageID]; !exists {
		return models.Source{}, ErrPackageNotExists
	}
	if src.Default && r.hasDefault(src.PackageID, 0) {
		return models.Source{}, ErrDefaultExists
	}
	src.ID = r.nextSourceID
	r.nextSourceID++
	r.sources[src.ID] = src
	return src, nil
}

// GetSource возвращает источник вместе с владеющим пакетом
func (r *MemoryRepository) GetSource(_ context.Context, id int64) (models.Source, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	src, exists := r.sources[id]
	if !exists {
		return models.Source{}, ErrNotFound
	}
	pkg, exists := r.packages[src.PackageID]
	if !exists {
		return models.Source{}, ErrNotFound
	}
	src.Package = &pkg
	return src, nil
}

// ListSources возвращает все источники пакета, список может быть пустым
func (r *MemoryRepository) ListSources(_ context.Context, packageID int64) ([]models.Source, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.sourcesFor(packageID), nil
}

// UpdateSource применяет заданные поля патча и возвращает обновлённый источник
func (r *MemoryRepository) UpdateSource(_ context.Context, id int64, patch models.SourcePatchRequest) (models.Source, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	src, exists := r.sources[id]
	if !exists {
		return models.Source{}, ErrNotFound
	}
	if patch.Default != nil && *patch.Default && r.hasDefault(src.PackageID, id) {
		return models.Source{}, ErrDefaultExists
	}
	if patch.InventoryURL != nil {
		src.InventoryURL = *patch.InventoryURL
	}
	if patch.HumanFriendlyURL != nil {
		src.HumanFriendlyURL = *patch.HumanFriendlyURL
	}
	if patch.Version != nil {
		src.Version = *patch.Version
	}
	if patch.LanguageCode != nil {
		src.LanguageCode = *patch.LanguageCode
	}
	if patch.Preview != nil {
		src.Preview = *patch.Preview
	}
	if patch.Default != nil {
		src.Default = *patch.Default
	}
	r.sources[id] = src
	return src, nil
}

// DeleteSource удаляет источник по ID
func (r *MemoryRepository) DeleteSource(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.sources[id]; !exists {
		return ErrNotFound
	}
	delete(r.sources, id)
	return nil
}

// Stats возвращает счётчики пакетов и источников
func (r *MemoryRepository) Stats(_ context.Context) (models.Stats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return models.Stats{
		Packages: int64(len(r.packages)),
		Sources:  int64(len(r.sources)),
	}, nil
}

// Clear очищает хранилище
func (r *MemoryRepository) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.packages = make(map[int64]models.Package)
	r.sources = make(map[int64]models.Source)
	r.nextPackageID = 1
	r.nextSourceID = 1
}
