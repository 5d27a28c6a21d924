// Package proto содержит определения типов для gRPC сервиса каталога документации
package proto

// Package представляет пакет документации
type Package struct {
	ID                  int64    `json:"id"`
	Name                string   `json:"name"`
	Homepage            string   `json:"homepage"`
	ProgrammingLanguage string   `json:"programming_language"`
	Sources             []Source `json:"sources,omitempty"`
}

// Source представляет источник документации пакета
type Source struct {
	ID               int64  `json:"id"`
	PackageID        int64  `json:"package_id"`
	InventoryURL     string `json:"inventory_url"`
	HumanFriendlyURL string `json:"human_friendly_url"`
	Version          string `json:"version,omitempty"`
	LanguageCode     string `json:"language_code"`
	Preview          bool   `json:"preview"`
	Default          bool   `json:"default"`
}

// SourceSpec представляет описание источника внутри запроса на создание пакета
type SourceSpec struct {
	InventoryURL string `json:"inventory_url"`
	Version      string `json:"version,omitempty"`
	LanguageCode string `json:"language_code"`
	Preview      bool   `json:"preview"`
	Default      bool   `json:"default"`
}

// CreatePackageRequest представляет запрос на создание пакета
type CreatePackageRequest struct {
	Name                string       `json:"name"`
	Homepage            string       `json:"homepage"`
	ProgrammingLanguage string       `json:"programming_language"`
	Sources             []SourceSpec `json:"sources"`
}

// CreatePackageResponse представляет ответ с созданным пакетом
type CreatePackageResponse struct {
	Package *Package `json:"package"`
}

// GetPackageRequest представляет запрос пакета по ID
type GetPackageRequest struct {
	ID int64 `json:"id"`
}

// GetPackageResponse представляет ответ с пакетом и его источниками
type GetPackageResponse struct {
	Package *Package `json:"package"`
}

// ListPackagesRequest представляет запрос списка пакетов
type ListPackagesRequest struct {
	WithSources bool `json:"with_sources"`
}

// ListPackagesResponse представляет ответ со списком пакетов
type ListPackagesResponse struct {
	Packages []Package `json:"packages"`
}

// UpdatePackageRequest представляет частичное обновление пакета,
// nil-поля не применяются
type UpdatePackageRequest struct {
	ID                  int64   `json:"id"`
	Name                *string `json:"name,omitempty"`
	Homepage            *string `json:"homepage,omitempty"`
	ProgrammingLanguage *string `json:"programming_language,omitempty"`
}

// UpdatePackageResponse представляет ответ с обновлённым пакетом
type UpdatePackageResponse struct {
	Package *Package `json:"package"`
}

// DeletePackageRequest представляет запрос на удаление пакета
type DeletePackageRequest struct {
	ID int64 `json:"id"`
}

// DeletePackageResponse представляет ответ на удаление пакета
type DeletePackageResponse struct{}

// CreateSourceRequest представляет запрос на создание источника
type CreateSourceRequest struct {
	PackageID    int64  `json:"package_id"`
	InventoryURL string `json:"inventory_url"`
	Version      string `json:"version,omitempty"`
	LanguageCode string `json:"language_code"`
	Preview      bool   `json:"preview"`
	Default      bool   `json:"default"`
}

// CreateSourceResponse представляет ответ с созданным источником
type CreateSourceResponse struct {
	Source *Source `json:"source"`
}

// GetSourceRequest представляет запрос источника по ID
type GetSourceRequest struct {
	ID int64 `json:"id"`
}

// GetSourceResponse представляет ответ с источником и владеющим пакетом
type GetSourceResponse struct {
	Source  *Source  `json:"source"`
	Package *Package `json:"package"`
}

// ListSourcesRequest представляет запрос источников пакета
type ListSourcesRequest struct {
	PackageID int64 `json:"package_id"`
}

// ListSourcesResponse представляет ответ со списком источников
type ListSourcesResponse struct {
	Sources []Source `json:"sources"`
}

// UpdateSourceRequest представляет частичное обновление источника,
// nil-поля не применяются
type UpdateSourceRequest struct {
	ID           int64   `json:"id"`
	InventoryURL *string `json:"inventory_url,omitempty"`
	Version      *string `json:"version,omitempty"`
	LanguageCode *string `json:"language_code,omitempty"`
	Preview      *bool   `json:"preview,omitempty"`
	Default      *bool   `json:"default,omitempty"`
}

// UpdateSourceResponse представляет ответ с обновлённым источником
type UpdateSourceResponse struct {
	Source *Source `json:"source"`
}

// DeleteSourceRequest представляет запрос на удаление источника
type DeleteSourceRequest struct {
	ID int64 `json:"id"`
}

// DeleteSourceResponse представляет ответ на удаление источника
type DeleteSourceResponse struct{}

// PingRequest представляет запрос проверки состояния
type PingRequest struct{}

// PingResponse представляет ответ проверки состояния
type PingResponse struct {
	DatabaseAvailable bool `json:"database_available"`
}

// GetStatsRequest представляет запрос статистики каталога
type GetStatsRequest struct{}

// GetStatsResponse представляет ответ со счётчиками каталога
type GetStatsResponse struct {
	Packages int64 `json:"packages"`
	Sources  int64 `json:"sources"`
}
