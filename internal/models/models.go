package models

// Package представляет пакет документации в каталоге
type Package struct {
	ID                  int64    `json:"id"`
	Name                string   `json:"name"`
	Homepage            string   `json:"homepage"`
	ProgrammingLanguage string   `json:"programming_language"`
	Sources             []Source `json:"sources,omitempty"`
}

// Source представляет источник документации, принадлежащий пакету
type Source struct {
	ID               int64    `json:"id"`
	PackageID        int64    `json:"package_id"`
	InventoryURL     string   `json:"inventory_url"`
	HumanFriendlyURL string   `json:"human_friendly_url"`
	Version          string   `json:"version,omitempty"`
	LanguageCode     string   `json:"language_code"`
	Preview          bool     `json:"preview"`
	Default          bool     `json:"default"`
	Package          *Package `json:"package,omitempty"`
}

// PackageCreateRequest представляет запрос на создание пакета документации
type PackageCreateRequest struct {
	Name                string       `json:"name"`
	Homepage            string       `json:"homepage"`
	ProgrammingLanguage string       `json:"programming_language"`
	Sources             []SourceSpec `json:"sources"`
}

// SourceSpec представляет описание источника внутри запроса на создание пакета
type SourceSpec struct {
	InventoryURL string `json:"inventory_url"`
	Version      string `json:"version,omitempty"`
	LanguageCode string `json:"language_code"`
	Preview      bool   `json:"preview"`
	Default      bool   `json:"default"`
}

// SourceCreateRequest представляет запрос на создание отдельного источника
type SourceCreateRequest struct {
	PackageID    int64  `json:"package_id"`
	InventoryURL string `json:"inventory_url"`
	Version      string `json:"version,omitempty"`
	LanguageCode string `json:"language_code"`
	Preview      bool   `json:"preview"`
	Default      bool   `json:"default"`
}

// PackagePatchRequest представляет частичное обновление пакета.
// Поля со значением nil отсутствовали в запросе и не применяются.
type PackagePatchRequest struct {
	Name                *string `json:"name,omitempty"`
	Homepage            *string `json:"homepage,omitempty"`
	ProgrammingLanguage *string `json:"programming_language,omitempty"`
}

// SourcePatchRequest представляет частичное обновление источника.
// Поля со значением nil отсутствовали в запросе и не применяются.
// HumanFriendlyURL не принимается извне, он выводится из InventoryURL.
type SourcePatchRequest struct {
	InventoryURL     *string `json:"inventory_url,omitempty"`
	Version          *string `json:"version,omitempty"`
	LanguageCode     *string `json:"language_code,omitempty"`
	Preview          *bool   `json:"preview,omitempty"`
	Default          *bool   `json:"default,omitempty"`
	HumanFriendlyURL *string `json:"-"`
}

// IsEmpty возвращает true, если в патче не задано ни одно поле
func (p *PackagePatchRequest) IsEmpty() bool {
	return p.Name == nil && p.Homepage == nil && p.ProgrammingLanguage == nil
}

// IsEmpty возвращает true, если в патче не задано ни одно поле
func (p *SourcePatchRequest) IsEmpty() bool {
	return p.InventoryURL == nil && p.Version == nil && p.LanguageCode == nil &&
		p.Preview == nil && p.Default == nil
}

// Stats представляет счётчики каталога для внутренней статистики
type Stats struct {
	Packages int64 `json:"packages"`
	Sources  int64 `json:"sources"`
}
