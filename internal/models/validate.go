package models

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// inventorySuffix — известный суффикс machine-readable инвентаря документации
const inventorySuffix = "/objects.inv"

// namePattern задаёт допустимые символы для имени пакета и метки версии
var namePattern = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// ValidationError описывает нарушение ограничения конкретного поля запроса
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error возвращает текстовое описание ошибки валидации
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors объединяет все нарушения, найденные в одном запросе
type ValidationErrors []ValidationError

// Error возвращает список нарушений одной строкой
func (e ValidationErrors) Error() string {
	msgs := make([]string, len(e))
	for i, ve := range e {
		msgs[i] = ve.Error()
	}
	return strings.Join(msgs, "; ")
}

// HumanFriendlyURL выводит человекочитаемый URL документации из URL инвентаря,
// отрезая известный суффикс, если он присутствует
func HumanFriendlyURL(inventoryURL string) string {
	return strings.TrimSuffix(inventoryURL, inventorySuffix)
}

// isAbsoluteURL проверяет, что строка является абсолютным http(s) URL
func isAbsoluteURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// validateName проверяет имя пакета на длину и допустимые символы
func validateName(name string, field string, errs *ValidationErrors) {
	if name == "" || len(name) > 100 {
		*errs = append(*errs, ValidationError{Field: field, Message: "must be between 1 and 100 characters"})
		return
	}
	if !namePattern.MatchString(name) {
		*errs = append(*errs, ValidationError{Field: field, Message: "must match [A-Za-z0-9._-]+"})
	}
}

// validateVersion проверяет метку версии источника
func validateVersion(version string, field string, errs *ValidationErrors) {
	if version == "" {
		return
	}
	if len(version) > 30 || !namePattern.MatchString(version) {
		*errs = append(*errs, ValidationError{Field: field, Message: "must match [A-Za-z0-9._-]+ and be at most 30 characters"})
	}
}

// Validate проверяет запрос на создание пакета перед обращением к хранилищу
func (r *PackageCreateRequest) Validate() error {
	var errs ValidationErrors
	validateName(r.Name, "name", &errs)
	if !isAbsoluteURL(r.Homepage) {
		errs = append(errs, ValidationError{Field: "homepage", Message: "must be an absolute http(s) URL"})
	}
	if !IsValidProgrammingLanguage(r.ProgrammingLanguage) {
		errs = append(errs, ValidationError{Field: "programming_language", Message: "is not a supported programming language"})
	}
	if len(r.Sources) == 0 {
		errs = append(errs, ValidationError{Field: "sources", Message: "at least one source is required"})
	}
	for i, s := range r.Sources {
		s.validate(fmt.Sprintf("sources[%d]", i), &errs)
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// validate проверяет описание источника внутри запроса на создание пакета
func (s *SourceSpec) validate(prefix string, errs *ValidationErrors) {
	if !isAbsoluteURL(s.InventoryURL) {
		*errs = append(*errs, ValidationError{Field: prefix + ".inventory_url", Message: "must be an absolute http(s) URL"})
	}
	if !IsValidLanguageCode(s.LanguageCode) {
		*errs = append(*errs, ValidationError{Field: prefix + ".language_code", Message: "is not a supported language code"})
	}
	validateVersion(s.Version, prefix+".version", errs)
}

// Validate проверяет запрос на создание отдельного источника
func (r *SourceCreateRequest) Validate() error {
	var errs ValidationErrors
	if r.PackageID <= 0 {
		errs = append(errs, ValidationError{Field: "package_id", Message: "must be a positive integer"})
	}
	if !isAbsoluteURL(r.InventoryURL) {
		errs = append(errs, ValidationError{Field: "inventory_url", Message: "must be an absolute http(s) URL"})
	}
	if !IsValidLanguageCode(r.LanguageCode) {
		errs = append(errs, ValidationError{Field: "language_code", Message: "is not a supported language code"})
	}
	validateVersion(r.Version, "version", &errs)
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Validate проверяет заданные поля частичного обновления пакета
func (r *PackagePatchRequest) Validate() error {
	var errs ValidationErrors
	if r.Name != nil {
		validateName(*r.Name, "name", &errs)
	}
	if r.Homepage != nil && !isAbsoluteURL(*r.Homepage) {
		errs = append(errs, ValidationError{Field: "homepage", Message: "must be an absolute http(s) URL"})
	}
	if r.ProgrammingLanguage != nil && !IsValidProgrammingLanguage(*r.ProgrammingLanguage) {
		errs = append(errs, ValidationError{Field: "programming_language", Message: "is not a supported programming language"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Validate проверяет заданные поля частичного обновления источника
func (r *SourcePatchRequest) Validate() error {
	var errs ValidationErrors
	if r.InventoryURL != nil && !isAbsoluteURL(*r.InventoryURL) {
		errs = append(errs, ValidationError{Field: "inventory_url", Message: "must be an absolute http(s) URL"})
	}
	if r.LanguageCode != nil && !IsValidLanguageCode(*r.LanguageCode) {
		errs = append(errs, ValidationError{Field: "language_code", Message: "is not a supported language code"})
	}
	if r.Version != nil {
		validateVersion(*r.Version, "version", &errs)
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}
