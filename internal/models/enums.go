package models

// Поддерживаемые языки программирования пакетов
const (
	LanguagePython = "python"
	LanguageText   = "text-only"
	LanguageOther  = "other"
)

// programmingLanguages содержит закрытое множество допустимых значений programming_language
var programmingLanguages = map[string]struct{}{
	LanguagePython: {},
	LanguageText:   {},
	LanguageOther:  {},
}

// languageCodes содержит закрытое множество допустимых локалей для language_code
var languageCodes = map[string]struct{}{
	"bg": {}, "cs": {}, "da": {}, "de": {}, "el": {},
	"en-GB": {}, "en-US": {}, "es-ES": {}, "fi": {}, "fr": {},
	"hi": {}, "hr": {}, "it": {}, "ja": {}, "ko": {},
	"lt": {}, "hu": {}, "nl": {}, "no": {}, "pl": {},
	"pt-BR": {}, "ro": {}, "ru": {}, "sv-SE": {}, "th": {},
	"tr": {}, "uk": {}, "vi": {}, "zh-CN": {}, "zh-TW": {},
}

// IsValidProgrammingLanguage проверяет принадлежность значения множеству языков программирования
func IsValidProgrammingLanguage(v string) bool {
	_, ok := programmingLanguages[v]
	return ok
}

// IsValidLanguageCode проверяет принадлежность значения множеству кодов локалей
func IsValidLanguageCode(v string) bool {
	_, ok := languageCodes[v]
	return ok
}
