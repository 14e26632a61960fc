package domain

import (
	"strings"

	"golang.org/x/text/language"
)

// Language is one of the supported submission locales
type Language string

const (
	LanguageTurkish Language = "tr"
	LanguageEnglish Language = "en"
	LanguageFrench  Language = "fr"
	LanguageKurdish Language = "ku"
)

// DefaultLanguage is used when the caller sends nothing usable
const DefaultLanguage = LanguageTurkish

// SupportedLanguages lists the locales in matcher order; the first entry is the fallback.
var SupportedLanguages = []Language{LanguageTurkish, LanguageEnglish, LanguageFrench, LanguageKurdish}

var languageMatcher = language.NewMatcher([]language.Tag{
	language.Turkish,
	language.English,
	language.French,
	language.MustParse("ku"),
})

// NormalizeLanguage maps a BCP 47 tag such as "en-GB" onto a supported locale.
// Empty, malformed and unsupported tags fall back to DefaultLanguage.
func NormalizeLanguage(raw string) Language {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DefaultLanguage
	}
	tag, err := language.Parse(raw)
	if err != nil {
		return DefaultLanguage
	}
	_, index, confidence := languageMatcher.Match(tag)
	if confidence == language.No {
		return DefaultLanguage
	}
	return SupportedLanguages[index]
}

// LanguageFromAcceptHeader picks the best supported locale from an Accept-Language header
func LanguageFromAcceptHeader(header string) Language {
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return DefaultLanguage
	}
	_, index, confidence := languageMatcher.Match(tags...)
	if confidence == language.No {
		return DefaultLanguage
	}
	return SupportedLanguages[index]
}
