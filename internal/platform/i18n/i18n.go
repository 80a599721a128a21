// Package i18n resolves the language used for user-facing text.
package i18n

import (
	"net/http"
	"strings"

	"golang.org/x/text/language"
)

const (
	// LangParam is the query parameter used to select a language.
	LangParam = "lang"

	// BaseLocale is the locale every catalog must define.
	BaseLocale = "en-US"
)

var supportedTags = []language.Tag{
	language.AmericanEnglish,
	language.MustParse("de-DE"),
}

var tagMatcher = language.NewMatcher(supportedTags)

// SupportedTags returns the list of supported language tags.
func SupportedTags() []language.Tag {
	tags := make([]language.Tag, len(supportedTags))
	copy(tags, supportedTags)
	return tags
}

// DefaultTag returns the default language tag.
func DefaultTag() language.Tag {
	return language.AmericanEnglish
}

// MatchTags returns the supported tag closest to the preferred tags.
func MatchTags(preferred []language.Tag) language.Tag {
	if len(preferred) == 0 {
		return DefaultTag()
	}
	_, index, confidence := tagMatcher.Match(preferred...)
	if confidence == language.No {
		return DefaultTag()
	}
	return supportedTags[index]
}

// ParseTag parses value and maps it onto a supported tag.
func ParseTag(value string) (language.Tag, bool) {
	parsed, err := language.Parse(strings.TrimSpace(value))
	if err != nil {
		return language.Tag{}, false
	}
	_, index, confidence := tagMatcher.Match(parsed)
	if confidence == language.No {
		return language.Tag{}, false
	}
	return supportedTags[index], true
}

// Locale returns the catalog locale identifier for a supported tag.
func Locale(tag language.Tag) string {
	base, _ := tag.Base()
	switch base.String() {
	case "de":
		return "de-DE"
	default:
		return BaseLocale
	}
}

// ResolveLocale determines the best catalog locale for the request.
// The lang query parameter wins over Accept-Language.
func ResolveLocale(r *http.Request) string {
	if r == nil {
		return BaseLocale
	}
	if langValue := strings.TrimSpace(r.URL.Query().Get(LangParam)); langValue != "" {
		if tag, ok := ParseTag(langValue); ok {
			return Locale(tag)
		}
	}
	if accept := strings.TrimSpace(r.Header.Get("Accept-Language")); accept != "" {
		if tags, _, err := language.ParseAcceptLanguage(accept); err == nil {
			return Locale(MatchTags(tags))
		}
	}
	return BaseLocale
}
