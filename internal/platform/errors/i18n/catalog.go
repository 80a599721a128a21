// Package i18n renders localized user messages for error codes.
package i18n

import (
	"strings"
	"text/template"

	platformi18n "github.com/louisbranch/kniffel/internal/platform/i18n"
)

// Code is an error code string. The errors package owns the typed version.
type Code = string

// Catalog holds the message templates of one locale.
type Catalog struct {
	locale    string
	raw       map[Code]string
	templates map[Code]*template.Template
}

var catalogs = map[string]*Catalog{
	platformi18n.BaseLocale: NewCatalog(platformi18n.BaseLocale, enUSMessages),
	"de-DE":                 NewCatalog("de-DE", deDEMessages),
}

// GetCatalog returns the catalog closest to locale, falling back to en-US.
func GetCatalog(locale string) *Catalog {
	requested := strings.TrimSpace(locale)
	if c, ok := catalogs[requested]; ok {
		return c
	}
	if tag, ok := platformi18n.ParseTag(requested); ok {
		if c, ok := catalogs[platformi18n.Locale(tag)]; ok {
			return c
		}
	}
	return catalogs[platformi18n.BaseLocale]
}

// NewCatalog compiles messages for locale. A template that does not parse is
// kept and rendered verbatim.
func NewCatalog(locale string, messages map[Code]string) *Catalog {
	c := &Catalog{
		locale:    locale,
		raw:       make(map[Code]string, len(messages)),
		templates: make(map[Code]*template.Template, len(messages)),
	}
	for code, text := range messages {
		c.raw[code] = text
		if tmpl, err := template.New(code).Option("missingkey=default").Parse(text); err == nil {
			c.templates[code] = tmpl
		}
	}
	return c
}

// Locale returns the locale of this catalog.
func (c *Catalog) Locale() string {
	return c.locale
}

// Format renders the message for code with metadata. Unknown codes render as
// the code itself.
func (c *Catalog) Format(code Code, metadata map[string]string) string {
	text, ok := c.raw[code]
	if !ok {
		return code
	}
	tmpl, ok := c.templates[code]
	if !ok {
		return text
	}
	if metadata == nil {
		metadata = map[string]string{}
	}
	var b strings.Builder
	if err := tmpl.Execute(&b, metadata); err != nil {
		return text
	}
	return b.String()
}
