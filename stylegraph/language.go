package stylegraph

import (
	"path/filepath"
	"strings"
)

// Language identifies the source language of a style block or stylesheet.
type Language string

const (
	LanguageCSS  Language = "css"
	LanguageSCSS Language = "scss"
	LanguageSass Language = "sass"
	LanguageLess Language = "less"
	LanguageStyl Language = "styl"
)

// legacyStylus is the long-form lang attribute that collapses to LanguageStyl.
const legacyStylus = "stylus"

// Languages returns every supported stylesheet language in a stable order.
func Languages() []Language {
	return []Language{LanguageCSS, LanguageSCSS, LanguageSass, LanguageLess, LanguageStyl}
}

// ParseLanguage maps a style block lang attribute to its canonical Language.
// An empty attribute means plain CSS.
func ParseLanguage(lang string) (Language, bool) {
	lang = strings.ToLower(strings.TrimSpace(lang))
	switch lang {
	case "":
		return LanguageCSS, true
	case legacyStylus:
		return LanguageStyl, true
	}
	for _, l := range Languages() {
		if string(l) == lang {
			return l, true
		}
	}
	return "", false
}

// LanguageForPath derives the language from a file extension.
func LanguageForPath(path string) (Language, bool) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "", false
	}
	if ext == legacyStylus {
		return "", false
	}
	return ParseLanguage(ext)
}

// Suffix returns the conventional file suffix, including the dot.
func (l Language) Suffix() string {
	if l == "" {
		return "." + string(LanguageCSS)
	}
	return "." + string(l)
}

func (l Language) String() string {
	return string(l)
}

// HasLineComments reports whether the language accepts // comments.
func (l Language) HasLineComments() bool {
	return l != LanguageCSS && l != ""
}

// IsStylesheetPath reports whether path has a supported stylesheet extension.
func IsStylesheetPath(path string) bool {
	_, ok := LanguageForPath(path)
	return ok
}

// completeSuffix appends the language suffix unless key already carries it.
func completeSuffix(key string, lang Language) string {
	suffix := lang.Suffix()
	if strings.HasSuffix(key, suffix) {
		return key
	}
	return key + suffix
}

// fallbackKey swaps the language suffix for .css.
func fallbackKey(key string, lang Language) string {
	return completeSuffix(strings.TrimSuffix(key, lang.Suffix()), LanguageCSS)
}
