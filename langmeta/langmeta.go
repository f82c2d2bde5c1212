// Package langmeta holds the target languages seatrans accepts and their
// display metadata (native names and emoji flags) for the CLI.
package langmeta

import (
	"fmt"
	"strings"
)

// Meta describes language display metadata.
type Meta struct {
	Name string
	Flag string
}

// Registry maps language codes to display metadata. It covers the
// supported targets plus the source language and neighbouring SEA
// languages shown in listings.
var Registry = map[string]Meta{
	"en":  {Name: "English", Flag: "🇬🇧"},
	"id":  {Name: "Bahasa Indonesia", Flag: "🇮🇩"},
	"fil": {Name: "Filipino", Flag: "🇵🇭"},
	"tl":  {Name: "Tagalog", Flag: "🇵🇭"},
	"ta":  {Name: "தமிழ்", Flag: "🇸🇬"},
	"th":  {Name: "ไทย", Flag: "🇹🇭"},
	"vi":  {Name: "Tiếng Việt", Flag: "🇻🇳"},
	"ms":  {Name: "Bahasa Melayu", Flag: "🇲🇾"},
	"km":  {Name: "ខ្មែរ", Flag: "🇰🇭"},
	"lo":  {Name: "ລາວ", Flag: "🇱🇦"},
	"my":  {Name: "မြန်မာ", Flag: "🇲🇲"},
}

// Language is a supported translation target.
type Language struct {
	// Name is the lowercase English name passed to the prompt ("thai").
	Name string
	// Code is the ISO 639 code ("th").
	Code string
	Meta
}

// supported is the target allow-list, in display order.
var supported = []struct{ name, code string }{
	{"indonesian", "id"},
	{"filipino", "fil"},
	{"tamil", "ta"},
	{"thai", "th"},
	{"vietnamese", "vi"},
}

// Supported returns the accepted target languages.
func Supported() []Language {
	out := make([]Language, 0, len(supported))
	for _, s := range supported {
		out = append(out, Language{Name: s.name, Code: s.code, Meta: Resolve(s.code)})
	}
	return out
}

// SupportedNames returns the English names of the accepted languages.
func SupportedNames() []string {
	names := make([]string, 0, len(supported))
	for _, s := range supported {
		names = append(names, s.name)
	}
	return names
}

// Lookup resolves a target language given by English name or code,
// ignoring case and surrounding whitespace ("Thai", "th", "th_TH").
func Lookup(lang string) (Language, error) {
	key := strings.ToLower(strings.TrimSpace(lang))
	code := canonicalize(key)
	if base, _, ok := strings.Cut(code, "-"); ok {
		code = base
	}
	for _, l := range Supported() {
		if l.Name == key || l.Code == code {
			return l, nil
		}
	}
	// "tagalog" and "tl" are commonly used for Filipino.
	if key == "tagalog" || code == "tl" {
		return Lookup("filipino")
	}
	return Language{}, fmt.Errorf("unsupported language %q (options: %s)", lang, strings.Join(SupportedNames(), ", "))
}

func canonicalize(lang string) string {
	normalized := strings.ReplaceAll(strings.TrimSpace(lang), "_", "-")
	if normalized == "" {
		return ""
	}
	parts := strings.Split(normalized, "-")
	parts[0] = strings.ToLower(parts[0])
	if len(parts) >= 2 {
		parts[1] = strings.ToUpper(parts[1])
	}
	return strings.Join(parts, "-")
}

// Resolve returns best-effort language metadata for language codes,
// supporting variants like th_TH, th-TH and base fallbacks.
func Resolve(lang string) Meta {
	if m, ok := Registry[lang]; ok {
		return m
	}
	normalized := canonicalize(lang)
	if m, ok := Registry[normalized]; ok {
		return m
	}
	if parts := strings.SplitN(normalized, "-", 2); len(parts) == 2 {
		if m, ok := Registry[parts[0]]; ok {
			return m
		}
	}
	return Meta{Name: lang, Flag: ""}
}
