// Package i18n translates seatrans's own user-facing strings.
//
// It wraps gotext. Catalogs are embedded in the binary and selected at
// startup by Init.
//
// Usage:
//
//	i18n.Init("")  // auto-detect from LANGUAGE/LC_ALL/LC_MESSAGES/LANG
//	fmt.Println(i18n.T("Downloading %s..."))
//	fmt.Println(i18n.N("%d chunk", "%d chunks", count))
package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"

	"github.com/leonelquinteros/gotext"
)

// locales embeds the translation catalogs.
// Directory structure: locales/{lang}/LC_MESSAGES/seatrans.po
//
//go:embed all:locales
var locales embed.FS

// domain is the gettext domain name for seatrans.
const domain = "seatrans"

var po *gotext.Locale

// Init selects the UI language. If lang is empty, it is detected from the
// environment (LANGUAGE, LC_ALL, LC_MESSAGES, LANG, as GNU gettext does).
// It returns the language that was selected.
//
// Init should be called once at program startup, before any T() or N() calls.
func Init(lang string) string {
	if lang == "" {
		lang = detectLanguage()
	}

	po = gotext.NewLocaleFSWithPath(lang, locales, "locales")
	po.AddDomain(domain)
	po.SetDomain(domain)
	return lang
}

// T translates a string. Untranslated strings are returned unchanged.
func T(msgid string) string {
	if po == nil {
		return msgid
	}
	return po.Get(msgid)
}

// Tf translates format and then formats it with args.
func Tf(format string, args ...any) string {
	return fmt.Sprintf(T(format), args...)
}

// N translates a string with plural forms.
func N(singular, plural string, n int) string {
	if po == nil {
		if n == 1 {
			return singular
		}
		return plural
	}
	return po.GetN(singular, plural, n)
}

// Available returns the languages with an embedded catalog, sorted.
func Available() []string {
	entries, err := fs.ReadDir(locales, "locales")
	if err != nil {
		return nil
	}
	var langs []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if _, err := fs.Stat(locales, "locales/"+e.Name()+"/LC_MESSAGES/"+domain+".po"); err == nil {
			langs = append(langs, e.Name())
		}
	}
	sort.Strings(langs)
	return langs
}

func detectLanguage() string {
	for _, env := range []string{"LANGUAGE", "LC_ALL", "LC_MESSAGES", "LANG"} {
		val := os.Getenv(env)
		if val == "" {
			continue
		}
		// LANGUAGE can be a colon-separated list; take the first
		if env == "LANGUAGE" {
			val, _, _ = strings.Cut(val, ":")
		}
		// "id_ID.UTF-8" -> "id_ID"
		if idx := strings.IndexByte(val, '.'); idx >= 0 {
			val = val[:idx]
		}
		if val == "C" || val == "POSIX" || val == "" {
			continue
		}
		return val
	}
	return "en"
}
