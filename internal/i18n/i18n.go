// Package i18n resolves the visitor language (English or Simplified Chinese)
// and holds the translated strings used in mails and legal pages.
package i18n

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

const (
	// LangParam is the query parameter used to select a language.
	LangParam = "lang"
	// LangCookieName stores the visitor's language preference.
	LangCookieName = "vc_lang"

	English = "en"
	Chinese = "zh"
)

var supportedTags = []language.Tag{
	language.English,
	language.SimplifiedChinese,
}

var tagMatcher = language.NewMatcher(supportedTags)

var messages = newCatalog()

// Resolve picks a language code from, in order, an explicit query value, the
// language cookie and the Accept-Language header. The bool reports whether the
// query value was used and should be persisted.
func Resolve(query, cookie, acceptLanguage string) (string, bool) {
	if code, ok := Normalize(query); ok {
		return code, true
	}
	if code, ok := Normalize(cookie); ok {
		return code, false
	}
	if accept := strings.TrimSpace(acceptLanguage); accept != "" {
		if tags, _, err := language.ParseAcceptLanguage(accept); err == nil && len(tags) > 0 {
			_, idx, conf := tagMatcher.Match(tags...)
			if conf != language.No {
				return codeFor(supportedTags[idx]), false
			}
		}
	}
	return English, false
}

// Normalize maps a language value such as "zh-CN" or "en_US" onto a
// supported code.
func Normalize(value string) (string, bool) {
	value = strings.TrimSpace(strings.ReplaceAll(value, "_", "-"))
	if value == "" {
		return "", false
	}
	tag, err := language.Parse(value)
	if err != nil {
		return "", false
	}
	base, _ := tag.Base()
	switch base.String() {
	case English:
		return English, true
	case Chinese:
		return Chinese, true
	}
	return "", false
}

// Printer returns a message printer for a language code. Unknown codes fall
// back to English.
func Printer(code string) *message.Printer {
	return message.NewPrinter(tagFor(code), message.Catalog(messages))
}

// T translates a message key.
func T(code, key string, args ...interface{}) string {
	return Printer(code).Sprintf(key, args...)
}

func tagFor(code string) language.Tag {
	if code == Chinese {
		return language.SimplifiedChinese
	}
	return language.English
}

func codeFor(tag language.Tag) string {
	base, _ := tag.Base()
	if base.String() == Chinese {
		return Chinese
	}
	return English
}

func newCatalog() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for key, text := range english {
		_ = b.SetString(language.English, key, text)
	}
	for key, text := range chinese {
		_ = b.SetString(language.SimplifiedChinese, key, text)
	}
	return b
}
