package config

import (
	"golang.org/x/text/language"
)

// Localization tables for the rendered digest. Lookups go through
// NormalizeLanguage so that channel language codes like "ru-RU" resolve to a
// supported table.

var supportedLanguages = []language.Tag{
	language.English, // first entry is the matcher fallback
	language.Russian,
	language.MustParse("uz"),
}

var supportedCodes = []string{"en", "ru", "uz"}

var languageMatcher = language.NewMatcher(supportedLanguages)

// NormalizeLanguage maps a channel language code to one of the supported
// localization codes. Unknown or malformed codes resolve to "en".
func NormalizeLanguage(code string) string {
	tag, err := language.Parse(code)
	if err != nil {
		return "en"
	}
	_, idx, _ := languageMatcher.Match(tag)
	return supportedCodes[idx]
}

var labels = map[string]map[string]string{
	"points":   {"en": "points", "ru": "баллов", "uz": "ball"},
	"comments": {"en": "comments", "ru": "комм.", "uz": "izoh"},
	"top":      {"en": "Top", "ru": "Лучшее", "uz": "Eng yaxshilar"},
}

// Label returns a localized UI label for the metadata line and headers.
func Label(key, lang string) string {
	if byLang, ok := labels[key]; ok {
		if v, ok := byLang[NormalizeLanguage(lang)]; ok {
			return v
		}
		return byLang["en"]
	}
	return key
}

var months = map[string][]string{
	"en": {"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"},
	"ru": {"янв", "фев", "мар", "апр", "май", "июн", "июл", "авг", "сен", "окт", "ноя", "дек"},
	"uz": {"yan", "fev", "mar", "apr", "may", "iyun", "iyul", "avg", "sen", "okt", "noy", "dek"},
}

// Month returns the localized abbreviated month name, 1-based.
func Month(m int, lang string) string {
	table, ok := months[NormalizeLanguage(lang)]
	if !ok {
		table = months["en"]
	}
	if m < 1 || m > 12 {
		return ""
	}
	return table[m-1]
}
