package history

import (
	"net/url"
	"path"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const fallbackTitle = "Untitled Submission"

// DeriveTitle builds a display title from a source URL. The last meaningful
// path segment wins, then the host; query noise and extensions are stripped.
func DeriveTitle(sourceURL string) string {
	trimmed := strings.TrimSpace(sourceURL)
	if trimmed == "" {
		return fallbackTitle
	}
	parsed, err := url.Parse(trimmed)
	if err != nil {
		return cleanTitle(trimmed)
	}

	segment := path.Base(strings.TrimRight(parsed.Path, "/"))
	if segment == "." || segment == "/" || segment == "watch" {
		segment = ""
	}
	if segment == "" && parsed.RawQuery != "" {
		segment = parsed.Query().Get("v")
	}
	if segment == "" {
		segment = parsed.Hostname()
	}
	if segment == "" {
		return fallbackTitle
	}
	segment = strings.TrimSuffix(segment, path.Ext(segment))
	return cleanTitle(segment)
}

func cleanTitle(raw string) string {
	cleaned := strings.Builder{}
	prevSpace := false
	for _, r := range raw {
		switch {
		case unicode.IsLetter(r) || unicode.IsNumber(r):
			cleaned.WriteRune(r)
			prevSpace = false
		case unicode.IsSpace(r) || r == '-' || r == '_' || r == '.':
			if !prevSpace {
				cleaned.WriteRune(' ')
				prevSpace = true
			}
		}
	}
	title := strings.TrimSpace(cleaned.String())
	if title == "" {
		return fallbackTitle
	}
	return cases.Title(language.Und).String(title)
}
