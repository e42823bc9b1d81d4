package language

import "strings"

// freeTextSelections maps typed language names and codes to language codes.
// Deliberately limited to the three seed languages: a language added only to
// the directory store is selectable by quick reply, not by typing its name.
var freeTextSelections = map[string]string{
	"english":   "en",
	"tamil":     "ta",
	"malayalam": "ml",
	"en":        "en",
	"ta":        "ta",
	"ml":        "ml",
}

// ParseSelection extracts a language code from a quick-reply payload or
// free-typed text. Payload prefixes are stripped and the remainder returned
// verbatim — validation against the directory is the caller's job. Returns ""
// when the message is not a language selection.
func ParseSelection(messageText, payload string) string {
	if payload != "" {
		if strings.HasPrefix(payload, "LANG_") {
			return strings.TrimPrefix(payload, "LANG_")
		}
		if strings.HasPrefix(payload, "lang_") {
			return strings.TrimPrefix(payload, "lang_")
		}
	}

	return freeTextSelections[strings.ToLower(strings.TrimSpace(messageText))]
}
