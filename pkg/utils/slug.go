package utils

import (
	"regexp"
	"strings"
)

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// GenerateCodeFromName turns a display name into an upper-case ASCII code.
// "Lumière / Effets" -> "LUMIERE_EFFETS"
func GenerateCodeFromName(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))

	replacements := map[rune]string{
		'à': "a", 'â': "a", 'ä': "a", 'á': "a",
		'é': "e", 'è': "e", 'ê': "e", 'ë': "e",
		'î': "i", 'ï': "i", 'í': "i",
		'ô': "o", 'ö': "o", 'ó': "o",
		'ù': "u", 'û': "u", 'ü': "u", 'ú': "u",
		'ç': "c", 'ñ': "n", 'œ': "oe", 'æ': "ae",
	}

	var sb strings.Builder
	for _, r := range s {
		if repl, ok := replacements[r]; ok {
			sb.WriteString(repl)
		} else {
			sb.WriteRune(r)
		}
	}

	res := nonAlnum.ReplaceAllString(sb.String(), "_")
	res = strings.Trim(res, "_")
	return strings.ToUpper(res)
}

// CategoryPrefix is the short category tag used in equipment references:
// the first four letters of the category code, "GEN" when the category is empty.
func CategoryPrefix(category string) string {
	code := strings.ReplaceAll(GenerateCodeFromName(category), "_", "")
	if code == "" {
		return "GEN"
	}
	if len(code) > 4 {
		code = code[:4]
	}
	return code
}
