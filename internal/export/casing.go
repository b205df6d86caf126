package export

import (
	"strings"
	"unicode"
)

// splitCamel inserts sep before every upper-case letter, lower-cases the
// result and strips a leading separator.
func splitCamel(name string, sep rune) string {
	var b strings.Builder
	b.Grow(len(name) + 4)
	for _, r := range name {
		if unicode.IsUpper(r) {
			b.WriteRune(sep)
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return strings.TrimPrefix(b.String(), string(sep))
}

// KebabCase converts a camelCase role name to kebab-case ("onPrimary" -> "on-primary").
func KebabCase(name string) string {
	return splitCamel(name, '-')
}

// SnakeCase converts a camelCase role name to snake_case ("onPrimary" -> "on_primary").
func SnakeCase(name string) string {
	return splitCamel(name, '_')
}

// UpperSnakeCase converts a camelCase role name to SCREAMING_SNAKE_CASE.
func UpperSnakeCase(name string) string {
	return strings.ToUpper(SnakeCase(name))
}
