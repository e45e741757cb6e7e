package domain

import "strings"

// NormalizeTag converts a player or clan tag to the canonical "#"-prefixed
// form: upper-cased, letter O replaced by zero (the game never issues O),
// exactly one leading hash.
func NormalizeTag(raw string) string {
	tag := strings.ToUpper(strings.TrimSpace(raw))
	tag = strings.TrimLeft(tag, "#")
	tag = strings.ReplaceAll(tag, "O", "0")
	if tag == "" {
		return ""
	}
	return "#" + tag
}
