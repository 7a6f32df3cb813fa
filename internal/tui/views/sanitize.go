package views

import (
	"strings"
	"unicode"
)

// sanitizeForTerminal drops codepoints tcell cannot lay out reliably: emoji
// modifiers and joiners, variation selectors, and control characters other
// than newline and tab. A thumbs-up with a skin tone renders as a plain
// 2-cell thumbs-up.
func sanitizeForTerminal(s string) string {
	return strings.Map(func(r rune) rune {
		if isProblematicRune(r) {
			return -1
		}
		return r
	}, s)
}

func isProblematicRune(r rune) bool {
	switch {
	case r == '\n' || r == '\t':
		return false
	// Skin tone modifiers.
	case r >= 0x1F3FB && r <= 0x1F3FF:
		return true
	// Zero Width Joiner.
	case r == 0x200D:
		return true
	// Variation Selectors.
	case r >= 0xFE00 && r <= 0xFE0F:
		return true
	// Variation Selectors Supplement.
	case r >= 0xE0100 && r <= 0xE01EF:
		return true
	case unicode.IsControl(r):
		return true
	default:
		return false
	}
}
