// Package phone normalizes raw phone strings into contact keys.
package phone

import "strings"

// KeyLength is the number of trailing digits that identify a contact.
const KeyLength = 10

// Key strips every non-digit character from raw and keeps the last ten
// digits. "+1 (702) 555-0123", "17025550123" and "7025550123" all map to
// "7025550123". Shorter inputs (shortcodes) are returned as-is rather
// than rejected; callers decide whether to warn.
func Key(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if len(digits) > KeyLength {
		return digits[len(digits)-KeyLength:]
	}
	return digits
}

// IsShort reports whether key has fewer digits than a full contact key.
func IsShort(key string) bool {
	return len(key) < KeyLength
}
