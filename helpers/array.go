package helpers

import "strings"

func ArrayContains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}

// FirstMatch returns the first element of priority present in found.
func FirstMatch(priority, found []string) (string, bool) {
	for _, p := range priority {
		if ArrayContains(found, p) {
			return p, true
		}
	}
	return "", false
}

func Truthy(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true":
		return true
	}
	return false
}

// Preview cuts s down to at most n bytes without splitting a rune.
func Preview(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !isRuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}
