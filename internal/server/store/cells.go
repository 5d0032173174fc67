package store

import "strings"

// Boolean cells are stored as TRUE/FALSE.
const (
	True  = "TRUE"
	False = "FALSE"
)

func FormatBool(b bool) string {
	if b {
		return True
	}
	return False
}

// ParseBool is true only for a TRUE cell, in any case.
func ParseBool(s string) bool {
	return strings.EqualFold(strings.TrimSpace(s), True)
}
