package utils

import "strings"

// NormalizePlate strips spaces and dashes and upper-cases a plate so the
// per-org uniqueness check compares a canonical form.
func NormalizePlate(raw string) string {
	normalized := strings.TrimSpace(raw)
	normalized = strings.ReplaceAll(normalized, " ", "")
	normalized = strings.ReplaceAll(normalized, "-", "")
	normalized = strings.ToUpper(normalized)
	return normalized
}
