package models

import "strings"

// NormalizeName trims leading/trailing whitespace and collapses internal
// runs of whitespace to single spaces. Applied to person and group names
// before they are stored or compared
func NormalizeName(name string) string {
	return strings.Join(strings.Fields(name), " ")
}
