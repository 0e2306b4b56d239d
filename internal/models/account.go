package models

import (
	"strings"
	"time"
)

// Account roles
const (
	RoleParent             = "parent"
	RoleAthlete            = "athlete"
	RoleInstructor         = "instructor"
	RoleAdmin              = "admin"
	RoleExternalInstructor = "external_instructor"
)

// Account represents an authenticatable adult: a parent, an adult athlete,
// or an instructor. Placeholder accounts are stand-ins created before the
// real owner registers; they carry a claim code until claimed
type Account struct {
	ID           int64
	DisplayName  string
	Email        string
	PasswordHash string
	Role         string

	// GroupsText is the legacy comma-separated group list kept on the
	// account row. It is a migration input only; the membership table is
	// the authoritative representation
	GroupsText string

	// LegacyDependents is the legacy embedded dependent list, a JSON array
	// serialized into the account row. Consumed by the migration sweep
	LegacyDependents string

	IsPlaceholder bool
	ClaimCode     string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// GroupNames splits the legacy free-text group list into trimmed names,
// dropping empty segments
func (a *Account) GroupNames() []string {
	var names []string
	for _, part := range strings.Split(a.GroupsText, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			names = append(names, trimmed)
		}
	}
	return names
}

// HasLegacyDependents reports whether the embedded dependent list holds data
func (a *Account) HasLegacyDependents() bool {
	trimmed := strings.TrimSpace(a.LegacyDependents)
	return trimmed != "" && trimmed != "[]" && trimmed != "null"
}
