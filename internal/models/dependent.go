package models

import "time"

// Dependent represents a minor owned by exactly one parent account.
// The token is an opaque 32-character hex identifier, never numeric-only
// in practice
type Dependent struct {
	Token          string
	OwnerAccountID int64
	Name           string
	Sex            string
	BirthDate      *time.Time
	GroupLabel     string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// DependentPatch carries optional field updates; nil fields are unchanged
type DependentPatch struct {
	Name       *string
	Sex        *string
	BirthDate  *time.Time
	GroupLabel *string
}
