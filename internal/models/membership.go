package models

import "time"

// Membership links a subject (dependent or adult athlete) to a group.
// At most one row should exist per (group, subject) pair; the write path
// pre-checks but does not enforce this under races, and the dedup sweep
// repairs any duplicates that slip through
type Membership struct {
	ID        int64
	GroupID   int64
	Subject   SubjectRef
	CreatedAt time.Time
}

// Member is one entry of a group roster listing
type Member struct {
	Kind SubjectKind
	// SubjectID is the dependent token or the athlete account id in string form
	SubjectID string
	// DisplayName is the owning parent's name for dependents, or the
	// athlete's own name tagged with an athlete suffix
	DisplayName string
}
