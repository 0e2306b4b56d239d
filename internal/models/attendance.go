package models

import "time"

// AttendanceEvent is an immutable check-in record. MembershipID references
// the membership row active at scan time when one could be matched; the
// reference is nulled if that membership is later removed, never rewritten
type AttendanceEvent struct {
	ID           int64
	OccurredAt   time.Time
	Subject      SubjectRef
	InstructorID int64
	GroupLabel   string
	MembershipID *int64
}
