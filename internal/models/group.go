package models

import "time"

// Group is a canonical training group. NormalizedName is the lowercased
// canonical name and is unique, which gives case-insensitive identity
// across all supported databases
type Group struct {
	ID             int64
	Name           string
	NormalizedName string
	CreatedAt      time.Time
}
