package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// LegacyDependent is one entry of the embedded dependent list serialized on
// old parent accounts. BirthDate, when present, is "YYYY-MM-DD"; most
// legacy rows only carry an integer age
type LegacyDependent struct {
	Name      string `json:"name"`
	Sex       string `json:"sex"`
	Age       int    `json:"age"`
	Group     string `json:"group"`
	BirthDate string `json:"birth_date"`
}

// ParseLegacyDependents decodes the embedded list. A malformed blob is an
// error; malformed individual entries are dropped and counted so the
// migration unit can proceed with the rest
func ParseLegacyDependents(raw string) (entries []LegacyDependent, skipped int, err error) {
	var rawEntries []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &rawEntries); err != nil {
		return nil, 0, fmt.Errorf("malformed legacy dependent list: %w", err)
	}

	for _, rawEntry := range rawEntries {
		var entry LegacyDependent
		if err := json.Unmarshal(rawEntry, &entry); err != nil {
			skipped++
			continue
		}
		entries = append(entries, entry)
	}

	return entries, skipped, nil
}

// EstimatedBirthDate resolves the entry's birth date. An explicit date wins;
// otherwise the date is estimated from the integer age as January 1st of
// (currentYear - age), a documented approximation. Returns nil when the
// entry has neither a parseable date nor a plausible age
func (e LegacyDependent) EstimatedBirthDate(now time.Time) *time.Time {
	if e.BirthDate != "" {
		if parsed, err := time.Parse("2006-01-02", e.BirthDate); err == nil {
			return &parsed
		}
	}

	if e.Age <= 0 || e.Age > 120 {
		return nil
	}
	estimated := time.Date(now.Year()-e.Age, time.January, 1, 0, 0, 0, 0, time.UTC)
	return &estimated
}
