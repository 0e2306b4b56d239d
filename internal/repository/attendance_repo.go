package repository

import (
	"database/sql"
	"fmt"

	"academyroster/internal/database"
	"academyroster/internal/models"
)

// AttendanceRepository handles database operations for attendance events
type AttendanceRepository struct {
	db database.DBTX
}

// NewAttendanceRepository creates a new attendance repository
func NewAttendanceRepository(db database.DBTX) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

// Insert writes an attendance event and fills in its id
func (r *AttendanceRepository) Insert(event *models.AttendanceEvent) error {
	var dependentToken, athleteID interface{}
	switch event.Subject.Kind() {
	case models.SubjectDependent:
		dependentToken = event.Subject.DependentToken()
	case models.SubjectAthlete:
		athleteID = event.Subject.AthleteAccountID()
	default:
		return fmt.Errorf("attendance subject reference is unset")
	}

	var membershipID interface{}
	if event.MembershipID != nil {
		membershipID = *event.MembershipID
	}

	query := `
		INSERT INTO attendance_events (occurred_at, dependent_token, athlete_account_id, instructor_id, group_label, membership_id)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	id, err := r.db.ExecReturningID(query,
		event.OccurredAt, dependentToken, athleteID, event.InstructorID,
		event.GroupLabel, membershipID)
	if err != nil {
		return fmt.Errorf("failed to insert attendance event: %w", err)
	}

	event.ID = id
	return nil
}

// ListBySubject retrieves all attendance events for a subject, oldest first
func (r *AttendanceRepository) ListBySubject(subject models.SubjectRef) ([]models.AttendanceEvent, error) {
	predicate, arg, err := subjectPredicate(subject)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT id, occurred_at, dependent_token, athlete_account_id, instructor_id, group_label, membership_id
		FROM attendance_events
		WHERE ` + predicate + `
		ORDER BY occurred_at, id
	`
	rows, err := r.db.Query(query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to query attendance events: %w", err)
	}
	defer rows.Close()

	var events []models.AttendanceEvent
	for rows.Next() {
		var event models.AttendanceEvent
		var dependentToken sql.NullString
		var athleteID, membershipID sql.NullInt64
		if err := rows.Scan(&event.ID, &event.OccurredAt, &dependentToken, &athleteID,
			&event.InstructorID, &event.GroupLabel, &membershipID); err != nil {
			return nil, fmt.Errorf("failed to scan attendance event: %w", err)
		}

		switch {
		case dependentToken.Valid:
			event.Subject = models.DependentRef(dependentToken.String)
		case athleteID.Valid:
			event.Subject = models.AthleteRef(athleteID.Int64)
		}
		if membershipID.Valid {
			event.MembershipID = &membershipID.Int64
		}

		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attendance events: %w", err)
	}

	return events, nil
}
