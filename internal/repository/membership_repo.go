package repository

import (
	"database/sql"
	"fmt"
	"time"

	"academyroster/internal/database"
	"academyroster/internal/models"
)

// MembershipRepository handles database operations for the membership ledger
type MembershipRepository struct {
	db database.DBTX
}

// NewMembershipRepository creates a new membership repository
func NewMembershipRepository(db database.DBTX) *MembershipRepository {
	return &MembershipRepository{db: db}
}

// subjectPredicate returns the WHERE fragment and argument matching the
// subject's keyed column
func subjectPredicate(subject models.SubjectRef) (string, interface{}, error) {
	switch subject.Kind() {
	case models.SubjectDependent:
		return "dependent_token = ?", subject.DependentToken(), nil
	case models.SubjectAthlete:
		return "athlete_account_id = ?", subject.AthleteAccountID(), nil
	}
	return "", nil, fmt.Errorf("membership subject reference is unset")
}

// Exists reports whether a membership row links the subject to the group
func (r *MembershipRepository) Exists(groupID int64, subject models.SubjectRef) (bool, error) {
	predicate, arg, err := subjectPredicate(subject)
	if err != nil {
		return false, err
	}

	var count int
	query := "SELECT COUNT(*) FROM memberships WHERE group_id = ? AND " + predicate
	if err := r.db.QueryRow(query, groupID, arg).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check membership: %w", err)
	}
	return count > 0, nil
}

// Insert adds a membership row without any duplicate check
func (r *MembershipRepository) Insert(groupID int64, subject models.SubjectRef) (int64, error) {
	var dependentToken, athleteID interface{}
	switch subject.Kind() {
	case models.SubjectDependent:
		dependentToken = subject.DependentToken()
	case models.SubjectAthlete:
		athleteID = subject.AthleteAccountID()
	default:
		return 0, fmt.Errorf("membership subject reference is unset")
	}

	query := `
		INSERT INTO memberships (group_id, dependent_token, athlete_account_id, created_at)
		VALUES (?, ?, ?, ?)
	`
	id, err := r.db.ExecReturningID(query, groupID, dependentToken, athleteID, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to insert membership: %w", err)
	}
	return id, nil
}

// FindID returns the id of the membership row linking the subject to the
// group, or false if none exists. With duplicates present the lowest id wins
func (r *MembershipRepository) FindID(groupID int64, subject models.SubjectRef) (int64, bool, error) {
	predicate, arg, err := subjectPredicate(subject)
	if err != nil {
		return 0, false, err
	}

	var id int64
	query := "SELECT id FROM memberships WHERE group_id = ? AND " + predicate + " ORDER BY id LIMIT 1"
	err = r.db.QueryRow(query, groupID, arg).Scan(&id)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to find membership: %w", err)
	}
	return id, true, nil
}

// DeleteAll removes every membership row linking the subject to the group,
// including duplicates, and returns how many rows were removed. Attendance
// references to removed rows are nulled by the schema
func (r *MembershipRepository) DeleteAll(groupID int64, subject models.SubjectRef) (int64, error) {
	predicate, arg, err := subjectPredicate(subject)
	if err != nil {
		return 0, err
	}

	query := "DELETE FROM memberships WHERE group_id = ? AND " + predicate
	result, err := r.db.Exec(query, groupID, arg)
	if err != nil {
		return 0, fmt.Errorf("failed to delete memberships: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to delete memberships: %w", err)
	}
	return affected, nil
}

// ListMembers retrieves the roster of a group. Dependent entries surface
// the owning parent's display name; athlete entries surface their own
func (r *MembershipRepository) ListMembers(groupID int64) ([]models.Member, error) {
	query := `
		SELECT m.dependent_token, m.athlete_account_id, d.name, owner.display_name, athlete.display_name
		FROM memberships m
		LEFT JOIN dependents d ON m.dependent_token = d.token
		LEFT JOIN accounts owner ON d.owner_account_id = owner.id
		LEFT JOIN accounts athlete ON m.athlete_account_id = athlete.id
		WHERE m.group_id = ?
	`
	rows, err := r.db.Query(query, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to query members: %w", err)
	}
	defer rows.Close()

	var members []models.Member
	for rows.Next() {
		var dependentToken sql.NullString
		var athleteID sql.NullInt64
		var dependentName, ownerName, athleteName sql.NullString
		if err := rows.Scan(&dependentToken, &athleteID, &dependentName, &ownerName, &athleteName); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}

		switch {
		case dependentToken.Valid:
			members = append(members, models.Member{
				Kind:        models.SubjectDependent,
				SubjectID:   dependentToken.String,
				DisplayName: ownerName.String,
			})
		case athleteID.Valid:
			members = append(members, models.Member{
				Kind:        models.SubjectAthlete,
				SubjectID:   models.AthleteRef(athleteID.Int64).Key(),
				DisplayName: athleteName.String + " (athlete)",
			})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate members: %w", err)
	}

	return members, nil
}

// ListGroupsForSubject retrieves all groups a subject belongs to
func (r *MembershipRepository) ListGroupsForSubject(subject models.SubjectRef) ([]models.Group, error) {
	predicate, arg, err := subjectPredicate(subject)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT g.id, g.name, g.normalized_name, g.created_at
		FROM groups g
		INNER JOIN memberships m ON m.group_id = g.id
		WHERE m.` + predicate + `
		GROUP BY g.id, g.name, g.normalized_name, g.created_at
		ORDER BY g.normalized_name
	`
	rows, err := r.db.Query(query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to query subject groups: %w", err)
	}
	defer rows.Close()

	var groups []models.Group
	for rows.Next() {
		var group models.Group
		if err := rows.Scan(&group.ID, &group.Name, &group.NormalizedName, &group.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		groups = append(groups, group)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate groups: %w", err)
	}

	return groups, nil
}

// DeleteDuplicates removes redundant rows sharing the same (group, subject)
// pair, keeping the row with the lowest id. Dependent-keyed and
// athlete-keyed rows are swept independently. Safe to run repeatedly
func (r *MembershipRepository) DeleteDuplicates() (int, error) {
	removedDependents, err := r.deleteDuplicatesFor("dependent_token")
	if err != nil {
		return 0, err
	}
	removedAthletes, err := r.deleteDuplicatesFor("athlete_account_id")
	if err != nil {
		return removedDependents, err
	}
	return removedDependents + removedAthletes, nil
}

func (r *MembershipRepository) deleteDuplicatesFor(subjectColumn string) (int, error) {
	query := `
		SELECT id, group_id, ` + subjectColumn + `
		FROM memberships
		WHERE ` + subjectColumn + ` IS NOT NULL
		ORDER BY group_id, ` + subjectColumn + `, id
	`
	rows, err := r.db.Query(query)
	if err != nil {
		return 0, fmt.Errorf("failed to scan for duplicate memberships: %w", err)
	}

	type pairKey struct {
		groupID int64
		subject string
	}
	seen := make(map[pairKey]bool)
	var redundant []int64

	for rows.Next() {
		var id, groupID int64
		var subject string
		if err := rows.Scan(&id, &groupID, &subject); err != nil {
			rows.Close()
			return 0, fmt.Errorf("failed to scan duplicate membership: %w", err)
		}

		key := pairKey{groupID: groupID, subject: subject}
		if seen[key] {
			redundant = append(redundant, id)
			continue
		}
		seen[key] = true
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return 0, fmt.Errorf("failed to iterate duplicate memberships: %w", err)
	}
	rows.Close()

	for _, id := range redundant {
		if _, err := r.db.Exec("DELETE FROM memberships WHERE id = ?", id); err != nil {
			return 0, fmt.Errorf("failed to delete duplicate membership %d: %w", id, err)
		}
	}

	return len(redundant), nil
}
