package repository

import (
	"database/sql"
	"fmt"
	"time"

	"academyroster/internal/database"
	"academyroster/internal/models"
)

// GroupRepository handles database operations for groups
type GroupRepository struct {
	db database.DBTX
}

// NewGroupRepository creates a new group repository
func NewGroupRepository(db database.DBTX) *GroupRepository {
	return &GroupRepository{db: db}
}

// GetByNormalizedName retrieves a group by its normalized name, returning
// nil if none exists
func (r *GroupRepository) GetByNormalizedName(normalized string) (*models.Group, error) {
	query := "SELECT id, name, normalized_name, created_at FROM groups WHERE normalized_name = ?"
	group := &models.Group{}
	err := r.db.QueryRow(query, normalized).Scan(
		&group.ID, &group.Name, &group.NormalizedName, &group.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}
	return group, nil
}

// GetOrCreate returns the group with the given normalized name, inserting
// it first if absent. The insert ignores unique-constraint conflicts and
// re-reads, so concurrent calls for the same name settle on one row
func (r *GroupRepository) GetOrCreate(name, normalized string) (*models.Group, error) {
	group, err := r.GetByNormalizedName(normalized)
	if err != nil {
		return nil, err
	}
	if group != nil {
		return group, nil
	}

	dialect := r.db.GetDialect()
	query := dialect.InsertIgnorePrefix() +
		" INTO groups (name, normalized_name, created_at) VALUES (?, ?, ?) " +
		dialect.InsertIgnoreSuffix()
	if _, err := r.db.Exec(query, name, normalized, time.Now().UTC()); err != nil {
		return nil, fmt.Errorf("failed to create group: %w", err)
	}

	// Either our insert won or a concurrent one did; the row exists now
	group, err = r.GetByNormalizedName(normalized)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, fmt.Errorf("group %q missing after insert", name)
	}
	return group, nil
}

// ListAll retrieves all groups ordered by name
func (r *GroupRepository) ListAll() ([]models.Group, error) {
	query := "SELECT id, name, normalized_name, created_at FROM groups ORDER BY normalized_name"
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query groups: %w", err)
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
