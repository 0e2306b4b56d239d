package repository

import (
	"database/sql"
	"fmt"
	"time"

	"academyroster/internal/database"
	"academyroster/internal/models"
	"academyroster/internal/security"
)

// DependentRepository handles database operations for minor dependents
type DependentRepository struct {
	db database.DBTX
}

// NewDependentRepository creates a new dependent repository
func NewDependentRepository(db database.DBTX) *DependentRepository {
	return &DependentRepository{db: db}
}

// GenerateToken creates a new opaque dependent token: 128 random bits,
// hex-encoded. Collisions are not checked
func (r *DependentRepository) GenerateToken() (string, error) {
	return security.GenerateCode(16)
}

// Create inserts a dependent, generating its token
func (r *DependentRepository) Create(dep *models.Dependent) error {
	token, err := r.GenerateToken()
	if err != nil {
		return fmt.Errorf("failed to generate dependent token: %w", err)
	}

	now := time.Now().UTC()
	query := `
		INSERT INTO dependents (token, owner_account_id, name, sex, birth_date, group_label, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = r.db.Exec(query,
		token, dep.OwnerAccountID, dep.Name, dep.Sex, nullableTime(dep.BirthDate),
		dep.GroupLabel, now, now)
	if err != nil {
		return fmt.Errorf("failed to create dependent: %w", err)
	}

	dep.Token = token
	dep.CreatedAt = now
	dep.UpdatedAt = now
	return nil
}

// GetByToken retrieves a dependent by token, returning nil if none exists.
// Lookup is store-wide: ownership is not assumed, callers needing
// authorization must check OwnerAccountID themselves
func (r *DependentRepository) GetByToken(token string) (*models.Dependent, error) {
	query := `
		SELECT token, owner_account_id, name, sex, birth_date, group_label, created_at, updated_at
		FROM dependents WHERE token = ?
	`
	dep, err := scanDependent(r.db.QueryRow(query, token))
	if err != nil {
		return nil, fmt.Errorf("failed to get dependent: %w", err)
	}
	return dep, nil
}

// ListByOwner retrieves all dependents owned by an account
func (r *DependentRepository) ListByOwner(ownerAccountID int64) ([]models.Dependent, error) {
	query := `
		SELECT token, owner_account_id, name, sex, birth_date, group_label, created_at, updated_at
		FROM dependents WHERE owner_account_id = ? ORDER BY created_at, token
	`
	rows, err := r.db.Query(query, ownerAccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to query dependents: %w", err)
	}
	defer rows.Close()

	var deps []models.Dependent
	for rows.Next() {
		var dep models.Dependent
		var birthDate sql.NullTime
		if err := rows.Scan(&dep.Token, &dep.OwnerAccountID, &dep.Name, &dep.Sex,
			&birthDate, &dep.GroupLabel, &dep.CreatedAt, &dep.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan dependent: %w", err)
		}
		if birthDate.Valid {
			dep.BirthDate = &birthDate.Time
		}
		deps = append(deps, dep)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate dependents: %w", err)
	}

	return deps, nil
}

// FindByOwnerAndName retrieves the first dependent of an owner whose name
// matches case-insensitively, returning nil if none exists
func (r *DependentRepository) FindByOwnerAndName(ownerAccountID int64, name string) (*models.Dependent, error) {
	query := `
		SELECT token, owner_account_id, name, sex, birth_date, group_label, created_at, updated_at
		FROM dependents WHERE owner_account_id = ? AND LOWER(name) = LOWER(?)
	`
	dep, err := scanDependent(r.db.QueryRow(query, ownerAccountID, name))
	if err != nil {
		return nil, fmt.Errorf("failed to find dependent by name: %w", err)
	}
	return dep, nil
}

// Update writes a dependent's mutable fields, reporting whether a row matched
func (r *DependentRepository) Update(dep *models.Dependent) (bool, error) {
	dep.UpdatedAt = time.Now().UTC()
	query := `
		UPDATE dependents SET name = ?, sex = ?, birth_date = ?, group_label = ?, updated_at = ?
		WHERE token = ?
	`
	result, err := r.db.Exec(query,
		dep.Name, dep.Sex, nullableTime(dep.BirthDate), dep.GroupLabel, dep.UpdatedAt, dep.Token)
	if err != nil {
		return false, fmt.Errorf("failed to update dependent: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to update dependent: %w", err)
	}
	return affected > 0, nil
}

// Delete removes a dependent by token, reporting whether a row matched.
// Memberships keyed to the token cascade via foreign keys
func (r *DependentRepository) Delete(token string) (bool, error) {
	result, err := r.db.Exec("DELETE FROM dependents WHERE token = ?", token)
	if err != nil {
		return false, fmt.Errorf("failed to delete dependent: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to delete dependent: %w", err)
	}
	return affected > 0, nil
}

func scanDependent(row *sql.Row) (*models.Dependent, error) {
	dep := &models.Dependent{}
	var birthDate sql.NullTime
	err := row.Scan(&dep.Token, &dep.OwnerAccountID, &dep.Name, &dep.Sex,
		&birthDate, &dep.GroupLabel, &dep.CreatedAt, &dep.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if birthDate.Valid {
		dep.BirthDate = &birthDate.Time
	}
	return dep, nil
}

// nullableTime converts a *time.Time into a driver-friendly value
func nullableTime(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return *t
}
