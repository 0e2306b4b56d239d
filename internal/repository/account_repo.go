package repository

import (
	"database/sql"
	"fmt"
	"time"

	"academyroster/internal/database"
	"academyroster/internal/models"
)

// AccountRepository handles database operations for accounts
type AccountRepository struct {
	db database.DBTX
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db database.DBTX) *AccountRepository {
	return &AccountRepository{db: db}
}

const accountColumns = `id, display_name, email, password_hash, role, groups_text,
	legacy_dependents, is_placeholder, claim_code, created_at, updated_at`

// Create inserts an account and returns its id
func (r *AccountRepository) Create(account *models.Account) (int64, error) {
	now := time.Now().UTC()
	query := `
		INSERT INTO accounts (display_name, email, password_hash, role, groups_text,
			legacy_dependents, is_placeholder, claim_code, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	id, err := r.db.ExecReturningID(query,
		account.DisplayName, account.Email, account.PasswordHash, account.Role,
		account.GroupsText, account.LegacyDependents, account.IsPlaceholder,
		account.ClaimCode, now, now)
	if err != nil {
		return 0, fmt.Errorf("failed to create account: %w", err)
	}

	account.ID = id
	account.CreatedAt = now
	account.UpdatedAt = now
	return id, nil
}

// GetByID retrieves an account by id, returning nil if none exists
func (r *AccountRepository) GetByID(id int64) (*models.Account, error) {
	query := "SELECT " + accountColumns + " FROM accounts WHERE id = ?"
	account, err := r.scanAccount(r.db.QueryRow(query, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return account, nil
}

// GetByEmail retrieves an account by email, returning nil if none exists
func (r *AccountRepository) GetByEmail(email string) (*models.Account, error) {
	query := "SELECT " + accountColumns + " FROM accounts WHERE email = ?"
	account, err := r.scanAccount(r.db.QueryRow(query, email))
	if err != nil {
		return nil, fmt.Errorf("failed to get account by email: %w", err)
	}
	return account, nil
}

// FindByDisplayNameLike retrieves accounts whose display name matches the
// given pattern, case-insensitively
func (r *AccountRepository) FindByDisplayNameLike(pattern string) ([]models.Account, error) {
	query := "SELECT " + accountColumns + " FROM accounts WHERE LOWER(display_name) LIKE LOWER(?) ORDER BY id"
	return r.queryAccounts(query, pattern)
}

// FindPlaceholdersByName retrieves placeholder accounts whose display name
// equals the given name, case-insensitively
func (r *AccountRepository) FindPlaceholdersByName(name string) ([]models.Account, error) {
	query := "SELECT " + accountColumns + ` FROM accounts
		WHERE is_placeholder = ? AND LOWER(display_name) = LOWER(?) ORDER BY id`
	return r.queryAccounts(query, true, name)
}

// FindPlaceholderByClaimCode retrieves the placeholder holding the given
// claim code, returning nil if none exists
func (r *AccountRepository) FindPlaceholderByClaimCode(code string) (*models.Account, error) {
	query := "SELECT " + accountColumns + " FROM accounts WHERE is_placeholder = ? AND claim_code = ?"
	account, err := r.scanAccount(r.db.QueryRow(query, true, code))
	if err != nil {
		return nil, fmt.Errorf("failed to find placeholder by claim code: %w", err)
	}
	return account, nil
}

// ListParentsWithLegacyDependents retrieves parent accounts still carrying
// a non-empty embedded dependent list
func (r *AccountRepository) ListParentsWithLegacyDependents() ([]models.Account, error) {
	query := "SELECT " + accountColumns + ` FROM accounts
		WHERE role = ? AND legacy_dependents <> '' AND legacy_dependents <> '[]' ORDER BY id`
	return r.queryAccounts(query, models.RoleParent)
}

// Update writes an account's mutable fields
func (r *AccountRepository) Update(account *models.Account) error {
	account.UpdatedAt = time.Now().UTC()
	query := `
		UPDATE accounts
		SET display_name = ?, email = ?, password_hash = ?, role = ?, groups_text = ?,
			legacy_dependents = ?, is_placeholder = ?, claim_code = ?, updated_at = ?
		WHERE id = ?
	`
	_, err := r.db.Exec(query,
		account.DisplayName, account.Email, account.PasswordHash, account.Role,
		account.GroupsText, account.LegacyDependents, account.IsPlaceholder,
		account.ClaimCode, account.UpdatedAt, account.ID)
	if err != nil {
		return fmt.Errorf("failed to update account: %w", err)
	}
	return nil
}

// Delete removes an account. Dependents and memberships keyed to the
// account cascade via foreign keys; attendance references to cascaded
// memberships are nulled by the schema
func (r *AccountRepository) Delete(id int64) (bool, error) {
	result, err := r.db.Exec("DELETE FROM accounts WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("failed to delete account: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to delete account: %w", err)
	}
	return affected > 0, nil
}

func (r *AccountRepository) queryAccounts(query string, args ...interface{}) ([]models.Account, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer rows.Close()

	var accounts []models.Account
	for rows.Next() {
		account, err := scanAccountRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, *account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate accounts: %w", err)
	}

	return accounts, nil
}

func (r *AccountRepository) scanAccount(row *sql.Row) (*models.Account, error) {
	account := &models.Account{}
	err := row.Scan(
		&account.ID, &account.DisplayName, &account.Email, &account.PasswordHash,
		&account.Role, &account.GroupsText, &account.LegacyDependents,
		&account.IsPlaceholder, &account.ClaimCode, &account.CreatedAt, &account.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return account, nil
}

func scanAccountRow(rows *sql.Rows) (*models.Account, error) {
	account := &models.Account{}
	err := rows.Scan(
		&account.ID, &account.DisplayName, &account.Email, &account.PasswordHash,
		&account.Role, &account.GroupsText, &account.LegacyDependents,
		&account.IsPlaceholder, &account.ClaimCode, &account.CreatedAt, &account.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return account, nil
}
