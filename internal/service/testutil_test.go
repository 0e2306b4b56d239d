package service

import (
	"path/filepath"
	"testing"

	"academyroster/internal/database"
	"academyroster/internal/models"
	"academyroster/internal/repository"
)

// newTestDB opens a temporary SQLite database with the full schema applied
func newTestDB(t *testing.T) *database.DB {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "roster_test.db")
	db, err := database.Initialize(dbPath)
	if err != nil {
		t.Fatalf("Failed to initialize test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.RunMigrations(filepath.Join("..", "..", "migrations")); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	return db
}

// createAccount inserts an account fixture and returns its id
func createAccount(t *testing.T, db *database.DB, account *models.Account) int64 {
	t.Helper()

	if account.Email == "" {
		account.Email = account.DisplayName + "@fixture.test"
	}
	id, err := repository.NewAccountRepository(db).Create(account)
	if err != nil {
		t.Fatalf("Failed to create account fixture: %v", err)
	}
	return id
}

// createParent inserts a parent account fixture and returns its id
func createParent(t *testing.T, db *database.DB, name, email string) int64 {
	t.Helper()

	return createAccount(t, db, &models.Account{
		DisplayName: name,
		Email:       email,
		Role:        models.RoleParent,
	})
}

// countRows counts the rows of a table
func countRows(t *testing.T, db *database.DB, table string) int {
	t.Helper()

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&count); err != nil {
		t.Fatalf("Failed to count rows in %s: %v", table, err)
	}
	return count
}
