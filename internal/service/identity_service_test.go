package service

import (
	"errors"
	"testing"

	"academyroster/internal/models"
	"academyroster/internal/repository"
)

func TestClassifyAthlete(t *testing.T) {
	db := newTestDB(t)
	identity := NewIdentityService(
		repository.NewAccountRepository(db),
		repository.NewDependentRepository(db),
	)

	athleteID := createAccount(t, db, &models.Account{
		DisplayName: "Radu Marin",
		Role:        models.RoleAthlete,
	})

	subject, err := identity.Classify(models.AthleteRef(athleteID).Key())
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}

	if subject.Ref.Kind() != models.SubjectAthlete {
		t.Errorf("kind = %v, want athlete", subject.Ref.Kind())
	}
	if subject.Account == nil || subject.Account.ID != athleteID {
		t.Errorf("resolved account = %+v, want id %d", subject.Account, athleteID)
	}
	if subject.Dependent != nil {
		t.Error("athlete classification must not resolve a dependent")
	}
}

func TestClassifyDependent(t *testing.T) {
	db := newTestDB(t)
	identity := NewIdentityService(
		repository.NewAccountRepository(db),
		repository.NewDependentRepository(db),
	)

	parentID := createParent(t, db, "Ioana Marin", "ioana@example.test")
	dependentService := NewDependentService(repository.NewDependentRepository(db))
	token, err := dependentService.Create(parentID, "Mihai Marin", "M", nil, "")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	subject, err := identity.Classify(token)
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}

	if subject.Ref.Kind() != models.SubjectDependent {
		t.Errorf("kind = %v, want dependent", subject.Ref.Kind())
	}
	if subject.Dependent == nil || subject.Dependent.Token != token {
		t.Errorf("resolved dependent = %+v, want token %s", subject.Dependent, token)
	}
}

func TestClassifyNeverFallsBack(t *testing.T) {
	db := newTestDB(t)
	identity := NewIdentityService(
		repository.NewAccountRepository(db),
		repository.NewDependentRepository(db),
	)

	// A numeric code with no matching account misses even if a dependent
	// store row could conceivably match; classification is syntactic only
	createParent(t, db, "Ioana Marin", "ioana@example.test")

	if _, err := identity.Classify("9999"); !errors.Is(err, ErrSubjectNotFound) {
		t.Errorf("Classify(unknown numeric) error = %v, want ErrSubjectNotFound", err)
	}
	if _, err := identity.Classify("deadbeef"); !errors.Is(err, ErrSubjectNotFound) {
		t.Errorf("Classify(unknown token) error = %v, want ErrSubjectNotFound", err)
	}
	if _, err := identity.Classify(""); !errors.Is(err, ErrValidation) {
		t.Errorf("Classify(empty) error = %v, want ErrValidation", err)
	}
}
