package service

import (
	"fmt"

	"academyroster/internal/models"
	"academyroster/internal/repository"
)

// Subject is a resolved roster subject: the classification plus the
// canonical record it refers to. Exactly one of Account/Dependent is set,
// matching Ref's kind
type Subject struct {
	Ref       models.SubjectRef
	Account   *models.Account
	Dependent *models.Dependent
}

// IdentityService classifies opaque scanned codes into roster subjects
type IdentityService struct {
	accountRepo   *repository.AccountRepository
	dependentRepo *repository.DependentRepository
}

// NewIdentityService creates a new identity service
func NewIdentityService(accountRepo *repository.AccountRepository, dependentRepo *repository.DependentRepository) *IdentityService {
	return &IdentityService{
		accountRepo:   accountRepo,
		dependentRepo: dependentRepo,
	}
}

// Classify resolves an opaque code. All-digit codes are adult-athlete
// account ids, everything else is a dependent token; only the classified
// table is consulted, never both. A miss in the classified table is
// ErrSubjectNotFound — there is no cross-table fallback, so a dependent
// token that is purely numeric would never resolve
func (s *IdentityService) Classify(code string) (*Subject, error) {
	ref, ok := models.ParseSubjectCode(code)
	if !ok {
		return nil, validationError("code", "subject code is required")
	}

	switch ref.Kind() {
	case models.SubjectAthlete:
		account, err := s.accountRepo.GetByID(ref.AthleteAccountID())
		if err != nil {
			return nil, fmt.Errorf("failed to resolve athlete: %w", err)
		}
		if account == nil {
			return nil, ErrSubjectNotFound
		}
		return &Subject{Ref: ref, Account: account}, nil

	case models.SubjectDependent:
		dependent, err := s.dependentRepo.GetByToken(ref.DependentToken())
		if err != nil {
			return nil, fmt.Errorf("failed to resolve dependent: %w", err)
		}
		if dependent == nil {
			return nil, ErrSubjectNotFound
		}
		return &Subject{Ref: ref, Dependent: dependent}, nil
	}

	return nil, ErrSubjectNotFound
}
