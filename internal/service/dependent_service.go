package service

import (
	"fmt"
	"time"

	"academyroster/internal/models"
	"academyroster/internal/repository"
)

// DependentService manages the normalized minor records owned by parent
// accounts
type DependentService struct {
	dependentRepo *repository.DependentRepository
}

// NewDependentService creates a new dependent service
func NewDependentService(dependentRepo *repository.DependentRepository) *DependentService {
	return &DependentService{dependentRepo: dependentRepo}
}

// ListByOwner retrieves all dependents owned by an account
func (s *DependentService) ListByOwner(ownerAccountID int64) ([]models.Dependent, error) {
	deps, err := s.dependentRepo.ListByOwner(ownerAccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list dependents: %w", err)
	}
	return deps, nil
}

// Get retrieves a dependent by token
func (s *DependentService) Get(token string) (*models.Dependent, error) {
	dep, err := s.dependentRepo.GetByToken(token)
	if err != nil {
		return nil, fmt.Errorf("failed to get dependent: %w", err)
	}
	if dep == nil {
		return nil, ErrDependentNotFound
	}
	return dep, nil
}

// Create adds a dependent under the given owner and returns its token
func (s *DependentService) Create(ownerAccountID int64, name, sex string, birthDate *time.Time, groupLabel string) (string, error) {
	name = models.NormalizeName(name)
	if name == "" {
		return "", validationError("name", "dependent name is required")
	}

	dep := &models.Dependent{
		OwnerAccountID: ownerAccountID,
		Name:           name,
		Sex:            sex,
		BirthDate:      birthDate,
		GroupLabel:     models.NormalizeName(groupLabel),
	}
	if err := s.dependentRepo.Create(dep); err != nil {
		return "", fmt.Errorf("failed to create dependent: %w", err)
	}

	return dep.Token, nil
}

// Update applies a patch to a dependent. The lookup is token-wide: owner
// authorization, when needed, is the caller's responsibility
func (s *DependentService) Update(token string, patch models.DependentPatch) error {
	dep, err := s.dependentRepo.GetByToken(token)
	if err != nil {
		return fmt.Errorf("failed to get dependent: %w", err)
	}
	if dep == nil {
		return ErrDependentNotFound
	}

	if patch.Name != nil {
		name := models.NormalizeName(*patch.Name)
		if name == "" {
			return validationError("name", "dependent name is required")
		}
		dep.Name = name
	}
	if patch.Sex != nil {
		dep.Sex = *patch.Sex
	}
	if patch.BirthDate != nil {
		dep.BirthDate = patch.BirthDate
	}
	if patch.GroupLabel != nil {
		dep.GroupLabel = models.NormalizeName(*patch.GroupLabel)
	}

	found, err := s.dependentRepo.Update(dep)
	if err != nil {
		return fmt.Errorf("failed to update dependent: %w", err)
	}
	if !found {
		return ErrDependentNotFound
	}

	return nil
}

// Delete removes a dependent by token
func (s *DependentService) Delete(token string) error {
	found, err := s.dependentRepo.Delete(token)
	if err != nil {
		return fmt.Errorf("failed to delete dependent: %w", err)
	}
	if !found {
		return ErrDependentNotFound
	}
	return nil
}
