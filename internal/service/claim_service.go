package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"academyroster/internal/database"
	"academyroster/internal/models"
	"academyroster/internal/repository"
	"academyroster/internal/security"
)

// claimCodeBytes gives 12-character hex claim codes, short enough to read
// over the phone
const claimCodeBytes = 6

// NewDependent describes a dependent supplied at claim time
type NewDependent struct {
	Name      string
	Sex       string
	BirthDate *time.Time
	Group     string
}

// ClaimRequest carries the input of a claim attempt. ClaimCode takes
// precedence over Name; NewEmail, NewPassword and Dependents are optional
type ClaimRequest struct {
	Name        string
	ClaimCode   string
	NewEmail    string
	NewPassword string
	Dependents  []NewDependent
}

// ClaimService manages placeholder parent accounts and their conversion
// into real accounts
type ClaimService struct {
	db          *database.DB
	accountRepo *repository.AccountRepository
}

// NewClaimService creates a new claim service
func NewClaimService(db *database.DB, accountRepo *repository.AccountRepository) *ClaimService {
	return &ClaimService{
		db:          db,
		accountRepo: accountRepo,
	}
}

// CreatePlaceholder creates a stand-in parent account for a person who has
// not registered yet. The account carries a fresh claim code, an empty
// embedded dependent list, and a synthetic non-routable email so the email
// uniqueness constraint is satisfied
func (s *ClaimService) CreatePlaceholder(parentName string) (int64, string, error) {
	name := models.NormalizeName(parentName)
	if name == "" {
		return 0, "", validationError("name", "parent name is required")
	}

	code, err := security.GenerateCode(claimCodeBytes)
	if err != nil {
		return 0, "", fmt.Errorf("failed to generate claim code: %w", err)
	}

	account := &models.Account{
		DisplayName:      name,
		Email:            syntheticEmail(),
		Role:             models.RoleParent,
		LegacyDependents: "[]",
		IsPlaceholder:    true,
		ClaimCode:        code,
	}
	id, err := s.accountRepo.Create(account)
	if err != nil {
		return 0, "", fmt.Errorf("failed to create placeholder: %w", err)
	}

	return id, code, nil
}

// Claim converts a placeholder into a real account. A supplied claim code
// resolves the unique placeholder holding it; otherwise the name must match
// exactly one placeholder case-insensitively — more than one match is a
// conflict the caller resolves by supplying a code. The claim code is
// cleared on success and cannot be reused. Supplied dependents are created
// and assigned to their groups in the same transaction
func (s *ClaimService) Claim(req ClaimRequest) (int64, error) {
	placeholder, err := s.resolvePlaceholder(req)
	if err != nil {
		return 0, err
	}

	if req.NewEmail != "" {
		existing, err := s.accountRepo.GetByEmail(req.NewEmail)
		if err != nil {
			return 0, err
		}
		if existing != nil && existing.ID != placeholder.ID {
			return 0, fmt.Errorf("%w: email already in use", ErrConflict)
		}
	}

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin claim: %w", err)
	}
	defer tx.Rollback()

	accountRepo := repository.NewAccountRepository(tx)
	dependentRepo := repository.NewDependentRepository(tx)
	groupRepo := repository.NewGroupRepository(tx)
	membershipRepo := repository.NewMembershipRepository(tx)

	if req.NewEmail != "" {
		placeholder.Email = req.NewEmail
	}
	if req.NewPassword != "" {
		hash, err := security.HashPassword(req.NewPassword)
		if err != nil {
			return 0, fmt.Errorf("failed to hash password: %w", err)
		}
		placeholder.PasswordHash = hash
	}
	placeholder.IsPlaceholder = false
	placeholder.ClaimCode = ""

	if err := accountRepo.Update(placeholder); err != nil {
		return 0, err
	}

	// First-time claim: no duplicate-name guard, unlike the legacy sweep
	for _, newDep := range req.Dependents {
		name := models.NormalizeName(newDep.Name)
		if name == "" {
			return 0, validationError("dependents", "dependent name is required")
		}

		dep := &models.Dependent{
			OwnerAccountID: placeholder.ID,
			Name:           name,
			Sex:            newDep.Sex,
			BirthDate:      newDep.BirthDate,
			GroupLabel:     models.NormalizeName(newDep.Group),
		}
		if err := dependentRepo.Create(dep); err != nil {
			return 0, err
		}

		if dep.GroupLabel != "" {
			canonical := CanonicalGroupName(dep.GroupLabel)
			group, err := groupRepo.GetOrCreate(canonical, strings.ToLower(canonical))
			if err != nil {
				return 0, err
			}
			if _, err := membershipRepo.Insert(group.ID, models.DependentRef(dep.Token)); err != nil {
				return 0, err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit claim: %w", err)
	}

	return placeholder.ID, nil
}

// resolvePlaceholder finds the placeholder a claim refers to. Code lookup
// wins when present; name lookup requires exactly one match
func (s *ClaimService) resolvePlaceholder(req ClaimRequest) (*models.Account, error) {
	if req.ClaimCode != "" {
		placeholder, err := s.accountRepo.FindPlaceholderByClaimCode(req.ClaimCode)
		if err != nil {
			return nil, err
		}
		if placeholder == nil {
			return nil, ErrClaimCodeNotFound
		}
		return placeholder, nil
	}

	name := models.NormalizeName(req.Name)
	if name == "" {
		return nil, validationError("name", "a name or claim code is required")
	}

	matches, err := s.accountRepo.FindPlaceholdersByName(name)
	if err != nil {
		return nil, err
	}
	switch len(matches) {
	case 0:
		return nil, ErrPlaceholderNotFound
	case 1:
		return &matches[0], nil
	default:
		return nil, ErrAmbiguousName
	}
}

// syntheticEmail builds a unique, deliberately non-routable address for a
// placeholder account
func syntheticEmail() string {
	return "placeholder+" + uuid.New().String() + "@roster.invalid"
}
