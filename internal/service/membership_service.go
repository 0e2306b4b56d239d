package service

import (
	"fmt"
	"log"
	"sort"
	"strings"

	"academyroster/internal/models"
	"academyroster/internal/repository"
)

// MembershipService manages the many-to-many links between subjects and
// groups
type MembershipService struct {
	membershipRepo *repository.MembershipRepository
}

// NewMembershipService creates a new membership service
func NewMembershipService(membershipRepo *repository.MembershipRepository) *MembershipService {
	return &MembershipService{membershipRepo: membershipRepo}
}

// Assign links a subject to a group. Assigning an existing pair is a no-op.
// The existence pre-check and insert can race with a concurrent assign;
// the resulting duplicate is tolerated and repaired by Deduplicate
func (s *MembershipService) Assign(groupID int64, subject models.SubjectRef) error {
	if subject.IsZero() {
		return validationError("subject", "subject reference is required")
	}

	exists, err := s.membershipRepo.Exists(groupID, subject)
	if err != nil {
		return fmt.Errorf("failed to check membership: %w", err)
	}
	if exists {
		return nil
	}

	if _, err := s.membershipRepo.Insert(groupID, subject); err != nil {
		return fmt.Errorf("failed to assign membership: %w", err)
	}
	return nil
}

// Unassign removes a subject from a group, deleting every matching row if
// duplicates exist
func (s *MembershipService) Unassign(groupID int64, subject models.SubjectRef) error {
	if subject.IsZero() {
		return validationError("subject", "subject reference is required")
	}

	if _, err := s.membershipRepo.DeleteAll(groupID, subject); err != nil {
		return fmt.Errorf("failed to unassign membership: %w", err)
	}
	return nil
}

// ListMembers retrieves a group's roster ordered case-insensitively by
// display name, ties broken by subject id
func (s *MembershipService) ListMembers(groupID int64) ([]models.Member, error) {
	members, err := s.membershipRepo.ListMembers(groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}

	sort.Slice(members, func(i, j int) bool {
		a := strings.ToLower(members[i].DisplayName)
		b := strings.ToLower(members[j].DisplayName)
		if a != b {
			return a < b
		}
		return members[i].SubjectID < members[j].SubjectID
	})

	return members, nil
}

// ListGroupsForSubject retrieves all groups a subject belongs to
func (s *MembershipService) ListGroupsForSubject(subject models.SubjectRef) ([]models.Group, error) {
	if subject.IsZero() {
		return nil, validationError("subject", "subject reference is required")
	}

	groups, err := s.membershipRepo.ListGroupsForSubject(subject)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups for subject: %w", err)
	}
	return groups, nil
}

// Deduplicate removes redundant membership rows, keeping the lowest id per
// (group, subject) pair. A no-op once the ledger is clean; intended as an
// occasional, non-concurrent maintenance sweep
func (s *MembershipService) Deduplicate() (int, error) {
	removed, err := s.membershipRepo.DeleteDuplicates()
	if err != nil {
		return 0, fmt.Errorf("failed to deduplicate memberships: %w", err)
	}

	if removed > 0 {
		log.Printf("Membership dedup removed %d redundant rows", removed)
	}
	return removed, nil
}
