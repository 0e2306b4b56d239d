package service

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"academyroster/internal/models"
	"academyroster/internal/repository"
)

// groupAbbreviationPrefixes are the shorthand spellings instructors use for
// numbered groups, longest first so "group" is not matched as "gr"+"oup"
var groupAbbreviationPrefixes = []string{"group", "grupa", "grp", "gr", "g"}

var digitRunRegexp = regexp.MustCompile(`[0-9]+`)

// GroupService provides the canonical group directory
type GroupService struct {
	groupRepo *repository.GroupRepository
}

// NewGroupService creates a new group service
func NewGroupService(groupRepo *repository.GroupRepository) *GroupService {
	return &GroupService{groupRepo: groupRepo}
}

// CanonicalGroupName normalizes a raw group name. Whitespace is trimmed and
// collapsed; purely numeric input and abbreviated numbered-group input
// ("G12", "gr 5") both canonicalize to "Group <N>"; anything else keeps its
// trimmed spelling. Returns "" for input with no content
func CanonicalGroupName(raw string) string {
	trimmed := models.NormalizeName(raw)
	if trimmed == "" {
		return ""
	}

	if n, ok := numericGroupNumber(trimmed); ok {
		return "Group " + n
	}

	return trimmed
}

// numericGroupNumber extracts the group number when the name is purely
// numeric or an abbreviation carrying a digit run
func numericGroupNumber(name string) (string, bool) {
	if isNumeric(name) {
		return stripLeadingZeros(name), true
	}

	lower := strings.ToLower(name)
	for _, prefix := range groupAbbreviationPrefixes {
		if !strings.HasPrefix(lower, prefix) {
			continue
		}
		rest := strings.TrimLeft(name[len(prefix):], " .-")
		if rest != "" && rest[0] >= '0' && rest[0] <= '9' {
			return stripLeadingZeros(digitRunRegexp.FindString(rest)), true
		}
	}

	return "", false
}

func isNumeric(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

func stripLeadingZeros(digits string) string {
	if n, err := strconv.ParseInt(digits, 10, 64); err == nil {
		return strconv.FormatInt(n, 10)
	}
	return digits
}

// GetOrCreate resolves a raw group name to its canonical group, creating
// the group on first reference. Lookup is case-insensitive; concurrent
// calls with the same name settle on a single row
func (s *GroupService) GetOrCreate(rawName string) (*models.Group, error) {
	canonical := CanonicalGroupName(rawName)
	if canonical == "" {
		return nil, validationError("name", "group name is required")
	}

	group, err := s.groupRepo.GetOrCreate(canonical, strings.ToLower(canonical))
	if err != nil {
		return nil, fmt.Errorf("failed to get or create group: %w", err)
	}

	return group, nil
}

// Lookup resolves a raw group name without creating anything, returning
// ErrGroupNotFound when no group matches
func (s *GroupService) Lookup(rawName string) (*models.Group, error) {
	canonical := CanonicalGroupName(rawName)
	if canonical == "" {
		return nil, validationError("name", "group name is required")
	}

	group, err := s.groupRepo.GetByNormalizedName(strings.ToLower(canonical))
	if err != nil {
		return nil, fmt.Errorf("failed to look up group: %w", err)
	}
	if group == nil {
		return nil, ErrGroupNotFound
	}

	return group, nil
}
