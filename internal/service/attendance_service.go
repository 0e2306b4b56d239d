package service

import (
	"fmt"
	"time"

	"academyroster/internal/models"
	"academyroster/internal/repository"
)

// AttendanceService records timestamped check-in events for scanned codes
type AttendanceService struct {
	identity       *IdentityService
	groupService   *GroupService
	membershipRepo *repository.MembershipRepository
	attendanceRepo *repository.AttendanceRepository
}

// NewAttendanceService creates a new attendance service
func NewAttendanceService(identity *IdentityService, groupService *GroupService,
	membershipRepo *repository.MembershipRepository, attendanceRepo *repository.AttendanceRepository) *AttendanceService {
	return &AttendanceService{
		identity:       identity,
		groupService:   groupService,
		membershipRepo: membershipRepo,
		attendanceRepo: attendanceRepo,
	}
}

// RecordScan resolves a scanned code and writes an attendance event with a
// server-assigned timestamp. The subject's current membership row is
// attached when one matches its group label; absence of a match never
// fails the scan. Scans are deliberately not idempotent: each physical tap
// produces its own event
func (s *AttendanceService) RecordScan(code string, instructorID int64) (*models.AttendanceEvent, error) {
	subject, err := s.identity.Classify(code)
	if err != nil {
		return nil, err
	}

	label := s.currentGroupLabel(subject)

	event := &models.AttendanceEvent{
		OccurredAt:   time.Now().UTC(),
		Subject:      subject.Ref,
		InstructorID: instructorID,
		GroupLabel:   label,
		MembershipID: s.matchMembership(subject.Ref, label),
	}
	if err := s.attendanceRepo.Insert(event); err != nil {
		return nil, fmt.Errorf("failed to record scan: %w", err)
	}

	return event, nil
}

// ListBySubject retrieves all recorded events for a subject
func (s *AttendanceService) ListBySubject(subject models.SubjectRef) ([]models.AttendanceEvent, error) {
	if subject.IsZero() {
		return nil, validationError("subject", "subject reference is required")
	}

	events, err := s.attendanceRepo.ListBySubject(subject)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance events: %w", err)
	}
	return events, nil
}

// currentGroupLabel reads the subject's group label: the dependent's own
// label, or the first entry of the athlete account's legacy group list
func (s *AttendanceService) currentGroupLabel(subject *Subject) string {
	switch subject.Ref.Kind() {
	case models.SubjectDependent:
		return subject.Dependent.GroupLabel
	case models.SubjectAthlete:
		if names := subject.Account.GroupNames(); len(names) > 0 {
			return names[0]
		}
	}
	return ""
}

// matchMembership resolves the membership row for the subject's labelled
// group, best-effort. Any miss along the way just leaves the event's
// membership reference unset
func (s *AttendanceService) matchMembership(subject models.SubjectRef, label string) *int64 {
	if label == "" {
		return nil
	}

	// Storage errors degrade to an unset reference too; the scan itself
	// must still be recorded
	group, err := s.groupService.Lookup(label)
	if err != nil {
		return nil
	}

	id, found, err := s.membershipRepo.FindID(group.ID, subject)
	if err != nil || !found {
		return nil
	}
	return &id
}
