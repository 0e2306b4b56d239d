package service

import (
	"errors"
	"testing"
	"time"

	"academyroster/internal/database"
	"academyroster/internal/models"
	"academyroster/internal/repository"
)

func newAttendanceService(db *database.DB) *AttendanceService {
	identity := NewIdentityService(
		repository.NewAccountRepository(db),
		repository.NewDependentRepository(db),
	)
	return NewAttendanceService(
		identity,
		NewGroupService(repository.NewGroupRepository(db)),
		repository.NewMembershipRepository(db),
		repository.NewAttendanceRepository(db),
	)
}

func TestRecordScanUnknownCode(t *testing.T) {
	db := newTestDB(t)
	attendance := newAttendanceService(db)
	instructorID := createAccount(t, db, &models.Account{
		DisplayName: "Coach Dinu",
		Role:        models.RoleInstructor,
	})

	if _, err := attendance.RecordScan("deadbeef", instructorID); !errors.Is(err, ErrSubjectNotFound) {
		t.Errorf("RecordScan(unknown) error = %v, want ErrSubjectNotFound", err)
	}

	if count := countRows(t, db, "attendance_events"); count != 0 {
		t.Errorf("attendance event count = %d, want 0", count)
	}
}

func TestRecordScanDependent(t *testing.T) {
	db := newTestDB(t)
	attendance := newAttendanceService(db)
	groups := NewGroupService(repository.NewGroupRepository(db))
	memberships := NewMembershipService(repository.NewMembershipRepository(db))
	dependents := NewDependentService(repository.NewDependentRepository(db))

	instructorID := createAccount(t, db, &models.Account{
		DisplayName: "Coach Dinu",
		Role:        models.RoleInstructor,
	})
	parentID := createParent(t, db, "Elena Pop", "elena@example.test")
	token, err := dependents.Create(parentID, "Ana Pop", "F", nil, "Group 3")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	group, err := groups.GetOrCreate("Group 3")
	if err != nil {
		t.Fatalf("GetOrCreate() error = %v", err)
	}
	if err := memberships.Assign(group.ID, models.DependentRef(token)); err != nil {
		t.Fatalf("Assign() error = %v", err)
	}

	before := time.Now().UTC()
	event, err := attendance.RecordScan(token, instructorID)
	if err != nil {
		t.Fatalf("RecordScan() error = %v", err)
	}

	if event.Subject.Kind() != models.SubjectDependent || event.Subject.DependentToken() != token {
		t.Errorf("event subject = %+v, want dependent %s", event.Subject, token)
	}
	if event.InstructorID != instructorID {
		t.Errorf("instructor id = %d, want %d", event.InstructorID, instructorID)
	}
	if event.GroupLabel != "Group 3" {
		t.Errorf("group label = %q, want %q", event.GroupLabel, "Group 3")
	}
	if event.MembershipID == nil {
		t.Error("membership reference not attached")
	}
	if event.OccurredAt.Before(before) || event.OccurredAt.After(time.Now().UTC()) {
		t.Errorf("occurred at = %v, outside scan window", event.OccurredAt)
	}
}

func TestRecordScanWithoutMembership(t *testing.T) {
	db := newTestDB(t)
	attendance := newAttendanceService(db)
	dependents := NewDependentService(repository.NewDependentRepository(db))

	instructorID := createAccount(t, db, &models.Account{
		DisplayName: "Coach Dinu",
		Role:        models.RoleInstructor,
	})
	parentID := createParent(t, db, "Elena Pop", "elena@example.test")

	// The label names a group nobody created; the scan still lands
	token, err := dependents.Create(parentID, "Ana Pop", "F", nil, "Ghost Group")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	event, err := attendance.RecordScan(token, instructorID)
	if err != nil {
		t.Fatalf("RecordScan() error = %v", err)
	}
	if event.MembershipID != nil {
		t.Errorf("membership reference = %v, want unset", *event.MembershipID)
	}
	if event.GroupLabel != "Ghost Group" {
		t.Errorf("group label = %q, want %q", event.GroupLabel, "Ghost Group")
	}
}

func TestRecordScanAthlete(t *testing.T) {
	db := newTestDB(t)
	attendance := newAttendanceService(db)

	instructorID := createAccount(t, db, &models.Account{
		DisplayName: "Coach Dinu",
		Role:        models.RoleInstructor,
	})
	athleteID := createAccount(t, db, &models.Account{
		DisplayName: "Radu Marin",
		Role:        models.RoleAthlete,
		GroupsText:  "Group 3, Advanced Tumbling",
	})

	event, err := attendance.RecordScan(models.AthleteRef(athleteID).Key(), instructorID)
	if err != nil {
		t.Fatalf("RecordScan() error = %v", err)
	}
	if event.Subject.Kind() != models.SubjectAthlete || event.Subject.AthleteAccountID() != athleteID {
		t.Errorf("event subject = %+v, want athlete %d", event.Subject, athleteID)
	}
	if event.GroupLabel != "Group 3" {
		t.Errorf("group label = %q, want first listed group", event.GroupLabel)
	}
}

func TestRecordScanNotIdempotent(t *testing.T) {
	db := newTestDB(t)
	attendance := newAttendanceService(db)
	dependents := NewDependentService(repository.NewDependentRepository(db))

	instructorID := createAccount(t, db, &models.Account{
		DisplayName: "Coach Dinu",
		Role:        models.RoleInstructor,
	})
	parentID := createParent(t, db, "Elena Pop", "elena@example.test")
	token, err := dependents.Create(parentID, "Ana Pop", "F", nil, "")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	for i := 0; i < 3; i++ {
		if _, err := attendance.RecordScan(token, instructorID); err != nil {
			t.Fatalf("RecordScan() #%d error = %v", i+1, err)
		}
	}

	events, err := attendance.ListBySubject(models.DependentRef(token))
	if err != nil {
		t.Fatalf("ListBySubject() error = %v", err)
	}
	if len(events) != 3 {
		t.Errorf("event count = %d, want 3", len(events))
	}
}
