package service

import (
	"testing"

	"academyroster/internal/models"
	"academyroster/internal/repository"
)

func TestAssignIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	groups := NewGroupService(repository.NewGroupRepository(db))
	memberships := NewMembershipService(repository.NewMembershipRepository(db))
	dependents := NewDependentService(repository.NewDependentRepository(db))

	parentID := createParent(t, db, "Elena Pop", "elena@example.test")
	token, err := dependents.Create(parentID, "Ana Pop", "F", nil, "")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	group, err := groups.GetOrCreate("Group 3")
	if err != nil {
		t.Fatalf("GetOrCreate() error = %v", err)
	}

	for i := 0; i < 3; i++ {
		if err := memberships.Assign(group.ID, models.DependentRef(token)); err != nil {
			t.Fatalf("Assign() #%d error = %v", i+1, err)
		}
	}

	if count := countRows(t, db, "memberships"); count != 1 {
		t.Errorf("membership count = %d, want 1", count)
	}
}

func TestUnassignRemovesAllRows(t *testing.T) {
	db := newTestDB(t)
	groups := NewGroupService(repository.NewGroupRepository(db))
	memberships := NewMembershipService(repository.NewMembershipRepository(db))
	membershipRepo := repository.NewMembershipRepository(db)
	dependents := NewDependentService(repository.NewDependentRepository(db))

	parentID := createParent(t, db, "Elena Pop", "elena@example.test")
	token, err := dependents.Create(parentID, "Ana Pop", "F", nil, "")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	group, err := groups.GetOrCreate("Group 3")
	if err != nil {
		t.Fatalf("GetOrCreate() error = %v", err)
	}

	// Duplicate rows inserted behind the service's back
	subject := models.DependentRef(token)
	for i := 0; i < 2; i++ {
		if _, err := membershipRepo.Insert(group.ID, subject); err != nil {
			t.Fatalf("Insert() error = %v", err)
		}
	}

	if err := memberships.Unassign(group.ID, subject); err != nil {
		t.Fatalf("Unassign() error = %v", err)
	}

	if count := countRows(t, db, "memberships"); count != 0 {
		t.Errorf("membership count after unassign = %d, want 0", count)
	}

	members, err := memberships.ListMembers(group.ID)
	if err != nil {
		t.Fatalf("ListMembers() error = %v", err)
	}
	if len(members) != 0 {
		t.Errorf("members after unassign = %d, want 0", len(members))
	}
}

func TestListMembersOrdering(t *testing.T) {
	db := newTestDB(t)
	groups := NewGroupService(repository.NewGroupRepository(db))
	memberships := NewMembershipService(repository.NewMembershipRepository(db))
	dependents := NewDependentService(repository.NewDependentRepository(db))

	group, err := groups.GetOrCreate("Advanced Tumbling")
	if err != nil {
		t.Fatalf("GetOrCreate() error = %v", err)
	}

	// Dependents surface their owning parent's name on the roster
	zoeParent := createParent(t, db, "Zoe Vasile", "zoe@example.test")
	annaParent := createParent(t, db, "anna Dima", "anna@example.test")
	zoeToken, err := dependents.Create(zoeParent, "Vlad Vasile", "M", nil, "")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	annaToken, err := dependents.Create(annaParent, "Maria Dima", "F", nil, "")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	athleteID := createAccount(t, db, &models.Account{
		DisplayName: "Ben Ionescu",
		Role:        models.RoleAthlete,
	})

	for _, subject := range []models.SubjectRef{
		models.DependentRef(zoeToken),
		models.AthleteRef(athleteID),
		models.DependentRef(annaToken),
	} {
		if err := memberships.Assign(group.ID, subject); err != nil {
			t.Fatalf("Assign() error = %v", err)
		}
	}

	members, err := memberships.ListMembers(group.ID)
	if err != nil {
		t.Fatalf("ListMembers() error = %v", err)
	}
	if len(members) != 3 {
		t.Fatalf("member count = %d, want 3", len(members))
	}

	// Case-insensitive by display name: anna Dima, Ben Ionescu (athlete),
	// Zoe Vasile
	wantNames := []string{"anna Dima", "Ben Ionescu (athlete)", "Zoe Vasile"}
	for i, want := range wantNames {
		if members[i].DisplayName != want {
			t.Errorf("members[%d].DisplayName = %q, want %q", i, members[i].DisplayName, want)
		}
	}
	if members[1].Kind != models.SubjectAthlete {
		t.Errorf("members[1].Kind = %v, want athlete", members[1].Kind)
	}
}

func TestDeduplicateKeepsLowestID(t *testing.T) {
	db := newTestDB(t)
	groups := NewGroupService(repository.NewGroupRepository(db))
	memberships := NewMembershipService(repository.NewMembershipRepository(db))
	membershipRepo := repository.NewMembershipRepository(db)
	dependents := NewDependentService(repository.NewDependentRepository(db))

	parentID := createParent(t, db, "Elena Pop", "elena@example.test")
	token, err := dependents.Create(parentID, "Ana Pop", "F", nil, "")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	athleteID := createAccount(t, db, &models.Account{
		DisplayName: "Radu Marin",
		Role:        models.RoleAthlete,
	})
	group, err := groups.GetOrCreate("Group 3")
	if err != nil {
		t.Fatalf("GetOrCreate() error = %v", err)
	}

	dependentSubject := models.DependentRef(token)
	athleteSubject := models.AthleteRef(athleteID)

	firstID, err := membershipRepo.Insert(group.ID, dependentSubject)
	if err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	for i := 0; i < 2; i++ {
		if _, err := membershipRepo.Insert(group.ID, dependentSubject); err != nil {
			t.Fatalf("Insert() error = %v", err)
		}
	}
	// A single athlete row in the same group must survive the sweep
	if _, err := membershipRepo.Insert(group.ID, athleteSubject); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	removed, err := memberships.Deduplicate()
	if err != nil {
		t.Fatalf("Deduplicate() error = %v", err)
	}
	if removed != 2 {
		t.Errorf("removed = %d, want 2", removed)
	}
	if count := countRows(t, db, "memberships"); count != 2 {
		t.Errorf("membership count = %d, want 2", count)
	}

	keptID, found, err := membershipRepo.FindID(group.ID, dependentSubject)
	if err != nil {
		t.Fatalf("FindID() error = %v", err)
	}
	if !found || keptID != firstID {
		t.Errorf("surviving row id = %d (found=%v), want %d", keptID, found, firstID)
	}

	// Second sweep is a no-op
	removed, err = memberships.Deduplicate()
	if err != nil {
		t.Fatalf("Deduplicate() error = %v", err)
	}
	if removed != 0 {
		t.Errorf("second sweep removed = %d, want 0", removed)
	}
}

func TestListGroupsForSubject(t *testing.T) {
	db := newTestDB(t)
	groups := NewGroupService(repository.NewGroupRepository(db))
	memberships := NewMembershipService(repository.NewMembershipRepository(db))
	dependents := NewDependentService(repository.NewDependentRepository(db))

	parentID := createParent(t, db, "Elena Pop", "elena@example.test")
	token, err := dependents.Create(parentID, "Ana Pop", "F", nil, "")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	subject := models.DependentRef(token)

	for _, name := range []string{"Group 3", "Advanced Tumbling"} {
		group, err := groups.GetOrCreate(name)
		if err != nil {
			t.Fatalf("GetOrCreate(%q) error = %v", name, err)
		}
		if err := memberships.Assign(group.ID, subject); err != nil {
			t.Fatalf("Assign() error = %v", err)
		}
	}

	subjectGroups, err := memberships.ListGroupsForSubject(subject)
	if err != nil {
		t.Fatalf("ListGroupsForSubject() error = %v", err)
	}
	if len(subjectGroups) != 2 {
		t.Fatalf("group count = %d, want 2", len(subjectGroups))
	}
	if subjectGroups[0].Name != "Advanced Tumbling" || subjectGroups[1].Name != "Group 3" {
		t.Errorf("groups = [%q, %q], want [Advanced Tumbling, Group 3]",
			subjectGroups[0].Name, subjectGroups[1].Name)
	}
}
