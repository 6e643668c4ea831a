package services

import (
	"reflect"
	"testing"
)

func TestDiffAssignments_AddAndRemove(t *testing.T) {
	// Team {A=1, B=2} on the project, desired {B=2, C=3}, C lacks the
	// TeamMember role: A removed, B kept, C silently dropped.
	current := []uint{1, 2}
	desired := []uint{2, 3}
	team := []uint{1, 2} // 3 is not a team member

	diff := DiffAssignments(current, desired, team, team)

	if !reflect.DeepEqual(diff.ToRemove, []uint{1}) {
		t.Errorf("ToRemove = %v, expected [1]", diff.ToRemove)
	}
	if len(diff.ToAdd) != 0 {
		t.Errorf("ToAdd = %v, expected empty (ineligible id dropped)", diff.ToAdd)
	}
}

func TestDiffAssignments_Idempotent(t *testing.T) {
	current := []uint{2, 5}
	desired := []uint{2, 5}
	eligible := []uint{1, 2, 5}

	diff := DiffAssignments(current, desired, eligible, eligible)

	if !diff.Empty() {
		t.Errorf("reconciling an already-converged set should be a no-op, got %+v", diff)
	}
}

func TestDiffAssignments_SecondPassIsNoOp(t *testing.T) {
	current := []uint{1, 2}
	desired := []uint{2, 3}
	eligible := []uint{1, 2, 3}

	first := DiffAssignments(current, desired, eligible, eligible)
	if !reflect.DeepEqual(first.ToAdd, []uint{3}) || !reflect.DeepEqual(first.ToRemove, []uint{1}) {
		t.Fatalf("first pass = %+v, expected add [3] remove [1]", first)
	}

	// Simulate applying the first diff, then reconcile again.
	after := []uint{2, 3}
	second := DiffAssignments(after, desired, eligible, eligible)
	if !second.Empty() {
		t.Errorf("second pass should produce zero operations, got %+v", second)
	}
}

func TestDiffAssignments_RoleClassIsolation(t *testing.T) {
	// Project has team members {1, 2} and clients {10, 11}. Reconciling the
	// team to {2} must not remove the client rows.
	current := []uint{1, 2, 10, 11}
	desired := []uint{2}
	team := []uint{1, 2, 3}

	diff := DiffAssignments(current, desired, team, team)

	if !reflect.DeepEqual(diff.ToRemove, []uint{1}) {
		t.Errorf("ToRemove = %v, expected [1]; client rows must be untouched", diff.ToRemove)
	}
	for _, id := range diff.ToRemove {
		if id == 10 || id == 11 {
			t.Errorf("client assignment %d scheduled for removal", id)
		}
	}
	if len(diff.ToAdd) != 0 {
		t.Errorf("ToAdd = %v, expected empty", diff.ToAdd)
	}
}

func TestDiffAssignments_EmptyDesiredClearsOnlyRoleClass(t *testing.T) {
	current := []uint{1, 2, 10}
	team := []uint{1, 2}

	diff := DiffAssignments(current, nil, team, team)

	if !reflect.DeepEqual(diff.ToRemove, []uint{1, 2}) {
		t.Errorf("ToRemove = %v, expected [1 2]", diff.ToRemove)
	}
	if len(diff.ToAdd) != 0 {
		t.Errorf("ToAdd = %v, expected empty", diff.ToAdd)
	}
}

func TestDiffAssignments_MissingRoleYieldsNoChanges(t *testing.T) {
	// TeamMember role absent from the registry: eligible and role-class sets
	// are empty, so nothing is added and no existing row is misclassified.
	current := []uint{1, 2}
	desired := []uint{1, 2, 3}

	diff := DiffAssignments(current, desired, nil, nil)

	if !diff.Empty() {
		t.Errorf("expected no operations with an empty role registry, got %+v", diff)
	}
}

func TestDiffAssignments_DuplicateDesiredIDs(t *testing.T) {
	current := []uint{}
	desired := []uint{4, 4, 4}
	eligible := []uint{4}

	diff := DiffAssignments(current, desired, eligible, eligible)

	if !reflect.DeepEqual(diff.ToAdd, []uint{4}) {
		t.Errorf("ToAdd = %v, expected [4] exactly once", diff.ToAdd)
	}
}

func TestDiffAssignments_SortedOutput(t *testing.T) {
	current := []uint{9, 7, 5}
	desired := []uint{2, 8, 1}
	eligible := []uint{1, 2, 5, 7, 8, 9}

	diff := DiffAssignments(current, desired, eligible, eligible)

	if !reflect.DeepEqual(diff.ToAdd, []uint{1, 2, 8}) {
		t.Errorf("ToAdd = %v, expected sorted [1 2 8]", diff.ToAdd)
	}
	if !reflect.DeepEqual(diff.ToRemove, []uint{5, 7, 9}) {
		t.Errorf("ToRemove = %v, expected sorted [5 7 9]", diff.ToRemove)
	}
}

func TestIntersectIDs(t *testing.T) {
	got := intersectIDs([]uint{1, 2, 3, 4}, []uint{2, 4, 6})
	if !reflect.DeepEqual(got, []uint{2, 4}) {
		t.Errorf("intersectIDs = %v, expected [2 4]", got)
	}

	if got := intersectIDs(nil, []uint{1}); got != nil {
		t.Errorf("intersect with empty left side = %v, expected nil", got)
	}
}
