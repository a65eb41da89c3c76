package tabular_test

import (
	"testing"

	"gamedex/internal/tabular"
)

type row struct {
	ID    int
	Value string
}

func keys(rows []row) []int {
	ids := make([]int, len(rows))
	for i, r := range rows {
		ids[i] = r.ID
	}
	return ids
}

func TestUpsertReplacesByKeyAndAppendsNew(t *testing.T) {
	persisted := []row{{1, "old"}, {2, "old"}, {3, "old"}}
	fresh := []row{{2, "new"}, {3, "new"}, {4, "new"}}

	merged := tabular.Upsert(persisted, fresh, func(r row) int { return r.ID })

	wantIDs := []int{1, 2, 3, 4}
	gotIDs := keys(merged)
	if len(gotIDs) != len(wantIDs) {
		t.Fatalf("merged ids = %v, want %v", gotIDs, wantIDs)
	}
	for i := range wantIDs {
		if gotIDs[i] != wantIDs[i] {
			t.Fatalf("merged ids = %v, want %v", gotIDs, wantIDs)
		}
	}

	for _, r := range merged {
		want := "new"
		if r.ID == 1 {
			want = "old"
		}
		if r.Value != want {
			t.Fatalf("row %d has value %q, want %q", r.ID, r.Value, want)
		}
	}
}

func TestUpsertIdempotent(t *testing.T) {
	persisted := []row{{1, "a"}, {2, "b"}}
	fresh := []row{{2, "b2"}}

	once := tabular.Upsert(persisted, fresh, func(r row) int { return r.ID })
	twice := tabular.Upsert(once, fresh, func(r row) int { return r.ID })

	if len(once) != len(twice) {
		t.Fatalf("repeated upsert changed row count: %d vs %d", len(once), len(twice))
	}
	for i := range once {
		if once[i] != twice[i] {
			t.Fatalf("repeated upsert changed row %d: %+v vs %+v", i, once[i], twice[i])
		}
	}
}

func TestUpsertEmptyInputs(t *testing.T) {
	fresh := []row{{1, "a"}}
	if got := tabular.Upsert(nil, fresh, func(r row) int { return r.ID }); len(got) != 1 {
		t.Fatalf("upsert into empty table = %v, want the fresh row", got)
	}
	persisted := []row{{1, "a"}}
	if got := tabular.Upsert(persisted, nil, func(r row) int { return r.ID }); len(got) != 1 || got[0] != persisted[0] {
		t.Fatalf("upsert of empty batch = %v, want persisted unchanged", got)
	}
}
