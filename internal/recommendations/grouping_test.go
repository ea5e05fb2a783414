package recommendations

import (
	"encoding/json"
	"testing"
)

func TestGroupByTypePartitionsRows(t *testing.T) {
	rows := []Recommendation{
		{ProductID: 1, RelatedProductID: 2, TypeID: 1, Status: true},
		{ProductID: 1, RelatedProductID: 3, TypeID: 1, Status: false},
		{ProductID: 1, RelatedProductID: 4, TypeID: 2, Status: true},
		{ProductID: 1, RelatedProductID: 5, TypeID: 3, Status: false},
		{ProductID: 1, RelatedProductID: 6, TypeID: 9, Status: true},
	}

	groups := GroupByType(rows)
	if len(groups) != 3 {
		t.Fatalf("expected 3 groups, got %d", len(groups))
	}

	seen := map[int64]int{}
	for i, g := range groups {
		if g.RelationID != TypeID(i+1) {
			t.Fatalf("group %d has relation id %d", i, g.RelationID)
		}
		for _, id := range append(append([]int64{}, g.IDs...), g.InactiveIDs...) {
			seen[id]++
		}
	}
	if len(seen) != len(rows) {
		t.Fatalf("expected every row once, got %v", seen)
	}
	for id, n := range seen {
		if n != 1 {
			t.Fatalf("id %d counted %d times", id, n)
		}
	}

	if got := groups[2].IDs; len(got) != 1 || got[0] != 6 {
		t.Fatalf("unknown type codes should land in the last group, got %v", got)
	}
	if got := groups[0].InactiveIDs; len(got) != 1 || got[0] != 3 {
		t.Fatalf("unexpected inactive ids %v", got)
	}
}

func TestGroupActiveByTypeSkipsInactive(t *testing.T) {
	rows := []Recommendation{
		{RelatedProductID: 2, TypeID: 1, Status: true},
		{RelatedProductID: 3, TypeID: 2, Status: false},
	}
	groups := GroupActiveByType(rows)
	if len(groups[0].IDs) != 1 || len(groups[1].IDs) != 0 || len(groups[2].IDs) != 0 {
		t.Fatalf("unexpected groups %+v", groups)
	}
}

func TestGroupsEncodeEmptyArrays(t *testing.T) {
	b, err := json.Marshal(GroupByType(nil))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `[{"relation_id":1,"ids":[],"inactive_ids":[]},{"relation_id":2,"ids":[],"inactive_ids":[]},{"relation_id":3,"ids":[],"inactive_ids":[]}]`
	if string(b) != want {
		t.Fatalf("unexpected json %s", b)
	}
}

func TestListByTypeKeepsArraysParallel(t *testing.T) {
	listing := ListByType([]Recommendation{
		{RelatedProductID: 7, Status: true},
		{RelatedProductID: 8, Status: false},
	})
	if len(listing.IDs) != 2 || listing.IDs[1] != 8 || listing.Status[1] {
		t.Fatalf("unexpected listing %+v", listing)
	}
}
