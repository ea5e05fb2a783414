package recommendations

// RelationGroup lists the related products of one category split by status.
type RelationGroup struct {
	RelationID  TypeID  `json:"relation_id"`
	IDs         []int64 `json:"ids"`
	InactiveIDs []int64 `json:"inactive_ids"`
}

// ActiveRelationGroup lists the active related products of one category.
type ActiveRelationGroup struct {
	RelationID TypeID  `json:"relation_id"`
	IDs        []int64 `json:"ids"`
}

// TypeListing holds parallel arrays of related ids and their statuses.
type TypeListing struct {
	IDs    []int64 `json:"ids"`
	Status []bool  `json:"status"`
}

// bucketOf maps a stored type code to one of the three groups.
// Unknown codes land in the last group.
func bucketOf(t TypeID) int {
	switch t {
	case 1:
		return 0
	case 2:
		return 1
	default:
		return 2
	}
}

// GroupByType partitions rows into the three category groups, each split into
// active and inactive related ids.
func GroupByType(rows []Recommendation) []RelationGroup {
	groups := make([]RelationGroup, int(MaxTypeID))
	for i := range groups {
		groups[i] = RelationGroup{
			RelationID:  TypeID(i + 1),
			IDs:         []int64{},
			InactiveIDs: []int64{},
		}
	}
	for _, row := range rows {
		g := &groups[bucketOf(row.TypeID)]
		if row.Status {
			g.IDs = append(g.IDs, row.RelatedProductID)
		} else {
			g.InactiveIDs = append(g.InactiveIDs, row.RelatedProductID)
		}
	}
	return groups
}

// GroupActiveByType partitions active rows into the three category groups.
// Inactive rows are skipped.
func GroupActiveByType(rows []Recommendation) []ActiveRelationGroup {
	groups := make([]ActiveRelationGroup, int(MaxTypeID))
	for i := range groups {
		groups[i] = ActiveRelationGroup{RelationID: TypeID(i + 1), IDs: []int64{}}
	}
	for _, row := range rows {
		if !row.Status {
			continue
		}
		g := &groups[bucketOf(row.TypeID)]
		g.IDs = append(g.IDs, row.RelatedProductID)
	}
	return groups
}

// ListByType flattens rows into a TypeListing, preserving order.
func ListByType(rows []Recommendation) TypeListing {
	out := TypeListing{
		IDs:    make([]int64, 0, len(rows)),
		Status: make([]bool, 0, len(rows)),
	}
	for _, row := range rows {
		out.IDs = append(out.IDs, row.RelatedProductID)
		out.Status = append(out.Status, row.Status)
	}
	return out
}
