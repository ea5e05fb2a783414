package recommendations

// Filter selects recommendations; every non-nil field must match.
type Filter struct {
	ProductID        *int64
	RelatedProductID *int64
	TypeID           *TypeID
	Status           *bool
}

// ByProduct matches every row whose source product is productID.
func ByProduct(productID int64) Filter {
	return Filter{ProductID: &productID}
}

// ByKey matches rows for one product pair, in either status.
func ByKey(productID, relatedProductID int64) Filter {
	return Filter{ProductID: &productID, RelatedProductID: &relatedProductID}
}

// WithType narrows f to a category code.
func (f Filter) WithType(typeID TypeID) Filter {
	f.TypeID = &typeID
	return f
}

// WithStatus narrows f to active (true) or inactive (false) rows.
func (f Filter) WithStatus(status bool) Filter {
	f.Status = &status
	return f
}

// Empty reports whether f has no predicates.
func (f Filter) Empty() bool {
	return f.ProductID == nil && f.RelatedProductID == nil && f.TypeID == nil && f.Status == nil
}

// Matches evaluates f against a single row.
func (f Filter) Matches(rec Recommendation) bool {
	if f.ProductID != nil && rec.ProductID != *f.ProductID {
		return false
	}
	if f.RelatedProductID != nil && rec.RelatedProductID != *f.RelatedProductID {
		return false
	}
	if f.TypeID != nil && rec.TypeID != *f.TypeID {
		return false
	}
	if f.Status != nil && rec.Status != *f.Status {
		return false
	}
	return true
}
