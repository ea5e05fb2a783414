package recommendations

import "time"

// TypeID is an opaque relationship category code. Consumers own the label mapping.
type TypeID int

const (
	MinTypeID TypeID = 1
	MaxTypeID TypeID = 3
)

// Valid reports whether t is one of the accepted category codes.
func (t TypeID) Valid() bool {
	return t >= MinTypeID && t <= MaxTypeID
}

// Recommendation is a directed link from a product to a related product.
// An active and an inactive row may exist for the same pair.
type Recommendation struct {
	ID               int64     `db:"id"`
	ProductID        int64     `db:"product_id"`
	RelatedProductID int64     `db:"related_product_id"`
	TypeID           TypeID    `db:"type_id"`
	Status           bool      `db:"status"`
	CreatedAt        time.Time `db:"created_at"`
	UpdatedAt        time.Time `db:"updated_at"`
}
