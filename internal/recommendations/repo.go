package recommendations

import "context"

// Repo defines persistence operations for recommendations.
//
// Insert does not look for the same pair with another status; that check
// belongs to the service. A row identical in (product, related, status)
// is rejected with ErrDuplicate.
type Repo interface {
	Insert(ctx context.Context, rec *Recommendation) error
	Save(ctx context.Context, rec Recommendation) error
	Delete(ctx context.Context, rec Recommendation) error
	DeleteMatching(ctx context.Context, f Filter) (int64, error)
	All(ctx context.Context) ([]Recommendation, error)
	Find(ctx context.Context, f Filter) ([]Recommendation, error)
	ExistsAnywhere(ctx context.Context, productID int64, status bool) (bool, error)
}
