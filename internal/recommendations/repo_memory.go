package recommendations

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu     sync.RWMutex
	nextID int64
	rows   []Recommendation
	now    func() time.Time
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{now: func() time.Time { return time.Now().UTC() }}
}

// Insert stores a new row and assigns its ID.
func (r *MemoryRepo) Insert(ctx context.Context, rec *Recommendation) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.ProductID == rec.ProductID && row.RelatedProductID == rec.RelatedProductID && row.Status == rec.Status {
			return fmt.Errorf("%w: product %d already has related product %d with status %t",
				ErrDuplicate, rec.ProductID, rec.RelatedProductID, rec.Status)
		}
	}
	r.nextID++
	now := r.now()
	rec.ID = r.nextID
	rec.CreatedAt = now
	rec.UpdatedAt = now
	r.rows = append(r.rows, *rec)
	return nil
}

// Save persists the type and status of an existing row.
func (r *MemoryRepo) Save(ctx context.Context, rec Recommendation) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	idx := -1
	for i := range r.rows {
		if r.rows[i].ID == rec.ID {
			idx = i
			continue
		}
		row := r.rows[i]
		if row.ProductID == rec.ProductID && row.RelatedProductID == rec.RelatedProductID && row.Status == rec.Status {
			return fmt.Errorf("%w: product %d already has related product %d with status %t",
				ErrDuplicate, rec.ProductID, rec.RelatedProductID, rec.Status)
		}
	}
	if idx < 0 {
		return ErrNotFound
	}
	r.rows[idx].TypeID = rec.TypeID
	r.rows[idx].Status = rec.Status
	r.rows[idx].UpdatedAt = r.now()
	return nil
}

// Delete removes a row by ID. Missing rows are ignored.
func (r *MemoryRepo) Delete(ctx context.Context, rec Recommendation) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.rows {
		if r.rows[i].ID == rec.ID {
			r.rows = append(r.rows[:i], r.rows[i+1:]...)
			return nil
		}
	}
	return nil
}

// DeleteMatching removes every row matching f.
func (r *MemoryRepo) DeleteMatching(ctx context.Context, f Filter) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if f.Empty() {
		return 0, fmt.Errorf("%w: refusing to delete without a filter", ErrInvalidInput)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.rows[:0]
	var removed int64
	for _, row := range r.rows {
		if f.Matches(row) {
			removed++
			continue
		}
		kept = append(kept, row)
	}
	r.rows = kept
	return removed, nil
}

// All returns every row ordered by product, related product and ID.
func (r *MemoryRepo) All(ctx context.Context) ([]Recommendation, error) {
	return r.Find(ctx, Filter{})
}

// Find returns the rows matching f ordered by product, related product and ID.
func (r *MemoryRepo) Find(ctx context.Context, f Filter) ([]Recommendation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	out := make([]Recommendation, 0, len(r.rows))
	for _, row := range r.rows {
		if f.Matches(row) {
			out = append(out, row)
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].ProductID != out[j].ProductID {
			return out[i].ProductID < out[j].ProductID
		}
		if out[i].RelatedProductID != out[j].RelatedProductID {
			return out[i].RelatedProductID < out[j].RelatedProductID
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// ExistsAnywhere reports whether productID is on either side of a row with status.
func (r *MemoryRepo) ExistsAnywhere(ctx context.Context, productID int64, status bool) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, row := range r.rows {
		if row.Status != status {
			continue
		}
		if row.ProductID == productID || row.RelatedProductID == productID {
			return true, nil
		}
	}
	return false, nil
}
