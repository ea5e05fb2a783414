package recommendations

import (
	"context"
	"errors"
	"fmt"

	"recommendations-backend/internal/shared/metrics"
	"recommendations-backend/internal/shared/telemetry"
)

// Input carries the writable fields of a recommendation.
type Input struct {
	ProductID        int64
	RelatedProductID int64
	TypeID           TypeID
	Status           bool
}

// Service contains business logic for recommendations.
type Service struct {
	Repo Repo
}

// NewService constructs a Service over repo.
func NewService(repo Repo) *Service {
	return &Service{Repo: repo}
}

// List returns every stored recommendation.
func (s *Service) List(ctx context.Context) ([]Recommendation, error) {
	return s.Repo.All(ctx)
}

// Get returns the recommendation for a pair, preferring the active row.
func (s *Service) Get(ctx context.Context, productID, relatedProductID int64) (Recommendation, error) {
	rec, ok, err := s.findPair(ctx, productID, relatedProductID)
	if err != nil {
		return Recommendation{}, err
	}
	if !ok {
		return Recommendation{}, fmt.Errorf("%w: recommendation for product %d with related product %d",
			ErrNotFound, productID, relatedProductID)
	}
	return rec, nil
}

// Related groups every recommendation of productID by category.
func (s *Service) Related(ctx context.Context, productID int64) ([]RelationGroup, error) {
	rows, err := s.Repo.Find(ctx, ByProduct(productID))
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: product %d has no recommendations", ErrNotFound, productID)
	}
	return GroupByType(rows), nil
}

// ActiveRelated groups the active recommendations of productID by category.
func (s *Service) ActiveRelated(ctx context.Context, productID int64) ([]ActiveRelationGroup, error) {
	rows, err := s.Repo.Find(ctx, ByProduct(productID).WithStatus(true))
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: product %d has no active recommendations", ErrNotFound, productID)
	}
	return GroupActiveByType(rows), nil
}

// RelatedByType lists the recommendations of productID in one category.
func (s *Service) RelatedByType(ctx context.Context, productID int64, typeID TypeID) (TypeListing, error) {
	rows, err := s.Repo.Find(ctx, ByProduct(productID).WithType(typeID))
	if err != nil {
		return TypeListing{}, err
	}
	if len(rows) == 0 {
		return TypeListing{}, fmt.Errorf("%w: product %d has no type %d recommendations", ErrNotFound, productID, typeID)
	}
	return ListByType(rows), nil
}

// Relationship looks up the active link between two free-form product ids.
// found is false when either product is unknown among active rows or the pair
// has no active link.
func (s *Service) Relationship(ctx context.Context, rawProduct, rawRelated string) (Recommendation, bool, error) {
	productID, errP := ParseID(rawProduct)
	relatedID, errR := ParseID(rawRelated)
	if errP != nil || errR != nil {
		return Recommendation{}, false, fmt.Errorf("%w: invalid product ids provided, received product %q and related product %q",
			ErrInvalidInput, rawProduct, rawRelated)
	}

	for _, id := range []int64{productID, relatedID} {
		exists, err := s.Repo.ExistsAnywhere(ctx, id, true)
		if err != nil {
			return Recommendation{}, false, err
		}
		if !exists {
			return Recommendation{}, false, nil
		}
	}

	rows, err := s.Repo.Find(ctx, ByKey(productID, relatedID).WithStatus(true))
	if err != nil {
		return Recommendation{}, false, err
	}
	if len(rows) == 0 {
		return Recommendation{}, false, nil
	}
	return rows[0], true, nil
}

// Create inserts a recommendation unless the pair already exists with any status.
func (s *Service) Create(ctx context.Context, in Input) (Recommendation, error) {
	rec, err := s.create(ctx, in)
	s.record("create", in.ProductID, in.RelatedProductID, err)
	return rec, err
}

func (s *Service) create(ctx context.Context, in Input) (Recommendation, error) {
	if !in.TypeID.Valid() {
		return Recommendation{}, fmt.Errorf("%w: type-id must be one of 1, 2, 3", ErrInvalidInput)
	}
	_, exists, err := s.findPair(ctx, in.ProductID, in.RelatedProductID)
	if err != nil {
		return Recommendation{}, err
	}
	if exists {
		return Recommendation{}, fmt.Errorf("%w: recommendation with product id %d and related product id %d",
			ErrDuplicate, in.ProductID, in.RelatedProductID)
	}

	rec := Recommendation{
		ProductID:        in.ProductID,
		RelatedProductID: in.RelatedProductID,
		TypeID:           in.TypeID,
		Status:           in.Status,
	}
	if err := s.Repo.Insert(ctx, &rec); err != nil {
		return Recommendation{}, err
	}
	return rec, nil
}

// Update replaces the category and status of an existing pair.
func (s *Service) Update(ctx context.Context, in Input) (Recommendation, error) {
	rec, err := s.update(ctx, in)
	s.record("update", in.ProductID, in.RelatedProductID, err)
	return rec, err
}

func (s *Service) update(ctx context.Context, in Input) (Recommendation, error) {
	if !in.TypeID.Valid() {
		return Recommendation{}, fmt.Errorf("%w: type-id must be one of 1, 2, 3", ErrInvalidInput)
	}
	rec, ok, err := s.findPair(ctx, in.ProductID, in.RelatedProductID)
	if err != nil {
		return Recommendation{}, err
	}
	if !ok {
		return Recommendation{}, fmt.Errorf("%w: recommendation does not exist, create it with POST instead", ErrNotFound)
	}

	rec.TypeID = in.TypeID
	rec.Status = in.Status
	if err := s.Repo.Save(ctx, rec); err != nil {
		return Recommendation{}, err
	}
	return rec, nil
}

// Toggle flips the status of a pair and returns the persisted row.
func (s *Service) Toggle(ctx context.Context, productID, relatedProductID int64) (Recommendation, error) {
	rec, err := s.toggle(ctx, productID, relatedProductID)
	s.record("toggle", productID, relatedProductID, err)
	return rec, err
}

func (s *Service) toggle(ctx context.Context, productID, relatedProductID int64) (Recommendation, error) {
	rec, ok, err := s.findPair(ctx, productID, relatedProductID)
	if err != nil {
		return Recommendation{}, err
	}
	if !ok {
		return Recommendation{}, fmt.Errorf("%w: recommendation does not exist", ErrNotFound)
	}
	rec.Status = !rec.Status
	if err := s.Repo.Save(ctx, rec); err != nil {
		return Recommendation{}, err
	}
	return rec, nil
}

// DeleteFiltered removes the recommendations of productID matching the raw
// type_id and/or status query values. At least one must be non-empty.
func (s *Service) DeleteFiltered(ctx context.Context, productID int64, rawType, rawStatus string) (int64, error) {
	n, err := s.deleteFiltered(ctx, productID, rawType, rawStatus)
	s.record("delete_filtered", productID, 0, err)
	return n, err
}

func (s *Service) deleteFiltered(ctx context.Context, productID int64, rawType, rawStatus string) (int64, error) {
	if rawType == "" && rawStatus == "" {
		return 0, fmt.Errorf("%w: must provide at least one of type_id or status", ErrInvalidInput)
	}
	f := ByProduct(productID)
	if rawType != "" {
		t, err := ParseTypeID(rawType)
		if err != nil {
			return 0, err
		}
		f = f.WithType(t)
	}
	if rawStatus != "" {
		st, err := ParseStatus(rawStatus)
		if err != nil {
			return 0, err
		}
		f = f.WithStatus(st)
	}
	return s.Repo.DeleteMatching(ctx, f)
}

// DeleteAllForProduct removes every recommendation of productID.
func (s *Service) DeleteAllForProduct(ctx context.Context, productID int64) (int64, error) {
	n, err := s.Repo.DeleteMatching(ctx, ByProduct(productID))
	s.record("delete_all", productID, 0, err)
	return n, err
}

// DeletePair removes both the active and inactive rows of a pair, if any.
func (s *Service) DeletePair(ctx context.Context, productID, relatedProductID int64) (int64, error) {
	n, err := s.deletePair(ctx, productID, relatedProductID)
	s.record("delete", productID, relatedProductID, err)
	return n, err
}

func (s *Service) deletePair(ctx context.Context, productID, relatedProductID int64) (int64, error) {
	rows, err := s.Repo.Find(ctx, ByKey(productID, relatedProductID))
	if err != nil {
		return 0, err
	}
	var n int64
	for _, row := range rows {
		if err := s.Repo.Delete(ctx, row); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

// findPair returns the active row for a pair, falling back to the inactive one.
func (s *Service) findPair(ctx context.Context, productID, relatedProductID int64) (Recommendation, bool, error) {
	for _, status := range []bool{true, false} {
		rows, err := s.Repo.Find(ctx, ByKey(productID, relatedProductID).WithStatus(status))
		if err != nil {
			return Recommendation{}, false, err
		}
		if len(rows) > 0 {
			return rows[0], true, nil
		}
	}
	return Recommendation{}, false, nil
}

func (s *Service) record(op string, productID, relatedProductID int64, err error) {
	fields := map[string]any{
		"op":         op,
		"product_id": productID,
	}
	if relatedProductID != 0 {
		fields["related_product_id"] = relatedProductID
	}
	switch {
	case err == nil:
		metrics.IncMutation(op, metrics.OutcomeOK)
		telemetry.Info("recommendation.mutated", fields)
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrDuplicate), errors.Is(err, ErrNotFound):
		metrics.IncMutation(op, metrics.OutcomeRejected)
		fields["reason"] = err.Error()
		telemetry.Warn("recommendation.rejected", fields)
	default:
		metrics.IncMutation(op, metrics.OutcomeError)
		fields["error"] = err
		telemetry.Error("recommendation.failed", fields)
	}
}
