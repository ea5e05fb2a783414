package recommendations

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

type gormRecommendation struct {
	ID               int64 `gorm:"primaryKey;autoIncrement"`
	ProductID        int64 `gorm:"not null;uniqueIndex:idx_recommendations_pair_status,priority:1"`
	RelatedProductID int64 `gorm:"not null;uniqueIndex:idx_recommendations_pair_status,priority:2;index:idx_recommendations_related_status,priority:1"`
	TypeID           int   `gorm:"not null"`
	Status           bool  `gorm:"not null;uniqueIndex:idx_recommendations_pair_status,priority:3;index:idx_recommendations_related_status,priority:2"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (gormRecommendation) TableName() string { return tableName }

func (g gormRecommendation) toModel() Recommendation {
	return Recommendation{
		ID:               g.ID,
		ProductID:        g.ProductID,
		RelatedProductID: g.RelatedProductID,
		TypeID:           TypeID(g.TypeID),
		Status:           g.Status,
		CreatedAt:        g.CreatedAt,
		UpdatedAt:        g.UpdatedAt,
	}
}

// GormRepo implements Repo on an embedded SQLite database through gorm.
type GormRepo struct {
	DB *gorm.DB
}

// NewGormRepo constructs a GormRepo.
func NewGormRepo(db *gorm.DB) *GormRepo {
	return &GormRepo{DB: db}
}

// AutoMigrate creates or updates the recommendations table.
func (r *GormRepo) AutoMigrate(ctx context.Context) error {
	return r.DB.WithContext(ctx).AutoMigrate(&gormRecommendation{})
}

// Insert writes a new row and fills in ID and timestamps.
func (r *GormRepo) Insert(ctx context.Context, rec *Recommendation) error {
	row := gormRecommendation{
		ProductID:        rec.ProductID,
		RelatedProductID: rec.RelatedProductID,
		TypeID:           int(rec.TypeID),
		Status:           rec.Status,
	}
	if err := r.DB.WithContext(ctx).Create(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%w: product %d already has related product %d with status %t",
				ErrDuplicate, rec.ProductID, rec.RelatedProductID, rec.Status)
		}
		return fmt.Errorf("insert recommendation: %w", err)
	}
	rec.ID = row.ID
	rec.CreatedAt = row.CreatedAt
	rec.UpdatedAt = row.UpdatedAt
	return nil
}

// Save persists the type and status of an existing row.
func (r *GormRepo) Save(ctx context.Context, rec Recommendation) error {
	res := r.DB.WithContext(ctx).
		Model(&gormRecommendation{ID: rec.ID}).
		Updates(map[string]any{
			"type_id": int(rec.TypeID),
			"status":  rec.Status,
		})
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%w: product %d already has related product %d with status %t",
				ErrDuplicate, rec.ProductID, rec.RelatedProductID, rec.Status)
		}
		return fmt.Errorf("save recommendation: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a row by ID. Missing rows are ignored.
func (r *GormRepo) Delete(ctx context.Context, rec Recommendation) error {
	if err := r.DB.WithContext(ctx).Delete(&gormRecommendation{}, rec.ID).Error; err != nil {
		return fmt.Errorf("delete recommendation: %w", err)
	}
	return nil
}

// DeleteMatching removes every row matching f.
func (r *GormRepo) DeleteMatching(ctx context.Context, f Filter) (int64, error) {
	if f.Empty() {
		return 0, fmt.Errorf("%w: refusing to delete without a filter", ErrInvalidInput)
	}
	res := applyGormFilter(r.DB.WithContext(ctx), f).Delete(&gormRecommendation{})
	if res.Error != nil {
		return 0, fmt.Errorf("delete recommendations: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// All returns every row.
func (r *GormRepo) All(ctx context.Context) ([]Recommendation, error) {
	return r.Find(ctx, Filter{})
}

// Find returns the rows matching f ordered by product, related product and ID.
func (r *GormRepo) Find(ctx context.Context, f Filter) ([]Recommendation, error) {
	var rows []gormRecommendation
	err := applyGormFilter(r.DB.WithContext(ctx).Model(&gormRecommendation{}), f).
		Order("product_id, related_product_id, id").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("find recommendations: %w", err)
	}
	out := make([]Recommendation, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toModel())
	}
	return out, nil
}

// ExistsAnywhere reports whether productID is on either side of a row with status.
func (r *GormRepo) ExistsAnywhere(ctx context.Context, productID int64, status bool) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).
		Model(&gormRecommendation{}).
		Where("(product_id = ? OR related_product_id = ?) AND status = ?", productID, productID, status).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check product existence: %w", err)
	}
	return count > 0, nil
}

func applyGormFilter(q *gorm.DB, f Filter) *gorm.DB {
	if f.ProductID != nil {
		q = q.Where("product_id = ?", *f.ProductID)
	}
	if f.RelatedProductID != nil {
		q = q.Where("related_product_id = ?", *f.RelatedProductID)
	}
	if f.TypeID != nil {
		q = q.Where("type_id = ?", int(*f.TypeID))
	}
	if f.Status != nil {
		q = q.Where("status = ?", *f.Status)
	}
	return q
}
