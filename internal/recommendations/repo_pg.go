package recommendations

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/huandu/go-sqlbuilder"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
)

const (
	tableName = "recommendations"

	uniqueViolationCode = "23505"
)

var selectColumns = []string{"id", "product_id", "related_product_id", "type_id", "status", "created_at", "updated_at"}

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sqlx.DB
}

// NewPGRepo wraps a pgx-backed *sql.DB.
func NewPGRepo(db *sql.DB) *PGRepo {
	return &PGRepo{DB: sqlx.NewDb(db, "pgx")}
}

// Insert writes a new row and fills in ID and timestamps.
func (r *PGRepo) Insert(ctx context.Context, rec *Recommendation) error {
	ib := sqlbuilder.PostgreSQL.NewInsertBuilder()
	ib.InsertInto(tableName)
	ib.Cols("product_id", "related_product_id", "type_id", "status")
	ib.Values(rec.ProductID, rec.RelatedProductID, int(rec.TypeID), rec.Status)
	ib.Returning("id", "created_at", "updated_at")

	query, args := ib.Build()
	err := r.DB.QueryRowxContext(ctx, query, args...).Scan(&rec.ID, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: product %d already has related product %d with status %t",
				ErrDuplicate, rec.ProductID, rec.RelatedProductID, rec.Status)
		}
		return fmt.Errorf("insert recommendation: %w", err)
	}
	return nil
}

// Save persists the type and status of an existing row.
func (r *PGRepo) Save(ctx context.Context, rec Recommendation) error {
	ub := sqlbuilder.PostgreSQL.NewUpdateBuilder()
	ub.Update(tableName)
	ub.Set(
		ub.Assign("type_id", int(rec.TypeID)),
		ub.Assign("status", rec.Status),
		"updated_at = now()",
	)
	ub.Where(ub.Equal("id", rec.ID))

	query, args := ub.Build()
	res, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: product %d already has related product %d with status %t",
				ErrDuplicate, rec.ProductID, rec.RelatedProductID, rec.Status)
		}
		return fmt.Errorf("save recommendation: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("save recommendation: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a row by ID. Missing rows are ignored.
func (r *PGRepo) Delete(ctx context.Context, rec Recommendation) error {
	db := sqlbuilder.PostgreSQL.NewDeleteBuilder()
	db.DeleteFrom(tableName)
	db.Where(db.Equal("id", rec.ID))

	query, args := db.Build()
	if _, err := r.DB.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete recommendation: %w", err)
	}
	return nil
}

// DeleteMatching removes every row matching f in a single statement.
func (r *PGRepo) DeleteMatching(ctx context.Context, f Filter) (int64, error) {
	if f.Empty() {
		return 0, fmt.Errorf("%w: refusing to delete without a filter", ErrInvalidInput)
	}
	db := sqlbuilder.PostgreSQL.NewDeleteBuilder()
	db.DeleteFrom(tableName)
	db.Where(filterExprs(&db.Cond, f)...)

	query, args := db.Build()
	res, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("delete recommendations: %w", err)
	}
	return res.RowsAffected()
}

// All returns every row.
func (r *PGRepo) All(ctx context.Context) ([]Recommendation, error) {
	return r.Find(ctx, Filter{})
}

// Find returns the rows matching f ordered by product, related product and ID.
func (r *PGRepo) Find(ctx context.Context, f Filter) ([]Recommendation, error) {
	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(selectColumns...)
	sb.From(tableName)
	if exprs := filterExprs(&sb.Cond, f); len(exprs) > 0 {
		sb.Where(exprs...)
	}
	sb.OrderBy("product_id", "related_product_id", "id")

	query, args := sb.Build()
	out := []Recommendation{}
	if err := r.DB.SelectContext(ctx, &out, query, args...); err != nil {
		return nil, fmt.Errorf("find recommendations: %w", err)
	}
	return out, nil
}

// ExistsAnywhere reports whether productID is on either side of a row with status.
func (r *PGRepo) ExistsAnywhere(ctx context.Context, productID int64, status bool) (bool, error) {
	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select("1")
	sb.From(tableName)
	sb.Where(
		sb.Or(
			sb.Equal("product_id", productID),
			sb.Equal("related_product_id", productID),
		),
		sb.Equal("status", status),
	)

	query, args := sb.Build()
	var exists bool
	if err := r.DB.QueryRowxContext(ctx, "SELECT EXISTS ("+query+")", args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("check product existence: %w", err)
	}
	return exists, nil
}

func filterExprs(cond *sqlbuilder.Cond, f Filter) []string {
	var exprs []string
	if f.ProductID != nil {
		exprs = append(exprs, cond.Equal("product_id", *f.ProductID))
	}
	if f.RelatedProductID != nil {
		exprs = append(exprs, cond.Equal("related_product_id", *f.RelatedProductID))
	}
	if f.TypeID != nil {
		exprs = append(exprs, cond.Equal("type_id", int(*f.TypeID)))
	}
	if f.Status != nil {
		exprs = append(exprs, cond.Equal("status", *f.Status))
	}
	return exprs
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}
