package comparison

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/cse-motors/motors/internal/database"
	"github.com/cse-motors/motors/internal/models"
)

// ErrNotFound covers both a missing comparison and one owned by another
// account; the two cases are deliberately indistinguishable.
var ErrNotFound = errors.New("comparison not found")

// Store is the comparison repository. Every mutation filters by the owning
// account inside the statement itself, so a non-owner's write affects zero
// rows regardless of interleaving.
type Store struct {
	db *database.DB
}

func NewStore(db *database.DB) *Store {
	return &Store{db: db}
}

// Save persists a new comparison owned by c.AccountID and fills in its id.
func (s *Store) Save(ctx context.Context, c *models.Comparison) error {
	id, err := s.db.InsertID(
		`INSERT INTO comparison (comparison_name, comparison_description, account_id,
			vehicle1_id, vehicle2_id, vehicle3_id)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		"comparison_id",
		c.Name, c.Description, c.AccountID, c.Vehicle1ID, c.Vehicle2ID, c.Vehicle3ID,
	)
	if err != nil {
		return fmt.Errorf("inserting comparison: %w", err)
	}
	c.ID = id
	return nil
}

// GetForAccount retrieves a comparison scoped to its owner. A comparison
// owned by someone else reads as ErrNotFound.
func (s *Store) GetForAccount(ctx context.Context, comparisonID, accountID int64) (*models.Comparison, error) {
	var c models.Comparison
	err := s.db.QueryRowContext(ctx, s.db.Rebind(`SELECT comparison_id, comparison_name,
			COALESCE(comparison_description, ''), account_id,
			vehicle1_id, vehicle2_id, vehicle3_id, created_date
		FROM comparison
		WHERE comparison_id = ? AND account_id = ?`),
		comparisonID, accountID,
	).Scan(&c.ID, &c.Name, &c.Description, &c.AccountID,
		&c.Vehicle1ID, &c.Vehicle2ID, &c.Vehicle3ID, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying comparison: %w", err)
	}
	return &c, nil
}

// ListByAccount lists an account's comparisons, newest first, with vehicle
// captions joined in. Left joins tolerate vehicles removed from inventory.
func (s *Store) ListByAccount(ctx context.Context, accountID int64) ([]models.ComparisonSummary, error) {
	rows, err := s.db.QueryContext(ctx, s.db.Rebind(`SELECT
			c.comparison_id, c.comparison_name, COALESCE(c.comparison_description, ''),
			c.account_id, c.vehicle1_id, c.vehicle2_id, c.vehicle3_id, c.created_date,
			v1.inv_make || ' ' || v1.inv_model || ' (' || v1.inv_year || ')',
			v2.inv_make || ' ' || v2.inv_model || ' (' || v2.inv_year || ')',
			v3.inv_make || ' ' || v3.inv_model || ' (' || v3.inv_year || ')',
			v1.inv_thumbnail, v2.inv_thumbnail, v3.inv_thumbnail
		FROM comparison c
		LEFT JOIN inventory v1 ON c.vehicle1_id = v1.inv_id
		LEFT JOIN inventory v2 ON c.vehicle2_id = v2.inv_id
		LEFT JOIN inventory v3 ON c.vehicle3_id = v3.inv_id
		WHERE c.account_id = ?
		ORDER BY c.created_date DESC`),
		accountID)
	if err != nil {
		return nil, fmt.Errorf("querying comparisons: %w", err)
	}
	defer rows.Close()

	var out []models.ComparisonSummary
	for rows.Next() {
		var c models.ComparisonSummary
		if err := rows.Scan(
			&c.ID, &c.Name, &c.Description,
			&c.AccountID, &c.Vehicle1ID, &c.Vehicle2ID, &c.Vehicle3ID, &c.CreatedAt,
			&c.Vehicle1Name, &c.Vehicle2Name, &c.Vehicle3Name,
			&c.Vehicle1Thumbnail, &c.Vehicle2Thumbnail, &c.Vehicle3Thumbnail,
		); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Update rewrites a comparison's fields. The WHERE clause carries both the
// comparison id and the owning account id, so a non-owner's update matches
// zero rows and surfaces as ErrNotFound.
func (s *Store) Update(ctx context.Context, c *models.Comparison) error {
	res, err := s.db.ExecContext(ctx, s.db.Rebind(`UPDATE comparison SET
			comparison_name = ?, comparison_description = ?,
			vehicle1_id = ?, vehicle2_id = ?, vehicle3_id = ?
		WHERE comparison_id = ? AND account_id = ?`),
		c.Name, c.Description, c.Vehicle1ID, c.Vehicle2ID, c.Vehicle3ID,
		c.ID, c.AccountID)
	if err != nil {
		return fmt.Errorf("updating comparison: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a comparison scoped to its owner. It reports whether a
// row was deleted; deleting a missing or non-owned comparison is a no-op,
// not an error.
func (s *Store) Delete(ctx context.Context, comparisonID, accountID int64) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		s.db.Rebind("DELETE FROM comparison WHERE comparison_id = ? AND account_id = ?"),
		comparisonID, accountID)
	if err != nil {
		return false, fmt.Errorf("deleting comparison: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Popular aggregates saved comparisons across all accounts, grouped by the
// distinct vehicle-id triple rather than by comparison identity: two
// accounts saving the same trio count as one group of two. Ordered by
// count, then most recent, capped at limit.
func (s *Store) Popular(ctx context.Context, limit int) ([]models.PopularComparison, error) {
	rows, err := s.db.QueryContext(ctx, s.db.Rebind(`SELECT
			c.vehicle1_id, c.vehicle2_id, c.vehicle3_id,
			COUNT(*) AS comparison_count,
			MAX(c.comparison_name), MAX(c.comparison_description),
			MAX(a.account_firstname),
			v1.inv_make || ' ' || v1.inv_model || ' (' || v1.inv_year || ')',
			v2.inv_make || ' ' || v2.inv_model || ' (' || v2.inv_year || ')',
			v3.inv_make || ' ' || v3.inv_model || ' (' || v3.inv_year || ')',
			v1.inv_thumbnail, v2.inv_thumbnail, v3.inv_thumbnail,
			v1.inv_price, v2.inv_price, v3.inv_price
		FROM comparison c
		JOIN account a ON c.account_id = a.account_id
		LEFT JOIN inventory v1 ON c.vehicle1_id = v1.inv_id
		LEFT JOIN inventory v2 ON c.vehicle2_id = v2.inv_id
		LEFT JOIN inventory v3 ON c.vehicle3_id = v3.inv_id
		GROUP BY c.vehicle1_id, c.vehicle2_id, c.vehicle3_id,
			v1.inv_make, v1.inv_model, v1.inv_year, v1.inv_thumbnail, v1.inv_price,
			v2.inv_make, v2.inv_model, v2.inv_year, v2.inv_thumbnail, v2.inv_price,
			v3.inv_make, v3.inv_model, v3.inv_year, v3.inv_thumbnail, v3.inv_price
		ORDER BY COUNT(*) DESC, MAX(c.created_date) DESC
		LIMIT ?`),
		limit)
	if err != nil {
		return nil, fmt.Errorf("querying popular comparisons: %w", err)
	}
	defer rows.Close()

	var out []models.PopularComparison
	for rows.Next() {
		var p models.PopularComparison
		if err := rows.Scan(
			&p.Vehicle1ID, &p.Vehicle2ID, &p.Vehicle3ID,
			&p.Count,
			&p.Name, &p.Description,
			&p.OwnerFirstName,
			&p.Vehicle1Name, &p.Vehicle2Name, &p.Vehicle3Name,
			&p.Vehicle1Thumbnail, &p.Vehicle2Thumbnail, &p.Vehicle3Thumbnail,
			&p.Vehicle1Price, &p.Vehicle2Price, &p.Vehicle3Price,
		); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
