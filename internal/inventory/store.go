package inventory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/cse-motors/motors/internal/database"
	"github.com/cse-motors/motors/internal/models"
)

var ErrNotFound = errors.New("vehicle not found")

// Store reads and writes classifications and vehicles.
type Store struct {
	db *database.DB
}

func NewStore(db *database.DB) *Store {
	return &Store{db: db}
}

const vehicleColumns = `i.inv_id, i.inv_make, i.inv_model, i.inv_year, i.inv_description,
	i.inv_image, i.inv_thumbnail, i.inv_price, i.inv_miles, i.inv_color,
	c.classification_id, c.classification_name`

func scanVehicles(rows *sql.Rows) ([]models.Vehicle, error) {
	defer rows.Close()
	var vehicles []models.Vehicle
	for rows.Next() {
		var v models.Vehicle
		if err := rows.Scan(
			&v.ID, &v.Make, &v.Model, &v.Year, &v.Description,
			&v.Image, &v.Thumbnail, &v.Price, &v.Miles, &v.Color,
			&v.ClassificationID, &v.ClassificationName,
		); err != nil {
			return nil, err
		}
		vehicles = append(vehicles, v)
	}
	return vehicles, rows.Err()
}

// GetClassifications lists all classifications by name.
func (s *Store) GetClassifications(ctx context.Context) ([]models.Classification, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT classification_id, classification_name FROM classification ORDER BY classification_name")
	if err != nil {
		return nil, fmt.Errorf("querying classifications: %w", err)
	}
	defer rows.Close()

	var out []models.Classification
	for rows.Next() {
		var c models.Classification
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// GetAllVehicles lists every vehicle with its classification, ordered for
// the comparison select page.
func (s *Store) GetAllVehicles(ctx context.Context) ([]models.Vehicle, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+vehicleColumns+`
		FROM inventory i
		JOIN classification c ON i.classification_id = c.classification_id
		ORDER BY c.classification_name, i.inv_make, i.inv_model`)
	if err != nil {
		return nil, fmt.Errorf("querying vehicles: %w", err)
	}
	return scanVehicles(rows)
}

// GetVehiclesByClassification lists the vehicles in one classification.
func (s *Store) GetVehiclesByClassification(ctx context.Context, classificationID int64) ([]models.Vehicle, error) {
	rows, err := s.db.QueryContext(ctx, s.db.Rebind(`SELECT `+vehicleColumns+`
		FROM inventory i
		JOIN classification c ON i.classification_id = c.classification_id
		WHERE i.classification_id = ?
		ORDER BY i.inv_make, i.inv_model`),
		classificationID)
	if err != nil {
		return nil, fmt.Errorf("querying vehicles by classification: %w", err)
	}
	return scanVehicles(rows)
}

// GetVehicleByID retrieves one vehicle.
func (s *Store) GetVehicleByID(ctx context.Context, id int64) (*models.Vehicle, error) {
	rows, err := s.db.QueryContext(ctx, s.db.Rebind(`SELECT `+vehicleColumns+`
		FROM inventory i
		JOIN classification c ON i.classification_id = c.classification_id
		WHERE i.inv_id = ?`),
		id)
	if err != nil {
		return nil, fmt.Errorf("querying vehicle: %w", err)
	}
	vehicles, err := scanVehicles(rows)
	if err != nil {
		return nil, err
	}
	if len(vehicles) == 0 {
		return nil, ErrNotFound
	}
	return &vehicles[0], nil
}

// GetVehiclesByIDs resolves a set of vehicle ids. Unknown ids are simply
// absent from the result; callers degrade the matching slot.
func (s *Store) GetVehiclesByIDs(ctx context.Context, ids []int64) ([]models.Vehicle, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(ids)), ", ")
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := s.db.QueryContext(ctx, s.db.Rebind(`SELECT `+vehicleColumns+`
		FROM inventory i
		JOIN classification c ON i.classification_id = c.classification_id
		WHERE i.inv_id IN (`+placeholders+`)
		ORDER BY i.inv_make, i.inv_model`),
		args...)
	if err != nil {
		return nil, fmt.Errorf("querying vehicles by ids: %w", err)
	}
	return scanVehicles(rows)
}

// AddClassification inserts a classification and returns its id.
func (s *Store) AddClassification(ctx context.Context, name string) (int64, error) {
	id, err := s.db.InsertID(
		"INSERT INTO classification (classification_name) VALUES (?)",
		"classification_id",
		name,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting classification: %w", err)
	}
	return id, nil
}

// AddVehicle inserts a vehicle and returns its id.
func (s *Store) AddVehicle(ctx context.Context, v *models.Vehicle) (int64, error) {
	id, err := s.db.InsertID(
		`INSERT INTO inventory (inv_make, inv_model, inv_year, inv_description,
			inv_image, inv_thumbnail, inv_price, inv_miles, inv_color, classification_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		"inv_id",
		v.Make, v.Model, v.Year, v.Description,
		v.Image, v.Thumbnail, v.Price, v.Miles, v.Color, v.ClassificationID,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting vehicle: %w", err)
	}
	return id, nil
}
