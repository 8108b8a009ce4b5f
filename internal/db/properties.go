package db

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"rea-scraper/internal/models"
)

// ErrNotFound is returned when a property lookup matches no row.
var ErrNotFound = errors.New("property not found")

// UpsertProperty inserts or refreshes a property keyed by
// (external_id, source). Re-scrapes never blank out fields a previous
// scrape filled in.
func (db *DB) UpsertProperty(p *models.Property) error {
	query := `
		INSERT INTO properties (
			external_id, source, url, address, suburb, state, postcode,
			latitude, longitude, price_text, property_type, bedrooms,
			bathrooms, land_size_sqm, images, scraped_at, updated_at
		) VALUES (
			:external_id, :source, :url, :address, :suburb, :state, :postcode,
			:latitude, :longitude, :price_text, :property_type, :bedrooms,
			:bathrooms, :land_size_sqm, :images, :scraped_at, :updated_at
		)
		ON CONFLICT(external_id, source) DO UPDATE SET
			url = excluded.url,
			address = COALESCE(excluded.address, properties.address),
			suburb = COALESCE(excluded.suburb, properties.suburb),
			state = excluded.state,
			postcode = COALESCE(excluded.postcode, properties.postcode),
			latitude = COALESCE(excluded.latitude, properties.latitude),
			longitude = COALESCE(excluded.longitude, properties.longitude),
			price_text = COALESCE(excluded.price_text, properties.price_text),
			property_type = COALESCE(excluded.property_type, properties.property_type),
			bedrooms = COALESCE(excluded.bedrooms, properties.bedrooms),
			bathrooms = COALESCE(excluded.bathrooms, properties.bathrooms),
			land_size_sqm = COALESCE(excluded.land_size_sqm, properties.land_size_sqm),
			images = COALESCE(excluded.images, properties.images),
			updated_at = excluded.updated_at
	`

	_, err := db.NamedExec(query, p)
	return err
}

// ExistingExternalIDs reports which of the given external ids already have
// rows, as a set.
func (db *DB) ExistingExternalIDs(ids []string) (map[string]bool, error) {
	existing := make(map[string]bool, len(ids))
	if len(ids) == 0 {
		return existing, nil
	}

	query, args, err := sqlx.In(`SELECT external_id FROM properties WHERE external_id IN (?)`, ids)
	if err != nil {
		return nil, err
	}

	rows, err := db.Query(db.Rebind(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		existing[id] = true
	}
	return existing, rows.Err()
}

// PropertyFilter contains filter parameters for property list queries.
type PropertyFilter struct {
	Suburb      string
	Postcode    string
	LandSizeMin *float64
	LandSizeMax *float64
	Limit       int
	Offset      int
}

// ListProperties returns properties matching the given filters, newest
// first.
func (db *DB) ListProperties(f PropertyFilter) ([]models.PropertyListItem, error) {
	query := `
		SELECT
			p.id,
			p.external_id,
			p.source,
			p.url,
			COALESCE(p.address, '') AS address,
			COALESCE(p.suburb, '') AS suburb,
			p.state,
			COALESCE(p.postcode, '') AS postcode,
			COALESCE(p.price_text, '') AS price_text,
			COALESCE(p.property_type, '') AS property_type,
			p.land_size_sqm
		FROM properties p
		WHERE 1=1
	`

	args := make([]interface{}, 0)

	if f.Suburb != "" {
		query += " AND p.suburb = ? COLLATE NOCASE"
		args = append(args, f.Suburb)
	}
	if f.Postcode != "" {
		query += " AND p.postcode = ?"
		args = append(args, f.Postcode)
	}
	if f.LandSizeMin != nil {
		query += " AND p.land_size_sqm >= ?"
		args = append(args, *f.LandSizeMin)
	}
	if f.LandSizeMax != nil {
		query += " AND p.land_size_sqm <= ?"
		args = append(args, *f.LandSizeMax)
	}

	query += " ORDER BY p.scraped_at DESC"

	if f.Limit <= 0 || f.Limit > 500 {
		f.Limit = 100
	}
	query += " LIMIT ? OFFSET ?"
	args = append(args, f.Limit, f.Offset)

	var items []models.PropertyListItem
	if err := db.Select(&items, query, args...); err != nil {
		return nil, fmt.Errorf("listing properties: %w", err)
	}
	return items, nil
}

// GetProperty returns the full row for one property.
func (db *DB) GetProperty(id int64) (*models.Property, error) {
	var p models.Property
	err := db.Get(&p, `SELECT * FROM properties WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}
