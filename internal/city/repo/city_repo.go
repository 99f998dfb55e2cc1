package repo

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/ovaphlow/pitchfork/service-coopconnect-go/internal/city/entity"
)

// NOTE: expected table schema (Postgres, owned outside this service):
// CREATE TABLE city (
//   city_id BIGINT PRIMARY KEY,
//   avg_cost_of_living NUMERIC NOT NULL,
//   avg_rent NUMERIC NOT NULL,
//   avg_wage NUMERIC NOT NULL,
//   name TEXT NOT NULL,
//   population BIGINT NOT NULL,
//   prop_hybrid_workers NUMERIC
// );

const cityColumns = `city_id, avg_cost_of_living, avg_rent, avg_wage, name, population, prop_hybrid_workers`

// CityRepo provides read-only access to the city table.
type CityRepo struct {
	db *sqlx.DB
}

func NewCityRepo(db *sqlx.DB) *CityRepo { return &CityRepo{db: db} }

// List returns every city in id order.
func (r *CityRepo) List(ctx context.Context) ([]entity.City, error) {
	out := []entity.City{}
	if err := r.db.SelectContext(ctx, &out, `SELECT `+cityColumns+` FROM city ORDER BY city_id`); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID returns the city or sql.ErrNoRows.
func (r *CityRepo) GetByID(ctx context.Context, id int64) (*entity.City, error) {
	var c entity.City
	if err := r.db.GetContext(ctx, &c, `SELECT `+cityColumns+` FROM city WHERE city_id = $1`, id); err != nil {
		return nil, err
	}
	return &c, nil
}

// ClosestByCost returns the city whose cost of living lies in [min,max] and is
// nearest to target, lowest city_id first on ties. sql.ErrNoRows when the band is empty.
func (r *CityRepo) ClosestByCost(ctx context.Context, min, max, target float64) (*entity.City, error) {
	const q = `SELECT ` + cityColumns + ` FROM city
		WHERE avg_cost_of_living BETWEEN $1 AND $2
		ORDER BY ABS(avg_cost_of_living - $3), city_id
		LIMIT 1`
	var c entity.City
	if err := r.db.GetContext(ctx, &c, q, min, max, target); err != nil {
		return nil, err
	}
	return &c, nil
}

// NationalAverages returns the mean cost, rent and wage over all cities.
func (r *CityRepo) NationalAverages(ctx context.Context) (*entity.NationalAverages, error) {
	const q = `SELECT COALESCE(AVG(avg_cost_of_living), 0) AS avg_cost_of_living,
		COALESCE(AVG(avg_rent), 0) AS avg_rent,
		COALESCE(AVG(avg_wage), 0) AS avg_wage
		FROM city`
	var a entity.NationalAverages
	if err := r.db.GetContext(ctx, &a, q); err != nil {
		return nil, err
	}
	return &a, nil
}

// WithinHybridBand returns cities whose hybrid proportion is within tolerance of
// target, closest first. Distances are computed in numeric so band edges are exact.
func (r *CityRepo) WithinHybridBand(ctx context.Context, target, tolerance float64) ([]entity.HybridMatch, error) {
	const q = `SELECT ` + cityColumns + `,
		ABS(prop_hybrid_workers::numeric - $1::numeric) AS difference_from_target
		FROM city
		WHERE prop_hybrid_workers IS NOT NULL
		  AND ABS(prop_hybrid_workers::numeric - $1::numeric) <= $2::numeric
		ORDER BY difference_from_target, city_id`
	out := []entity.HybridMatch{}
	if err := r.db.SelectContext(ctx, &out, q, target, tolerance); err != nil {
		return nil, err
	}
	return out, nil
}
