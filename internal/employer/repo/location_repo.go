package repo

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/ovaphlow/pitchfork/service-coopconnect-go/internal/employer/entity"
)

// NOTE: expected table schema (Postgres, owned outside this service):
// CREATE TABLE location (
//   zip TEXT PRIMARY KEY,
//   city_id BIGINT NOT NULL REFERENCES city (city_id),
//   student_population BIGINT
// );

// LocationRepo reads zip codes and their student populations, plus the
// city-level wage figures the employer pages need.
type LocationRepo struct {
	db *sqlx.DB
}

func NewLocationRepo(db *sqlx.DB) *LocationRepo { return &LocationRepo{db: db} }

// SumStudentPopulation sums student population over the city's zip codes.
// The result is invalid when the city has no rows or only null populations.
func (r *LocationRepo) SumStudentPopulation(ctx context.Context, cityID int64) (sql.NullInt64, error) {
	const q = `SELECT SUM(student_population)::bigint FROM location WHERE city_id = $1`
	var sum sql.NullInt64
	err := r.db.QueryRowxContext(ctx, q, cityID).Scan(&sum)
	return sum, err
}

// StudentPopulationByCityName lists each zip code of the named city with its own population.
func (r *LocationRepo) StudentPopulationByCityName(ctx context.Context, name string) ([]entity.ZipStudentPopulation, error) {
	const q = `SELECT l.zip, l.student_population
		FROM location l JOIN city c ON c.city_id = l.city_id
		WHERE c.name = $1
		ORDER BY l.zip`
	out := []entity.ZipStudentPopulation{}
	if err := r.db.SelectContext(ctx, &out, q, name); err != nil {
		return nil, err
	}
	return out, nil
}

// ListZips returns every recorded zip code.
func (r *LocationRepo) ListZips(ctx context.Context) ([]string, error) {
	out := []string{}
	if err := r.db.SelectContext(ctx, &out, `SELECT zip FROM location ORDER BY zip`); err != nil {
		return nil, err
	}
	return out, nil
}

// WageHybridByCityName returns sql.ErrNoRows when no city has that name.
func (r *LocationRepo) WageHybridByCityName(ctx context.Context, name string) (*entity.WageHybrid, error) {
	const q = `SELECT avg_wage, prop_hybrid_workers FROM city WHERE name = $1 ORDER BY city_id LIMIT 1`
	var wh entity.WageHybrid
	if err := r.db.GetContext(ctx, &wh, q, name); err != nil {
		return nil, err
	}
	wh.City = name
	return &wh, nil
}
