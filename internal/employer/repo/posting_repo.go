package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/ovaphlow/pitchfork/service-coopconnect-go/internal/employer/entity"
)

// NOTE: expected table schema (Postgres, owned outside this service):
// CREATE TABLE job_posting (
//   post_id BIGSERIAL PRIMARY KEY,
//   title TEXT NOT NULL,
//   bio TEXT NOT NULL,
//   compensation NUMERIC NOT NULL,
//   location_id BIGINT,
//   user_id BIGINT NOT NULL REFERENCES users (user_id)
// );

// updatable guards the column names that may appear in a SET clause.
var updatable = map[string]bool{"title": true, "bio": true, "compensation": true, "location_id": true}

// PostingRepo provides data access for job postings. It works against the pool
// or an open transaction.
type PostingRepo struct {
	db sqlx.ExtContext
}

func NewPostingRepo(db sqlx.ExtContext) *PostingRepo { return &PostingRepo{db: db} }

// ListByUser returns the full projection of a user's postings.
func (r *PostingRepo) ListByUser(ctx context.Context, userID int64) ([]entity.JobPosting, error) {
	const q = `SELECT post_id, title, bio, compensation, location_id, user_id
		FROM job_posting WHERE user_id = $1 ORDER BY post_id`
	out := []entity.JobPosting{}
	if err := sqlx.SelectContext(ctx, r.db, &out, q, userID); err != nil {
		return nil, err
	}
	return out, nil
}

// ListSummariesByUser returns the reduced projection of a user's postings.
func (r *PostingRepo) ListSummariesByUser(ctx context.Context, userID int64) ([]entity.JobPostingSummary, error) {
	const q = `SELECT post_id, compensation, location_id, user_id
		FROM job_posting WHERE user_id = $1 ORDER BY post_id`
	out := []entity.JobPostingSummary{}
	if err := sqlx.SelectContext(ctx, r.db, &out, q, userID); err != nil {
		return nil, err
	}
	return out, nil
}

// Create inserts a posting. The generated post_id is not read back.
func (r *PostingRepo) Create(ctx context.Context, p *entity.JobPosting) error {
	const q = `INSERT INTO job_posting (title, bio, compensation, location_id, user_id)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.db.ExecContext(ctx, q, p.Title, p.Bio, p.Compensation, p.LocationID, p.UserID)
	return err
}

// Update applies changes to one posting and returns the number of affected rows.
func (r *PostingRepo) Update(ctx context.Context, postID int64, changes []entity.Change) (int64, error) {
	if len(changes) == 0 {
		return 0, errors.New("no changes")
	}
	sets := make([]string, 0, len(changes))
	args := make([]any, 0, len(changes)+1)
	for i, c := range changes {
		if !updatable[c.Column] {
			return 0, fmt.Errorf("column %q is not updatable", c.Column)
		}
		sets = append(sets, fmt.Sprintf("%s = $%d", c.Column, i+1))
		args = append(args, c.Value)
	}
	args = append(args, postID)
	q := fmt.Sprintf(`UPDATE job_posting SET %s WHERE post_id = $%d`, strings.Join(sets, ", "), len(args))
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Delete removes a posting and returns the number of affected rows.
func (r *PostingRepo) Delete(ctx context.Context, postID int64) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM job_posting WHERE post_id = $1`, postID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
