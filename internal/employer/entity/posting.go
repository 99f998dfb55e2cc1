package entity

// JobPosting is the full projection of a row in the job_posting table.
type JobPosting struct {
	ID           int64   `db:"post_id" json:"post_id"`
	Title        string  `db:"title" json:"title"`
	Bio          string  `db:"bio" json:"bio"`
	Compensation float64 `db:"compensation" json:"compensation"`
	LocationID   *int64  `db:"location_id" json:"location_id"`
	UserID       int64   `db:"user_id" json:"user_id"`
}

// JobPostingSummary is the reduced projection served by the lookup-by-email
// endpoint; it leaves out title and bio.
type JobPostingSummary struct {
	ID           int64   `db:"post_id" json:"post_id"`
	Compensation float64 `db:"compensation" json:"compensation"`
	LocationID   *int64  `db:"location_id" json:"location_id"`
	UserID       int64   `db:"user_id" json:"user_id"`
}

// CreateJobPostingRequest is the POST /job_postings payload. Compensation is a
// pointer so that an explicit 0 passes the required check while a missing value fails.
type CreateJobPostingRequest struct {
	Title        string   `json:"title" validate:"required"`
	Bio          string   `json:"bio" validate:"required"`
	Compensation *float64 `json:"compensation" validate:"required"`
	UserEmail    string   `json:"user_email" validate:"required"`
	LocationID   *int64   `json:"location_id"`
}

// UpdateJobPostingRequest is the PUT /job_postings/{id} payload; nil fields are left untouched.
type UpdateJobPostingRequest struct {
	Title        *string  `json:"title"`
	Bio          *string  `json:"bio"`
	Compensation *float64 `json:"compensation"`
	LocationID   *int64   `json:"location_id"`
}

// Change is a single column assignment of a partial update.
type Change struct {
	Column string
	Value  any
}

// Changes lists the assignments for every non-nil field, in column order.
func (r UpdateJobPostingRequest) Changes() []Change {
	var out []Change
	if r.Title != nil {
		out = append(out, Change{Column: "title", Value: *r.Title})
	}
	if r.Bio != nil {
		out = append(out, Change{Column: "bio", Value: *r.Bio})
	}
	if r.Compensation != nil {
		out = append(out, Change{Column: "compensation", Value: *r.Compensation})
	}
	if r.LocationID != nil {
		out = append(out, Change{Column: "location_id", Value: *r.LocationID})
	}
	return out
}
