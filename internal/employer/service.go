package employer

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"

	"github.com/ovaphlow/pitchfork/service-coopconnect-go/internal/employer/entity"
	"github.com/ovaphlow/pitchfork/service-coopconnect-go/internal/employer/repo"
	userrepo "github.com/ovaphlow/pitchfork/service-coopconnect-go/internal/user/repo"
	"github.com/ovaphlow/pitchfork/service-coopconnect-go/pkg/database"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrUserNotFound = errors.New("user not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrNoFields     = errors.New("no fields to update")
)

// Service implements the employer-side queries and job-posting lifecycle.
type Service struct {
	db        *sqlx.DB
	locations *repo.LocationRepo
	postings  *repo.PostingRepo
	users     *userrepo.UserRepo
	validate  *validator.Validate
}

func NewService(db *sqlx.DB) *Service {
	v := validator.New()
	// report fields by their JSON names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Service{
		db:        db,
		locations: repo.NewLocationRepo(db),
		postings:  repo.NewPostingRepo(db),
		users:     userrepo.NewUserRepo(db),
		validate:  v,
	}
}

// StudentPopulationByCityID sums student population across the city's zip codes.
func (s *Service) StudentPopulationByCityID(ctx context.Context, cityID int64) (*entity.CityStudentPopulation, error) {
	sum, err := s.locations.SumStudentPopulation(ctx, cityID)
	if err != nil {
		return nil, err
	}
	if !sum.Valid {
		return nil, ErrNotFound
	}
	return &entity.CityStudentPopulation{CityID: cityID, StudentPopulation: sum.Int64}, nil
}

// StudentPopulationByCityName lists student population per zip code of the named city.
func (s *Service) StudentPopulationByCityName(ctx context.Context, name string) ([]entity.ZipStudentPopulation, error) {
	rows, err := s.locations.StudentPopulationByCityName(ctx, name)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	return rows, nil
}

// ZipCodes returns every recorded zip code.
func (s *Service) ZipCodes(ctx context.Context) ([]string, error) {
	zips, err := s.locations.ListZips(ctx)
	if err != nil {
		return nil, err
	}
	if len(zips) == 0 {
		return nil, ErrNotFound
	}
	return zips, nil
}

// PostingsByUserID returns the full projection of a user's postings.
func (s *Service) PostingsByUserID(ctx context.Context, userID int64) ([]entity.JobPosting, error) {
	ps, err := s.postings.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(ps) == 0 {
		return nil, ErrNotFound
	}
	return ps, nil
}

// PostingsByEmail resolves the email to a user and returns the reduced projection of their postings.
func (s *Service) PostingsByEmail(ctx context.Context, email string) ([]entity.JobPostingSummary, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	ps, err := s.postings.ListSummariesByUser(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	if len(ps) == 0 {
		return nil, ErrNotFound
	}
	return ps, nil
}

// CreatePosting validates the request, resolves the owner by email and inserts
// the posting in a single transaction.
func (s *Service) CreatePosting(ctx context.Context, req *entity.CreateJobPostingRequest) error {
	if err := s.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fe.Field())
			}
			return fmt.Errorf("%w: missing required fields: %s", ErrInvalidInput, strings.Join(fields, ", "))
		}
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return database.WithTx(ctx, s.db, func(tx *sqlx.Tx) error {
		u, err := userrepo.NewUserRepo(tx).GetByEmail(ctx, req.UserEmail)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrUserNotFound
			}
			return fmt.Errorf("lookup user: %w", err)
		}
		p := &entity.JobPosting{
			Title:        req.Title,
			Bio:          req.Bio,
			Compensation: *req.Compensation,
			LocationID:   req.LocationID,
			UserID:       u.ID,
		}
		if err := repo.NewPostingRepo(tx).Create(ctx, p); err != nil {
			return fmt.Errorf("insert job posting: %w", err)
		}
		return nil
	})
}

// UpdatePosting applies the non-null fields of req to the posting.
func (s *Service) UpdatePosting(ctx context.Context, postID int64, req *entity.UpdateJobPostingRequest) error {
	changes := req.Changes()
	if len(changes) == 0 {
		return ErrNoFields
	}
	return database.WithTx(ctx, s.db, func(tx *sqlx.Tx) error {
		n, err := repo.NewPostingRepo(tx).Update(ctx, postID, changes)
		if err != nil {
			return fmt.Errorf("update job posting: %w", err)
		}
		if n == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// DeletePosting removes the posting permanently.
func (s *Service) DeletePosting(ctx context.Context, postID int64) error {
	return database.WithTx(ctx, s.db, func(tx *sqlx.Tx) error {
		n, err := repo.NewPostingRepo(tx).Delete(ctx, postID)
		if err != nil {
			return fmt.Errorf("delete job posting: %w", err)
		}
		if n == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// WageHybrid returns the average wage and hybrid-worker proportion of the named city.
func (s *Service) WageHybrid(ctx context.Context, cityName string) (*entity.WageHybrid, error) {
	wh, err := s.locations.WageHybridByCityName(ctx, cityName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return wh, nil
}
