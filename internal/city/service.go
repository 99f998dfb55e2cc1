package city

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"

	"github.com/ovaphlow/pitchfork/service-coopconnect-go/internal/city/entity"
	"github.com/ovaphlow/pitchfork/service-coopconnect-go/internal/city/repo"
)

const (
	// CostTolerance is the relative half-width of the cost-of-living band.
	CostTolerance = 0.2
	// HybridTolerance is the absolute half-width of the hybrid-proportion band.
	HybridTolerance = 0.1
)

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
)

// Service answers read-only questions about cities.
type Service struct {
	repo *repo.CityRepo
}

func NewService(r *repo.CityRepo) *Service {
	return &Service{repo: r}
}

// List returns all cities.
func (s *Service) List(ctx context.Context) ([]entity.City, error) {
	return s.repo.List(ctx)
}

// Get returns a city by id.
func (s *Service) Get(ctx context.Context, id int64) (*entity.City, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

// MatchCost finds the city closest to target within ±20% and derives its
// affordability metrics against the national averages.
func (s *Service) MatchCost(ctx context.Context, target float64) (*entity.CostAnalysis, error) {
	if target < 0 || math.IsNaN(target) || math.IsInf(target, 0) {
		return nil, fmt.Errorf("%w: cost of living must be a non-negative number", ErrInvalidInput)
	}
	margin := target * CostTolerance
	min, max := target-margin, target+margin

	c, err := s.repo.ClosestByCost(ctx, min, max, target)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	avgs, err := s.repo.NationalAverages(ctx)
	if err != nil {
		return nil, err
	}
	a := analyzeCost(c, avgs)
	a.TargetCost, a.MinCost, a.MaxCost = target, min, max
	return a, nil
}

// MatchHybrid returns cities whose hybrid-worker proportion lies within ±0.1 of target.
func (s *Service) MatchHybrid(ctx context.Context, target float64) (*entity.HybridMatchResult, error) {
	if math.IsNaN(target) || target < 0 || target > 1 {
		return nil, fmt.Errorf("%w: target proportion must be between 0 and 1", ErrInvalidInput)
	}
	matches, err := s.repo.WithinHybridBand(ctx, target, HybridTolerance)
	if err != nil {
		return nil, err
	}
	res := &entity.HybridMatchResult{
		TargetProportion: target,
		CitiesFound:      len(matches),
		Cities:           matches,
	}
	if len(matches) == 0 {
		res.Message = "No cities found matching the target hybrid work proportion"
	}
	return res, nil
}

func analyzeCost(c *entity.City, avgs *entity.NationalAverages) *entity.CostAnalysis {
	return &entity.CostAnalysis{
		CityID:       c.ID,
		Name:         c.Name,
		CostOfLiving: c.AvgCostOfLiving,
		AvgRent:      c.AvgRent,
		AvgWage:      c.AvgWage,
		CostMetrics: entity.CostMetrics{
			CostToWageRatio: ratio(c.AvgCostOfLiving, c.AvgWage),
			RentToWageRatio: ratio(c.AvgRent, c.AvgWage),
			CostVsNationalAvg: entity.NationalPercent{
				CostOfLivingPercent: percentDeviation(c.AvgCostOfLiving, avgs.AvgCostOfLiving),
				RentPercent:         percentDeviation(c.AvgRent, avgs.AvgRent),
				WagePercent:         percentDeviation(c.AvgWage, avgs.AvgWage),
			},
		},
	}
}

// ratio is nil when the denominator is zero.
func ratio(num, den float64) *float64 {
	if den == 0 {
		return nil
	}
	v := num / den
	return &v
}

func percentDeviation(v, avg float64) *float64 {
	if avg == 0 {
		return nil
	}
	p := v/avg*100 - 100
	return &p
}
