package city

import (
	"math"
	"testing"

	"github.com/ovaphlow/pitchfork/service-coopconnect-go/internal/city/entity"
)

func approx(t *testing.T, name string, got *float64, want float64) {
	t.Helper()
	if got == nil {
		t.Fatalf("%s = nil, want %v", name, want)
	}
	if math.Abs(*got-want) > 1e-9 {
		t.Errorf("%s = %v, want %v", name, *got, want)
	}
}

func TestAnalyzeCost_DerivedMetrics(t *testing.T) {
	c := &entity.City{ID: 1, Name: "Lowtown", AvgCostOfLiving: 1000, AvgRent: 500, AvgWage: 2000}
	avgs := &entity.NationalAverages{AvgCostOfLiving: 1250, AvgRent: 600, AvgWage: 2250}

	a := analyzeCost(c, avgs)

	if a.CityID != 1 || a.Name != "Lowtown" {
		t.Errorf("analyzeCost identity = (%d, %q), want (1, Lowtown)", a.CityID, a.Name)
	}
	approx(t, "cost_to_wage_ratio", a.CostMetrics.CostToWageRatio, 0.5)
	approx(t, "rent_to_wage_ratio", a.CostMetrics.RentToWageRatio, 0.25)
	approx(t, "cost_of_living_percent", a.CostMetrics.CostVsNationalAvg.CostOfLivingPercent, -20)
	approx(t, "rent_percent", a.CostMetrics.CostVsNationalAvg.RentPercent, 500.0/600*100-100)
	approx(t, "wage_percent", a.CostMetrics.CostVsNationalAvg.WagePercent, 2000.0/2250*100-100)
}

func TestAnalyzeCost_ZeroDenominators(t *testing.T) {
	c := &entity.City{AvgCostOfLiving: 800, AvgRent: 300, AvgWage: 0}
	a := analyzeCost(c, &entity.NationalAverages{})

	if a.CostMetrics.CostToWageRatio != nil || a.CostMetrics.RentToWageRatio != nil {
		t.Error("ratios should be nil when wage is zero")
	}
	p := a.CostMetrics.CostVsNationalAvg
	if p.CostOfLivingPercent != nil || p.RentPercent != nil || p.WagePercent != nil {
		t.Error("percentages should be nil when national averages are zero")
	}
}

func TestPercentDeviation(t *testing.T) {
	cases := []struct {
		v, avg, want float64
	}{
		{100, 100, 0},
		{150, 100, 50},
		{50, 100, -50},
		{0, 100, -100},
	}
	for _, c := range cases {
		approx(t, "percentDeviation", percentDeviation(c.v, c.avg), c.want)
	}
}
