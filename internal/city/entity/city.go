package entity

// City is a row of the externally managed `city` table.
type City struct {
	ID              int64   `db:"city_id" json:"city_id"`
	AvgCostOfLiving float64 `db:"avg_cost_of_living" json:"avg_cost_of_living"`
	AvgRent         float64 `db:"avg_rent" json:"avg_rent"`
	AvgWage         float64 `db:"avg_wage" json:"avg_wage"`
	Name            string  `db:"name" json:"name"`
	Population      int64   `db:"population" json:"population"`
	// PropHybridWorkers is a fraction in [0,1]; nil when not recorded.
	PropHybridWorkers *float64 `db:"prop_hybrid_workers" json:"prop_hybrid_workers"`
}

// NationalAverages holds the per-field mean across all cities.
type NationalAverages struct {
	AvgCostOfLiving float64 `db:"avg_cost_of_living"`
	AvgRent         float64 `db:"avg_rent"`
	AvgWage         float64 `db:"avg_wage"`
}

// CostAnalysis is the closest cost-of-living match with derived affordability metrics.
type CostAnalysis struct {
	CityID       int64       `json:"city_id"`
	Name         string      `json:"name"`
	TargetCost   float64     `json:"target_cost"`
	MinCost      float64     `json:"min_cost"`
	MaxCost      float64     `json:"max_cost"`
	CostOfLiving float64     `json:"cost_of_living"`
	AvgRent      float64     `json:"avg_rent"`
	AvgWage      float64     `json:"avg_wage"`
	CostMetrics  CostMetrics `json:"cost_metrics"`
}

type CostMetrics struct {
	CostToWageRatio   *float64        `json:"cost_to_wage_ratio"`
	RentToWageRatio   *float64        `json:"rent_to_wage_ratio"`
	CostVsNationalAvg NationalPercent `json:"cost_vs_national_avg"`
}

// NationalPercent expresses each field as a percentage deviation from the national average.
type NationalPercent struct {
	CostOfLivingPercent *float64 `json:"cost_of_living_percent"`
	RentPercent         *float64 `json:"rent_percent"`
	WagePercent         *float64 `json:"wage_percent"`
}

// HybridMatch is a city annotated with its distance from a target hybrid proportion.
type HybridMatch struct {
	City
	DifferenceFromTarget float64 `db:"difference_from_target" json:"difference_from_target"`
}

type HybridMatchResult struct {
	Message          string        `json:"message,omitempty"`
	TargetProportion float64       `json:"target_proportion"`
	CitiesFound      int           `json:"cities_found"`
	Cities           []HybridMatch `json:"cities"`
}
