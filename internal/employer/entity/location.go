package entity

// CityStudentPopulation is the student population summed over a city's zip codes.
type CityStudentPopulation struct {
	CityID            int64 `json:"city_id"`
	StudentPopulation int64 `json:"student_population"`
}

type ZipStudentPopulation struct {
	Zip               string `db:"zip" json:"zip"`
	StudentPopulation *int64 `db:"student_population" json:"student_population"`
}

// WageHybrid pairs a city's average wage with its hybrid-worker proportion.
type WageHybrid struct {
	City                    string   `db:"-" json:"city"`
	AverageWage             float64  `db:"avg_wage" json:"average_wage"`
	ProportionHybridWorkers *float64 `db:"prop_hybrid_workers" json:"proportion_hybrid_workers"`
}
