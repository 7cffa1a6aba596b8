package testkit

import (
	"fmt"
	"math"
	"math/rand"
	"strconv"

	"companyclean/domain/dataset"
)

// CompanyGeneratorConfig configures the company data generator
type CompanyGeneratorConfig struct {
	CompanyCount int     `json:"company_count"`
	OutlierRate  float64 `json:"outlier_rate"` // share of rows given one extreme metric
	Seed         int64   `json:"seed"`
}

// DefaultCompanyConfig returns sensible defaults for company data generation
func DefaultCompanyConfig() CompanyGeneratorConfig {
	return CompanyGeneratorConfig{
		CompanyCount: 500,
		OutlierRate:  0.03,
		Seed:         42,
	}
}

// CompanyHeaders is the column layout of generated raw data
var CompanyHeaders = []string{
	"Company", "Industry",
	dataset.ColumnITSpend, dataset.ColumnEmployeeCount, dataset.ColumnPCCount,
	dataset.ColumnSize, dataset.ColumnRevenue,
	"Uses Cloud",
}

var industries = []string{"Manufacturing", "Retail", "Finance", "Healthcare", "Logistics", "Education"}

// CompanyDataGenerator generates raw company survey rows
type CompanyDataGenerator struct {
	config CompanyGeneratorConfig
	rng    *rand.Rand
}

// NewCompanyDataGenerator creates a new company data generator
func NewCompanyDataGenerator(config CompanyGeneratorConfig) *CompanyDataGenerator {
	return &CompanyDataGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// Generate returns a raw table plus the row positions that received an
// injected extreme value.
func (g *CompanyDataGenerator) Generate() (*dataset.Table, []int, error) {
	if g.config.CompanyCount <= 0 {
		return nil, nil, fmt.Errorf("company count must be > 0, got %d", g.config.CompanyCount)
	}
	if g.config.OutlierRate < 0 || g.config.OutlierRate > 1 {
		return nil, nil, fmt.Errorf("outlier rate must be within [0, 1], got %v", g.config.OutlierRate)
	}

	table := &dataset.Table{Headers: append([]string(nil), CompanyHeaders...)}
	var injected []int

	for i := 0; i < g.config.CompanyCount; i++ {
		employees := math.Round(math.Exp(g.rng.NormFloat64()*0.25 + 5.3))
		pcs := math.Round(employees * (0.7 + 0.2*g.rng.Float64()))
		size := math.Round(employees * (12 + 2*g.rng.NormFloat64()))
		itSpend := math.Round(pcs*(900+200*g.rng.NormFloat64())/100) * 100
		revenue := math.Round(employees*(150000+20000*g.rng.NormFloat64())/1000) * 1000

		metrics := []float64{itSpend, employees, pcs, size, revenue}
		if g.rng.Float64() < g.config.OutlierRate {
			col := g.rng.Intn(len(metrics))
			metrics[col] *= 20 + 10*g.rng.Float64()
			metrics[col] = math.Round(metrics[col])
			injected = append(injected, i)
		}

		row := []string{
			fmt.Sprintf("Company %04d", i+1),
			industries[g.rng.Intn(len(industries))],
		}
		for _, m := range metrics {
			row = append(row, strconv.FormatFloat(m, 'f', -1, 64))
		}
		row = append(row, strconv.FormatBool(g.rng.Float64() < 0.6))
		table.Rows = append(table.Rows, row)
	}

	return table, injected, nil
}
