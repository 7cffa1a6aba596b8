package profiling

import (
	"math"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"
)

// Summary holds descriptive statistics of one numeric column
type Summary struct {
	Count    int     `json:"count"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Mean     float64 `json:"mean"`
	Median   float64 `json:"median"`
	StdDev   float64 `json:"std_dev"`
	Skewness float64 `json:"skewness"`
	Fence    Fence   `json:"fence"`
	Outliers int     `json:"outliers"`
}

// DistributionAnalyzer handles distribution shape analysis
type DistributionAnalyzer struct{}

// NewDistributionAnalyzer creates a new distribution analyzer
func NewDistributionAnalyzer() *DistributionAnalyzer {
	return &DistributionAnalyzer{}
}

// Summarize computes the summary statistics and Tukey fence of data
func (da *DistributionAnalyzer) Summarize(data []float64) (Summary, error) {
	summary := Summary{Count: len(data)}

	min, err := stats.Min(data)
	if err != nil {
		return summary, err
	}
	max, err := stats.Max(data)
	if err != nil {
		return summary, err
	}
	median, err := stats.Median(data)
	if err != nil {
		return summary, err
	}

	// Sample standard deviation; a single value has none.
	mean, stdDev := stat.MeanStdDev(data, nil)
	if len(data) < 2 {
		stdDev = 0
	}

	skewness := 0.0
	if len(data) >= 3 && stdDev > 0 {
		skewness = stat.Skew(data, nil)
	}
	if math.IsNaN(skewness) {
		skewness = 0
	}

	fence, err := ComputeFence(data)
	if err != nil {
		return summary, err
	}

	summary.Min = min
	summary.Max = max
	summary.Mean = mean
	summary.Median = median
	summary.StdDev = stdDev
	summary.Skewness = skewness
	summary.Fence = fence
	summary.Outliers = fence.CountOutliers(data)
	return summary, nil
}
