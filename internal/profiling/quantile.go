package profiling

import (
	"fmt"
	"math"
	"sort"
)

// TukeyK is the fence multiplier applied to the IQR
const TukeyK = 1.5

// Percentile returns the p-th percentile (0..100) of data using linear
// interpolation between order statistics at rank p/100*(n-1). This is the
// estimator numpy uses by default. data is not modified.
func Percentile(data []float64, p float64) (float64, error) {
	if len(data) == 0 {
		return 0, fmt.Errorf("percentile of empty data")
	}
	if math.IsNaN(p) || p < 0 || p > 100 {
		return 0, fmt.Errorf("percentile %v out of range [0, 100]", p)
	}
	sorted := make([]float64, len(data))
	copy(sorted, data)
	sort.Float64s(sorted)
	return percentileSorted(sorted, p), nil
}

func percentileSorted(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 1 {
		return sorted[0]
	}
	rank := p / 100 * float64(n-1)
	lo := int(math.Floor(rank))
	if lo >= n-1 {
		return sorted[n-1]
	}
	return lerp(sorted[lo], sorted[lo+1], rank-float64(lo))
}

// lerp interpolates from whichever end is closer to t so that a == b
// always yields exactly a.
func lerp(a, b, t float64) float64 {
	diff := b - a
	if t >= 0.5 {
		return b - diff*(1-t)
	}
	return a + diff*t
}

// Fence holds the quartiles of a column and the Tukey bounds derived from them
type Fence struct {
	Q1    float64 `json:"q1"`
	Q3    float64 `json:"q3"`
	IQR   float64 `json:"iqr"`
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

// ComputeFence computes Q1, Q3 and the [Q1-1.5*IQR, Q3+1.5*IQR] bounds
func ComputeFence(data []float64) (Fence, error) {
	if len(data) == 0 {
		return Fence{}, fmt.Errorf("fence of empty data")
	}
	sorted := make([]float64, len(data))
	copy(sorted, data)
	sort.Float64s(sorted)

	q1 := percentileSorted(sorted, 25)
	q3 := percentileSorted(sorted, 75)
	iqr := q3 - q1
	return Fence{
		Q1:    q1,
		Q3:    q3,
		IQR:   iqr,
		Lower: q1 - TukeyK*iqr,
		Upper: q3 + TukeyK*iqr,
	}, nil
}

// IsOutlier reports whether v lies strictly outside the fence
func (f Fence) IsOutlier(v float64) bool {
	return v < f.Lower || v > f.Upper
}

// Mask flags every value outside the fence
func (f Fence) Mask(data []float64) []bool {
	mask := make([]bool, len(data))
	for i, v := range data {
		mask[i] = f.IsOutlier(v)
	}
	return mask
}

// CountOutliers returns how many values lie outside the fence
func (f Fence) CountOutliers(data []float64) int {
	n := 0
	for _, v := range data {
		if f.IsOutlier(v) {
			n++
		}
	}
	return n
}
