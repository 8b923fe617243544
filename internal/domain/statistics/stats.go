package statistics

import (
	"fmt"
	"math"
	"sort"

	"github.com/healthd/healthd/internal/domain/engine"
)

// GroupStats summarizes one population slice.
type GroupStats struct {
	Count     int     `json:"count"`
	BMIMean   float64 `json:"bmi_mean"`
	BMIMedian float64 `json:"bmi_median"`
	BMIStdDev float64 `json:"bmi_std_dev"`
	AgeMean   float64 `json:"age_mean"`
}

// Summary computes group statistics for the whole dataset and per gender.
// Keys: "overall", "male", "female".
func Summary(ds Dataset) map[string]GroupStats {
	byGender := map[engine.Gender]Dataset{}
	for _, s := range ds {
		byGender[s.Gender] = append(byGender[s.Gender], s)
	}
	return map[string]GroupStats{
		"overall": groupStats(ds),
		"male":    groupStats(byGender[engine.Male]),
		"female":  groupStats(byGender[engine.Female]),
	}
}

func groupStats(ds Dataset) GroupStats {
	n := len(ds)
	if n == 0 {
		return GroupStats{}
	}
	var bmiSum, ageSum float64
	bmis := make([]float64, n)
	for i, s := range ds {
		bmiSum += s.BMI
		ageSum += float64(s.Age)
		bmis[i] = s.BMI
	}
	mean := bmiSum / float64(n)

	sort.Float64s(bmis)
	var median float64
	if n%2 == 1 {
		median = bmis[n/2]
	} else {
		median = (bmis[n/2-1] + bmis[n/2]) / 2
	}

	// Sample standard deviation (n-1 denominator).
	var std float64
	if n > 1 {
		var ss float64
		for _, b := range bmis {
			d := b - mean
			ss += d * d
		}
		std = math.Sqrt(ss / float64(n-1))
	}

	return GroupStats{
		Count:     n,
		BMIMean:   mean,
		BMIMedian: median,
		BMIStdDev: std,
		AgeMean:   ageSum / float64(n),
	}
}

// HistogramBin is one bucket of the BMI distribution.
type HistogramBin struct {
	Low   float64 `json:"low"`
	High  float64 `json:"high"`
	Count int     `json:"count"`
}

// DefaultHistogramBins matches the reference distribution plot.
const DefaultHistogramBins = 30

// Histogram buckets the dataset's BMI values into bins equal-width bins
// spanning [min, max]. The top edge is inclusive so the maximum lands in
// the last bin.
func Histogram(ds Dataset, bins int) []HistogramBin {
	if len(ds) == 0 || bins <= 0 {
		return nil
	}
	lo, hi := ds[0].BMI, ds[0].BMI
	for _, s := range ds {
		if s.BMI < lo {
			lo = s.BMI
		}
		if s.BMI > hi {
			hi = s.BMI
		}
	}
	if hi == lo {
		return []HistogramBin{{Low: lo, High: hi, Count: len(ds)}}
	}
	width := (hi - lo) / float64(bins)
	out := make([]HistogramBin, bins)
	for i := range out {
		out[i] = HistogramBin{Low: lo + float64(i)*width, High: lo + float64(i+1)*width}
	}
	for _, s := range ds {
		i := int((s.BMI - lo) / width)
		if i >= bins {
			i = bins - 1
		}
		out[i].Count++
	}
	return out
}

// Comparison places one person inside their demographic slice.
type Comparison struct {
	AgeRange   string  `json:"age_range"`
	Category   string  `json:"category"`
	WaistNote  string  `json:"waist_note"`
	Percentage float64 `json:"percentage"`
	GroupSize  int     `json:"group_size"`
}

var ageRanges = []struct {
	label     string
	low, high int // high exclusive; 0 high means open-ended
}{
	{"20-29", 20, 30},
	{"30-39", 30, 40},
	{"40-49", 40, 50},
	{"50-59", 50, 60},
	{"60-69", 60, 70},
	{"70+", 70, 0},
}

func ageRangeFor(age int) (string, bool) {
	for _, r := range ageRanges {
		if age >= r.low && (r.high == 0 || age < r.high) {
			return r.label, true
		}
	}
	return "", false
}

// CompareUser reports what share of the user's gender and age group falls
// in the same BMI category (below 25 or not). The waist note carries the
// metabolic screening circumference that goes with the category: 85cm for
// men, 90cm for women.
func CompareUser(ds Dataset, bmi float64, age int, gender engine.Gender) (*Comparison, error) {
	if !gender.Valid() {
		return nil, fmt.Errorf("gender must be %q or %q", engine.Male, engine.Female)
	}
	ageRange, ok := ageRangeFor(age)
	if !ok {
		return nil, fmt.Errorf("no reference statistics for age %d", age)
	}

	waist := 90
	if gender == engine.Male {
		waist = 85
	}
	under := bmi < 25
	category := "bmi-25-or-over"
	note := fmt.Sprintf("BMI >= 25, waist >= %dcm", waist)
	if under {
		category = "bmi-under-25"
		note = fmt.Sprintf("BMI < 25, waist < %dcm", waist)
	}

	var group, matching int
	for _, s := range ds {
		if s.Gender != gender {
			continue
		}
		if r, _ := ageRangeFor(s.Age); r != ageRange {
			continue
		}
		group++
		if (s.BMI < 25) == under {
			matching++
		}
	}
	if group == 0 {
		return nil, fmt.Errorf("no reference samples for %s aged %s", gender, ageRange)
	}

	return &Comparison{
		AgeRange:   ageRange,
		Category:   category,
		WaistNote:  note,
		Percentage: 100 * float64(matching) / float64(group),
		GroupSize:  group,
	}, nil
}
