package statistics

import (
	"math"
	"strings"
	"testing"

	"github.com/healthd/healthd/internal/domain/engine"
)

func TestSyntheticDataset_Reproducible(t *testing.T) {
	a := SyntheticDataset(DefaultSeed, DefaultSamples)
	b := SyntheticDataset(DefaultSeed, DefaultSamples)
	if len(a) != len(b) {
		t.Fatalf("same seed produced different sizes: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("same seed diverged at sample %d", i)
		}
	}
}

func TestSyntheticDataset_WithinFilters(t *testing.T) {
	ds := SyntheticDataset(DefaultSeed, DefaultSamples)
	if len(ds) == 0 || len(ds) > DefaultSamples {
		t.Fatalf("unexpected dataset size %d", len(ds))
	}
	for _, s := range ds {
		if s.Age < 20 || s.Age > 90 {
			t.Fatalf("age %d outside filter", s.Age)
		}
		if s.BMI < 15 || s.BMI > 40 {
			t.Fatalf("BMI %.2f outside filter", s.BMI)
		}
		if !s.Gender.Valid() {
			t.Fatalf("invalid gender %q", s.Gender)
		}
	}
}

// The population is drawn around BMI 22 and age 50; the filtered means
// must stay in that neighborhood.
func TestSyntheticDataset_CenteredOnParameters(t *testing.T) {
	stats := groupStats(SyntheticDataset(DefaultSeed, DefaultSamples))
	if math.Abs(stats.BMIMean-22) > 1 {
		t.Errorf("BMI mean %.2f far from 22", stats.BMIMean)
	}
	if math.Abs(stats.AgeMean-50) > 3 {
		t.Errorf("age mean %.2f far from 50", stats.AgeMean)
	}
}

func fixedDataset() Dataset {
	return Dataset{
		{Age: 25, BMI: 20, Gender: engine.Male},
		{Age: 27, BMI: 22, Gender: engine.Male},
		{Age: 29, BMI: 30, Gender: engine.Male},
		{Age: 25, BMI: 24, Gender: engine.Female},
		{Age: 28, BMI: 26, Gender: engine.Female},
		{Age: 45, BMI: 21, Gender: engine.Female},
	}
}

func TestSummary(t *testing.T) {
	groups := Summary(fixedDataset())

	overall := groups["overall"]
	if overall.Count != 6 {
		t.Fatalf("expected 6 samples overall, got %d", overall.Count)
	}
	if math.Abs(overall.BMIMean-23.8333) > 0.001 {
		t.Errorf("unexpected overall mean %.4f", overall.BMIMean)
	}
	if math.Abs(overall.BMIMedian-23) > 0.001 {
		t.Errorf("unexpected overall median %.4f", overall.BMIMedian)
	}

	male := groups["male"]
	if male.Count != 3 || math.Abs(male.BMIMean-24) > 0.001 {
		t.Errorf("unexpected male stats %+v", male)
	}
	if math.Abs(male.BMIMedian-22) > 0.001 {
		t.Errorf("unexpected male median %.4f", male.BMIMedian)
	}
	// Sample std of {20, 22, 30}: sqrt(((−4)²+(−2)²+6²)/2) = sqrt(28).
	if math.Abs(male.BMIStdDev-math.Sqrt(28)) > 0.001 {
		t.Errorf("unexpected male std %.4f", male.BMIStdDev)
	}
}

func TestSummary_EmptyGroup(t *testing.T) {
	groups := Summary(Dataset{{Age: 30, BMI: 22, Gender: engine.Male}})
	if groups["female"].Count != 0 {
		t.Errorf("expected empty female group, got %+v", groups["female"])
	}
}

func TestHistogram(t *testing.T) {
	ds := Dataset{
		{BMI: 15}, {BMI: 16}, {BMI: 24}, {BMI: 25},
	}
	bins := Histogram(ds, 2)
	if len(bins) != 2 {
		t.Fatalf("expected 2 bins, got %d", len(bins))
	}
	if bins[0].Count != 2 || bins[1].Count != 2 {
		t.Errorf("unexpected counts: %+v", bins)
	}
	if bins[0].Low != 15 || bins[1].High != 25 {
		t.Errorf("unexpected edges: %+v", bins)
	}

	total := 0
	for _, b := range Histogram(SyntheticDataset(DefaultSeed, DefaultSamples), DefaultHistogramBins) {
		total += b.Count
	}
	if want := len(SyntheticDataset(DefaultSeed, DefaultSamples)); total != want {
		t.Errorf("histogram counts %d do not sum to dataset size %d", total, want)
	}
}

func TestCompareUser(t *testing.T) {
	cmp, err := CompareUser(fixedDataset(), 21, 25, engine.Male)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cmp.AgeRange != "20-29" || cmp.Category != "bmi-under-25" {
		t.Errorf("unexpected comparison: %+v", cmp)
	}
	// Males aged 20-29: BMIs 20, 22, 30 -> two of three under 25.
	if math.Abs(cmp.Percentage-66.6667) > 0.001 {
		t.Errorf("expected 66.67%%, got %.4f", cmp.Percentage)
	}
	if cmp.GroupSize != 3 {
		t.Errorf("expected group of 3, got %d", cmp.GroupSize)
	}
	if !strings.Contains(cmp.WaistNote, "85cm") {
		t.Errorf("expected male waist threshold in note, got %q", cmp.WaistNote)
	}

	cmp, err = CompareUser(fixedDataset(), 27, 26, engine.Female)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cmp.Category != "bmi-25-or-over" || !strings.Contains(cmp.WaistNote, "90cm") {
		t.Errorf("unexpected comparison: %+v", cmp)
	}
	// Females aged 20-29: BMIs 24, 26 -> one of two at or over 25.
	if math.Abs(cmp.Percentage-50) > 0.001 {
		t.Errorf("expected 50%%, got %.4f", cmp.Percentage)
	}
}

func TestCompareUser_SeventyPlus(t *testing.T) {
	ds := Dataset{
		{Age: 72, BMI: 23, Gender: engine.Male},
		{Age: 85, BMI: 27, Gender: engine.Male},
	}
	cmp, err := CompareUser(ds, 22, 78, engine.Male)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cmp.AgeRange != "70+" || cmp.GroupSize != 2 {
		t.Errorf("unexpected comparison: %+v", cmp)
	}
}

func TestCompareUser_Errors(t *testing.T) {
	if _, err := CompareUser(fixedDataset(), 22, 15, engine.Male); err == nil {
		t.Error("expected error for age under 20")
	}
	if _, err := CompareUser(fixedDataset(), 22, 30, "other"); err == nil {
		t.Error("expected error for invalid gender")
	}
	if _, err := CompareUser(fixedDataset(), 22, 65, engine.Male); err == nil {
		t.Error("expected error for an empty demographic group")
	}
}
