package statistics

import (
	"encoding/csv"
	"fmt"
	"io"
	"math/rand"
	"strconv"
	"strings"

	"github.com/healthd/healthd/internal/domain/engine"
)

// Sample is one population data point for the reference statistics.
type Sample struct {
	Age       int           `json:"age"`
	BMI       float64       `json:"bmi"`
	Gender    engine.Gender `json:"gender"`
	Exercises bool          `json:"exercises"`
	Smokes    bool          `json:"smokes"`
}

// Dataset is the population the statistics are computed over.
type Dataset []Sample

// Synthetic dataset parameters: ages drawn from N(50, 15) truncated to
// int, BMI from N(22, 3), genders evenly split, 30% exercise habit, 20%
// smokers. Rows outside age [20, 90] or BMI [15, 40] are dropped.
const (
	DefaultSeed    = 42
	DefaultSamples = 1000

	minSampleAge = 20
	maxSampleAge = 90
	minSampleBMI = 15
	maxSampleBMI = 40
)

// SyntheticDataset generates a reproducible reference population. The
// filter drops out-of-range draws, so the result holds fewer than n rows.
func SyntheticDataset(seed int64, n int) Dataset {
	r := rand.New(rand.NewSource(seed))
	ds := make(Dataset, 0, n)
	for i := 0; i < n; i++ {
		s := Sample{
			Age:       int(r.NormFloat64()*15 + 50),
			BMI:       r.NormFloat64()*3 + 22,
			Exercises: r.Float64() < 0.3,
			Smokes:    r.Float64() < 0.2,
		}
		if r.Float64() < 0.5 {
			s.Gender = engine.Male
		} else {
			s.Gender = engine.Female
		}
		if s.Age < minSampleAge || s.Age > maxSampleAge || s.BMI < minSampleBMI || s.BMI > maxSampleBMI {
			continue
		}
		ds = append(ds, s)
	}
	return ds
}

// LoadCSV reads a dataset from CSV with header columns age, bmi, gender
// and optional exercises, smokes. Rows with missing or malformed values
// are dropped, mirroring the tolerant ingestion of the reference data
// pipeline; the range filter applies as for the synthetic data.
func LoadCSV(r io.Reader) (Dataset, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	col := map[string]int{}
	for i, name := range header {
		col[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"age", "bmi", "gender"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("csv missing required column %q", required)
		}
	}

	var ds Dataset
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row: %w", err)
		}
		s, ok := parseRow(row, col)
		if !ok {
			continue
		}
		if s.Age < minSampleAge || s.Age > maxSampleAge || s.BMI < minSampleBMI || s.BMI > maxSampleBMI {
			continue
		}
		ds = append(ds, s)
	}
	if len(ds) == 0 {
		return nil, fmt.Errorf("csv contains no usable rows")
	}
	return ds, nil
}

func parseRow(row []string, col map[string]int) (Sample, bool) {
	field := func(name string) (string, bool) {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return "", false
		}
		return strings.TrimSpace(row[i]), true
	}

	var s Sample
	raw, ok := field("age")
	if !ok {
		return s, false
	}
	age, err := strconv.Atoi(raw)
	if err != nil {
		return s, false
	}
	s.Age = age

	raw, ok = field("bmi")
	if !ok {
		return s, false
	}
	bmi, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return s, false
	}
	s.BMI = bmi

	raw, ok = field("gender")
	if !ok {
		return s, false
	}
	s.Gender = engine.Gender(strings.ToLower(raw))
	if !s.Gender.Valid() {
		return s, false
	}

	if raw, ok := field("exercises"); ok {
		s.Exercises = parseBool(raw)
	}
	if raw, ok := field("smokes"); ok {
		s.Smokes = parseBool(raw)
	}
	return s, true
}

func parseBool(s string) bool {
	switch strings.ToLower(s) {
	case "true", "yes", "1", "y":
		return true
	}
	return false
}
