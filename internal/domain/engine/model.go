package engine

import "math"

// Gender is the closed set of gender tokens the engine accepts.
type Gender string

const (
	Male   Gender = "male"
	Female Gender = "female"
)

// Valid reports whether g is one of the two accepted tokens.
func (g Gender) Valid() bool { return g == Male || g == Female }

// Measurement is a single set of raw anthropometric inputs. It is never
// persisted on its own; the derived AssessmentRecord carries a copy.
type Measurement struct {
	Age    int     `json:"age"`
	Height float64 `json:"height"` // cm
	Weight float64 `json:"weight"` // kg
	Gender Gender  `json:"gender"`
}

// BMI computes weight(kg) / height(m)^2. It is always recomputed from the
// source inputs and never stored independently of them.
func (m Measurement) BMI() float64 {
	h := m.Height / 100
	return m.Weight / (h * h)
}

// StandardWeight returns the reference weight (BMI 22) for a height in cm.
func StandardWeight(height float64) float64 {
	h := height / 100
	return 22 * h * h
}

// Disease is the closed set of conditions the risk estimator scores.
// Extending it requires updating the base-rate and gender-factor tables
// together; the estimator treats an unknown disease as a programming error.
type Disease string

const (
	Diabetes     Disease = "diabetes"
	Hypertension Disease = "hypertension"
	HeartDisease Disease = "heart-disease"
)

// Diseases returns the fixed disease set in display order.
func Diseases() []Disease {
	return []Disease{Diabetes, Hypertension, HeartDisease}
}

// RiskProfile maps each disease to an estimated probability in [0, 0.95].
type RiskProfile map[Disease]float64

// AdviceCategory is the closed set of lifestyle advice categories.
type AdviceCategory string

const (
	AdviceExercise     AdviceCategory = "exercise"
	AdviceDiet         AdviceCategory = "diet"
	AdviceLifestyle    AdviceCategory = "lifestyle"
	AdviceMentalHealth AdviceCategory = "mental-health"
)

// AdviceCategories returns the fixed category set in display order.
func AdviceCategories() []AdviceCategory {
	return []AdviceCategory{AdviceExercise, AdviceDiet, AdviceLifestyle, AdviceMentalHealth}
}

// AdviceSet maps each advice category to an ordered list of
// recommendations. Non-empty for every category for every valid input.
type AdviceSet map[AdviceCategory][]string

// Classification is the outcome of classifying one (BMI, age, gender)
// triple: a category label, a severity icon, a display background color
// token and one advisory sentence.
type Classification struct {
	Category string `json:"category"`
	Icon     string `json:"icon"`
	BGColor  string `json:"bg_color"`
	Advice   string `json:"advice"`
}

// band is one threshold row of a rule table: the outcome applies while
// bmi < upper. The last band of a table uses +Inf as its bound so the
// tables stay exhaustive by construction.
type band[T any] struct {
	upper   float64
	outcome T
}

func matchBand[T any](bands []band[T], bmi float64) T {
	for _, b := range bands {
		if bmi < b.upper {
			return b.outcome
		}
	}
	// Unreachable while the last band bound is +Inf.
	return bands[len(bands)-1].outcome
}

var inf = math.Inf(1)
