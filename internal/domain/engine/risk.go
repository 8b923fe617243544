package engine

import "math"

// riskTriple carries one (diabetes, hypertension, heart-disease) rate row.
type riskTriple struct {
	diabetes     float64
	hypertension float64
	heartDisease float64
}

func (t riskTriple) get(d Disease) float64 {
	switch d {
	case Diabetes:
		return t.diabetes
	case Hypertension:
		return t.hypertension
	case HeartDisease:
		return t.heartDisease
	}
	// Closed enumeration; see Disease.
	panic("engine: unknown disease " + string(d))
}

// Base risk per BMI band. These are contractually exact heuristic
// constants, not fitted model outputs.
var baseRiskBands = []band[riskTriple]{
	{18.5, riskTriple{0.15, 0.10, 0.10}},
	{25, riskTriple{0.10, 0.10, 0.10}},
	{30, riskTriple{0.20, 0.25, 0.20}},
	{35, riskTriple{0.35, 0.40, 0.30}},
	{inf, riskTriple{0.50, 0.60, 0.40}},
}

// Per-disease gender multipliers.
var genderFactors = map[Gender]riskTriple{
	Male:   {1.1, 1.2, 1.3},
	Female: {1.0, 1.0, 1.0},
}

// maxRisk caps every estimate; the clamp is the only nonlinearity.
const maxRisk = 0.95

// AgeFactor is zero below age 30 and grows linearly afterward.
func AgeFactor(age int) float64 {
	return math.Max(0, float64(age-30)/50)
}

// Estimate maps (BMI, age, gender) to per-disease probability estimates:
// final = min(0.95, base * (1 + ageFactor) * genderFactor). Deterministic
// scoring heuristic; no cross-disease correlation is modeled.
func Estimate(bmi float64, age int, gender Gender) RiskProfile {
	base := matchBand(baseRiskBands, bmi)
	gf := genderFactors[gender]
	af := AgeFactor(age)

	risks := make(RiskProfile, 3)
	for _, d := range Diseases() {
		risks[d] = math.Min(maxRisk, base.get(d)*(1+af)*gf.get(d))
	}
	return risks
}

// RiskLevel buckets a probability for display: low below 0.3, moderate
// below 0.6, high otherwise.
func RiskLevel(p float64) string {
	switch {
	case p < 0.3:
		return "low"
	case p < 0.6:
		return "moderate"
	default:
		return "high"
	}
}
