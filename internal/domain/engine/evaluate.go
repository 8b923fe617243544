package engine

// Result bundles every derived output of one evaluation. It carries no
// identity or timestamp; the assessment service stamps those when it
// builds the persisted record.
type Result struct {
	BMI            float64        `json:"bmi"`
	StandardWeight float64        `json:"standard_weight"`
	Warnings       []string       `json:"warnings,omitempty"`
	Classification Classification `json:"classification"`
	Risks          RiskProfile    `json:"risks"`
	Advice         AdviceSet      `json:"advice"`
}

// Evaluate runs the validator, classifier, risk estimator and advice
// generator over one measurement. Pure and deterministic: same inputs,
// same outputs. Warnings never suppress the derived outputs.
func Evaluate(m Measurement) Result {
	bmi := m.BMI()
	return Result{
		BMI:            bmi,
		StandardWeight: StandardWeight(m.Height),
		Warnings:       Validate(m.Height, m.Weight, m.Age),
		Classification: Classify(bmi, m.Age, m.Gender),
		Risks:          Estimate(bmi, m.Age, m.Gender),
		Advice:         Generate(bmi, m.Age, m.Gender),
	}
}

// RiskLevels buckets every probability of a profile for display.
func RiskLevels(risks RiskProfile) map[Disease]string {
	levels := make(map[Disease]string, len(risks))
	for d, p := range risks {
		levels[d] = RiskLevel(p)
	}
	return levels
}
