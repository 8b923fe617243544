package engine

// Plausibility limits for raw measurements. Values outside these ranges
// produce warnings but never block classification.
const (
	minPlausibleHeight = 140.0
	maxPlausibleHeight = 220.0
	minPlausibleWeight = 30.0
	maxPlausibleWeight = 200.0
	minPlausibleBMI    = 12.0 // commonly cited survival limit
	maxPlausibleBMI    = 60.0
)

// Validate checks raw inputs for physiological plausibility and returns
// advisory warnings. All rules are independent and may fire together.
// The returned slice is empty for plausible inputs; it never carries an
// error and downstream computation proceeds regardless.
func Validate(height, weight float64, age int) []string {
	var warnings []string

	if height < minPlausibleHeight {
		warnings = append(warnings, "height below typical range (under 140cm); please verify the input")
	} else if height > maxPlausibleHeight {
		warnings = append(warnings, "height above typical range (over 220cm); please verify the input")
	}

	if weight < minPlausibleWeight {
		warnings = append(warnings, "weight below typical range (under 30kg); please verify the input")
	} else if weight > maxPlausibleWeight {
		warnings = append(warnings, "weight above typical range (over 200kg); please verify the input")
	}

	h := height / 100
	bmi := weight / (h * h)
	if bmi < minPlausibleBMI {
		warnings = append(warnings, "implausibly low BMI (under 12); please verify the input")
	} else if bmi > maxPlausibleBMI {
		warnings = append(warnings, "implausibly high BMI (over 60); please verify the input")
	}

	return warnings
}
