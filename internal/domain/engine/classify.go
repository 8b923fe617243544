package engine

// Category labels, ordered by severity within each age bracket.
const (
	CategorySevereUnderweight = "severe-underweight"
	CategoryUnderweight       = "underweight"
	CategoryMildUnderweight   = "mild-underweight"
	CategoryNormalWeight      = "normal-weight"
	CategoryOverweight        = "overweight"
	CategoryObese             = "obese"
	CategorySlightlyHigh      = "slightly-high"
	CategoryHigh              = "high"
	CategoryObese1            = "obese-1"
	CategoryObese2            = "obese-2"
	CategoryObese3            = "obese-3"
	CategoryObese4            = "obese-4"
)

// Display color tokens shared across the bracket tables.
const (
	bgBlue   = "#e3f2fd"
	bgGreen  = "#e8f5e9"
	bgYellow = "#fff3e0"
	bgOrange = "#fbe9e7"
	bgRed    = "#ffebee"
)

// Classification thresholds per age bracket. The tables are literal data,
// not branch logic: one first-match lookup keeps each table mutually
// exclusive and exhaustive. Bounds are exclusive, so a BMI exactly at a
// threshold belongs to the higher band.

// age < 18
var juvenileBands = []band[Classification]{
	{16, Classification{CategorySevereUnderweight, "🔵", bgBlue, "Weight gain may be needed."}},
	{17, Classification{CategoryUnderweight, "🔵", bgBlue, "Consider putting on a little more weight."}},
	{25, Classification{CategoryNormalWeight, "🟢", bgGreen, "A healthy weight."}},
	{30, Classification{CategoryOverweight, "🟡", bgYellow, "Aim for moderate exercise."}},
	{inf, Classification{CategoryObese, "🔴", bgRed, "Consider improving your lifestyle habits."}},
}

// age >= 65
var seniorBands = []band[Classification]{
	{18.5, Classification{CategoryUnderweight, "🔵", bgBlue, "Consider improving your nutritional balance."}},
	{25, Classification{CategoryNormalWeight, "🟢", bgGreen, "You are maintaining a healthy weight."}},
	{27, Classification{CategorySlightlyHigh, "🟡", bgYellow, "Aim to hold steady or improve gently."}},
	{inf, Classification{CategoryHigh, "🟠", bgOrange, "Aim for gradual improvement."}},
}

// 18 <= age < 65, thresholds per the Japan Society for the Study of Obesity
var adultBands = []band[Classification]{
	{16, Classification{CategorySevereUnderweight, "🔵", bgBlue, "We recommend consulting a medical professional."}},
	{17, Classification{CategoryUnderweight, "🔵", bgBlue, "Consider gaining weight."}},
	{18.5, Classification{CategoryMildUnderweight, "🔵", bgBlue, "Consider putting on a little more weight."}},
	{25, Classification{CategoryNormalWeight, "🟢", bgGreen, "A healthy weight. Keep it up."}},
	{30, Classification{CategoryObese1, "🟡", bgYellow, "Consider reviewing your lifestyle habits."}},
	{35, Classification{CategoryObese2, "🟠", bgOrange, "A planned improvement program is recommended."}},
	{40, Classification{CategoryObese3, "🔴", bgRed, "We recommend consulting a medical professional."}},
	{inf, Classification{CategoryObese4, "🔴", bgRed, "Please consult a medical professional urgently."}},
}

// Classify maps a (BMI, age, gender) triple to exactly one classification.
// The age brackets are non-overlapping and evaluated in order; gender is
// accepted for contract symmetry with the other engine functions but does
// not currently shift any threshold.
func Classify(bmi float64, age int, gender Gender) Classification {
	switch {
	case age < 18:
		return matchBand(juvenileBands, bmi)
	case age >= 65:
		return matchBand(seniorBands, bmi)
	default:
		return matchBand(adultBands, bmi)
	}
}
