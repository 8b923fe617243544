package engine

import "strings"

// Base advice per BMI band. Literal data; Generate copies a band before
// applying modifiers so the tables are never mutated.

var adviceBands = []band[AdviceSet]{
	{16, AdviceSet{ // severe underweight
		AdviceExercise: {
			"Keep strenuous aerobic exercise to a minimum",
			"Center workouts on strength training (2-3 times a week)",
			"Maintain flexibility with stretching",
			"Rest immediately when you feel fatigued",
		},
		AdviceDiet: {
			"Eat small, frequent meals, around six per day",
			"Include quality protein at every meal (meat, fish, eggs, soy products)",
			"Actively take in healthy fats (nuts, avocado, olive oil)",
			"Choose easily digestible carbohydrates (rice, bread, pasta)",
		},
		AdviceLifestyle: {
			"Record your weight every day",
			"Secure enough sleep (at least 7-8 hours)",
			"See a doctor for regular checkups",
			"Avoid excessive exercise and activity",
		},
		AdviceMentalHealth: {
			"Avoid unreasonable dieting",
			"Do not bottle up stress about gaining weight",
			"Consult a specialist when needed",
		},
	}},
	{18.5, AdviceSet{ // underweight
		AdviceExercise: {
			"Moderate strength training (2-3 times a week)",
			"Light aerobic exercise such as walking",
			"Yoga or gentle stretching",
		},
		AdviceDiet: {
			"Three regular meals a day plus two snacks",
			"Make a point of eating protein",
			"Aim for nutritionally balanced meals",
			"Use a calorie tracking app",
		},
		AdviceLifestyle: {
			"Keep a regular daily rhythm",
			"Manage your weight regularly",
			"Take adequate rest",
		},
		AdviceMentalHealth: {
			"Stay mindful of healthy weight management",
			"Accept support from the people around you",
		},
	}},
	{25, AdviceSet{ // normal weight
		AdviceExercise: {
			"Regular aerobic exercise (3-4 times a week)",
			"Strength training (2-3 times a week)",
			"Stretching and flexibility work",
			"Enjoy sports you like",
		},
		AdviceDiet: {
			"Well-balanced meals",
			"Keep portions appropriate",
			"Eat plenty of vegetables",
			"Drink plenty of water",
		},
		AdviceLifestyle: {
			"Maintain a regular daily rhythm",
			"Get regular health checkups",
			"Keep up a moderate exercise habit",
		},
		AdviceMentalHealth: {
			"Find ways to relieve stress",
			"Refresh yourself with hobbies and exercise",
		},
	}},
	{30, AdviceSet{ // obese class 1
		AdviceExercise: {
			"Focus on aerobic exercise (4-5 times a week)",
			"Combine with strength training",
			"Start with walking",
			"Gradually raise the exercise intensity",
		},
		AdviceDiet: {
			"Right-size your portions",
			"Go easy on carbohydrates",
			"Eat vegetables first",
			"Cut back on snacking",
			"Keep a food diary",
		},
		AdviceLifestyle: {
			"Record your weight every day",
			"Take the stairs",
			"Move your body throughout the day",
		},
		AdviceMentalHealth: {
			"Set goals you can sustain",
			"Celebrate small wins",
			"Focus on steady, continued effort",
		},
	}},
	{inf, AdviceSet{ // obese class 2 and above
		AdviceExercise: {
			"Consult a doctor before starting to exercise",
			"Begin with low-intensity aerobic exercise",
			"Consider exercising in water",
			"Gradually extend your exercise time",
		},
		AdviceDiet: {
			"Consult a dietitian",
			"Keep a record of what you eat",
			"Slow down your eating pace",
			"Eat more vegetables",
			"Limit sugar and fat",
		},
		AdviceLifestyle: {
			"See a doctor regularly",
			"Record weight and condition daily",
			"Improve your daily rhythm",
		},
		AdviceMentalHealth: {
			"Get support from a specialist",
			"Lean on family and friends for support",
			"Aim for steady improvement without rushing",
		},
	}},
}

// Tips appended by the age and gender modifiers.
const (
	seniorJointTip    = "Choose exercises that are gentle on the joints"
	seniorFallTip     = "Take care to prevent falls"
	youthExerciseTip  = "Moderate exercise suited to a growing body"
	youthNutritionTip = "Get the nutrients needed for growth"
	femaleDietTip     = "Make a point of getting iron and calcium"
	femaleCycleTip    = "Manage your condition around your menstrual cycle"
	maleProteinTip    = "Aim for adequate protein intake"
)

// Generate maps (BMI, age, gender) to a categorized list of lifestyle
// recommendations. Order of application matters for exact reproduction:
// band selection first, then age modifiers, then gender modifiers, each
// appending to the end of its category's list. The age > 65 modifier
// additionally rewrites "intensity" to "reduced load" in place in every
// exercise item before its tips are appended.
func Generate(bmi float64, age int, gender Gender) AdviceSet {
	base := matchBand(adviceBands, bmi)

	advice := make(AdviceSet, len(base))
	for cat, items := range base {
		advice[cat] = append([]string(nil), items...)
	}

	if age > 65 {
		for i, item := range advice[AdviceExercise] {
			advice[AdviceExercise][i] = strings.ReplaceAll(item, "intensity", "reduced load")
		}
		advice[AdviceExercise] = append(advice[AdviceExercise], seniorJointTip)
		advice[AdviceLifestyle] = append(advice[AdviceLifestyle], seniorFallTip)
	} else if age < 25 {
		advice[AdviceExercise] = append(advice[AdviceExercise], youthExerciseTip)
		advice[AdviceDiet] = append(advice[AdviceDiet], youthNutritionTip)
	}

	if gender == Female {
		advice[AdviceDiet] = append(advice[AdviceDiet], femaleDietTip)
		advice[AdviceLifestyle] = append(advice[AdviceLifestyle], femaleCycleTip)
	} else {
		advice[AdviceDiet] = append(advice[AdviceDiet], maleProteinTip)
	}

	return advice
}
