package export

import (
	"github.com/fdg312/health-export/internal/snapshot"
	"github.com/fdg312/health-export/internal/units"
)

// Metric describes one exported field. The ordered table below drives every
// serializer, so field order never depends on reflection or map iteration.
type Metric struct {
	Key   string // flat metadata key
	Field string // key inside the category's JSON object
	Label string
	Kind  units.Kind
	Unit  string // label for Count metrics only
	value func(s *snapshot.Snapshot) (float64, bool)
}

// Reading is a metric present in a snapshot, in canonical units.
type Reading struct {
	Metric
	Category snapshot.Category
	Value    float64
}

// Quantity converts the reading for machine formats.
func (r Reading) Quantity(sys units.System) units.Quantity {
	q := units.Convert(r.Kind, r.Value, sys)
	if r.Kind == units.Count {
		q.Unit = r.Unit
	}
	return q
}

// Display renders the reading for people.
func (r Reading) Display(sys units.System) string {
	s := units.Display(r.Kind, r.Value, sys)
	if r.Kind == units.Count && r.Unit != "" {
		s += " " + r.Unit
	}
	return s
}

type categoryMetrics struct {
	Category snapshot.Category
	Metrics  []Metric
}

func opt(p *float64) (float64, bool) {
	if p == nil {
		return 0, false
	}
	return *p, true
}

func optInt(p *int) (float64, bool) {
	if p == nil {
		return 0, false
	}
	return float64(*p), true
}

func positive(v float64) (float64, bool) { return v, v > 0 }

type snap = snapshot.Snapshot

var metricTable = []categoryMetrics{
	{snapshot.CategorySleep, []Metric{
		{"sleep_total", "total_duration", "Total Sleep", units.DurationHours, "", func(s *snap) (float64, bool) { return positive(s.Sleep.Total) }},
		{"sleep_in_bed", "in_bed_duration", "Time in Bed", units.DurationHours, "", func(s *snap) (float64, bool) { return positive(s.Sleep.InBed) }},
		{"sleep_deep", "deep_duration", "Deep Sleep", units.DurationHours, "", func(s *snap) (float64, bool) { return positive(s.Sleep.Deep) }},
		{"sleep_rem", "rem_duration", "REM Sleep", units.DurationHours, "", func(s *snap) (float64, bool) { return positive(s.Sleep.REM) }},
		{"sleep_core", "core_duration", "Core Sleep", units.DurationHours, "", func(s *snap) (float64, bool) { return positive(s.Sleep.Core) }},
		{"sleep_awake", "awake_duration", "Awake", units.DurationHours, "", func(s *snap) (float64, bool) { return positive(s.Sleep.Awake) }},
	}},
	{snapshot.CategoryActivity, []Metric{
		{"steps", "steps", "Steps", units.Count, "", func(s *snap) (float64, bool) { return optInt(s.Activity.Steps) }},
		{"active_calories", "active_energy", "Active Energy", units.Energy, "", func(s *snap) (float64, bool) { return opt(s.Activity.ActiveEnergy) }},
		{"basal_calories", "basal_energy", "Resting Energy", units.Energy, "", func(s *snap) (float64, bool) { return opt(s.Activity.BasalEnergy) }},
		{"exercise_minutes", "exercise_time", "Exercise", units.DurationMinutes, "", func(s *snap) (float64, bool) { return positive(s.Activity.ExerciseTime) }},
		{"stand_hours", "stand_hours", "Stand Hours", units.Count, "hours", func(s *snap) (float64, bool) { return optInt(s.Activity.StandHours) }},
		{"flights_climbed", "flights_climbed", "Flights Climbed", units.Count, "floors", func(s *snap) (float64, bool) { return optInt(s.Activity.FlightsClimbed) }},
		{"walking_running_distance", "walking_running_distance", "Walking + Running", units.Distance, "", func(s *snap) (float64, bool) { return opt(s.Activity.WalkingRunningDistance) }},
		{"cycling_distance", "cycling_distance", "Cycling", units.Distance, "", func(s *snap) (float64, bool) { return opt(s.Activity.CyclingDistance) }},
		{"swimming_distance", "swimming_distance", "Swimming", units.Distance, "", func(s *snap) (float64, bool) { return opt(s.Activity.SwimmingDistance) }},
		{"swimming_strokes", "swimming_strokes", "Swimming Strokes", units.Count, "strokes", func(s *snap) (float64, bool) { return optInt(s.Activity.SwimmingStrokes) }},
		{"vo2_max", "vo2_max", "VO2 Max", units.VO2Max, "", func(s *snap) (float64, bool) { return opt(s.Activity.VO2Max) }},
	}},
	{snapshot.CategoryHeart, []Metric{
		{"resting_heart_rate", "resting_heart_rate", "Resting Heart Rate", units.HeartRate, "", func(s *snap) (float64, bool) { return opt(s.Heart.Resting) }},
		{"walking_heart_rate", "walking_heart_rate_average", "Walking Heart Rate", units.HeartRate, "", func(s *snap) (float64, bool) { return opt(s.Heart.WalkingAvg) }},
		{"average_heart_rate", "average_heart_rate", "Average Heart Rate", units.HeartRate, "", func(s *snap) (float64, bool) { return opt(s.Heart.Average) }},
		{"min_heart_rate", "min_heart_rate", "Min Heart Rate", units.HeartRate, "", func(s *snap) (float64, bool) { return opt(s.Heart.Min) }},
		{"max_heart_rate", "max_heart_rate", "Max Heart Rate", units.HeartRate, "", func(s *snap) (float64, bool) { return opt(s.Heart.Max) }},
		{"hrv", "heart_rate_variability", "HRV", units.Milliseconds, "", func(s *snap) (float64, bool) { return opt(s.Heart.Variability) }},
	}},
	{snapshot.CategoryVitals, []Metric{
		{"respiratory_rate", "respiratory_rate", "Respiratory Rate", units.BreathRate, "", func(s *snap) (float64, bool) { return opt(s.Vitals.RespiratoryRate) }},
		{"blood_oxygen", "blood_oxygen", "Blood Oxygen", units.Fraction, "", func(s *snap) (float64, bool) { return opt(s.Vitals.BloodOxygen) }},
		{"body_temperature", "body_temperature", "Body Temperature", units.Temperature, "", func(s *snap) (float64, bool) { return opt(s.Vitals.BodyTemperature) }},
		{"blood_pressure_systolic", "blood_pressure_systolic", "Blood Pressure (Systolic)", units.Pressure, "", func(s *snap) (float64, bool) { return opt(s.Vitals.Systolic) }},
		{"blood_pressure_diastolic", "blood_pressure_diastolic", "Blood Pressure (Diastolic)", units.Pressure, "", func(s *snap) (float64, bool) { return opt(s.Vitals.Diastolic) }},
		{"blood_glucose", "blood_glucose", "Blood Glucose", units.Glucose, "", func(s *snap) (float64, bool) { return opt(s.Vitals.BloodGlucose) }},
	}},
	{snapshot.CategoryBody, []Metric{
		{"weight", "weight", "Weight", units.Weight, "", func(s *snap) (float64, bool) { return opt(s.Body.Weight) }},
		{"height", "height", "Height", units.Height, "", func(s *snap) (float64, bool) { return opt(s.Body.Height) }},
		{"bmi", "body_mass_index", "BMI", units.Scalar, "", func(s *snap) (float64, bool) { return opt(s.Body.BMI) }},
		{"body_fat", "body_fat_percentage", "Body Fat", units.Fraction, "", func(s *snap) (float64, bool) { return opt(s.Body.BodyFat) }},
		{"lean_body_mass", "lean_body_mass", "Lean Body Mass", units.Weight, "", func(s *snap) (float64, bool) { return opt(s.Body.LeanBodyMass) }},
		{"waist_circumference", "waist_circumference", "Waist Circumference", units.Length, "", func(s *snap) (float64, bool) { return opt(s.Body.WaistCircumference) }},
	}},
	{snapshot.CategoryNutrition, []Metric{
		{"dietary_calories", "dietary_energy", "Calories", units.Energy, "", func(s *snap) (float64, bool) { return opt(s.Nutrition.Energy) }},
		{"protein", "protein", "Protein", units.Grams, "", func(s *snap) (float64, bool) { return opt(s.Nutrition.Protein) }},
		{"carbohydrates", "carbohydrates", "Carbohydrates", units.Grams, "", func(s *snap) (float64, bool) { return opt(s.Nutrition.Carbohydrates) }},
		{"fat", "total_fat", "Fat", units.Grams, "", func(s *snap) (float64, bool) { return opt(s.Nutrition.Fat) }},
		{"saturated_fat", "saturated_fat", "Saturated Fat", units.Grams, "", func(s *snap) (float64, bool) { return opt(s.Nutrition.SaturatedFat) }},
		{"fiber", "fiber", "Fiber", units.Grams, "", func(s *snap) (float64, bool) { return opt(s.Nutrition.Fiber) }},
		{"sugar", "sugar", "Sugar", units.Grams, "", func(s *snap) (float64, bool) { return opt(s.Nutrition.Sugar) }},
		{"sodium", "sodium", "Sodium", units.Milligrams, "", func(s *snap) (float64, bool) { return opt(s.Nutrition.Sodium) }},
		{"cholesterol", "cholesterol", "Cholesterol", units.Milligrams, "", func(s *snap) (float64, bool) { return opt(s.Nutrition.Cholesterol) }},
		{"caffeine", "caffeine", "Caffeine", units.Milligrams, "", func(s *snap) (float64, bool) { return opt(s.Nutrition.Caffeine) }},
		{"water", "water", "Water", units.Volume, "", func(s *snap) (float64, bool) { return opt(s.Nutrition.Water) }},
	}},
	{snapshot.CategoryMindfulness, []Metric{
		{"mindful_minutes", "mindful_duration", "Mindful Time", units.DurationMinutes, "", func(s *snap) (float64, bool) { return positive(s.Mindfulness.MindfulTime) }},
		{"mindful_sessions", "session_count", "Sessions", units.Count, "", func(s *snap) (float64, bool) { return optInt(s.Mindfulness.Sessions) }},
	}},
	{snapshot.CategoryMobility, []Metric{
		{"walking_speed", "walking_speed", "Walking Speed", units.Speed, "", func(s *snap) (float64, bool) { return opt(s.Mobility.WalkingSpeed) }},
		{"walking_step_length", "walking_step_length", "Step Length", units.Length, "", func(s *snap) (float64, bool) { return opt(s.Mobility.StepLength) }},
		{"walking_double_support", "double_support_percentage", "Double Support Time", units.Fraction, "", func(s *snap) (float64, bool) { return opt(s.Mobility.DoubleSupport) }},
		{"walking_asymmetry", "asymmetry_percentage", "Walking Asymmetry", units.Fraction, "", func(s *snap) (float64, bool) { return opt(s.Mobility.Asymmetry) }},
		{"stair_ascent_speed", "stair_ascent_speed", "Stair Ascent Speed", units.Speed, "", func(s *snap) (float64, bool) { return opt(s.Mobility.StairAscentSpeed) }},
		{"stair_descent_speed", "stair_descent_speed", "Stair Descent Speed", units.Speed, "", func(s *snap) (float64, bool) { return opt(s.Mobility.StairDescentSpeed) }},
		{"six_minute_walk", "six_minute_walk_distance", "Six-Minute Walk", units.Distance, "", func(s *snap) (float64, bool) { return opt(s.Mobility.SixMinuteWalk) }},
	}},
	{snapshot.CategoryHearing, []Metric{
		{"headphone_audio_level", "headphone_audio_level", "Headphone Audio", units.Decibels, "", func(s *snap) (float64, bool) { return opt(s.Hearing.HeadphoneLevel) }},
		{"environmental_sound_level", "environmental_sound_level", "Environmental Sound", units.Decibels, "", func(s *snap) (float64, bool) { return opt(s.Hearing.EnvironmentalLevel) }},
	}},
}

// Readings returns the metrics of category c present in s, in table order.
// Workouts and mood are not metric categories and yield nothing.
func Readings(s *snapshot.Snapshot, c snapshot.Category) []Reading {
	for _, cm := range metricTable {
		if cm.Category != c {
			continue
		}
		out := make([]Reading, 0, len(cm.Metrics))
		for _, m := range cm.Metrics {
			if v, ok := m.value(s); ok {
				out = append(out, Reading{Metric: m, Category: c, Value: v})
			}
		}
		return out
	}
	return nil
}

// AllReadings returns every present metric across all categories, in export order.
func AllReadings(s *snapshot.Snapshot) []Reading {
	var out []Reading
	for _, cm := range metricTable {
		out = append(out, Readings(s, cm.Category)...)
	}
	return out
}

// Metrics lists every known metric in export order.
func Metrics() []Metric {
	var out []Metric
	for _, cm := range metricTable {
		out = append(out, cm.Metrics...)
	}
	return out
}

// MetricByKey finds a metric by its flat metadata key.
func MetricByKey(key string) (Metric, snapshot.Category, bool) {
	for _, cm := range metricTable {
		for _, m := range cm.Metrics {
			if m.Key == key {
				return m, cm.Category, true
			}
		}
	}
	return Metric{}, "", false
}
