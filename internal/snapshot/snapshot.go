// Package snapshot holds the per-day health aggregate that every export is
// rendered from. Values are stored in canonical units only: seconds, meters,
// kilocalories, kilograms, degrees Celsius, liters and fractions in [0,1].
package snapshot

import (
	"time"

	"cloud.google.com/go/civil"
)

// Snapshot holds the aggregated health data of one calendar day.
type Snapshot struct {
	Date        civil.Date  `json:"date"`
	Sleep       Sleep       `json:"sleep"`
	Activity    Activity    `json:"activity"`
	Heart       Heart       `json:"heart"`
	Vitals      Vitals      `json:"vitals"`
	Body        Body        `json:"body"`
	Nutrition   Nutrition   `json:"nutrition"`
	Mindfulness Mindfulness `json:"mindfulness"`
	Mobility    Mobility    `json:"mobility"`
	Hearing     Hearing     `json:"hearing"`
	Workouts    []Workout   `json:"workouts,omitempty"`
	Mood        []MoodEntry `json:"mood,omitempty"`
}

// Durations are seconds; zero means "no data".
type Sleep struct {
	Total float64 `json:"total_seconds,omitempty"`
	InBed float64 `json:"in_bed_seconds,omitempty"`
	Deep  float64 `json:"deep_seconds,omitempty"`
	REM   float64 `json:"rem_seconds,omitempty"`
	Core  float64 `json:"core_seconds,omitempty"`
	Awake float64 `json:"awake_seconds,omitempty"`
}

func (s Sleep) HasData() bool {
	return s.Total > 0 || s.InBed > 0 || s.Deep > 0 || s.REM > 0 || s.Core > 0 || s.Awake > 0
}

type Activity struct {
	Steps                  *int     `json:"steps,omitempty"`
	ActiveEnergy           *float64 `json:"active_energy_kcal,omitempty"`
	BasalEnergy            *float64 `json:"basal_energy_kcal,omitempty"`
	ExerciseTime           float64  `json:"exercise_seconds,omitempty"`
	StandHours             *int     `json:"stand_hours,omitempty"`
	FlightsClimbed         *int     `json:"flights_climbed,omitempty"`
	WalkingRunningDistance *float64 `json:"walking_running_distance_m,omitempty"`
	CyclingDistance        *float64 `json:"cycling_distance_m,omitempty"`
	SwimmingDistance       *float64 `json:"swimming_distance_m,omitempty"`
	SwimmingStrokes        *int     `json:"swimming_strokes,omitempty"`
	VO2Max                 *float64 `json:"vo2_max,omitempty"`
}

func (a Activity) HasData() bool {
	return a.Steps != nil || a.ActiveEnergy != nil || a.BasalEnergy != nil || a.ExerciseTime > 0 ||
		a.StandHours != nil || a.FlightsClimbed != nil || a.WalkingRunningDistance != nil ||
		a.CyclingDistance != nil || a.SwimmingDistance != nil || a.SwimmingStrokes != nil || a.VO2Max != nil
}

type Heart struct {
	Resting     *float64 `json:"resting_bpm,omitempty"`
	WalkingAvg  *float64 `json:"walking_avg_bpm,omitempty"`
	Average     *float64 `json:"average_bpm,omitempty"`
	Min         *float64 `json:"min_bpm,omitempty"`
	Max         *float64 `json:"max_bpm,omitempty"`
	Variability *float64 `json:"hrv_ms,omitempty"`
}

func (h Heart) HasData() bool {
	return h.Resting != nil || h.WalkingAvg != nil || h.Average != nil || h.Min != nil || h.Max != nil || h.Variability != nil
}

type Vitals struct {
	RespiratoryRate *float64 `json:"respiratory_rate,omitempty"`
	BloodOxygen     *float64 `json:"blood_oxygen,omitempty"` // fraction
	BodyTemperature *float64 `json:"body_temperature_c,omitempty"`
	Systolic        *float64 `json:"blood_pressure_systolic,omitempty"`
	Diastolic       *float64 `json:"blood_pressure_diastolic,omitempty"`
	BloodGlucose    *float64 `json:"blood_glucose_mg_dl,omitempty"`
}

func (v Vitals) HasData() bool {
	return v.RespiratoryRate != nil || v.BloodOxygen != nil || v.BodyTemperature != nil ||
		v.Systolic != nil || v.Diastolic != nil || v.BloodGlucose != nil
}

type Body struct {
	Weight             *float64 `json:"weight_kg,omitempty"`
	Height             *float64 `json:"height_m,omitempty"`
	BMI                *float64 `json:"bmi,omitempty"`
	BodyFat            *float64 `json:"body_fat,omitempty"` // fraction
	LeanBodyMass       *float64 `json:"lean_body_mass_kg,omitempty"`
	WaistCircumference *float64 `json:"waist_circumference_m,omitempty"`
}

func (b Body) HasData() bool {
	return b.Weight != nil || b.Height != nil || b.BMI != nil || b.BodyFat != nil ||
		b.LeanBodyMass != nil || b.WaistCircumference != nil
}

// Macronutrients are grams, minerals and caffeine milligrams, water liters.
type Nutrition struct {
	Energy        *float64 `json:"energy_kcal,omitempty"`
	Protein       *float64 `json:"protein_g,omitempty"`
	Carbohydrates *float64 `json:"carbohydrates_g,omitempty"`
	Fat           *float64 `json:"fat_g,omitempty"`
	SaturatedFat  *float64 `json:"saturated_fat_g,omitempty"`
	Fiber         *float64 `json:"fiber_g,omitempty"`
	Sugar         *float64 `json:"sugar_g,omitempty"`
	Sodium        *float64 `json:"sodium_mg,omitempty"`
	Cholesterol   *float64 `json:"cholesterol_mg,omitempty"`
	Caffeine      *float64 `json:"caffeine_mg,omitempty"`
	Water         *float64 `json:"water_l,omitempty"`
}

func (n Nutrition) HasData() bool {
	return n.Energy != nil || n.Protein != nil || n.Carbohydrates != nil || n.Fat != nil ||
		n.SaturatedFat != nil || n.Fiber != nil || n.Sugar != nil || n.Sodium != nil ||
		n.Cholesterol != nil || n.Caffeine != nil || n.Water != nil
}

type Mindfulness struct {
	MindfulTime float64 `json:"mindful_seconds,omitempty"`
	Sessions    *int    `json:"sessions,omitempty"`
}

func (m Mindfulness) HasData() bool {
	return m.MindfulTime > 0 || m.Sessions != nil
}

// Speeds are m/s, lengths meters, support and asymmetry fractions.
type Mobility struct {
	WalkingSpeed      *float64 `json:"walking_speed_mps,omitempty"`
	StepLength        *float64 `json:"step_length_m,omitempty"`
	DoubleSupport     *float64 `json:"double_support,omitempty"`
	Asymmetry         *float64 `json:"asymmetry,omitempty"`
	StairAscentSpeed  *float64 `json:"stair_ascent_speed_mps,omitempty"`
	StairDescentSpeed *float64 `json:"stair_descent_speed_mps,omitempty"`
	SixMinuteWalk     *float64 `json:"six_minute_walk_m,omitempty"`
}

func (m Mobility) HasData() bool {
	return m.WalkingSpeed != nil || m.StepLength != nil || m.DoubleSupport != nil || m.Asymmetry != nil ||
		m.StairAscentSpeed != nil || m.StairDescentSpeed != nil || m.SixMinuteWalk != nil
}

type Hearing struct {
	HeadphoneLevel     *float64 `json:"headphone_db,omitempty"`
	EnvironmentalLevel *float64 `json:"environmental_db,omitempty"`
}

func (h Hearing) HasData() bool {
	return h.HeadphoneLevel != nil || h.EnvironmentalLevel != nil
}

// Workout is one recorded session. Duration is seconds.
type Workout struct {
	Kind     ActivityKind `json:"kind"`
	Start    time.Time    `json:"start"`
	Duration float64      `json:"duration_seconds"`
	Calories *float64     `json:"calories_kcal,omitempty"`
	Distance *float64     `json:"distance_m,omitempty"`
}

// HasAnyData reports whether at least one category, workout or mood entry is present.
func (s Snapshot) HasAnyData() bool {
	for _, c := range Categories {
		if s.Has(c) {
			return true
		}
	}
	return false
}

// Has reports whether category c has data in s.
func (s Snapshot) Has(c Category) bool {
	switch c {
	case CategorySleep:
		return s.Sleep.HasData()
	case CategoryActivity:
		return s.Activity.HasData()
	case CategoryHeart:
		return s.Heart.HasData()
	case CategoryVitals:
		return s.Vitals.HasData()
	case CategoryBody:
		return s.Body.HasData()
	case CategoryNutrition:
		return s.Nutrition.HasData()
	case CategoryMindfulness:
		return s.Mindfulness.HasData()
	case CategoryMobility:
		return s.Mobility.HasData()
	case CategoryHearing:
		return s.Hearing.HasData()
	case CategoryWorkouts:
		return len(s.Workouts) > 0
	case CategoryMood:
		return len(s.Mood) > 0
	}
	return false
}
