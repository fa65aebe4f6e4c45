package snapshot

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"cloud.google.com/go/civil"
)

func ptr[T any](v T) *T { return &v }

func fullSnapshot() Snapshot {
	return Snapshot{
		Date:        civil.Date{Year: 2026, Month: time.March, Day: 14},
		Sleep:       Sleep{Total: 27000, Deep: 4500},
		Activity:    Activity{Steps: ptr(10432), ActiveEnergy: ptr(520.0)},
		Heart:       Heart{Resting: ptr(58.0)},
		Vitals:      Vitals{BloodOxygen: ptr(0.965)},
		Body:        Body{Weight: ptr(72.5)},
		Nutrition:   Nutrition{Protein: ptr(110.0)},
		Mindfulness: Mindfulness{MindfulTime: 600},
		Mobility:    Mobility{WalkingSpeed: ptr(1.3)},
		Hearing:     Hearing{HeadphoneLevel: ptr(72.0)},
		Workouts: []Workout{
			{Kind: ActivityRunning, Start: time.Date(2026, 3, 14, 7, 30, 0, 0, time.UTC), Duration: 2700},
		},
		Mood: []MoodEntry{
			{Time: time.Date(2026, 3, 14, 21, 0, 0, 0, time.UTC), Kind: MoodDailyMood, Valence: 0.5, Labels: []string{"Happy"}},
		},
	}
}

func TestFilterAllFalse(t *testing.T) {
	s := fullSnapshot()
	got := Filter(s, CategoryMask{})

	for _, c := range Categories {
		if got.Has(c) {
			t.Errorf("category %s still has data after empty mask", c)
		}
	}
	if len(got.Workouts) != 0 {
		t.Fatalf("expected no workouts, got %d", len(got.Workouts))
	}
	if got.Date != s.Date {
		t.Fatalf("date changed: %v", got.Date)
	}
	if got.HasAnyData() {
		t.Fatal("HasAnyData() = true after empty mask")
	}
}

func TestFilterSelectedPassThrough(t *testing.T) {
	s := fullSnapshot()
	got := Filter(s, CategoryMask{CategorySleep: true, CategoryWorkouts: true})

	if got.Sleep != s.Sleep {
		t.Fatalf("sleep changed: %+v", got.Sleep)
	}
	if !reflect.DeepEqual(got.Workouts, s.Workouts) {
		t.Fatalf("workouts changed: %+v", got.Workouts)
	}
	if got.Activity.HasData() || got.Vitals.HasData() || len(got.Mood) != 0 {
		t.Fatal("unselected categories leaked through")
	}
}

func TestFilterIdempotentAndCommutes(t *testing.T) {
	s := fullSnapshot()
	m1 := CategoryMask{CategorySleep: true, CategoryHeart: true, CategoryMood: true}
	m2 := CategoryMask{CategoryActivity: true, CategoryWorkouts: true}

	once := Filter(s, m1)
	twice := Filter(once, m1)
	if !reflect.DeepEqual(once, twice) {
		t.Fatal("filter is not idempotent")
	}

	a := Filter(Filter(s, m1), m2)
	b := Filter(Filter(s, m2), m1)
	if !reflect.DeepEqual(a, b) {
		t.Fatal("filters over disjoint masks do not commute")
	}
}

func TestFilterDoesNotAlias(t *testing.T) {
	s := fullSnapshot()
	got := Filter(s, AllCategories())
	got.Mood[0].Labels[0] = "changed"
	got.Workouts[0].Duration = 1

	if s.Mood[0].Labels[0] != "Happy" || s.Workouts[0].Duration != 2700 {
		t.Fatal("filter result shares memory with its input")
	}
}

func TestSleepZeroDurationsAreAbsent(t *testing.T) {
	if (Sleep{}).HasData() {
		t.Fatal("empty sleep reported data")
	}
	if (Sleep{Awake: 0, Deep: 0}).HasData() {
		t.Fatal("zero durations reported data")
	}
	if !(Sleep{REM: 60}).HasData() {
		t.Fatal("positive REM not detected")
	}
	if !(Activity{Steps: ptr(0)}).HasData() {
		t.Fatal("present zero step count should count as data")
	}
}

func TestValencePercentAndClassify(t *testing.T) {
	tests := []struct {
		valence float64
		pct     int
		class   string
	}{
		{-1, 0, "Very Unpleasant"},
		{-0.6, 20, "Unpleasant"},
		{-0.2, 40, "Neutral"},
		{0, 50, "Neutral"},
		{0.2, 60, "Pleasant"},
		{0.5, 75, "Pleasant"},
		{0.6, 80, "Very Pleasant"},
		{1, 100, "Very Pleasant"},
	}
	for _, tt := range tests {
		e := MoodEntry{Valence: tt.valence}
		if got := e.ValencePercent(); got != tt.pct {
			t.Errorf("ValencePercent(%v) = %d, want %d", tt.valence, got, tt.pct)
		}
		if got := e.Classification(); got != tt.class {
			t.Errorf("Classification(%v) = %q, want %q", tt.valence, got, tt.class)
		}
	}
}

func TestAverageValencePercent(t *testing.T) {
	if _, ok := AverageValencePercent(nil); ok {
		t.Fatal("expected ok=false for no entries")
	}
	pct, ok := AverageValencePercent([]MoodEntry{{Valence: 0.5}, {Valence: -0.5}})
	if !ok || pct != 50 {
		t.Fatalf("AverageValencePercent = %d, %v", pct, ok)
	}
}

func TestParseMask(t *testing.T) {
	m, err := ParseMask([]string{"Sleep", "workouts"})
	if err != nil {
		t.Fatalf("ParseMask: %v", err)
	}
	if got := m.Keys(); !reflect.DeepEqual(got, []string{"sleep", "workouts"}) {
		t.Fatalf("Keys() = %v", got)
	}
	if _, err := ParseMask([]string{"naps"}); err == nil {
		t.Fatal("expected error for unknown category")
	}
}

func TestValidate(t *testing.T) {
	day := civil.Date{Year: 2026, Month: time.March, Day: 14}
	at := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	valid := Snapshot{
		Date:     day,
		Vitals:   Vitals{BloodOxygen: ptr(0.97)},
		Workouts: []Workout{{Kind: ActivityRunning, Start: at, Duration: 1800, Distance: ptr(5000.0)}},
		Mood:     []MoodEntry{{Time: at, Kind: MoodDailyMood, Valence: 0.5}},
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Snapshot)
	}{
		{"missing date", func(s *Snapshot) { s.Date = civil.Date{} }},
		{"oxygen above one", func(s *Snapshot) { s.Vitals.BloodOxygen = ptr(97.0) }},
		{"negative sleep", func(s *Snapshot) { s.Sleep.Total = -1 }},
		{"negative workout duration", func(s *Snapshot) { s.Workouts[0].Duration = -5 }},
		{"zero workout distance", func(s *Snapshot) { s.Workouts[0].Distance = ptr(0.0) }},
		{"zero workout calories", func(s *Snapshot) { s.Workouts[0].Calories = ptr(0.0) }},
		{"valence out of range", func(s *Snapshot) { s.Mood[0].Valence = 1.5 }},
		{"unknown mood kind", func(s *Snapshot) { s.Mood[0].Kind = "weekly" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid
			s.Workouts = append([]Workout(nil), valid.Workouts...)
			s.Mood = append([]MoodEntry(nil), valid.Mood...)
			tt.mutate(&s)
			if err := s.Validate(); !errors.Is(err, ErrInvalidSnapshot) {
				t.Fatalf("Validate() = %v, want ErrInvalidSnapshot", err)
			}
		})
	}
}
