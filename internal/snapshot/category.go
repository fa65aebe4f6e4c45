package snapshot

import (
	"fmt"
	"strings"
)

// Category is one group of related metrics. Workouts and mood entries are
// categories too so they can be selected and filtered the same way.
type Category string

const (
	CategorySleep       Category = "sleep"
	CategoryActivity    Category = "activity"
	CategoryHeart       Category = "heart"
	CategoryVitals      Category = "vitals"
	CategoryBody        Category = "body"
	CategoryNutrition   Category = "nutrition"
	CategoryMindfulness Category = "mindfulness"
	CategoryMobility    Category = "mobility"
	CategoryHearing     Category = "hearing"
	CategoryWorkouts    Category = "workouts"
	CategoryMood        Category = "mood"
)

// Categories lists every category in export order.
var Categories = []Category{
	CategorySleep,
	CategoryActivity,
	CategoryHeart,
	CategoryVitals,
	CategoryBody,
	CategoryNutrition,
	CategoryMindfulness,
	CategoryMobility,
	CategoryHearing,
	CategoryWorkouts,
	CategoryMood,
}

var categoryTitles = map[Category]string{
	CategorySleep:       "Sleep",
	CategoryActivity:    "Activity",
	CategoryHeart:       "Heart",
	CategoryVitals:      "Vitals",
	CategoryBody:        "Body",
	CategoryNutrition:   "Nutrition",
	CategoryMindfulness: "Mindfulness",
	CategoryMobility:    "Mobility",
	CategoryHearing:     "Hearing",
	CategoryWorkouts:    "Workouts",
	CategoryMood:        "Mood",
}

var categoryEmoji = map[Category]string{
	CategorySleep:       "😴",
	CategoryActivity:    "🏃",
	CategoryHeart:       "❤️",
	CategoryVitals:      "🩺",
	CategoryBody:        "⚖️",
	CategoryNutrition:   "🍎",
	CategoryMindfulness: "🧘",
	CategoryMobility:    "🚶",
	CategoryHearing:     "👂",
	CategoryWorkouts:    "💪",
	CategoryMood:        "😊",
}

// Title is the display name used in headings and CSV rows.
func (c Category) Title() string {
	if t, ok := categoryTitles[c]; ok {
		return t
	}
	return string(c)
}

func (c Category) Emoji() string { return categoryEmoji[c] }

// ParseCategory accepts a category key in any case.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := categoryTitles[c]; !ok {
		return "", fmt.Errorf("unknown category %q", s)
	}
	return c, nil
}

// CategoryMask selects categories for export. Missing keys count as false.
type CategoryMask map[Category]bool

// AllCategories returns a mask with every category selected.
func AllCategories() CategoryMask {
	m := make(CategoryMask, len(Categories))
	for _, c := range Categories {
		m[c] = true
	}
	return m
}

// ParseMask builds a mask selecting exactly the listed categories.
func ParseMask(keys []string) (CategoryMask, error) {
	m := make(CategoryMask, len(keys))
	for _, k := range keys {
		c, err := ParseCategory(k)
		if err != nil {
			return nil, err
		}
		m[c] = true
	}
	return m, nil
}

// Keys returns the selected categories in export order.
func (m CategoryMask) Keys() []string {
	keys := make([]string, 0, len(m))
	for _, c := range Categories {
		if m[c] {
			keys = append(keys, string(c))
		}
	}
	return keys
}

// Filter returns a copy of s with every unselected category reset to its
// empty state. Selected categories pass through untouched.
func Filter(s Snapshot, mask CategoryMask) Snapshot {
	out := Snapshot{Date: s.Date}
	if mask[CategorySleep] {
		out.Sleep = s.Sleep
	}
	if mask[CategoryActivity] {
		out.Activity = s.Activity
	}
	if mask[CategoryHeart] {
		out.Heart = s.Heart
	}
	if mask[CategoryVitals] {
		out.Vitals = s.Vitals
	}
	if mask[CategoryBody] {
		out.Body = s.Body
	}
	if mask[CategoryNutrition] {
		out.Nutrition = s.Nutrition
	}
	if mask[CategoryMindfulness] {
		out.Mindfulness = s.Mindfulness
	}
	if mask[CategoryMobility] {
		out.Mobility = s.Mobility
	}
	if mask[CategoryHearing] {
		out.Hearing = s.Hearing
	}
	if mask[CategoryWorkouts] && len(s.Workouts) > 0 {
		out.Workouts = append([]Workout(nil), s.Workouts...)
	}
	if mask[CategoryMood] && len(s.Mood) > 0 {
		out.Mood = make([]MoodEntry, len(s.Mood))
		for i, e := range s.Mood {
			out.Mood[i] = e.clone()
		}
	}
	return out
}
