package snapshot

// ActivityKind identifies the type of a workout.
type ActivityKind string

const (
	ActivityRunning            ActivityKind = "running"
	ActivityWalking            ActivityKind = "walking"
	ActivityHiking             ActivityKind = "hiking"
	ActivityCycling            ActivityKind = "cycling"
	ActivitySwimming           ActivityKind = "swimming"
	ActivityRowing             ActivityKind = "rowing"
	ActivityElliptical         ActivityKind = "elliptical"
	ActivityStairClimbing      ActivityKind = "stair_climbing"
	ActivityStrengthTraining   ActivityKind = "traditional_strength_training"
	ActivityFunctionalStrength ActivityKind = "functional_strength_training"
	ActivityCoreTraining       ActivityKind = "core_training"
	ActivityHIIT               ActivityKind = "high_intensity_interval_training"
	ActivityYoga               ActivityKind = "yoga"
	ActivityPilates            ActivityKind = "pilates"
	ActivityDance              ActivityKind = "dance"
	ActivityMartialArts        ActivityKind = "martial_arts"
	ActivityTennis             ActivityKind = "tennis"
	ActivitySoccer             ActivityKind = "soccer"
	ActivityBasketball         ActivityKind = "basketball"
	ActivityCrossCountrySkiing ActivityKind = "cross_country_skiing"
	ActivityDownhillSkiing     ActivityKind = "downhill_skiing"
	ActivitySnowboarding       ActivityKind = "snowboarding"
	ActivityClimbing           ActivityKind = "climbing"
	ActivityMindAndBody        ActivityKind = "mind_and_body"
	ActivityFlexibility        ActivityKind = "flexibility"
	ActivityCooldown           ActivityKind = "cooldown"
	ActivityMixedCardio        ActivityKind = "mixed_cardio"
	ActivityOther              ActivityKind = "other"
)

var activityNames = map[ActivityKind]string{
	ActivityRunning:            "Running",
	ActivityWalking:            "Walking",
	ActivityHiking:             "Hiking",
	ActivityCycling:            "Cycling",
	ActivitySwimming:           "Swimming",
	ActivityRowing:             "Rowing",
	ActivityElliptical:         "Elliptical",
	ActivityStairClimbing:      "Stair Climbing",
	ActivityStrengthTraining:   "Strength Training",
	ActivityFunctionalStrength: "Functional Strength Training",
	ActivityCoreTraining:       "Core Training",
	ActivityHIIT:               "HIIT",
	ActivityYoga:               "Yoga",
	ActivityPilates:            "Pilates",
	ActivityDance:              "Dance",
	ActivityMartialArts:        "Martial Arts",
	ActivityTennis:             "Tennis",
	ActivitySoccer:             "Soccer",
	ActivityBasketball:         "Basketball",
	ActivityCrossCountrySkiing: "Cross-Country Skiing",
	ActivityDownhillSkiing:     "Downhill Skiing",
	ActivitySnowboarding:       "Snowboarding",
	ActivityClimbing:           "Climbing",
	ActivityMindAndBody:        "Mind and Body",
	ActivityFlexibility:        "Flexibility",
	ActivityCooldown:           "Cooldown",
	ActivityMixedCardio:        "Mixed Cardio",
	ActivityOther:              "Other",
}

// DisplayName returns the human name of the activity. Unknown kinds read as "Other".
func (k ActivityKind) DisplayName() string {
	if n, ok := activityNames[k]; ok {
		return n
	}
	return activityNames[ActivityOther]
}

// Known reports whether k is part of the closed activity enumeration.
func (k ActivityKind) Known() bool {
	_, ok := activityNames[k]
	return ok
}
