package workouts

import "strings"

var MuscleGroups = []string{
	"Chest",
	"Back",
	"Shoulders",
	"Biceps",
	"Triceps",
	"Core",
	"Glutes",
	"Cardio",
	"Forearms",
	"Hamstrings",
	"Quads",
	"Calves",
	"Adductors",
	"Abductors",
}

type CatalogExercise struct {
	Name        string `json:"name"`
	MuscleGroup string `json:"muscleGroup"`
}

var CommonExercises = []CatalogExercise{
	{Name: "Barbell Bench Press", MuscleGroup: "Chest"},
	{Name: "Incline Dumbbell Press", MuscleGroup: "Chest"},
	{Name: "Cable Fly", MuscleGroup: "Chest"},
	{Name: "Chest Dips", MuscleGroup: "Chest"},
	{Name: "Push-ups", MuscleGroup: "Chest"},
	{Name: "Barbell Row", MuscleGroup: "Back"},
	{Name: "Chest Supported Row", MuscleGroup: "Back"},
	{Name: "Chin-ups", MuscleGroup: "Back"},
	{Name: "Lat Pulldown", MuscleGroup: "Back"},
	{Name: "Deadlift", MuscleGroup: "Back"},
	{Name: "Barbell Overhead Press", MuscleGroup: "Shoulders"},
	{Name: "Arnold Press", MuscleGroup: "Shoulders"},
	{Name: "Dumbbell Lateral Raise", MuscleGroup: "Shoulders"},
	{Name: "Cable Rear Delt Fly", MuscleGroup: "Shoulders"},
	{Name: "Barbell Curl", MuscleGroup: "Biceps"},
	{Name: "Alternating Dumbbell Curl", MuscleGroup: "Biceps"},
	{Name: "Cable Curl", MuscleGroup: "Biceps"},
	{Name: "Cable Pushdown", MuscleGroup: "Triceps"},
	{Name: "Close Grip Bench Press", MuscleGroup: "Triceps"},
	{Name: "EZ Bar Skull Crushers", MuscleGroup: "Triceps"},
	{Name: "Ab Wheel Rollout", MuscleGroup: "Core"},
	{Name: "Cable Crunch", MuscleGroup: "Core"},
	{Name: "Hanging Leg Raise", MuscleGroup: "Core"},
	{Name: "Barbell Hip Thrust", MuscleGroup: "Glutes"},
	{Name: "Cable Kickback", MuscleGroup: "Glutes"},
	{Name: "Rowing Machine", MuscleGroup: "Cardio"},
	{Name: "Jump Rope", MuscleGroup: "Cardio"},
	{Name: "Incline Walking", MuscleGroup: "Cardio"},
	{Name: "Reverse Wrist Curl", MuscleGroup: "Forearms"},
	{Name: "Dead Hang", MuscleGroup: "Forearms"},
	{Name: "Romanian Deadlift", MuscleGroup: "Hamstrings"},
	{Name: "Lying Leg Curl", MuscleGroup: "Hamstrings"},
	{Name: "Nordic Ham Curl", MuscleGroup: "Hamstrings"},
	{Name: "Back Squat", MuscleGroup: "Quads"},
	{Name: "Front Squat", MuscleGroup: "Quads"},
	{Name: "Bulgarian Split Squat", MuscleGroup: "Quads"},
	{Name: "Leg Extension", MuscleGroup: "Quads"},
	{Name: "Standing Calf Raise", MuscleGroup: "Calves"},
	{Name: "Seated Calf Raise", MuscleGroup: "Calves"},
	{Name: "Hip Adduction Machine", MuscleGroup: "Adductors"},
	{Name: "Cossack Squat", MuscleGroup: "Adductors"},
	{Name: "Hip Abduction Machine", MuscleGroup: "Abductors"},
	{Name: "Banded Side Walks", MuscleGroup: "Abductors"},
}

// SuggestExercises filters the common exercises by a case-insensitive name
// query and, if set, by muscle group. Empty filters match everything.
func SuggestExercises(query, muscleGroup string) []CatalogExercise {
	query = strings.ToLower(strings.TrimSpace(query))
	suggestions := make([]CatalogExercise, 0)
	for _, ex := range CommonExercises {
		if muscleGroup != "" && !strings.EqualFold(ex.MuscleGroup, muscleGroup) {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(ex.Name), query) {
			continue
		}
		suggestions = append(suggestions, ex)
	}
	return suggestions
}
