package workouts

import "time"

// PlannedDay is one day of the weekly planner.
type PlannedDay struct {
	WorkoutDay
	CompletedExercises int `json:"completedExercises"`
	TotalExercises     int `json:"totalExercises"`
}

// WeekPlan returns the 7 days starting at weekStart, stored or synthesized.
func WeekPlan(log Log, weekStart time.Time) []PlannedDay {
	dates := WeekDates(weekStart)
	plan := make([]PlannedDay, 0, len(dates))
	for _, date := range dates {
		day := GetOrCreateDay(log, date)
		completed := 0
		for _, ex := range day.Exercises {
			if ex.IsCompleted() {
				completed++
			}
		}
		plan = append(plan, PlannedDay{
			WorkoutDay:         day,
			CompletedExercises: completed,
			TotalExercises:     len(day.Exercises),
		})
	}
	return plan
}
