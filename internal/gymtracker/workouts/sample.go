package workouts

import "time"

// SampleLog returns the log a fresh install starts with: a push day for today.
func SampleLog(today time.Time, newID IDFunc) Log {
	if newID == nil {
		newID = NewExerciseID
	}

	date := FormatDate(today)
	benchPress := NewExercise(newID(), "Bench Press", "Chest", 3, 10, 60)
	benchPress.Sets[2].Reps = 8
	benchPress.Sets[2].Weight = 65
	overheadPress := NewExercise(newID(), "Overhead Press", "Shoulders", 3, 10, 40)
	overheadPress.Sets[2].Reps = 8
	overheadPress.Sets[2].Weight = 45

	return Log{
		date: {
			Date:      date,
			DayName:   "Push Day",
			IsRestDay: false,
			Exercises: []Exercise{benchPress, overheadPress},
		},
	}
}
