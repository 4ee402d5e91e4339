package workouts

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	defaultReps   = 10
	defaultWeight = 0
)

// IDFunc returns a new exercise id, unique at the time of the call.
type IDFunc func() string

func NewExerciseID() string {
	return uuid.NewString()
}

// GetOrCreateDay returns the stored day for date, or a synthesized empty day.
// The log is never mutated.
func GetOrCreateDay(log Log, date string) WorkoutDay {
	if day, ok := log[date]; ok {
		return day.Clone()
	}
	return WorkoutDay{
		Date:      date,
		DayName:   weekdayName(date),
		Exercises: []Exercise{},
		IsRestDay: false,
	}
}

// UpsertExercise replaces the exercise with the same id, or appends it when the id is new.
func UpsertExercise(day WorkoutDay, exercise Exercise) WorkoutDay {
	day = day.Clone()
	for i := range day.Exercises {
		if day.Exercises[i].ID == exercise.ID {
			day.Exercises[i] = exercise.Clone()
			return day
		}
	}
	day.Exercises = append(day.Exercises, exercise.Clone())
	return day
}

func DeleteExercise(day WorkoutDay, id string) WorkoutDay {
	exercises := make([]Exercise, 0, len(day.Exercises))
	for _, ex := range day.Exercises {
		if ex.ID != id {
			exercises = append(exercises, ex.Clone())
		}
	}
	day.Exercises = exercises
	return day
}

// FindExercise returns a copy of the exercise with the given id.
func FindExercise(day WorkoutDay, id string) (Exercise, error) {
	for _, ex := range day.Exercises {
		if ex.ID == id {
			return ex.Clone(), nil
		}
	}
	return Exercise{}, fmt.Errorf("%w: [%s] on %s", ErrExerciseNotFound, id, day.Date)
}

// AddSet appends a set repeating the reps and weight of the last one.
func AddSet(exercise Exercise) Exercise {
	exercise = exercise.Clone()
	reps, weight := defaultReps, float64(defaultWeight)
	if n := len(exercise.Sets); n > 0 {
		reps = exercise.Sets[n-1].Reps
		weight = exercise.Sets[n-1].Weight
	}
	exercise.Sets = append(exercise.Sets, Set{
		SetNumber: len(exercise.Sets) + 1,
		Reps:      reps,
		Weight:    weight,
		Completed: false,
	})
	return exercise
}

// RemoveSet removes the set at index and renumbers the rest from 1.
// The last remaining set cannot be removed.
func RemoveSet(exercise Exercise, index int) (Exercise, error) {
	if index < 0 || index >= len(exercise.Sets) {
		return exercise, fmt.Errorf("%w: %d of %d", ErrSetIndexOutOfRange, index, len(exercise.Sets))
	}
	if len(exercise.Sets) == 1 {
		return exercise, ErrLastSet
	}

	sets := make([]Set, 0, len(exercise.Sets)-1)
	for i, s := range exercise.Sets {
		if i == index {
			continue
		}
		s.SetNumber = len(sets) + 1
		sets = append(sets, s)
	}
	exercise.Sets = sets
	return exercise, nil
}

func SetCompleted(exercise Exercise, index int, completed bool) (Exercise, error) {
	if index < 0 || index >= len(exercise.Sets) {
		return exercise, fmt.Errorf("%w: %d of %d", ErrSetIndexOutOfRange, index, len(exercise.Sets))
	}
	exercise = exercise.Clone()
	exercise.Sets[index].Completed = completed
	return exercise, nil
}

// NewExercise builds an exercise with numSets identical sets, numbered from 1.
func NewExercise(id, name, muscleGroup string, numSets, reps int, weight float64) Exercise {
	sets := make([]Set, 0, numSets)
	for i := 0; i < numSets; i++ {
		sets = append(sets, Set{
			SetNumber: i + 1,
			Reps:      reps,
			Weight:    weight,
		})
	}
	return Exercise{
		ID:          id,
		Name:        name,
		MuscleGroup: muscleGroup,
		Sets:        sets,
	}
}

// CopyWeek clones every stored day of the source week into the same weekday of the
// target week. Copied exercises get fresh ids and all sets are reset to not completed.
// Source days without a record leave the target day untouched.
func CopyWeek(log Log, sourceWeekStart, targetWeekStart time.Time, newID IDFunc) Log {
	if newID == nil {
		newID = NewExerciseID
	}

	copied := log.Clone()
	sourceDates := WeekDates(sourceWeekStart)
	targetDates := WeekDates(targetWeekStart)
	for i, sourceDate := range sourceDates {
		sourceDay, ok := log[sourceDate]
		if !ok {
			continue
		}

		targetDay := sourceDay.Clone()
		targetDay.Date = targetDates[i]
		for j := range targetDay.Exercises {
			targetDay.Exercises[j].ID = newID()
			for k := range targetDay.Exercises[j].Sets {
				targetDay.Exercises[j].Sets[k].Completed = false
			}
		}
		copied[targetDates[i]] = targetDay
	}

	return copied
}
