package analytics_test

import (
	"testing"
	"time"

	"github.com/2beens/gymtracker/internal/gymtracker/analytics"
	"github.com/2beens/gymtracker/internal/gymtracker/workouts"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func completedSets(sets ...workouts.Set) []workouts.Set {
	for i := range sets {
		sets[i].SetNumber = i + 1
		sets[i].Completed = true
	}
	return sets
}

func testLog() workouts.Log {
	return workouts.Log{
		"2024-03-10": {
			Date: "2024-03-10",
			Exercises: []workouts.Exercise{
				{ID: "1", Name: "Bench Press", MuscleGroup: "Chest", Sets: completedSets(
					workouts.Set{Reps: 10, Weight: 60},
					workouts.Set{Reps: 8, Weight: 65},
				)},
				{ID: "2", Name: "Overhead Press", MuscleGroup: "Shoulders", Sets: []workouts.Set{
					{SetNumber: 1, Reps: 10, Weight: 40},
				}},
			},
		},
		"2024-03-12": {
			Date: "2024-03-12",
			Exercises: []workouts.Exercise{
				{ID: "3", Name: "Incline Bench Press", MuscleGroup: "Chest", Sets: completedSets(
					workouts.Set{Reps: 10, Weight: 55},
				)},
				{ID: "4", Name: "Back Squat", MuscleGroup: "Quads", Sets: completedSets(
					workouts.Set{Reps: 5, Weight: 120},
				)},
			},
		},
		// rest days never count
		"2024-03-13": {
			Date:      "2024-03-13",
			IsRestDay: true,
			Exercises: []workouts.Exercise{
				{ID: "5", Name: "Deadlift", MuscleGroup: "Back", Sets: completedSets(workouts.Set{Reps: 1, Weight: 300})},
			},
		},
		// planned, nothing completed
		"2024-03-14": {
			Date: "2024-03-14",
			Exercises: []workouts.Exercise{
				{ID: "6", Name: "Barbell Row", MuscleGroup: "Back", Sets: []workouts.Set{{SetNumber: 1, Reps: 8, Weight: 80}}},
			},
		},
		// out of range
		"2023-12-01": {
			Date: "2023-12-01",
			Exercises: []workouts.Exercise{
				{ID: "7", Name: "Bench Press", MuscleGroup: "Chest", Sets: completedSets(workouts.Set{Reps: 1, Weight: 200})},
			},
		},
	}
}

func TestSummarize(t *testing.T) {
	now := time.Date(2024, 3, 14, 20, 0, 0, 0, time.UTC)

	summary, err := analytics.Summarize(testLog(), now, 7, "")
	require.NoError(t, err)

	assert.Equal(t, 7, summary.RangeDays)
	assert.Equal(t, 2, summary.TotalWorkouts)
	assert.Equal(t, 120.0, summary.MaxWeight)
	assert.Equal(t, "Back Squat", summary.MaxWeightExercise)
	assert.Equal(t, "Chest", summary.MostTrainedMuscle)

	require.Len(t, summary.Volume, 7)
	assert.Equal(t, "2024-03-08", summary.Volume[0].Date)
	assert.Equal(t, "2024-03-14", summary.Volume[6].Date)
	assert.Equal(t, 10*60.0+8*65.0, summary.Volume[2].Volume)
	assert.Equal(t, 10*55.0+5*120.0, summary.Volume[4].Volume)
	assert.Zero(t, summary.Volume[5].Volume)
	assert.Zero(t, summary.Volume[6].Volume)

	assert.Equal(t, []analytics.ProgressPoint{
		{Date: "2024-03-10", Weight: 65},
		{Date: "2024-03-12", Weight: 55},
	}, summary.Progress)
}

func TestSummarize_VolumePointsCapped(t *testing.T) {
	now := time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC)
	summary, err := analytics.Summarize(testLog(), now, 90, "squat")
	require.NoError(t, err)

	require.Len(t, summary.Volume, 14)
	assert.Equal(t, "2024-03-14", summary.Volume[13].Date)
	// 2023-12-01 is still outside of the 90 days window
	assert.Equal(t, 2, summary.TotalWorkouts)
	assert.Equal(t, 120.0, summary.MaxWeight)
	assert.Equal(t, []analytics.ProgressPoint{{Date: "2024-03-12", Weight: 120}}, summary.Progress)
}

func TestSummarize_Empty(t *testing.T) {
	summary, err := analytics.Summarize(workouts.Log{}, time.Now(), 30, "")
	require.NoError(t, err)
	assert.Zero(t, summary.TotalWorkouts)
	assert.Zero(t, summary.MaxWeight)
	assert.Equal(t, "N/A", summary.MostTrainedMuscle)
	assert.Len(t, summary.Volume, 14)
	assert.Empty(t, summary.Progress)
}

func TestSummarize_InvalidRange(t *testing.T) {
	_, err := analytics.Summarize(workouts.Log{}, time.Now(), 14, "")
	assert.ErrorIs(t, err, analytics.ErrInvalidRange)
}

func TestSummarize_WindowIsRangeDaysLong(t *testing.T) {
	now := time.Date(2024, 3, 14, 9, 0, 0, 0, time.UTC)
	log := workouts.Log{
		// eight days back, just outside a 7 days window
		"2024-03-07": {
			Date: "2024-03-07",
			Exercises: []workouts.Exercise{
				{ID: "1", Name: "Deadlift", MuscleGroup: "Back", Sets: completedSets(workouts.Set{Reps: 3, Weight: 180})},
			},
		},
		"2024-03-08": {
			Date: "2024-03-08",
			Exercises: []workouts.Exercise{
				{ID: "2", Name: "Bench Press", MuscleGroup: "Chest", Sets: completedSets(workouts.Set{Reps: 5, Weight: 90})},
			},
		},
	}

	summary, err := analytics.Summarize(log, now, 7, "")
	require.NoError(t, err)
	assert.Equal(t, 1, summary.TotalWorkouts)
	assert.Equal(t, 90.0, summary.MaxWeight)
	assert.Equal(t, "Chest", summary.MostTrainedMuscle)
	assert.Equal(t, "2024-03-08", summary.Volume[0].Date)

	summary, err = analytics.Summarize(log, now, 30, "")
	require.NoError(t, err)
	assert.Equal(t, 2, summary.TotalWorkouts)
}
