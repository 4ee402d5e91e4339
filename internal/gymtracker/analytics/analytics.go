package analytics

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/2beens/gymtracker/internal/gymtracker/workouts"
)

const (
	noMuscleGroup         = "N/A"
	maxVolumePoints       = 14
	DefaultProgressFilter = "bench"
)

var ErrInvalidRange = errors.New("invalid time range")

// ValidRanges are the supported time ranges, in days.
var ValidRanges = []int{7, 30, 90}

type VolumePoint struct {
	Date   string  `json:"date"`
	Volume float64 `json:"volume"`
}

type ProgressPoint struct {
	Date   string  `json:"date"`
	Weight float64 `json:"weight"`
}

type Summary struct {
	RangeDays         int             `json:"rangeDays"`
	TotalWorkouts     int             `json:"totalWorkouts"`
	MaxWeight         float64         `json:"maxWeight"`
	MaxWeightExercise string          `json:"maxWeightExercise"`
	MostTrainedMuscle string          `json:"mostTrainedMuscle"`
	Volume            []VolumePoint   `json:"volume"`
	Progress          []ProgressPoint `json:"progress"`
}

func ValidateRange(rangeDays int) error {
	for _, r := range ValidRanges {
		if r == rangeDays {
			return nil
		}
	}
	return fmt.Errorf("%w: %d days", ErrInvalidRange, rangeDays)
}

// Summarize aggregates the non-rest days of the last rangeDays days up to now.
// Only completed sets count. progressFilter selects the exercises (by name
// substring) for the progress series.
func Summarize(log workouts.Log, now time.Time, rangeDays int, progressFilter string) (*Summary, error) {
	if err := ValidateRange(rangeDays); err != nil {
		return nil, err
	}
	if progressFilter == "" {
		progressFilter = DefaultProgressFilter
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	// rangeDays calendar days, today included
	from := today.AddDate(0, 0, -rangeDays+1)
	recent := recentDays(log, from, today)

	summary := &Summary{
		RangeDays:         rangeDays,
		MostTrainedMuscle: noMuscleGroup,
		Volume:            make([]VolumePoint, 0),
		Progress:          make([]ProgressPoint, 0),
	}

	muscleGroupCount := make(map[string]int)
	volumeByDate := make(map[string]float64)
	for _, day := range recent {
		trained := false
		var dayVolume float64
		var progressWeight float64
		for _, ex := range day.Exercises {
			completedSets := 0
			for _, s := range ex.Sets {
				if !s.Completed {
					continue
				}
				trained = true
				completedSets++
				dayVolume += float64(s.Reps) * s.Weight
				if s.Weight > summary.MaxWeight {
					summary.MaxWeight = s.Weight
					summary.MaxWeightExercise = ex.Name
				}
				if strings.Contains(strings.ToLower(ex.Name), strings.ToLower(progressFilter)) && s.Weight > progressWeight {
					progressWeight = s.Weight
				}
			}
			if completedSets > 0 {
				muscleGroupCount[ex.MuscleGroup]++
			}
		}
		if trained {
			summary.TotalWorkouts++
		}
		volumeByDate[day.Date] = dayVolume
		if progressWeight > 0 {
			summary.Progress = append(summary.Progress, ProgressPoint{Date: day.Date, Weight: progressWeight})
		}
	}

	summary.MostTrainedMuscle = mostTrained(muscleGroupCount)

	points := rangeDays
	if points > maxVolumePoints {
		points = maxVolumePoints
	}
	for i := points - 1; i >= 0; i-- {
		date := workouts.FormatDate(today.AddDate(0, 0, -i))
		summary.Volume = append(summary.Volume, VolumePoint{
			Date:   date,
			Volume: volumeByDate[date],
		})
	}

	return summary, nil
}

// recentDays returns the non-rest days within [from, to], sorted by date.
func recentDays(log workouts.Log, from, to time.Time) []workouts.WorkoutDay {
	days := make([]workouts.WorkoutDay, 0)
	for _, day := range log {
		if day.IsRestDay {
			continue
		}
		date, err := workouts.ParseDate(day.Date)
		if err != nil {
			continue
		}
		if date.Before(from) || date.After(to) {
			continue
		}
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool {
		return days[i].Date < days[j].Date
	})
	return days
}

func mostTrained(muscleGroupCount map[string]int) string {
	best, bestCount := noMuscleGroup, 0
	for group, count := range muscleGroupCount {
		if count > bestCount || (count == bestCount && group < best) {
			best, bestCount = group, count
		}
	}
	return best
}
