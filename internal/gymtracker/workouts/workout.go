package workouts

import (
	"errors"
	"fmt"
)

var (
	ErrLastSet            = errors.New("exercise must keep at least one set")
	ErrSetIndexOutOfRange = errors.New("set index out of range")
	ErrExerciseNotFound   = errors.New("exercise not found")
	ErrInvalidSettings    = errors.New("invalid settings")
	ErrInvalidLog         = errors.New("invalid workout log")
)

type Set struct {
	SetNumber int     `json:"setNumber"`
	Reps      int     `json:"reps"`
	Weight    float64 `json:"weight"`
	Completed bool    `json:"completed"`
}

type Exercise struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	MuscleGroup string `json:"muscleGroup"`
	Sets        []Set  `json:"sets"`
}

// WorkoutDay is the plan/log of one calendar date, a.k.a. day plan.
type WorkoutDay struct {
	Date      string     `json:"date"`
	DayName   string     `json:"dayName"`
	Exercises []Exercise `json:"exercises"`
	IsRestDay bool       `json:"isRestDay"`
}

// Log maps an ISO date (yyyy-MM-dd) to the workout stored for it.
type Log map[string]WorkoutDay

type Units string

const (
	UnitsKg  Units = "kg"
	UnitsLbs Units = "lbs"
)

type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

type Settings struct {
	// WeekStartDay is 0 (Sunday) .. 6 (Saturday)
	WeekStartDay int   `json:"weekStartDay"`
	Units        Units `json:"units"`
	Theme        Theme `json:"theme"`
}

// SettingsPatch holds a partial settings update, nil fields are left untouched.
type SettingsPatch struct {
	WeekStartDay *int   `json:"weekStartDay,omitempty"`
	Units        *Units `json:"units,omitempty"`
	Theme        *Theme `json:"theme,omitempty"`
}

func DefaultSettings() Settings {
	return Settings{
		WeekStartDay: 1, // Monday
		Units:        UnitsKg,
		Theme:        ThemeDark,
	}
}

func (s Settings) Validate() error {
	if s.WeekStartDay < 0 || s.WeekStartDay > 6 {
		return fmt.Errorf("%w: week start day %d not in [0, 6]", ErrInvalidSettings, s.WeekStartDay)
	}
	switch s.Units {
	case UnitsKg, UnitsLbs:
	default:
		return fmt.Errorf("%w: unknown units [%s]", ErrInvalidSettings, s.Units)
	}
	switch s.Theme {
	case ThemeDark, ThemeLight:
	default:
		return fmt.Errorf("%w: unknown theme [%s]", ErrInvalidSettings, s.Theme)
	}
	return nil
}

// Apply merges the patch into a copy of the settings and validates the result.
func (s Settings) Apply(patch SettingsPatch) (Settings, error) {
	if patch.WeekStartDay != nil {
		s.WeekStartDay = *patch.WeekStartDay
	}
	if patch.Units != nil {
		s.Units = *patch.Units
	}
	if patch.Theme != nil {
		s.Theme = *patch.Theme
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Clone returns a deep copy of the exercise.
func (e Exercise) Clone() Exercise {
	sets := make([]Set, len(e.Sets))
	copy(sets, e.Sets)
	e.Sets = sets
	return e
}

// Clone returns a deep copy of the day.
func (d WorkoutDay) Clone() WorkoutDay {
	exercises := make([]Exercise, 0, len(d.Exercises))
	for _, ex := range d.Exercises {
		exercises = append(exercises, ex.Clone())
	}
	d.Exercises = exercises
	return d
}

// Clone returns a copy of the log with every day deep copied.
func (l Log) Clone() Log {
	cloned := make(Log, len(l))
	for date, day := range l {
		cloned[date] = day.Clone()
	}
	return cloned
}

// CompletedSets returns the number of completed sets of the exercise.
func (e Exercise) CompletedSets() int {
	completed := 0
	for _, s := range e.Sets {
		if s.Completed {
			completed++
		}
	}
	return completed
}

// IsCompleted is true when the exercise has sets and every one of them is completed.
func (e Exercise) IsCompleted() bool {
	return len(e.Sets) > 0 && e.CompletedSets() == len(e.Sets)
}

// Validate checks the invariants of a log loaded from outside (storage, import).
func (l Log) Validate() error {
	for date, day := range l {
		if day.Date != date {
			return fmt.Errorf("%w: day [%s] stored under key [%s]", ErrInvalidLog, day.Date, date)
		}
		if _, err := ParseDate(date); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidLog, err)
		}
		ids := make(map[string]struct{}, len(day.Exercises))
		for _, ex := range day.Exercises {
			if ex.ID == "" {
				return fmt.Errorf("%w: exercise [%s] on %s has no id", ErrInvalidLog, ex.Name, date)
			}
			if _, ok := ids[ex.ID]; ok {
				return fmt.Errorf("%w: duplicate exercise id [%s] on %s", ErrInvalidLog, ex.ID, date)
			}
			ids[ex.ID] = struct{}{}
			for i, s := range ex.Sets {
				if s.SetNumber != i+1 {
					return fmt.Errorf("%w: exercise [%s] on %s: set %d numbered %d", ErrInvalidLog, ex.ID, date, i+1, s.SetNumber)
				}
				if s.Reps < 0 || s.Weight < 0 {
					return fmt.Errorf("%w: exercise [%s] on %s: negative reps or weight", ErrInvalidLog, ex.ID, date)
				}
			}
		}
	}
	return nil
}
