package state

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/2beens/gymtracker/internal/gymtracker/analytics"
	"github.com/2beens/gymtracker/internal/gymtracker/workouts"
)

// Change tells subscribers which parts of the state were modified.
type Change int

const (
	ChangeWorkouts Change = 1 << iota
	ChangeSettings
)

func (c Change) Has(other Change) bool {
	return c&other != 0
}

// Snapshot is a deep copy of the state, safe to keep after the notification.
type Snapshot struct {
	Workouts workouts.Log
	Settings workouts.Settings
}

// Subscriber is notified after every state transition, in transition order.
type Subscriber interface {
	OnChange(ctx context.Context, change Change, snapshot Snapshot)
}

type SubscriberFunc func(ctx context.Context, change Change, snapshot Snapshot)

func (f SubscriberFunc) OnChange(ctx context.Context, change Change, snapshot Snapshot) {
	f(ctx, change, snapshot)
}

// ExerciseForm is the add exercise input. Explicit sets win over NumSets/Reps/Weight.
type ExerciseForm struct {
	Name        string         `json:"name"`
	MuscleGroup string         `json:"muscleGroup"`
	Sets        []workouts.Set `json:"sets,omitempty"`
	NumSets     int            `json:"numSets,omitempty"`
	Reps        int            `json:"reps,omitempty"`
	Weight      float64        `json:"weight,omitempty"`
}

// DayUpdate holds a partial day update, nil fields are left untouched.
type DayUpdate struct {
	DayName   *string `json:"dayName,omitempty"`
	IsRestDay *bool   `json:"isRestDay,omitempty"`
}

// Container owns the workout log and the settings. Every mutation runs under
// the container lock and notifies the subscribers before returning.
type Container struct {
	mutex       sync.Mutex
	workouts    workouts.Log
	settings    workouts.Settings
	subscribers []Subscriber

	now   func() time.Time
	newID workouts.IDFunc
}

type Option func(c *Container)

func WithClock(now func() time.Time) Option {
	return func(c *Container) {
		c.now = now
	}
}

func WithIDFunc(newID workouts.IDFunc) Option {
	return func(c *Container) {
		c.newID = newID
	}
}

func NewContainer(log workouts.Log, settings workouts.Settings, opts ...Option) *Container {
	if log == nil {
		log = workouts.Log{}
	}
	c := &Container{
		workouts: log.Clone(),
		settings: settings,
		now:      time.Now,
		newID:    workouts.NewExerciseID,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Container) Subscribe(subscriber Subscriber) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.subscribers = append(c.subscribers, subscriber)
}

func (c *Container) Now() time.Time {
	return c.now()
}

// notify must be called with the lock held.
func (c *Container) notify(ctx context.Context, change Change) {
	if len(c.subscribers) == 0 {
		return
	}
	snapshot := Snapshot{
		Workouts: c.workouts.Clone(),
		Settings: c.settings,
	}
	for _, s := range c.subscribers {
		s.OnChange(ctx, change, snapshot)
	}
}

func (c *Container) Snapshot() Snapshot {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return Snapshot{
		Workouts: c.workouts.Clone(),
		Settings: c.settings,
	}
}

func (c *Container) Settings() workouts.Settings {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.settings
}

func (c *Container) UpdateSettings(ctx context.Context, patch workouts.SettingsPatch) (workouts.Settings, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	updated, err := c.settings.Apply(patch)
	if err != nil {
		return c.settings, err
	}
	c.settings = updated
	c.notify(ctx, ChangeSettings)
	return updated, nil
}

// Day returns the stored or synthesized day, synthesized days are not stored.
func (c *Container) Day(date string) (workouts.WorkoutDay, error) {
	if _, err := workouts.ParseDate(date); err != nil {
		return workouts.WorkoutDay{}, err
	}
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return workouts.GetOrCreateDay(c.workouts, date), nil
}

// updateDay applies fn to the day and stores the result. Must be called with the lock held.
func (c *Container) updateDay(ctx context.Context, date string, fn func(day workouts.WorkoutDay) (workouts.WorkoutDay, error)) (workouts.WorkoutDay, error) {
	if _, err := workouts.ParseDate(date); err != nil {
		return workouts.WorkoutDay{}, err
	}
	updated, err := fn(workouts.GetOrCreateDay(c.workouts, date))
	if err != nil {
		return workouts.WorkoutDay{}, err
	}
	c.workouts[date] = updated
	c.notify(ctx, ChangeWorkouts)
	return updated.Clone(), nil
}

func (c *Container) UpdateDay(ctx context.Context, date string, update DayUpdate) (workouts.WorkoutDay, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	return c.updateDay(ctx, date, func(day workouts.WorkoutDay) (workouts.WorkoutDay, error) {
		if update.DayName != nil {
			day.DayName = *update.DayName
		}
		if update.IsRestDay != nil {
			day.IsRestDay = *update.IsRestDay
		}
		return day, nil
	})
}

// AddExercise creates an exercise with a fresh id and appends it to the day.
func (c *Container) AddExercise(ctx context.Context, date string, form ExerciseForm) (workouts.Exercise, error) {
	if form.Name == "" {
		return workouts.Exercise{}, fmt.Errorf("%w: exercise name empty", workouts.ErrInvalidLog)
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	var exercise workouts.Exercise
	if len(form.Sets) > 0 {
		exercise = workouts.Exercise{
			ID:          c.newID(),
			Name:        form.Name,
			MuscleGroup: form.MuscleGroup,
			Sets:        make([]workouts.Set, len(form.Sets)),
		}
		for i, set := range form.Sets {
			set.SetNumber = i + 1
			exercise.Sets[i] = set
		}
	} else {
		numSets := form.NumSets
		if numSets <= 0 {
			numSets = 3
		}
		reps := form.Reps
		if reps <= 0 {
			reps = 10
		}
		exercise = workouts.NewExercise(c.newID(), form.Name, form.MuscleGroup, numSets, reps, form.Weight)
	}
	if err := validateExercise(exercise); err != nil {
		return workouts.Exercise{}, err
	}

	if _, err := c.updateDay(ctx, date, func(day workouts.WorkoutDay) (workouts.WorkoutDay, error) {
		return workouts.UpsertExercise(day, exercise), nil
	}); err != nil {
		return workouts.Exercise{}, err
	}
	return exercise.Clone(), nil
}

func (c *Container) UpsertExercise(ctx context.Context, date string, exercise workouts.Exercise) (workouts.WorkoutDay, error) {
	if exercise.ID == "" {
		return workouts.WorkoutDay{}, fmt.Errorf("%w: exercise id empty", workouts.ErrInvalidLog)
	}
	for i := range exercise.Sets {
		exercise.Sets[i].SetNumber = i + 1
	}
	if err := validateExercise(exercise); err != nil {
		return workouts.WorkoutDay{}, err
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	return c.updateDay(ctx, date, func(day workouts.WorkoutDay) (workouts.WorkoutDay, error) {
		return workouts.UpsertExercise(day, exercise), nil
	})
}

func (c *Container) DeleteExercise(ctx context.Context, date, id string) (workouts.WorkoutDay, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	return c.updateDay(ctx, date, func(day workouts.WorkoutDay) (workouts.WorkoutDay, error) {
		return workouts.DeleteExercise(day, id), nil
	})
}

// updateExercise applies fn to one exercise of the day. Must be called with the lock held.
func (c *Container) updateExercise(
	ctx context.Context,
	date, id string,
	fn func(ex workouts.Exercise) (workouts.Exercise, error),
) (workouts.Exercise, error) {
	var updated workouts.Exercise
	if _, err := c.updateDay(ctx, date, func(day workouts.WorkoutDay) (workouts.WorkoutDay, error) {
		exercise, err := workouts.FindExercise(day, id)
		if err != nil {
			return workouts.WorkoutDay{}, err
		}
		updated, err = fn(exercise)
		if err != nil {
			return workouts.WorkoutDay{}, err
		}
		return workouts.UpsertExercise(day, updated), nil
	}); err != nil {
		return workouts.Exercise{}, err
	}
	return updated, nil
}

func (c *Container) AddSet(ctx context.Context, date, id string) (workouts.Exercise, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	return c.updateExercise(ctx, date, id, func(ex workouts.Exercise) (workouts.Exercise, error) {
		return workouts.AddSet(ex), nil
	})
}

func (c *Container) RemoveSet(ctx context.Context, date, id string, index int) (workouts.Exercise, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	return c.updateExercise(ctx, date, id, func(ex workouts.Exercise) (workouts.Exercise, error) {
		return workouts.RemoveSet(ex, index)
	})
}

func (c *Container) SetCompleted(ctx context.Context, date, id string, index int, completed bool) (workouts.Exercise, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	return c.updateExercise(ctx, date, id, func(ex workouts.Exercise) (workouts.Exercise, error) {
		return workouts.SetCompleted(ex, index, completed)
	})
}

// Week returns the planner week containing date, per the week start setting.
func (c *Container) Week(date string) ([]workouts.PlannedDay, error) {
	t, err := workouts.ParseDate(date)
	if err != nil {
		return nil, err
	}
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return workouts.WeekPlan(c.workouts, workouts.WeekStart(t, c.settings.WeekStartDay)), nil
}

// CopyPreviousWeek copies the week before the one containing date into it.
func (c *Container) CopyPreviousWeek(ctx context.Context, date string) ([]workouts.PlannedDay, error) {
	t, err := workouts.ParseDate(date)
	if err != nil {
		return nil, err
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	target := workouts.WeekStart(t, c.settings.WeekStartDay)
	source := target.AddDate(0, 0, -7)
	c.workouts = workouts.CopyWeek(c.workouts, source, target, c.newID)
	c.notify(ctx, ChangeWorkouts)
	return workouts.WeekPlan(c.workouts, target), nil
}

func (c *Container) Analytics(rangeDays int, progressFilter string) (*analytics.Summary, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return analytics.Summarize(c.workouts, c.now(), rangeDays, progressFilter)
}

func (c *Container) Export() workouts.Export {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return workouts.NewExport(c.workouts, c.settings, c.now())
}

// Import replaces the whole state with the export content.
func (c *Container) Import(ctx context.Context, export workouts.Export) error {
	if err := export.Workouts.Validate(); err != nil {
		return err
	}
	if err := export.Settings.Validate(); err != nil {
		return err
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.workouts = export.Workouts.Clone()
	if c.workouts == nil {
		c.workouts = workouts.Log{}
	}
	c.settings = export.Settings
	c.notify(ctx, ChangeWorkouts|ChangeSettings)
	return nil
}

func validateExercise(exercise workouts.Exercise) error {
	for _, set := range exercise.Sets {
		if set.Reps < 0 || set.Weight < 0 {
			return fmt.Errorf("%w: negative reps or weight in [%s]", workouts.ErrInvalidLog, exercise.Name)
		}
	}
	return nil
}

// SeedSample adds today's sample workout, used on the very first start.
func (c *Container) SeedSample(ctx context.Context) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	for date, day := range workouts.SampleLog(c.now(), c.newID) {
		if _, exists := c.workouts[date]; !exists {
			c.workouts[date] = day
		}
	}
	c.notify(ctx, ChangeWorkouts)
}
