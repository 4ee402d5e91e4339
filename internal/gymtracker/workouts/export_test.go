package workouts_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/2beens/gymtracker/internal/gymtracker/workouts"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeLog generates a valid log with random exercises for consecutive days.
func fakeLog(t *testing.T, faker *gofakeit.Faker, days int) workouts.Log {
	t.Helper()

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	log := workouts.Log{}
	for i := 0; i < days; i++ {
		date := workouts.FormatDate(start.AddDate(0, 0, i))
		day := workouts.WorkoutDay{
			Date:      date,
			DayName:   faker.Word(),
			IsRestDay: faker.Bool(),
			Exercises: []workouts.Exercise{},
		}
		for j := 0; j < faker.Number(0, 4); j++ {
			ex := workouts.NewExercise(
				faker.UUID(),
				faker.Word(),
				workouts.MuscleGroups[faker.Number(0, len(workouts.MuscleGroups)-1)],
				faker.Number(1, 5),
				faker.Number(1, 15),
				float64(faker.Number(0, 200))/2,
			)
			for k := range ex.Sets {
				ex.Sets[k].Completed = faker.Bool()
			}
			day.Exercises = append(day.Exercises, ex)
		}
		log[date] = day
	}
	return log
}

func TestExport_RoundTrip(t *testing.T) {
	faker := gofakeit.New(42)
	log := fakeLog(t, faker, 30)
	settings := workouts.Settings{WeekStartDay: 0, Units: workouts.UnitsLbs, Theme: workouts.ThemeLight}
	exportDate := time.Date(2024, 2, 1, 9, 15, 0, 0, time.UTC)

	buf := &bytes.Buffer{}
	require.NoError(t, workouts.NewExport(log, settings, exportDate).Encode(buf))
	assert.Contains(t, buf.String(), "\n  \"workouts\": {")

	imported, err := workouts.DecodeExport(buf)
	require.NoError(t, err)
	assert.Equal(t, log, imported.Workouts)
	assert.Equal(t, settings, imported.Settings)
	assert.True(t, exportDate.Equal(imported.ExportDate))
}

func TestExportFileName(t *testing.T) {
	name := workouts.ExportFileName(time.Date(2024, 7, 9, 23, 0, 0, 0, time.UTC))
	assert.Equal(t, "gym-tracker-export-2024-07-09.json", name)
}

func TestDecodeExport_Invalid(t *testing.T) {
	testCases := []struct {
		name string
		doc  string
	}{
		{name: "not json", doc: "workouts"},
		{name: "date mismatch", doc: `{"workouts": {"2024-01-02": {"date": "2024-01-03", "exercises": []}}}`},
		{name: "bad date", doc: `{"workouts": {"yesterday": {"date": "yesterday", "exercises": []}}}`},
		{name: "gap in sets", doc: `{"workouts": {"2024-01-02": {"date": "2024-01-02", "exercises": [
			{"id": "1", "sets": [{"setNumber": 1}, {"setNumber": 3}]}]}}}`},
		{name: "duplicate ids", doc: `{"workouts": {"2024-01-02": {"date": "2024-01-02", "exercises": [
			{"id": "1", "sets": []}, {"id": "1", "sets": []}]}}}`},
		{name: "bad units", doc: `{"workouts": {}, "settings": {"weekStartDay": 1, "units": "stone", "theme": "dark"}}`},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := workouts.DecodeExport(strings.NewReader(tc.doc))
			assert.ErrorIs(t, err, workouts.ErrInvalidExport)
		})
	}
}

func TestDecodeExport_MissingSettingsUsesDefaults(t *testing.T) {
	imported, err := workouts.DecodeExport(strings.NewReader(`{"workouts": {}}`))
	require.NoError(t, err)
	assert.Equal(t, workouts.DefaultSettings(), imported.Settings)
	assert.NotNil(t, imported.Workouts)
}

func TestSuggestExercises(t *testing.T) {
	bench := workouts.SuggestExercises("bench", "")
	require.NotEmpty(t, bench)
	for _, ex := range bench {
		assert.Contains(t, strings.ToLower(ex.Name), "bench")
	}

	triceps := workouts.SuggestExercises("BENCH", "triceps")
	require.Len(t, triceps, 1)
	assert.Equal(t, "Close Grip Bench Press", triceps[0].Name)

	assert.Len(t, workouts.SuggestExercises("", ""), len(workouts.CommonExercises))
	assert.Empty(t, workouts.SuggestExercises("zumba", ""))
}
