package workouts

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"
)

var ErrInvalidExport = errors.New("invalid export document")

// Export is the user-downloadable snapshot of the whole app state.
type Export struct {
	Workouts   Log       `json:"workouts"`
	Settings   Settings  `json:"settings"`
	ExportDate time.Time `json:"exportDate"`
}

func NewExport(log Log, settings Settings, exportDate time.Time) Export {
	if log == nil {
		log = Log{}
	}
	return Export{
		Workouts:   log.Clone(),
		Settings:   settings,
		ExportDate: exportDate.UTC(),
	}
}

// ExportFileName returns gym-tracker-export-<yyyy-MM-dd>.json
func ExportFileName(t time.Time) string {
	return fmt.Sprintf("gym-tracker-export-%s.json", FormatDate(t))
}

// Encode writes the export as indented JSON.
func (e Export) Encode(w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(e); err != nil {
		return fmt.Errorf("encode export: %w", err)
	}
	return nil
}

// DecodeExport reads and validates an export document.
func DecodeExport(r io.Reader) (*Export, error) {
	var raw struct {
		Workouts   Log       `json:"workouts"`
		Settings   *Settings `json:"settings"`
		ExportDate time.Time `json:"exportDate"`
	}
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidExport, err)
	}

	if raw.Workouts == nil {
		raw.Workouts = Log{}
	}
	if err := raw.Workouts.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidExport, err)
	}

	settings := DefaultSettings()
	if raw.Settings != nil {
		settings = *raw.Settings
	}
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidExport, err)
	}

	return &Export{
		Workouts:   raw.Workouts,
		Settings:   settings,
		ExportDate: raw.ExportDate,
	}, nil
}
