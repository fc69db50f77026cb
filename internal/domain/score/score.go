// Package score defines the score record submitted to the leaderboard and the
// validation that guards its construction.
package score

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// DateLayout is the textual form of Record.Date: UTC, millisecond precision,
// lexically sortable.
const DateLayout = "2006-01-02T15:04:05.000Z"

// Accuracy bounds, in percent.
const (
	MinAccuracy = 0
	MaxAccuracy = 100
)

// Record is one ranked submission. Records are values and are never mutated
// after creation.
type Record struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	WPM      float64 `json:"wpm"`
	Accuracy float64 `json:"accuracy"`
	Date     string  `json:"date"`
}

// Time parses Date.
func (r Record) Time() (time.Time, error) {
	return time.Parse(DateLayout, r.Date)
}

// Input is untrusted submission data. WPM and Accuracy accept JSON numbers,
// numeric strings and Go numeric types.
type Input struct {
	Name     string `json:"name"`
	WPM      any    `json:"wpm"`
	Accuracy any    `json:"accuracy"`
}

// Option customizes record construction.
type Option func(*factory)

type factory struct {
	now   func() time.Time
	newID func() string
}

// WithClock overrides the time source used for Date.
func WithClock(now func() time.Time) Option {
	return func(f *factory) {
		if now != nil {
			f.now = now
		}
	}
}

// WithIDGenerator overrides the id source.
func WithIDGenerator(newID func() string) Option {
	return func(f *factory) {
		if newID != nil {
			f.newID = newID
		}
	}
}

// New validates in and stamps a fresh id and date on the resulting record.
func New(in Input, opts ...Option) (Record, error) {
	f := factory{now: time.Now, newID: uuid.NewString}
	for _, opt := range opts {
		opt(&f)
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		return Record{}, Invalid(FieldName, "is required")
	}

	wpm, err := parseNumber(FieldWPM, in.WPM)
	if err != nil {
		return Record{}, err
	}
	if wpm < 0 {
		return Record{}, Invalid(FieldWPM, "must not be negative")
	}

	accuracy, err := parseNumber(FieldAccuracy, in.Accuracy)
	if err != nil {
		return Record{}, err
	}
	if accuracy < MinAccuracy || accuracy > MaxAccuracy {
		return Record{}, Invalid(FieldAccuracy, "must be between 0 and 100")
	}

	return Record{
		ID:       f.newID(),
		Name:     name,
		WPM:      wpm,
		Accuracy: accuracy,
		Date:     f.now().UTC().Format(DateLayout),
	}, nil
}

// Validate checks a record loaded from storage against the record invariants.
func (r Record) Validate() error {
	switch {
	case strings.TrimSpace(r.ID) == "":
		return Invalid(FieldID, "is required")
	case strings.TrimSpace(r.Name) == "":
		return Invalid(FieldName, "is required")
	case !finite(r.WPM) || r.WPM < 0:
		return Invalid(FieldWPM, "must be a non-negative number")
	case !finite(r.Accuracy) || r.Accuracy < MinAccuracy || r.Accuracy > MaxAccuracy:
		return Invalid(FieldAccuracy, "must be between 0 and 100")
	}
	if _, err := r.Time(); err != nil {
		return Invalid(FieldDate, "must be an ISO-8601 UTC timestamp")
	}
	return nil
}

func parseNumber(field string, v any) (float64, error) {
	var (
		f   float64
		err error
	)
	switch n := v.(type) {
	case nil:
		return 0, Invalid(field, "is required")
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case int32:
		f = float64(n)
	case uint:
		f = float64(n)
	case uint64:
		f = float64(n)
	case json.Number:
		f, err = n.Float64()
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0, Invalid(field, "is required")
		}
		f, err = strconv.ParseFloat(s, 64)
	default:
		return 0, Invalid(field, "must be a number")
	}
	if err != nil || !finite(f) {
		return 0, Invalid(field, "must be a finite number")
	}
	return f, nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
