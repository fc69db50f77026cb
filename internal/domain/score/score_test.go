package score_test

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/okian/typerank/internal/domain/score"
	"github.com/smartystreets/goconvey/convey"
)

func fixedClock() time.Time {
	return time.Date(2025, 3, 4, 5, 6, 7, 891_000_000, time.FixedZone("CET", 3600))
}

func fieldOf(err error) string {
	var verr *score.ValidationError
	if errors.As(err, &verr) {
		return verr.Field
	}
	return ""
}

func TestNew(t *testing.T) {
	convey.Convey("Given valid input", t, func() {
		in := score.Input{Name: "  Ada  ", WPM: 72.5, Accuracy: 98.0}

		convey.Convey("When building a record", func() {
			rec, err := score.New(in,
				score.WithClock(fixedClock),
				score.WithIDGenerator(func() string { return "id-1" }),
			)

			convey.Convey("Then the name is trimmed and id/date are stamped", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(rec.ID, convey.ShouldEqual, "id-1")
				convey.So(rec.Name, convey.ShouldEqual, "Ada")
				convey.So(rec.WPM, convey.ShouldEqual, 72.5)
				convey.So(rec.Accuracy, convey.ShouldEqual, 98.0)
				convey.So(rec.Date, convey.ShouldEqual, "2025-03-04T04:06:07.891Z")
				convey.So(rec.Validate(), convey.ShouldBeNil)
			})
		})

		convey.Convey("When building two records with default options", func() {
			a, errA := score.New(in)
			b, errB := score.New(in)

			convey.Convey("Then each gets a distinct id", func() {
				convey.So(errA, convey.ShouldBeNil)
				convey.So(errB, convey.ShouldBeNil)
				convey.So(a.ID, convey.ShouldNotEqual, b.ID)
				_, err := a.Time()
				convey.So(err, convey.ShouldBeNil)
			})
		})
	})

	convey.Convey("Given numeric strings", t, func() {
		rec, err := score.New(score.Input{Name: "Bo", WPM: " 61 ", Accuracy: "99.5"})

		convey.Convey("Then they are parsed", func() {
			convey.So(err, convey.ShouldBeNil)
			convey.So(rec.WPM, convey.ShouldEqual, 61.0)
			convey.So(rec.Accuracy, convey.ShouldEqual, 99.5)
		})
	})

	convey.Convey("Given json.Number and integer values", t, func() {
		rec, err := score.New(score.Input{Name: "Cy", WPM: json.Number("80"), Accuracy: 100})

		convey.Convey("Then they are accepted", func() {
			convey.So(err, convey.ShouldBeNil)
			convey.So(rec.WPM, convey.ShouldEqual, 80.0)
			convey.So(rec.Accuracy, convey.ShouldEqual, 100.0)
		})
	})
}

func TestNewValidation(t *testing.T) {
	cases := []struct {
		desc  string
		in    score.Input
		field string
	}{
		{"empty name", score.Input{Name: "", WPM: 60, Accuracy: 90}, score.FieldName},
		{"blank name", score.Input{Name: "   ", WPM: 60, Accuracy: 90}, score.FieldName},
		{"missing wpm", score.Input{Name: "x", Accuracy: 90}, score.FieldWPM},
		{"garbage wpm", score.Input{Name: "x", WPM: "fast", Accuracy: 90}, score.FieldWPM},
		{"trailing garbage wpm", score.Input{Name: "x", WPM: "60wpm", Accuracy: 90}, score.FieldWPM},
		{"NaN wpm", score.Input{Name: "x", WPM: math.NaN(), Accuracy: 90}, score.FieldWPM},
		{"NaN string wpm", score.Input{Name: "x", WPM: "NaN", Accuracy: 90}, score.FieldWPM},
		{"infinite wpm", score.Input{Name: "x", WPM: math.Inf(1), Accuracy: 90}, score.FieldWPM},
		{"negative wpm", score.Input{Name: "x", WPM: -1, Accuracy: 90}, score.FieldWPM},
		{"bool wpm", score.Input{Name: "x", WPM: true, Accuracy: 90}, score.FieldWPM},
		{"missing accuracy", score.Input{Name: "x", WPM: 60}, score.FieldAccuracy},
		{"empty accuracy", score.Input{Name: "x", WPM: 60, Accuracy: ""}, score.FieldAccuracy},
		{"accuracy above 100", score.Input{Name: "x", WPM: 60, Accuracy: 100.01}, score.FieldAccuracy},
		{"accuracy below 0", score.Input{Name: "x", WPM: 60, Accuracy: -1}, score.FieldAccuracy},
	}

	convey.Convey("Given invalid inputs", t, func() {
		for _, tc := range cases {
			convey.Convey("When the input has "+tc.desc, func() {
				_, err := score.New(tc.in)

				convey.Convey("Then a ValidationError names the field", func() {
					convey.So(err, convey.ShouldNotBeNil)
					convey.So(errors.Is(err, score.ErrInvalid), convey.ShouldBeTrue)
					convey.So(fieldOf(err), convey.ShouldEqual, tc.field)
				})
			})
		}
	})

	convey.Convey("Given accuracy exactly on the bounds", t, func() {
		_, errHigh := score.New(score.Input{Name: "x", WPM: 60, Accuracy: 100})
		_, errLow := score.New(score.Input{Name: "x", WPM: 0, Accuracy: 0})

		convey.Convey("Then both are accepted", func() {
			convey.So(errHigh, convey.ShouldBeNil)
			convey.So(errLow, convey.ShouldBeNil)
		})
	})
}

func TestRecordValidate(t *testing.T) {
	convey.Convey("Given stored records", t, func() {
		good := score.Record{ID: "1700000000000", Name: "Ada", WPM: 70, Accuracy: 95, Date: "2024-01-02T03:04:05.678Z"}

		convey.Convey("Then a record written by earlier deployments is valid", func() {
			convey.So(good.Validate(), convey.ShouldBeNil)
		})

		convey.Convey("Then missing fields are reported", func() {
			noID := good
			noID.ID = ""
			convey.So(fieldOf(noID.Validate()), convey.ShouldEqual, score.FieldID)

			badDate := good
			badDate.Date = "yesterday"
			convey.So(fieldOf(badDate.Validate()), convey.ShouldEqual, score.FieldDate)

			badAcc := good
			badAcc.Accuracy = 101
			convey.So(fieldOf(badAcc.Validate()), convey.ShouldEqual, score.FieldAccuracy)
		})
	})
}

func TestInvalid(t *testing.T) {
	convey.Convey("Given a validation error built outside New", t, func() {
		err := score.Invalid(score.FieldName, "is required")

		convey.Convey("Then it matches ErrInvalid and names the field", func() {
			convey.So(errors.Is(err, score.ErrInvalid), convey.ShouldBeTrue)
			convey.So(fieldOf(err), convey.ShouldEqual, score.FieldName)
			convey.So(err.Error(), convey.ShouldEqual, "name is required")
		})
	})
}
