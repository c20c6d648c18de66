package period

import (
	"fmt"
	"time"

	apperrors "github.com/vytor/hvladder/internal/errors"
	"github.com/vytor/hvladder/internal/models"
)

const dateLayout = "2006-01-02"

// Period shorthands accepted by Resolve.
const (
	OneMonth  = "1m"
	TwoMonths = "2m"
)

// Epoch is the start of the "all time" period.
var Epoch = time.Date(1990, time.January, 1, 0, 0, 0, 0, time.UTC)

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock always returns the same instant. Useful in tests.
type FixedClock time.Time

func (c FixedClock) Now() time.Time { return time.Time(c) }

// Resolver turns CLI period arguments into a concrete date range.
type Resolver struct {
	clock Clock
}

func NewResolver(clock Clock) *Resolver {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Resolver{clock: clock}
}

// Today returns the current date at UTC midnight.
func (r *Resolver) Today() time.Time {
	return Date(r.clock.Now())
}

// Resolve combines a shorthand ("1m", "2m" or anything else for all time) with
// optional ISO dates. An explicit start wins over the shorthand; a missing end
// means tomorrow so that today's games are included.
func (r *Resolver) Resolve(shorthand, start, end string) (models.Period, error) {
	today := r.Today()
	tomorrow := today.AddDate(0, 0, 1)

	p := models.Period{Name: shorthand, End: tomorrow}

	switch {
	case start != "":
		s, err := parseDate("start", start)
		if err != nil {
			return models.Period{}, err
		}
		p.Start = s
		if end != "" {
			e, err := parseDate("end", end)
			if err != nil {
				return models.Period{}, err
			}
			p.End = e
		}
	case shorthand == OneMonth:
		p.Start = time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
	case shorthand == TwoMonths:
		p.Start = time.Date(today.Year(), BlockStartMonth(today.Month()), 1, 0, 0, 0, 0, time.UTC)
	default:
		p.Start = Epoch
	}

	if !p.End.After(p.Start) {
		return models.Period{}, apperrors.NewValidationError("end",
			fmt.Sprintf("%s is not after %s", p.End.Format(dateLayout), p.Start.Format(dateLayout)))
	}
	return p, nil
}

// BlockStartMonth returns the odd month opening the two-month block containing m.
func BlockStartMonth(m time.Month) time.Month {
	return time.Month(((int(m) - 1) &^ 1) + 1)
}

// SeasonNumber returns the 1-based season (two-month block) of m.
func SeasonNumber(m time.Month) int {
	return (int(m) + 1) / 2
}

// Season returns the two-month season period starting at the block containing month.
func Season(year int, month time.Month) models.Period {
	first := BlockStartMonth(month)
	start := time.Date(year, first, 1, 0, 0, 0, 0, time.UTC)
	return models.Period{
		Name:  fmt.Sprintf("%d-%d", year, SeasonNumber(first)),
		Start: start,
		End:   start.AddDate(0, 2, 0),
	}
}

// Date truncates t to its calendar date at UTC midnight.
func Date(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func parseDate(field, s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, apperrors.NewValidationError(field, fmt.Sprintf("%q is not a YYYY-MM-DD date", s))
	}
	return t, nil
}
