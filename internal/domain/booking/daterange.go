package booking

import (
	"fmt"
	"time"

	"github.com/SoundHire-Cloud/service-booking/internal/platform/domain"
)

// DateLayout is the calendar date format accepted on the API.
const DateLayout = "2006-01-02"

// DateRange is an inclusive range of calendar days. Start and End are kept
// at UTC midnight. A range is valid when End is not before Start.
type DateRange struct {
	Start time.Time `json:"start_date"`
	End   time.Time `json:"end_date"`
}

// NewDateRange truncates both instants to their UTC calendar day and
// validates the result.
func NewDateRange(start, end time.Time) (DateRange, error) {
	r := DateRange{Start: civilDay(start), End: civilDay(end)}
	if err := r.Validate(); err != nil {
		return DateRange{}, err
	}
	return r, nil
}

// ParseDateRange parses two YYYY-MM-DD dates.
func ParseDateRange(start, end string) (DateRange, error) {
	s, err := time.Parse(DateLayout, start)
	if err != nil {
		return DateRange{}, domain.NewValidationError(fmt.Sprintf("invalid start date %q, expected YYYY-MM-DD", start))
	}
	e, err := time.Parse(DateLayout, end)
	if err != nil {
		return DateRange{}, domain.NewValidationError(fmt.Sprintf("invalid end date %q, expected YYYY-MM-DD", end))
	}
	return NewDateRange(s, e)
}

// Validate returns ErrInvalidRange when End is before Start or either bound
// is unset.
func (r DateRange) Validate() error {
	if r.Start.IsZero() || r.End.IsZero() || r.End.Before(r.Start) {
		return ErrInvalidRange
	}
	return nil
}

const secondsPerDay = 24 * 60 * 60

// Days counts both endpoints: a same-day range is one day.
func (r DateRange) Days() int {
	return int((r.End.Unix()-r.Start.Unix())/secondsPerDay) + 1
}

// Overlaps reports whether the two ranges share at least one day.
func (r DateRange) Overlaps(other DateRange) bool {
	return !r.Start.After(other.End) && !r.End.Before(other.Start)
}

// Contains reports whether day falls inside the range.
func (r DateRange) Contains(day time.Time) bool {
	d := civilDay(day)
	return !d.Before(r.Start) && !d.After(r.End)
}

// Clamp returns the part of r that lies inside bounds. The result is only
// meaningful when the two ranges overlap.
func (r DateRange) Clamp(bounds DateRange) DateRange {
	out := r
	if out.Start.Before(bounds.Start) {
		out.Start = bounds.Start
	}
	if out.End.After(bounds.End) {
		out.End = bounds.End
	}
	return out
}

func (r DateRange) String() string {
	return r.Start.Format(DateLayout) + ".." + r.End.Format(DateLayout)
}

func civilDay(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
