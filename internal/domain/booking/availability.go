package booking

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
)

// Reservation is the slice of an existing booking that availability math
// needs.
type Reservation struct {
	BookingID uuid.UUID
	Range     DateRange
	Qty       int
	Status    BookingStatus
}

// Decision is the outcome of an availability check. When Accepted is false,
// Reason says why and Available holds the free units at rejection time.
type Decision struct {
	Accepted  bool
	Reason    RejectionReason
	Requested int
	Stock     int
	Committed int
	Available int
}

// Err returns nil for an accepted decision and the matching
// RejectionError otherwise.
func (d Decision) Err() error {
	if d.Accepted {
		return nil
	}
	switch d.Reason {
	case ReasonInvalidRange:
		return ErrInvalidRange
	case ReasonInvalidQuantity:
		return ErrInvalidQuantity
	default:
		return NewInsufficientStockError(d.Requested, d.Available, d.Committed, d.Stock)
	}
}

// Message is a short human-readable summary of the decision.
func (d Decision) Message(packageName string) string {
	if d.Accepted {
		return fmt.Sprintf("%s is available (%d of %d free for these dates)", packageName, d.Available, d.Stock)
	}
	if d.Reason == ReasonInsufficientStock {
		return fmt.Sprintf("Not enough %s available. You need: %d, we have: %d (already booked: %d/%d)",
			packageName, d.Requested, d.Available, d.Committed, d.Stock)
	}
	return d.Err().Error()
}

// AvailabilityPolicy decides whether qty more units of a package with the
// given stock fit into requested alongside the existing reservations.
// Implementations are pure: the same inputs always give the same Decision.
type AvailabilityPolicy interface {
	Check(stock int, requested DateRange, qty int, existing []Reservation) Decision
}

const (
	PolicyRange = "range"
	PolicyDaily = "daily"
)

// NewAvailabilityPolicy returns the policy registered under name. An empty
// name selects the range policy.
func NewAvailabilityPolicy(name string) (AvailabilityPolicy, error) {
	switch name {
	case "", PolicyRange:
		return RangePolicy{}, nil
	case PolicyDaily:
		return DailyPolicy{}, nil
	default:
		return nil, fmt.Errorf("unknown availability policy %q", name)
	}
}

// RangePolicy sums the quantity of every reservation that overlaps the
// requested range anywhere, as if they all fell on the same day. It may
// reject requests a per-day count would accept but never accepts one that
// would overbook.
type RangePolicy struct{}

func (RangePolicy) Check(stock int, requested DateRange, qty int, existing []Reservation) Decision {
	if d, ok := validateRequest(stock, requested, qty); !ok {
		return d
	}

	committed := 0
	for _, r := range existing {
		if r.Status.HoldsStock() && r.Range.Overlaps(requested) {
			committed += r.Qty
		}
	}
	return decide(stock, qty, committed)
}

// DailyPolicy finds the busiest single day inside the requested range and
// compares the request against the stock left on that day.
type DailyPolicy struct{}

func (DailyPolicy) Check(stock int, requested DateRange, qty int, existing []Reservation) Decision {
	if d, ok := validateRequest(stock, requested, qty); !ok {
		return d
	}

	type delta struct {
		day time.Time
		qty int
	}
	deltas := make([]delta, 0, 2*len(existing))
	for _, r := range existing {
		if !r.Status.HoldsStock() || !r.Range.Overlaps(requested) {
			continue
		}
		span := r.Range.Clamp(requested)
		deltas = append(deltas,
			delta{day: span.Start, qty: r.Qty},
			delta{day: span.End.AddDate(0, 0, 1), qty: -r.Qty},
		)
	}

	// Releases sort before bookings starting on the same day.
	sort.Slice(deltas, func(i, j int) bool {
		if deltas[i].day.Equal(deltas[j].day) {
			return deltas[i].qty < deltas[j].qty
		}
		return deltas[i].day.Before(deltas[j].day)
	})

	running, peak := 0, 0
	for _, d := range deltas {
		running += d.qty
		if running > peak {
			peak = running
		}
	}
	return decide(stock, qty, peak)
}

func validateRequest(stock int, requested DateRange, qty int) (Decision, bool) {
	if err := requested.Validate(); err != nil {
		return Decision{Reason: ReasonInvalidRange, Requested: qty, Stock: stock}, false
	}
	if qty <= 0 {
		return Decision{Reason: ReasonInvalidQuantity, Requested: qty, Stock: stock}, false
	}
	return Decision{}, true
}

func decide(stock, qty, committed int) Decision {
	available := stock - committed
	if available < 0 {
		available = 0
	}
	d := Decision{
		Requested: qty,
		Stock:     stock,
		Committed: committed,
		Available: available,
	}
	if qty <= available {
		d.Accepted = true
	} else {
		d.Reason = ReasonInsufficientStock
	}
	return d
}
