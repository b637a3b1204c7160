package booking

import (
	"fmt"

	"github.com/SoundHire-Cloud/service-booking/internal/platform/domain"
)

// RejectionReason says why a booking attempt was refused.
type RejectionReason string

const (
	ReasonInvalidRange      RejectionReason = "invalid_range"
	ReasonInvalidQuantity   RejectionReason = "invalid_quantity"
	ReasonPackageNotFound   RejectionReason = "package_not_found"
	ReasonInsufficientStock RejectionReason = "insufficient_stock"
)

// RejectionError is returned when a booking attempt is refused. Two
// RejectionErrors match under errors.Is when their reasons are equal, so
// callers compare against the sentinels below.
type RejectionError struct {
	Reason    RejectionReason
	Requested int
	Available int
	Message   string
}

var (
	ErrInvalidRange      = &RejectionError{Reason: ReasonInvalidRange, Message: "end date is before start date"}
	ErrInvalidQuantity   = &RejectionError{Reason: ReasonInvalidQuantity, Message: "quantity must be a positive integer"}
	ErrPackageNotFound   = &RejectionError{Reason: ReasonPackageNotFound, Message: "package not found"}
	ErrInsufficientStock = &RejectionError{Reason: ReasonInsufficientStock, Message: "not enough stock for the requested dates"}
)

func (e *RejectionError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return string(e.Reason)
}

// Is matches any RejectionError with the same reason.
func (e *RejectionError) Is(target error) bool {
	t, ok := target.(*RejectionError)
	return ok && t.Reason == e.Reason
}

// ErrorCode maps the reason onto the shared error taxonomy.
func (e *RejectionError) ErrorCode() domain.ErrorCode {
	switch e.Reason {
	case ReasonInvalidRange, ReasonInvalidQuantity:
		return domain.CodeValidation
	case ReasonPackageNotFound:
		return domain.CodeNotFound
	default:
		return domain.CodeConflict
	}
}

// Details exposes the reason and, for stock rejections, the quantities.
func (e *RejectionError) Details() map[string]any {
	d := map[string]any{"reason": string(e.Reason)}
	if e.Reason == ReasonInsufficientStock {
		d["requested"] = e.Requested
		d["available"] = e.Available
	}
	return d
}

// NewPackageNotFoundError reports an unknown package id.
func NewPackageNotFoundError(id string) *RejectionError {
	return &RejectionError{
		Reason:  ReasonPackageNotFound,
		Message: fmt.Sprintf("package %s not found", id),
	}
}

// NewInsufficientStockError reports how many units remain free.
func NewInsufficientStockError(requested, available, committed, stock int) *RejectionError {
	msg := fmt.Sprintf("not enough stock: requested %d, available %d (already booked %d/%d)",
		requested, available, committed, stock)
	if requested > stock {
		msg = fmt.Sprintf("requested quantity (%d) exceeds total stock (%d)", requested, stock)
	}
	return &RejectionError{
		Reason:    ReasonInsufficientStock,
		Requested: requested,
		Available: available,
		Message:   msg,
	}
}
