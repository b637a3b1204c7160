// Package contract defines the topics, CloudEvent types and payloads the
// booking service exchanges over Kafka.
package contract

import (
	"time"

	"github.com/google/uuid"
)

// Source is the CloudEvent source of everything this service publishes.
const Source = "service-booking"

// Topics.
const (
	TopicBookingEvents = "booking.events"
	TopicPaymentEvents = "payment.events"
)

// Event types published on TopicBookingEvents.
const (
	BookingRequested = "booking.requested"
	BookingConfirmed = "booking.confirmed"
	BookingCancelled = "booking.cancelled"
)

// Event types consumed from TopicPaymentEvents.
const (
	PaymentDepositReceived = "payment.deposit_received"
)

// BookingRequestedEvent is published after a new booking is persisted.
type BookingRequestedEvent struct {
	BookingID     uuid.UUID `json:"booking_id"`
	BookingNumber string    `json:"booking_number"`
	PackageID     uuid.UUID `json:"package_id"`
	StartDate     string    `json:"start_date"`
	EndDate       string    `json:"end_date"`
	Qty           int       `json:"qty"`
	IncludeAddon  bool      `json:"include_addon"`
	TotalPrice    int64     `json:"total_price_cents"`
	Currency      string    `json:"currency"`
	CustomerName  string    `json:"customer_name"`
	CustomerEmail string    `json:"customer_email,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// BookingConfirmedEvent is published when a pending booking is confirmed.
type BookingConfirmedEvent struct {
	BookingID     uuid.UUID `json:"booking_id"`
	BookingNumber string    `json:"booking_number"`
	PackageID     uuid.UUID `json:"package_id"`
	ConfirmedAt   time.Time `json:"confirmed_at"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// BookingCancelledEvent is published when a booking releases its stock.
type BookingCancelledEvent struct {
	BookingID     uuid.UUID `json:"booking_id"`
	BookingNumber string    `json:"booking_number"`
	PackageID     uuid.UUID `json:"package_id"`
	Reason        string    `json:"reason,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// DepositReceivedEvent is emitted by the payment service once the
// customer's deposit has cleared.
type DepositReceivedEvent struct {
	PaymentID   uuid.UUID `json:"payment_id"`
	BookingID   uuid.UUID `json:"booking_id"`
	AmountCents int64     `json:"amount_cents"`
	Currency    string    `json:"currency"`
	OccurredAt  time.Time `json:"occurred_at"`
}
