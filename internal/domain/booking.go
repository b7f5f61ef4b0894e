package domain

import "time"

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCompleted BookingStatus = "completed"
	BookingCancelled BookingStatus = "cancelled"

	// BookingInProgress is reserved. No transition produces it and no state
	// type carries it.
	BookingInProgress BookingStatus = "in-progress"
)

// Terminal reports whether no transition leaves the status.
func (s BookingStatus) Terminal() bool {
	return s == BookingCompleted || s == BookingCancelled
}

type TimeSlot string

// TimeSlots are the five two-hour windows a customer can request.
var TimeSlots = []TimeSlot{
	"9:00 AM - 11:00 AM",
	"11:00 AM - 1:00 PM",
	"1:00 PM - 3:00 PM",
	"3:00 PM - 5:00 PM",
	"5:00 PM - 7:00 PM",
}

func (t TimeSlot) Valid() bool {
	for _, s := range TimeSlots {
		if s == t {
			return true
		}
	}
	return false
}

// BookingState is the status-dependent part of a booking. Only the types in
// this file implement it, so a pending booking cannot carry a completion time
// or a rating.
type BookingState interface {
	Status() BookingStatus
	bookingState()
}

type Pending struct{}

type Confirmed struct {
	ConfirmedAt time.Time
}

type Completed struct {
	ConfirmedAt time.Time
	CompletedAt time.Time
	Feedback    *Feedback
}

type Cancelled struct {
	CancelledAt time.Time
}

// Feedback is the customer's rating of a completed booking. Set at most once.
type Feedback struct {
	Rating int
	Review string
}

func (Pending) Status() BookingStatus   { return BookingPending }
func (Confirmed) Status() BookingStatus { return BookingConfirmed }
func (Completed) Status() BookingStatus { return BookingCompleted }
func (Cancelled) Status() BookingStatus { return BookingCancelled }

func (Pending) bookingState()   {}
func (Confirmed) bookingState() {}
func (Completed) bookingState() {}
func (Cancelled) bookingState() {}

type Booking struct {
	ID string

	// Customer and worker display fields are copied at creation and never
	// follow later changes to the user or worker records.
	CustomerID    string
	CustomerName  string
	CustomerPhone string
	CustomerEmail string
	WorkerID      string
	WorkerName    string
	WorkerPhone   string

	Service     Skill
	Problem     string
	Description string
	City        string
	Date        string
	TimeSlot    TimeSlot
	Address     string
	IsEmergency bool

	State     BookingState
	CreatedAt time.Time
}

func (b *Booking) Status() BookingStatus {
	if b.State == nil {
		return BookingPending
	}
	return b.State.Status()
}

func (b *Booking) ConfirmedAt() *time.Time {
	switch s := b.State.(type) {
	case Confirmed:
		return &s.ConfirmedAt
	case Completed:
		return &s.ConfirmedAt
	}
	return nil
}

func (b *Booking) CompletedAt() *time.Time {
	if s, ok := b.State.(Completed); ok {
		return &s.CompletedAt
	}
	return nil
}

func (b *Booking) CancelledAt() *time.Time {
	if s, ok := b.State.(Cancelled); ok {
		return &s.CancelledAt
	}
	return nil
}

func (b *Booking) Feedback() *Feedback {
	if s, ok := b.State.(Completed); ok {
		return s.Feedback
	}
	return nil
}
