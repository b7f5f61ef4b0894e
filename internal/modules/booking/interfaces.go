package booking

import (
	"context"

	"homecrew/internal/domain"
	"homecrew/internal/modules/matching"
)

// BookingRepository is the durable ledger. Transition and RecordFeedback are
// compare-and-set writes that report whether they won.
type BookingRepository interface {
	Create(ctx context.Context, b *domain.Booking) error
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	Transition(ctx context.Context, id string, from domain.BookingStatus, next domain.BookingState) (bool, error)
	RecordFeedback(ctx context.Context, id string, fb domain.Feedback) (bool, error)
	ListByCustomer(ctx context.Context, customerID string) ([]domain.Booking, error)
	ListByStatus(ctx context.Context, status domain.BookingStatus) ([]domain.Booking, error)
}

type Matcher interface {
	Assign(ctx context.Context, req matching.Request) (*domain.Worker, error)
}

type RatingAggregator interface {
	ApplyRating(ctx context.Context, workerID string, rating int) (*domain.Worker, error)
}

// Transactor runs fn in one transaction; repository calls made with the ctx
// passed to fn take part in it.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
