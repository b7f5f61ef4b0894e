package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"homecrew/internal/domain"
	"homecrew/internal/modules/matching"
	"homecrew/internal/pkg/validator"
)

// Service is the booking ledger. It owns the lifecycle
//
//	pending -> confirmed -> completed
//	pending -> cancelled
//
// and the rule that a completed booking is rated at most once. Every
// transition is a compare-and-set against the status read before it, so of
// two concurrent callers on the same booking only one can win.
type Service struct {
	bookings BookingRepository
	matcher  Matcher
	ratings  RatingAggregator
	tx       Transactor
	logger   *zap.Logger
	now      func() time.Time
}

func NewService(bookings BookingRepository, matcher Matcher, ratings RatingAggregator, tx Transactor, logger *zap.Logger) *Service {
	return &Service{
		bookings: bookings,
		matcher:  matcher,
		ratings:  ratings,
		tx:       tx,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Create matches a worker and stores a pending booking. Nothing is stored
// when matching fails.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*domain.Booking, error) {
	trimCreateRequest(&req)
	if err := validator.Check(req); err != nil {
		return nil, err
	}
	service := domain.Skill(req.Service)
	if !domain.IsProblem(service, req.Problem) {
		return nil, fmt.Errorf("%w: %q", ErrBadProblem, req.Problem)
	}

	now := s.now()
	if req.Date < now.Format("2006-01-02") {
		return nil, fmt.Errorf("%w: %s", ErrPastDate, req.Date)
	}

	worker, err := s.matcher.Assign(ctx, matching.Request{
		City:              req.City,
		Skill:             service,
		PreferredWorkerID: req.PreferredWorkerID,
	})
	if err != nil {
		return nil, err
	}

	b := &domain.Booking{
		CustomerID:    req.CustomerID,
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		CustomerEmail: req.CustomerEmail,
		WorkerID:      worker.ID,
		WorkerName:    worker.Name,
		WorkerPhone:   worker.Phone,
		Service:       service,
		Problem:       req.Problem,
		Description:   req.Description,
		City:          req.City,
		Date:          req.Date,
		TimeSlot:      domain.TimeSlot(req.TimeSlot),
		Address:       req.Address,
		IsEmergency:   req.IsEmergency,
		State:         domain.Pending{},
		CreatedAt:     now,
	}
	if err := s.bookings.Create(ctx, b); err != nil {
		return nil, err
	}

	s.logger.Info("booking created",
		zap.String("booking_id", b.ID),
		zap.String("customer_id", b.CustomerID),
		zap.String("worker_id", b.WorkerID),
		zap.Bool("emergency", b.IsEmergency),
	)
	return b, nil
}

func (s *Service) Confirm(ctx context.Context, id string) (*domain.Booking, error) {
	return s.transition(ctx, id, "confirm", domain.BookingPending, func(_ *domain.Booking, now time.Time) domain.BookingState {
		return domain.Confirmed{ConfirmedAt: now}
	})
}

// Cancel rejects a pending booking.
func (s *Service) Cancel(ctx context.Context, id string) (*domain.Booking, error) {
	return s.transition(ctx, id, "cancel", domain.BookingPending, func(_ *domain.Booking, now time.Time) domain.BookingState {
		return domain.Cancelled{CancelledAt: now}
	})
}

// Complete is only reachable from confirmed. A pending booking must be
// confirmed first.
func (s *Service) Complete(ctx context.Context, id string) (*domain.Booking, error) {
	return s.transition(ctx, id, "complete", domain.BookingConfirmed, func(b *domain.Booking, now time.Time) domain.BookingState {
		return domain.Completed{ConfirmedAt: *b.ConfirmedAt(), CompletedAt: now}
	})
}

func (s *Service) transition(
	ctx context.Context,
	id, op string,
	from domain.BookingStatus,
	next func(b *domain.Booking, now time.Time) domain.BookingState,
) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.Status() != from {
		return nil, invalidTransition(id, op, b.Status())
	}

	state := next(b, s.now())
	ok, err := s.bookings.Transition(ctx, id, from, state)
	if err != nil {
		return nil, err
	}
	if !ok {
		// Lost the race: report the status the winner left behind.
		current, err := s.bookings.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return nil, invalidTransition(id, op, current.Status())
	}

	b.State = state
	s.logger.Info("booking "+string(state.Status()),
		zap.String("booking_id", id),
		zap.String("from", string(from)),
	)
	return b, nil
}

// Rate records the customer's feedback on a completed booking and folds the
// rating into the worker's mean.
//
// The feedback and the worker aggregate are written in one transaction. If the
// worker has been removed since the booking was made, the feedback alone is
// committed and Rate returns the rated booking together with an error wrapping
// domain.ErrNotFound. A non-nil booking alongside an error always means the
// feedback was stored.
func (s *Service) Rate(ctx context.Context, id string, req RateRequest) (*domain.Booking, error) {
	req.Review = strings.TrimSpace(req.Review)
	if err := validator.Check(req); err != nil {
		return nil, fmt.Errorf("rating must be 1-5: %w", err)
	}

	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.Status() != domain.BookingCompleted {
		return nil, invalidTransition(id, "rate", b.Status())
	}
	if b.Feedback() != nil {
		return nil, fmt.Errorf("%w: %s", ErrAlreadyRated, id)
	}

	fb := domain.Feedback{Rating: req.Rating, Review: req.Review}
	var workerErr error
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		ok, err := s.bookings.RecordFeedback(ctx, id, fb)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: %s", ErrAlreadyRated, id)
		}

		if _, err := s.ratings.ApplyRating(ctx, b.WorkerID, req.Rating); err != nil {
			// A removed worker has no aggregate left; the booking keeps its
			// feedback. Anything else undoes the feedback write.
			if errors.Is(err, domain.ErrNotFound) {
				workerErr = err
				return nil
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	st := b.State.(domain.Completed)
	st.Feedback = &fb
	b.State = st

	if workerErr != nil {
		s.logger.Warn("worker rating not updated",
			zap.String("booking_id", id),
			zap.String("worker_id", b.WorkerID),
			zap.Error(workerErr),
		)
		return b, fmt.Errorf("booking %s rated, worker %s aggregate not updated: %w", id, b.WorkerID, workerErr)
	}
	return b, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Booking, error) {
	return s.bookings.GetByID(ctx, id)
}

// ListForCustomer returns the customer's bookings, newest first.
func (s *Service) ListForCustomer(ctx context.Context, customerID string) ([]domain.Booking, error) {
	return s.bookings.ListByCustomer(ctx, customerID)
}

// ListPending is the review queue, oldest first.
func (s *Service) ListPending(ctx context.Context) ([]domain.Booking, error) {
	return s.bookings.ListByStatus(ctx, domain.BookingPending)
}

func trimCreateRequest(req *CreateRequest) {
	req.CustomerName = strings.TrimSpace(req.CustomerName)
	req.CustomerPhone = strings.TrimSpace(req.CustomerPhone)
	req.CustomerEmail = strings.TrimSpace(req.CustomerEmail)
	req.Problem = strings.TrimSpace(req.Problem)
	req.Description = strings.TrimSpace(req.Description)
	req.City = strings.TrimSpace(req.City)
	req.Date = strings.TrimSpace(req.Date)
	req.Address = strings.TrimSpace(req.Address)
	req.PreferredWorkerID = strings.TrimSpace(req.PreferredWorkerID)
}
