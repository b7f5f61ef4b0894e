package coordinator

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"homecrew/internal/domain"
	"homecrew/internal/modules/booking"
	"homecrew/internal/modules/directory"
	"homecrew/internal/modules/events"
	"homecrew/internal/notification"
)

type Ledger interface {
	Create(ctx context.Context, req booking.CreateRequest) (*domain.Booking, error)
	Confirm(ctx context.Context, id string) (*domain.Booking, error)
	Cancel(ctx context.Context, id string) (*domain.Booking, error)
	Complete(ctx context.Context, id string) (*domain.Booking, error)
	Rate(ctx context.Context, id string, req booking.RateRequest) (*domain.Booking, error)
	Get(ctx context.Context, id string) (*domain.Booking, error)
	ListForCustomer(ctx context.Context, customerID string) ([]domain.Booking, error)
	ListPending(ctx context.Context) ([]domain.Booking, error)
}

type Directory interface {
	AddWorker(ctx context.Context, req directory.AddWorkerRequest) (*domain.Worker, error)
	RemoveWorker(ctx context.Context, id string) error
	SetAvailability(ctx context.Context, id string, available bool) (*domain.Worker, error)
	List(ctx context.Context) ([]domain.Worker, error)
	ListByCityAndSkill(ctx context.Context, city string, skill domain.Skill) ([]domain.Worker, error)
}

type UserLookup interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
}

type Publisher interface {
	Publish(eventType string, payload any)
}

// Service is the public surface of the marketplace. It authorizes the acting
// identity, delegates to the directory and the ledger, and runs the
// best-effort side effects of each transition.
type Service struct {
	ledger    Ledger
	directory Directory
	users     UserLookup
	sink      notification.Sink
	events    Publisher
	logger    *zap.Logger
}

func NewService(
	ledger Ledger,
	directory Directory,
	users UserLookup,
	sink notification.Sink,
	events Publisher,
	logger *zap.Logger,
) *Service {
	return &Service{
		ledger:    ledger,
		directory: directory,
		users:     users,
		sink:      sink,
		events:    events,
		logger:    logger,
	}
}

func forbidden(who domain.Identity, op string) error {
	return fmt.Errorf("%w: %s may not %s", domain.ErrForbidden, who.Role, op)
}

func requireCompany(who domain.Identity, op string) error {
	if !who.IsCompany() {
		return forbidden(who, op)
	}
	return nil
}

// CreateBooking books a worker for the acting customer.
func (s *Service) CreateBooking(ctx context.Context, who domain.Identity, req CreateBookingRequest) (*domain.Booking, error) {
	if who.Role != domain.RoleCustomer {
		return nil, forbidden(who, "create bookings")
	}

	user, err := s.users.GetByID(ctx, who.UserID)
	if err != nil {
		return nil, err
	}

	in := booking.CreateRequest{
		CustomerID:        user.ID,
		CustomerName:      firstNonEmpty(req.CustomerName, user.Name),
		CustomerPhone:     firstNonEmpty(req.CustomerPhone, user.Phone),
		CustomerEmail:     firstNonEmpty(req.CustomerEmail, user.Email),
		Service:           req.Service,
		Problem:           req.Problem,
		Description:       req.Description,
		City:              req.City,
		Date:              req.Date,
		TimeSlot:          req.TimeSlot,
		Address:           req.Address,
		IsEmergency:       req.IsEmergency,
		PreferredWorkerID: req.PreferredWorkerID,
	}

	b, err := s.ledger.Create(ctx, in)
	if err != nil {
		return nil, err
	}
	s.publish(events.BookingCreated, b)
	return b, nil
}

// ConfirmBooking accepts a pending booking and notifies the customer.
func (s *Service) ConfirmBooking(ctx context.Context, who domain.Identity, id string) (*domain.Booking, error) {
	if err := requireCompany(who, "confirm bookings"); err != nil {
		return nil, err
	}

	b, err := s.ledger.Confirm(ctx, id)
	if err != nil {
		return nil, err
	}

	s.notify(ctx, notification.BookingConfirmed(b), b.ID)
	s.publish(events.BookingConfirmed, b)
	return b, nil
}

// CancelBooking rejects a pending booking.
func (s *Service) CancelBooking(ctx context.Context, who domain.Identity, id string) (*domain.Booking, error) {
	if err := requireCompany(who, "cancel bookings"); err != nil {
		return nil, err
	}

	b, err := s.ledger.Cancel(ctx, id)
	if err != nil {
		return nil, err
	}
	s.publish(events.BookingCancelled, b)
	return b, nil
}

func (s *Service) CompleteBooking(ctx context.Context, who domain.Identity, id string) (*domain.Booking, error) {
	if err := requireCompany(who, "complete bookings"); err != nil {
		return nil, err
	}

	b, err := s.ledger.Complete(ctx, id)
	if err != nil {
		return nil, err
	}
	s.publish(events.BookingCompleted, b)
	return b, nil
}

// RateBooking records the owning customer's rating. When the booking is
// returned with an error, the rating was stored but the worker aggregate was
// not updated.
func (s *Service) RateBooking(ctx context.Context, who domain.Identity, id string, req RateBookingRequest) (*domain.Booking, error) {
	if who.Role != domain.RoleCustomer {
		return nil, forbidden(who, "rate bookings")
	}

	existing, err := s.ledger.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.CustomerID != who.UserID {
		return nil, fmt.Errorf("%w: booking %s belongs to another customer", domain.ErrForbidden, id)
	}

	b, err := s.ledger.Rate(ctx, id, booking.RateRequest{Rating: req.Rating, Review: req.Review})
	if b != nil {
		s.publish(events.BookingRated, b)
	}
	return b, err
}

// GetBooking is visible to its customer and to the company.
func (s *Service) GetBooking(ctx context.Context, who domain.Identity, id string) (*domain.Booking, error) {
	b, err := s.ledger.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !who.IsCompany() && b.CustomerID != who.UserID {
		return nil, fmt.Errorf("%w: booking %s belongs to another customer", domain.ErrForbidden, id)
	}
	return b, nil
}

// BookingsForCustomer lists a customer's bookings, newest first. Customers
// may only list their own.
func (s *Service) BookingsForCustomer(ctx context.Context, who domain.Identity, customerID string) ([]domain.Booking, error) {
	if !who.IsCompany() && who.UserID != customerID {
		return nil, forbidden(who, "list another customer's bookings")
	}
	return s.ledger.ListForCustomer(ctx, customerID)
}

// PendingBookings is the company's review queue, oldest first.
func (s *Service) PendingBookings(ctx context.Context, who domain.Identity) ([]domain.Booking, error) {
	if err := requireCompany(who, "view the review queue"); err != nil {
		return nil, err
	}
	return s.ledger.ListPending(ctx)
}

func (s *Service) AddWorker(ctx context.Context, who domain.Identity, req directory.AddWorkerRequest) (*domain.Worker, error) {
	if err := requireCompany(who, "add workers"); err != nil {
		return nil, err
	}
	return s.directory.AddWorker(ctx, req)
}

func (s *Service) RemoveWorker(ctx context.Context, who domain.Identity, id string) error {
	if err := requireCompany(who, "remove workers"); err != nil {
		return err
	}
	return s.directory.RemoveWorker(ctx, id)
}

func (s *Service) SetAvailability(ctx context.Context, who domain.Identity, id string, available bool) (*domain.Worker, error) {
	if err := requireCompany(who, "change availability"); err != nil {
		return nil, err
	}
	return s.directory.SetAvailability(ctx, id, available)
}

func (s *Service) ListWorkers(ctx context.Context, who domain.Identity) ([]domain.Worker, error) {
	if err := requireCompany(who, "list all workers"); err != nil {
		return nil, err
	}
	return s.directory.List(ctx)
}

// AvailableWorkers is the public browse list for a city.
func (s *Service) AvailableWorkers(ctx context.Context, city string, skill domain.Skill) ([]domain.Worker, error) {
	if !domain.IsCity(city) {
		return nil, fmt.Errorf("%w: unknown city %q", domain.ErrValidation, city)
	}
	return s.directory.ListByCityAndSkill(ctx, city, skill)
}

// notifyTimeout bounds the enqueue of a notification. The booking change has
// already been committed when it runs.
const notifyTimeout = 2 * time.Second

func (s *Service) notify(ctx context.Context, msg notification.Message, bookingID string) {
	if s.sink == nil || msg.To == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	defer cancel()

	if err := s.sink.Send(ctx, msg); err != nil {
		s.logger.Warn("notification failed",
			zap.String("booking_id", bookingID),
			zap.String("to", msg.To),
			zap.Error(err),
		)
	}
}

func (s *Service) publish(eventType string, b *domain.Booking) {
	if s.events == nil {
		return
	}
	s.events.Publish(eventType, ToBookingResponse(b))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
