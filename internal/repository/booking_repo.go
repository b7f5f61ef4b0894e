package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"homecrew/internal/domain"
)

type BookingRepository struct {
	db      *gorm.DB
	timeout time.Duration
}

func NewBookingRepository(db *gorm.DB, timeout time.Duration) *BookingRepository {
	return &BookingRepository{db: db, timeout: timeout}
}

type bookingModel struct {
	ID            string     `gorm:"column:id;primaryKey;type:varchar(36)"`
	CustomerID    string     `gorm:"column:customer_id;not null;index"`
	CustomerName  string     `gorm:"column:customer_name"`
	CustomerPhone string     `gorm:"column:customer_phone"`
	CustomerEmail string     `gorm:"column:customer_email"`
	WorkerID      string     `gorm:"column:worker_id;index"`
	WorkerName    string     `gorm:"column:worker_name"`
	WorkerPhone   string     `gorm:"column:worker_phone"`
	Service       string     `gorm:"column:service"`
	Problem       string     `gorm:"column:problem"`
	Description   *string    `gorm:"column:description;type:text"`
	City          string     `gorm:"column:city"`
	Date          string     `gorm:"column:date"`
	TimeSlot      string     `gorm:"column:time_slot"`
	Address       string     `gorm:"column:address;type:text"`
	IsEmergency   bool       `gorm:"column:is_emergency"`
	Status        string     `gorm:"column:status;not null;index"`
	Rating        *int       `gorm:"column:rating"`
	Review        *string    `gorm:"column:review;type:text"`
	CreatedAt     time.Time  `gorm:"column:created_at;index"`
	UpdatedAt     time.Time  `gorm:"column:updated_at"`
	ConfirmedAt   *time.Time `gorm:"column:confirmed_at"`
	CompletedAt   *time.Time `gorm:"column:completed_at"`
	CancelledAt   *time.Time `gorm:"column:cancelled_at"`
}

func (bookingModel) TableName() string { return "bookings" }

func toDomainBooking(m bookingModel) (*domain.Booking, error) {
	var description string
	if m.Description != nil {
		description = *m.Description
	}

	state, err := toBookingState(m)
	if err != nil {
		return nil, err
	}

	return &domain.Booking{
		ID:            m.ID,
		CustomerID:    m.CustomerID,
		CustomerName:  m.CustomerName,
		CustomerPhone: m.CustomerPhone,
		CustomerEmail: m.CustomerEmail,
		WorkerID:      m.WorkerID,
		WorkerName:    m.WorkerName,
		WorkerPhone:   m.WorkerPhone,
		Service:       domain.Skill(m.Service),
		Problem:       m.Problem,
		Description:   description,
		City:          m.City,
		Date:          m.Date,
		TimeSlot:      domain.TimeSlot(m.TimeSlot),
		Address:       m.Address,
		IsEmergency:   m.IsEmergency,
		State:         state,
		CreatedAt:     m.CreatedAt,
	}, nil
}

func toBookingState(m bookingModel) (domain.BookingState, error) {
	switch domain.BookingStatus(m.Status) {
	case domain.BookingPending:
		return domain.Pending{}, nil
	case domain.BookingConfirmed:
		return domain.Confirmed{ConfirmedAt: deref(m.ConfirmedAt)}, nil
	case domain.BookingCompleted:
		st := domain.Completed{
			ConfirmedAt: deref(m.ConfirmedAt),
			CompletedAt: deref(m.CompletedAt),
		}
		if m.Rating != nil {
			fb := &domain.Feedback{Rating: *m.Rating}
			if m.Review != nil {
				fb.Review = *m.Review
			}
			st.Feedback = fb
		}
		return st, nil
	case domain.BookingCancelled:
		return domain.Cancelled{CancelledAt: deref(m.CancelledAt)}, nil
	}
	return nil, fmt.Errorf("%w: booking %s has unknown status %q", domain.ErrStorage, m.ID, m.Status)
}

func toBookingModel(b *domain.Booking) bookingModel {
	var description *string
	if b.Description != "" {
		v := b.Description
		description = &v
	}

	m := bookingModel{
		ID:            b.ID,
		CustomerID:    b.CustomerID,
		CustomerName:  b.CustomerName,
		CustomerPhone: b.CustomerPhone,
		CustomerEmail: b.CustomerEmail,
		WorkerID:      b.WorkerID,
		WorkerName:    b.WorkerName,
		WorkerPhone:   b.WorkerPhone,
		Service:       string(b.Service),
		Problem:       b.Problem,
		Description:   description,
		City:          b.City,
		Date:          b.Date,
		TimeSlot:      string(b.TimeSlot),
		Address:       b.Address,
		IsEmergency:   b.IsEmergency,
		Status:        string(b.Status()),
		CreatedAt:     b.CreatedAt,
	}
	m.ConfirmedAt = b.ConfirmedAt()
	m.CompletedAt = b.CompletedAt()
	m.CancelledAt = b.CancelledAt()
	if fb := b.Feedback(); fb != nil {
		rating, review := fb.Rating, fb.Review
		m.Rating = &rating
		m.Review = &review
	}
	return m
}

// stateColumns returns the column values a state writes, status included.
func stateColumns(st domain.BookingState) map[string]any {
	if st == nil {
		st = domain.Pending{}
	}
	cols := map[string]any{"status": string(st.Status())}
	switch s := st.(type) {
	case domain.Confirmed:
		cols["confirmed_at"] = timePtr(s.ConfirmedAt)
	case domain.Completed:
		cols["confirmed_at"] = timePtr(s.ConfirmedAt)
		cols["completed_at"] = timePtr(s.CompletedAt)
		if s.Feedback != nil {
			rating, review := s.Feedback.Rating, s.Feedback.Review
			cols["rating"] = &rating
			cols["review"] = &review
		}
	case domain.Cancelled:
		cols["cancelled_at"] = timePtr(s.CancelledAt)
	}
	return cols
}

// Create inserts a booking, assigning a time-ordered id when it has none.
func (r *BookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	if b.ID == "" {
		b.ID = newID()
	}
	if b.State == nil {
		b.State = domain.Pending{}
	}
	m := toBookingModel(b)
	if err := conn(ctx, r.db).Create(&m).Error; err != nil {
		return storeErr("create booking "+b.ID, err)
	}
	out, err := toDomainBooking(m)
	if err != nil {
		return err
	}
	*b = *out
	return nil
}

func (r *BookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	var m bookingModel
	if err := conn(ctx, r.db).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, storeErr("booking "+id, err)
	}
	return toDomainBooking(m)
}

// Transition moves the booking into next only if it is still in from.
// It reports false when another writer changed the status first.
func (r *BookingRepository) Transition(ctx context.Context, id string, from domain.BookingStatus, next domain.BookingState) (bool, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	tx := conn(ctx, r.db).Model(&bookingModel{}).
		Where("id = ? AND status = ?", id, string(from)).
		Updates(stateColumns(next))
	if tx.Error != nil {
		return false, storeErr(fmt.Sprintf("booking %s: %s -> %s", id, from, next.Status()), tx.Error)
	}
	return tx.RowsAffected == 1, nil
}

// RecordFeedback stores the rating only on a completed, not yet rated booking.
func (r *BookingRepository) RecordFeedback(ctx context.Context, id string, fb domain.Feedback) (bool, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	tx := conn(ctx, r.db).Model(&bookingModel{}).
		Where("id = ? AND status = ? AND rating IS NULL", id, string(domain.BookingCompleted)).
		Updates(map[string]any{"rating": fb.Rating, "review": fb.Review})
	if tx.Error != nil {
		return false, storeErr("rate booking "+id, tx.Error)
	}
	return tx.RowsAffected == 1, nil
}

// ListByCustomer returns the customer's bookings, newest first.
func (r *BookingRepository) ListByCustomer(ctx context.Context, customerID string) ([]domain.Booking, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	var rows []bookingModel
	if err := conn(ctx, r.db).
		Where("customer_id = ?", customerID).
		Order("created_at desc").Order("id desc").
		Find(&rows).Error; err != nil {
		return nil, storeErr("list bookings for customer "+customerID, err)
	}
	return toDomainBookings(rows)
}

// ListByStatus returns bookings in the status, oldest first.
func (r *BookingRepository) ListByStatus(ctx context.Context, status domain.BookingStatus) ([]domain.Booking, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	var rows []bookingModel
	if err := conn(ctx, r.db).
		Where("status = ?", string(status)).
		Order("created_at asc").Order("id asc").
		Find(&rows).Error; err != nil {
		return nil, storeErr("list bookings by status "+string(status), err)
	}
	return toDomainBookings(rows)
}

func (r *BookingRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	var n int64
	if err := conn(ctx, r.db).Model(&bookingModel{}).Count(&n).Error; err != nil {
		return 0, storeErr("count bookings", err)
	}
	return n, nil
}

func toDomainBookings(rows []bookingModel) ([]domain.Booking, error) {
	out := make([]domain.Booking, 0, len(rows))
	for _, m := range rows {
		b, err := toDomainBooking(m)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	return out, nil
}

func deref(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
