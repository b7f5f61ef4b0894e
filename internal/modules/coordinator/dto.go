package coordinator

import (
	"time"

	"homecrew/internal/domain"
)

// CreateBookingRequest is the customer's booking form. Contact fields default
// to the customer's profile when left empty.
type CreateBookingRequest struct {
	CustomerName      string `json:"customer_name"`
	CustomerPhone     string `json:"customer_phone"`
	CustomerEmail     string `json:"customer_email"`
	Service           string `json:"service" binding:"required"`
	Problem           string `json:"problem" binding:"required"`
	Description       string `json:"description"`
	City              string `json:"city" binding:"required"`
	Date              string `json:"date" binding:"required"`
	TimeSlot          string `json:"time_slot" binding:"required"`
	Address           string `json:"address" binding:"required"`
	IsEmergency       bool   `json:"is_emergency"`
	PreferredWorkerID string `json:"preferred_worker_id"`
}

type RateBookingRequest struct {
	Rating int    `json:"rating" binding:"required"`
	Review string `json:"review"`
}

type SetAvailabilityRequest struct {
	Available *bool `json:"available" binding:"required"`
}

type BookingResponse struct {
	ID            string     `json:"id"`
	CustomerID    string     `json:"customer_id"`
	CustomerName  string     `json:"customer_name"`
	CustomerPhone string     `json:"customer_phone"`
	CustomerEmail string     `json:"customer_email"`
	WorkerID      string     `json:"worker_id"`
	WorkerName    string     `json:"worker_name"`
	WorkerPhone   string     `json:"worker_phone"`
	Service       string     `json:"service"`
	Problem       string     `json:"problem"`
	Description   string     `json:"description,omitempty"`
	City          string     `json:"city"`
	Date          string     `json:"date"`
	TimeSlot      string     `json:"time_slot"`
	Address       string     `json:"address"`
	IsEmergency   bool       `json:"is_emergency"`
	Status        string     `json:"status"`
	Rating        *int       `json:"rating,omitempty"`
	Review        *string    `json:"review,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	ConfirmedAt   *time.Time `json:"confirmed_at,omitempty"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
	CancelledAt   *time.Time `json:"cancelled_at,omitempty"`
}

func ToBookingResponse(b *domain.Booking) BookingResponse {
	out := BookingResponse{
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
		Description:   b.Description,
		City:          b.City,
		Date:          b.Date,
		TimeSlot:      string(b.TimeSlot),
		Address:       b.Address,
		IsEmergency:   b.IsEmergency,
		Status:        string(b.Status()),
		CreatedAt:     b.CreatedAt,
		ConfirmedAt:   b.ConfirmedAt(),
		CompletedAt:   b.CompletedAt(),
		CancelledAt:   b.CancelledAt(),
	}
	if fb := b.Feedback(); fb != nil {
		rating, review := fb.Rating, fb.Review
		out.Rating = &rating
		out.Review = &review
	}
	return out
}

func ToBookingResponses(bs []domain.Booking) []BookingResponse {
	out := make([]BookingResponse, 0, len(bs))
	for i := range bs {
		out = append(out, ToBookingResponse(&bs[i]))
	}
	return out
}

type WorkerResponse struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Phone        string  `json:"phone"`
	Photo        string  `json:"photo,omitempty"`
	Skill        string  `json:"skill"`
	City         string  `json:"city"`
	Available    bool    `json:"available"`
	Rating       float64 `json:"rating"`
	TotalRatings int64   `json:"total_ratings"`
}

func ToWorkerResponse(w *domain.Worker) WorkerResponse {
	return WorkerResponse{
		ID:           w.ID,
		Name:         w.Name,
		Phone:        w.Phone,
		Photo:        w.Photo,
		Skill:        string(w.Skill),
		City:         w.City,
		Available:    w.Available,
		Rating:       w.Rating(),
		TotalRatings: w.TotalRatings,
	}
}

func ToWorkerResponses(ws []domain.Worker) []WorkerResponse {
	out := make([]WorkerResponse, 0, len(ws))
	for i := range ws {
		out = append(out, ToWorkerResponse(&ws[i]))
	}
	return out
}
