package coordinator

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"homecrew/internal/domain"
	"homecrew/internal/middleware"
	"homecrew/internal/modules/directory"
	"homecrew/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the public browse route, the authenticated booking
// routes and the company-only administration routes.
func (h *Handler) RegisterRoutes(public, protected, company *gin.RouterGroup) {
	public.GET("/workers/available", h.AvailableWorkers)

	protected.POST("/bookings", h.CreateBooking)
	protected.GET("/bookings/mine", h.MyBookings)
	protected.GET("/bookings/:id", h.GetBooking)
	protected.POST("/bookings/:id/rate", h.RateBooking)
	protected.GET("/customers/:id/bookings", h.CustomerBookings)

	company.GET("/bookings/pending", h.PendingBookings)
	company.POST("/bookings/:id/confirm", h.transition(h.service.ConfirmBooking))
	company.POST("/bookings/:id/cancel", h.transition(h.service.CancelBooking))
	company.POST("/bookings/:id/complete", h.transition(h.service.CompleteBooking))

	company.GET("/workers", h.ListWorkers)
	company.POST("/workers", h.AddWorker)
	company.DELETE("/workers/:id", h.RemoveWorker)
	company.PATCH("/workers/:id/availability", h.SetAvailability)
}

func identity(c *gin.Context) (domain.Identity, bool) {
	who, ok := middleware.Identity(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
	}
	return who, ok
}

func (h *Handler) CreateBooking(c *gin.Context) {
	who, ok := identity(c)
	if !ok {
		return
	}

	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	b, err := h.service.CreateBooking(c.Request.Context(), who, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, ToBookingResponse(b))
}

func (h *Handler) GetBooking(c *gin.Context) {
	who, ok := identity(c)
	if !ok {
		return
	}

	b, err := h.service.GetBooking(c.Request.Context(), who, c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, ToBookingResponse(b))
}

func (h *Handler) MyBookings(c *gin.Context) {
	who, ok := identity(c)
	if !ok {
		return
	}
	h.listForCustomer(c, who, who.UserID)
}

func (h *Handler) CustomerBookings(c *gin.Context) {
	who, ok := identity(c)
	if !ok {
		return
	}
	h.listForCustomer(c, who, c.Param("id"))
}

func (h *Handler) listForCustomer(c *gin.Context, who domain.Identity, customerID string) {
	bs, err := h.service.BookingsForCustomer(c.Request.Context(), who, customerID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, ToBookingResponses(bs))
}

func (h *Handler) RateBooking(c *gin.Context) {
	who, ok := identity(c)
	if !ok {
		return
	}

	var req RateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Rating must be a whole number from 1 to 5")
		return
	}

	b, err := h.service.RateBooking(c.Request.Context(), who, c.Param("id"), req)
	switch {
	case err == nil:
		response.Success(c, http.StatusOK, gin.H{
			"booking":               ToBookingResponse(b),
			"worker_rating_updated": true,
		})
	case b != nil:
		// The rating is stored but the worker has been removed.
		_ = c.Error(err)
		response.Success(c, http.StatusOK, gin.H{
			"booking":               ToBookingResponse(b),
			"worker_rating_updated": false,
			"warning":               err.Error(),
		})
	default:
		response.FromError(c, err)
	}
}

func (h *Handler) PendingBookings(c *gin.Context) {
	who, ok := identity(c)
	if !ok {
		return
	}

	bs, err := h.service.PendingBookings(c.Request.Context(), who)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, ToBookingResponses(bs))
}

type transitionFunc func(ctx context.Context, who domain.Identity, id string) (*domain.Booking, error)

func (h *Handler) transition(op transitionFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		who, ok := identity(c)
		if !ok {
			return
		}

		b, err := op(c.Request.Context(), who, c.Param("id"))
		if err != nil {
			response.FromError(c, err)
			return
		}
		response.Success(c, http.StatusOK, ToBookingResponse(b))
	}
}

func (h *Handler) AvailableWorkers(c *gin.Context) {
	ws, err := h.service.AvailableWorkers(c.Request.Context(), c.Query("city"), domain.Skill(c.Query("skill")))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, ToWorkerResponses(ws))
}

func (h *Handler) ListWorkers(c *gin.Context) {
	who, ok := identity(c)
	if !ok {
		return
	}

	ws, err := h.service.ListWorkers(c.Request.Context(), who)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, ToWorkerResponses(ws))
}

func (h *Handler) AddWorker(c *gin.Context) {
	who, ok := identity(c)
	if !ok {
		return
	}

	var req directory.AddWorkerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	w, err := h.service.AddWorker(c.Request.Context(), who, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, ToWorkerResponse(w))
}

func (h *Handler) RemoveWorker(c *gin.Context) {
	who, ok := identity(c)
	if !ok {
		return
	}

	if err := h.service.RemoveWorker(c.Request.Context(), who, c.Param("id")); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"id": c.Param("id"), "removed": true})
}

func (h *Handler) SetAvailability(c *gin.Context) {
	who, ok := identity(c)
	if !ok {
		return
	}

	var req SetAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "available must be true or false")
		return
	}

	w, err := h.service.SetAvailability(c.Request.Context(), who, c.Param("id"), *req.Available)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, ToWorkerResponse(w))
}
