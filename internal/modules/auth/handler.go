package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"homecrew/internal/middleware"
	"homecrew/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(public, protected *gin.RouterGroup) {
	authGroup := public.Group("/auth")
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/verify", h.Verify)
		authGroup.POST("/verify/resend", h.ResendCode)
		authGroup.POST("/login", h.Login)
	}
	protected.GET("/auth/me", h.Me)
}

// writeError maps auth failures onto the response envelope and falls back to
// the domain mapping for everything else.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrAlreadyVerified):
		response.Error(c, http.StatusConflict, "EMAIL_EXISTS", "User already exists and is verified. Please login.")
	case errors.Is(err, ErrPendingVerification):
		response.Error(c, http.StatusConflict, "VERIFICATION_PENDING", "User already registered. Please check your email for verification code.")
	case errors.Is(err, ErrInvalidCredentials):
		response.Error(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password")
	case errors.Is(err, ErrEmailNotVerified):
		response.Error(c, http.StatusForbidden, "EMAIL_NOT_VERIFIED", "Please verify your email before logging in")
	case errors.Is(err, ErrInvalidCode):
		response.Error(c, http.StatusBadRequest, "INVALID_CODE", "Invalid verification code")
	case errors.Is(err, ErrCodeExpired):
		response.Error(c, http.StatusGone, "CODE_EXPIRED", "Verification code expired. Please request a new one.")
	default:
		response.FromError(c, err)
	}
}

func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	user, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"user":    ToUserPublic(user),
		"message": "Registration successful! Please check your email for verification code.",
	})
}

func (h *Handler) Verify(c *gin.Context) {
	var req VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Email and a 6 digit code are required")
		return
	}

	user, err := h.service.Verify(c.Request.Context(), req.Email, req.Code)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"user": ToUserPublic(user)})
}

func (h *Handler) ResendCode(c *gin.Context) {
	var req ResendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	if err := h.service.ResendCode(c.Request.Context(), req.Email); err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"sent": true})
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	res, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"user":         ToUserPublic(res.User),
		"access_token": res.AccessToken,
		"token_type":   "Bearer",
	})
}

func (h *Handler) Me(c *gin.Context) {
	who, ok := middleware.Identity(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	user, err := h.service.Me(c.Request.Context(), who.UserID)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, ToUserPublic(user))
}
