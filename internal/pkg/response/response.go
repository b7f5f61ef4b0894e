package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"homecrew/internal/domain"
)

func Success(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, gin.H{
		"success": true,
		"data":    data,
	})
}

func Error(c *gin.Context, statusCode int, code string, message string) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

func ErrorWithDetails(c *gin.Context, statusCode int, code string, message string, details any) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
			"details": details,
		},
	})
}

// detailer is implemented by validation errors that know which fields failed.
type detailer interface {
	Details() map[string]string
}

// FromError writes the envelope for a domain error. Unknown errors become 500
// and are attached to the gin context for the request logger.
func FromError(c *gin.Context, err error) {
	status, code := Classify(err)
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		Error(c, status, code, "Internal server error")
		return
	}

	var d detailer
	if status == http.StatusBadRequest && errors.As(err, &d) {
		ErrorWithDetails(c, status, code, err.Error(), d.Details())
		return
	}
	Error(c, status, code, err.Error())
}

// Classify maps an error onto an HTTP status and an error code.
func Classify(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, "VALIDATION_ERROR"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "FORBIDDEN"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, domain.ErrNoMatch):
		return http.StatusUnprocessableEntity, "NO_MATCH"
	case errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusConflict, "INVALID_TRANSITION"
	case errors.Is(err, domain.ErrStorage):
		return http.StatusServiceUnavailable, "STORAGE_ERROR"
	}
	return http.StatusInternalServerError, "INTERNAL_ERROR"
}
