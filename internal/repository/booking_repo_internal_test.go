package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"homecrew/internal/domain"
)

func TestToBookingState_RejectsInProgress(t *testing.T) {
	_, err := toBookingState(bookingModel{ID: "b1", Status: string(domain.BookingInProgress)})
	assert.ErrorIs(t, err, domain.ErrStorage)
	assert.Contains(t, err.Error(), "in-progress")
}
