package notification

import (
	"fmt"
	"strings"

	"homecrew/internal/domain"
)

// BookingConfirmed is sent to the customer when the company confirms a booking.
func BookingConfirmed(b *domain.Booking) Message {
	var body strings.Builder
	fmt.Fprintf(&body, "Dear %s,\n\n", b.CustomerName)
	body.WriteString("Your booking has been confirmed.\n\n")
	fmt.Fprintf(&body, "Booking ID: %s\n", b.ID)
	fmt.Fprintf(&body, "Service: %s - %s\n", b.Service.Label(), b.Problem)
	fmt.Fprintf(&body, "Worker: %s\n", b.WorkerName)
	fmt.Fprintf(&body, "Worker phone: %s\n", b.WorkerPhone)
	fmt.Fprintf(&body, "Date: %s\n", b.Date)
	fmt.Fprintf(&body, "Time: %s\n", b.TimeSlot)
	fmt.Fprintf(&body, "Address: %s\n", b.Address)
	if b.IsEmergency {
		body.WriteString("\nThis is an emergency booking. The worker will contact you shortly.\n")
	}
	body.WriteString("\nThank you for choosing HomeCrew.\n")

	return Message{
		To:      b.CustomerEmail,
		Subject: "Booking Confirmed - " + b.ID,
		Body:    body.String(),
	}
}

// VerificationCode carries the one-time code sent after registration.
func VerificationCode(to, name, code string) Message {
	return Message{
		To:      to,
		Subject: "HomeCrew - Email Verification",
		Body: fmt.Sprintf(
			"Hello %s,\n\nWelcome to HomeCrew!\n\nYour verification code is: %s\n\n"+
				"Please enter this code on the verification page to complete your registration.\n\n"+
				"Thank you for choosing HomeCrew!\n",
			name, code,
		),
	}
}
