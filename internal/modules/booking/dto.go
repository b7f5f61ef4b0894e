package booking

// CreateRequest is a customer's service request. Customer contact fields are
// copied onto the booking as they are at creation time.
type CreateRequest struct {
	CustomerID    string `validate:"required"`
	CustomerName  string `validate:"required,max=100"`
	CustomerPhone string `validate:"required,max=20"`
	CustomerEmail string `validate:"required,email"`

	Service           string `validate:"required,skill"`
	Problem           string `validate:"required"`
	Description       string `validate:"max=1000"`
	City              string `validate:"required,city"`
	Date              string `validate:"required,datetime=2006-01-02"`
	TimeSlot          string `validate:"required,timeslot"`
	Address           string `validate:"required,max=500"`
	IsEmergency       bool
	PreferredWorkerID string
}

type RateRequest struct {
	Rating int    `validate:"min=1,max=5"`
	Review string `validate:"max=1000"`
}
