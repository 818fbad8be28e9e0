package model

import "time"

// Booking statuses. A booking is created pending and moves to paid through
// the confirmation step; cancelled and completed exist for later lifecycle
// transitions.
const (
	BookingPending   = "pending"
	BookingPaid      = "paid"
	BookingCancelled = "cancelled"
	BookingCompleted = "completed"
)

// Payment statuses tracked alongside the booking status.
const (
	PaymentPending    = "pending"
	PaymentProcessing = "processing"
	PaymentCompleted  = "completed"
)

// Accepted payment methods. Payment is simulated; no gateway is called.
const (
	PayCard      = "card"
	PayPaypal    = "paypal"
	PayGooglePay = "google_pay"
)

// ValidPaymentMethod reports whether s is an accepted payment method.
func ValidPaymentMethod(s string) bool {
	switch s {
	case PayCard, PayPaypal, PayGooglePay:
		return true
	}
	return false
}

// Booking records one user's reservation of one course session together with
// its simulated payment state. At most one active (pending or paid) booking
// may exist per (user, session) pair. Only the last four card digits and the
// brand are ever stored.
type Booking struct {
	ID                  uint64     `json:"id"`
	UserID              uint64     `json:"user_id"`
	CourseID            uint64     `json:"course_id"`
	CourseSessionID     uint64     `json:"course_session_id"`
	Amount              float64    `json:"amount"`
	PaymentMethod       *string    `json:"payment_method,omitempty"`
	Status              string     `json:"status"`
	PaymentStatus       string     `json:"payment_status"`
	PaymentRef          *string    `json:"payment_ref,omitempty"`
	MessageToInstructor *string    `json:"message_to_instructor,omitempty"`
	CardLastFour        *string    `json:"card_last_four,omitempty"`
	CardBrand           *string    `json:"card_brand,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
	PaidAt              *time.Time `json:"paid_at,omitempty"`
}
