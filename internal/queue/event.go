// Package queue defines the broker payloads and the background consumer for
// booking events.
package queue

// BookingPaidEvent is published when a booking is successfully confirmed and
// paid. It carries enough information for downstream consumers to log,
// notify, or feed analytics without querying the primary database.
type BookingPaidEvent struct {
	BookingID    uint64  `json:"booking_id"`
	UserID       uint64  `json:"user_id"`
	CourseID     uint64  `json:"course_id"`
	SessionID    uint64  `json:"session_id"`
	CourseTitle  string  `json:"course_title"`
	InstructorID uint64  `json:"instructor_id"`
	Amount       float64 `json:"amount"`
	PaymentRef   string  `json:"payment_ref"`
	SessionDate  string  `json:"session_date"`
	StartTime    string  `json:"start_time"`
	EndTime      string  `json:"end_time"`
	PaidAt       string  `json:"paid_at"`
}
