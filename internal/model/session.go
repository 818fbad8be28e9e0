package model

import "time"

// CourseSession is a single scheduled occurrence of a course: a date, a time
// window and a capacity. CurrentParticipants counts confirmed bookings and
// never exceeds MaxParticipants; the booking confirmation path enforces the
// ceiling with a conditional update.
//
// SessionDate is a plain "2006-01-02" date and Start/EndTime are "15:04"
// wall-clock strings; the schedule is interpreted in the course's locale,
// not as absolute instants.
type CourseSession struct {
	ID                  uint64    `json:"id"`
	CourseID            uint64    `json:"course_id"`
	SessionDate         string    `json:"session_date"`
	StartTime           string    `json:"start_time"`
	EndTime             string    `json:"end_time"`
	MaxParticipants     uint32    `json:"max_participants"`
	CurrentParticipants uint32    `json:"current_participants"`
	Location            *string   `json:"location,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}
