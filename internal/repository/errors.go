// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as handlers
// to distinguish between different failure scenarios: ErrForbidden indicates
// that the current user is not authorized to act on a resource owned by
// someone else, ErrConflict signals that an operation cannot proceed due to
// existing dependent records (e.g. deleting a course with active bookings),
// and the not-found sentinels name the entity that was missing.
package repository

import (
	"errors"
	"strings"
)

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own. Handlers translate this into HTTP 403.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when a delete or update cannot be performed
// because of conflicting state, such as deleting a course that still has
// active bookings. Handlers translate this into HTTP 409.
var ErrConflict = errors.New("conflict")

// ErrCourseNotFound indicates that a course was not located in the DB.
var ErrCourseNotFound = errors.New("course not found")

// ErrSessionNotFound indicates that a course session was not located in the
// DB or does not belong to the referenced course.
var ErrSessionNotFound = errors.New("session not found")

// ErrSessionFull is returned when a session has reached its participant
// ceiling. The capacity check on confirmation is a conditional update, so
// this can surface even after an earlier availability check passed.
var ErrSessionFull = errors.New("session full")

// ErrDuplicateBooking is returned when the user already holds an active
// (pending or paid) booking for the session.
var ErrDuplicateBooking = errors.New("duplicate booking")

// ErrBookingNotFound indicates that a booking does not exist or does not
// belong to the caller. Existence and ownership are deliberately conflated
// so non-owners cannot probe for booking IDs.
var ErrBookingNotFound = errors.New("booking not found")

// ErrConversationNotFound indicates that a conversation was not located.
var ErrConversationNotFound = errors.New("conversation not found")

// ErrUserNotFound indicates that a referenced user does not exist.
var ErrUserNotFound = errors.New("user not found")

// isDuplicateKey reports whether err is a unique-constraint violation.
// MySQL reports these as error 1062; other engines name the constraint.
func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "1062") || strings.Contains(msg, "unique")
}
