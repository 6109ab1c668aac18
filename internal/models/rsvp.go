package models

import (
	"time"

	"github.com/google/uuid"
)

// AttendanceStatus is a guest's answer.
type AttendanceStatus string

const (
	AttendanceAttending    AttendanceStatus = "attending"
	AttendanceMaybe        AttendanceStatus = "maybe"
	AttendanceNotAttending AttendanceStatus = "not_attending"
)

// AttendanceStatuses lists the statuses in display order.
var AttendanceStatuses = []AttendanceStatus{AttendanceAttending, AttendanceMaybe, AttendanceNotAttending}

// Valid reports whether s is a known status.
func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendanceAttending, AttendanceMaybe, AttendanceNotAttending:
		return true
	}
	return false
}

// Guest count bounds accepted at the validation boundary.
const (
	MinGuestCount = 1
	MaxGuestCount = 10
)

// RSVP is one immutable guest response to an invitation.
type RSVP struct {
	ID               uuid.UUID        `json:"id"`
	InviteID         uuid.UUID        `json:"invite_id"`
	Name             string           `json:"name"`
	Email            string           `json:"email"`
	AttendanceStatus AttendanceStatus `json:"attendance_status"`
	GuestCount       int              `json:"guest_count"`
	Message          string           `json:"message,omitempty"`
	CreatedAt        time.Time        `json:"created_at"`
}
