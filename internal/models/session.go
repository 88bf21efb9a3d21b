package models

import "time"

// SessionStatus is the lifecycle state of a tutoring session.
// Declined and cancelled are distinct terminal states: declined means the
// counterpart refused the request, cancelled means either party withdrew.
type SessionStatus string

const (
	SessionStatusPending   SessionStatus = "pending"
	SessionStatusApproved  SessionStatus = "approved"
	SessionStatusDeclined  SessionStatus = "declined"
	SessionStatusCancelled SessionStatus = "cancelled"
)

// Terminal reports whether the status blocks further transitions.
func (s SessionStatus) Terminal() bool {
	return s == SessionStatusDeclined || s == SessionStatusCancelled
}

// Booking modes. Recurring bookings must fit one of the mentor's weekly
// availability windows; specific-date bookings are individually agreed and
// carry no window restriction.
const (
	SlotTypeRecurring    = "recurring"
	SlotTypeSpecificDate = "specific_date"
)

// Session is a scheduled tutoring meeting between one mentee and one mentor.
// It occupies [start_time, end_time) on date for both parties while pending
// or approved.
type Session struct {
	ID       string `db:"id" json:"id"`
	MenteeID string `db:"mentee_id" json:"mentee_id"`
	MentorID string `db:"mentor_id" json:"mentor_id"`

	Date          string  `db:"date" json:"date"`
	StartTime     string  `db:"start_time" json:"start_time"`
	EndTime       string  `db:"end_time" json:"end_time"`
	DurationHours float64 `db:"duration_hours" json:"duration_hours"`
	Subject       string  `db:"subject" json:"subject"`

	Status          SessionStatus `db:"status" json:"status"`
	BookedBy        Party         `db:"booked_by" json:"booked_by"`
	DeclinedBy      *Party        `db:"declined_by" json:"declined_by,omitempty"`
	CancelledBy     *Party        `db:"cancelled_by" json:"cancelled_by,omitempty"`
	RejectionReason string        `db:"rejection_reason" json:"rejection_reason"`

	MenteeApproved bool `db:"mentee_approved" json:"mentee_approved"`
	MentorApproved bool `db:"mentor_approved" json:"mentor_approved"`

	NotificationDismissedByMentee bool `db:"notification_dismissed_by_mentee" json:"notification_dismissed_by_mentee"`
	NotificationDismissedByMentor bool `db:"notification_dismissed_by_mentor" json:"notification_dismissed_by_mentor"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// SessionFilter captures list filtering criteria.
type SessionFilter struct {
	MenteeID string
	MentorID string
	Status   SessionStatus
	Date     string
	Page     int
	PageSize int
}
