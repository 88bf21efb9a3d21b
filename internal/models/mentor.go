package models

import (
	"time"

	"github.com/lib/pq"
)

// MentorStatus tracks a mentor profile through the approval pipeline.
type MentorStatus string

const (
	MentorStatusPendingApproval MentorStatus = "pending_approval"
	MentorStatusApproved        MentorStatus = "approved"
	MentorStatusSuspended       MentorStatus = "suspended"
)

// Weekday enumerates the bookable days of a recurring availability slot.
// Saturday is not offered.
type Weekday string

const (
	Sunday    Weekday = "sunday"
	Monday    Weekday = "monday"
	Tuesday   Weekday = "tuesday"
	Wednesday Weekday = "wednesday"
	Thursday  Weekday = "thursday"
	Friday    Weekday = "friday"
)

// Valid reports whether the weekday is a bookable day.
func (d Weekday) Valid() bool {
	switch d {
	case Sunday, Monday, Tuesday, Wednesday, Thursday, Friday:
		return true
	}
	return false
}

// Mentor is an approved tutor offering availability windows and subjects.
type Mentor struct {
	ID          string `db:"id" json:"id"`
	IDNumber    string `db:"id_number" json:"id_number"`
	FullName    string `db:"full_name" json:"full_name"`
	Institution string `db:"institution" json:"institution"`

	ProfileImageURL *string        `db:"profile_image_url" json:"profile_image_url,omitempty"`
	Bio             string         `db:"bio" json:"bio"`
	ExperienceYears int            `db:"experience_years" json:"experience_years"`
	Subjects        pq.StringArray `db:"mentoring_subjects" json:"mentoring_subjects"`

	StudyConfirmationURL   string `db:"study_confirmation_url" json:"study_confirmation_url"`
	EmploymentProcedureURL string `db:"employment_procedure_url" json:"employment_procedure_url"`
	Form101URL             string `db:"form_101_url" json:"form_101_url"`
	CommitmentLetterURL    string `db:"commitment_letter_url" json:"commitment_letter_url"`

	Status               MentorStatus `db:"status" json:"status"`
	AdminApproved        bool         `db:"admin_approved" json:"admin_approved"`
	AdminRejectionReason string       `db:"admin_rejection_reason" json:"admin_rejection_reason"`
	Available            bool         `db:"available" json:"available"`

	HourlyRate float64 `db:"hourly_rate" json:"hourly_rate"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// MentorSlot is a weekly recurring availability window declared by a mentor.
type MentorSlot struct {
	ID        string  `db:"id" json:"id"`
	MentorID  string  `db:"mentor_id" json:"mentor_id"`
	Day       Weekday `db:"day" json:"day"`
	StartTime string  `db:"start_time" json:"start_time"`
	EndTime   string  `db:"end_time" json:"end_time"`
}

// MentorFilter captures list filtering criteria.
type MentorFilter struct {
	Status        MentorStatus
	Available     *bool
	AdminApproved *bool
	Subject       string
	Page          int
	PageSize      int
}
