// Package workflow computes the next record state for approval actions.
// Every function is pure: it returns a patch describing the fields to
// change and leaves persistence to the calling service.
package workflow

import (
	"github.com/zchut-miluim/mentoring-api/internal/models"
	appErrors "github.com/zchut-miluim/mentoring-api/pkg/errors"
)

// MenteePatch lists mentee fields touched by a transition. Nil fields are
// left unchanged by the repository.
type MenteePatch struct {
	Status               *models.MenteeStatus
	AdminApproved        *bool
	AdminRejectionReason *string
	HoursBalance         *float64
}

// MentorPatch lists mentor fields touched by a transition.
type MentorPatch struct {
	Status               *models.MentorStatus
	AdminApproved        *bool
	AdminRejectionReason *string
	Available            *bool
}

// SessionPatch lists session fields touched by a transition.
type SessionPatch struct {
	Status          *models.SessionStatus
	MentorApproved  *bool
	DeclinedBy      *models.Party
	CancelledBy     *models.Party
	RejectionReason *string
}

// ApproveMentee grants admin approval and assigns the hour credit.
func ApproveMentee(hours float64) (MenteePatch, error) {
	if hours < 0 {
		return MenteePatch{}, appErrors.Clone(appErrors.ErrInvalidInput, "hours balance must not be negative")
	}
	return MenteePatch{
		Status:               statusPtr(models.MenteeStatusAdminApproved),
		AdminApproved:        boolPtr(true),
		AdminRejectionReason: strPtr(""),
		HoursBalance:         floatPtr(hours),
	}, nil
}

// RejectMentee withdraws approval and records the reason.
func RejectMentee(reason string) (MenteePatch, error) {
	if reason == "" {
		return MenteePatch{}, appErrors.Clone(appErrors.ErrInvalidInput, "rejection reason is required")
	}
	return MenteePatch{
		Status:               statusPtr(models.MenteeStatusArmyRejected),
		AdminApproved:        boolPtr(false),
		AdminRejectionReason: strPtr(reason),
	}, nil
}

// ApproveMentor approves the profile and makes the mentor bookable.
func ApproveMentor() MentorPatch {
	return MentorPatch{
		Status:               mentorStatusPtr(models.MentorStatusApproved),
		AdminApproved:        boolPtr(true),
		AdminRejectionReason: strPtr(""),
		Available:            boolPtr(true),
	}
}

// RejectMentor suspends the profile and records the reason.
func RejectMentor(reason string) (MentorPatch, error) {
	if reason == "" {
		return MentorPatch{}, appErrors.Clone(appErrors.ErrInvalidInput, "rejection reason is required")
	}
	return MentorPatch{
		Status:               mentorStatusPtr(models.MentorStatusSuspended),
		AdminApproved:        boolPtr(false),
		AdminRejectionReason: strPtr(reason),
		Available:            boolPtr(false),
	}, nil
}

// ApproveSession records the mentor-side approval of a pending booking. The
// mentee approved implicitly at booking time.
func ApproveSession() SessionPatch {
	return SessionPatch{
		Status:         sessionStatusPtr(models.SessionStatusApproved),
		MentorApproved: boolPtr(true),
	}
}

// DeclineSession marks the session refused by the counterpart. Calling it
// again with the same arguments yields the same terminal patch.
func DeclineSession(by models.Party, reason string) (SessionPatch, error) {
	if !by.Valid() {
		return SessionPatch{}, appErrors.Clone(appErrors.ErrInvalidInput, "unknown party")
	}
	if reason == "" {
		return SessionPatch{}, appErrors.Clone(appErrors.ErrInvalidInput, "rejection reason is required")
	}
	declinedBy := by
	return SessionPatch{
		Status:          sessionStatusPtr(models.SessionStatusDeclined),
		DeclinedBy:      &declinedBy,
		RejectionReason: strPtr(reason),
	}, nil
}

// CancelSession marks the session withdrawn by one of its parties.
func CancelSession(by models.Party) (SessionPatch, error) {
	if !by.Valid() {
		return SessionPatch{}, appErrors.Clone(appErrors.ErrInvalidInput, "unknown party")
	}
	cancelledBy := by
	return SessionPatch{
		Status:      sessionStatusPtr(models.SessionStatusCancelled),
		CancelledBy: &cancelledBy,
	}, nil
}

// MenteeDocuments are the required-document URLs of a mentee profile.
type MenteeDocuments struct {
	StudyConfirmationURL   string
	AidFundConfirmationURL string
	PaymentReceiptURL      string
}

// MentorDocuments are the required-document URLs of a mentor profile.
type MentorDocuments struct {
	StudyConfirmationURL   string
	EmploymentProcedureURL string
	Form101URL             string
	CommitmentLetterURL    string
}

// ReviewMenteeDocuments returns the re-review patch when any required
// document differs from the stored value, nil otherwise. Edits to
// non-document fields never trigger re-review.
func ReviewMenteeDocuments(current models.Mentee, next MenteeDocuments) *MenteePatch {
	changed := next.StudyConfirmationURL != current.StudyConfirmationURL ||
		next.AidFundConfirmationURL != current.AidFundConfirmationURL ||
		next.PaymentReceiptURL != current.PaymentReceiptURL
	if !changed {
		return nil
	}
	return &MenteePatch{
		Status:               statusPtr(models.MenteeStatusPendingAdminApproval),
		AdminApproved:        boolPtr(false),
		AdminRejectionReason: strPtr(""),
	}
}

// ReviewMentorDocuments is the mentor-side re-review rule. A mentor under
// re-review also stops being bookable.
func ReviewMentorDocuments(current models.Mentor, next MentorDocuments) *MentorPatch {
	changed := next.StudyConfirmationURL != current.StudyConfirmationURL ||
		next.EmploymentProcedureURL != current.EmploymentProcedureURL ||
		next.Form101URL != current.Form101URL ||
		next.CommitmentLetterURL != current.CommitmentLetterURL
	if !changed {
		return nil
	}
	return &MentorPatch{
		Status:               mentorStatusPtr(models.MentorStatusPendingApproval),
		AdminApproved:        boolPtr(false),
		AdminRejectionReason: strPtr(""),
		Available:            boolPtr(false),
	}
}

func statusPtr(s models.MenteeStatus) *models.MenteeStatus    { return &s }
func mentorStatusPtr(s models.MentorStatus) *models.MentorStatus { return &s }
func sessionStatusPtr(s models.SessionStatus) *models.SessionStatus { return &s }
func boolPtr(b bool) *bool          { return &b }
func strPtr(s string) *string       { return &s }
func floatPtr(f float64) *float64   { return &f }
