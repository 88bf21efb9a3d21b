package models

// MenteeRegisterRequest opens a new mentee profile.
type MenteeRegisterRequest struct {
	IDNumber    string `json:"id_number" validate:"required,len=9,numeric"`
	FullName    string `json:"full_name" validate:"required"`
	Institution string `json:"institution"`
}

// MenteeProfileUpdateRequest edits the mentee's own profile. Changing any
// document URL sends the profile back to admin review.
type MenteeProfileUpdateRequest struct {
	FullName               string  `json:"full_name" validate:"required"`
	Institution            string  `json:"institution"`
	StudyConfirmationURL   string  `json:"study_confirmation_url"`
	AidFundConfirmationURL string  `json:"aid_fund_confirmation_url"`
	PaymentReceiptURL      string  `json:"payment_receipt_url"`
	ArmyApprovalDocURL     *string `json:"army_approval_document_url"`
	InvoiceURL             *string `json:"invoice_url"`
}

// MentorRegisterRequest opens a new mentor profile.
type MentorRegisterRequest struct {
	IDNumber    string   `json:"id_number" validate:"required,len=9,numeric"`
	FullName    string   `json:"full_name" validate:"required"`
	Institution string   `json:"institution"`
	Subjects    []string `json:"mentoring_subjects"`
}

// MentorProfileUpdateRequest edits the mentor's own profile and weekly
// availability. Changing any document URL sends the profile back to review.
type MentorProfileUpdateRequest struct {
	FullName               string       `json:"full_name" validate:"required"`
	Institution            string       `json:"institution"`
	Bio                    string       `json:"bio"`
	ExperienceYears        int          `json:"experience_years" validate:"gte=0"`
	Subjects               []string     `json:"mentoring_subjects"`
	ProfileImageURL        *string      `json:"profile_image_url"`
	StudyConfirmationURL   string       `json:"study_confirmation_url"`
	EmploymentProcedureURL string       `json:"employment_procedure_url"`
	Form101URL             string       `json:"form_101_url"`
	CommitmentLetterURL    string       `json:"commitment_letter_url"`
	Slots                  []SlotInput  `json:"slots"`
}

// SlotInput declares one weekly availability window.
type SlotInput struct {
	Day       string `json:"day" validate:"required"`
	StartTime string `json:"start_time" validate:"required"`
	EndTime   string `json:"end_time" validate:"required"`
}

// BookSessionRequest asks for a tutoring session with a mentor. An empty
// slot_type means recurring.
type BookSessionRequest struct {
	MentorID  string `json:"mentor_id" validate:"required,uuid4"`
	Date      string `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime string `json:"start_time" validate:"required"`
	EndTime   string `json:"end_time" validate:"required"`
	Subject   string `json:"subject"`
	SlotType  string `json:"slot_type" validate:"omitempty,oneof=recurring specific_date"`
}

// DeclineSessionRequest refuses a pending booking with a reason.
type DeclineSessionRequest struct {
	Reason string `json:"reason" validate:"required"`
}

// ApproveMenteeRequest grants admin approval with an hour credit.
type ApproveMenteeRequest struct {
	HoursBalance float64 `json:"hours_balance" validate:"gte=0"`
}

// RejectRequest withdraws approval with a reason.
type RejectRequest struct {
	Reason string `json:"reason" validate:"required"`
}

// HourlyRateRequest sets a mentor's compensation rate.
type HourlyRateRequest struct {
	HourlyRate float64 `json:"hourly_rate" validate:"gte=0"`
}

// RecordPaymentRequest stamps a scholarship payment on a mentee.
type RecordPaymentRequest struct {
	Status string  `json:"status" validate:"required,oneof=paid pending"`
	Amount float64 `json:"amount" validate:"gte=0"`
}

// DayBucketEligibilityRequest feeds the flat day-count grant schedule.
type DayBucketEligibilityRequest struct {
	Days   int  `json:"days" validate:"gte=0"`
	Combat bool `json:"is_combat"`
}

// PercentageEligibilityRequest feeds the tuition-percentage grant schedule.
type PercentageEligibilityRequest struct {
	Year               string  `json:"year" validate:"required,oneof=tashpad tashpah"`
	Days               int     `json:"days" validate:"gte=0"`
	Combat             bool    `json:"is_combat"`
	SupplementaryGrant bool    `json:"supplementary_grant"`
	TuitionPaid        float64 `json:"tuition_paid" validate:"gte=0"`
}
