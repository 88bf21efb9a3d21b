package models

import "time"

// MenteeStatus tracks a mentee profile through the approval pipeline.
type MenteeStatus string

const (
	MenteeStatusPendingDocuments     MenteeStatus = "pending_documents"
	MenteeStatusPendingAdminApproval MenteeStatus = "pending_admin_approval"
	MenteeStatusAdminApproved        MenteeStatus = "admin_approved"
	MenteeStatusArmyRejected         MenteeStatus = "army_rejected"
	MenteeStatusPaidPendingArmy      MenteeStatus = "paid_pending_army_approval"
	MenteeStatusArmyApprovedReady    MenteeStatus = "army_approved_ready"
)

// Mentee is a reservist student entitled to subsidized tutoring hours.
// The id_number is the external login key; uniqueness is enforced by the
// mentees_id_number_key index.
type Mentee struct {
	ID          string `db:"id" json:"id"`
	IDNumber    string `db:"id_number" json:"id_number"`
	FullName    string `db:"full_name" json:"full_name"`
	Institution string `db:"institution" json:"institution"`

	StudyConfirmationURL   string  `db:"study_confirmation_url" json:"study_confirmation_url"`
	AidFundConfirmationURL string  `db:"aid_fund_confirmation_url" json:"aid_fund_confirmation_url"`
	PaymentReceiptURL      string  `db:"payment_receipt_url" json:"payment_receipt_url"`
	ArmyApprovalDocURL     *string `db:"army_approval_document_url" json:"army_approval_document_url,omitempty"`
	InvoiceURL             *string `db:"invoice_url" json:"invoice_url,omitempty"`

	Status               MenteeStatus `db:"status" json:"status"`
	AdminApproved        bool         `db:"admin_approved" json:"admin_approved"`
	AdminRejectionReason string       `db:"admin_rejection_reason" json:"admin_rejection_reason"`

	HoursBalance  float64    `db:"hours_balance" json:"hours_balance"`
	PaymentStatus string     `db:"payment_status" json:"payment_status"`
	PaymentAmount float64    `db:"payment_amount" json:"payment_amount"`
	PaymentDate   *time.Time `db:"payment_date" json:"payment_date,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// MenteeFilter captures list filtering criteria.
type MenteeFilter struct {
	Status        MenteeStatus
	AdminApproved *bool
	Search        string
	Page          int
	PageSize      int
}
