package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/zchut-miluim/mentoring-api/internal/models"
	"github.com/zchut-miluim/mentoring-api/internal/workflow"
)

const menteeColumns = `id, id_number, full_name, institution, study_confirmation_url,
aid_fund_confirmation_url, payment_receipt_url, army_approval_document_url, invoice_url,
status, admin_approved, admin_rejection_reason, hours_balance, payment_status,
payment_amount, payment_date, created_at, updated_at`

// MenteeRepository handles persistence of mentee profiles.
type MenteeRepository struct {
	db *sqlx.DB
}

// NewMenteeRepository constructs the repository.
func NewMenteeRepository(db *sqlx.DB) *MenteeRepository {
	return &MenteeRepository{db: db}
}

// List returns mentees filtered by the provided criteria.
func (r *MenteeRepository) List(ctx context.Context, filter models.MenteeFilter) ([]models.Mentee, int, error) {
	var conditions []string
	var args []interface{}

	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}
	if filter.AdminApproved != nil {
		conditions = append(conditions, fmt.Sprintf("admin_approved = $%d", len(args)+1))
		args = append(args, *filter.AdminApproved)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(full_name ILIKE $%d OR id_number LIKE $%d)", len(args)+1, len(args)+2))
		args = append(args, "%"+filter.Search+"%", filter.Search+"%")
	}

	clause := ""
	if len(conditions) > 0 {
		clause = " WHERE " + strings.Join(conditions, " AND ")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s FROM mentees%s ORDER BY created_at DESC LIMIT %d OFFSET %d",
		menteeColumns, clause, size, offset)

	var mentees []models.Mentee
	if err := r.db.SelectContext(ctx, &mentees, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list mentees: %w", err)
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM mentees" + clause
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count mentees: %w", err)
	}
	return mentees, total, nil
}

// FindByID returns a mentee by its ID.
func (r *MenteeRepository) FindByID(ctx context.Context, id string) (*models.Mentee, error) {
	query := fmt.Sprintf("SELECT %s FROM mentees WHERE id = $1", menteeColumns)
	var mentee models.Mentee
	if err := r.db.GetContext(ctx, &mentee, query, id); err != nil {
		return nil, err
	}
	return &mentee, nil
}

// FindByIDNumber returns a mentee by the external login key.
func (r *MenteeRepository) FindByIDNumber(ctx context.Context, idNumber string) (*models.Mentee, error) {
	query := fmt.Sprintf("SELECT %s FROM mentees WHERE id_number = $1", menteeColumns)
	var mentee models.Mentee
	if err := r.db.GetContext(ctx, &mentee, query, idNumber); err != nil {
		return nil, err
	}
	return &mentee, nil
}

// Create persists a new mentee profile.
func (r *MenteeRepository) Create(ctx context.Context, mentee *models.Mentee) error {
	if mentee.ID == "" {
		mentee.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	mentee.CreatedAt = now
	mentee.UpdatedAt = now

	const query = `INSERT INTO mentees (id, id_number, full_name, institution,
		study_confirmation_url, aid_fund_confirmation_url, payment_receipt_url,
		army_approval_document_url, invoice_url, status, admin_approved,
		admin_rejection_reason, hours_balance, payment_status, payment_amount,
		payment_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`
	_, err := r.db.ExecContext(ctx, query,
		mentee.ID, mentee.IDNumber, mentee.FullName, mentee.Institution,
		mentee.StudyConfirmationURL, mentee.AidFundConfirmationURL, mentee.PaymentReceiptURL,
		mentee.ArmyApprovalDocURL, mentee.InvoiceURL, mentee.Status, mentee.AdminApproved,
		mentee.AdminRejectionReason, mentee.HoursBalance, mentee.PaymentStatus,
		mentee.PaymentAmount, mentee.PaymentDate, mentee.CreatedAt, mentee.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create mentee: %w", err)
	}
	return nil
}

// UpdateProfile persists editable profile fields.
func (r *MenteeRepository) UpdateProfile(ctx context.Context, mentee *models.Mentee) error {
	const query = `UPDATE mentees SET full_name = $2, institution = $3,
		study_confirmation_url = $4, aid_fund_confirmation_url = $5,
		payment_receipt_url = $6, army_approval_document_url = $7, invoice_url = $8,
		updated_at = $9 WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, mentee.ID, mentee.FullName, mentee.Institution,
		mentee.StudyConfirmationURL, mentee.AidFundConfirmationURL, mentee.PaymentReceiptURL,
		mentee.ArmyApprovalDocURL, mentee.InvoiceURL, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update mentee profile: %w", err)
	}
	return nil
}

// ApplyPatch persists a workflow transition. Nil patch fields are skipped.
func (r *MenteeRepository) ApplyPatch(ctx context.Context, id string, patch workflow.MenteePatch) error {
	sets := []string{}
	args := []interface{}{id}

	if patch.Status != nil {
		sets = append(sets, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, *patch.Status)
	}
	if patch.AdminApproved != nil {
		sets = append(sets, fmt.Sprintf("admin_approved = $%d", len(args)+1))
		args = append(args, *patch.AdminApproved)
	}
	if patch.AdminRejectionReason != nil {
		sets = append(sets, fmt.Sprintf("admin_rejection_reason = $%d", len(args)+1))
		args = append(args, *patch.AdminRejectionReason)
	}
	if patch.HoursBalance != nil {
		sets = append(sets, fmt.Sprintf("hours_balance = $%d", len(args)+1))
		args = append(args, *patch.HoursBalance)
	}
	if len(sets) == 0 {
		return nil
	}
	sets = append(sets, "updated_at = NOW()")

	query := fmt.Sprintf("UPDATE mentees SET %s WHERE id = $1", strings.Join(sets, ", "))
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("apply mentee patch: %w", err)
	}
	return nil
}

// UpdateHoursBalance overwrites the admin-assigned hour credit.
func (r *MenteeRepository) UpdateHoursBalance(ctx context.Context, id string, hours float64) error {
	const query = `UPDATE mentees SET hours_balance = $2, updated_at = NOW() WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, hours); err != nil {
		return fmt.Errorf("update hours balance: %w", err)
	}
	return nil
}

// RecordPayment stamps the payment fields on the mentee record.
func (r *MenteeRepository) RecordPayment(ctx context.Context, id, status string, amount float64, paidAt time.Time) error {
	const query = `UPDATE mentees SET payment_status = $2, payment_amount = $3,
		payment_date = $4, updated_at = NOW() WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, status, amount, paidAt); err != nil {
		return fmt.Errorf("record payment: %w", err)
	}
	return nil
}

// CountByStatus returns mentee counts grouped by status.
func (r *MenteeRepository) CountByStatus(ctx context.Context) (map[models.MenteeStatus]int, error) {
	rows, err := r.db.QueryxContext(ctx, `SELECT status, COUNT(*) FROM mentees GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("count mentees by status: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	counts := make(map[models.MenteeStatus]int)
	for rows.Next() {
		var status models.MenteeStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scan mentee status count: %w", err)
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

// ExistsByIDNumber reports whether a mentee with this ID number exists.
func (r *MenteeRepository) ExistsByIDNumber(ctx context.Context, idNumber string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM mentees WHERE id_number = $1)`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, idNumber); err != nil {
		return false, fmt.Errorf("check mentee id number: %w", err)
	}
	return exists, nil
}
