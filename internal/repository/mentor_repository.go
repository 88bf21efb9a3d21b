package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/zchut-miluim/mentoring-api/internal/models"
	"github.com/zchut-miluim/mentoring-api/internal/workflow"
)

const mentorColumns = `id, id_number, full_name, institution, profile_image_url, bio,
experience_years, mentoring_subjects, study_confirmation_url, employment_procedure_url,
form_101_url, commitment_letter_url, status, admin_approved, admin_rejection_reason,
available, hourly_rate, created_at, updated_at`

// MentorRepository handles persistence of mentor profiles and their
// recurring availability slots.
type MentorRepository struct {
	db *sqlx.DB
}

// NewMentorRepository constructs the repository.
func NewMentorRepository(db *sqlx.DB) *MentorRepository {
	return &MentorRepository{db: db}
}

// CountByStatus returns mentor counts grouped by status.
func (r *MentorRepository) CountByStatus(ctx context.Context) (map[models.MentorStatus]int, error) {
	rows, err := r.db.QueryxContext(ctx, `SELECT status, COUNT(*) FROM mentors GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("count mentors by status: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	counts := make(map[models.MentorStatus]int)
	for rows.Next() {
		var status models.MentorStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scan mentor status count: %w", err)
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

// List returns mentors filtered by the provided criteria.
func (r *MentorRepository) List(ctx context.Context, filter models.MentorFilter) ([]models.Mentor, int, error) {
	var conditions []string
	var args []interface{}

	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}
	if filter.Available != nil {
		conditions = append(conditions, fmt.Sprintf("available = $%d", len(args)+1))
		args = append(args, *filter.Available)
	}
	if filter.AdminApproved != nil {
		conditions = append(conditions, fmt.Sprintf("admin_approved = $%d", len(args)+1))
		args = append(args, *filter.AdminApproved)
	}
	if filter.Subject != "" {
		conditions = append(conditions, fmt.Sprintf("$%d = ANY(mentoring_subjects)", len(args)+1))
		args = append(args, filter.Subject)
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

	query := fmt.Sprintf("SELECT %s FROM mentors%s ORDER BY full_name ASC LIMIT %d OFFSET %d",
		mentorColumns, clause, size, offset)

	var mentors []models.Mentor
	if err := r.db.SelectContext(ctx, &mentors, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list mentors: %w", err)
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM mentors" + clause
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count mentors: %w", err)
	}
	return mentors, total, nil
}

// FindByID returns a mentor by its ID.
func (r *MentorRepository) FindByID(ctx context.Context, id string) (*models.Mentor, error) {
	query := fmt.Sprintf("SELECT %s FROM mentors WHERE id = $1", mentorColumns)
	var mentor models.Mentor
	if err := r.db.GetContext(ctx, &mentor, query, id); err != nil {
		return nil, err
	}
	return &mentor, nil
}

// FindByIDNumber returns a mentor by the external login key.
func (r *MentorRepository) FindByIDNumber(ctx context.Context, idNumber string) (*models.Mentor, error) {
	query := fmt.Sprintf("SELECT %s FROM mentors WHERE id_number = $1", mentorColumns)
	var mentor models.Mentor
	if err := r.db.GetContext(ctx, &mentor, query, idNumber); err != nil {
		return nil, err
	}
	return &mentor, nil
}

// Create persists a new mentor profile.
func (r *MentorRepository) Create(ctx context.Context, mentor *models.Mentor) error {
	if mentor.ID == "" {
		mentor.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	mentor.CreatedAt = now
	mentor.UpdatedAt = now
	if mentor.Subjects == nil {
		mentor.Subjects = pq.StringArray{}
	}

	const query = `INSERT INTO mentors (id, id_number, full_name, institution,
		profile_image_url, bio, experience_years, mentoring_subjects,
		study_confirmation_url, employment_procedure_url, form_101_url,
		commitment_letter_url, status, admin_approved, admin_rejection_reason,
		available, hourly_rate, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`
	_, err := r.db.ExecContext(ctx, query,
		mentor.ID, mentor.IDNumber, mentor.FullName, mentor.Institution,
		mentor.ProfileImageURL, mentor.Bio, mentor.ExperienceYears, mentor.Subjects,
		mentor.StudyConfirmationURL, mentor.EmploymentProcedureURL, mentor.Form101URL,
		mentor.CommitmentLetterURL, mentor.Status, mentor.AdminApproved,
		mentor.AdminRejectionReason, mentor.Available, mentor.HourlyRate,
		mentor.CreatedAt, mentor.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create mentor: %w", err)
	}
	return nil
}

// UpdateProfile persists editable profile fields.
func (r *MentorRepository) UpdateProfile(ctx context.Context, mentor *models.Mentor) error {
	const query = `UPDATE mentors SET full_name = $2, institution = $3,
		profile_image_url = $4, bio = $5, experience_years = $6, mentoring_subjects = $7,
		study_confirmation_url = $8, employment_procedure_url = $9, form_101_url = $10,
		commitment_letter_url = $11, updated_at = $12 WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, mentor.ID, mentor.FullName, mentor.Institution,
		mentor.ProfileImageURL, mentor.Bio, mentor.ExperienceYears, mentor.Subjects,
		mentor.StudyConfirmationURL, mentor.EmploymentProcedureURL, mentor.Form101URL,
		mentor.CommitmentLetterURL, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update mentor profile: %w", err)
	}
	return nil
}

// ApplyPatch persists a workflow transition. Nil patch fields are skipped.
func (r *MentorRepository) ApplyPatch(ctx context.Context, id string, patch workflow.MentorPatch) error {
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
	if patch.Available != nil {
		sets = append(sets, fmt.Sprintf("available = $%d", len(args)+1))
		args = append(args, *patch.Available)
	}
	if len(sets) == 0 {
		return nil
	}
	sets = append(sets, "updated_at = NOW()")

	query := fmt.Sprintf("UPDATE mentors SET %s WHERE id = $1", strings.Join(sets, ", "))
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("apply mentor patch: %w", err)
	}
	return nil
}

// UpdateHourlyRate overwrites the admin-assigned compensation rate.
func (r *MentorRepository) UpdateHourlyRate(ctx context.Context, id string, rate float64) error {
	const query = `UPDATE mentors SET hourly_rate = $2, updated_at = NOW() WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, rate); err != nil {
		return fmt.Errorf("update hourly rate: %w", err)
	}
	return nil
}

// ExistsByIDNumber reports whether a mentor with this ID number exists.
func (r *MentorRepository) ExistsByIDNumber(ctx context.Context, idNumber string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM mentors WHERE id_number = $1)`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, idNumber); err != nil {
		return false, fmt.Errorf("check mentor id number: %w", err)
	}
	return exists, nil
}

// ListSlots returns a mentor's recurring availability windows in weekly order.
func (r *MentorRepository) ListSlots(ctx context.Context, mentorID string) ([]models.MentorSlot, error) {
	const query = `SELECT id, mentor_id, day, start_time, end_time FROM mentor_slots
		WHERE mentor_id = $1
		ORDER BY array_position(ARRAY['sunday','monday','tuesday','wednesday','thursday','friday'], day), start_time`
	var slots []models.MentorSlot
	if err := r.db.SelectContext(ctx, &slots, query, mentorID); err != nil {
		return nil, fmt.Errorf("list mentor slots: %w", err)
	}
	return slots, nil
}

// ReplaceSlots swaps the full slot set for a mentor in one transaction.
func (r *MentorRepository) ReplaceSlots(ctx context.Context, mentorID string, slots []models.MentorSlot) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace slots: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `DELETE FROM mentor_slots WHERE mentor_id = $1`, mentorID); err != nil {
		return fmt.Errorf("clear mentor slots: %w", err)
	}
	const insert = `INSERT INTO mentor_slots (id, mentor_id, day, start_time, end_time)
		VALUES ($1, $2, $3, $4, $5)`
	for i := range slots {
		slot := &slots[i]
		if slot.ID == "" {
			slot.ID = uuid.NewString()
		}
		slot.MentorID = mentorID
		if _, err := tx.ExecContext(ctx, insert, slot.ID, slot.MentorID, slot.Day, slot.StartTime, slot.EndTime); err != nil {
			return fmt.Errorf("insert mentor slot: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace slots: %w", err)
	}
	return nil
}
