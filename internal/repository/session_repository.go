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

// ConflictError reports a booking that would double-book one party.
type ConflictError struct {
	Party models.Party
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("session overlaps an existing %s session", e.Party)
}

// InsufficientHoursError reports a booking that would overspend the
// mentee's hour balance.
type InsufficientHoursError struct {
	Remaining float64
}

func (e *InsufficientHoursError) Error() string {
	return fmt.Sprintf("only %.2f hours remaining", e.Remaining)
}

const sessionColumns = `id, mentee_id, mentor_id, date, start_time, end_time,
duration_hours, subject, status, booked_by, declined_by, cancelled_by,
rejection_reason, mentee_approved, mentor_approved,
notification_dismissed_by_mentee, notification_dismissed_by_mentor,
created_at, updated_at`

// SessionRepository handles persistence of tutoring sessions.
type SessionRepository struct {
	db *sqlx.DB
}

// NewSessionRepository constructs the repository.
func NewSessionRepository(db *sqlx.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// List returns sessions filtered by the provided criteria.
func (r *SessionRepository) List(ctx context.Context, filter models.SessionFilter) ([]models.Session, int, error) {
	var conditions []string
	var args []interface{}

	if filter.MenteeID != "" {
		conditions = append(conditions, fmt.Sprintf("mentee_id = $%d", len(args)+1))
		args = append(args, filter.MenteeID)
	}
	if filter.MentorID != "" {
		conditions = append(conditions, fmt.Sprintf("mentor_id = $%d", len(args)+1))
		args = append(args, filter.MentorID)
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}
	if filter.Date != "" {
		conditions = append(conditions, fmt.Sprintf("date = $%d", len(args)+1))
		args = append(args, filter.Date)
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

	query := fmt.Sprintf("SELECT %s FROM sessions%s ORDER BY date DESC, start_time DESC LIMIT %d OFFSET %d",
		sessionColumns, clause, size, offset)

	var sessions []models.Session
	if err := r.db.SelectContext(ctx, &sessions, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list sessions: %w", err)
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM sessions" + clause
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count sessions: %w", err)
	}
	return sessions, total, nil
}

// FindByID returns a session by its ID.
func (r *SessionRepository) FindByID(ctx context.Context, id string) (*models.Session, error) {
	query := fmt.Sprintf("SELECT %s FROM sessions WHERE id = $1", sessionColumns)
	var session models.Session
	if err := r.db.GetContext(ctx, &session, query, id); err != nil {
		return nil, err
	}
	return &session, nil
}

// CountByStatus returns session counts grouped by status.
func (r *SessionRepository) CountByStatus(ctx context.Context) (map[models.SessionStatus]int, error) {
	rows, err := r.db.QueryxContext(ctx, `SELECT status, COUNT(*) FROM sessions GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("count sessions by status: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	counts := make(map[models.SessionStatus]int)
	for rows.Next() {
		var status models.SessionStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scan session status count: %w", err)
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

// ListActiveByMentee returns the mentee's pending and approved sessions.
func (r *SessionRepository) ListActiveByMentee(ctx context.Context, menteeID string) ([]models.Session, error) {
	query := fmt.Sprintf(`SELECT %s FROM sessions WHERE mentee_id = $1 AND status IN ($2, $3)
		ORDER BY date, start_time`, sessionColumns)
	var sessions []models.Session
	if err := r.db.SelectContext(ctx, &sessions, query, menteeID,
		models.SessionStatusPending, models.SessionStatusApproved); err != nil {
		return nil, fmt.Errorf("list active mentee sessions: %w", err)
	}
	return sessions, nil
}

// ListActiveByMentor returns the mentor's pending and approved sessions.
func (r *SessionRepository) ListActiveByMentor(ctx context.Context, mentorID string) ([]models.Session, error) {
	query := fmt.Sprintf(`SELECT %s FROM sessions WHERE mentor_id = $1 AND status IN ($2, $3)
		ORDER BY date, start_time`, sessionColumns)
	var sessions []models.Session
	if err := r.db.SelectContext(ctx, &sessions, query, mentorID,
		models.SessionStatusPending, models.SessionStatusApproved); err != nil {
		return nil, fmt.Errorf("list active mentor sessions: %w", err)
	}
	return sessions, nil
}

// CreateBooked inserts a new pending session after re-validating the
// conflict and hour-balance invariants inside one transaction. The mentee
// row is locked FOR UPDATE so two concurrent bookings cannot both pass the
// balance check, and the overlap re-check closes the read-then-write race
// of checking conflicts outside the transaction.
func (r *SessionRepository) CreateBooked(ctx context.Context, session *models.Session) error {
	if session.ID == "" {
		session.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	session.CreatedAt = now
	session.UpdatedAt = now

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin booking: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var balance float64
	if err := tx.GetContext(ctx, &balance,
		`SELECT hours_balance FROM mentees WHERE id = $1 FOR UPDATE`, session.MenteeID); err != nil {
		return fmt.Errorf("lock mentee row: %w", err)
	}

	// Serializes concurrent bookings against the same mentor.
	var mentorID string
	if err := tx.GetContext(ctx, &mentorID,
		`SELECT id FROM mentors WHERE id = $1 FOR UPDATE`, session.MentorID); err != nil {
		return fmt.Errorf("lock mentor row: %w", err)
	}

	const overlapQuery = `SELECT EXISTS (SELECT 1 FROM sessions
		WHERE %s = $1 AND date = $2 AND status IN ($3, $4)
		AND start_time < $6 AND end_time > $5)`

	var mentorBusy bool
	if err := tx.GetContext(ctx, &mentorBusy, fmt.Sprintf(overlapQuery, "mentor_id"),
		session.MentorID, session.Date, models.SessionStatusPending, models.SessionStatusApproved,
		session.StartTime, session.EndTime); err != nil {
		return fmt.Errorf("check mentor overlap: %w", err)
	}
	if mentorBusy {
		return &ConflictError{Party: models.PartyMentor}
	}

	var menteeBusy bool
	if err := tx.GetContext(ctx, &menteeBusy, fmt.Sprintf(overlapQuery, "mentee_id"),
		session.MenteeID, session.Date, models.SessionStatusPending, models.SessionStatusApproved,
		session.StartTime, session.EndTime); err != nil {
		return fmt.Errorf("check mentee overlap: %w", err)
	}
	if menteeBusy {
		return &ConflictError{Party: models.PartyMentee}
	}

	var usedHours float64
	if err := tx.GetContext(ctx, &usedHours,
		`SELECT COALESCE(SUM(duration_hours), 0) FROM sessions
		WHERE mentee_id = $1 AND status IN ($2, $3)`,
		session.MenteeID, models.SessionStatusPending, models.SessionStatusApproved); err != nil {
		return fmt.Errorf("sum booked hours: %w", err)
	}
	remaining := balance - usedHours
	if session.DurationHours > remaining {
		return &InsufficientHoursError{Remaining: remaining}
	}

	const insert = `INSERT INTO sessions (id, mentee_id, mentor_id, date, start_time,
		end_time, duration_hours, subject, status, booked_by, rejection_reason,
		mentee_approved, mentor_approved, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	if _, err := tx.ExecContext(ctx, insert,
		session.ID, session.MenteeID, session.MentorID, session.Date, session.StartTime,
		session.EndTime, session.DurationHours, session.Subject, session.Status,
		session.BookedBy, session.RejectionReason, session.MenteeApproved,
		session.MentorApproved, session.CreatedAt, session.UpdatedAt); err != nil {
		return fmt.Errorf("insert session: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit booking: %w", err)
	}
	return nil
}

// ApplyPatch persists a workflow transition. Nil patch fields are skipped.
func (r *SessionRepository) ApplyPatch(ctx context.Context, id string, patch workflow.SessionPatch) error {
	sets := []string{}
	args := []interface{}{id}

	if patch.Status != nil {
		sets = append(sets, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, *patch.Status)
	}
	if patch.MentorApproved != nil {
		sets = append(sets, fmt.Sprintf("mentor_approved = $%d", len(args)+1))
		args = append(args, *patch.MentorApproved)
	}
	if patch.DeclinedBy != nil {
		sets = append(sets, fmt.Sprintf("declined_by = $%d", len(args)+1))
		args = append(args, *patch.DeclinedBy)
	}
	if patch.CancelledBy != nil {
		sets = append(sets, fmt.Sprintf("cancelled_by = $%d", len(args)+1))
		args = append(args, *patch.CancelledBy)
	}
	if patch.RejectionReason != nil {
		sets = append(sets, fmt.Sprintf("rejection_reason = $%d", len(args)+1))
		args = append(args, *patch.RejectionReason)
	}
	if len(sets) == 0 {
		return nil
	}
	sets = append(sets, "updated_at = NOW()")

	query := fmt.Sprintf("UPDATE sessions SET %s WHERE id = $1", strings.Join(sets, ", "))
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("apply session patch: %w", err)
	}
	return nil
}

// DismissNotification marks the one-shot status notice as seen by a party.
func (r *SessionRepository) DismissNotification(ctx context.Context, id string, party models.Party) error {
	column := "notification_dismissed_by_mentee"
	if party == models.PartyMentor {
		column = "notification_dismissed_by_mentor"
	}
	query := fmt.Sprintf("UPDATE sessions SET %s = TRUE, updated_at = NOW() WHERE id = $1", column)
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("dismiss session notification: %w", err)
	}
	return nil
}
