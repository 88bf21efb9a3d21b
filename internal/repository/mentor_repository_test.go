package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zchut-miluim/mentoring-api/internal/models"
)

func newMentorMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestMentorRepositoryListBySubject(t *testing.T) {
	db, mock, cleanup := newMentorMock(t)
	defer cleanup()
	repo := NewMentorRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "id_number", "full_name", "institution", "profile_image_url",
		"bio", "experience_years", "mentoring_subjects", "study_confirmation_url",
		"employment_procedure_url", "form_101_url", "commitment_letter_url", "status",
		"admin_approved", "admin_rejection_reason", "available", "hourly_rate", "created_at", "updated_at"}).
		AddRow("t1", "987654321", "Yossi Cohen", "Technion", nil, "", 3,
			pq.StringArray{"calculus", "physics"}, "a.pdf", "b.pdf", "c.pdf", "d.pdf",
			"approved", true, "", true, 120.0, now, now)
	available := true
	mock.ExpectQuery("SELECT (.+) FROM mentors WHERE available = \\$1 AND \\$2 = ANY\\(mentoring_subjects\\)").
		WithArgs(true, "calculus").
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM mentors WHERE available = $1")).
		WithArgs(true, "calculus").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	mentors, total, err := repo.List(context.Background(), models.MentorFilter{Available: &available, Subject: "calculus"})
	require.NoError(t, err)
	assert.Len(t, mentors, 1)
	assert.Equal(t, 1, total)
	assert.Contains(t, mentors[0].Subjects, "physics")
}

func TestMentorRepositoryReplaceSlots(t *testing.T) {
	db, mock, cleanup := newMentorMock(t)
	defer cleanup()
	repo := NewMentorRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM mentor_slots WHERE mentor_id = $1")).
		WithArgs("t1").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("INSERT INTO mentor_slots").
		WithArgs(sqlmock.AnyArg(), "t1", models.Sunday, "09:00", "12:00").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO mentor_slots").
		WithArgs(sqlmock.AnyArg(), "t1", models.Tuesday, "14:00", "18:00").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	slots := []models.MentorSlot{
		{Day: models.Sunday, StartTime: "09:00", EndTime: "12:00"},
		{Day: models.Tuesday, StartTime: "14:00", EndTime: "18:00"},
	}
	require.NoError(t, repo.ReplaceSlots(context.Background(), "t1", slots))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMentorRepositoryUpdateHourlyRate(t *testing.T) {
	db, mock, cleanup := newMentorMock(t)
	defer cleanup()
	repo := NewMentorRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE mentors SET hourly_rate = $2")).
		WithArgs("t1", 150.0).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdateHourlyRate(context.Background(), "t1", 150))
	assert.NoError(t, mock.ExpectationsWereMet())
}
