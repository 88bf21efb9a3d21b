package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zchut-miluim/mentoring-api/internal/models"
	"github.com/zchut-miluim/mentoring-api/internal/workflow"
)

func newMenteeMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func menteeRows() *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{"id", "id_number", "full_name", "institution",
		"study_confirmation_url", "aid_fund_confirmation_url", "payment_receipt_url",
		"army_approval_document_url", "invoice_url", "status", "admin_approved",
		"admin_rejection_reason", "hours_balance", "payment_status", "payment_amount",
		"payment_date", "created_at", "updated_at"}).
		AddRow("m1", "123456789", "Dana Levi", "TAU", "a.pdf", "b.pdf", "c.pdf",
			nil, nil, "pending_admin_approval", false, "", 0.0, "", 0.0, nil, now, now)
}

func TestMenteeRepositoryList(t *testing.T) {
	db, mock, cleanup := newMenteeMock(t)
	defer cleanup()
	repo := NewMenteeRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM mentees WHERE status = \\$1 ORDER BY created_at DESC").
		WithArgs(models.MenteeStatusPendingAdminApproval).
		WillReturnRows(menteeRows())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM mentees WHERE status = $1")).
		WithArgs(models.MenteeStatusPendingAdminApproval).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	mentees, total, err := repo.List(context.Background(), models.MenteeFilter{Status: models.MenteeStatusPendingAdminApproval})
	require.NoError(t, err)
	assert.Len(t, mentees, 1)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMenteeRepositoryFindByIDNumber(t *testing.T) {
	db, mock, cleanup := newMenteeMock(t)
	defer cleanup()
	repo := NewMenteeRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM mentees WHERE id_number = \\$1").
		WithArgs("123456789").
		WillReturnRows(menteeRows())

	mentee, err := repo.FindByIDNumber(context.Background(), "123456789")
	require.NoError(t, err)
	assert.Equal(t, "Dana Levi", mentee.FullName)
}

func TestMenteeRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newMenteeMock(t)
	defer cleanup()
	repo := NewMenteeRepository(db)

	mock.ExpectExec("INSERT INTO mentees").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(),
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(),
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(),
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	mentee := &models.Mentee{IDNumber: "123456789", FullName: "Dana Levi", Status: models.MenteeStatusPendingDocuments}
	require.NoError(t, repo.Create(context.Background(), mentee))
	assert.NotEmpty(t, mentee.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMenteeRepositoryApplyPatch(t *testing.T) {
	db, mock, cleanup := newMenteeMock(t)
	defer cleanup()
	repo := NewMenteeRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE mentees SET status = $2, admin_approved = $3, admin_rejection_reason = $4, hours_balance = $5, updated_at = NOW() WHERE id = $1")).
		WithArgs("m1", models.MenteeStatusAdminApproved, true, "", 10.0).
		WillReturnResult(sqlmock.NewResult(0, 1))

	patch, err := workflow.ApproveMentee(10)
	require.NoError(t, err)
	require.NoError(t, repo.ApplyPatch(context.Background(), "m1", patch))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMenteeRepositoryRecordPayment(t *testing.T) {
	db, mock, cleanup := newMenteeMock(t)
	defer cleanup()
	repo := NewMenteeRepository(db)

	paidAt := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE mentees SET payment_status = $2, payment_amount = $3")).
		WithArgs("m1", "paid", 1500.0, paidAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.RecordPayment(context.Background(), "m1", "paid", 1500, paidAt))
	assert.NoError(t, mock.ExpectationsWereMet())
}
