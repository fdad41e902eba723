package applications

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recruitment-backend/internal/common/errors"
	"recruitment-backend/internal/common/logger"
)

func setupService(t *testing.T) (*Service, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewService(db, logger.NewTestLogger(t)), mock
}

func applicationRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "applicant_id", "job_id", "company_id", "job_assessment_id",
		"status", "created_at", "updated_at",
	})
}

func TestCreate(t *testing.T) {
	svc, mock := setupService(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM application WHERE applicant_id = $1 AND job_id = $2")).
		WithArgs(int64(1), int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO application")).
		WithArgs(int64(1), int64(2), int64(3), int64(0), "pending").
		WillReturnRows(applicationRows().AddRow(
			int64(10), int64(1), int64(2), int64(3), int64(0), "pending", now, now,
		))

	got, err := svc.Create(context.Background(), &CreateInput{
		ApplicantID: 1,
		JobID:       2,
		CompanyID:   3,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(10), got.ID)
	assert.Equal(t, "pending", got.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_DuplicateDetectedByPreCheck(t *testing.T) {
	svc, mock := setupService(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM application")).
		WithArgs(int64(1), int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(99)))

	_, err := svc.Create(context.Background(), &CreateInput{ApplicantID: 1, JobID: 2})
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeDuplicateApplication, errors.CodeOf(err))
}

func TestCreate_DuplicateDetectedByConstraint(t *testing.T) {
	svc, mock := setupService(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM application")).
		WithArgs(int64(1), int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO application")).
		WithArgs(int64(1), int64(2), int64(0), int64(0), "pending").
		WillReturnError(&pq.Error{Code: "23505"})

	_, err := svc.Create(context.Background(), &CreateInput{ApplicantID: 1, JobID: 2})
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeDuplicateApplication, errors.CodeOf(err))
}

func TestListByApplicant(t *testing.T) {
	svc, mock := setupService(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("WHERE applicant_id = $1 ORDER BY created_at DESC OFFSET $2 LIMIT $3")).
		WithArgs(int64(1), int64(0), int64(50)).
		WillReturnRows(applicationRows().
			AddRow(int64(10), int64(1), int64(2), int64(3), int64(0), "pending", now, now).
			AddRow(int64(11), int64(1), int64(4), int64(5), int64(0), "accepted", now, now))

	got, err := svc.ListByApplicant(context.Background(), 1, 0, 0)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "accepted", got[1].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListByApplicant_Pagination(t *testing.T) {
	svc, mock := setupService(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("OFFSET $2 LIMIT $3")).
		WithArgs(int64(1), int64(10), int64(5)).
		WillReturnRows(applicationRows().
			AddRow(int64(20), int64(1), int64(6), int64(7), int64(0), "pending", now, now))

	got, err := svc.ListByApplicant(context.Background(), 1, 5, 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatus(t *testing.T) {
	svc, mock := setupService(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE application SET status = $1")).
		WithArgs("accepted", int64(10)).
		WillReturnRows(applicationRows().AddRow(
			int64(10), int64(1), int64(2), int64(3), int64(0), "accepted", now, now,
		))

	got, err := svc.UpdateStatus(context.Background(), 10, "accepted")
	require.NoError(t, err)
	assert.Equal(t, "accepted", got.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatus_EmptyStatus(t *testing.T) {
	svc, _ := setupService(t)

	_, err := svc.UpdateStatus(context.Background(), 10, "")
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeInvalidInput, errors.CodeOf(err))
}

func TestUpdateStatus_NotFound(t *testing.T) {
	svc, mock := setupService(t)

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE application SET status = $1")).
		WithArgs("accepted", int64(404)).
		WillReturnRows(applicationRows())

	_, err := svc.UpdateStatus(context.Background(), 404, "accepted")
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}
