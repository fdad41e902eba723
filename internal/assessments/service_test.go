package assessments

import (
	"context"
	"encoding/json"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recruitment-backend/internal/common/errors"
	"recruitment-backend/internal/common/logger"
)

const validPayload = `{
	"summary": "Strong backend profile",
	"score": {"overall": 82},
	"highlights": ["go", "sql"],
	"recommendations": ["learn k8s"]
}`

func setupService(t *testing.T) (*Service, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	svc, err := NewService(db, logger.NewTestLogger(t))
	require.NoError(t, err)
	return svc, mock
}

func jobAssessmentRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "applicant_id", "job_id", "version", "data_json", "created_at", "updated_at",
	})
}

func TestPutJobAssessment(t *testing.T) {
	svc, mock := setupService(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO job_assessment")).
		WithArgs(int64(1), int64(2), "v2", validPayload).
		WillReturnRows(jobAssessmentRows().AddRow(
			int64(5), int64(1), int64(2), "v2", validPayload, now, now,
		))

	got, err := svc.PutJobAssessment(context.Background(), &PutJobAssessmentInput{
		ApplicantID: 1,
		JobID:       2,
		Version:     "v2",
		Data:        json.RawMessage(validPayload),
	})

	require.NoError(t, err)
	assert.Equal(t, "v2", got.Version)
	assert.JSONEq(t, validPayload, string(got.Data))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPutJobAssessment_RejectsInvalidPayload(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"missing summary", `{"score": {"overall": 50}}`},
		{"missing score", `{"summary": "ok"}`},
		{"score out of range", `{"summary": "ok", "score": {"overall": 130}}`},
		{"empty summary", `{"summary": "", "score": {"overall": 50}}`},
		{"not json", `not-json`},
		{"empty", ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := setupService(t)

			_, err := svc.PutJobAssessment(context.Background(), &PutJobAssessmentInput{
				ApplicantID: 1,
				JobID:       2,
				Version:     "v1",
				Data:        json.RawMessage(tt.data),
			})

			require.Error(t, err)
			assert.Equal(t, errors.ErrCodeAssessmentValidationFailed, errors.CodeOf(err))
		})
	}
}

func TestLatestJobAssessment(t *testing.T) {
	svc, mock := setupService(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY version DESC")).
		WithArgs(int64(1), int64(2)).
		WillReturnRows(jobAssessmentRows().AddRow(
			int64(7), int64(1), int64(2), "v3", validPayload, now, now,
		))

	got, err := svc.LatestJobAssessment(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.Equal(t, "v3", got.Version)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLatestJobAssessment_NotFound(t *testing.T) {
	svc, mock := setupService(t)

	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY version DESC")).
		WithArgs(int64(1), int64(2)).
		WillReturnRows(jobAssessmentRows())

	_, err := svc.LatestJobAssessment(context.Background(), 1, 2)
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestListApplicationAssessments_LatestOnly(t *testing.T) {
	svc, mock := setupService(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT DISTINCT ON (application_id)")).
		WithArgs(int64(9)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "application_id", "version", "data_json", "created_at", "updated_at",
		}).AddRow(int64(3), int64(9), "v2", validPayload, now, now))

	got, err := svc.ListApplicationAssessments(context.Background(), ApplicationAssessmentFilter{
		ApplicationID: 9,
		LatestOnly:    true,
	})

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "v2", got[0].Version)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListApplicationAssessments_Empty(t *testing.T) {
	svc, mock := setupService(t)

	mock.ExpectQuery("FROM application_assessment").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "application_id", "version", "data_json", "created_at", "updated_at",
		}))

	got, err := svc.ListApplicationAssessments(context.Background(), ApplicationAssessmentFilter{})
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NotNil(t, got)
}
