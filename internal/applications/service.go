// internal/applications/service.go
package applications

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"recruitment-backend/internal/common/errors"
	"recruitment-backend/internal/common/logger"
	"recruitment-backend/internal/models"
)

// uniqueViolation is the Postgres error code raised by the
// (applicant_id, job_id) unique constraint on application.
const uniqueViolation = "23505"

type Service struct {
	db     *sql.DB
	logger logger.Logger
}

func NewService(db *sql.DB, log logger.Logger) *Service {
	return &Service{
		db:     db,
		logger: log.WithFields(map[string]interface{}{"service": "applications"}),
	}
}

type CreateInput struct {
	ApplicantID     int64  `json:"applicantId" binding:"required"`
	JobID           int64  `json:"jobId" binding:"required"`
	CompanyID       int64  `json:"companyId"`
	JobAssessmentID int64  `json:"jobAssessmentId"`
	Status          string `json:"status"`
}

const applicationColumns = `id, applicant_id, job_id, company_id, job_assessment_id, status, created_at, updated_at`

// Create records an application. A second application by the same applicant
// to the same job is rejected; the pre-check and the unique constraint both
// map to the same duplicate error so racing inserts cannot slip through.
func (s *Service) Create(ctx context.Context, in *CreateInput) (*models.Application, error) {
	if in.Status == "" {
		in.Status = "pending"
	}

	var existing int64
	err := s.db.QueryRowContext(ctx,
		`SELECT id FROM application WHERE applicant_id = $1 AND job_id = $2`,
		in.ApplicantID, in.JobID,
	).Scan(&existing)
	if err == nil {
		return nil, errors.NewDuplicateApplicationError(in.ApplicantID, in.JobID)
	}
	if err != sql.ErrNoRows {
		return nil, errors.NewQueryExecutionFailedError("application_dup_check", err)
	}

	var out models.Application
	err = s.db.QueryRowContext(ctx, `
		INSERT INTO application (applicant_id, job_id, company_id, job_assessment_id, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+applicationColumns,
		in.ApplicantID, in.JobID, in.CompanyID, in.JobAssessmentID, in.Status,
	).Scan(applicationScanTargets(&out)...)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && string(pqErr.Code) == uniqueViolation {
			return nil, errors.NewDuplicateApplicationError(in.ApplicantID, in.JobID)
		}
		return nil, errors.NewDatabaseInsertFailedError(err)
	}

	s.logger.Info("application created", map[string]interface{}{
		"applicationId": out.ID,
		"applicantId":   out.ApplicantID,
		"jobId":         out.JobID,
	})
	return &out, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*models.Application, error) {
	var out models.Application
	err := s.db.QueryRowContext(ctx,
		`SELECT `+applicationColumns+` FROM application WHERE id = $1`, id,
	).Scan(applicationScanTargets(&out)...)
	if err == sql.ErrNoRows {
		return nil, errors.NewResourceNotFoundError("Application", fmt.Sprintf("applicationId: %d", id))
	}
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("application_get", err)
	}
	return &out, nil
}

// ListByApplicant returns a page of the applicant's applications, most
// recent first. An unknown applicant yields an empty slice.
func (s *Service) ListByApplicant(ctx context.Context, applicantID int64, limit, offset int) ([]models.Application, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+applicationColumns+` FROM application WHERE applicant_id = $1 ORDER BY created_at DESC OFFSET $2 LIMIT $3`,
		applicantID, offset, limit)
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("application_list", err)
	}
	defer rows.Close()

	out := []models.Application{}
	for rows.Next() {
		var a models.Application
		if err := rows.Scan(applicationScanTargets(&a)...); err != nil {
			return nil, errors.NewQueryExecutionFailedError("application_scan", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewQueryExecutionFailedError("application_rows", err)
	}
	return out, nil
}

// UpdateStatus sets the application's status. The status vocabulary is
// free-form; "accepted" is the value the aggregation layer treats as a
// placement.
func (s *Service) UpdateStatus(ctx context.Context, id int64, status string) (*models.Application, error) {
	if status == "" {
		return nil, errors.NewInvalidInputError("status must not be empty")
	}

	var out models.Application
	err := s.db.QueryRowContext(ctx, `
		UPDATE application SET status = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING `+applicationColumns,
		status, id,
	).Scan(applicationScanTargets(&out)...)
	if err == sql.ErrNoRows {
		return nil, errors.NewResourceNotFoundError("Application", fmt.Sprintf("applicationId: %d", id))
	}
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("application_update_status", err)
	}

	s.logger.Info("application status updated", map[string]interface{}{
		"applicationId": out.ID,
		"status":        out.Status,
	})
	return &out, nil
}

func applicationScanTargets(a *models.Application) []interface{} {
	return []interface{}{
		&a.ID, &a.ApplicantID, &a.JobID, &a.CompanyID, &a.JobAssessmentID,
		&a.Status, &a.CreatedAt, &a.UpdatedAt,
	}
}
