// internal/interviews/service.go
package interviews

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"recruitment-backend/internal/common/errors"
	"recruitment-backend/internal/common/logger"
	"recruitment-backend/internal/models"
	"recruitment-backend/internal/notify"
)

// Announcer delivers the interview-scheduled notification. Delivery is best
// effort: a failure is logged, never surfaced to the caller.
type Announcer interface {
	SendInterviewScheduled(ctx context.Context, ev notify.InterviewScheduled) error
}

type Service struct {
	db       *sql.DB
	notifier Announcer
	logger   logger.Logger
}

func NewService(db *sql.DB, notifier Announcer, log logger.Logger) *Service {
	return &Service{
		db:       db,
		notifier: notifier,
		logger:   log.WithFields(map[string]interface{}{"service": "interviews"}),
	}
}

type CreateInput struct {
	ApplicationID   int64     `json:"applicationId" binding:"required"`
	JobID           int64     `json:"jobId" binding:"required"`
	ApplicantID     int64     `json:"applicantId" binding:"required"`
	CompanyID       int64     `json:"companyId"`
	InterviewerID   int64     `json:"interviewerId"`
	ScheduledTime   time.Time `json:"scheduledTime" binding:"required"`
	DurationMinutes int       `json:"durationMinutes"`
	Type            string    `json:"type"`
	LocationURL     string    `json:"locationUrl"`
	Notes           string    `json:"notes"`
}

type Filter struct {
	ApplicantID int64
	JobID       int64
	CompanyID   int64
	Status      string
	Limit       int
	Offset      int
}

const interviewColumns = `id, application_id, job_id, applicant_id, company_id, interviewer_id,
	scheduled_time, duration_minutes, type, location_url, status, notes, created_at`

// Create schedules an interview. Status always starts as Pending and the
// applicant is notified on the enabled channels.
func (s *Service) Create(ctx context.Context, in *CreateInput) (*models.Interview, error) {
	var out models.Interview
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO interviews (application_id, job_id, applicant_id, company_id, interviewer_id,
			scheduled_time, duration_minutes, type, location_url, status, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING `+interviewColumns,
		in.ApplicationID, in.JobID, in.ApplicantID, in.CompanyID, in.InterviewerID,
		in.ScheduledTime, in.DurationMinutes, in.Type, in.LocationURL,
		models.InterviewStatusPending, in.Notes,
	).Scan(interviewScanTargets(&out)...)
	if err != nil {
		return nil, errors.NewDatabaseInsertFailedError(err)
	}

	s.logger.Info("interview scheduled", map[string]interface{}{
		"interviewId":   out.ID,
		"applicationId": out.ApplicationID,
		"scheduledTime": out.ScheduledTime,
	})

	s.announce(ctx, &out)
	return &out, nil
}

// announce loads the notification context and fires the notifier. Missing
// rows or delivery failures only log; the interview is already committed.
func (s *Service) announce(ctx context.Context, iv *models.Interview) {
	if s.notifier == nil {
		return
	}

	var ev notify.InterviewScheduled
	err := s.db.QueryRowContext(ctx, `
		SELECT a.name, a.email, a.phone, j.title, COALESCE(c.name, '')
		FROM applicant a
		JOIN job j ON j.id = $2
		LEFT JOIN company c ON c.id = j.company_id
		WHERE a.id = $1`,
		iv.ApplicantID, iv.JobID,
	).Scan(&ev.ApplicantName, &ev.ApplicantEmail, &ev.ApplicantPhone, &ev.JobTitle, &ev.CompanyName)
	if err != nil {
		s.logger.WithError(err).Warn("interview notification context unavailable", map[string]interface{}{
			"interviewId": iv.ID,
		})
		return
	}
	ev.ScheduledTime = iv.ScheduledTime
	ev.LocationURL = iv.LocationURL

	if err := s.notifier.SendInterviewScheduled(ctx, ev); err != nil {
		s.logger.WithError(err).Warn("interview notification failed", map[string]interface{}{
			"interviewId": iv.ID,
		})
	}
}

func (s *Service) Get(ctx context.Context, id int64) (*models.Interview, error) {
	var out models.Interview
	err := s.db.QueryRowContext(ctx,
		`SELECT `+interviewColumns+` FROM interviews WHERE id = $1`, id,
	).Scan(interviewScanTargets(&out)...)
	if err == sql.ErrNoRows {
		return nil, errors.NewResourceNotFoundError("Interview", fmt.Sprintf("interviewId: %d", id))
	}
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("interview_get", err)
	}
	return &out, nil
}

func (s *Service) List(ctx context.Context, f Filter) ([]models.Interview, error) {
	if f.Limit <= 0 || f.Limit > 200 {
		f.Limit = 50
	}
	if f.Offset < 0 {
		f.Offset = 0
	}

	conds := []string{}
	args := []interface{}{}
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.ApplicantID != 0 {
		conds = append(conds, "applicant_id = "+arg(f.ApplicantID))
	}
	if f.JobID != 0 {
		conds = append(conds, "job_id = "+arg(f.JobID))
	}
	if f.CompanyID != 0 {
		conds = append(conds, "company_id = "+arg(f.CompanyID))
	}
	if f.Status != "" {
		conds = append(conds, "status = "+arg(f.Status))
	}

	query := `SELECT ` + interviewColumns + ` FROM interviews`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += fmt.Sprintf(" ORDER BY scheduled_time DESC OFFSET %s LIMIT %s", arg(f.Offset), arg(f.Limit))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("interview_list", err)
	}
	defer rows.Close()

	out := []models.Interview{}
	for rows.Next() {
		var iv models.Interview
		if err := rows.Scan(interviewScanTargets(&iv)...); err != nil {
			return nil, errors.NewQueryExecutionFailedError("interview_scan", err)
		}
		out = append(out, iv)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewQueryExecutionFailedError("interview_rows", err)
	}
	return out, nil
}

// UpdateStatus moves the interview to one of the allowed statuses.
func (s *Service) UpdateStatus(ctx context.Context, id int64, status string) (*models.Interview, error) {
	if !models.ValidInterviewStatus(status) {
		return nil, errors.NewInvalidStatusError(status)
	}

	var out models.Interview
	err := s.db.QueryRowContext(ctx, `
		UPDATE interviews SET status = $1
		WHERE id = $2
		RETURNING `+interviewColumns,
		status, id,
	).Scan(interviewScanTargets(&out)...)
	if err == sql.ErrNoRows {
		return nil, errors.NewResourceNotFoundError("Interview", fmt.Sprintf("interviewId: %d", id))
	}
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("interview_update_status", err)
	}

	s.logger.Info("interview status updated", map[string]interface{}{
		"interviewId": out.ID,
		"status":      out.Status,
	})
	return &out, nil
}

func interviewScanTargets(iv *models.Interview) []interface{} {
	return []interface{}{
		&iv.ID, &iv.ApplicationID, &iv.JobID, &iv.ApplicantID, &iv.CompanyID, &iv.InterviewerID,
		&iv.ScheduledTime, &iv.DurationMinutes, &iv.Type, &iv.LocationURL, &iv.Status,
		&iv.Notes, &iv.CreatedAt,
	}
}
