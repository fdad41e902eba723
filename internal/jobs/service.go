// internal/jobs/service.go
package jobs

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"recruitment-backend/internal/common/errors"
	"recruitment-backend/internal/common/logger"
	"recruitment-backend/internal/models"
)

type Service struct {
	db     *sql.DB
	logger logger.Logger
}

func NewService(db *sql.DB, log logger.Logger) *Service {
	return &Service{
		db:     db,
		logger: log.WithFields(map[string]interface{}{"service": "jobs"}),
	}
}

type CreateInput struct {
	CompanyID      int64  `json:"companyId" binding:"required"`
	Title          string `json:"title" binding:"required"`
	Description    string `json:"description"`
	Role           string `json:"role" binding:"required"`
	Location       string `json:"location"`
	EmploymentType string `json:"employmentType"`
	SkillTags      string `json:"skillTags"`
	Salary         string `json:"salary"`
	Status         string `json:"status"`
}

type Filter struct {
	Q        string
	Role     string
	Location string
	Status   string
	Limit    int
	Offset   int
}

// joined with company so list/get responses carry the company name.
const jobSelect = `
	SELECT j.id, j.company_id, COALESCE(c.name, ''), j.title, j.description, j.role,
	       j.location, j.employment_type, j.skill_tags, j.salary, j.status, j.created_at
	FROM job j
	LEFT JOIN company c ON c.id = j.company_id`

func (s *Service) Create(ctx context.Context, in *CreateInput) (*models.Job, error) {
	if in.Status == "" {
		in.Status = "active"
	}

	var id int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO job (company_id, title, description, role, location, employment_type, skill_tags, salary, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`,
		in.CompanyID, in.Title, in.Description, in.Role, in.Location,
		in.EmploymentType, in.SkillTags, in.Salary, in.Status,
	).Scan(&id)
	if err != nil {
		return nil, errors.NewDatabaseInsertFailedError(err)
	}

	s.logger.Info("job created", map[string]interface{}{
		"jobId":     id,
		"companyId": in.CompanyID,
		"role":      in.Role,
	})
	return s.Get(ctx, id)
}

func (s *Service) Get(ctx context.Context, id int64) (*models.Job, error) {
	var j models.Job
	err := s.db.QueryRowContext(ctx, jobSelect+` WHERE j.id = $1`, id).Scan(jobScanTargets(&j)...)
	if err == sql.ErrNoRows {
		return nil, errors.NewResourceNotFoundError("Job", fmt.Sprintf("jobId: %d", id))
	}
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("job_get", err)
	}
	return &j, nil
}

func (s *Service) List(ctx context.Context, f Filter) ([]models.Job, error) {
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

	if f.Role != "" {
		conds = append(conds, "j.role = "+arg(f.Role))
	}
	if f.Location != "" {
		conds = append(conds, "j.location = "+arg(f.Location))
	}
	if f.Status != "" {
		conds = append(conds, "j.status = "+arg(f.Status))
	}
	if f.Q != "" {
		like := arg("%" + f.Q + "%")
		conds = append(conds, fmt.Sprintf("(j.title LIKE %s OR j.skill_tags LIKE %s)", like, like))
	}

	query := jobSelect
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += fmt.Sprintf(" ORDER BY j.created_at DESC OFFSET %s LIMIT %s", arg(f.Offset), arg(f.Limit))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("job_list", err)
	}
	defer rows.Close()

	out := []models.Job{}
	for rows.Next() {
		var j models.Job
		if err := rows.Scan(jobScanTargets(&j)...); err != nil {
			return nil, errors.NewQueryExecutionFailedError("job_scan", err)
		}
		out = append(out, j)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewQueryExecutionFailedError("job_rows", err)
	}
	return out, nil
}

func jobScanTargets(j *models.Job) []interface{} {
	return []interface{}{
		&j.ID, &j.CompanyID, &j.CompanyName, &j.Title, &j.Description, &j.Role,
		&j.Location, &j.EmploymentType, &j.SkillTags, &j.Salary, &j.Status, &j.CreatedAt,
	}
}
