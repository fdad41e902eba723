// internal/applicants/service.go
package applicants

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
		logger: log.WithFields(map[string]interface{}{"service": "applicants"}),
	}
}

type CreateInput struct {
	Name            string `json:"name" binding:"required"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	DesiredRole     string `json:"desiredRole" binding:"required"`
	DesiredLocation string `json:"desiredLocation"`
	SkillTags       string `json:"skillTags"`
	University      string `json:"university"`
	Major           string `json:"major"`
	Year            string `json:"year"`
}

// Filter narrows List results. Q is a fuzzy match over name/email/skill_tags.
type Filter struct {
	Q               string
	DesiredRole     string
	DesiredLocation string
	Limit           int
	Offset          int
}

const applicantColumns = `id, name, email, phone, desired_role, desired_location, skill_tags, university, major, year, created_at`

func (s *Service) Create(ctx context.Context, in *CreateInput) (*models.Applicant, error) {
	var out models.Applicant
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO applicant (name, email, phone, desired_role, desired_location, skill_tags, university, major, year)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+applicantColumns,
		in.Name, in.Email, in.Phone, in.DesiredRole, in.DesiredLocation,
		in.SkillTags, in.University, in.Major, in.Year,
	).Scan(scanTargets(&out)...)
	if err != nil {
		return nil, errors.NewDatabaseInsertFailedError(err)
	}

	s.logger.Info("applicant created", map[string]interface{}{
		"applicantId": out.ID,
		"desiredRole": out.DesiredRole,
	})
	return &out, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*models.Applicant, error) {
	var out models.Applicant
	err := s.db.QueryRowContext(ctx,
		`SELECT `+applicantColumns+` FROM applicant WHERE id = $1`, id,
	).Scan(scanTargets(&out)...)
	if err == sql.ErrNoRows {
		return nil, errors.NewResourceNotFoundError("Applicant", fmt.Sprintf("applicantId: %d", id))
	}
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("applicant_get", err)
	}
	return &out, nil
}

func (s *Service) List(ctx context.Context, f Filter) ([]models.Applicant, error) {
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

	if f.DesiredRole != "" {
		conds = append(conds, "desired_role = "+arg(f.DesiredRole))
	}
	if f.DesiredLocation != "" {
		conds = append(conds, "desired_location = "+arg(f.DesiredLocation))
	}
	if f.Q != "" {
		like := arg("%" + f.Q + "%")
		conds = append(conds, fmt.Sprintf("(name LIKE %s OR email LIKE %s OR skill_tags LIKE %s)", like, like, like))
	}

	query := `SELECT ` + applicantColumns + ` FROM applicant`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC OFFSET %s LIMIT %s", arg(f.Offset), arg(f.Limit))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("applicant_list", err)
	}
	defer rows.Close()

	return collect(rows)
}

// GetByIDs returns the applicants matching the given IDs, in store order.
func (s *Service) GetByIDs(ctx context.Context, ids []int64) ([]models.Applicant, error) {
	if len(ids) == 0 {
		return []models.Applicant{}, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}

	query := `SELECT ` + applicantColumns + ` FROM applicant WHERE id IN (` + strings.Join(placeholders, ",") + `)`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("applicant_by_ids", err)
	}
	defer rows.Close()

	return collect(rows)
}

func scanTargets(a *models.Applicant) []interface{} {
	return []interface{}{
		&a.ID, &a.Name, &a.Email, &a.Phone, &a.DesiredRole, &a.DesiredLocation,
		&a.SkillTags, &a.University, &a.Major, &a.Year, &a.CreatedAt,
	}
}

func collect(rows *sql.Rows) ([]models.Applicant, error) {
	out := []models.Applicant{}
	for rows.Next() {
		var a models.Applicant
		if err := rows.Scan(scanTargets(&a)...); err != nil {
			return nil, errors.NewQueryExecutionFailedError("applicant_scan", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewQueryExecutionFailedError("applicant_rows", err)
	}
	return out, nil
}
