// internal/companies/service.go
package companies

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
		logger: log.WithFields(map[string]interface{}{"service": "companies"}),
	}
}

type CreateInput struct {
	Name     string `json:"name" binding:"required"`
	Industry string `json:"industry"`
	Location string `json:"location"`
	Website  string `json:"website"`
}

// Filter narrows List results. Q is a fuzzy match over name/industry/location.
type Filter struct {
	Q        string
	Location string
	Limit    int
	Offset   int
}

const companyColumns = `id, name, industry, location, website, created_at`

func (s *Service) Create(ctx context.Context, in *CreateInput) (*models.Company, error) {
	var out models.Company
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO company (name, industry, location, website)
		VALUES ($1, $2, $3, $4)
		RETURNING `+companyColumns,
		in.Name, in.Industry, in.Location, in.Website,
	).Scan(&out.ID, &out.Name, &out.Industry, &out.Location, &out.Website, &out.CreatedAt)
	if err != nil {
		return nil, errors.NewDatabaseInsertFailedError(err)
	}

	s.logger.Info("company created", map[string]interface{}{"companyId": out.ID, "name": out.Name})
	return &out, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*models.Company, error) {
	var out models.Company
	err := s.db.QueryRowContext(ctx,
		`SELECT `+companyColumns+` FROM company WHERE id = $1`, id,
	).Scan(&out.ID, &out.Name, &out.Industry, &out.Location, &out.Website, &out.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, errors.NewResourceNotFoundError("Company", fmt.Sprintf("companyId: %d", id))
	}
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("company_get", err)
	}
	return &out, nil
}

func (s *Service) List(ctx context.Context, f Filter) ([]models.Company, error) {
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

	if f.Location != "" {
		conds = append(conds, "location = "+arg(f.Location))
	}
	if f.Q != "" {
		like := arg("%" + f.Q + "%")
		conds = append(conds, fmt.Sprintf("(name LIKE %s OR industry LIKE %s OR location LIKE %s)", like, like, like))
	}

	query := `SELECT ` + companyColumns + ` FROM company`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += fmt.Sprintf(" ORDER BY name ASC OFFSET %s LIMIT %s", arg(f.Offset), arg(f.Limit))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("company_list", err)
	}
	defer rows.Close()

	out := []models.Company{}
	for rows.Next() {
		var c models.Company
		if err := rows.Scan(&c.ID, &c.Name, &c.Industry, &c.Location, &c.Website, &c.CreatedAt); err != nil {
			return nil, errors.NewQueryExecutionFailedError("company_scan", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewQueryExecutionFailedError("company_rows", err)
	}
	return out, nil
}
