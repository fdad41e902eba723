// internal/assessments/service.go
package assessments

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"recruitment-backend/internal/common/errors"
	"recruitment-backend/internal/common/logger"
	"recruitment-backend/internal/models"
)

// jobAssessmentSchema constrains the AI assessment payload. Producers send a
// summary, a score object, and two string lists; extra fields are allowed.
const jobAssessmentSchema = `{
	"type": "object",
	"required": ["summary", "score"],
	"properties": {
		"summary": {"type": "string", "minLength": 1},
		"score": {
			"type": "object",
			"required": ["overall"],
			"properties": {
				"overall": {"type": "number", "minimum": 0, "maximum": 100}
			}
		},
		"highlights": {"type": "array", "items": {"type": "string"}},
		"recommendations": {"type": "array", "items": {"type": "string"}}
	}
}`

type Service struct {
	db     *sql.DB
	schema *gojsonschema.Schema
	logger logger.Logger
}

func NewService(db *sql.DB, log logger.Logger) (*Service, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(jobAssessmentSchema))
	if err != nil {
		return nil, fmt.Errorf("compiling assessment schema: %w", err)
	}
	return &Service{
		db:     db,
		schema: schema,
		logger: log.WithFields(map[string]interface{}{"service": "assessments"}),
	}, nil
}

type PutJobAssessmentInput struct {
	ApplicantID int64           `json:"applicantId" binding:"required"`
	JobID       int64           `json:"jobId" binding:"required"`
	Version     string          `json:"version" binding:"required"`
	Data        json.RawMessage `json:"data" binding:"required"`
}

const jobAssessmentColumns = `id, applicant_id, job_id, version, data_json, created_at, updated_at`

// PutJobAssessment validates the payload and upserts the record for
// (applicant, job, version).
func (s *Service) PutJobAssessment(ctx context.Context, in *PutJobAssessmentInput) (*models.JobAssessment, error) {
	if err := s.validate(in.Data); err != nil {
		return nil, err
	}

	var out models.JobAssessment
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO job_assessment (applicant_id, job_id, version, data_json)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (applicant_id, job_id, version)
		DO UPDATE SET data_json = EXCLUDED.data_json, updated_at = NOW()
		RETURNING `+jobAssessmentColumns,
		in.ApplicantID, in.JobID, in.Version, string(in.Data),
	).Scan(jobAssessmentScanTargets(&out)...)
	if err != nil {
		return nil, errors.NewDatabaseInsertFailedError(err)
	}

	s.logger.Info("job assessment stored", map[string]interface{}{
		"applicantId": out.ApplicantID,
		"jobId":       out.JobID,
		"version":     out.Version,
	})
	return &out, nil
}

// LatestJobAssessment returns the record with the greatest version string
// for the pair. Versions compare lexicographically.
func (s *Service) LatestJobAssessment(ctx context.Context, applicantID, jobID int64) (*models.JobAssessment, error) {
	var out models.JobAssessment
	err := s.db.QueryRowContext(ctx, `
		SELECT `+jobAssessmentColumns+`
		FROM job_assessment
		WHERE applicant_id = $1 AND job_id = $2
		ORDER BY version DESC
		LIMIT 1`,
		applicantID, jobID,
	).Scan(jobAssessmentScanTargets(&out)...)
	if err == sql.ErrNoRows {
		return nil, errors.NewResourceNotFoundError("JobAssessment",
			fmt.Sprintf("applicantId: %d, jobId: %d", applicantID, jobID))
	}
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("job_assessment_latest", err)
	}
	return &out, nil
}

// ApplicationAssessmentFilter narrows ListApplicationAssessments. LatestOnly
// keeps only the greatest version per application.
type ApplicationAssessmentFilter struct {
	ApplicationID int64
	Version       string
	LatestOnly    bool
}

const applicationAssessmentColumns = `id, application_id, version, data_json, created_at, updated_at`

func (s *Service) ListApplicationAssessments(ctx context.Context, f ApplicationAssessmentFilter) ([]models.ApplicationAssessment, error) {
	conds := []string{}
	args := []interface{}{}
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.ApplicationID != 0 {
		conds = append(conds, "application_id = "+arg(f.ApplicationID))
	}
	if f.Version != "" {
		conds = append(conds, "version = "+arg(f.Version))
	}

	query := `SELECT ` + applicationAssessmentColumns + ` FROM application_assessment`
	if f.LatestOnly {
		query = `SELECT DISTINCT ON (application_id) ` + applicationAssessmentColumns + ` FROM application_assessment`
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	if f.LatestOnly {
		query += " ORDER BY application_id, version DESC"
	} else {
		query += " ORDER BY application_id, version"
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("application_assessment_list", err)
	}
	defer rows.Close()

	out := []models.ApplicationAssessment{}
	for rows.Next() {
		var a models.ApplicationAssessment
		var data string
		if err := rows.Scan(&a.ID, &a.ApplicationID, &a.Version, &data, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, errors.NewQueryExecutionFailedError("application_assessment_scan", err)
		}
		a.Data = json.RawMessage(data)
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewQueryExecutionFailedError("application_assessment_rows", err)
	}
	return out, nil
}

func (s *Service) validate(data json.RawMessage) error {
	if len(data) == 0 {
		return errors.NewAssessmentValidationFailedError("data must not be empty")
	}
	result, err := s.schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return errors.NewAssessmentValidationFailedError(err.Error())
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return errors.NewAssessmentValidationFailedError(strings.Join(msgs, "; "))
	}
	return nil
}

func jobAssessmentScanTargets(a *models.JobAssessment) []interface{} {
	return []interface{}{
		&a.ID, &a.ApplicantID, &a.JobID, &a.Version, (*rawJSON)(&a.Data), &a.CreatedAt, &a.UpdatedAt,
	}
}

// rawJSON lets database/sql scan a text column straight into json.RawMessage.
type rawJSON json.RawMessage

func (r *rawJSON) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*r = nil
	case string:
		*r = rawJSON(v)
	case []byte:
		buf := make([]byte, len(v))
		copy(buf, v)
		*r = rawJSON(buf)
	default:
		return fmt.Errorf("unsupported type %T for json column", src)
	}
	return nil
}
