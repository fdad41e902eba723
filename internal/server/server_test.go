package server

import (
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recruitment-backend/internal/applicants"
	"recruitment-backend/internal/applications"
	"recruitment-backend/internal/assessments"
	"recruitment-backend/internal/common/config"
	"recruitment-backend/internal/common/database"
	"recruitment-backend/internal/common/logger"
	"recruitment-backend/internal/companies"
	"recruitment-backend/internal/interviews"
	"recruitment-backend/internal/jobs"
	"recruitment-backend/internal/organizer"
)

func setupServer(t *testing.T) (*Server, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	mr := miniredis.RunT(t)
	cache := &database.RedisClient{Client: redis.NewClient(&redis.Options{Addr: mr.Addr()})}
	log := logger.NewTestLogger(t)

	assessmentSvc, err := assessments.NewService(db, log)
	require.NoError(t, err)

	svc := Services{
		Applicants: applicants.NewService(db, log),
		Jobs:       jobs.NewService(db, log),
		Recommender: jobs.NewRecommender(db, cache,
			config.MatchingConfig{CandidateLimit: 200, MaxResults: 50, ProfileCacheTTL: 600000}, log),
		Companies:    companies.NewService(db, log),
		Applications: applications.NewService(db, log),
		Assessments:  assessmentSvc,
		Interviews:   interviews.NewService(db, nil, log),
		Organizer: organizer.NewService(db, cache,
			config.DashboardConfig{StatsCacheTTL: 30000, TrendWindowDays: 30, DefaultTrendDays: 14, DefaultLeaderTop: 10}, log),
	}

	return New(config.ServerConfig{Host: "127.0.0.1", Port: 0}, svc, nil, log), mock
}

func doRequest(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	s, _ := setupServer(t)

	rec := doRequest(t, s, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ok"`)
}

func TestMetricsEndpoint(t *testing.T) {
	s, _ := setupServer(t)

	rec := doRequest(t, s, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequestIDHeaderIsSet(t *testing.T) {
	s, _ := setupServer(t)

	rec := doRequest(t, s, http.MethodGet, "/healthz", "")
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestCreateApplicant_BadJSON(t *testing.T) {
	s, _ := setupServer(t)

	rec := doRequest(t, s, http.MethodPost, "/api/v1/applicants", `{"name":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_INPUT")
}

func TestGetApplicant_NotFoundMapsTo404(t *testing.T) {
	s, mock := setupServer(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM applicant WHERE id = $1")).
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "name", "email", "phone", "desired_role", "desired_location",
			"skill_tags", "university", "major", "year", "created_at",
		}))

	rec := doRequest(t, s, http.MethodGet, "/api/v1/applicants/42", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "RESOURCE_NOT_FOUND")
}

func TestGetApplicant_BadID(t *testing.T) {
	s, _ := setupServer(t)

	rec := doRequest(t, s, http.MethodGet, "/api/v1/applicants/abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetApplicantsByIDs(t *testing.T) {
	s, mock := setupServer(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM applicant WHERE id IN ($1,$2)")).
		WithArgs(int64(1), int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "name", "email", "phone", "desired_role", "desired_location",
			"skill_tags", "university", "major", "year", "created_at",
		}).AddRow(int64(1), "Ada", "ada@example.com", "", "Backend Engineer", "", "go", "", "", "", time.Now()).
			AddRow(int64(2), "Lin", "lin@example.com", "", "Data Analyst", "", "sql", "", "", "", time.Now()))

	rec := doRequest(t, s, http.MethodGet, "/api/v1/applicants/by-ids?applicantIds=1,2", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"Ada"`)
	assert.Contains(t, rec.Body.String(), `"Lin"`)
}

func TestGetApplicantsByIDs_BadFormat(t *testing.T) {
	s, _ := setupServer(t)

	rec := doRequest(t, s, http.MethodGet, "/api/v1/applicants/by-ids?applicantIds=1,abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_INPUT")
}

func TestGetApplicantsByIDs_NoneFoundMapsTo404(t *testing.T) {
	s, mock := setupServer(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM applicant WHERE id IN ($1)")).
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "name", "email", "phone", "desired_role", "desired_location",
			"skill_tags", "university", "major", "year", "created_at",
		}))

	rec := doRequest(t, s, http.MethodGet, "/api/v1/applicants/by-ids?applicantIds=99", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListCompanies_FiltersPassThrough(t *testing.T) {
	s, mock := setupServer(t)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE location = $1 AND (name LIKE $2 OR industry LIKE $2 OR location LIKE $2) ORDER BY name ASC OFFSET $3 LIMIT $4")).
		WithArgs("Berlin", "%acme%", int64(0), int64(10)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "industry", "location", "website", "created_at"}).
			AddRow(int64(1), "Acme", "Logistics", "Berlin", "", time.Now()))

	rec := doRequest(t, s, http.MethodGet, "/api/v1/companies?q=acme&location=Berlin&limit=10", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"Acme"`)
}

func TestCreateApplication_DuplicateMapsTo409(t *testing.T) {
	s, mock := setupServer(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM application")).
		WithArgs(int64(1), int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(9)))

	rec := doRequest(t, s, http.MethodPost, "/api/v1/applications",
		`{"applicantId": 1, "jobId": 2}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "DUPLICATE_APPLICATION")
}

func TestUpdateInterviewStatus_InvalidStatusMapsTo400(t *testing.T) {
	s, _ := setupServer(t)

	rec := doRequest(t, s, http.MethodPatch, "/api/v1/interviews/5/status",
		`{"status": "Ghosted"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_STATUS")
}

func TestCoreStatsEndpoint(t *testing.T) {
	s, mock := setupServer(t)

	mock.ExpectQuery("SELECT").
		WillReturnRows(sqlmock.NewRows([]string{
			"applicants", "companies", "applications", "interviews", "active_jobs", "accepted",
		}).AddRow(int64(10), int64(2), int64(20), int64(5), int64(3), int64(4)))

	rec := doRequest(t, s, http.MethodGet, "/api/v1/organizer/stats", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"total_students":10`)
	assert.Contains(t, rec.Body.String(), `"placement_rate":20`)
}

func TestRecommendationsEndpoint(t *testing.T) {
	s, mock := setupServer(t)
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("FROM applicant WHERE id = $1")).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "desired_role", "desired_location", "skill_tags"}).
			AddRow(int64(1), "Backend Engineer", "", "go, sql"))
	mock.ExpectQuery(regexp.QuoteMeta("WHERE j.role = $1")).
		WithArgs("Backend Engineer", int64(200)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "company_id", "name", "title", "description", "role",
			"location", "employment_type", "skill_tags", "salary", "status", "created_at",
		}).AddRow(int64(7), int64(1), "Acme", "Backend", "", "Backend Engineer",
			"Berlin", "", "go, sql", "", "active", base))

	rec := doRequest(t, s, http.MethodGet, "/api/v1/applicants/1/recommendations", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"matchScore":100`)
}

func TestStoreDownMapsTo503(t *testing.T) {
	s, mock := setupServer(t)

	mock.ExpectQuery("FROM application").
		WillReturnError(assert.AnError)

	rec := doRequest(t, s, http.MethodGet, "/api/v1/organizer/status-counts", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), `"retryable":true`)
}
