// internal/server/handlers.go
package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"recruitment-backend/internal/applicants"
	"recruitment-backend/internal/applications"
	"recruitment-backend/internal/assessments"
	"recruitment-backend/internal/common/errors"
	"recruitment-backend/internal/companies"
	"recruitment-backend/internal/interviews"
	"recruitment-backend/internal/jobs"
)

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(c, errors.NewInvalidInputError("id must be a positive integer"))
		return 0, false
	}
	return id, true
}

func queryInt(c *gin.Context, name string) int {
	v, _ := strconv.Atoi(c.Query(name))
	return v
}

func queryInt64(c *gin.Context, name string) int64 {
	v, _ := strconv.ParseInt(c.Query(name), 10, 64)
	return v
}

// ---- applicants ----

func (s *Server) createApplicant(c *gin.Context) {
	var in applicants.CreateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondError(c, errors.NewInvalidInputError(err.Error()))
		return
	}
	out, err := s.svc.Applicants.Create(c.Request.Context(), &in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, out)
}

func (s *Server) listApplicants(c *gin.Context) {
	out, err := s.svc.Applicants.List(c.Request.Context(), applicants.Filter{
		Q:               c.Query("q"),
		DesiredRole:     c.Query("desiredRole"),
		DesiredLocation: c.Query("desiredLocation"),
		Limit:           queryInt(c, "limit"),
		Offset:          queryInt(c, "offset"),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) getApplicant(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	out, err := s.svc.Applicants.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) getApplicantsByIDs(c *gin.Context) {
	raw := c.Query("applicantIds")
	if raw == "" {
		respondError(c, errors.NewInvalidInputError("applicantIds is required"))
		return
	}
	parts := strings.Split(raw, ",")
	ids := make([]int64, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
		if err != nil || id <= 0 {
			respondError(c, errors.NewInvalidInputError("applicantIds must be a comma separated list of positive integers"))
			return
		}
		ids = append(ids, id)
	}
	out, err := s.svc.Applicants.GetByIDs(c.Request.Context(), ids)
	if err != nil {
		respondError(c, err)
		return
	}
	if len(out) == 0 {
		respondError(c, errors.NewResourceNotFoundError("Applicant", "no applicants found for the given IDs"))
		return
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) recommendJobs(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	out, err := s.svc.Recommender.Recommend(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) listApplicantApplications(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	out, err := s.svc.Applications.ListByApplicant(c.Request.Context(), id,
		queryInt(c, "limit"), queryInt(c, "offset"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// ---- jobs ----

func (s *Server) createJob(c *gin.Context) {
	var in jobs.CreateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondError(c, errors.NewInvalidInputError(err.Error()))
		return
	}
	out, err := s.svc.Jobs.Create(c.Request.Context(), &in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, out)
}

func (s *Server) listJobs(c *gin.Context) {
	out, err := s.svc.Jobs.List(c.Request.Context(), jobs.Filter{
		Q:        c.Query("q"),
		Role:     c.Query("role"),
		Location: c.Query("location"),
		Status:   c.Query("status"),
		Limit:    queryInt(c, "limit"),
		Offset:   queryInt(c, "offset"),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) getJob(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	out, err := s.svc.Jobs.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// ---- companies ----

func (s *Server) createCompany(c *gin.Context) {
	var in companies.CreateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondError(c, errors.NewInvalidInputError(err.Error()))
		return
	}
	out, err := s.svc.Companies.Create(c.Request.Context(), &in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, out)
}

func (s *Server) listCompanies(c *gin.Context) {
	out, err := s.svc.Companies.List(c.Request.Context(), companies.Filter{
		Q:        c.Query("q"),
		Location: c.Query("location"),
		Limit:    queryInt(c, "limit"),
		Offset:   queryInt(c, "offset"),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) getCompany(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	out, err := s.svc.Companies.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// ---- applications ----

func (s *Server) createApplication(c *gin.Context) {
	var in applications.CreateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondError(c, errors.NewInvalidInputError(err.Error()))
		return
	}
	out, err := s.svc.Applications.Create(c.Request.Context(), &in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, out)
}

func (s *Server) getApplication(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	out, err := s.svc.Applications.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

type statusPatch struct {
	Status string `json:"status" binding:"required"`
}

func (s *Server) updateApplicationStatus(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var in statusPatch
	if err := c.ShouldBindJSON(&in); err != nil {
		respondError(c, errors.NewInvalidInputError(err.Error()))
		return
	}
	out, err := s.svc.Applications.UpdateStatus(c.Request.Context(), id, in.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// ---- assessments ----

func (s *Server) putJobAssessment(c *gin.Context) {
	var in assessments.PutJobAssessmentInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondError(c, errors.NewInvalidInputError(err.Error()))
		return
	}
	out, err := s.svc.Assessments.PutJobAssessment(c.Request.Context(), &in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, out)
}

func (s *Server) latestJobAssessment(c *gin.Context) {
	applicantID := queryInt64(c, "applicantId")
	jobID := queryInt64(c, "jobId")
	if applicantID <= 0 || jobID <= 0 {
		respondError(c, errors.NewInvalidInputError("applicantId and jobId are required"))
		return
	}
	out, err := s.svc.Assessments.LatestJobAssessment(c.Request.Context(), applicantID, jobID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) listApplicationAssessments(c *gin.Context) {
	out, err := s.svc.Assessments.ListApplicationAssessments(c.Request.Context(), assessments.ApplicationAssessmentFilter{
		ApplicationID: queryInt64(c, "applicationId"),
		Version:       c.Query("version"),
		LatestOnly:    c.Query("latest") == "true",
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// ---- interviews ----

func (s *Server) createInterview(c *gin.Context) {
	var in interviews.CreateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondError(c, errors.NewInvalidInputError(err.Error()))
		return
	}
	out, err := s.svc.Interviews.Create(c.Request.Context(), &in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, out)
}

func (s *Server) listInterviews(c *gin.Context) {
	out, err := s.svc.Interviews.List(c.Request.Context(), interviews.Filter{
		ApplicantID: queryInt64(c, "applicantId"),
		JobID:       queryInt64(c, "jobId"),
		CompanyID:   queryInt64(c, "companyId"),
		Status:      c.Query("status"),
		Limit:       queryInt(c, "limit"),
		Offset:      queryInt(c, "offset"),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) getInterview(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	out, err := s.svc.Interviews.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) updateInterviewStatus(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var in statusPatch
	if err := c.ShouldBindJSON(&in); err != nil {
		respondError(c, errors.NewInvalidInputError(err.Error()))
		return
	}
	out, err := s.svc.Interviews.UpdateStatus(c.Request.Context(), id, in.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}
