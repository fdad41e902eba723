// internal/server/server.go
package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"recruitment-backend/internal/applicants"
	"recruitment-backend/internal/applications"
	"recruitment-backend/internal/assessments"
	"recruitment-backend/internal/common/config"
	"recruitment-backend/internal/common/logger"
	"recruitment-backend/internal/common/observability"
	"recruitment-backend/internal/companies"
	"recruitment-backend/internal/interviews"
	"recruitment-backend/internal/jobs"
	"recruitment-backend/internal/organizer"
)

// Services bundles the domain services the HTTP layer exposes.
type Services struct {
	Applicants   *applicants.Service
	Jobs         *jobs.Service
	Recommender  *jobs.Recommender
	Companies    *companies.Service
	Applications *applications.Service
	Assessments  *assessments.Service
	Interviews   *interviews.Service
	Organizer    *organizer.Service
}

type Server struct {
	engine *gin.Engine
	http   *http.Server
	svc    Services
	logger logger.Logger
}

func New(cfg config.ServerConfig, svc Services, obs *observability.Observability, log logger.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery(), RequestID(), RequestLogger(log), Instrument(obs))

	s := &Server{
		engine: engine,
		svc:    svc,
		logger: log.WithFields(map[string]interface{}{"component": "http"}),
		http: &http.Server{
			Addr:         cfg.Addr(),
			Handler:      engine,
			ReadTimeout:  config.GetDuration(cfg.ReadTimeout),
			WriteTimeout: config.GetDuration(cfg.WriteTimeout),
		},
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	s.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := s.engine.Group("/api/v1")

	v1.POST("/applicants", s.createApplicant)
	v1.GET("/applicants", s.listApplicants)
	v1.GET("/applicants/by-ids", s.getApplicantsByIDs)
	v1.GET("/applicants/:id", s.getApplicant)
	v1.GET("/applicants/:id/recommendations", s.recommendJobs)
	v1.GET("/applicants/:id/applications", s.listApplicantApplications)

	v1.POST("/jobs", s.createJob)
	v1.GET("/jobs", s.listJobs)
	v1.GET("/jobs/:id", s.getJob)

	v1.POST("/companies", s.createCompany)
	v1.GET("/companies", s.listCompanies)
	v1.GET("/companies/:id", s.getCompany)

	v1.POST("/applications", s.createApplication)
	v1.GET("/applications/:id", s.getApplication)
	v1.PATCH("/applications/:id/status", s.updateApplicationStatus)

	v1.POST("/job-assessments", s.putJobAssessment)
	v1.GET("/job-assessments/latest", s.latestJobAssessment)
	v1.GET("/application-assessments", s.listApplicationAssessments)

	v1.POST("/interviews", s.createInterview)
	v1.GET("/interviews", s.listInterviews)
	v1.GET("/interviews/:id", s.getInterview)
	v1.PATCH("/interviews/:id/status", s.updateInterviewStatus)

	org := v1.Group("/organizer")
	org.GET("/stats", s.coreStats)
	org.GET("/trends", s.dailyTrends)
	org.GET("/leaderboard", s.companyLeaderboard)
	org.GET("/status-counts", s.statusCounts)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) Start() error {
	s.logger.Info("http server listening", map[string]interface{}{"addr": s.http.Addr})
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
