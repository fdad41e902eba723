// internal/server/dashboard_handlers.go
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) coreStats(c *gin.Context) {
	out, err := s.svc.Organizer.CoreStats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) dailyTrends(c *gin.Context) {
	out, err := s.svc.Organizer.DailyTrends(c.Request.Context(), queryInt(c, "days"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) companyLeaderboard(c *gin.Context) {
	out, err := s.svc.Organizer.CompanyLeaderboard(c.Request.Context(), queryInt(c, "top"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) statusCounts(c *gin.Context) {
	out, err := s.svc.Organizer.StatusCounts(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}
