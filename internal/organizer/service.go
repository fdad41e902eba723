// internal/organizer/service.go
package organizer

import (
	"context"
	"database/sql"
	"encoding/json"
	"math"
	"time"

	"github.com/redis/go-redis/v9"

	"recruitment-backend/internal/common/config"
	"recruitment-backend/internal/common/database"
	"recruitment-backend/internal/common/errors"
	"recruitment-backend/internal/common/logger"
	"recruitment-backend/internal/common/metrics"
	"recruitment-backend/internal/models"
)

const statsCacheKey = "dashboard:core_stats"

// Service computes the organizer dashboard views. Every view reads committed
// rows only; an empty database yields zero-filled structs and empty slices.
type Service struct {
	db     *sql.DB
	cache  *database.RedisClient
	cfg    config.DashboardConfig
	logger logger.Logger
}

func NewService(db *sql.DB, cache *database.RedisClient, cfg config.DashboardConfig, log logger.Logger) *Service {
	return &Service{
		db:     db,
		cache:  cache,
		cfg:    cfg,
		logger: log.WithFields(map[string]interface{}{"service": "organizer"}),
	}
}

func (s *Service) queryContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.cfg.QueryTimeout > 0 {
		return context.WithTimeout(ctx, config.GetDuration(s.cfg.QueryTimeout))
	}
	return ctx, func() {}
}

// CoreStats returns the headline counters. The result is cached briefly in
// Redis; cache failures fall through to SQL.
func (s *Service) CoreStats(ctx context.Context) (*models.CoreStats, error) {
	if s.cache != nil {
		raw, err := s.cache.Get(ctx, statsCacheKey)
		switch {
		case err == nil:
			var cached models.CoreStats
			if jsonErr := json.Unmarshal([]byte(raw), &cached); jsonErr == nil {
				metrics.CacheLookups.WithLabelValues("dashboard_stats", "hit").Inc()
				return &cached, nil
			}
			metrics.CacheLookups.WithLabelValues("dashboard_stats", "error").Inc()
		case err == redis.Nil:
			metrics.CacheLookups.WithLabelValues("dashboard_stats", "miss").Inc()
		default:
			metrics.CacheLookups.WithLabelValues("dashboard_stats", "error").Inc()
		}
	}

	ctx, cancel := s.queryContext(ctx)
	defer cancel()

	timer := time.Now()
	defer func() {
		metrics.DashboardQueryDuration.WithLabelValues("core_stats").Observe(time.Since(timer).Seconds())
	}()

	var stats models.CoreStats
	var accepted int64
	err := s.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM applicant),
			(SELECT COUNT(*) FROM company),
			(SELECT COUNT(*) FROM application),
			(SELECT COUNT(*) FROM interviews),
			(SELECT COUNT(*) FROM job WHERE status = 'active'),
			(SELECT COUNT(*) FROM application WHERE status = 'accepted')`,
	).Scan(&stats.TotalStudents, &stats.TotalCompanies, &stats.TotalApplications,
		&stats.TotalInterviews, &stats.ActiveJobs, &accepted)
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("dashboard_core_stats", err)
	}

	if stats.TotalApplications > 0 {
		rate := float64(accepted) / float64(stats.TotalApplications) * 100
		stats.PlacementRate = math.Round(rate*100) / 100
	}

	if s.cache != nil {
		if raw, err := json.Marshal(&stats); err == nil {
			ttl := config.GetDuration(s.cfg.StatsCacheTTL)
			if setErr := s.cache.Set(ctx, statsCacheKey, string(raw), ttl); setErr != nil {
				s.logger.Warn("stats cache write failed", map[string]interface{}{
					"error": setErr.Error(),
				})
			}
		}
	}
	return &stats, nil
}

// DailyTrends returns per-day application and interview counts over the
// trailing window, newest day first. Interviews are grouped under the day
// their application was created, so an interview always lands on the same
// row as its application.
func (s *Service) DailyTrends(ctx context.Context, limit int) ([]models.TrendPoint, error) {
	if limit <= 0 {
		limit = s.cfg.DefaultTrendDays
	}
	if limit > s.cfg.TrendWindowDays {
		limit = s.cfg.TrendWindowDays
	}

	ctx, cancel := s.queryContext(ctx)
	defer cancel()

	timer := time.Now()
	defer func() {
		metrics.DashboardQueryDuration.WithLabelValues("daily_trends").Observe(time.Since(timer).Seconds())
	}()

	rows, err := s.db.QueryContext(ctx, `
		SELECT to_char(a.created_at AT TIME ZONE 'UTC', 'YYYY-MM-DD') AS day_label,
		       COUNT(DISTINCT a.id) AS applications,
		       COUNT(i.id) AS interviews
		FROM application a
		LEFT JOIN interviews i ON i.application_id = a.id
		WHERE a.created_at >= NOW() - $1 * INTERVAL '1 day'
		GROUP BY day_label
		ORDER BY day_label DESC
		LIMIT $2`,
		s.cfg.TrendWindowDays, limit)
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("dashboard_daily_trends", err)
	}
	defer rows.Close()

	out := []models.TrendPoint{}
	for rows.Next() {
		var p models.TrendPoint
		if err := rows.Scan(&p.DayLabel, &p.Applications, &p.Interviews); err != nil {
			return nil, errors.NewQueryExecutionFailedError("dashboard_trends_scan", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewQueryExecutionFailedError("dashboard_trends_rows", err)
	}
	return out, nil
}

// CompanyLeaderboard ranks companies by application volume, interviews as
// the tiebreak. Companies with no applications do not appear.
func (s *Service) CompanyLeaderboard(ctx context.Context, top int) ([]models.LeaderboardEntry, error) {
	if top <= 0 {
		top = s.cfg.DefaultLeaderTop
	}

	ctx, cancel := s.queryContext(ctx)
	defer cancel()

	timer := time.Now()
	defer func() {
		metrics.DashboardQueryDuration.WithLabelValues("company_leaderboard").Observe(time.Since(timer).Seconds())
	}()

	rows, err := s.db.QueryContext(ctx, `
		SELECT c.name,
		       COUNT(DISTINCT a.id) AS applications,
		       COUNT(DISTINCT i.id) AS interviews,
		       COUNT(DISTINCT a.id) FILTER (WHERE a.status = 'accepted') AS placements
		FROM company c
		INNER JOIN job j ON j.company_id = c.id
		INNER JOIN application a ON a.job_id = j.id
		LEFT JOIN interviews i ON i.application_id = a.id
		GROUP BY c.id, c.name
		ORDER BY applications DESC, interviews DESC
		LIMIT $1`,
		top)
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("dashboard_leaderboard", err)
	}
	defer rows.Close()

	out := []models.LeaderboardEntry{}
	for rows.Next() {
		var e models.LeaderboardEntry
		if err := rows.Scan(&e.CompanyName, &e.Applications, &e.Interviews, &e.Placements); err != nil {
			return nil, errors.NewQueryExecutionFailedError("dashboard_leaderboard_scan", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewQueryExecutionFailedError("dashboard_leaderboard_rows", err)
	}
	return out, nil
}

// StatusCounts returns the application status distribution. Order is
// whatever the store yields.
func (s *Service) StatusCounts(ctx context.Context) ([]models.StatusCount, error) {
	ctx, cancel := s.queryContext(ctx)
	defer cancel()

	timer := time.Now()
	defer func() {
		metrics.DashboardQueryDuration.WithLabelValues("status_counts").Observe(time.Since(timer).Seconds())
	}()

	rows, err := s.db.QueryContext(ctx,
		`SELECT status, COUNT(*) FROM application GROUP BY status`)
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("dashboard_status_counts", err)
	}
	defer rows.Close()

	out := []models.StatusCount{}
	for rows.Next() {
		var c models.StatusCount
		if err := rows.Scan(&c.Status, &c.Count); err != nil {
			return nil, errors.NewQueryExecutionFailedError("dashboard_status_scan", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewQueryExecutionFailedError("dashboard_status_rows", err)
	}
	return out, nil
}
