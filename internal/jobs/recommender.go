// internal/jobs/recommender.go
package jobs

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/redis/go-redis/v9"

	"recruitment-backend/internal/common/config"
	"recruitment-backend/internal/common/database"
	"recruitment-backend/internal/common/errors"
	"recruitment-backend/internal/common/logger"
	"recruitment-backend/internal/common/metrics"
	"recruitment-backend/internal/matching"
	"recruitment-backend/internal/models"
)

// Recommender scores open jobs against an applicant's profile and returns
// the best matches. The applicant profile is cached in Redis; any cache
// failure falls through to the database.
type Recommender struct {
	db     *sql.DB
	cache  *database.RedisClient
	cfg    config.MatchingConfig
	logger logger.Logger
}

func NewRecommender(db *sql.DB, cache *database.RedisClient, cfg config.MatchingConfig, log logger.Logger) *Recommender {
	return &Recommender{
		db:     db,
		cache:  cache,
		cfg:    cfg,
		logger: log.WithFields(map[string]interface{}{"service": "recommender"}),
	}
}

// profile is the slice of the applicant record the scorer needs.
type profile struct {
	ID              int64  `json:"id"`
	DesiredRole     string `json:"desiredRole"`
	DesiredLocation string `json:"desiredLocation"`
	SkillTags       string `json:"skillTags"`
}

func profileCacheKey(applicantID int64) string {
	return fmt.Sprintf("applicant:profile:%d", applicantID)
}

// Recommend returns up to cfg.MaxResults jobs for the applicant, best match
// first. An unknown applicant yields an empty slice, not an error.
func (r *Recommender) Recommend(ctx context.Context, applicantID int64) ([]models.RecommendedJob, error) {
	p, ok, err := r.loadProfile(ctx, applicantID)
	if err != nil {
		return nil, err
	}
	if !ok {
		r.logger.Info("recommendation for unknown applicant", map[string]interface{}{
			"applicantId": applicantID,
		})
		return []models.RecommendedJob{}, nil
	}

	candidates, err := r.loadCandidates(ctx, p)
	if err != nil {
		return nil, err
	}

	out := make([]models.RecommendedJob, 0, len(candidates))
	for _, job := range candidates {
		same := matching.SameLocation(p.DesiredLocation, job.Location)
		score := matching.Score(p.SkillTags, job.SkillTags, same)
		metrics.MatchScoresComputed.Inc()
		out = append(out, models.RecommendedJob{Job: job, MatchScore: score})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].MatchScore != out[j].MatchScore {
			return out[i].MatchScore > out[j].MatchScore
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})

	if len(out) > r.cfg.MaxResults {
		out = out[:r.cfg.MaxResults]
	}

	metrics.RecommendationsServed.Inc()
	return out, nil
}

func (r *Recommender) loadProfile(ctx context.Context, applicantID int64) (profile, bool, error) {
	key := profileCacheKey(applicantID)

	if r.cache != nil {
		raw, err := r.cache.Get(ctx, key)
		switch {
		case err == nil:
			var p profile
			if jsonErr := json.Unmarshal([]byte(raw), &p); jsonErr == nil {
				metrics.CacheLookups.WithLabelValues("applicant_profile", "hit").Inc()
				return p, true, nil
			}
			metrics.CacheLookups.WithLabelValues("applicant_profile", "error").Inc()
		case err == redis.Nil:
			metrics.CacheLookups.WithLabelValues("applicant_profile", "miss").Inc()
		default:
			metrics.CacheLookups.WithLabelValues("applicant_profile", "error").Inc()
			r.logger.Warn("profile cache read failed", map[string]interface{}{
				"applicantId": applicantID,
				"error":       err.Error(),
			})
		}
	}

	var p profile
	err := r.db.QueryRowContext(ctx,
		`SELECT id, desired_role, desired_location, skill_tags FROM applicant WHERE id = $1`,
		applicantID,
	).Scan(&p.ID, &p.DesiredRole, &p.DesiredLocation, &p.SkillTags)
	if err == sql.ErrNoRows {
		return profile{}, false, nil
	}
	if err != nil {
		return profile{}, false, errors.NewQueryExecutionFailedError("recommender_profile", err)
	}

	if r.cache != nil {
		if raw, err := json.Marshal(p); err == nil {
			ttl := config.GetDuration(r.cfg.ProfileCacheTTL)
			if setErr := r.cache.Set(ctx, key, string(raw), ttl); setErr != nil {
				r.logger.Warn("profile cache write failed", map[string]interface{}{
					"applicantId": applicantID,
					"error":       setErr.Error(),
				})
			}
		}
	}
	return p, true, nil
}

func (r *Recommender) loadCandidates(ctx context.Context, p profile) ([]models.Job, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if p.DesiredLocation != "" {
		rows, err = r.db.QueryContext(ctx, jobSelect+`
			WHERE j.role = $1 AND (j.location = $2 OR j.location = $3)
			ORDER BY j.created_at DESC
			LIMIT $4`,
			p.DesiredRole, p.DesiredLocation, matching.RemoteLocation, r.cfg.CandidateLimit)
	} else {
		rows, err = r.db.QueryContext(ctx, jobSelect+`
			WHERE j.role = $1
			ORDER BY j.created_at DESC
			LIMIT $2`,
			p.DesiredRole, r.cfg.CandidateLimit)
	}
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("recommender_candidates", err)
	}
	defer rows.Close()

	out := []models.Job{}
	for rows.Next() {
		var j models.Job
		if err := rows.Scan(jobScanTargets(&j)...); err != nil {
			return nil, errors.NewQueryExecutionFailedError("recommender_scan", err)
		}
		out = append(out, j)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewQueryExecutionFailedError("recommender_rows", err)
	}
	return out, nil
}
