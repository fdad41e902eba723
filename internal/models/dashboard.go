// internal/models/dashboard.go
package models

// CoreStats is the organizer dashboard headline view. PlacementRate is a
// percentage in [0,100] rounded to two decimals; zero when there are no
// applications.
type CoreStats struct {
	TotalStudents     int64   `json:"total_students"`
	TotalCompanies    int64   `json:"total_companies"`
	TotalApplications int64   `json:"total_applications"`
	TotalInterviews   int64   `json:"total_interviews"`
	ActiveJobs        int64   `json:"active_jobs"`
	PlacementRate     float64 `json:"placement_rate"`
}

// TrendPoint is one day of the application/interview trend series.
// DayLabel is a UTC calendar day formatted YYYY-MM-DD.
type TrendPoint struct {
	DayLabel     string `json:"day_label"`
	Applications int64  `json:"applications"`
	Interviews   int64  `json:"interviews"`
}

// LeaderboardEntry is one company row of the activity leaderboard.
type LeaderboardEntry struct {
	CompanyName  string `json:"company_name"`
	Applications int64  `json:"applications"`
	Interviews   int64  `json:"interviews"`
	Placements   int64  `json:"placements"`
}

// StatusCount is one row of the application status distribution.
type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// RecommendedJob is a job summary with the computed match score attached.
type RecommendedJob struct {
	Job
	MatchScore int `json:"matchScore"`
}
