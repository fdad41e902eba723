// internal/models/recruitment.go
package models

import (
	"encoding/json"
	"time"
)

// Company is a hiring organization. Jobs reference it by company_id as a
// logical association, not a database-level foreign key.
type Company struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Website   string    `json:"website,omitempty"`
	Industry  string    `json:"industry,omitempty"`
	Size      string    `json:"size,omitempty"`
	Location  string    `json:"location,omitempty"`
	LogoURL   string    `json:"logoUrl,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Job is a posting. SkillTags is a free-text comma-separated string;
// normalization happens in the matching package.
type Job struct {
	ID             int64     `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description,omitempty"`
	Role           string    `json:"role"`
	Location       string    `json:"location,omitempty"`
	EmploymentType string    `json:"employmentType,omitempty"`
	SkillTags      string    `json:"skillTags,omitempty"`
	Salary         string    `json:"salary,omitempty"`
	Status         string    `json:"status"`
	CompanyID      int64     `json:"companyId,omitempty"`
	CompanyName    string    `json:"companyName,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

type Applicant struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	Email           string    `json:"email,omitempty"`
	Phone           string    `json:"phone,omitempty"`
	DesiredRole     string    `json:"desiredRole"`
	DesiredLocation string    `json:"desiredLocation,omitempty"`
	SkillTags       string    `json:"skillTags,omitempty"`
	University      string    `json:"university,omitempty"`
	Major           string    `json:"major,omitempty"`
	Year            string    `json:"year,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}

// Application links an applicant to a job. Status is a free-form string;
// "accepted" marks a placement.
type Application struct {
	ID              int64     `json:"id"`
	ApplicantID     int64     `json:"applicantId"`
	JobID           int64     `json:"jobId"`
	CompanyID       int64     `json:"companyId,omitempty"`
	JobAssessmentID int64     `json:"jobAssessmentId,omitempty"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// JobAssessment is a versioned AI assessment blob keyed by (applicant, job).
// The latest record for a pair is the one with the greatest version string.
type JobAssessment struct {
	ID          int64           `json:"id"`
	ApplicantID int64           `json:"applicantId"`
	JobID       int64           `json:"jobId"`
	Version     string          `json:"version"`
	Data        json.RawMessage `json:"data"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// ApplicationAssessment is a versioned assessment attached to an application.
type ApplicationAssessment struct {
	ID            int64           `json:"id"`
	ApplicationID int64           `json:"applicationId"`
	Version       string          `json:"version"`
	Data          json.RawMessage `json:"data"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// Interview status values.
const (
	InterviewStatusPending   = "Pending"
	InterviewStatusConfirmed = "Confirmed"
	InterviewStatusCancelled = "Cancelled"
	InterviewStatusCompleted = "Completed"
)

// ValidInterviewStatus reports whether s is one of the allowed statuses.
func ValidInterviewStatus(s string) bool {
	switch s {
	case InterviewStatusPending, InterviewStatusConfirmed, InterviewStatusCancelled, InterviewStatusCompleted:
		return true
	}
	return false
}

type Interview struct {
	ID              int64     `json:"id"`
	ApplicationID   int64     `json:"applicationId"`
	JobID           int64     `json:"jobId"`
	ApplicantID     int64     `json:"applicantId"`
	CompanyID       int64     `json:"companyId"`
	InterviewerID   int64     `json:"interviewerId,omitempty"`
	ScheduledTime   time.Time `json:"scheduledTime"`
	DurationMinutes int       `json:"durationMinutes,omitempty"`
	Type            string    `json:"type"`
	LocationURL     string    `json:"locationUrl,omitempty"`
	Status          string    `json:"status"`
	Notes           string    `json:"notes,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}
