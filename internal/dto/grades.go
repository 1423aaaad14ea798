package dto

import (
	"time"

	"github.com/noah-isme/studyhub-api/internal/models"
)

// GPAOverview is the per-course standing of every course plus the
// credit-weighted cumulative GPA.
type GPAOverview struct {
	Courses       []models.CourseGradeSummary `json:"courses"`
	GPA           float64                     `json:"gpa"`
	TotalCredits  int                         `json:"total_credits"`
	GradedCourses int                         `json:"graded_courses"`
	GeneratedAt   time.Time                   `json:"generated_at"`
}

// Transcript is a rendered transcript document ready for download.
type Transcript struct {
	Filename    string
	ContentType string
	Content     []byte
}
