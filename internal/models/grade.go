package models

import "time"

// Grade is one scored item of a course. Percentage is stored alongside
// Score/Total and is what the GPA engine reads.
type Grade struct {
	ID             int64     `db:"id" json:"id"`
	CourseID       int64     `db:"course_id" json:"course_id"`
	AssignmentType string    `db:"assignment_type" json:"assignment_type"`
	Weight         float64   `db:"weight" json:"weight"`
	Score          float64   `db:"score" json:"score"`
	Total          float64   `db:"total" json:"total"`
	Percentage     float64   `db:"percentage" json:"percentage"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// GradeFilter allows querying of grade entries.
type GradeFilter struct {
	CourseID int64
}

// CourseGradeSummary is the computed standing of one course. It is never
// persisted.
type CourseGradeSummary struct {
	CourseID    int64   `json:"course_id"`
	CourseName  string  `json:"course_name"`
	CourseCode  string  `json:"course_code"`
	Credits     int     `json:"credits"`
	Grade       float64 `json:"grade"`
	GradePoints float64 `json:"grade_points"`
	Letter      string  `json:"letter"`
}
