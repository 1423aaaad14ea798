package dto

import (
	"time"

	"github.com/noah-isme/studyhub-api/internal/models"
)

// DashboardResponse captures the aggregated home dashboard payload.
type DashboardResponse struct {
	TotalCourses         int                 `json:"total_courses"`
	TotalAssignments     int                 `json:"total_assignments"`
	CompletedAssignments int                 `json:"completed_assignments"`
	UpcomingDeadlines    int                 `json:"upcoming_deadlines"`
	CompletionRate       float64             `json:"completion_rate"`
	GPA                  float64             `json:"gpa"`
	Upcoming             []UpcomingDeadline  `json:"upcoming"`
	Today                []TodayScheduleItem `json:"today"`
	GeneratedAt          time.Time           `json:"generated_at"`
}

// UpcomingDeadline is a pending assignment shown on the dashboard.
type UpcomingDeadline struct {
	AssignmentID int64                     `json:"assignment_id"`
	CourseID     int64                     `json:"course_id"`
	CourseCode   string                    `json:"course_code,omitempty"`
	Title        string                    `json:"title"`
	DueDate      time.Time                 `json:"due_date"`
	Priority     models.AssignmentPriority `json:"priority"`
}

// TodayScheduleItem is one class meeting happening today.
type TodayScheduleItem struct {
	ScheduleID int64               `json:"schedule_id"`
	CourseID   int64               `json:"course_id"`
	CourseName string              `json:"course_name,omitempty"`
	CourseCode string              `json:"course_code,omitempty"`
	StartTime  string              `json:"start_time"`
	EndTime    string              `json:"end_time"`
	Room       string              `json:"room"`
	Type       models.ScheduleType `json:"type"`
}
