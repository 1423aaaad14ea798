package models

import "time"

// ScheduleType distinguishes kinds of class meetings.
type ScheduleType string

const (
	ScheduleLecture  ScheduleType = "lecture"
	ScheduleLab      ScheduleType = "lab"
	ScheduleTutorial ScheduleType = "tutorial"
)

// Schedule is one weekly meeting block of a course. Times are HH:MM.
type Schedule struct {
	ID        int64        `db:"id" json:"id"`
	CourseID  int64        `db:"course_id" json:"course_id"`
	DayOfWeek int          `db:"day_of_week" json:"day_of_week"`
	StartTime string       `db:"start_time" json:"start_time"`
	EndTime   string       `db:"end_time" json:"end_time"`
	Room      string       `db:"room" json:"room"`
	Type      ScheduleType `db:"type" json:"type"`
	CreatedAt time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt time.Time    `db:"updated_at" json:"updated_at"`
}

// ScheduleFilter narrows schedule listings.
type ScheduleFilter struct {
	CourseID  int64
	DayOfWeek *int
}
