package models

import "time"

// AssignmentPriority ranks how urgent an assignment is.
type AssignmentPriority string

const (
	PriorityHigh   AssignmentPriority = "high"
	PriorityMedium AssignmentPriority = "medium"
	PriorityLow    AssignmentPriority = "low"
)

// Rank orders priorities high to low; unknown values sort last.
func (p AssignmentPriority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	case PriorityLow:
		return 2
	default:
		return 3
	}
}

// AssignmentStatus names the quick filters offered by the assignment list.
type AssignmentStatus string

const (
	AssignmentDueToday     AssignmentStatus = "due-today"
	AssignmentThisWeek     AssignmentStatus = "this-week"
	AssignmentHighPriority AssignmentStatus = "high-priority"
	AssignmentCompleted    AssignmentStatus = "completed"
	AssignmentPending      AssignmentStatus = "pending"
	AssignmentOverdue      AssignmentStatus = "overdue"
)

// Assignment is a piece of coursework with a deadline.
type Assignment struct {
	ID          int64              `db:"id" json:"id"`
	CourseID    int64              `db:"course_id" json:"course_id"`
	Title       string             `db:"title" json:"title"`
	Description string             `db:"description" json:"description"`
	DueDate     time.Time          `db:"due_date" json:"due_date"`
	Priority    AssignmentPriority `db:"priority" json:"priority"`
	Completed   bool               `db:"completed" json:"completed"`
	CreatedAt   time.Time          `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `db:"updated_at" json:"updated_at"`
}

// AssignmentFilter narrows assignment listings. Every status must hold.
type AssignmentFilter struct {
	CourseID int64
	Search   string
	Statuses []AssignmentStatus
	SortBy   string
}
