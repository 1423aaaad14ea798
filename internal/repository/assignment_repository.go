package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/studyhub-api/internal/models"
)

const assignmentColumns = "id, course_id, title, description, due_date, priority, completed, created_at, updated_at"

// joined list queries qualify every column with the assignments alias
const assignmentListColumns = "a.id, a.course_id, a.title, a.description, a.due_date, a.priority, a.completed, a.created_at, a.updated_at"

// AssignmentRepository handles persistence for assignments.
type AssignmentRepository struct {
	db  *sqlx.DB
	now func() time.Time
}

// NewAssignmentRepository creates a new repository instance.
func NewAssignmentRepository(db *sqlx.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db, now: time.Now}
}

// List returns assignments satisfying every status in the filter.
func (r *AssignmentRepository) List(ctx context.Context, filter models.AssignmentFilter) ([]models.Assignment, error) {
	var conditions []string
	var args []interface{}
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.CourseID > 0 {
		conditions = append(conditions, "a.course_id = "+arg(filter.CourseID))
	}
	if filter.Search != "" {
		p := arg(containsPattern(filter.Search))
		conditions = append(conditions, fmt.Sprintf(`(LOWER(a.title) LIKE %[1]s ESCAPE '\' OR LOWER(a.description) LIKE %[1]s ESCAPE '\' OR LOWER(c.code) LIKE %[1]s ESCAPE '\' OR LOWER(c.name) LIKE %[1]s ESCAPE '\')`, p))
	}

	now := r.now().UTC()
	for _, status := range filter.Statuses {
		switch status {
		case models.AssignmentDueToday:
			start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
			conditions = append(conditions, fmt.Sprintf("a.due_date >= %s AND a.due_date < %s", arg(start), arg(start.AddDate(0, 0, 1))))
		case models.AssignmentThisWeek:
			conditions = append(conditions, fmt.Sprintf("a.due_date >= %s AND a.due_date <= %s", arg(now), arg(now.AddDate(0, 0, 7))))
		case models.AssignmentHighPriority:
			conditions = append(conditions, "a.priority = "+arg(string(models.PriorityHigh)))
		case models.AssignmentCompleted:
			conditions = append(conditions, "a.completed = TRUE")
		case models.AssignmentPending:
			conditions = append(conditions, "a.completed = FALSE")
		case models.AssignmentOverdue:
			conditions = append(conditions, fmt.Sprintf("a.due_date < %s AND a.completed = FALSE", arg(now)))
		}
	}

	query := fmt.Sprintf("SELECT %s FROM assignments a JOIN courses c ON c.id = a.course_id", assignmentListColumns)
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY " + assignmentOrder(filter.SortBy)

	var assignments []models.Assignment
	if err := r.db.SelectContext(ctx, &assignments, query, args...); err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	return assignments, nil
}

func assignmentOrder(sortBy string) string {
	switch sortBy {
	case "priority":
		return "CASE a.priority WHEN 'high' THEN 0 WHEN 'medium' THEN 1 WHEN 'low' THEN 2 ELSE 3 END ASC, a.due_date ASC, a.id ASC"
	case "title":
		return "LOWER(a.title) ASC, a.id ASC"
	case "status":
		return "a.completed ASC, a.due_date ASC, a.id ASC"
	case "course":
		return "LOWER(c.code) ASC, a.due_date ASC, a.id ASC"
	default:
		return "a.due_date ASC, a.id ASC"
	}
}

// FindByID returns an assignment by id.
func (r *AssignmentRepository) FindByID(ctx context.Context, id int64) (*models.Assignment, error) {
	query := fmt.Sprintf("SELECT %s FROM assignments WHERE id = $1", assignmentColumns)
	var assignment models.Assignment
	if err := r.db.GetContext(ctx, &assignment, query, id); err != nil {
		return nil, err
	}
	return &assignment, nil
}

// Create persists a new assignment and assigns its id.
func (r *AssignmentRepository) Create(ctx context.Context, a *models.Assignment) error {
	now := time.Now().UTC()
	a.CreatedAt = now
	a.UpdatedAt = now
	const query = `INSERT INTO assignments (course_id, title, description, due_date, priority, completed, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
	if err := r.db.QueryRowxContext(ctx, query,
		a.CourseID, a.Title, a.Description, a.DueDate, a.Priority, a.Completed, a.CreatedAt, a.UpdatedAt,
	).Scan(&a.ID); err != nil {
		return fmt.Errorf("create assignment: %w", err)
	}
	return nil
}

// Update modifies an assignment.
func (r *AssignmentRepository) Update(ctx context.Context, a *models.Assignment) error {
	a.UpdatedAt = time.Now().UTC()
	const query = `UPDATE assignments SET course_id = :course_id, title = :title, description = :description, due_date = :due_date,
        priority = :priority, completed = :completed, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, a); err != nil {
		return fmt.Errorf("update assignment: %w", err)
	}
	return nil
}

// SetCompleted toggles completion and reports whether the row exists.
func (r *AssignmentRepository) SetCompleted(ctx context.Context, id int64, completed bool) (bool, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE assignments SET completed = $1, updated_at = $2 WHERE id = $3`, completed, time.Now().UTC(), id)
	if err != nil {
		return false, fmt.Errorf("set assignment completion: %w", err)
	}
	return affected(res)
}

// Delete removes an assignment and reports whether it existed.
func (r *AssignmentRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM assignments WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete assignment: %w", err)
	}
	return affected(res)
}
