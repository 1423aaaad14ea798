package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/studyhub-api/internal/models"
	appErrors "github.com/noah-isme/studyhub-api/pkg/errors"
)

type assignmentRepository interface {
	List(ctx context.Context, filter models.AssignmentFilter) ([]models.Assignment, error)
	FindByID(ctx context.Context, id int64) (*models.Assignment, error)
	Create(ctx context.Context, a *models.Assignment) error
	Update(ctx context.Context, a *models.Assignment) error
	SetCompleted(ctx context.Context, id int64, completed bool) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

type courseFinder interface {
	FindByID(ctx context.Context, id int64) (*models.Course, error)
}

var assignmentStatuses = map[models.AssignmentStatus]struct{}{
	models.AssignmentDueToday:     {},
	models.AssignmentThisWeek:     {},
	models.AssignmentHighPriority: {},
	models.AssignmentCompleted:    {},
	models.AssignmentPending:      {},
	models.AssignmentOverdue:      {},
}

var assignmentSorts = map[string]struct{}{
	"":         {},
	"due_date": {},
	"priority": {},
	"title":    {},
	"status":   {},
	"course":   {},
}

// AssignmentRequest is the payload for creating or replacing an assignment.
type AssignmentRequest struct {
	CourseID    int64                     `json:"course_id" validate:"required,gt=0"`
	Title       string                    `json:"title" validate:"required,max=255"`
	Description string                    `json:"description" validate:"omitempty,max=4000"`
	DueDate     time.Time                 `json:"due_date" validate:"required"`
	Priority    models.AssignmentPriority `json:"priority" validate:"omitempty,oneof=high medium low"`
	Completed   *bool                     `json:"completed"`
}

// UnmarshalJSON accepts courseId as a spelling of course_id.
func (r *AssignmentRequest) UnmarshalJSON(data []byte) error {
	type alias AssignmentRequest
	legacy, err := decodeWithLegacyCourseID(data, (*alias)(r))
	if err != nil {
		return err
	}
	applyLegacyCourseID(&r.CourseID, legacy)
	return nil
}

// ParseAssignmentStatuses validates raw status filter values.
func ParseAssignmentStatuses(raw []string) ([]models.AssignmentStatus, error) {
	var statuses []models.AssignmentStatus
	for _, item := range raw {
		for _, part := range strings.Split(item, ",") {
			part = strings.TrimSpace(strings.ToLower(part))
			if part == "" || part == "all" {
				continue
			}
			status := models.AssignmentStatus(part)
			if _, ok := assignmentStatuses[status]; !ok {
				return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown assignment status %q", part))
			}
			statuses = append(statuses, status)
		}
	}
	return statuses, nil
}

// AssignmentService manages coursework and its completion state.
type AssignmentService struct {
	repo      assignmentRepository
	courses   courseFinder
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAssignmentService constructs an AssignmentService.
func NewAssignmentService(repo assignmentRepository, courses courseFinder, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *AssignmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssignmentService{repo: repo, courses: courses, cache: cache, validator: validate, logger: logger}
}

// List returns assignments matching every filter.
func (s *AssignmentService) List(ctx context.Context, filter models.AssignmentFilter) ([]models.Assignment, error) {
	if _, ok := assignmentSorts[filter.SortBy]; !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, "sort must be one of due_date, priority, title, status, course")
	}
	filter.Search = strings.TrimSpace(filter.Search)
	assignments, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list assignments")
	}
	return assignments, nil
}

// Get returns an assignment by id.
func (s *AssignmentService) Get(ctx context.Context, id int64) (*models.Assignment, error) {
	assignment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "assignment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assignment")
	}
	return assignment, nil
}

// Create stores a new, not yet completed assignment.
func (s *AssignmentService) Create(ctx context.Context, req AssignmentRequest) (*models.Assignment, error) {
	if err := s.validate(ctx, &req); err != nil {
		return nil, err
	}
	assignment := &models.Assignment{
		CourseID:    req.CourseID,
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate.UTC(),
		Priority:    req.Priority,
	}
	if err := s.repo.Create(ctx, assignment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create assignment")
	}
	invalidateDerived(ctx, s.cache, s.logger)
	return assignment, nil
}

// Update replaces an assignment.
func (s *AssignmentService) Update(ctx context.Context, id int64, req AssignmentRequest) (*models.Assignment, error) {
	if err := s.validate(ctx, &req); err != nil {
		return nil, err
	}
	assignment, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	assignment.CourseID = req.CourseID
	assignment.Title = req.Title
	assignment.Description = req.Description
	assignment.DueDate = req.DueDate.UTC()
	assignment.Priority = req.Priority
	if req.Completed != nil {
		assignment.Completed = *req.Completed
	}
	if err := s.repo.Update(ctx, assignment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update assignment")
	}
	invalidateDerived(ctx, s.cache, s.logger)
	return assignment, nil
}

// SetCompleted marks an assignment done or reopens it.
func (s *AssignmentService) SetCompleted(ctx context.Context, id int64, completed bool) (*models.Assignment, error) {
	ok, err := s.repo.SetCompleted(ctx, id, completed)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update assignment")
	}
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "assignment not found")
	}
	invalidateDerived(ctx, s.cache, s.logger)
	return s.Get(ctx, id)
}

// Delete removes an assignment.
func (s *AssignmentService) Delete(ctx context.Context, id int64) error {
	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete assignment")
	}
	if !ok {
		return appErrors.Clone(appErrors.ErrNotFound, "assignment not found")
	}
	invalidateDerived(ctx, s.cache, s.logger)
	return nil
}

func (s *AssignmentService) validate(ctx context.Context, req *AssignmentRequest) error {
	req.Title = strings.TrimSpace(req.Title)
	req.Priority = models.AssignmentPriority(strings.ToLower(string(req.Priority)))
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid assignment payload")
	}
	if req.Priority == "" {
		req.Priority = models.PriorityMedium
	}
	return ensureCourseExists(ctx, s.courses, req.CourseID)
}

func ensureCourseExists(ctx context.Context, courses courseFinder, id int64) error {
	if _, err := courses.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	return nil
}
