package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/studyhub-api/internal/models"
	appErrors "github.com/noah-isme/studyhub-api/pkg/errors"
)

type courseRepository interface {
	List(ctx context.Context, filter models.CourseFilter) ([]models.Course, int, error)
	FindByID(ctx context.Context, id int64) (*models.Course, error)
	ExistsByCode(ctx context.Context, code string, excludeID int64) (bool, error)
	Create(ctx context.Context, course *models.Course) error
	Update(ctx context.Context, course *models.Course) error
	SetEnrolled(ctx context.Context, id int64, enrolled bool) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

// CreateCourseRequest is the payload for adding a course.
type CreateCourseRequest struct {
	Name      string `json:"name" validate:"required,max=255"`
	Code      string `json:"code" validate:"required,max=32"`
	Credits   int    `json:"credits" validate:"required,min=1,max=12"`
	Professor string `json:"professor" validate:"omitempty,max=255"`
	Room      string `json:"room" validate:"omitempty,max=64"`
	Color     string `json:"color" validate:"omitempty,hexcolor"`
	Semester  string `json:"semester" validate:"omitempty,max=64"`
	Enrolled  *bool  `json:"enrolled"`
}

// UpdateCourseRequest replaces the editable fields of a course.
type UpdateCourseRequest struct {
	Name      string `json:"name" validate:"required,max=255"`
	Code      string `json:"code" validate:"required,max=32"`
	Credits   int    `json:"credits" validate:"required,min=1,max=12"`
	Professor string `json:"professor" validate:"omitempty,max=255"`
	Room      string `json:"room" validate:"omitempty,max=64"`
	Color     string `json:"color" validate:"omitempty,hexcolor"`
	Semester  string `json:"semester" validate:"omitempty,max=64"`
	Enrolled  *bool  `json:"enrolled"`
}

// CourseService manages the course catalogue and enrolment state.
type CourseService struct {
	repo      courseRepository
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCourseService constructs a CourseService.
func NewCourseService(repo courseRepository, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *CourseService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseService{repo: repo, cache: cache, validator: validate, logger: logger}
}

// List returns courses with pagination metadata.
func (s *CourseService) List(ctx context.Context, filter models.CourseFilter) ([]models.Course, *models.Pagination, error) {
	courses, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list courses")
	}
	page := filter.Page
	if page <= 0 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	if size > 100 {
		size = 100
	}
	return courses, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Get returns a course by id.
func (s *CourseService) Get(ctx context.Context, id int64) (*models.Course, error) {
	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	return course, nil
}

// Create validates and stores a new course. New courses are enrolled unless
// the payload says otherwise.
func (s *CourseService) Create(ctx context.Context, req CreateCourseRequest) (*models.Course, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Code = strings.TrimSpace(req.Code)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}
	if err := s.ensureUniqueCode(ctx, req.Code, 0); err != nil {
		return nil, err
	}
	course := &models.Course{
		Name:      req.Name,
		Code:      req.Code,
		Credits:   req.Credits,
		Professor: strings.TrimSpace(req.Professor),
		Room:      strings.TrimSpace(req.Room),
		Color:     req.Color,
		Semester:  strings.TrimSpace(req.Semester),
		Enrolled:  true,
	}
	if req.Enrolled != nil {
		course.Enrolled = *req.Enrolled
	}
	if err := s.repo.Create(ctx, course); err != nil {
		if errors.Is(err, appErrors.ErrConflict) {
			return nil, err
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create course")
	}
	invalidateDerived(ctx, s.cache, s.logger)
	return course, nil
}

// Update replaces course details.
func (s *CourseService) Update(ctx context.Context, id int64, req UpdateCourseRequest) (*models.Course, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Code = strings.TrimSpace(req.Code)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}
	course, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(course.Code, req.Code) {
		if err := s.ensureUniqueCode(ctx, req.Code, id); err != nil {
			return nil, err
		}
	}
	course.Name = req.Name
	course.Code = req.Code
	course.Credits = req.Credits
	course.Professor = strings.TrimSpace(req.Professor)
	course.Room = strings.TrimSpace(req.Room)
	course.Color = req.Color
	course.Semester = strings.TrimSpace(req.Semester)
	if req.Enrolled != nil {
		course.Enrolled = *req.Enrolled
	}
	if err := s.repo.Update(ctx, course); err != nil {
		if errors.Is(err, appErrors.ErrConflict) {
			return nil, err
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update course")
	}
	invalidateDerived(ctx, s.cache, s.logger)
	return course, nil
}

// SetEnrolled enrols in or drops a course.
func (s *CourseService) SetEnrolled(ctx context.Context, id int64, enrolled bool) (*models.Course, error) {
	ok, err := s.repo.SetEnrolled(ctx, id, enrolled)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update enrolment")
	}
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
	}
	invalidateDerived(ctx, s.cache, s.logger)
	return s.Get(ctx, id)
}

// Delete removes a course together with its grades, assignments and schedule.
func (s *CourseService) Delete(ctx context.Context, id int64) error {
	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete course")
	}
	if !ok {
		return appErrors.Clone(appErrors.ErrNotFound, "course not found")
	}
	s.logger.Info("course deleted", zap.Int64("course_id", id))
	invalidateDerived(ctx, s.cache, s.logger)
	return nil
}

func (s *CourseService) ensureUniqueCode(ctx context.Context, code string, excludeID int64) error {
	exists, err := s.repo.ExistsByCode(ctx, code, excludeID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check course code")
	}
	if exists {
		return appErrors.Clone(appErrors.ErrConflict, "course code already exists")
	}
	return nil
}
