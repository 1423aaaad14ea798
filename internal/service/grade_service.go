package service

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/studyhub-api/internal/dto"
	"github.com/noah-isme/studyhub-api/internal/gpa"
	"github.com/noah-isme/studyhub-api/internal/models"
	appErrors "github.com/noah-isme/studyhub-api/pkg/errors"
)

const gradesOverviewCacheKey = "grades:overview"

type gradeRepo interface {
	List(ctx context.Context, filter models.GradeFilter) ([]models.Grade, error)
	FindByID(ctx context.Context, id int64) (*models.Grade, error)
	Create(ctx context.Context, grade *models.Grade) error
	Update(ctx context.Context, grade *models.Grade) error
	Delete(ctx context.Context, id int64) (bool, error)
}

type courseLister interface {
	FindByID(ctx context.Context, id int64) (*models.Course, error)
	ListAll(ctx context.Context) ([]models.Course, error)
}

// GradeRequest is the payload for recording or replacing a grade. Score and
// Weight are pointers so an explicit zero passes the required check.
type GradeRequest struct {
	CourseID       int64    `json:"course_id" validate:"required,gt=0"`
	AssignmentType string   `json:"assignment_type" validate:"required,max=64"`
	Weight         *float64 `json:"weight" validate:"required,gte=0"`
	Score          *float64 `json:"score" validate:"required,gte=0"`
	Total          float64  `json:"total" validate:"required,gt=0"`
}

// UnmarshalJSON accepts courseId as a spelling of course_id.
func (r *GradeRequest) UnmarshalJSON(data []byte) error {
	type alias GradeRequest
	legacy, err := decodeWithLegacyCourseID(data, (*alias)(r))
	if err != nil {
		return err
	}
	applyLegacyCourseID(&r.CourseID, legacy)
	return nil
}

// GradeServiceConfig tunes overview caching.
type GradeServiceConfig struct {
	CacheEnabled bool
	CacheTTL     time.Duration
}

// GradeService records grades and derives per-course standings and GPA.
type GradeService struct {
	grades    gradeRepo
	courses   courseLister
	cache     *CacheService
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	cfg       GradeServiceConfig
	now       func() time.Time
}

// NewGradeService constructs GradeService.
func NewGradeService(grades gradeRepo, courses courseLister, cache *CacheService, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger, cfg GradeServiceConfig) *GradeService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GradeService{
		grades:    grades,
		courses:   courses,
		cache:     cache,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
		cfg:       cfg,
		now:       time.Now,
	}
}

// List returns grade entries.
func (s *GradeService) List(ctx context.Context, filter models.GradeFilter) ([]models.Grade, error) {
	grades, err := s.grades.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list grades")
	}
	return grades, nil
}

// Get returns a single grade.
func (s *GradeService) Get(ctx context.Context, id int64) (*models.Grade, error) {
	grade, err := s.grades.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "grade not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load grade")
	}
	return grade, nil
}

// Create records a new grade for an existing course.
func (s *GradeService) Create(ctx context.Context, req GradeRequest) (*models.Grade, error) {
	if err := s.validate(ctx, &req); err != nil {
		return nil, err
	}
	grade := &models.Grade{CourseID: req.CourseID}
	applyGradeRequest(grade, req)
	if err := s.grades.Create(ctx, grade); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create grade")
	}
	invalidateDerived(ctx, s.cache, s.logger)
	return grade, nil
}

// Update replaces a grade entry.
func (s *GradeService) Update(ctx context.Context, id int64, req GradeRequest) (*models.Grade, error) {
	if err := s.validate(ctx, &req); err != nil {
		return nil, err
	}
	grade, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	grade.CourseID = req.CourseID
	applyGradeRequest(grade, req)
	if err := s.grades.Update(ctx, grade); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update grade")
	}
	invalidateDerived(ctx, s.cache, s.logger)
	return grade, nil
}

// Delete removes a grade entry.
func (s *GradeService) Delete(ctx context.Context, id int64) error {
	ok, err := s.grades.Delete(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete grade")
	}
	if !ok {
		return appErrors.Clone(appErrors.ErrNotFound, "grade not found")
	}
	invalidateDerived(ctx, s.cache, s.logger)
	return nil
}

// Overview aggregates every course's grades into summaries and the cumulative
// GPA. The boolean reports whether the result came from cache.
func (s *GradeService) Overview(ctx context.Context) (*dto.GPAOverview, bool, error) {
	useCache := s.cfg.CacheEnabled && s.cache.Enabled()
	if useCache {
		var cached dto.GPAOverview
		hit, err := s.cache.Get(ctx, gradesOverviewCacheKey, &cached)
		if err != nil {
			s.logger.Warn("grade overview cache unavailable", zap.Error(err))
		} else if hit {
			return &cached, true, nil
		}
	}

	start := time.Now()
	courses, err := s.courses.ListAll(ctx)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load courses")
	}
	grades, err := s.grades.List(ctx, models.GradeFilter{})
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load grades")
	}
	s.metrics.ObserveDBQuery("grades_overview", time.Since(start))

	start = time.Now()
	summaries := gpa.AggregateCourses(courses, grades)
	overview := &dto.GPAOverview{
		Courses:       summaries,
		GPA:           gpa.CumulativeGPA(summaries),
		TotalCredits:  gpa.TotalCredits(summaries),
		GradedCourses: gradedCourseCount(courses, grades),
		GeneratedAt:   s.now().UTC(),
	}
	s.metrics.ObserveGPAAggregation(len(summaries), time.Since(start))

	if useCache {
		_ = s.cache.Set(ctx, gradesOverviewCacheKey, overview, s.cfg.CacheTTL)
	}
	return overview, false, nil
}

func (s *GradeService) validate(ctx context.Context, req *GradeRequest) error {
	req.AssignmentType = strings.TrimSpace(req.AssignmentType)
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid grade payload")
	}
	return ensureCourseExists(ctx, s.courses, req.CourseID)
}

func applyGradeRequest(grade *models.Grade, req GradeRequest) {
	grade.AssignmentType = req.AssignmentType
	grade.Weight = *req.Weight
	grade.Score = *req.Score
	grade.Total = req.Total
	grade.Percentage = percentage(*req.Score, req.Total)
}

// percentage derives the stored percentage, rounded to two decimals.
func percentage(score, total float64) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(score/total*100*100) / 100
}

func gradedCourseCount(courses []models.Course, grades []models.Grade) int {
	graded := make(map[int64]struct{}, len(courses))
	for _, g := range grades {
		graded[g.CourseID] = struct{}{}
	}
	count := 0
	for _, c := range courses {
		if _, ok := graded[c.ID]; ok {
			count++
		}
	}
	return count
}
