package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/studyhub-api/internal/models"
	appErrors "github.com/noah-isme/studyhub-api/pkg/errors"
)

const clockLayout = "15:04"

type scheduleRepository interface {
	List(ctx context.Context, filter models.ScheduleFilter) ([]models.Schedule, error)
	FindByID(ctx context.Context, id int64) (*models.Schedule, error)
	Create(ctx context.Context, s *models.Schedule) error
	Update(ctx context.Context, s *models.Schedule) error
	Delete(ctx context.Context, id int64) (bool, error)
}

// ScheduleRequest is the payload for a weekly class meeting.
type ScheduleRequest struct {
	CourseID  int64               `json:"course_id" validate:"required,gt=0"`
	DayOfWeek *int                `json:"day_of_week" validate:"required,min=0,max=6"`
	StartTime string              `json:"start_time" validate:"required"`
	EndTime   string              `json:"end_time" validate:"required"`
	Room      string              `json:"room" validate:"omitempty,max=64"`
	Type      models.ScheduleType `json:"type" validate:"omitempty,oneof=lecture lab tutorial"`
}

// UnmarshalJSON accepts courseId as a spelling of course_id.
func (r *ScheduleRequest) UnmarshalJSON(data []byte) error {
	type alias ScheduleRequest
	legacy, err := decodeWithLegacyCourseID(data, (*alias)(r))
	if err != nil {
		return err
	}
	applyLegacyCourseID(&r.CourseID, legacy)
	return nil
}

// ScheduleService manages the weekly class timetable.
type ScheduleService struct {
	repo      scheduleRepository
	courses   courseFinder
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewScheduleService constructs a ScheduleService.
func NewScheduleService(repo scheduleRepository, courses courseFinder, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *ScheduleService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleService{repo: repo, courses: courses, cache: cache, validator: validate, logger: logger, now: time.Now}
}

// List returns schedule blocks ordered by day and start time.
func (s *ScheduleService) List(ctx context.Context, filter models.ScheduleFilter) ([]models.Schedule, error) {
	if filter.DayOfWeek != nil && (*filter.DayOfWeek < 0 || *filter.DayOfWeek > 6) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "day must be between 0 (Sunday) and 6 (Saturday)")
	}
	schedules, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list schedules")
	}
	return schedules, nil
}

// Today returns the blocks meeting on the current UTC weekday, the same day
// boundary the due-today assignment filter uses.
func (s *ScheduleService) Today(ctx context.Context) ([]models.Schedule, error) {
	day := int(s.now().UTC().Weekday())
	return s.List(ctx, models.ScheduleFilter{DayOfWeek: &day})
}

// Get returns a schedule block by id.
func (s *ScheduleService) Get(ctx context.Context, id int64) (*models.Schedule, error) {
	schedule, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "schedule not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule")
	}
	return schedule, nil
}

// Create stores a new schedule block.
func (s *ScheduleService) Create(ctx context.Context, req ScheduleRequest) (*models.Schedule, error) {
	if err := s.validate(ctx, &req); err != nil {
		return nil, err
	}
	schedule := &models.Schedule{}
	applyScheduleRequest(schedule, req)
	if err := s.repo.Create(ctx, schedule); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create schedule")
	}
	invalidateDerived(ctx, s.cache, s.logger)
	return schedule, nil
}

// Update replaces a schedule block.
func (s *ScheduleService) Update(ctx context.Context, id int64, req ScheduleRequest) (*models.Schedule, error) {
	if err := s.validate(ctx, &req); err != nil {
		return nil, err
	}
	schedule, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	applyScheduleRequest(schedule, req)
	if err := s.repo.Update(ctx, schedule); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update schedule")
	}
	invalidateDerived(ctx, s.cache, s.logger)
	return schedule, nil
}

// Delete removes a schedule block.
func (s *ScheduleService) Delete(ctx context.Context, id int64) error {
	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete schedule")
	}
	if !ok {
		return appErrors.Clone(appErrors.ErrNotFound, "schedule not found")
	}
	invalidateDerived(ctx, s.cache, s.logger)
	return nil
}

func (s *ScheduleService) validate(ctx context.Context, req *ScheduleRequest) error {
	req.Type = models.ScheduleType(strings.ToLower(strings.TrimSpace(string(req.Type))))
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule payload")
	}
	start, err := time.Parse(clockLayout, strings.TrimSpace(req.StartTime))
	if err != nil {
		return appErrors.Clone(appErrors.ErrValidation, "start_time must be HH:MM")
	}
	end, err := time.Parse(clockLayout, strings.TrimSpace(req.EndTime))
	if err != nil {
		return appErrors.Clone(appErrors.ErrValidation, "end_time must be HH:MM")
	}
	if !start.Before(end) {
		return appErrors.Clone(appErrors.ErrValidation, "start_time must be before end_time")
	}
	req.StartTime = start.Format(clockLayout)
	req.EndTime = end.Format(clockLayout)
	if req.Type == "" {
		req.Type = models.ScheduleLecture
	}
	return ensureCourseExists(ctx, s.courses, req.CourseID)
}

func applyScheduleRequest(schedule *models.Schedule, req ScheduleRequest) {
	schedule.CourseID = req.CourseID
	schedule.DayOfWeek = *req.DayOfWeek
	schedule.StartTime = req.StartTime
	schedule.EndTime = req.EndTime
	schedule.Room = strings.TrimSpace(req.Room)
	schedule.Type = req.Type
}
