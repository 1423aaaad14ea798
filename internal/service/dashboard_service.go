package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/studyhub-api/internal/dto"
	"github.com/noah-isme/studyhub-api/internal/models"
	appErrors "github.com/noah-isme/studyhub-api/pkg/errors"
)

type dashboardCourseReader interface {
	ListAll(ctx context.Context) ([]models.Course, error)
}

type dashboardAssignmentReader interface {
	List(ctx context.Context, filter models.AssignmentFilter) ([]models.Assignment, error)
}

type dashboardScheduleReader interface {
	List(ctx context.Context, filter models.ScheduleFilter) ([]models.Schedule, error)
}

type gpaOverviewProvider interface {
	Overview(ctx context.Context) (*dto.GPAOverview, bool, error)
}

// DashboardServiceConfig tunes the dashboard aggregation.
type DashboardServiceConfig struct {
	CacheTTL       time.Duration
	UpcomingWindow time.Duration
	UpcomingLimit  int
}

// DashboardService aggregates the home dashboard.
type DashboardService struct {
	courses     dashboardCourseReader
	assignments dashboardAssignmentReader
	schedules   dashboardScheduleReader
	grades      gpaOverviewProvider
	cache       *CacheService
	metrics     *MetricsService
	logger      *zap.Logger
	cfg         DashboardServiceConfig
	now         func() time.Time
}

// NewDashboardService constructs the dashboard service.
func NewDashboardService(courses dashboardCourseReader, assignments dashboardAssignmentReader, schedules dashboardScheduleReader, grades gpaOverviewProvider, cache *CacheService, metrics *MetricsService, logger *zap.Logger, cfg DashboardServiceConfig) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.UpcomingWindow <= 0 {
		cfg.UpcomingWindow = 7 * 24 * time.Hour
	}
	if cfg.UpcomingLimit <= 0 {
		cfg.UpcomingLimit = 5
	}
	return &DashboardService{
		courses:     courses,
		assignments: assignments,
		schedules:   schedules,
		grades:      grades,
		cache:       cache,
		metrics:     metrics,
		logger:      logger,
		cfg:         cfg,
		now:         time.Now,
	}
}

// Summary returns dashboard statistics. The boolean reports a cache hit.
func (s *DashboardService) Summary(ctx context.Context) (*dto.DashboardResponse, bool, error) {
	now := s.now().UTC()
	cacheKey := fmt.Sprintf("dashboard:summary:%s", now.Format("2006-01-02"))
	if s.cache.Enabled() {
		var cached dto.DashboardResponse
		hit, err := s.cache.Get(ctx, cacheKey, &cached)
		if err != nil {
			s.logger.Warn("dashboard cache unavailable", zap.Error(err))
		} else if hit {
			return &cached, true, nil
		}
	}

	start := time.Now()
	courses, err := s.courses.ListAll(ctx)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load courses")
	}
	assignments, err := s.assignments.List(ctx, models.AssignmentFilter{SortBy: "due_date"})
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assignments")
	}
	day := int(now.Weekday())
	today, err := s.schedules.List(ctx, models.ScheduleFilter{DayOfWeek: &day})
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule")
	}
	s.metrics.ObserveDBQuery("dashboard", time.Since(start))

	overview, _, err := s.grades.Overview(ctx)
	if err != nil {
		return nil, false, err
	}

	resp := buildDashboard(now, courses, assignments, today, s.cfg)
	resp.GPA = overview.GPA

	if s.cache.Enabled() {
		_ = s.cache.Set(ctx, cacheKey, resp, s.cfg.CacheTTL)
	}
	return resp, false, nil
}

func buildDashboard(now time.Time, courses []models.Course, assignments []models.Assignment, today []models.Schedule, cfg DashboardServiceConfig) *dto.DashboardResponse {
	byID := make(map[int64]models.Course, len(courses))
	resp := &dto.DashboardResponse{
		Upcoming:    []dto.UpcomingDeadline{},
		Today:       []dto.TodayScheduleItem{},
		GeneratedAt: now.UTC(),
	}
	for _, c := range courses {
		byID[c.ID] = c
		if c.Enrolled {
			resp.TotalCourses++
		}
	}

	horizon := now.Add(cfg.UpcomingWindow)
	resp.TotalAssignments = len(assignments)
	// assignments arrive ordered by due date
	for _, a := range assignments {
		if a.Completed {
			resp.CompletedAssignments++
			continue
		}
		if !a.DueDate.After(horizon) {
			resp.UpcomingDeadlines++
		}
		if a.DueDate.After(now) && len(resp.Upcoming) < cfg.UpcomingLimit {
			resp.Upcoming = append(resp.Upcoming, dto.UpcomingDeadline{
				AssignmentID: a.ID,
				CourseID:     a.CourseID,
				CourseCode:   byID[a.CourseID].Code,
				Title:        a.Title,
				DueDate:      a.DueDate,
				Priority:     a.Priority,
			})
		}
	}
	if resp.TotalAssignments > 0 {
		rate := float64(resp.CompletedAssignments) / float64(resp.TotalAssignments) * 100
		resp.CompletionRate = math.Round(rate*100) / 100
	}

	for _, block := range today {
		course := byID[block.CourseID]
		resp.Today = append(resp.Today, dto.TodayScheduleItem{
			ScheduleID: block.ID,
			CourseID:   block.CourseID,
			CourseName: course.Name,
			CourseCode: course.Code,
			StartTime:  block.StartTime,
			EndTime:    block.EndTime,
			Room:       block.Room,
			Type:       block.Type,
		})
	}
	return resp
}
