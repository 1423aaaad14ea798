package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/studyhub-api/internal/dto"
	"github.com/noah-isme/studyhub-api/internal/models"
)

type stubOverview struct {
	overview *dto.GPAOverview
	err      error
	calls    int
}

func (s *stubOverview) Overview(context.Context) (*dto.GPAOverview, bool, error) {
	s.calls++
	return s.overview, false, s.err
}

func TestDashboardServiceSummary(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) // Wednesday
	courses := newFakeCourseRepo(
		models.Course{ID: 1, Name: "Calculus", Code: "MATH201", Credits: 4, Enrolled: true},
		models.Course{ID: 2, Name: "Literature", Code: "ENG110", Credits: 3, Enrolled: true},
		models.Course{ID: 3, Name: "Old", Code: "OLD1", Credits: 2, Enrolled: false},
	)
	assignments := &fakeAssignmentRepo{assignments: []models.Assignment{
		{ID: 1, CourseID: 1, Title: "Overdue", DueDate: now.Add(-24 * time.Hour)},
		{ID: 2, CourseID: 1, Title: "Tomorrow", DueDate: now.Add(24 * time.Hour), Priority: models.PriorityHigh},
		{ID: 3, CourseID: 2, Title: "Done", DueDate: now.Add(48 * time.Hour), Completed: true},
		{ID: 4, CourseID: 2, Title: "Next month", DueDate: now.Add(30 * 24 * time.Hour)},
	}}
	schedules := &fakeScheduleRepo{schedules: []models.Schedule{
		{ID: 1, CourseID: 2, DayOfWeek: 3, StartTime: "10:00", EndTime: "11:00", Room: "A1", Type: models.ScheduleLecture},
		{ID: 2, CourseID: 1, DayOfWeek: 1, StartTime: "10:00", EndTime: "11:00"},
	}}
	grades := &stubOverview{overview: &dto.GPAOverview{GPA: 3.25}}
	cacheRepo := &stubCacheRepo{}
	cache := NewCacheService(cacheRepo, nil, time.Minute, zap.NewNop(), true)

	svc := NewDashboardService(courses, assignments, schedules, grades, cache, nil, zap.NewNop(), DashboardServiceConfig{UpcomingLimit: 1})
	svc.now = func() time.Time { return now }

	resp, hit, err := svc.Summary(context.Background())
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 2, resp.TotalCourses)
	assert.Equal(t, 4, resp.TotalAssignments)
	assert.Equal(t, 1, resp.CompletedAssignments)
	// overdue and tomorrow fall inside the 7 day window
	assert.Equal(t, 2, resp.UpcomingDeadlines)
	assert.Equal(t, 25.0, resp.CompletionRate)
	assert.Equal(t, 3.25, resp.GPA)
	require.Len(t, resp.Upcoming, 1)
	assert.Equal(t, int64(2), resp.Upcoming[0].AssignmentID)
	assert.Equal(t, "MATH201", resp.Upcoming[0].CourseCode)
	require.Len(t, resp.Today, 1)
	assert.Equal(t, "Literature", resp.Today[0].CourseName)
	assert.Equal(t, "due_date", assignments.lastFilter.SortBy)

	_, hit, err = svc.Summary(context.Background())
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, 1, grades.calls)
	assert.Contains(t, cacheRepo.store, "dashboard:summary:2024-05-01")
}

func TestDashboardServiceUsesUTCDay(t *testing.T) {
	schedules := &fakeScheduleRepo{schedules: []models.Schedule{
		{ID: 1, CourseID: 1, DayOfWeek: int(time.Wednesday), StartTime: "09:00", EndTime: "10:00"},
		{ID: 2, CourseID: 1, DayOfWeek: int(time.Thursday), StartTime: "09:00", EndTime: "10:00"},
	}}
	cacheRepo := &stubCacheRepo{}
	cache := NewCacheService(cacheRepo, nil, time.Minute, zap.NewNop(), true)
	svc := NewDashboardService(newFakeCourseRepo(), &fakeAssignmentRepo{}, schedules, &stubOverview{overview: &dto.GPAOverview{}}, cache, nil, nil, DashboardServiceConfig{})
	eastern := time.FixedZone("UTC-5", -5*60*60)
	svc.now = func() time.Time { return time.Date(2024, 5, 1, 23, 30, 0, 0, eastern) }

	resp, _, err := svc.Summary(context.Background())
	require.NoError(t, err)
	require.Len(t, resp.Today, 1)
	assert.Equal(t, int64(2), resp.Today[0].ScheduleID)
	assert.Contains(t, cacheRepo.store, "dashboard:summary:2024-05-02")
}

func TestDashboardServiceEmpty(t *testing.T) {
	svc := NewDashboardService(newFakeCourseRepo(), &fakeAssignmentRepo{}, &fakeScheduleRepo{}, &stubOverview{overview: &dto.GPAOverview{}}, nil, nil, nil, DashboardServiceConfig{})

	resp, hit, err := svc.Summary(context.Background())
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 0.0, resp.CompletionRate)
	assert.NotNil(t, resp.Upcoming)
	assert.NotNil(t, resp.Today)
}

func TestDashboardServiceOverviewError(t *testing.T) {
	svc := NewDashboardService(newFakeCourseRepo(), &fakeAssignmentRepo{}, &fakeScheduleRepo{}, &stubOverview{err: assert.AnError}, nil, nil, nil, DashboardServiceConfig{})

	_, _, err := svc.Summary(context.Background())
	assert.ErrorIs(t, err, assert.AnError)
}

func TestDashboardServiceCourseError(t *testing.T) {
	courses := newFakeCourseRepo()
	courses.listErr = assert.AnError
	svc := NewDashboardService(courses, &fakeAssignmentRepo{}, &fakeScheduleRepo{}, &stubOverview{}, nil, nil, nil, DashboardServiceConfig{})

	_, _, err := svc.Summary(context.Background())
	assert.ErrorIs(t, err, assert.AnError)
}
