package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/noah-isme/studyhub-api/internal/models"
	appErrors "github.com/noah-isme/studyhub-api/pkg/errors"
)

type stubCacheRepo struct {
	store       map[string][]byte
	invalidated []string
	getErr      error
}

func (s *stubCacheRepo) Get(_ context.Context, key string, dest interface{}) error {
	if s.getErr != nil {
		return s.getErr
	}
	payload, ok := s.store[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(payload, dest)
}

func (s *stubCacheRepo) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	if s.store == nil {
		s.store = make(map[string][]byte)
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	s.store[key] = payload
	return nil
}

func (s *stubCacheRepo) DeleteByPattern(_ context.Context, pattern string) error {
	s.invalidated = append(s.invalidated, pattern)
	for key := range s.store {
		if ok, _ := path.Match(pattern, key); ok {
			delete(s.store, key)
		}
	}
	return nil
}

type fakeCourseRepo struct {
	courses   map[int64]*models.Course
	nextID    int64
	listErr   error
	createErr error
}

func newFakeCourseRepo(courses ...models.Course) *fakeCourseRepo {
	repo := &fakeCourseRepo{courses: make(map[int64]*models.Course)}
	for i := range courses {
		c := courses[i]
		repo.courses[c.ID] = &c
		if c.ID > repo.nextID {
			repo.nextID = c.ID
		}
	}
	return repo
}

func (f *fakeCourseRepo) List(_ context.Context, filter models.CourseFilter) ([]models.Course, int, error) {
	if f.listErr != nil {
		return nil, 0, f.listErr
	}
	all, _ := f.ListAll(context.Background())
	var out []models.Course
	for _, c := range all {
		if filter.Enrolled != nil && c.Enrolled != *filter.Enrolled {
			continue
		}
		out = append(out, c)
	}
	return out, len(out), nil
}

func (f *fakeCourseRepo) ListAll(_ context.Context) ([]models.Course, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]models.Course, 0, len(f.courses))
	for _, c := range f.courses {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeCourseRepo) FindByID(_ context.Context, id int64) (*models.Course, error) {
	c, ok := f.courses[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *c
	return &cp, nil
}

func (f *fakeCourseRepo) ExistsByCode(_ context.Context, code string, excludeID int64) (bool, error) {
	for _, c := range f.courses {
		if c.ID != excludeID && strings.EqualFold(c.Code, code) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeCourseRepo) Create(_ context.Context, course *models.Course) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.nextID++
	course.ID = f.nextID
	cp := *course
	f.courses[course.ID] = &cp
	return nil
}

func (f *fakeCourseRepo) Update(_ context.Context, course *models.Course) error {
	cp := *course
	f.courses[course.ID] = &cp
	return nil
}

func (f *fakeCourseRepo) SetEnrolled(_ context.Context, id int64, enrolled bool) (bool, error) {
	c, ok := f.courses[id]
	if !ok {
		return false, nil
	}
	c.Enrolled = enrolled
	return true, nil
}

func (f *fakeCourseRepo) Delete(_ context.Context, id int64) (bool, error) {
	if _, ok := f.courses[id]; !ok {
		return false, nil
	}
	delete(f.courses, id)
	return true, nil
}

type fakeGradeRepo struct {
	grades    []models.Grade
	nextID    int64
	listCalls int
	listErr   error
}

func (f *fakeGradeRepo) List(_ context.Context, filter models.GradeFilter) ([]models.Grade, error) {
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []models.Grade
	for _, g := range f.grades {
		if filter.CourseID > 0 && g.CourseID != filter.CourseID {
			continue
		}
		out = append(out, g)
	}
	return out, nil
}

func (f *fakeGradeRepo) FindByID(_ context.Context, id int64) (*models.Grade, error) {
	for _, g := range f.grades {
		if g.ID == id {
			cp := g
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeGradeRepo) Create(_ context.Context, grade *models.Grade) error {
	f.nextID++
	grade.ID = f.nextID
	f.grades = append(f.grades, *grade)
	return nil
}

func (f *fakeGradeRepo) Update(_ context.Context, grade *models.Grade) error {
	for i := range f.grades {
		if f.grades[i].ID == grade.ID {
			f.grades[i] = *grade
		}
	}
	return nil
}

func (f *fakeGradeRepo) Delete(_ context.Context, id int64) (bool, error) {
	for i := range f.grades {
		if f.grades[i].ID == id {
			f.grades = append(f.grades[:i], f.grades[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

type fakeAssignmentRepo struct {
	assignments []models.Assignment
	nextID      int64
	lastFilter  models.AssignmentFilter
}

func (f *fakeAssignmentRepo) List(_ context.Context, filter models.AssignmentFilter) ([]models.Assignment, error) {
	f.lastFilter = filter
	out := append([]models.Assignment(nil), f.assignments...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].DueDate.Before(out[j].DueDate) })
	return out, nil
}

func (f *fakeAssignmentRepo) FindByID(_ context.Context, id int64) (*models.Assignment, error) {
	for _, a := range f.assignments {
		if a.ID == id {
			cp := a
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeAssignmentRepo) Create(_ context.Context, a *models.Assignment) error {
	f.nextID++
	a.ID = f.nextID
	f.assignments = append(f.assignments, *a)
	return nil
}

func (f *fakeAssignmentRepo) Update(_ context.Context, a *models.Assignment) error {
	for i := range f.assignments {
		if f.assignments[i].ID == a.ID {
			f.assignments[i] = *a
		}
	}
	return nil
}

func (f *fakeAssignmentRepo) SetCompleted(_ context.Context, id int64, completed bool) (bool, error) {
	for i := range f.assignments {
		if f.assignments[i].ID == id {
			f.assignments[i].Completed = completed
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeAssignmentRepo) Delete(_ context.Context, id int64) (bool, error) {
	for i := range f.assignments {
		if f.assignments[i].ID == id {
			f.assignments = append(f.assignments[:i], f.assignments[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

type fakeScheduleRepo struct {
	schedules  []models.Schedule
	nextID     int64
	lastFilter models.ScheduleFilter
}

func (f *fakeScheduleRepo) List(_ context.Context, filter models.ScheduleFilter) ([]models.Schedule, error) {
	f.lastFilter = filter
	var out []models.Schedule
	for _, s := range f.schedules {
		if filter.DayOfWeek != nil && s.DayOfWeek != *filter.DayOfWeek {
			continue
		}
		if filter.CourseID > 0 && s.CourseID != filter.CourseID {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func (f *fakeScheduleRepo) FindByID(_ context.Context, id int64) (*models.Schedule, error) {
	for _, s := range f.schedules {
		if s.ID == id {
			cp := s
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeScheduleRepo) Create(_ context.Context, s *models.Schedule) error {
	f.nextID++
	s.ID = f.nextID
	f.schedules = append(f.schedules, *s)
	return nil
}

func (f *fakeScheduleRepo) Update(_ context.Context, s *models.Schedule) error {
	for i := range f.schedules {
		if f.schedules[i].ID == s.ID {
			f.schedules[i] = *s
		}
	}
	return nil
}

func (f *fakeScheduleRepo) Delete(_ context.Context, id int64) (bool, error) {
	for i := range f.schedules {
		if f.schedules[i].ID == id {
			f.schedules = append(f.schedules[:i], f.schedules[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func floatPtr(v float64) *float64 { return &v }

func intPtr(v int) *int { return &v }

func boolPtr(v bool) *bool { return &v }
