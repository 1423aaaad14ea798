package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/studyhub-api/internal/models"
	"github.com/noah-isme/studyhub-api/internal/service"
	appErrors "github.com/noah-isme/studyhub-api/pkg/errors"
)

type fakeCourseSrv struct {
	lastFilter   models.CourseFilter
	lastCreate   service.CreateCourseRequest
	lastEnrolled *bool
	err          error
}

func (f *fakeCourseSrv) List(_ context.Context, filter models.CourseFilter) ([]models.Course, *models.Pagination, error) {
	f.lastFilter = filter
	return []models.Course{{ID: 1, Name: "Calculus"}}, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: 1}, f.err
}

func (f *fakeCourseSrv) Get(_ context.Context, id int64) (*models.Course, error) {
	return &models.Course{ID: id}, f.err
}

func (f *fakeCourseSrv) Create(_ context.Context, req service.CreateCourseRequest) (*models.Course, error) {
	f.lastCreate = req
	if f.err != nil {
		return nil, f.err
	}
	return &models.Course{ID: 2, Name: req.Name, Code: req.Code}, nil
}

func (f *fakeCourseSrv) Update(_ context.Context, id int64, req service.UpdateCourseRequest) (*models.Course, error) {
	return &models.Course{ID: id, Name: req.Name}, f.err
}

func (f *fakeCourseSrv) SetEnrolled(_ context.Context, id int64, enrolled bool) (*models.Course, error) {
	f.lastEnrolled = &enrolled
	return &models.Course{ID: id, Enrolled: enrolled}, f.err
}

func (f *fakeCourseSrv) Delete(context.Context, int64) error {
	return f.err
}

func newCourseRouter(svc *fakeCourseSrv) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewCourseHandler(svc)
	router := gin.New()
	router.GET("/courses", h.List)
	router.GET("/courses/:id", h.Get)
	router.POST("/courses", h.Create)
	router.PUT("/courses/:id", h.Update)
	router.POST("/courses/:id/enroll", h.Enroll)
	router.POST("/courses/:id/drop", h.Drop)
	router.DELETE("/courses/:id", h.Delete)
	return router
}

func TestCourseHandlerListParsesFilters(t *testing.T) {
	svc := &fakeCourseSrv{}
	rec := httptest.NewRecorder()
	newCourseRouter(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/courses?enrolled=true&semester=Fall%202024&search=+calc+&page=2&limit=5&sort=name&order=desc", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, svc.lastFilter.Enrolled)
	assert.True(t, *svc.lastFilter.Enrolled)
	assert.Equal(t, "Fall 2024", svc.lastFilter.Semester)
	assert.Equal(t, "calc", svc.lastFilter.Search)
	assert.Equal(t, 2, svc.lastFilter.Page)
	assert.Equal(t, 5, svc.lastFilter.PageSize)
	assert.Equal(t, "name", svc.lastFilter.SortBy)
	assert.Equal(t, "desc", svc.lastFilter.SortOrder)

	var envelope listEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Len(t, envelope.Data, 1)
	assert.Equal(t, float64(1), envelope.Pagination["total_count"])
}

func TestCourseHandlerListRejectsBadEnrolled(t *testing.T) {
	rec := httptest.NewRecorder()
	newCourseRouter(&fakeCourseSrv{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/courses?enrolled=maybe", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCourseHandlerCreate(t *testing.T) {
	svc := &fakeCourseSrv{}
	rec := httptest.NewRecorder()
	body := `{"Name":"Physics","code":"PHYS101","credits":3}`
	newCourseRouter(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/courses", strings.NewReader(body)))

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Physics", svc.lastCreate.Name)
}

func TestCourseHandlerCreateConflict(t *testing.T) {
	svc := &fakeCourseSrv{err: appErrors.Clone(appErrors.ErrConflict, "course code already exists")}
	rec := httptest.NewRecorder()
	newCourseRouter(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/courses", strings.NewReader(`{"name":"X","code":"X","credits":1}`)))

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestCourseHandlerEnrollAndDrop(t *testing.T) {
	svc := &fakeCourseSrv{}
	router := newCourseRouter(svc)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/courses/3/drop", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, *svc.lastEnrolled)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/courses/3/enroll", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, *svc.lastEnrolled)
}

func TestCourseHandlerDelete(t *testing.T) {
	rec := httptest.NewRecorder()
	newCourseRouter(&fakeCourseSrv{}).ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/courses/3", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	newCourseRouter(&fakeCourseSrv{}).ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/courses/abc", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
