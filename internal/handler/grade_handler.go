package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/studyhub-api/internal/dto"
	"github.com/noah-isme/studyhub-api/internal/middleware"
	"github.com/noah-isme/studyhub-api/internal/models"
	"github.com/noah-isme/studyhub-api/internal/service"
	"github.com/noah-isme/studyhub-api/pkg/response"
)

type gradeService interface {
	List(ctx context.Context, filter models.GradeFilter) ([]models.Grade, error)
	Get(ctx context.Context, id int64) (*models.Grade, error)
	Create(ctx context.Context, req service.GradeRequest) (*models.Grade, error)
	Update(ctx context.Context, id int64, req service.GradeRequest) (*models.Grade, error)
	Delete(ctx context.Context, id int64) error
	Overview(ctx context.Context) (*dto.GPAOverview, bool, error)
}

type transcriptService interface {
	Generate(ctx context.Context, format string) (*dto.Transcript, error)
}

// GradeHandler serves grade records and the derived GPA views.
type GradeHandler struct {
	grades     gradeService
	transcript transcriptService
}

// NewGradeHandler constructs a grade handler.
func NewGradeHandler(grades gradeService, transcript transcriptService) *GradeHandler {
	return &GradeHandler{grades: grades, transcript: transcript}
}

// List godoc
// @Summary List grades
// @Tags Grades
// @Produce json
// @Param course_id query int false "Course ID"
// @Success 200 {object} response.Envelope
// @Router /grades [get]
func (h *GradeHandler) List(c *gin.Context) {
	courseID, err := queryID(c, "course_id")
	if err != nil {
		response.Error(c, err)
		return
	}
	grades, err := h.grades.List(c.Request.Context(), models.GradeFilter{CourseID: courseID})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, grades, nil)
}

// Get godoc
// @Summary Get grade by id
// @Tags Grades
// @Produce json
// @Param id path int true "Grade ID"
// @Success 200 {object} response.Envelope
// @Router /grades/{id} [get]
func (h *GradeHandler) Get(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	grade, err := h.grades.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, grade, nil)
}

// Create godoc
// @Summary Record grade
// @Tags Grades
// @Accept json
// @Produce json
// @Param payload body service.GradeRequest true "Grade payload"
// @Success 201 {object} response.Envelope
// @Router /grades [post]
func (h *GradeHandler) Create(c *gin.Context) {
	var req service.GradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}
	grade, err := h.grades.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, grade)
}

// Update godoc
// @Summary Update grade
// @Tags Grades
// @Accept json
// @Produce json
// @Param id path int true "Grade ID"
// @Param payload body service.GradeRequest true "Grade payload"
// @Success 200 {object} response.Envelope
// @Router /grades/{id} [put]
func (h *GradeHandler) Update(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req service.GradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}
	grade, err := h.grades.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, grade, nil)
}

// Delete godoc
// @Summary Delete grade
// @Tags Grades
// @Param id path int true "Grade ID"
// @Success 204
// @Router /grades/{id} [delete]
func (h *GradeHandler) Delete(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.grades.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Overview godoc
// @Summary Per-course grades and cumulative GPA
// @Tags Grades
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /grades/overview [get]
func (h *GradeHandler) Overview(c *gin.Context) {
	overview, cacheHit, err := h.grades.Overview(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	response.JSON(c, http.StatusOK, overview, nil, middleware.ExtractMeta(c))
}

// Transcript godoc
// @Summary Download transcript
// @Tags Grades
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "csv (default) or pdf"
// @Success 200 {file} file
// @Router /grades/transcript [get]
func (h *GradeHandler) Transcript(c *gin.Context) {
	doc, err := h.transcript.Generate(c.Request.Context(), c.DefaultQuery("format", service.TranscriptFormatCSV))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, doc.Filename, doc.ContentType, doc.Content)
}
