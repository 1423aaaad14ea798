package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/studyhub-api/internal/dto"
	"github.com/noah-isme/studyhub-api/internal/models"
	"github.com/noah-isme/studyhub-api/pkg/export"
	appErrors "github.com/noah-isme/studyhub-api/pkg/errors"
)

type recordingPDF struct {
	dataset export.Dataset
	title   string
}

func (r *recordingPDF) Render(data export.Dataset, title string) ([]byte, error) {
	r.dataset = data
	r.title = title
	return []byte("%PDF-1.3"), nil
}

func transcriptOverview() *stubOverview {
	return &stubOverview{overview: &dto.GPAOverview{
		Courses: []models.CourseGradeSummary{
			{CourseID: 1, CourseName: "Calculus", CourseCode: "MATH201", Credits: 4, Grade: 83, GradePoints: 2.7, Letter: "B"},
		},
		GPA:          2.7,
		TotalCredits: 4,
		GeneratedAt:  time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
	}}
}

func TestTranscriptServiceCSV(t *testing.T) {
	svc := NewTranscriptService(transcriptOverview(), nil, nil, nil)

	doc, err := svc.Generate(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "transcript-20240501.csv", doc.Filename)
	assert.Equal(t, "text/csv", doc.ContentType)
	lines := strings.Split(strings.TrimSpace(string(doc.Content)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Code,Course,Credits,Grade,Letter,Points", lines[0])
	assert.Equal(t, "MATH201,Calculus,4,83.00,B,2.7", lines[1])
	assert.Equal(t, ",Cumulative GPA,4,,,2.70", lines[2])
}

func TestTranscriptServicePDF(t *testing.T) {
	pdf := &recordingPDF{}
	svc := NewTranscriptService(transcriptOverview(), nil, pdf, nil)

	doc, err := svc.Generate(context.Background(), "PDF")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", doc.ContentType)
	assert.Equal(t, "Academic Transcript", pdf.title)
	assert.Len(t, pdf.dataset.Rows, 2)
}

func TestTranscriptServiceRejectsFormat(t *testing.T) {
	overview := transcriptOverview()
	svc := NewTranscriptService(overview, nil, nil, nil)

	_, err := svc.Generate(context.Background(), "xlsx")
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
	assert.Equal(t, 0, overview.calls)
}
