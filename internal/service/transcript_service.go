package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/studyhub-api/internal/dto"
	"github.com/noah-isme/studyhub-api/pkg/export"
	appErrors "github.com/noah-isme/studyhub-api/pkg/errors"
)

// Transcript formats.
const (
	TranscriptFormatCSV = "csv"
	TranscriptFormatPDF = "pdf"
)

var transcriptHeaders = []string{"Code", "Course", "Credits", "Grade", "Letter", "Points"}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// TranscriptService renders the GPA overview as a downloadable document.
type TranscriptService struct {
	grades gpaOverviewProvider
	csv    csvRenderer
	pdf    pdfRenderer
	logger *zap.Logger
}

// NewTranscriptService constructs a TranscriptService.
func NewTranscriptService(grades gpaOverviewProvider, csv csvRenderer, pdf pdfRenderer, logger *zap.Logger) *TranscriptService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		exporter := export.NewPDFExporter()
		exporter.Widths = []float64{1.2, 3, 0.9, 0.9, 0.8, 0.8}
		pdf = exporter
	}
	return &TranscriptService{grades: grades, csv: csv, pdf: pdf, logger: logger}
}

// Generate renders the transcript in the requested format.
func (s *TranscriptService) Generate(ctx context.Context, format string) (*dto.Transcript, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = TranscriptFormatCSV
	}
	if format != TranscriptFormatCSV && format != TranscriptFormatPDF {
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}

	overview, _, err := s.grades.Overview(ctx)
	if err != nil {
		return nil, err
	}
	dataset := transcriptDataset(overview)
	filename := fmt.Sprintf("transcript-%s.%s", overview.GeneratedAt.Format("20060102"), format)

	var (
		payload     []byte
		contentType string
	)
	switch format {
	case TranscriptFormatPDF:
		payload, err = s.pdf.Render(dataset, "Academic Transcript")
		contentType = "application/pdf"
	default:
		payload, err = s.csv.Render(dataset)
		contentType = "text/csv"
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render transcript")
	}
	s.logger.Info("transcript rendered", zap.String("format", format), zap.Int("courses", len(overview.Courses)))
	return &dto.Transcript{Filename: filename, ContentType: contentType, Content: payload}, nil
}

func transcriptDataset(overview *dto.GPAOverview) export.Dataset {
	rows := make([]map[string]string, 0, len(overview.Courses)+1)
	for _, c := range overview.Courses {
		rows = append(rows, map[string]string{
			"Code":    c.CourseCode,
			"Course":  c.CourseName,
			"Credits": strconv.Itoa(c.Credits),
			"Grade":   strconv.FormatFloat(c.Grade, 'f', 2, 64),
			"Letter":  c.Letter,
			"Points":  strconv.FormatFloat(c.GradePoints, 'f', 1, 64),
		})
	}
	rows = append(rows, map[string]string{
		"Course":  "Cumulative GPA",
		"Credits": strconv.Itoa(overview.TotalCredits),
		"Points":  strconv.FormatFloat(overview.GPA, 'f', 2, 64),
	})
	return export.Dataset{Headers: transcriptHeaders, Rows: rows}
}
