package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/zchut-miluim/mentoring-api/internal/models"
	appErrors "github.com/zchut-miluim/mentoring-api/pkg/errors"
	"github.com/zchut-miluim/mentoring-api/pkg/export"
)

type exportMenteeLister interface {
	List(ctx context.Context, filter models.MenteeFilter) ([]models.Mentee, int, error)
}

type exportSessionLister interface {
	List(ctx context.Context, filter models.SessionFilter) ([]models.Session, int, error)
}

// ExportFormat selects the rendered file type.
type ExportFormat string

const (
	FormatCSV ExportFormat = "csv"
	FormatPDF ExportFormat = "pdf"
)

// ExportFile is a rendered report ready to stream to the client.
type ExportFile struct {
	FileName    string
	ContentType string
	Body        []byte
}

// ExportService renders admin reports for payments and session activity.
type ExportService struct {
	mentees  exportMenteeLister
	sessions exportSessionLister
	csv      *export.CSVExporter
	pdf      *export.PDFExporter
	logger   *zap.Logger
}

// NewExportService constructs an ExportService instance.
func NewExportService(mentees exportMenteeLister, sessions exportSessionLister, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		mentees:  mentees,
		sessions: sessions,
		csv:      export.NewCSVExporter(),
		pdf:      export.NewPDFExporter(),
		logger:   logger,
	}
}

// Payments renders the scholarship payment report over all mentees.
func (s *ExportService) Payments(ctx context.Context, format ExportFormat) (*ExportFile, error) {
	mentees, _, err := s.mentees.List(ctx, models.MenteeFilter{PageSize: 100})
	if err != nil {
		return nil, err
	}

	headers := []string{"ID Number", "Full Name", "Status", "Hours Balance", "Payment Status", "Payment Amount", "Payment Date"}
	rows := make([]map[string]string, 0, len(mentees))
	for _, mentee := range mentees {
		paidAt := ""
		if mentee.PaymentDate != nil {
			paidAt = mentee.PaymentDate.Format("2006-01-02")
		}
		rows = append(rows, map[string]string{
			"ID Number":      mentee.IDNumber,
			"Full Name":      mentee.FullName,
			"Status":         string(mentee.Status),
			"Hours Balance":  fmt.Sprintf("%.1f", mentee.HoursBalance),
			"Payment Status": mentee.PaymentStatus,
			"Payment Amount": fmt.Sprintf("%.2f", mentee.PaymentAmount),
			"Payment Date":   paidAt,
		})
	}

	return s.render("payments", format, export.Dataset{Headers: headers, Rows: rows}, "Scholarship Payments")
}

// Sessions renders the session activity report.
func (s *ExportService) Sessions(ctx context.Context, filter models.SessionFilter, format ExportFormat) (*ExportFile, error) {
	if filter.PageSize == 0 {
		filter.PageSize = 100
	}
	sessions, _, err := s.sessions.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	headers := []string{"Date", "Start", "End", "Hours", "Subject", "Status", "Mentee ID", "Mentor ID"}
	rows := make([]map[string]string, 0, len(sessions))
	for _, session := range sessions {
		rows = append(rows, map[string]string{
			"Date":      session.Date,
			"Start":     session.StartTime,
			"End":       session.EndTime,
			"Hours":     fmt.Sprintf("%.1f", session.DurationHours),
			"Subject":   session.Subject,
			"Status":    string(session.Status),
			"Mentee ID": session.MenteeID,
			"Mentor ID": session.MentorID,
		})
	}

	return s.render("sessions", format, export.Dataset{Headers: headers, Rows: rows}, "Tutoring Sessions")
}

func (s *ExportService) render(name string, format ExportFormat, data export.Dataset, title string) (*ExportFile, error) {
	switch format {
	case FormatCSV:
		body, err := s.csv.Render(data)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return &ExportFile{FileName: name + ".csv", ContentType: "text/csv", Body: body}, nil
	case FormatPDF:
		body, err := s.pdf.Render(data, title)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return &ExportFile{FileName: name + ".pdf", ContentType: "application/pdf", Body: body}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrInvalidInput, "unsupported export format "+string(format))
	}
}
