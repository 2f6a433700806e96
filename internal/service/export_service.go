package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/schoolmgr/school-api/internal/models"
	appErrors "github.com/schoolmgr/school-api/pkg/errors"
	"github.com/schoolmgr/school-api/pkg/export"
)

type exportGradeRepository interface {
	ListAllForStudent(ctx context.Context, studentID int64) ([]models.GradeRow, error)
}

type exportProfileRepository interface {
	StudentByID(ctx context.Context, id int64) (*models.Profile, error)
}

// ExportFile is a rendered download with its content type and file name.
type ExportFile struct {
	FileName    string
	ContentType string
	Content     []byte
}

// ExportService renders grade sheets as CSV or PDF downloads.
type ExportService struct {
	grades   exportGradeRepository
	profiles exportProfileRepository
	csv      *export.CSVExporter
	pdf      *export.PDFExporter
	logger   *zap.Logger
}

// NewExportService constructs an ExportService instance.
func NewExportService(grades exportGradeRepository, profiles exportProfileRepository, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		grades:   grades,
		profiles: profiles,
		csv:      export.NewCSVExporter(),
		pdf:      export.NewPDFExporter(),
		logger:   logger,
	}
}

// GradeSheet renders one student's full grade history in the requested
// format. Supported formats are "csv" and "pdf".
func (s *ExportService) GradeSheet(ctx context.Context, studentID int64, format string) (*ExportFile, error) {
	student, err := s.profiles.StudentByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}

	rows, err := s.grades.ListAllForStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list student grades")
	}

	table := export.Table{
		Columns: []string{"Subject", "Value", "Comment", "Teacher", "Date"},
	}
	for _, row := range rows {
		table.Rows = append(table.Rows, []string{
			row.SubjectName,
			strconv.Itoa(row.Value),
			row.Comment,
			row.TeacherName,
			row.Date.Format("2006-01-02"),
		})
	}

	base := fmt.Sprintf("grades_%s_%s", student.FirstName, student.LastName)
	switch format {
	case "csv":
		content, err := s.csv.Render(table)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return &ExportFile{FileName: base + ".csv", ContentType: "text/csv", Content: content}, nil
	case "pdf":
		content, err := s.pdf.Render(table, "Grade sheet "+student.FullName())
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return &ExportFile{FileName: base + ".pdf", ContentType: "application/pdf", Content: content}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}
}
