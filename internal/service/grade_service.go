package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/schoolmgr/school-api/internal/models"
	"github.com/schoolmgr/school-api/internal/repository"
	appErrors "github.com/schoolmgr/school-api/pkg/errors"
)

type gradeRepository interface {
	Create(ctx context.Context, grade *models.Grade) (int64, error)
	ListForStudent(ctx context.Context, studentID int64, req models.PagedRequest) ([]models.GradeRow, int, error)
	ListForTeacher(ctx context.Context, teacherID int64, req models.PagedRequest) ([]models.GradeRow, int, error)
}

type gradeProfileRepository interface {
	ByAccount(ctx context.Context, accountID string, role models.Role) (*models.Profile, error)
	StudentByID(ctx context.Context, id int64) (*models.Profile, error)
	StudentsForClass(ctx context.Context, classID int64) ([]models.StudentOption, error)
}

type gradeSubjectRepository interface {
	FindByID(ctx context.Context, id int64) (*models.Subject, error)
}

type gradeAssignmentRepository interface {
	AssignmentExists(ctx context.Context, teacherID, subjectID, classID int64) (bool, error)
	ListForTeacher(ctx context.Context, teacherID int64) ([]models.SubjectWithClass, error)
}

// GradeService provides the grading workflow use cases.
type GradeService struct {
	grades      gradeRepository
	profiles    gradeProfileRepository
	subjects    gradeSubjectRepository
	assignments gradeAssignmentRepository
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewGradeService constructs a GradeService instance.
func NewGradeService(grades gradeRepository, profiles gradeProfileRepository, subjects gradeSubjectRepository, assignments gradeAssignmentRepository, validate *validator.Validate, logger *zap.Logger) *GradeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &GradeService{
		grades:      grades,
		profiles:    profiles,
		subjects:    subjects,
		assignments: assignments,
		validator:   validate,
		logger:      logger,
	}
}

// Add records a mark for a student. The student and subject must exist; the
// teacher is resolved from the calling account.
func (s *GradeService) Add(ctx context.Context, teacherAccountID string, req models.AddGradeRequest) (*models.GradeCreated, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid grade payload")
	}

	teacher, err := s.profiles.ByAccount(ctx, teacherAccountID, models.RoleTeacher)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher profile not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher profile")
	}

	student, err := s.profiles.StudentByID(ctx, req.StudentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}

	subject, err := s.subjects.FindByID(ctx, req.SubjectID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "subject not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subject")
	}

	date := time.Now().UTC()
	if req.Date != nil {
		date = *req.Date
	}

	grade := &models.Grade{
		StudentID: req.StudentID,
		SubjectID: req.SubjectID,
		TeacherID: teacher.ID,
		Value:     req.Value,
		Comment:   req.Comment,
		Date:      date,
	}
	if _, err := s.grades.Create(ctx, grade); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record grade")
	}

	comment := ""
	if req.Comment != nil {
		comment = *req.Comment
	}
	return &models.GradeCreated{
		StudentName: student.FullName(),
		SubjectName: subject.Name,
		Value:       req.Value,
		Comment:     comment,
		Date:        date,
	}, nil
}

// StudentsForSubjectAndClass lists the grading picker students of a class.
// The calling teacher must hold the exact (subject, class) assignment.
func (s *GradeService) StudentsForSubjectAndClass(ctx context.Context, teacherAccountID string, subjectID, classID int64) ([]models.StudentOption, error) {
	teacher, err := s.profiles.ByAccount(ctx, teacherAccountID, models.RoleTeacher)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher profile not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher profile")
	}

	assigned, err := s.assignments.AssignmentExists(ctx, teacher.ID, subjectID, classID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check assignment")
	}
	if !assigned {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "subject is not assigned to this teacher for this class")
	}

	students, err := s.profiles.StudentsForClass(ctx, classID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list class students")
	}
	return students, nil
}

// SubjectsForTeacher lists the distinct (subject, class) pairs the calling
// teacher may grade.
func (s *GradeService) SubjectsForTeacher(ctx context.Context, teacherAccountID string) ([]models.SubjectWithClass, error) {
	teacher, err := s.profiles.ByAccount(ctx, teacherAccountID, models.RoleTeacher)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher profile not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher profile")
	}

	pairs, err := s.assignments.ListForTeacher(ctx, teacher.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list teacher subjects")
	}
	return pairs, nil
}

// ListForStudent returns one page of the calling student's grades.
func (s *GradeService) ListForStudent(ctx context.Context, studentAccountID string, req models.PagedRequest) ([]models.GradeRow, int, error) {
	student, err := s.profiles.ByAccount(ctx, studentAccountID, models.RoleStudent)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, 0, appErrors.Clone(appErrors.ErrNotFound, "student profile not found")
		}
		return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student profile")
	}

	req.Normalize()
	rows, total, err := s.grades.ListForStudent(ctx, student.ID, req)
	if err != nil {
		if errors.Is(err, repository.ErrInvalidSortColumn) {
			return nil, 0, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "unknown sort column")
		}
		return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list grades")
	}
	return rows, total, nil
}

// ListForTeacher returns one page of the grades the calling teacher recorded.
func (s *GradeService) ListForTeacher(ctx context.Context, teacherAccountID string, req models.PagedRequest) ([]models.GradeRow, int, error) {
	teacher, err := s.profiles.ByAccount(ctx, teacherAccountID, models.RoleTeacher)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, 0, appErrors.Clone(appErrors.ErrNotFound, "teacher profile not found")
		}
		return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher profile")
	}

	req.Normalize()
	rows, total, err := s.grades.ListForTeacher(ctx, teacher.ID, req)
	if err != nil {
		if errors.Is(err, repository.ErrInvalidSortColumn) {
			return nil, 0, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "unknown sort column")
		}
		return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list grades")
	}
	return rows, total, nil
}
