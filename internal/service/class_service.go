package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/schoolmgr/school-api/internal/models"
	"github.com/schoolmgr/school-api/internal/repository"
	appErrors "github.com/schoolmgr/school-api/pkg/errors"
)

type classRepository interface {
	List(ctx context.Context, req models.PagedRequest) ([]models.ClassRow, int, error)
	Options(ctx context.Context) ([]models.ClassOption, error)
	FindDetailByID(ctx context.Context, id int64) (*models.ClassDetail, error)
	CreateWithStudents(ctx context.Context, class *models.Class, studentIDs []int64) error
	UpdateWithMembership(ctx context.Context, class *models.Class, targetStudentIDs []int64) error
	DeleteWithDetach(ctx context.Context, id int64) error
}

// ClassService provides class management use cases.
type ClassService struct {
	repo      classRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewClassService constructs a ClassService instance.
func NewClassService(repo classRepository, validate *validator.Validate, logger *zap.Logger) *ClassService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &ClassService{repo: repo, validator: validate, logger: logger}
}

// List returns one page of classes with homeroom names and member counts.
func (s *ClassService) List(ctx context.Context, req models.PagedRequest) ([]models.ClassRow, int, error) {
	req.Normalize()
	rows, total, err := s.repo.List(ctx, req)
	if err != nil {
		if errors.Is(err, repository.ErrInvalidSortColumn) {
			return nil, 0, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "unknown sort column")
		}
		return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list classes")
	}
	return rows, total, nil
}

// Options returns the class picker list.
func (s *ClassService) Options(ctx context.Context) ([]models.ClassOption, error) {
	options, err := s.repo.Options(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list class options")
	}
	return options, nil
}

// Get returns one class with its member student ids.
func (s *ClassService) Get(ctx context.Context, id int64) (*models.ClassDetail, error) {
	detail, err := s.repo.FindDetailByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class")
	}
	return detail, nil
}

// Create inserts a class and attaches the requested students. Requested ids
// that match no student are skipped, but a non-empty request matching nobody
// fails.
func (s *ClassService) Create(ctx context.Context, req models.ClassRequest) (*models.Class, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid class payload")
	}

	class := &models.Class{Name: req.Name, HomeroomTeacherID: req.HomeroomTeacherID}
	if err := s.repo.CreateWithStudents(ctx, class, req.StudentIDs); err != nil {
		if errors.Is(err, repository.ErrNoStudentsMatched) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "none of the requested students exist")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrTransaction.Code, appErrors.ErrTransaction.Status, "failed to create class")
	}
	s.logger.Info("class created", zap.Int64("class_id", class.ID), zap.String("name", class.Name))
	return class, nil
}

// Update replaces a class's fields and reconciles its membership toward the
// requested student set.
func (s *ClassService) Update(ctx context.Context, id int64, req models.ClassRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid class payload")
	}

	class := &models.Class{ID: id, Name: req.Name, HomeroomTeacherID: req.HomeroomTeacherID}
	if err := s.repo.UpdateWithMembership(ctx, class, req.StudentIDs); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return appErrors.Wrap(err, appErrors.ErrTransaction.Code, appErrors.ErrTransaction.Status, "failed to update class")
	}
	return nil
}

// Delete removes a class after detaching its members.
func (s *ClassService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.DeleteWithDetach(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return appErrors.Wrap(err, appErrors.ErrTransaction.Code, appErrors.ErrTransaction.Status, "failed to delete class")
	}
	return nil
}
