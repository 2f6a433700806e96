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

type subjectRepository interface {
	List(ctx context.Context, req models.PagedRequest) ([]models.SubjectRow, int, error)
	Options(ctx context.Context) ([]models.SubjectOption, error)
	FindDetailByID(ctx context.Context, id int64) (*models.SubjectDetail, error)
	CreateWithAssignments(ctx context.Context, subject *models.Subject, refs []models.AssignmentRef) error
	UpdateWithAssignments(ctx context.Context, subject *models.Subject, refs []models.AssignmentRef) error
	DeleteWithAssignments(ctx context.Context, id int64) error
}

// SubjectService provides subject management use cases.
type SubjectService struct {
	repo      subjectRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSubjectService constructs a SubjectService instance.
func NewSubjectService(repo subjectRepository, validate *validator.Validate, logger *zap.Logger) *SubjectService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &SubjectService{repo: repo, validator: validate, logger: logger}
}

// List returns one page of subjects with rendered assignment labels.
func (s *SubjectService) List(ctx context.Context, req models.PagedRequest) ([]models.SubjectRow, int, error) {
	req.Normalize()
	rows, total, err := s.repo.List(ctx, req)
	if err != nil {
		if errors.Is(err, repository.ErrInvalidSortColumn) {
			return nil, 0, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "unknown sort column")
		}
		return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list subjects")
	}
	return rows, total, nil
}

// Options returns the subject picker list.
func (s *SubjectService) Options(ctx context.Context) ([]models.SubjectOption, error) {
	options, err := s.repo.Options(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list subject options")
	}
	return options, nil
}

// Get returns one subject with its assignment references.
func (s *SubjectService) Get(ctx context.Context, id int64) (*models.SubjectDetail, error) {
	detail, err := s.repo.FindDetailByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "subject not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subject")
	}
	return detail, nil
}

// Create inserts a subject and its assignments in one transaction.
func (s *SubjectService) Create(ctx context.Context, req models.SubjectRequest) (*models.Subject, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid subject payload")
	}

	subject := &models.Subject{Name: req.Name}
	if err := s.repo.CreateWithAssignments(ctx, subject, req.Assignments); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrTransaction.Code, appErrors.ErrTransaction.Status, "failed to create subject")
	}
	s.logger.Info("subject created", zap.Int64("subject_id", subject.ID), zap.String("name", subject.Name))
	return subject, nil
}

// Update renames a subject and replaces its assignment set wholesale.
func (s *SubjectService) Update(ctx context.Context, id int64, req models.SubjectRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid subject payload")
	}

	subject := &models.Subject{ID: id, Name: req.Name}
	if err := s.repo.UpdateWithAssignments(ctx, subject, req.Assignments); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "subject not found")
		}
		return appErrors.Wrap(err, appErrors.ErrTransaction.Code, appErrors.ErrTransaction.Status, "failed to update subject")
	}
	return nil
}

// Delete removes a subject and its assignments.
func (s *SubjectService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.DeleteWithAssignments(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "subject not found")
		}
		return appErrors.Wrap(err, appErrors.ErrTransaction.Code, appErrors.ErrTransaction.Status, "failed to delete subject")
	}
	return nil
}
