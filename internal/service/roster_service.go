package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/schoolmgr/school-api/internal/models"
	appErrors "github.com/schoolmgr/school-api/pkg/errors"
)

type rosterProfileRepository interface {
	ListTeachers(ctx context.Context) ([]models.TeacherInfo, error)
	ListStudents(ctx context.Context) ([]models.StudentInfo, error)
}

// RosterService provides the flat teacher and student listings.
type RosterService struct {
	profiles rosterProfileRepository
	logger   *zap.Logger
}

// NewRosterService constructs a RosterService instance.
func NewRosterService(profiles rosterProfileRepository, logger *zap.Logger) *RosterService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RosterService{profiles: profiles, logger: logger}
}

// Teachers lists every teacher.
func (s *RosterService) Teachers(ctx context.Context) ([]models.TeacherInfo, error) {
	teachers, err := s.profiles.ListTeachers(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list teachers")
	}
	return teachers, nil
}

// Students lists every student with their class name when assigned.
func (s *RosterService) Students(ctx context.Context) ([]models.StudentInfo, error) {
	students, err := s.profiles.ListStudents(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}
	return students, nil
}
