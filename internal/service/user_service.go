package service

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/schoolmgr/school-api/internal/models"
	"github.com/schoolmgr/school-api/internal/repository"
	appErrors "github.com/schoolmgr/school-api/pkg/errors"
)

type userAccountRepository interface {
	List(ctx context.Context, req models.PagedRequest) ([]models.UserRow, int, error)
	FindByID(ctx context.Context, id string) (*models.Account, error)
	ExistsByLoginOrEmail(ctx context.Context, login, email string) (bool, error)
	CreateWithProfile(ctx context.Context, account *models.Account, profile *models.Profile) (string, error)
	UpdateWithProfile(ctx context.Context, id string, firstName, lastName, email string, active bool, newPasswordHash *string) (bool, error)
	DeleteWithProfile(ctx context.Context, id string, role models.Role) error
	RevokeRefreshTokensForAccount(ctx context.Context, accountID string) error
}

type userProfileRepository interface {
	ByAccount(ctx context.Context, accountID string, role models.Role) (*models.Profile, error)
}

// UserService provides the administrator user directory use cases.
type UserService struct {
	accounts  userAccountRepository
	profiles  userProfileRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewUserService constructs a UserService instance.
func NewUserService(accounts userAccountRepository, profiles userProfileRepository, validate *validator.Validate, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &UserService{accounts: accounts, profiles: profiles, validator: validate, logger: logger}
}

// List returns one page of the user directory. Name sorts run over the
// returned page because the names come from three different profile tables.
func (s *UserService) List(ctx context.Context, req models.PagedRequest) ([]models.UserRow, int, error) {
	req.Normalize()

	nameSort := strings.EqualFold(req.SortColumn, "firstName") || strings.EqualFold(req.SortColumn, "lastName")
	repoReq := req
	if nameSort {
		repoReq.SortColumn = ""
	}

	rows, total, err := s.accounts.List(ctx, repoReq)
	if err != nil {
		if errors.Is(err, repository.ErrInvalidSortColumn) {
			return nil, 0, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "unknown sort column")
		}
		return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list users")
	}

	if nameSort {
		key := func(row models.UserRow) string { return row.FirstName }
		if strings.EqualFold(req.SortColumn, "lastName") {
			key = func(row models.UserRow) string { return row.LastName }
		}
		sort.SliceStable(rows, func(i, j int) bool {
			less := strings.ToLower(key(rows[i])) < strings.ToLower(key(rows[j]))
			if req.Descending() {
				return !less
			}
			return less
		})
	}
	return rows, total, nil
}

// Get returns one user joined with its role profile.
func (s *UserService) Get(ctx context.Context, id string) (*models.UserDetail, error) {
	account, err := s.accounts.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load user")
	}

	profile, err := s.profiles.ByAccount(ctx, id, account.Role)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user profile not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load user profile")
	}

	return &models.UserDetail{
		ID:        account.ID,
		FirstName: profile.FirstName,
		LastName:  profile.LastName,
		Email:     account.Email,
		Role:      account.Role,
		Active:    account.Active,
	}, nil
}

// Create provisions an account with its role profile in one transaction.
func (s *UserService) Create(ctx context.Context, req models.CreateUserRequest) (string, error) {
	if err := s.validator.Struct(req); err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid user payload")
	}
	if !req.Role.Valid() {
		return "", appErrors.Clone(appErrors.ErrValidation, "unknown role")
	}

	taken, err := s.accounts.ExistsByLoginOrEmail(ctx, req.Login, req.Email)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check account")
	}
	if taken {
		return "", appErrors.Clone(appErrors.ErrConflict, "login or email already in use")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	account := &models.Account{
		Login:        req.Login,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         req.Role,
		Active:       true,
	}
	profile := &models.Profile{FirstName: req.FirstName, LastName: req.LastName}

	id, err := s.accounts.CreateWithProfile(ctx, account, profile)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrTransaction.Code, appErrors.ErrTransaction.Status, "failed to create user")
	}
	s.logger.Info("user created", zap.String("account_id", id), zap.String("role", string(req.Role)))
	return id, nil
}

// Update edits an account and its profile. A missing account reports
// updated=false without raising an error.
func (s *UserService) Update(ctx context.Context, id string, req models.UpdateUserRequest) (bool, error) {
	if err := s.validator.Struct(req); err != nil {
		return false, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid user payload")
	}

	var passwordHash *string
	if req.Password != nil && *req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
		}
		hashed := string(hash)
		passwordHash = &hashed
	}

	updated, err := s.accounts.UpdateWithProfile(ctx, id, req.FirstName, req.LastName, req.Email, req.Active, passwordHash)
	if err != nil {
		return false, appErrors.Wrap(err, appErrors.ErrTransaction.Code, appErrors.ErrTransaction.Status, "failed to update user")
	}
	return updated, nil
}

// Delete removes an account and its profile row. Open sessions are revoked
// first.
func (s *UserService) Delete(ctx context.Context, id string) error {
	account, err := s.accounts.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load user")
	}

	if err := s.accounts.RevokeRefreshTokensForAccount(ctx, id); err != nil {
		s.logger.Warn("failed to revoke refresh tokens before delete", zap.Error(err))
	}

	if err := s.accounts.DeleteWithProfile(ctx, id, account.Role); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return appErrors.Wrap(err, appErrors.ErrTransaction.Code, appErrors.ErrTransaction.Status, "failed to delete user")
	}
	return nil
}

// Roles returns the fixed role set.
func (s *UserService) Roles() []models.Role {
	return models.Roles
}
