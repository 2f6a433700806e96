package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/schoolmgr/school-api/internal/models"
	appErrors "github.com/schoolmgr/school-api/pkg/errors"
)

type userAccountStub struct {
	rows      []models.UserRow
	total     int
	accounts  map[string]*models.Account
	exists    bool
	updated   bool
	updateErr error
	deleteErr error

	createdAccount *models.Account
	createdProfile *models.Profile
	passwordHash   *string
	revokedAccount string
}

func (s *userAccountStub) List(ctx context.Context, req models.PagedRequest) ([]models.UserRow, int, error) {
	return s.rows, s.total, nil
}

func (s *userAccountStub) FindByID(ctx context.Context, id string) (*models.Account, error) {
	if account, ok := s.accounts[id]; ok {
		return account, nil
	}
	return nil, sql.ErrNoRows
}

func (s *userAccountStub) ExistsByLoginOrEmail(ctx context.Context, login, email string) (bool, error) {
	return s.exists, nil
}

func (s *userAccountStub) CreateWithProfile(ctx context.Context, account *models.Account, profile *models.Profile) (string, error) {
	s.createdAccount = account
	s.createdProfile = profile
	return "acc-new", nil
}

func (s *userAccountStub) UpdateWithProfile(ctx context.Context, id string, firstName, lastName, email string, active bool, newPasswordHash *string) (bool, error) {
	s.passwordHash = newPasswordHash
	return s.updated, s.updateErr
}

func (s *userAccountStub) DeleteWithProfile(ctx context.Context, id string, role models.Role) error {
	return s.deleteErr
}

func (s *userAccountStub) RevokeRefreshTokensForAccount(ctx context.Context, accountID string) error {
	s.revokedAccount = accountID
	return nil
}

type userProfileStub struct {
	profiles map[string]*models.Profile
}

func (s userProfileStub) ByAccount(ctx context.Context, accountID string, role models.Role) (*models.Profile, error) {
	if p, ok := s.profiles[accountID]; ok {
		return p, nil
	}
	return nil, sql.ErrNoRows
}

func newUserServiceForTest(accounts *userAccountStub, profiles userProfileStub) *UserService {
	return NewUserService(accounts, profiles, nil, zap.NewNop())
}

func validCreateUserRequest() models.CreateUserRequest {
	return models.CreateUserRequest{
		FirstName: "Jan",
		LastName:  "Nowak",
		Login:     "jnowak",
		Email:     "jan@school.example",
		Password:  "longenough",
		Role:      models.RoleTeacher,
	}
}

func TestUserServiceListSortsNamesInMemory(t *testing.T) {
	accounts := &userAccountStub{
		rows: []models.UserRow{
			{FirstName: "zofia", LastName: "Adam"},
			{FirstName: "Anna", LastName: "Zielinska"},
			{FirstName: "marek", LastName: "Kowalski"},
		},
		total: 3,
	}
	svc := newUserServiceForTest(accounts, userProfileStub{})

	rows, total, err := svc.List(context.Background(), models.PagedRequest{SortColumn: "firstName"})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Equal(t, []string{"Anna", "marek", "zofia"}, []string{rows[0].FirstName, rows[1].FirstName, rows[2].FirstName})

	rows, _, err = svc.List(context.Background(), models.PagedRequest{SortColumn: "lastName", SortDirection: "desc"})
	require.NoError(t, err)
	assert.Equal(t, "Zielinska", rows[0].LastName)
	assert.Equal(t, "Adam", rows[2].LastName)
}

func TestUserServiceCreate(t *testing.T) {
	accounts := &userAccountStub{}
	svc := newUserServiceForTest(accounts, userProfileStub{})

	id, err := svc.Create(context.Background(), validCreateUserRequest())
	require.NoError(t, err)
	assert.Equal(t, "acc-new", id)
	require.NotNil(t, accounts.createdAccount)
	assert.True(t, accounts.createdAccount.Active)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(accounts.createdAccount.PasswordHash), []byte("longenough")))
	assert.Equal(t, "Jan", accounts.createdProfile.FirstName)
}

func TestUserServiceCreateConflict(t *testing.T) {
	svc := newUserServiceForTest(&userAccountStub{exists: true}, userProfileStub{})

	_, err := svc.Create(context.Background(), validCreateUserRequest())
	assert.ErrorIs(t, err, appErrors.ErrConflict)
}

func TestUserServiceCreateRejectsShortPassword(t *testing.T) {
	svc := newUserServiceForTest(&userAccountStub{}, userProfileStub{})

	req := validCreateUserRequest()
	req.Password = "short"
	_, err := svc.Create(context.Background(), req)
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}

func TestUserServiceCreateRejectsUnknownRole(t *testing.T) {
	svc := newUserServiceForTest(&userAccountStub{}, userProfileStub{})

	req := validCreateUserRequest()
	req.Role = models.Role("Janitor")
	_, err := svc.Create(context.Background(), req)
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}

func TestUserServiceUpdateSilentOnMissingAccount(t *testing.T) {
	svc := newUserServiceForTest(&userAccountStub{updated: false}, userProfileStub{})

	updated, err := svc.Update(context.Background(), "ghost", models.UpdateUserRequest{
		FirstName: "A", LastName: "B", Email: "a@b.example", Active: true,
	})
	require.NoError(t, err)
	assert.False(t, updated)
}

func TestUserServiceUpdateHashesNewPassword(t *testing.T) {
	accounts := &userAccountStub{updated: true}
	svc := newUserServiceForTest(accounts, userProfileStub{})

	password := "rotatedpass"
	updated, err := svc.Update(context.Background(), "acc-1", models.UpdateUserRequest{
		FirstName: "Jan", LastName: "Nowak", Email: "jan@school.example", Active: true, Password: &password,
	})
	require.NoError(t, err)
	assert.True(t, updated)
	require.NotNil(t, accounts.passwordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(*accounts.passwordHash), []byte(password)))
}

func TestUserServiceUpdateSkipsEmptyPassword(t *testing.T) {
	accounts := &userAccountStub{updated: true}
	svc := newUserServiceForTest(accounts, userProfileStub{})

	empty := ""
	_, err := svc.Update(context.Background(), "acc-1", models.UpdateUserRequest{
		FirstName: "Jan", LastName: "Nowak", Email: "jan@school.example", Active: true, Password: &empty,
	})
	require.NoError(t, err)
	assert.Nil(t, accounts.passwordHash)
}

func TestUserServiceDeleteRevokesSessionsFirst(t *testing.T) {
	accounts := &userAccountStub{accounts: map[string]*models.Account{
		"acc-1": {ID: "acc-1", Role: models.RoleStudent},
	}}
	svc := newUserServiceForTest(accounts, userProfileStub{})

	require.NoError(t, svc.Delete(context.Background(), "acc-1"))
	assert.Equal(t, "acc-1", accounts.revokedAccount)
}

func TestUserServiceDeleteNotFound(t *testing.T) {
	svc := newUserServiceForTest(&userAccountStub{}, userProfileStub{})

	err := svc.Delete(context.Background(), "ghost")
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestUserServiceGet(t *testing.T) {
	accounts := &userAccountStub{accounts: map[string]*models.Account{
		"acc-1": {ID: "acc-1", Email: "jan@school.example", Role: models.RoleTeacher, Active: true},
	}}
	profiles := userProfileStub{profiles: map[string]*models.Profile{
		"acc-1": {FirstName: "Jan", LastName: "Nowak"},
	}}
	svc := newUserServiceForTest(accounts, profiles)

	detail, err := svc.Get(context.Background(), "acc-1")
	require.NoError(t, err)
	assert.Equal(t, "Jan", detail.FirstName)
	assert.Equal(t, models.RoleTeacher, detail.Role)
}
