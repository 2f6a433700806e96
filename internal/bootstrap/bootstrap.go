package bootstrap

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/schoolmgr/school-api/internal/models"
	"github.com/schoolmgr/school-api/pkg/config"
)

type accountRepository interface {
	CountByRole(ctx context.Context, role models.Role) (int, error)
	ExistsByLoginOrEmail(ctx context.Context, login, email string) (bool, error)
	CreateWithProfile(ctx context.Context, account *models.Account, profile *models.Profile) (string, error)
}

// SeedAdmin provisions the first administrator account from configuration.
// It is a no-op when an administrator already exists or the config is empty.
func SeedAdmin(ctx context.Context, repo accountRepository, cfg config.AdminAccountConfig, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Email == "" || cfg.Password == "" {
		logger.Info("admin seeding skipped, no admin credentials configured")
		return nil
	}

	count, err := repo.CountByRole(ctx, models.RoleAdministrator)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	taken, err := repo.ExistsByLoginOrEmail(ctx, cfg.Email, cfg.Email)
	if err != nil {
		return err
	}
	if taken {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	account := &models.Account{
		Login:        cfg.Email,
		Email:        cfg.Email,
		PasswordHash: string(hash),
		Role:         models.RoleAdministrator,
		Active:       true,
	}
	profile := &models.Profile{FirstName: cfg.FirstName, LastName: cfg.LastName}

	id, err := repo.CreateWithProfile(ctx, account, profile)
	if err != nil {
		return err
	}
	logger.Info("initial administrator seeded", zap.String("account_id", id), zap.String("email", cfg.Email))
	return nil
}
