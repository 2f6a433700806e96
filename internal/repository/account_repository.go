package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/schoolmgr/school-api/internal/models"
)

// userSortColumns maps exposed sort keys onto directory list columns. Name
// sorting is handled outside the query because the names live in three
// different profile tables.
var userSortColumns = map[string]string{
	"email":               "a.email",
	"role":                "a.role",
	"lastSuccessfulLogin": "a.last_login",
	"dateAdded":           "a.created_at",
}

// AccountRepository manages accounts, their role profiles and their tokens.
type AccountRepository struct {
	db *sqlx.DB
}

// NewAccountRepository creates a new repository.
func NewAccountRepository(db *sqlx.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// FindByLogin returns the account matching a login or email.
func (r *AccountRepository) FindByLogin(ctx context.Context, login string) (*models.Account, error) {
	const query = `
SELECT id, login, email, password_hash, role, active, last_login, created_at, updated_at
FROM accounts
WHERE login = $1 OR email = $1`
	var account models.Account
	if err := r.db.GetContext(ctx, &account, query, login); err != nil {
		return nil, fmt.Errorf("find account by login: %w", err)
	}
	return &account, nil
}

// FindByID returns one account.
func (r *AccountRepository) FindByID(ctx context.Context, id string) (*models.Account, error) {
	const query = `
SELECT id, login, email, password_hash, role, active, last_login, created_at, updated_at
FROM accounts
WHERE id = $1`
	var account models.Account
	if err := r.db.GetContext(ctx, &account, query, id); err != nil {
		return nil, fmt.Errorf("find account %s: %w", id, err)
	}
	return &account, nil
}

const userRowSelect = `
SELECT a.id,
       COALESCE(ad.first_name, t.first_name, st.first_name, '') AS first_name,
       COALESCE(ad.last_name, t.last_name, st.last_name, '') AS last_name,
       a.email, a.role, a.active, a.created_at, a.last_login
FROM accounts a
LEFT JOIN admins ad ON ad.account_id = a.id
LEFT JOIN teachers t ON t.account_id = a.id
LEFT JOIN students st ON st.account_id = a.id`

// List returns one page of the user directory with the total count. Search
// matches the role name as a substring.
func (r *AccountRepository) List(ctx context.Context, req models.PagedRequest) ([]models.UserRow, int, error) {
	order, err := orderBy(req, userSortColumns, "a.role ASC")
	if err != nil {
		return nil, 0, err
	}

	var clauses []string
	var args []interface{}
	if req.Search != "" {
		args = append(args, "%"+req.Search+"%")
		clauses = append(clauses, fmt.Sprintf("a.role ILIKE $%d", len(args)))
	}
	where := ""
	if len(clauses) > 0 {
		where = " WHERE " + strings.Join(clauses, " AND ")
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM accounts a"+where, args...); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	pageArgs := append(args, req.PageSize, req.Offset())
	query := fmt.Sprintf("%s%s ORDER BY %s LIMIT $%d OFFSET $%d",
		userRowSelect, where, order, len(args)+1, len(args)+2)

	var rows []models.UserRow
	if err := r.db.SelectContext(ctx, &rows, query, pageArgs...); err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	return rows, total, nil
}

// CreateWithProfile inserts an account and its role profile row in one
// transaction and returns the account id.
func (r *AccountRepository) CreateWithProfile(ctx context.Context, account *models.Account, profile *models.Profile) (id string, err error) {
	table, err := models.ProfileTable(account.Role)
	if err != nil {
		return "", err
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	id = uuid.NewString()
	if _, err = tx.ExecContext(ctx, `
INSERT INTO accounts (id, login, email, password_hash, role, active, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())`,
		id, account.Login, account.Email, account.PasswordHash, account.Role, account.Active,
	); err != nil {
		return "", fmt.Errorf("create account: %w", err)
	}

	insertProfile := fmt.Sprintf(
		`INSERT INTO %s (account_id, first_name, last_name) VALUES ($1, $2, $3)`, table)
	if _, err = tx.ExecContext(ctx, insertProfile, id, profile.FirstName, profile.LastName); err != nil {
		return "", fmt.Errorf("create %s profile: %w", account.Role, err)
	}

	if err = tx.Commit(); err != nil {
		return "", fmt.Errorf("commit transaction: %w", err)
	}
	return id, nil
}

// DeleteWithProfile removes an account and its profile row. The profile row
// goes first so the account delete never races a restricting reference.
func (r *AccountRepository) DeleteWithProfile(ctx context.Context, id string, role models.Role) (err error) {
	table, err := models.ProfileTable(role)
	if err != nil {
		return err
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	deleteProfile := fmt.Sprintf(`DELETE FROM %s WHERE account_id = $1`, table)
	if _, err = tx.ExecContext(ctx, deleteProfile, id); err != nil {
		return fmt.Errorf("delete %s profile: %w", role, err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	if affected == 0 {
		err = sql.ErrNoRows
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// UpdateWithProfile applies name, email and active changes and, when a new
// password is supplied, rotates it through a reset token inside the same
// transaction. A missing account reports updated=false without error.
func (r *AccountRepository) UpdateWithProfile(ctx context.Context, id string, firstName, lastName, email string, active bool, newPasswordHash *string) (updated bool, err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var role models.Role
	err = tx.GetContext(ctx, &role, `SELECT role FROM accounts WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		err = nil
		_ = tx.Rollback()
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("load account role: %w", err)
	}

	// Login follows the email so both credentials stay usable for sign-in.
	if _, err = tx.ExecContext(ctx, `
UPDATE accounts SET login = $2, email = $2, active = $3, updated_at = NOW() WHERE id = $1`,
		id, email, active,
	); err != nil {
		return false, fmt.Errorf("update account: %w", err)
	}

	table, err := models.ProfileTable(role)
	if err != nil {
		return false, err
	}
	updateProfile := fmt.Sprintf(
		`UPDATE %s SET first_name = $2, last_name = $3 WHERE account_id = $1`, table)
	if _, err = tx.ExecContext(ctx, updateProfile, id, firstName, lastName); err != nil {
		return false, fmt.Errorf("update %s profile: %w", role, err)
	}

	if newPasswordHash != nil {
		if err = r.rotatePassword(ctx, tx, id, *newPasswordHash); err != nil {
			return false, err
		}
	}

	if err = tx.Commit(); err != nil {
		return false, fmt.Errorf("commit transaction: %w", err)
	}
	return true, nil
}

// rotatePassword issues a reset token, consumes it and applies the new hash.
// The token row stays behind as the audit trail of the change.
func (r *AccountRepository) rotatePassword(ctx context.Context, tx *sqlx.Tx, accountID, passwordHash string) error {
	token := uuid.NewString()
	if _, err := tx.ExecContext(ctx, `
INSERT INTO password_reset_tokens (id, account_id, token, expires_at, created_at, consumed)
VALUES ($1, $2, $3, $4, NOW(), FALSE)`,
		uuid.NewString(), accountID, token, time.Now().Add(15*time.Minute),
	); err != nil {
		return fmt.Errorf("issue reset token: %w", err)
	}

	result, err := tx.ExecContext(ctx, `
UPDATE password_reset_tokens SET consumed = TRUE
WHERE account_id = $1 AND token = $2 AND consumed = FALSE AND expires_at > NOW()`,
		accountID, token)
	if err != nil {
		return fmt.Errorf("consume reset token: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("consume reset token: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("consume reset token: %w", sql.ErrNoRows)
	}

	if _, err := tx.ExecContext(ctx, `
UPDATE accounts SET password_hash = $2, updated_at = NOW() WHERE id = $1`,
		accountID, passwordHash,
	); err != nil {
		return fmt.Errorf("apply password: %w", err)
	}
	return nil
}

// UpdateLastLogin stamps a successful login.
func (r *AccountRepository) UpdateLastLogin(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE accounts SET last_login = NOW() WHERE id = $1`, id); err != nil {
		return fmt.Errorf("update last login: %w", err)
	}
	return nil
}

// SaveRefreshToken persists an issued refresh token.
func (r *AccountRepository) SaveRefreshToken(ctx context.Context, token *models.RefreshToken) error {
	const query = `
INSERT INTO refresh_tokens (id, account_id, token, expires_at, created_at, revoked)
VALUES ($1, $2, $3, $4, NOW(), FALSE)`
	if _, err := r.db.ExecContext(ctx, query,
		uuid.NewString(), token.AccountID, token.Token, token.ExpiresAt,
	); err != nil {
		return fmt.Errorf("save refresh token: %w", err)
	}
	return nil
}

// FindRefreshToken returns a live refresh token row.
func (r *AccountRepository) FindRefreshToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	const query = `
SELECT id, account_id, token, expires_at, created_at, revoked, revoked_at
FROM refresh_tokens
WHERE token = $1 AND revoked = FALSE AND expires_at > NOW()`
	var row models.RefreshToken
	if err := r.db.GetContext(ctx, &row, query, token); err != nil {
		return nil, fmt.Errorf("find refresh token: %w", err)
	}
	return &row, nil
}

// RevokeRefreshToken marks one refresh token revoked.
func (r *AccountRepository) RevokeRefreshToken(ctx context.Context, token string) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE refresh_tokens SET revoked = TRUE, revoked_at = NOW() WHERE token = $1`, token); err != nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}
	return nil
}

// RevokeRefreshTokensForAccount revokes every live token of one account.
func (r *AccountRepository) RevokeRefreshTokensForAccount(ctx context.Context, accountID string) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE refresh_tokens SET revoked = TRUE, revoked_at = NOW() WHERE account_id = $1 AND revoked = FALSE`,
		accountID); err != nil {
		return fmt.Errorf("revoke account refresh tokens: %w", err)
	}
	return nil
}

// ExistsByLoginOrEmail reports whether a login or email is already taken.
func (r *AccountRepository) ExistsByLoginOrEmail(ctx context.Context, login, email string) (bool, error) {
	const query = `SELECT EXISTS(SELECT 1 FROM accounts WHERE login = $1 OR email = $2)`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, login, email); err != nil {
		return false, fmt.Errorf("check account exists: %w", err)
	}
	return exists, nil
}

// CountByRole returns how many accounts hold a role. Bootstrap uses it to
// decide whether to seed the first administrator.
func (r *AccountRepository) CountByRole(ctx context.Context, role models.Role) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM accounts WHERE role = $1`, role); err != nil {
		return 0, fmt.Errorf("count accounts by role: %w", err)
	}
	return count, nil
}
