package repository

import (
	"context"
	"database/sql"
	"time"

	"accounts/internal/models"
)

// AccountRepository persists accounts. Every write is atomic per account.
type AccountRepository interface {
	// Create inserts a new account. It returns ErrDuplicate when the email
	// is already taken, so concurrent registrations cannot both succeed.
	Create(ctx context.Context, account *models.Account) error
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
	GetByVerifyToken(ctx context.Context, tokenHash string) (*models.Account, error)
	// Update replaces the stored account document with the given one and
	// bumps its Version. It returns ErrStale when the stored Version no longer
	// matches the one that was read.
	Update(ctx context.Context, account *models.Account) error
	Ping(ctx context.Context) error
}

type accountRepository struct {
	db *sql.DB
}

func NewAccountRepository(db *sql.DB) AccountRepository {
	return &accountRepository{db: db}
}

const accountColumns = `id, name, email, password_hash, email_verified,
		verify_token_hash, verify_token_expires_at,
		reset_token_hash, reset_token_expires_at,
		created_at, updated_at, version`

func (r *accountRepository) Create(ctx context.Context, a *models.Account) error {
	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING created_at
	`

	err := r.db.QueryRowContext(ctx, query,
		a.ID, a.Name, a.Email, a.PasswordHash, a.EmailVerified,
		nullString(a.VerifyTokenHash), nullTime(a.VerifyTokenExpiresAt),
		nullString(a.ResetTokenHash), nullTime(a.ResetTokenExpiresAt),
		a.CreatedAt, a.UpdatedAt, a.Version,
	).Scan(&a.CreatedAt)
	return mapDBErr(err)
}

func (r *accountRepository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE email = $1
	`
	return r.getOne(ctx, query, email)
}

func (r *accountRepository) GetByVerifyToken(ctx context.Context, tokenHash string) (*models.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE verify_token_hash = $1
	`
	return r.getOne(ctx, query, tokenHash)
}

func (r *accountRepository) getOne(ctx context.Context, query string, arg any) (*models.Account, error) {
	var (
		a                         models.Account
		verifyHash, resetHash     sql.NullString
		verifyExpires, resetExpir sql.NullTime
	)
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&a.ID, &a.Name, &a.Email, &a.PasswordHash, &a.EmailVerified,
		&verifyHash, &verifyExpires,
		&resetHash, &resetExpir,
		&a.CreatedAt, &a.UpdatedAt, &a.Version,
	)
	if err != nil {
		return nil, mapDBErr(err)
	}

	a.VerifyTokenHash = verifyHash.String
	a.ResetTokenHash = resetHash.String
	if verifyExpires.Valid {
		a.VerifyTokenExpiresAt = &verifyExpires.Time
	}
	if resetExpir.Valid {
		a.ResetTokenExpiresAt = &resetExpir.Time
	}
	return &a, nil
}

func (r *accountRepository) Update(ctx context.Context, a *models.Account) error {
	query := `
		UPDATE accounts
		SET name = $1,
			password_hash = $2,
			email_verified = $3,
			verify_token_hash = $4,
			verify_token_expires_at = $5,
			reset_token_hash = $6,
			reset_token_expires_at = $7,
			updated_at = $8,
			version = version + 1
		WHERE id = $9 AND version = $10
	`
	res, err := r.db.ExecContext(ctx, query,
		a.Name, a.PasswordHash, a.EmailVerified,
		nullString(a.VerifyTokenHash), nullTime(a.VerifyTokenExpiresAt),
		nullString(a.ResetTokenHash), nullTime(a.ResetTokenExpiresAt),
		a.UpdatedAt, a.ID, a.Version,
	)
	if err != nil {
		return mapDBErr(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return r.missOrStale(ctx, a.ID)
	}
	a.Version++
	return nil
}

func (r *accountRepository) missOrStale(ctx context.Context, id string) error {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM accounts WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return mapDBErr(err)
	}
	if !exists {
		return ErrNotFound
	}
	return ErrStale
}

func (r *accountRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
