package repositories

import (
	"context"
	"database/sql"
	"errors"

	"userservice/internal/models"
)

// ErrResetTokenNotFound is returned when a consume transaction finds no
// account for the presented token.
var ErrResetTokenNotFound = errors.New("reset token not found")

type AccountRepository interface {
	// FindByIdentity matches username OR email with no enabled filter.
	// Returns (nil, nil) when nothing matches.
	FindByIdentity(identity string) (*models.Account, error)
	// FindEnabledByIdentity is the sign-in lookup: same match restricted
	// to enabled accounts, salt and hash included.
	FindEnabledByIdentity(identity string) (*models.Account, error)
	Insert(account *models.Account) error
	FindByResetToken(token string) (*models.Account, error)

	// Multi-statement transactions, all serializable and all-or-nothing.
	DisableAndIssueResetToken(accountID int64, token string) error
	CreateWithResetToken(username, email, token string) (int64, error)
	ConsumeResetToken(token, salt, hash string) (int64, error)
}

type accountRepository struct {
	DB *sql.DB
}

func NewAccountRepository(db *sql.DB) AccountRepository {
	return &accountRepository{DB: db}
}

func (r *accountRepository) FindByIdentity(identity string) (*models.Account, error) {
	const q = `
		SELECT id, username, email, enabled, created_at, updated_at
		FROM accounts
		WHERE username = $1 OR email = $1
		LIMIT 1
	`
	a := &models.Account{}
	err := r.DB.QueryRow(q, identity).Scan(
		&a.ID, &a.Username, &a.Email, &a.Enabled, &a.CreatedAt, &a.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *accountRepository) FindEnabledByIdentity(identity string) (*models.Account, error) {
	const q = `
		SELECT id, username, email, salt, password_hash, enabled, created_at, updated_at
		FROM accounts
		WHERE (username = $1 OR email = $1) AND enabled = TRUE
		LIMIT 1
	`
	a := &models.Account{}
	var salt, hash sql.NullString
	err := r.DB.QueryRow(q, identity).Scan(
		&a.ID, &a.Username, &a.Email, &salt, &hash, &a.Enabled, &a.CreatedAt, &a.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if salt.Valid {
		s := salt.String
		a.Salt = &s
	}
	if hash.Valid {
		h := hash.String
		a.PasswordHash = &h
	}
	return a, nil
}

func (r *accountRepository) Insert(account *models.Account) error {
	const q = `
		INSERT INTO accounts (username, email, salt, password_hash, enabled)
		VALUES ($1, $2, $3, $4, TRUE)
		RETURNING id
	`
	return r.DB.QueryRow(q,
		account.Username,
		account.Email,
		account.Salt,
		account.PasswordHash,
	).Scan(&account.ID)
}

func (r *accountRepository) FindByResetToken(token string) (*models.Account, error) {
	const q = `
		SELECT a.id, a.username, a.email, a.enabled, a.created_at, a.updated_at
		FROM accounts a
		INNER JOIN reset_tokens rt ON a.id = rt.account_id
		WHERE rt.token = $1
		LIMIT 1
	`
	a := &models.Account{}
	err := r.DB.QueryRow(q, token).Scan(
		&a.ID, &a.Username, &a.Email, &a.Enabled, &a.CreatedAt, &a.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

// DisableAndIssueResetToken disables the account and records a fresh
// token. Previously issued tokens are removed in the same transaction,
// so only the newest token can complete the reset.
func (r *accountRepository) DisableAndIssueResetToken(accountID int64, token string) error {
	tx, err := r.DB.BeginTx(context.Background(), &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM reset_tokens WHERE account_id = $1`, accountID); err != nil {
		return err
	}
	if _, err := tx.Exec(`UPDATE accounts SET enabled = FALSE, updated_at = NOW() WHERE id = $1`, accountID); err != nil {
		return err
	}
	if _, err := tx.Exec(`INSERT INTO reset_tokens (account_id, token) VALUES ($1, $2)`, accountID, token); err != nil {
		return err
	}
	return tx.Commit()
}

// CreateWithResetToken inserts a disabled, passwordless account together
// with its first reset token.
func (r *accountRepository) CreateWithResetToken(username, email, token string) (int64, error) {
	tx, err := r.DB.BeginTx(context.Background(), &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	var accountID int64
	const insertAccount = `
		INSERT INTO accounts (username, email, enabled)
		VALUES ($1, $2, FALSE)
		RETURNING id
	`
	if err := tx.QueryRow(insertAccount, username, email).Scan(&accountID); err != nil {
		return 0, err
	}
	if _, err := tx.Exec(`INSERT INTO reset_tokens (account_id, token) VALUES ($1, $2)`, accountID, token); err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return accountID, nil
}

// ConsumeResetToken re-enables the owning account with the new salt and
// hash and deletes every outstanding token for it, so a token can be
// spent at most once.
func (r *accountRepository) ConsumeResetToken(token, salt, hash string) (int64, error) {
	tx, err := r.DB.BeginTx(context.Background(), &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	var accountID int64
	err = tx.QueryRow(`SELECT account_id FROM reset_tokens WHERE token = $1`, token).Scan(&accountID)
	if err == sql.ErrNoRows {
		return 0, ErrResetTokenNotFound
	}
	if err != nil {
		return 0, err
	}

	const updateAccount = `
		UPDATE accounts
		SET enabled = TRUE, salt = $1, password_hash = $2, updated_at = NOW()
		WHERE id = $3
	`
	if _, err := tx.Exec(updateAccount, salt, hash, accountID); err != nil {
		return 0, err
	}
	if _, err := tx.Exec(`DELETE FROM reset_tokens WHERE account_id = $1`, accountID); err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return accountID, nil
}
