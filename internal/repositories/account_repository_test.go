package repositories

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"userservice/internal/models"
)

func newMockRepo(t *testing.T) (AccountRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewAccountRepository(db), mock
}

func accountColumns() []string {
	return []string{"id", "username", "email", "enabled", "created_at", "updated_at"}
}

func TestFindByIdentity_Found(t *testing.T) {
	t.Parallel()

	repo, mock := newMockRepo(t)
	now := time.Now()
	mock.ExpectQuery(`SELECT id, username, email, enabled, created_at, updated_at\s+FROM accounts`).
		WithArgs("ana@x.com").
		WillReturnRows(sqlmock.NewRows(accountColumns()).
			AddRow(1, "ana", "ana@x.com", true, now, now))

	a, err := repo.FindByIdentity("ana@x.com")
	require.NoError(t, err)
	require.NotNil(t, a)
	assert.Equal(t, int64(1), a.ID)
	assert.Equal(t, "ana", a.Username)
	assert.True(t, a.Enabled)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByIdentity_NoMatchIsNotAnError(t *testing.T) {
	t.Parallel()

	repo, mock := newMockRepo(t)
	mock.ExpectQuery(`FROM accounts`).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	a, err := repo.FindByIdentity("ghost")
	require.NoError(t, err)
	assert.Nil(t, a)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindEnabledByIdentity_NullCredentialMaterial(t *testing.T) {
	t.Parallel()

	repo, mock := newMockRepo(t)
	now := time.Now()
	mock.ExpectQuery(`AND enabled = TRUE`).
		WithArgs("ana").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "username", "email", "salt", "password_hash", "enabled", "created_at", "updated_at",
		}).AddRow(1, "ana", "ana@x.com", nil, nil, true, now, now))

	a, err := repo.FindEnabledByIdentity("ana")
	require.NoError(t, err)
	require.NotNil(t, a)
	assert.Nil(t, a.Salt)
	assert.Nil(t, a.PasswordHash)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsert_ScansGeneratedID(t *testing.T) {
	t.Parallel()

	repo, mock := newMockRepo(t)
	salt, hash := "abcd", "$2a$10$hash"
	mock.ExpectQuery(`INSERT INTO accounts`).
		WithArgs("ana", "ana@x.com", salt, hash).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(42))

	account := &models.Account{Username: "ana", Email: "ana@x.com", Salt: &salt, PasswordHash: &hash}
	require.NoError(t, repo.Insert(account))
	assert.Equal(t, int64(42), account.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByResetToken_JoinsThroughTokens(t *testing.T) {
	t.Parallel()

	repo, mock := newMockRepo(t)
	now := time.Now()
	mock.ExpectQuery(`INNER JOIN reset_tokens`).
		WithArgs("tok123").
		WillReturnRows(sqlmock.NewRows(accountColumns()).
			AddRow(7, "ana", "ana@x.com", false, now, now))

	a, err := repo.FindByResetToken("tok123")
	require.NoError(t, err)
	require.NotNil(t, a)
	assert.Equal(t, int64(7), a.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDisableAndIssueResetToken_TransactionOrder(t *testing.T) {
	t.Parallel()

	repo, mock := newMockRepo(t)
	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM reset_tokens WHERE account_id`).
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE accounts SET enabled = FALSE`).
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO reset_tokens`).
		WithArgs(int64(7), "tok123").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.DisableAndIssueResetToken(7, "tok123"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDisableAndIssueResetToken_RollsBackOnFailure(t *testing.T) {
	t.Parallel()

	repo, mock := newMockRepo(t)
	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM reset_tokens WHERE account_id`).
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`UPDATE accounts SET enabled = FALSE`).
		WithArgs(int64(7)).
		WillReturnError(errors.New("deadlock detected"))
	mock.ExpectRollback()

	err := repo.DisableAndIssueResetToken(7, "tok123")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "deadlock")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateWithResetToken_AllOrNothing(t *testing.T) {
	t.Parallel()

	repo, mock := newMockRepo(t)
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO accounts`).
		WithArgs("ana", "ana@x.com").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(9))
	mock.ExpectExec(`INSERT INTO reset_tokens`).
		WithArgs(int64(9), "tok123").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	id, err := repo.CreateWithResetToken("ana", "ana@x.com", "tok123")
	require.NoError(t, err)
	assert.Equal(t, int64(9), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateWithResetToken_RollsBackWhenTokenInsertFails(t *testing.T) {
	t.Parallel()

	repo, mock := newMockRepo(t)
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO accounts`).
		WithArgs("ana", "ana@x.com").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(9))
	mock.ExpectExec(`INSERT INTO reset_tokens`).
		WithArgs(int64(9), "tok123").
		WillReturnError(errors.New("constraint violation"))
	mock.ExpectRollback()

	_, err := repo.CreateWithResetToken("ana", "ana@x.com", "tok123")
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConsumeResetToken_EnablesAndDeletesAllTokens(t *testing.T) {
	t.Parallel()

	repo, mock := newMockRepo(t)
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT account_id FROM reset_tokens WHERE token`).
		WithArgs("tok123").
		WillReturnRows(sqlmock.NewRows([]string{"account_id"}).AddRow(7))
	mock.ExpectExec(`UPDATE accounts`).
		WithArgs("abcd", "$2a$10$hash", int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM reset_tokens WHERE account_id`).
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	id, err := repo.ConsumeResetToken("tok123", "abcd", "$2a$10$hash")
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConsumeResetToken_UnknownToken(t *testing.T) {
	t.Parallel()

	repo, mock := newMockRepo(t)
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT account_id FROM reset_tokens WHERE token`).
		WithArgs("stale").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	_, err := repo.ConsumeResetToken("stale", "abcd", "hash")
	require.ErrorIs(t, err, ErrResetTokenNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
