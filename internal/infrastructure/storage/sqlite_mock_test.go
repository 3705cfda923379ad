package storage

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/mrops-br/shophub-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockedSQLiteStore(t *testing.T) (*SQLiteStore, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS kv_store")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	s, err := NewSQLiteStore(db)
	require.NoError(t, err)
	return s, mock
}

func TestSQLiteStore_SetPropagatesWriteFailure(t *testing.T) {
	s, mock := newMockedSQLiteStore(t)
	diskFull := errors.New("database or disk is full")

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO kv_store")).
		WithArgs("shopHub-cart", "[]", sqlmock.AnyArg()).
		WillReturnError(diskFull)

	err := s.Set(context.Background(), "shopHub-cart", "[]")
	assert.ErrorIs(t, err, diskFull)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteStore_GetMissingRow(t *testing.T) {
	s, mock := newMockedSQLiteStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT value FROM kv_store WHERE key = ?")).
		WithArgs("shopHub-cart").
		WillReturnRows(sqlmock.NewRows([]string{"value"}))

	_, err := s.Get(context.Background(), "shopHub-cart")
	assert.ErrorIs(t, err, domain.ErrKeyNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteStore_GetReadFailure(t *testing.T) {
	s, mock := newMockedSQLiteStore(t)
	ioErr := errors.New("disk I/O error")

	mock.ExpectQuery(regexp.QuoteMeta("SELECT value FROM kv_store")).
		WithArgs("shopHub-cart").
		WillReturnError(ioErr)

	_, err := s.Get(context.Background(), "shopHub-cart")
	assert.ErrorIs(t, err, ioErr)
	assert.NotErrorIs(t, err, domain.ErrKeyNotFound)
}

func TestNewSQLiteStore_MigrationFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("CREATE TABLE").WillReturnError(errors.New("readonly database"))

	_, err = NewSQLiteStore(db)
	assert.ErrorContains(t, err, "failed to migrate sqlite store")
}
