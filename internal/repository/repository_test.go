package repository

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/require"

	"github.com/prajwalvathreya/nba-project-backend/internal/database"
)

func newMock(t *testing.T) (*database.Gateway, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return database.NewGateway(db, nil), mock
}

// expectCall queues a successful procedure call returning rows.
func expectCall(mock sqlmock.Sqlmock, pattern string, rows *sqlmock.Rows) *sqlmock.ExpectedQuery {
	mock.ExpectBegin()
	q := mock.ExpectQuery(pattern).WillReturnRows(rows)
	mock.ExpectCommit()
	return q
}

// expectSignal queues a procedure call failing with a SIGNAL.
func expectSignal(mock sqlmock.Sqlmock, pattern string, code uint16, msg string) {
	mock.ExpectBegin()
	mock.ExpectQuery(pattern).WillReturnError(&mysql.MySQLError{Number: code, Message: msg})
	mock.ExpectRollback()
}
