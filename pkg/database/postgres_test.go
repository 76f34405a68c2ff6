package database

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thegioirubik/lubestation-service/pkg/config"
)

func TestDSN(t *testing.T) {
	dsn := DSN(config.PostgresConfig{Host: "db", Port: "5432", User: "u", Password: "p", DBName: "shop", SSLMode: "require"})
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=shop sslmode=require", dsn)
}

func TestMigrate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS a").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE INDEX IF NOT EXISTS b").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	c := NewFromDB(db, nil)
	require.NoError(t, c.Migrate(context.Background(), "CREATE TABLE IF NOT EXISTS a (id int)", "CREATE INDEX IF NOT EXISTS b ON a (id)"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrate_RollsBackOnFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("CREATE TABLE").WillReturnError(errors.New("permission denied"))
	mock.ExpectRollback()

	err = NewFromDB(db, nil).Migrate(context.Background(), "CREATE TABLE x (id int)")
	assert.ErrorContains(t, err, "permission denied")
	assert.NoError(t, mock.ExpectationsWereMet())
}
