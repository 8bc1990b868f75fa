package repo

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"resume-api/internal/domain"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func TestSectionRepoGetMapsNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	r := NewSectionRepo[domain.Skill](db)

	mock.ExpectQuery(`SELECT \* FROM "skills" WHERE "skills"."id" = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "title", "rate"}))

	_, err := r.Get(context.Background(), 5)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSectionRepoListScopesAndOrders(t *testing.T) {
	db, mock := newMockDB(t)
	r := NewSectionRepo[domain.Skill](db)

	mock.ExpectQuery(`SELECT \* FROM "skills" WHERE user_id = \$1 ORDER BY title ASC, id ASC`).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "title", "rate"}).
			AddRow(1, 7, "Go", 5).
			AddRow(2, 7, "SQL", 3))

	got, err := r.List(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Go", got[0].Title)
	assert.Equal(t, uint(7), got[1].UserID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSectionRepoDeleteMissingRow(t *testing.T) {
	db, mock := newMockDB(t)
	r := NewSectionRepo[domain.Skill](db)

	mock.ExpectExec(`DELETE FROM "skills" WHERE "skills"."id" = \$1`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, r.Delete(context.Background(), 9), domain.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepoCreateDuplicateEmail(t *testing.T) {
	db, mock := newMockDB(t)
	r := NewUserRepo(db)

	// 经 TranslateError 后只剩 gorm.ErrDuplicatedKey，列名靠回查
	mock.ExpectQuery(`INSERT INTO "users"`).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "idx_users_email"})
	mock.ExpectQuery(`SELECT count\(\*\) FROM "users" WHERE email = \$1 AND id <> \$2`).
		WithArgs("alice@example.com", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	err := r.Create(context.Background(), &domain.User{Username: "alice", Email: "alice@example.com", Role: domain.RoleUser})
	require.ErrorIs(t, err, domain.ErrDuplicateField)
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, []string{"Email address is already in use."}, ve.Fields["email"])
	assert.NotContains(t, ve.Fields, "username")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepoCreateDuplicateUsername(t *testing.T) {
	db, mock := newMockDB(t)
	r := NewUserRepo(db)

	mock.ExpectQuery(`INSERT INTO "users"`).
		WillReturnError(errors.New(`ERROR: duplicate key value violates unique constraint "idx_users_username" (SQLSTATE 23505)`))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "users" WHERE email = \$1 AND id <> \$2`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	err := r.Create(context.Background(), &domain.User{Username: "alice", Email: "new@example.com", Role: domain.RoleUser})
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, []string{"Username is already taken."}, ve.Fields["username"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepoDeleteCascadesInTransaction(t *testing.T) {
	db, mock := newMockDB(t)
	r := NewUserRepo(db)

	mock.ExpectBegin()
	for _, table := range []string{"skills", "educations", "certificates", "experiences", "bios"} {
		mock.ExpectExec(`DELETE FROM "` + table + `" WHERE user_id = \$1`).
			WithArgs(3).
			WillReturnResult(sqlmock.NewResult(0, 1))
	}
	mock.ExpectExec(`DELETE FROM "users" WHERE "users"."id" = \$1`).
		WithArgs(3).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, r.Delete(context.Background(), 3))
	require.NoError(t, mock.ExpectationsWereMet())
}
