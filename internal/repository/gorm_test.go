package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/movieshelf/internal/model"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

var userColumns = []string{"id", "name", "email", "password_hash", "salt", "created_at", "updated_at"}

func TestUserRepository_FindByEmail(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)
	now := time.Now()

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE email = \$1`).
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow("u1", "Ana", "ana@x.com", "hash", []byte("0123456789abcdef"), now, now))

	user, err := repo.FindByEmail(context.Background(), "ana@x.com")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "u1", user.ID)
	assert.Equal(t, "hash", user.PasswordHash)
	assert.Equal(t, []byte("0123456789abcdef"), user.Salt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_FindByEmail_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE email = \$1`).
		WillReturnRows(sqlmock.NewRows(userColumns))

	user, err := repo.FindByEmail(context.Background(), "nope@x.com")
	require.NoError(t, err)
	assert.Nil(t, user)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Insert_Duplicate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "users"`).
		WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "uq_users_email"})
	mock.ExpectRollback()

	err := repo.Insert(context.Background(), &model.User{
		ID: "u2", Name: "Ana", Email: "ana@x.com", PasswordHash: "h", Salt: []byte("0123456789abcdef"),
	})
	assert.ErrorIs(t, err, ErrDuplicate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Update(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "users" SET`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	ok, err := repo.Update(context.Background(), &model.User{ID: "u1", Email: "ana@x.com", PasswordHash: "h2"})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Update_Missing(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "users" SET`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	ok, err := repo.Update(context.Background(), &model.User{ID: "missing", PasswordHash: "h"})
	require.NoError(t, err)
	assert.False(t, ok)
}

var favoriteColumns = []string{"id", "user_id", "catalog_id", "title", "year", "director", "poster", "created_at"}

func TestFavoriteRepository_QueryByUser(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewFavoriteRepository(db)
	now := time.Now()

	mock.ExpectQuery(`SELECT \* FROM "favorites" WHERE user_id = \$1 AND .*strpos\(title, \$2\) > 0.* ORDER BY created_at DESC,\s*id`).
		WillReturnRows(sqlmock.NewRows(favoriteColumns).
			AddRow("f1", "u1", "tt1375666", "Inception", "2010", "Christopher Nolan", "", now))

	favorites, err := repo.QueryByUser(context.Background(), "u1", "Incep", 0, 10)
	require.NoError(t, err)
	require.Len(t, favorites, 1)
	assert.Equal(t, "tt1375666", favorites[0].CatalogID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFavoriteRepository_QueryByUser_NoFilter(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewFavoriteRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "favorites" WHERE user_id = \$1 ORDER BY`).
		WillReturnRows(sqlmock.NewRows(favoriteColumns))

	favorites, err := repo.QueryByUser(context.Background(), "u1", "", 0, 10)
	require.NoError(t, err)
	assert.NotNil(t, favorites)
	assert.Empty(t, favorites)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFavoriteRepository_Delete(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewFavoriteRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "favorites" WHERE user_id = \$1 AND id = \$2`).
		WithArgs("u1", "f1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Delete(context.Background(), &model.Favorite{ID: "f1", UserID: "u1"}))
	assert.NoError(t, mock.ExpectationsWereMet())
}
