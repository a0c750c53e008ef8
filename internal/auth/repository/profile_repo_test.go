package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripnest/tripnest-backend/internal/auth/domain"
)

var cols = []string{"id", "full_name", "email", "avatar_url", "created_at", "updated_at"}

func setupProfileRepo(t *testing.T) (*ProfileRepository, sqlmock.Sqlmock, *sql.DB) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewProfileRepository(), mock, db
}

func TestProfileRepository_GetByID(t *testing.T) {
	repo, mock, db := setupProfileRepo(t)
	ctx := context.Background()
	now := time.Now()

	t.Run("returns profile", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM profiles WHERE id = \$1`).
			WithArgs("user-1").
			WillReturnRows(sqlmock.NewRows(cols).AddRow("user-1", "Ada", "ada@example.com", "https://cdn/a.png", now, now))

		p, err := repo.GetByID(ctx, db, "user-1")
		require.NoError(t, err)
		assert.Equal(t, "Ada", p.FullName)
		require.NotNil(t, p.AvatarURL)
		assert.Equal(t, "https://cdn/a.png", *p.AvatarURL)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("null avatar stays nil", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM profiles`).
			WithArgs("user-2").
			WillReturnRows(sqlmock.NewRows(cols).AddRow("user-2", "Bo", "bo@example.com", nil, now, now))

		p, err := repo.GetByID(ctx, db, "user-2")
		require.NoError(t, err)
		assert.Nil(t, p.AvatarURL)
	})

	t.Run("maps missing row", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM profiles`).
			WithArgs("ghost").
			WillReturnRows(sqlmock.NewRows(cols))

		_, err := repo.GetByID(ctx, db, "ghost")
		assert.ErrorIs(t, err, domain.ErrProfileNotFound)
	})
}

func TestProfileRepository_Upsert(t *testing.T) {
	repo, mock, db := setupProfileRepo(t)
	now := time.Now()

	mock.ExpectQuery(`INSERT INTO profiles (.+) ON CONFLICT \(id\) DO UPDATE`).
		WithArgs("user-1", "Ada", "ada@example.com", now, now).
		WillReturnRows(sqlmock.NewRows(cols).AddRow("user-1", "Ada", "ada@example.com", nil, now, now))

	p, err := repo.Upsert(context.Background(), db, &domain.Profile{
		ID: "user-1", FullName: "Ada", Email: "ada@example.com", CreatedAt: now, UpdatedAt: now,
	})
	require.NoError(t, err)
	assert.Equal(t, "user-1", p.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileRepository_UpdateNameAvatar(t *testing.T) {
	repo, mock, db := setupProfileRepo(t)
	now := time.Now()
	avatar := "https://cdn/new.png"

	t.Run("returns touched rows", func(t *testing.T) {
		mock.ExpectQuery(`UPDATE profiles`).
			WithArgs("user-1", "Ada L.", &avatar, now).
			WillReturnRows(sqlmock.NewRows(cols).AddRow("user-1", "Ada L.", "ada@example.com", avatar, now, now))

		rows, err := repo.UpdateNameAvatar(context.Background(), db, "user-1", "Ada L.", &avatar, now)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "Ada L.", rows[0].FullName)
	})

	t.Run("no row is not an error", func(t *testing.T) {
		mock.ExpectQuery(`UPDATE profiles`).
			WithArgs("user-9", "Nobody", nil, now).
			WillReturnRows(sqlmock.NewRows(cols))

		rows, err := repo.UpdateNameAvatar(context.Background(), db, "user-9", "Nobody", nil, now)
		require.NoError(t, err)
		assert.Empty(t, rows)
	})

	require.NoError(t, mock.ExpectationsWereMet())
}
