package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripnest/tripnest-backend/internal/destinations/domain"
)

var destCols = []string{"id", "name", "description", "image_url", "latitude", "longitude", "country", "city", "category", "rating", "created_at", "updated_at"}

func setupDestinationRepo(t *testing.T) (*DestinationRepository, sqlmock.Sqlmock, *sql.DB) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewDestinationRepository(), mock, db
}

func TestDestinationRepository_List(t *testing.T) {
	repo, mock, db := setupDestinationRepo(t)
	now := time.Now()

	t.Run("no filters", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`FROM destinations ORDER BY rating DESC LIMIT $1 OFFSET $2`)).
			WithArgs(20, 0).
			WillReturnRows(sqlmock.NewRows(destCols).
				AddRow("d-1", "Kyoto", "Temples", nil, 35.01, 135.76, "Japan", "Kyoto", "culture", 4.8, now, now))

		items, err := repo.List(context.Background(), db, domain.Filters{}, 20, 0)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "Kyoto", items[0].Name)
		require.NotNil(t, items[0].Rating)
		assert.Equal(t, 4.8, *items[0].Rating)
		assert.Nil(t, items[0].ImageURL)
	})

	t.Run("equality filters and search", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(
			`WHERE category = $1 AND country = $2 AND (name ILIKE $3 OR description ILIKE $3) ORDER BY rating DESC LIMIT $4 OFFSET $5`)).
			WithArgs("beach", "Greece", `%50\% off%`, 5, 10).
			WillReturnRows(sqlmock.NewRows(destCols))

		items, err := repo.List(context.Background(), db, domain.Filters{
			Category: "beach",
			Country:  "Greece",
			Search:   "50% off",
		}, 5, 10)
		require.NoError(t, err)
		assert.Empty(t, items)
	})

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDestinationRepository_GetByID(t *testing.T) {
	repo, mock, db := setupDestinationRepo(t)

	mock.ExpectQuery(`SELECT (.+) FROM destinations WHERE id = \$1`).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(destCols))

	d, err := repo.GetByID(context.Background(), db, "missing")
	require.NoError(t, err)
	assert.Nil(t, d)
	require.NoError(t, mock.ExpectationsWereMet())
}
