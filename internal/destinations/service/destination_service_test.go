package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripnest/tripnest-backend/internal/backend/backendtest"
	"github.com/tripnest/tripnest-backend/internal/destinations/domain"
	"github.com/tripnest/tripnest-backend/internal/destinations/repository"
)

var destCols = []string{"id", "name", "description", "image_url", "latitude", "longitude", "country", "city", "category", "rating", "created_at", "updated_at"}

func setupDestinationService(t *testing.T, withCache bool) (*DestinationService, sqlmock.Sqlmock, *miniredis.Miniredis) {
	f, mock := backendtest.NewFactory(t, backendtest.Identities{})

	var (
		cache *repository.DestinationCache
		mr    *miniredis.Miniredis
	)
	if withCache {
		var err error
		mr, err = miniredis.Run()
		require.NoError(t, err)
		client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		t.Cleanup(func() {
			client.Close()
			mr.Close()
		})
		cache = repository.NewDestinationCache(client, 0)
	}

	return NewDestinationService(repository.NewDestinationRepository(), cache, f.Public()), mock, mr
}

func TestDestinationService_GetDestinations(t *testing.T) {
	t.Run("defaults limit and offset", func(t *testing.T) {
		svc, mock, _ := setupDestinationService(t, false)

		backendtest.ExpectAnonTx(mock)
		mock.ExpectQuery(`FROM destinations ORDER BY rating DESC`).
			WithArgs(domain.DefaultLimit, 0).
			WillReturnRows(sqlmock.NewRows(destCols))
		mock.ExpectCommit()

		items, err := svc.GetDestinations(context.Background(), domain.Filters{}, 0, -3)
		require.NoError(t, err)
		assert.Empty(t, items)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("backend error is generic", func(t *testing.T) {
		svc, mock, _ := setupDestinationService(t, false)

		backendtest.ExpectAnonTx(mock)
		mock.ExpectQuery(`FROM destinations`).WillReturnError(errors.New("relation does not exist"))
		mock.ExpectRollback()

		_, err := svc.GetDestinations(context.Background(), domain.Filters{City: "Kyoto"}, 10, 0)
		assert.ErrorIs(t, err, domain.ErrFetchDestinations)
		assert.Equal(t, "Failed to fetch destinations", err.Error())
	})
}

func TestDestinationService_GetDestinationByID(t *testing.T) {
	now := time.Now()

	t.Run("unknown id is nil", func(t *testing.T) {
		svc, mock, _ := setupDestinationService(t, false)

		backendtest.ExpectAnonTx(mock)
		mock.ExpectQuery(`FROM destinations WHERE id`).WithArgs("nope").WillReturnRows(sqlmock.NewRows(destCols))
		mock.ExpectCommit()

		assert.Nil(t, svc.GetDestinationByID(context.Background(), "nope"))
	})

	t.Run("backend error is nil", func(t *testing.T) {
		svc, mock, _ := setupDestinationService(t, false)

		backendtest.ExpectAnonTx(mock)
		mock.ExpectQuery(`FROM destinations WHERE id`).WillReturnError(errors.New("invalid input syntax for type uuid"))
		mock.ExpectRollback()

		assert.Nil(t, svc.GetDestinationByID(context.Background(), "not-a-uuid"))
	})

	t.Run("hits are cached", func(t *testing.T) {
		svc, mock, mr := setupDestinationService(t, true)

		backendtest.ExpectAnonTx(mock)
		mock.ExpectQuery(`FROM destinations WHERE id`).WithArgs("d-1").
			WillReturnRows(sqlmock.NewRows(destCols).
				AddRow("d-1", "Kyoto", nil, nil, 35.01, 135.76, nil, nil, nil, nil, now, now))
		mock.ExpectCommit()

		first := svc.GetDestinationByID(context.Background(), "d-1")
		require.NotNil(t, first)
		assert.True(t, mr.Exists("dest:d-1"))

		// second read is served without a database round trip
		second := svc.GetDestinationByID(context.Background(), "d-1")
		require.NotNil(t, second)
		assert.Equal(t, "Kyoto", second.Name)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("cache outage falls back to the database", func(t *testing.T) {
		svc, mock, mr := setupDestinationService(t, true)
		mr.SetError("LOADING")

		backendtest.ExpectAnonTx(mock)
		mock.ExpectQuery(`FROM destinations WHERE id`).WithArgs("d-1").
			WillReturnRows(sqlmock.NewRows(destCols).
				AddRow("d-1", "Kyoto", nil, nil, 35.01, 135.76, nil, nil, nil, nil, now, now))
		mock.ExpectCommit()

		d := svc.GetDestinationByID(context.Background(), "d-1")
		require.NotNil(t, d)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
