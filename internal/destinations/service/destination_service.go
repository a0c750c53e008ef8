package service

import (
	"context"
	"database/sql"
	"log"

	"github.com/tripnest/tripnest-backend/internal/backend"
	"github.com/tripnest/tripnest-backend/internal/destinations/domain"
	"github.com/tripnest/tripnest-backend/internal/destinations/repository"
)

type DestinationService struct {
	repo   *repository.DestinationRepository
	cache  *repository.DestinationCache
	public *backend.Client
}

// NewDestinationService reads through the public client. cache may be nil.
func NewDestinationService(repo *repository.DestinationRepository, cache *repository.DestinationCache, public *backend.Client) *DestinationService {
	return &DestinationService{repo: repo, cache: cache, public: public}
}

// GetDestinations lists destinations. A non-positive limit means DefaultLimit.
func (s *DestinationService) GetDestinations(ctx context.Context, f domain.Filters, limit, offset int) ([]domain.Destination, error) {
	if limit <= 0 {
		limit = domain.DefaultLimit
	}
	if limit > domain.MaxLimit {
		limit = domain.MaxLimit
	}
	if offset < 0 {
		offset = 0
	}

	var out []domain.Destination
	err := s.public.WithTx(ctx, func(tx *sql.Tx) error {
		var err error
		out, err = s.repo.List(ctx, tx, f, limit, offset)
		return err
	})
	if err != nil {
		log.Printf("[destinations] list: %v", err)
		return nil, domain.ErrFetchDestinations
	}
	return out, nil
}

// GetDestinationByID returns nil when the destination does not exist or cannot be read.
func (s *DestinationService) GetDestinationByID(ctx context.Context, id string) *domain.Destination {
	if s.cache != nil {
		d, err := s.cache.Get(ctx, id)
		if err != nil {
			log.Printf("[destinations] cache get %s: %v", id, err)
		}
		if d != nil {
			return d
		}
	}

	var out *domain.Destination
	err := s.public.WithTx(ctx, func(tx *sql.Tx) error {
		var err error
		out, err = s.repo.GetByID(ctx, tx, id)
		return err
	})
	if err != nil {
		log.Printf("[destinations] get %s: %v", id, err)
		return nil
	}
	if out == nil {
		return nil
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, out); err != nil {
			log.Printf("[destinations] cache set %s: %v", id, err)
		}
	}
	return out
}
