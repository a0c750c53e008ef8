package objects

import (
	"context"
	"fmt"
	"log"
)

// EnsureResult describes the outcome of EnsureBucket. Data is set only when
// the bucket was created.
type EnsureResult struct {
	Created bool
	Data    *CreateResult
	Buckets []Bucket
}

type BucketService struct {
	store BucketStore
	cfg   BucketConfig
}

func NewBucketService(store BucketStore, cfg BucketConfig) *BucketService {
	return &BucketService{store: store, cfg: cfg}
}

// EnsureBucket creates the configured bucket unless it already exists. An
// existing bucket has its policy and tags reconciled.
func (s *BucketService) EnsureBucket(ctx context.Context) (*EnsureResult, error) {
	buckets, err := s.store.ListBuckets(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrListBuckets, err)
	}

	for _, b := range buckets {
		if b.Name == s.cfg.Name {
			if err := s.store.ConfigureBucket(ctx, s.cfg); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrConfigureBucket, err)
			}
			return &EnsureResult{Buckets: buckets}, nil
		}
	}

	data, err := s.store.CreateBucket(ctx, s.cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCreateBucket, err)
	}
	log.Printf("[storage] created bucket %s", s.cfg.Name)

	buckets, err = s.store.ListBuckets(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrListBuckets, err)
	}

	return &EnsureResult{Created: true, Data: data, Buckets: buckets}, nil
}
