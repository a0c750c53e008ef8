package objects

import (
	"context"
	"errors"
	"time"
)

var (
	ErrListBuckets     = errors.New("failed to list buckets")
	ErrCreateBucket    = errors.New("failed to create bucket")
	ErrConfigureBucket = errors.New("failed to configure bucket")
)

const (
	ImageFileSizeLimit = 10 * 1024 * 1024
)

var ImageMimeTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}

// BucketConfig is the fixed configuration a bucket is created with.
type BucketConfig struct {
	Name             string   `json:"name"`
	Public           bool     `json:"public"`
	FileSizeLimit    int64    `json:"file_size_limit"`
	AllowedMimeTypes []string `json:"allowed_mime_types"`
}

// ImagesBucket is the public image bucket configuration.
func ImagesBucket(name string) BucketConfig {
	return BucketConfig{
		Name:             name,
		Public:           true,
		FileSizeLimit:    ImageFileSizeLimit,
		AllowedMimeTypes: ImageMimeTypes,
	}
}

type Bucket struct {
	Name      string     `json:"name"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

type CreateResult struct {
	Name     string       `json:"name"`
	Location string       `json:"location,omitempty"`
	Config   BucketConfig `json:"config"`
}

// BucketStore provisions buckets. ConfigureBucket re-applies access and
// limits to a bucket that already exists and is safe to repeat.
type BucketStore interface {
	ListBuckets(ctx context.Context) ([]Bucket, error)
	CreateBucket(ctx context.Context, cfg BucketConfig) (*CreateResult, error)
	ConfigureBucket(ctx context.Context, cfg BucketConfig) error
}
