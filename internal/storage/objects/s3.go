package objects

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/tripnest/tripnest-backend/config"
)

const (
	tagFileSizeLimit    = "file-size-limit"
	tagAllowedMimeTypes = "allowed-mime-types"
)

type s3API interface {
	ListBuckets(ctx context.Context, in *s3.ListBucketsInput, opts ...func(*s3.Options)) (*s3.ListBucketsOutput, error)
	CreateBucket(ctx context.Context, in *s3.CreateBucketInput, opts ...func(*s3.Options)) (*s3.CreateBucketOutput, error)
	DeletePublicAccessBlock(ctx context.Context, in *s3.DeletePublicAccessBlockInput, opts ...func(*s3.Options)) (*s3.DeletePublicAccessBlockOutput, error)
	PutBucketPolicy(ctx context.Context, in *s3.PutBucketPolicyInput, opts ...func(*s3.Options)) (*s3.PutBucketPolicyOutput, error)
	PutBucketTagging(ctx context.Context, in *s3.PutBucketTaggingInput, opts ...func(*s3.Options)) (*s3.PutBucketTaggingOutput, error)
}

// NewS3Client loads credentials from the default AWS chain. A non-empty
// endpoint selects an S3-compatible server with path-style addressing.
func NewS3Client(ctx context.Context, cfg config.StorageConfig) (*s3.Client, error) {
	awsCfg, err := awscfg.LoadDefaultConfig(ctx, awscfg.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("aws config load: %w", err)
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	}), nil
}

// S3Store provisions buckets on S3. Public access is a public-read bucket
// policy; size limit and MIME allow list are kept as bucket tags for the
// upload path to enforce.
type S3Store struct {
	client s3API
	region string
}

func NewS3Store(client s3API, region string) *S3Store {
	return &S3Store{client: client, region: region}
}

func (s *S3Store) ListBuckets(ctx context.Context) ([]Bucket, error) {
	out, err := s.client.ListBuckets(ctx, &s3.ListBucketsInput{})
	if err != nil {
		return nil, err
	}

	buckets := make([]Bucket, 0, len(out.Buckets))
	for _, b := range out.Buckets {
		buckets = append(buckets, Bucket{Name: aws.ToString(b.Name), CreatedAt: b.CreationDate})
	}
	return buckets, nil
}

func (s *S3Store) CreateBucket(ctx context.Context, cfg BucketConfig) (*CreateResult, error) {
	in := &s3.CreateBucketInput{Bucket: aws.String(cfg.Name)}
	if s.region != "" && s.region != "us-east-1" {
		in.CreateBucketConfiguration = &types.CreateBucketConfiguration{
			LocationConstraint: types.BucketLocationConstraint(s.region),
		}
	}

	out, err := s.client.CreateBucket(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("create bucket %s: %w", cfg.Name, err)
	}

	if err := s.ConfigureBucket(ctx, cfg); err != nil {
		return nil, err
	}

	return &CreateResult{Name: cfg.Name, Location: aws.ToString(out.Location), Config: cfg}, nil
}

// ConfigureBucket puts the public-read policy and the limit tags. Both calls
// replace what is there, so a bucket left half-configured is repaired by a rerun.
func (s *S3Store) ConfigureBucket(ctx context.Context, cfg BucketConfig) error {
	if cfg.Public {
		// new AWS buckets block public policies; S3-compatible servers may not know the call
		if _, err := s.client.DeletePublicAccessBlock(ctx, &s3.DeletePublicAccessBlockInput{Bucket: aws.String(cfg.Name)}); err != nil {
			log.Printf("[storage] delete public access block on %s: %v", cfg.Name, err)
		}

		policy, err := publicReadPolicy(cfg.Name)
		if err != nil {
			return err
		}
		if _, err := s.client.PutBucketPolicy(ctx, &s3.PutBucketPolicyInput{
			Bucket: aws.String(cfg.Name),
			Policy: aws.String(policy),
		}); err != nil {
			return fmt.Errorf("put bucket policy %s: %w", cfg.Name, err)
		}
	}

	if tags := bucketTags(cfg); len(tags) > 0 {
		if _, err := s.client.PutBucketTagging(ctx, &s3.PutBucketTaggingInput{
			Bucket:  aws.String(cfg.Name),
			Tagging: &types.Tagging{TagSet: tags},
		}); err != nil {
			return fmt.Errorf("put bucket tagging %s: %w", cfg.Name, err)
		}
	}

	return nil
}

func bucketTags(cfg BucketConfig) []types.Tag {
	tags := make([]types.Tag, 0, 2)
	if cfg.FileSizeLimit > 0 {
		tags = append(tags, types.Tag{
			Key:   aws.String(tagFileSizeLimit),
			Value: aws.String(strconv.FormatInt(cfg.FileSizeLimit, 10)),
		})
	}
	if len(cfg.AllowedMimeTypes) > 0 {
		// tag values cannot hold commas
		tags = append(tags, types.Tag{
			Key:   aws.String(tagAllowedMimeTypes),
			Value: aws.String(strings.Join(cfg.AllowedMimeTypes, " ")),
		})
	}
	return tags
}

type policyDocument struct {
	Version   string            `json:"Version"`
	Statement []policyStatement `json:"Statement"`
}

type policyStatement struct {
	Sid       string   `json:"Sid"`
	Effect    string   `json:"Effect"`
	Principal string   `json:"Principal"`
	Action    []string `json:"Action"`
	Resource  []string `json:"Resource"`
}

func publicReadPolicy(bucket string) (string, error) {
	doc := policyDocument{
		Version: "2012-10-17",
		Statement: []policyStatement{{
			Sid:       "PublicRead",
			Effect:    "Allow",
			Principal: "*",
			Action:    []string{"s3:GetObject"},
			Resource:  []string{"arn:aws:s3:::" + bucket + "/*"},
		}},
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("marshal bucket policy: %w", err)
	}
	return string(b), nil
}
