package sink

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
	CreateBucket(ctx context.Context, params *s3.CreateBucketInput, optFns ...func(*s3.Options)) (*s3.CreateBucketOutput, error)
}

// Sink writes payloads to an S3 bucket, creating the bucket on first use.
type Sink struct {
	client s3API

	bucket string
	region string
	prefix string

	mu      sync.Mutex
	ensured bool
}

func New(client s3API, bucket, prefix, region string) *Sink {
	if client == nil {
		panic("s3 client is required")
	}
	if strings.TrimSpace(bucket) == "" {
		panic("bucket is required")
	}

	return &Sink{
		client: client,
		bucket: bucket,
		region: region,
		prefix: strings.Trim(prefix, "/"),
	}
}

// EnsureBucket creates the destination bucket if it does not exist.
// Pre-existence ("bucket already exists" / "already owned by you") is not
// an error; once the bucket is known to exist the check is skipped.
func (s *Sink) EnsureBucket(ctx context.Context) error {
	s.mu.Lock()
	done := s.ensured
	s.mu.Unlock()
	if done {
		return nil
	}

	if _, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: &s.bucket}); err == nil {
		s.markEnsured()
		return nil
	}

	in := &s3.CreateBucketInput{Bucket: &s.bucket}
	// us-east-1 rejects an explicit location constraint.
	if s.region != "" && s.region != "us-east-1" {
		in.CreateBucketConfiguration = &types.CreateBucketConfiguration{
			LocationConstraint: types.BucketLocationConstraint(s.region),
		}
	}

	if _, err := s.client.CreateBucket(ctx, in); err != nil {
		var owned *types.BucketAlreadyOwnedByYou
		var exists *types.BucketAlreadyExists
		if !errors.As(err, &owned) && !errors.As(err, &exists) {
			return &StoreError{Err: fmt.Errorf("create bucket %q: %w", s.bucket, err)}
		}
	}

	s.markEnsured()
	return nil
}

func (s *Sink) markEnsured() {
	s.mu.Lock()
	s.ensured = true
	s.mu.Unlock()
}

func (s *Sink) Write(ctx context.Context, req WriteRequest) error {
	if req.Key == "" {
		return &StoreError{Err: errors.New("empty key")}
	}

	if err := s.EnsureBucket(ctx); err != nil {
		return err
	}

	// Keeps S3 key semantics (no path cleaning).
	key := strings.TrimLeft(req.Key, "/")
	if s.prefix != "" {
		key = s.prefix + "/" + key
	}

	cl := int64(len(req.Data))
	input := s3.PutObjectInput{
		Bucket:        &s.bucket,
		Key:           &key,
		Body:          bytes.NewReader(req.Data),
		ContentLength: &cl,
	}
	if req.ContentType != "" {
		ct := req.ContentType
		input.ContentType = &ct
	}

	if _, err := s.client.PutObject(ctx, &input); err != nil {
		return &StoreError{Key: key, Err: fmt.Errorf("put object: %w", err)}
	}
	return nil
}
