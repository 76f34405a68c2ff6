package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/thegioirubik/lubestation-service/pkg/apperr"
)

// maxObjectSize bounds a pricelist export.
const maxObjectSize = 10 << 20

type getObjectAPI interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

type S3 struct {
	Client getObjectAPI
}

func NewS3(ctx context.Context, region string) (*S3, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return &S3{Client: s3.NewFromConfig(cfg)}, nil
}

func (s *S3) Fetch(ctx context.Context, bucket, key string) ([]byte, error) {
	out, err := s.Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		err = fmt.Errorf("failed to get s3://%s/%s: %w", bucket, key, err)
		var missing *types.NoSuchKey
		if errors.As(err, &missing) {
			return nil, notFound(bucket, key, err)
		}
		return nil, err
	}
	defer out.Body.Close()

	b, err := io.ReadAll(io.LimitReader(out.Body, maxObjectSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read s3://%s/%s: %w", bucket, key, err)
	}
	if len(b) > maxObjectSize {
		return nil, fmt.Errorf("s3://%s/%s exceeds %d bytes", bucket, key, maxObjectSize)
	}
	return b, nil
}

// notFound marks a missing object so callers can tell it apart from
// transport or permission failures.
func notFound(bucket, key string, cause error) error {
	e := apperr.NotFoundErr(fmt.Sprintf("s3://%s/%s does not exist", bucket, key))
	e.Err = cause
	return e
}
