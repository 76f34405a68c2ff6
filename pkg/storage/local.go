package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// Local ignores the object location and reads a fixed file, standing in for
// S3 in local runs.
type Local struct {
	Path string
}

func NewLocal(path string) *Local {
	return &Local{Path: path}
}

func (l *Local) Fetch(ctx context.Context, bucket, key string) ([]byte, error) {
	b, err := os.ReadFile(l.Path)
	if err != nil {
		err = fmt.Errorf("failed to read local %s for s3://%s/%s: %w", l.Path, bucket, key, err)
		if errors.Is(err, fs.ErrNotExist) {
			return nil, notFound(bucket, key, err)
		}
		return nil, err
	}
	return b, nil
}
