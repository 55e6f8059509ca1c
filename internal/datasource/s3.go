package datasource

import (
	"context"
	"io"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/ignite/influencer-roi/internal/domain"
)

// ObjectGetter is the subset of the S3 client used by S3Source.
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Source reads the four tables as CSV objects under bucket/prefix.
type S3Source struct {
	client ObjectGetter
	bucket string
	prefix string
	files  map[domain.TableName]string
}

// NewS3Source creates an S3 source. A nil files map uses DefaultFileNames.
func NewS3Source(client ObjectGetter, bucket, prefix string, files map[domain.TableName]string) *S3Source {
	if files == nil {
		files = DefaultFileNames()
	}
	return &S3Source{client: client, bucket: bucket, prefix: prefix, files: files}
}

func (s *S3Source) Name() string { return "s3://" + path.Join(s.bucket, s.prefix) }

func (s *S3Source) Load(ctx context.Context) (*domain.Dataset, error) {
	ds, err := loadFiles(ctx, s.files, func(ctx context.Context, name string) (io.ReadCloser, error) {
		out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(s.key(name)),
		})
		if err != nil {
			return nil, err
		}
		return out.Body, nil
	})
	if err != nil {
		return nil, err
	}
	logLoaded(s, ds)
	return ds, nil
}

func (s *S3Source) key(name string) string {
	if s.prefix == "" {
		return name
	}
	return path.Join(s.prefix, name)
}
