package catalog

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ObjectGetter is the subset of the S3 API the loader needs.
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

type S3Config struct {
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

// NewS3Client builds an S3 client. A custom endpoint makes it work against
// R2 and other S3-compatible stores.
func NewS3Client(ctx context.Context, cfg S3Config) (*s3.Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("aws config: %w", err)
	}
	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	}), nil
}

// LoadS3 builds a Snapshot from JSON objects stored in a bucket.
func LoadS3(ctx context.Context, client ObjectGetter, bucket, scholarshipsKey, narrativesKey string, logger *slog.Logger) (*Snapshot, error) {
	data, err := getObject(ctx, client, bucket, scholarshipsKey)
	if err != nil {
		return nil, fmt.Errorf("fetch scholarships: %w", err)
	}
	raw, err := DecodeScholarships(data)
	if err != nil {
		return nil, err
	}

	var narratives []Narrative
	if narrativesKey != "" {
		data, err := getObject(ctx, client, bucket, narrativesKey)
		if err == nil {
			narratives, err = DecodeNarratives(data)
		}
		if err != nil {
			logger.Warn("narratives unavailable, continuing without them", "bucket", bucket, "key", narrativesKey, "error", err)
			narratives = nil
		}
	}
	return NewSnapshot(raw, narratives)
}

func getObject(ctx context.Context, client ObjectGetter, bucket, key string) ([]byte, error) {
	out, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("get object %s/%s: %w", bucket, key, err)
	}
	defer out.Body.Close()

	buf := new(bytes.Buffer)
	if _, err := io.Copy(buf, out.Body); err != nil {
		return nil, fmt.Errorf("read object body: %w", err)
	}
	return buf.Bytes(), nil
}
