package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3Config describes an S3-compatible bucket. Endpoint is empty for AWS.
type S3Config struct {
	Bucket   string
	Region   string
	Key      string
	Secret   string
	Endpoint string
	URL      string
}

// S3Disk is the object storage driver.
type S3Disk struct {
	client  *s3.Client
	bucket  string
	baseURL string
}

func NewS3Disk(ctx context.Context, cfg S3Config) (*S3Disk, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("storage/s3: S3_BUCKET is not configured")
	}

	opts := []func(*awscfg.LoadOptions) error{
		awscfg.WithRegion(cfg.Region),
	}
	// Static credentials are required for MinIO, R2 and Spaces.
	if cfg.Key != "" && cfg.Secret != "" {
		opts = append(opts, awscfg.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.Key, cfg.Secret, ""),
		))
	}

	awsConf, err := awscfg.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("storage/s3: load config: %w", err)
	}

	var clientOpts []func(*s3.Options)
	if cfg.Endpoint != "" {
		clientOpts = append(clientOpts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		})
	}

	baseURL := strings.TrimRight(cfg.URL, "/")
	if baseURL == "" {
		baseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
	}

	return &S3Disk{
		client:  s3.NewFromConfig(awsConf, clientOpts...),
		bucket:  cfg.Bucket,
		baseURL: baseURL,
	}, nil
}

func (d *S3Disk) Driver() string { return "s3" }

func (d *S3Disk) Put(ctx context.Context, path string, content []byte) error {
	_, err := d.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(d.bucket),
		Key:         aws.String(key(path)),
		Body:        bytes.NewReader(content),
		ContentType: aws.String(contentType(path)),
	})
	if err != nil {
		return fmt.Errorf("storage/s3: put %s: %w", path, err)
	}
	return nil
}

func (d *S3Disk) Get(ctx context.Context, path string) ([]byte, error) {
	out, err := d.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(d.bucket),
		Key:    aws.String(key(path)),
	})
	var missing *types.NoSuchKey
	if errors.As(err, &missing) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("storage/s3: get %s: %w", path, err)
	}
	defer out.Body.Close()
	return io.ReadAll(out.Body)
}

func (d *S3Disk) Exists(ctx context.Context, path string) bool {
	_, err := d.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(d.bucket),
		Key:    aws.String(key(path)),
	})
	return err == nil
}

func (d *S3Disk) Delete(ctx context.Context, path string) error {
	_, err := d.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(d.bucket),
		Key:    aws.String(key(path)),
	})
	if err != nil {
		return fmt.Errorf("storage/s3: delete %s: %w", path, err)
	}
	return nil
}

func (d *S3Disk) Files(ctx context.Context, directory string) ([]string, error) {
	pfx := key(directory)
	if pfx != "" && !strings.HasSuffix(pfx, "/") {
		pfx += "/"
	}

	var keys []string
	pages := s3.NewListObjectsV2Paginator(d.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(d.bucket),
		Prefix: aws.String(pfx),
	})
	for pages.HasMorePages() {
		page, err := pages.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("storage/s3: list %s: %w", directory, err)
		}
		for _, obj := range page.Contents {
			keys = append(keys, aws.ToString(obj.Key))
		}
	}
	return keys, nil
}

func (d *S3Disk) URL(path string) string {
	return d.baseURL + "/" + key(path)
}

func key(path string) string { return strings.TrimLeft(path, "/") }

func contentType(path string) string {
	if strings.HasSuffix(path, ".json") {
		return "application/json"
	}
	return "application/octet-stream"
}
