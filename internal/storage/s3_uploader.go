package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/google/uuid"
)

// S3Uploader writes exported documents to S3-compatible storage
type S3Uploader struct {
	s3Client s3iface.S3API
	bucket   string
	endpoint string
	prefix   string
}

// Config holds configuration for S3 uploader
type Config struct {
	Endpoint        string
	AccessKeyID     string
	AccessKeySecret string
	Bucket          string
	Region          string
	Prefix          string
}

// NewS3Uploader creates a new S3 uploader
func NewS3Uploader(config *Config) (*S3Uploader, error) {
	if config.Endpoint == "" || config.AccessKeyID == "" || config.AccessKeySecret == "" {
		return nil, fmt.Errorf("S3 configuration is incomplete")
	}

	if config.Bucket == "" {
		return nil, fmt.Errorf("S3 bucket is not configured")
	}

	region := config.Region
	if region == "" {
		region = "us-east-1"
	}

	sess, err := session.NewSession(&aws.Config{
		Region:           aws.String(region),
		Endpoint:         aws.String(config.Endpoint),
		Credentials:      credentials.NewStaticCredentials(config.AccessKeyID, config.AccessKeySecret, ""),
		S3ForcePathStyle: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 session: %w", err)
	}

	return newS3Uploader(s3.New(sess), config), nil
}

func newS3Uploader(client s3iface.S3API, config *Config) *S3Uploader {
	return &S3Uploader{
		s3Client: client,
		bucket:   config.Bucket,
		endpoint: strings.TrimRight(config.Endpoint, "/"),
		prefix:   strings.Trim(config.Prefix, "/"),
	}
}

// Put uploads data under a unique key ending in name and returns the object URL.
// Re-exporting the same invoice never overwrites an earlier upload.
func (u *S3Uploader) Put(ctx context.Context, name, contentType string, data []byte) (string, error) {
	key := uuid.NewString() + "/" + SafeName(name)
	if u.prefix != "" {
		key = u.prefix + "/" + key
	}

	_, err := u.s3Client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(u.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	// Path-style object URL: {endpoint}/{bucket}/{key}
	return fmt.Sprintf("%s/%s/%s", u.endpoint, u.bucket, key), nil
}
