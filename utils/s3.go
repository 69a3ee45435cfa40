package utils

import (
	"context"
	"fmt"
	"io"
	"mime"
	"os"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Photo storage for issue and proof images lives in any S3-compatible bucket.
// The rest of the system only ever sees the returned object URL.

func getStorageConfig() (aws.Config, error) {
	accessKey := os.Getenv("S3_ACCESS_KEY_ID")
	secretKey := os.Getenv("S3_SECRET_ACCESS_KEY")
	region := os.Getenv("S3_REGION")
	if region == "" {
		region = "auto"
	}

	if accessKey == "" || secretKey == "" {
		return aws.Config{}, fmt.Errorf("S3_ACCESS_KEY_ID or S3_SECRET_ACCESS_KEY is not set")
	}

	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(region),
		config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		),
	)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load storage config: %w", err)
	}

	return cfg, nil
}

func getStorageClient() (*s3.Client, error) {
	cfg, err := getStorageConfig()
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint := os.Getenv("S3_ENDPOINT"); endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})
	return client, nil
}

func getStorageBucket() (string, error) {
	bucket := os.Getenv("S3_BUCKET_NAME")
	if bucket == "" {
		return "", fmt.Errorf("S3_BUCKET_NAME is not set")
	}
	return bucket, nil
}

// UploadPhoto stores a photo object and returns nothing; callers build the
// public URL with PublicURL.
func UploadPhoto(ctx context.Context, objectName string, file io.Reader) error {
	bucket, err := getStorageBucket()
	if err != nil {
		return err
	}
	client, err := getStorageClient()
	if err != nil {
		return err
	}

	contentType := mime.TypeByExtension(path.Ext(objectName))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err = client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(objectName),
		Body:        file,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("photo upload failed: %w", err)
	}
	return nil
}

// PublicURL returns the URL stored as the opaque photo reference.
func PublicURL(objectName string) string {
	base := os.Getenv("S3_PUBLIC_BASE_URL")
	if base == "" {
		bucket, _ := getStorageBucket()
		region := os.Getenv("S3_REGION")
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", bucket, region, objectName)
	}
	return fmt.Sprintf("%s/%s", base, objectName)
}

// SignedPhotoURL returns a presigned GET URL, for buckets that are not public.
func SignedPhotoURL(ctx context.Context, objectName string, expiry time.Duration) (string, error) {
	bucket, err := getStorageBucket()
	if err != nil {
		return "", err
	}
	client, err := getStorageClient()
	if err != nil {
		return "", err
	}

	presigner := s3.NewPresignClient(client)
	req, err := presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(objectName),
	}, s3.WithPresignExpires(expiry))
	if err != nil {
		return "", fmt.Errorf("presign failed: %w", err)
	}
	return req.URL, nil
}
