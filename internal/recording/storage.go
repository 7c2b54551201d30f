package recording

import (
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/intellemagit/VoxChain/internal/config"
)

// ObjectStorage retrieves a completed egress artifact by key into a local file.
type ObjectStorage interface {
	Download(ctx context.Context, key, destPath string) error
}

// S3Storage downloads artifacts from the bucket the egress uploaded to.
type S3Storage struct {
	bucket     string
	downloader *manager.Downloader
}

var _ ObjectStorage = (*S3Storage)(nil)

func NewS3Storage(ctx context.Context, cfg config.StorageConfig) (*S3Storage, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg)
	return &S3Storage{
		bucket:     cfg.Bucket,
		downloader: manager.NewDownloader(client),
	}, nil
}

func (s *S3Storage) Download(ctx context.Context, key, destPath string) error {
	f, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", destPath, err)
	}
	defer f.Close()

	if _, err := s.downloader.Download(ctx, f, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}); err != nil {
		// A partial file is worse than no file.
		os.Remove(destPath)
		return fmt.Errorf("download s3://%s/%s: %w", s.bucket, key, err)
	}
	return nil
}
