package services

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/ThatPopcorn/rateAmovie/shared/config"
)

// MediaService stores uploaded images (profile pictures, movie posters) in a
// MinIO bucket and hands back public object URLs
type MediaService struct {
	client     *minio.Client
	bucketName string
	serverURL  string
}

func NewMediaService() (*MediaService, error) {
	cfg := config.GetConfig()

	parsedURL, err := url.Parse(cfg.MinIOServerURL)
	if err != nil {
		return nil, fmt.Errorf("invalid MinIO endpoint: %v", err)
	}

	endpoint := parsedURL.Host
	useSSL := cfg.MinIOUseSSL

	log.Printf("🔗 Connecting to MinIO: %s (SSL: %v)", endpoint, useSSL)

	minioClient, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinIORootUser, cfg.MinIORootPassword, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %v", err)
	}

	service := &MediaService{
		client:     minioClient,
		bucketName: cfg.MinIOBucketName,
		serverURL:  strings.TrimRight(cfg.MinIOServerURL, "/"),
	}

	if err := service.initializeBucket(); err != nil {
		return nil, err
	}

	return service, nil
}

func (s *MediaService) initializeBucket() error {
	ctx := context.Background()

	exists, err := s.client.BucketExists(ctx, s.bucketName)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %v", err)
	}

	if !exists {
		err = s.client.MakeBucket(ctx, s.bucketName, minio.MakeBucketOptions{})
		if err != nil {
			return fmt.Errorf("failed to create bucket: %v", err)
		}
		log.Printf("✅ MinIO bucket '%s' created successfully", s.bucketName)
	} else {
		log.Printf("✅ MinIO bucket '%s' already exists", s.bucketName)
	}

	return nil
}

// ValidateImageName checks the file extension against the configured allow list
func ValidateImageName(fileName string) error {
	cfg := config.GetConfig()
	ext := strings.ToLower(filepath.Ext(fileName))
	if ext == "" {
		return fmt.Errorf("file has no extension")
	}

	for _, allowed := range strings.Split(cfg.AllowedImageTypes, ",") {
		if ext == strings.TrimSpace(allowed) {
			return nil
		}
	}

	return fmt.Errorf("file type %s is not allowed", ext)
}

// UploadImage stores an image under the given object key
func (s *MediaService) UploadImage(ctx context.Context, reader io.Reader, objectKey string, size int64, contentType string) error {
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err := s.client.PutObject(ctx, s.bucketName, objectKey, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("failed to upload image: %v", err)
	}

	return nil
}

// RemoveImage deletes a stored object; missing objects are not an error
func (s *MediaService) RemoveImage(ctx context.Context, objectKey string) error {
	return s.client.RemoveObject(ctx, s.bucketName, objectKey, minio.RemoveObjectOptions{})
}

// ObjectURL returns the public URL for a stored object
func (s *MediaService) ObjectURL(objectKey string) string {
	return fmt.Sprintf("%s/%s/%s", s.serverURL, s.bucketName, objectKey)
}
