package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// MaxAssetSize is the maximum allowed size of an uploaded asset (10MB).
	MaxAssetSize = 10 * 1024 * 1024
	// FolderImages is the S3 prefix for hero and gallery images.
	FolderImages = "images"
	// FolderAudio is the S3 prefix for background music.
	FolderAudio = "audio"
)

// Allowed MIME types and extensions per folder.
var (
	AllowedTypes = map[string]map[string]string{
		FolderImages: {
			"image/jpeg": ".jpg",
			"image/jpg":  ".jpg",
			"image/png":  ".png",
			"image/webp": ".webp",
			"image/gif":  ".gif",
		},
		FolderAudio: {
			"audio/mpeg":  ".mp3",
			"audio/mp3":   ".mp3",
			"audio/mp4":   ".m4a",
			"audio/x-m4a": ".m4a",
			"audio/ogg":   ".ogg",
			"audio/wav":   ".wav",
			"audio/x-wav": ".wav",
		},
	}
	AllowedExtensions = map[string]map[string]string{
		FolderImages: {
			".jpg":  "image/jpeg",
			".jpeg": "image/jpeg",
			".png":  "image/png",
			".webp": "image/webp",
			".gif":  "image/gif",
		},
		FolderAudio: {
			".mp3": "audio/mpeg",
			".m4a": "audio/mp4",
			".ogg": "audio/ogg",
			".wav": "audio/wav",
		},
	}
)

// S3Config holds S3 client configuration.
type S3Config struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	// PublicBaseURL overrides the bucket URL, e.g. a CDN in front of it.
	PublicBaseURL string
}

// S3 stores invitation assets.
type S3 struct {
	client   *s3.Client
	uploader *manager.Uploader
	cfg      S3Config
	logger   *zap.Logger
}

// NewS3 creates an S3 client using credentials from config or .env (AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY).
func NewS3(ctx context.Context, cfg S3Config, logger *zap.Logger) (*S3, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	accessKey := cfg.AccessKeyID
	secretKey := cfg.SecretAccessKey
	if accessKey == "" || secretKey == "" {
		accessKey = os.Getenv("AWS_ACCESS_KEY_ID")
		secretKey = os.Getenv("AWS_SECRET_ACCESS_KEY")
	}
	opts := []func(*config.LoadOptions) error{
		config.WithRegion(cfg.Region),
	}
	if accessKey != "" && secretKey != "" {
		opts = append(opts, config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			accessKey, secretKey, "",
		)))
		logger.Info("S3 client using credentials from .env/config", zap.String("region", cfg.Region), zap.String("bucket", cfg.Bucket))
	} else {
		logger.Warn("S3 client using default credential chain (AWS_ACCESS_KEY_ID/AWS_SECRET_ACCESS_KEY not set)")
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg)
	uploader := manager.NewUploader(client, func(u *manager.Uploader) {
		u.PartSize = 5 * 1024 * 1024
	})
	return &S3{
		client:   client,
		uploader: uploader,
		cfg:      cfg,
		logger:   logger,
	}, nil
}

// ValidateFileType returns the canonical content type and extension for an
// upload into folder, or ok=false when neither the declared type nor the
// filename extension is allowed there.
func ValidateFileType(folder, contentType, filename string) (ct, ext string, ok bool) {
	byType, known := AllowedTypes[folder]
	if !known {
		return "", "", false
	}
	exts := AllowedExtensions[folder]
	contentType = strings.ToLower(strings.TrimSpace(contentType))
	if e, ok := byType[contentType]; ok {
		return exts[e], e, true
	}
	e := strings.ToLower(path.Ext(filename))
	if c, ok := exts[e]; ok {
		if e == ".jpeg" {
			e = ".jpg"
		}
		return c, e, true
	}
	return "", "", false
}

// AssetKey returns a fresh object key: {folder}/{owner}/{uuid}{ext}.
func AssetKey(folder string, owner uuid.UUID, ext string) string {
	return path.Join(folder, owner.String(), uuid.NewString()+ext)
}

// KeyOwner returns the account a key was uploaded under. Keys written
// before uploads were scoped have no owner segment.
func KeyOwner(key string) (uuid.UUID, bool) {
	parts := strings.Split(key, "/")
	if len(parts) != 3 {
		return uuid.Nil, false
	}
	owner, err := uuid.Parse(parts[1])
	if err != nil || owner == uuid.Nil {
		return uuid.Nil, false
	}
	return owner, true
}

// PublicObjectURL returns the public URL of key.
func (s *S3) PublicObjectURL(key string) string {
	return s.baseURL() + "/" + key
}

func (s *S3) baseURL() string {
	if s.cfg.PublicBaseURL != "" {
		return strings.TrimRight(s.cfg.PublicBaseURL, "/")
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", s.cfg.Bucket, s.cfg.Region)
}

// ObjectKeyFromURL reverses PublicObjectURL. URLs outside the bucket are
// rejected.
func (s *S3) ObjectKeyFromURL(url string) (string, bool) {
	prefix := s.baseURL() + "/"
	if !strings.HasPrefix(url, prefix) {
		return "", false
	}
	key := strings.TrimPrefix(url, prefix)
	if key == "" || strings.Contains(key, "..") {
		return "", false
	}
	return key, true
}

// Upload streams body to key as a public-read object and returns its URL.
func (s *S3) Upload(ctx context.Context, key, contentType string, body io.Reader, contentLength int64) (string, error) {
	var contentLengthPtr *int64
	if contentLength > 0 {
		contentLengthPtr = &contentLength
	}
	_, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.cfg.Bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentType:   aws.String(contentType),
		ContentLength: contentLengthPtr,
		ACL:           types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		return "", fmt.Errorf("upload: %w", err)
	}
	return s.PublicObjectURL(key), nil
}

// DeleteObject removes an object from the bucket.
func (s *S3) DeleteObject(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete object: %w", err)
	}
	return nil
}
