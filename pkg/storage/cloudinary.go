package storage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// ImageStorage defines contract for image storage provider (Cloudinary implementation).
// Scan rows are immutable, so there is no delete: uploaded images live as
// long as the ledger rows that reference them.
type ImageStorage interface {
	// UploadImage uploads image from reader and returns the secure URL.
	// folder is optional logical folder in storage (e.g. "scans").
	UploadImage(ctx context.Context, r io.Reader, folder, fileName string) (string, error)
}

type cloudinaryStorage struct {
	cld *cloudinary.Cloudinary
}

// NewCloudinaryStorage creates Cloudinary-backed implementation of ImageStorage.
// Credentials come from the loaded config; when all three are empty it falls
// back to CLOUDINARY_URL (see Cloudinary Go SDK docs).
func NewCloudinaryStorage(cloudName, apiKey, apiSecret string) (ImageStorage, error) {
	var (
		cld *cloudinary.Cloudinary
		err error
	)

	if cloudName != "" && apiKey != "" && apiSecret != "" {
		cld, err = cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	} else {
		// cloudinary.New() automatically reads CLOUDINARY_URL from environment if present.
		cld, err = cloudinary.New()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cloudinary client: %w", err)
	}

	// Ensure HTTPS URLs by default.
	cld.Config.URL.Secure = true

	return &cloudinaryStorage{cld: cld}, nil
}

// UploadImage uploads an image to Cloudinary and returns the secure URL.
func (s *cloudinaryStorage) UploadImage(ctx context.Context, r io.Reader, folder, fileName string) (string, error) {
	if s == nil || s.cld == nil {
		return "", fmt.Errorf("cloudinary storage is not initialized")
	}

	if ctx == nil {
		ctx = context.Background()
	}

	publicID := fmt.Sprintf("%d-%s", time.Now().UnixNano(), fileName)

	params := uploader.UploadParams{
		Folder:         folder,
		UseFilename:    api.Bool(true),
		UniqueFilename: api.Bool(true),
		PublicID:       publicID,
		Overwrite:      api.Bool(false),
	}

	// Captured tree photos come in as camera JPEGs; convert and compress.
	ext := strings.ToLower(filepath.Ext(fileName))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".heic", ".webp":
		params.Format = "webp"
		params.Transformation = "q_auto"
	}

	resp, err := s.cld.Upload.Upload(ctx, r, params)
	if err != nil {
		return "", fmt.Errorf("failed to upload image to cloudinary: %w", err)
	}

	if resp.SecureURL == "" {
		return "", fmt.Errorf("cloudinary upload succeeded but secure URL is empty")
	}

	return resp.SecureURL, nil
}
