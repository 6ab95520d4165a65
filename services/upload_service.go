package services

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/cloudinary/cloudinary-go"
	"github.com/cloudinary/cloudinary-go/api/uploader"
	"go.uber.org/zap"
)

// ImageUploader sends raw file bytes to the image host and returns a
// durable URL. Failures surface once; there is no retry.
type ImageUploader interface {
	Upload(ctx context.Context, file io.Reader) (string, *ServiceError)
}

type cloudinaryUploader struct {
	cld    *cloudinary.Cloudinary
	preset string
	folder string
	logger *zap.Logger
}

// NewCloudinaryUploader builds an uploader bound to a fixed unsigned
// upload preset. Credentials come from CLOUDINARY_URL.
func NewCloudinaryUploader(preset, folder string, logger *zap.Logger) (ImageUploader, error) {
	cld, err := cloudinary.New()
	if err != nil {
		return nil, fmt.Errorf("cloudinary init error: %w", err)
	}
	cld.Config.URL.Secure = true

	return &cloudinaryUploader{
		cld:    cld,
		preset: preset,
		folder: folder,
		logger: logger,
	}, nil
}

func (u *cloudinaryUploader) Upload(ctx context.Context, file io.Reader) (string, *ServiceError) {
	uploadParams := uploader.UploadParams{
		PublicID:     fmt.Sprintf("product_img_%d", time.Now().UnixNano()),
		Folder:       u.folder,
		UploadPreset: u.preset,
	}

	uploadResp, err := u.cld.Upload.Upload(ctx, file, uploadParams)
	if err != nil {
		u.logger.Error("Image upload error", zap.Error(err))
		return "", NewOperationFailedError("Image upload failed", err)
	}
	if uploadResp == nil || uploadResp.SecureURL == "" {
		u.logger.Warn("Image upload returned empty response")
		return "", NewOperationFailedError("Image upload failed", nil)
	}
	return uploadResp.SecureURL, nil
}
