package media_storage

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"go.uber.org/zap"

	"github.com/itww/admin-api/internal/application/service"
	"github.com/itww/admin-api/internal/config"
	"github.com/itww/admin-api/pkg/logger"
)

const cloudinaryResourceType = "raw"

type cloudinaryUploadAPI interface {
	Upload(ctx context.Context, file interface{}, uploadParams uploader.UploadParams) (*uploader.UploadResult, error)
	Destroy(ctx context.Context, params uploader.DestroyParams) (*uploader.DestroyResult, error)
}

// cloudinaryAdapter stores every object as a raw asset whose public id is the storage key.
// Signed delivery URLs are not time bound; ttl is ignored.
type cloudinaryAdapter struct {
	cld    *cloudinary.Cloudinary
	upload cloudinaryUploadAPI
	logger logger.Logger
	now    func() time.Time
}

func NewCloudinaryAdapter(cfg config.Config, log logger.Logger) (service.ObjectStore, error) {
	cc := cfg.Storage.Cloudinary
	if cc.CloudName == "" {
		return nil, fmt.Errorf("cloudinary cloud_name has not config")
	}

	cld, err := cloudinary.NewFromParams(cc.CloudName, cc.ApiKey, cc.ApiSecret)
	if err != nil {
		return nil, fmt.Errorf("cannot init cloudinary: %w", err)
	}

	log.Info("connect Cloudinary successfully.")
	return &cloudinaryAdapter{cld: cld, upload: &cld.Upload, logger: log, now: time.Now}, nil
}

// Put records contentType as asset context. Raw delivery derives its
// Content-Type from the key's extension, which is the original file's.
func (a *cloudinaryAdapter) Put(ctx context.Context, namespace, originalName string, body io.Reader, _ int64, contentType string) (string, error) {
	key := service.ObjectKey(namespace, originalName, a.now())
	params := uploader.UploadParams{
		PublicID:     key,
		ResourceType: cloudinaryResourceType,
		Overwrite:    api.Bool(false),
	}
	if contentType != "" {
		params.Context = api.CldAPIMap{"content_type": contentType}
	}
	result, err := a.upload.Upload(ctx, body, params)
	if err != nil {
		return "", fmt.Errorf("failed to upload cloudinary: %w", err)
	}
	if result.Error.Message != "" {
		return "", fmt.Errorf("failed to upload cloudinary: %s", result.Error.Message)
	}
	return key, nil
}

func (a *cloudinaryAdapter) SignedReadURL(_ context.Context, key string, _ time.Duration) (string, error) {
	asset, err := a.cld.File(key)
	if err != nil {
		return "", fmt.Errorf("failed to build cloudinary asset: %w", err)
	}
	asset.Config.URL.SignURL = true
	asset.Config.URL.Secure = true
	u, err := asset.String()
	if err != nil {
		return "", fmt.Errorf("failed to sign cloudinary url: %w", err)
	}
	return u, nil
}

func (a *cloudinaryAdapter) Delete(ctx context.Context, key string) error {
	result, err := a.upload.Destroy(ctx, uploader.DestroyParams{
		PublicID:     key,
		ResourceType: cloudinaryResourceType,
	})
	if err != nil {
		return fmt.Errorf("failed to delete cloudinary: %w", err)
	}
	if result.Error.Message != "" {
		return fmt.Errorf("failed to delete cloudinary: %s", result.Error.Message)
	}
	switch result.Result {
	case "ok":
		return nil
	case "not found":
		a.logger.Debug("cloudinary asset already absent", zap.String("key", key))
		return nil
	default:
		return fmt.Errorf("failed to delete cloudinary: unexpected result %q", result.Result)
	}
}
