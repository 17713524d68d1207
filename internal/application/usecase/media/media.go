package media

import (
	"bufio"
	"context"
	"io"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/itww/admin-api/internal/application/service"
	"github.com/itww/admin-api/internal/application/usecase/policy"
	"github.com/itww/admin-api/internal/domain/listing"
	"github.com/itww/admin-api/internal/domain/media"
	"github.com/itww/admin-api/pkg/apperror"
	"github.com/itww/admin-api/pkg/auth"
	"github.com/itww/admin-api/pkg/logger"
)

const (
	sniffLen        = 3072
	maxParallelSign = 8
)

var tracer = otel.Tracer("media_usecase")

// SignedAsset is a catalog row with a freshly minted read URL. URLs are never persisted.
type SignedAsset struct {
	*media.Asset
	URL string
}

type MediaUseCase struct {
	repo      media.Repository
	store     service.ObjectStore
	events    service.EventPublisher
	ownership policy.Ownership
	urlTTL    time.Duration
	logger    logger.Logger
}

func NewMediaUseCase(
	r media.Repository,
	s service.ObjectStore,
	ev service.EventPublisher,
	own policy.Ownership,
	urlTTL time.Duration,
	log logger.Logger,
) *MediaUseCase {
	return &MediaUseCase{repo: r, store: s, events: ev, ownership: own, urlTTL: urlTTL, logger: log}
}

func (uc *MediaUseCase) sign(ctx context.Context, a *media.Asset) (SignedAsset, error) {
	u, err := uc.store.SignedReadURL(ctx, a.StorageKey, uc.urlTTL)
	if err != nil {
		uc.logger.Error("Failed to sign media url", err, zap.Int64("media_id", a.ID))
		return SignedAsset{}, apperror.NewInternal("Failed to fetch media", err)
	}
	return SignedAsset{Asset: a, URL: u}, nil
}

// ListMedia returns every asset newest first as a single page.
func (uc *MediaUseCase) ListMedia(ctx context.Context, moduleRef string) (listing.Page[SignedAsset], error) {
	ctx, span := tracer.Start(ctx, "ListMedia")
	defer span.End()

	assets, err := uc.repo.List(ctx, strings.TrimSpace(moduleRef))
	if err != nil {
		span.RecordError(err)
		return listing.Page[SignedAsset]{}, err
	}

	out := make([]SignedAsset, len(assets))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelSign)
	for i, a := range assets {
		g.Go(func() error {
			s, err := uc.sign(gctx, a)
			if err != nil {
				return err
			}
			out[i] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		return listing.Page[SignedAsset]{}, err
	}

	span.SetAttributes(attribute.Int("media.count", len(out)))
	return listing.Single(out), nil
}

func (uc *MediaUseCase) GetMedia(ctx context.Context, id int64) (SignedAsset, error) {
	a, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return SignedAsset{}, err
	}
	return uc.sign(ctx, a)
}

type UploadInput struct {
	Actor       auth.Principal
	ModuleRef   string
	FileName    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// UploadMedia writes the object first and only then records it, so a catalog
// row never points at a key that was not stored.
func (uc *MediaUseCase) UploadMedia(ctx context.Context, in UploadInput) (SignedAsset, error) {
	ctx, span := tracer.Start(ctx, "UploadMedia")
	defer span.End()

	if err := policy.RequireActor(in.Actor); err != nil {
		return SignedAsset{}, err
	}
	if in.Body == nil || strings.TrimSpace(in.FileName) == "" {
		return SignedAsset{}, apperror.NewInvalidInput("No file uploaded", nil)
	}

	moduleRef := service.SanitizeNamespace(in.ModuleRef)
	body, contentType := detectContentType(in.Body, in.ContentType)
	span.SetAttributes(
		attribute.String("media.module_ref", moduleRef),
		attribute.String("media.content_type", contentType),
		attribute.Int64("media.size", in.Size),
	)

	key, err := uc.store.Put(ctx, moduleRef, in.FileName, body, in.Size, contentType)
	if err != nil {
		span.RecordError(err)
		uc.logger.Error("Failed to store media object", err, zap.String("file_name", in.FileName))
		return SignedAsset{}, apperror.NewInternal("Failed to upload media", err)
	}

	asset := &media.Asset{
		FileName:    in.FileName,
		StorageKey:  key,
		ContentType: contentType,
		ModuleRef:   moduleRef,
		UploadedBy:  in.Actor.ID,
	}
	if err := uc.repo.Create(ctx, asset); err != nil {
		span.RecordError(err)
		if delErr := uc.store.Delete(context.WithoutCancel(ctx), key); delErr != nil {
			uc.logger.Warn("Failed to remove orphaned media object", zap.String("key", key), zap.Error(delErr))
		}
		return SignedAsset{}, err
	}

	service.PublishOrLog(ctx, uc.events, uc.logger,
		service.NewDomainEvent(service.EventUploaded, service.ResourceMedia, asset.ID, in.Actor.ID))
	return uc.sign(ctx, asset)
}

// RemoveMedia deletes the object before the row. A store failure other than
// "already absent" leaves the row in place.
func (uc *MediaUseCase) RemoveMedia(ctx context.Context, actor auth.Principal, id int64) error {
	ctx, span := tracer.Start(ctx, "RemoveMedia")
	defer span.End()

	if err := policy.RequireActor(actor); err != nil {
		return err
	}

	a, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := uc.ownership.Check(actor, service.ResourceMedia, a.ID, a.OwnedBy(actor.ID)); err != nil {
		return err
	}

	if err := uc.store.Delete(ctx, a.StorageKey); err != nil {
		span.RecordError(err)
		uc.logger.Error("Failed to delete media object", err, zap.String("key", a.StorageKey))
		return apperror.NewInternal("Failed to delete media", err)
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		span.RecordError(err)
		return err
	}

	service.PublishOrLog(ctx, uc.events, uc.logger,
		service.NewDomainEvent(service.EventDeleted, service.ResourceMedia, id, actor.ID))
	return nil
}

// detectContentType trusts a specific client-declared type and sniffs the
// leading bytes otherwise. The returned reader replays what was sniffed.
func detectContentType(body io.Reader, declared string) (io.Reader, string) {
	declared = strings.TrimSpace(declared)
	if declared != "" && declared != "application/octet-stream" {
		return body, declared
	}
	br := bufio.NewReaderSize(body, sniffLen)
	head, _ := br.Peek(sniffLen)
	return br, mimetype.Detect(head).String()
}
