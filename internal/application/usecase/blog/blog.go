package blog

import (
	"context"

	"github.com/itww/admin-api/internal/application/service"
	"github.com/itww/admin-api/internal/application/usecase/policy"
	"github.com/itww/admin-api/internal/domain/blog"
	"github.com/itww/admin-api/internal/domain/listing"
	"github.com/itww/admin-api/pkg/apperror"
	"github.com/itww/admin-api/pkg/auth"
	"github.com/itww/admin-api/pkg/logger"
)

type BlogUseCase struct {
	repo      blog.Repository
	events    service.EventPublisher
	ownership policy.Ownership
	logger    logger.Logger
}

func NewBlogUseCase(r blog.Repository, ev service.EventPublisher, own policy.Ownership, log logger.Logger) *BlogUseCase {
	return &BlogUseCase{repo: r, events: ev, ownership: own, logger: log}
}

func (uc *BlogUseCase) ListBlogs(ctx context.Context, q listing.Query) (listing.Page[*blog.Blog], error) {
	q = q.Clamped(listing.MaxPageSize)
	items, total, err := uc.repo.List(ctx, q)
	if err != nil {
		return listing.Page[*blog.Blog]{}, err
	}
	return listing.NewPage(items, total, q), nil
}

func (uc *BlogUseCase) GetBlog(ctx context.Context, id int64) (*blog.Blog, error) {
	return uc.repo.FindByID(ctx, id)
}

type CreateBlogInput struct {
	Actor     auth.Principal
	Title     string
	Content   string
	ImageURL  *string
	Published bool
}

func (uc *BlogUseCase) CreateBlog(ctx context.Context, in CreateBlogInput) (*blog.Blog, error) {
	if err := policy.RequireActor(in.Actor); err != nil {
		return nil, err
	}

	authorID := in.Actor.ID
	b := &blog.Blog{
		Title:     in.Title,
		Content:   in.Content,
		ImageURL:  in.ImageURL,
		Published: in.Published,
		AuthorID:  &authorID,
	}
	b.DeriveSlug()
	if err := b.Validate(); err != nil {
		return nil, apperror.NewInvalidInput(err.Error(), err)
	}

	if err := uc.repo.Create(ctx, b); err != nil {
		return nil, err
	}
	service.PublishOrLog(ctx, uc.events, uc.logger,
		service.NewDomainEvent(service.EventCreated, service.ResourceBlog, b.ID, in.Actor.ID))
	return b, nil
}

type UpdateBlogInput struct {
	Actor     auth.Principal
	ID        int64
	Title     string
	Content   string
	ImageURL  *string
	Published bool
}

// UpdateBlog re-derives the slug only when the title changed, so links survive content edits.
func (uc *BlogUseCase) UpdateBlog(ctx context.Context, in UpdateBlogInput) (*blog.Blog, error) {
	if err := policy.RequireActor(in.Actor); err != nil {
		return nil, err
	}

	b, err := uc.repo.FindByID(ctx, in.ID)
	if err != nil {
		return nil, err
	}
	if err := uc.ownership.Check(in.Actor, service.ResourceBlog, b.ID, b.OwnedBy(in.Actor.ID)); err != nil {
		return nil, err
	}

	if in.Title != b.Title {
		b.Title = in.Title
		b.DeriveSlug()
	}
	b.Content = in.Content
	b.ImageURL = in.ImageURL
	b.Published = in.Published
	if err := b.Validate(); err != nil {
		return nil, apperror.NewInvalidInput(err.Error(), err)
	}

	if err := uc.repo.Update(ctx, b); err != nil {
		return nil, err
	}
	service.PublishOrLog(ctx, uc.events, uc.logger,
		service.NewDomainEvent(service.EventUpdated, service.ResourceBlog, b.ID, in.Actor.ID))
	return b, nil
}

func (uc *BlogUseCase) DeleteBlog(ctx context.Context, actor auth.Principal, id int64) error {
	if err := policy.RequireActor(actor); err != nil {
		return err
	}

	b, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := uc.ownership.Check(actor, service.ResourceBlog, b.ID, b.OwnedBy(actor.ID)); err != nil {
		return err
	}

	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	service.PublishOrLog(ctx, uc.events, uc.logger,
		service.NewDomainEvent(service.EventDeleted, service.ResourceBlog, id, actor.ID))
	return nil
}
