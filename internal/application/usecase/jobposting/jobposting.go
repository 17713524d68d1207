package jobposting

import (
	"context"

	"github.com/itww/admin-api/internal/application/service"
	"github.com/itww/admin-api/internal/application/usecase/policy"
	"github.com/itww/admin-api/internal/domain/jobposting"
	"github.com/itww/admin-api/internal/domain/listing"
	"github.com/itww/admin-api/pkg/apperror"
	"github.com/itww/admin-api/pkg/auth"
	"github.com/itww/admin-api/pkg/logger"
)

type JobPostingUseCase struct {
	repo      jobposting.Repository
	events    service.EventPublisher
	ownership policy.Ownership
	logger    logger.Logger
}

func NewJobPostingUseCase(r jobposting.Repository, ev service.EventPublisher, own policy.Ownership, log logger.Logger) *JobPostingUseCase {
	return &JobPostingUseCase{repo: r, events: ev, ownership: own, logger: log}
}

func (uc *JobPostingUseCase) ListJobPostings(ctx context.Context, q listing.Query) (listing.Page[*jobposting.JobPosting], error) {
	q = q.Clamped(listing.MaxPageSize)
	items, total, err := uc.repo.List(ctx, q)
	if err != nil {
		return listing.Page[*jobposting.JobPosting]{}, err
	}
	return listing.NewPage(items, total, q), nil
}

func (uc *JobPostingUseCase) GetJobPosting(ctx context.Context, id int64) (*jobposting.JobPosting, error) {
	return uc.repo.FindByID(ctx, id)
}

type JobPostingInput struct {
	Actor     auth.Principal
	ID        int64
	Title     string
	Content   string
	Location  string
	Type      string
	PDFURL    *string
	Published bool
}

func (uc *JobPostingUseCase) CreateJobPosting(ctx context.Context, in JobPostingInput) (*jobposting.JobPosting, error) {
	if err := policy.RequireActor(in.Actor); err != nil {
		return nil, err
	}

	createdBy := in.Actor.ID
	j := &jobposting.JobPosting{CreatedBy: &createdBy}
	apply(j, in)
	if err := j.Validate(); err != nil {
		return nil, apperror.NewInvalidInput(err.Error(), err)
	}

	if err := uc.repo.Create(ctx, j); err != nil {
		return nil, err
	}
	service.PublishOrLog(ctx, uc.events, uc.logger,
		service.NewDomainEvent(service.EventCreated, service.ResourceJobPosting, j.ID, in.Actor.ID))
	return j, nil
}

func (uc *JobPostingUseCase) UpdateJobPosting(ctx context.Context, in JobPostingInput) (*jobposting.JobPosting, error) {
	if err := policy.RequireActor(in.Actor); err != nil {
		return nil, err
	}

	j, err := uc.repo.FindByID(ctx, in.ID)
	if err != nil {
		return nil, err
	}
	if err := uc.ownership.Check(in.Actor, service.ResourceJobPosting, j.ID, j.OwnedBy(in.Actor.ID)); err != nil {
		return nil, err
	}

	apply(j, in)
	if err := j.Validate(); err != nil {
		return nil, apperror.NewInvalidInput(err.Error(), err)
	}
	if err := uc.repo.Update(ctx, j); err != nil {
		return nil, err
	}
	service.PublishOrLog(ctx, uc.events, uc.logger,
		service.NewDomainEvent(service.EventUpdated, service.ResourceJobPosting, j.ID, in.Actor.ID))
	return j, nil
}

func (uc *JobPostingUseCase) DeleteJobPosting(ctx context.Context, actor auth.Principal, id int64) error {
	if err := policy.RequireActor(actor); err != nil {
		return err
	}

	j, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := uc.ownership.Check(actor, service.ResourceJobPosting, j.ID, j.OwnedBy(actor.ID)); err != nil {
		return err
	}

	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	service.PublishOrLog(ctx, uc.events, uc.logger,
		service.NewDomainEvent(service.EventDeleted, service.ResourceJobPosting, id, actor.ID))
	return nil
}

func apply(j *jobposting.JobPosting, in JobPostingInput) {
	j.Title = in.Title
	j.Content = in.Content
	j.Location = in.Location
	j.Type = in.Type
	j.PDFURL = in.PDFURL
	j.Published = in.Published
}
