package jobapplication

import (
	"context"

	"github.com/itww/admin-api/internal/application/service"
	"github.com/itww/admin-api/internal/application/usecase/policy"
	"github.com/itww/admin-api/internal/domain/jobapplication"
	"github.com/itww/admin-api/internal/domain/listing"
	"github.com/itww/admin-api/pkg/apperror"
	"github.com/itww/admin-api/pkg/auth"
	"github.com/itww/admin-api/pkg/logger"
)

// Applications carry no owner column, so ownership rules do not apply here.
type JobApplicationUseCase struct {
	repo   jobapplication.Repository
	events service.EventPublisher
	logger logger.Logger
}

func NewJobApplicationUseCase(r jobapplication.Repository, ev service.EventPublisher, log logger.Logger) *JobApplicationUseCase {
	return &JobApplicationUseCase{repo: r, events: ev, logger: log}
}

func (uc *JobApplicationUseCase) ListApplications(ctx context.Context, q listing.Query) (listing.Page[*jobapplication.Application], error) {
	q = q.Clamped(listing.MaxPageSize)
	items, total, err := uc.repo.List(ctx, q)
	if err != nil {
		return listing.Page[*jobapplication.Application]{}, err
	}
	return listing.NewPage(items, total, q), nil
}

func (uc *JobApplicationUseCase) GetApplication(ctx context.Context, id int64) (*jobapplication.Application, error) {
	return uc.repo.FindByID(ctx, id)
}

func (uc *JobApplicationUseCase) GetResume(ctx context.Context, id int64) (*jobapplication.Resume, error) {
	return uc.repo.FindResume(ctx, id)
}

type ApplicationInput struct {
	Actor         auth.Principal
	ID            int64
	Name          string
	Email         string
	Phone         string
	Address       string
	Hear          string
	Message       string
	JobCategoryID *int64
}

func (in ApplicationInput) apply(a *jobapplication.Application) {
	a.Name = in.Name
	a.Email = in.Email
	a.Phone = in.Phone
	a.Address = in.Address
	a.Hear = in.Hear
	a.Message = in.Message
	a.JobCategoryID = in.JobCategoryID
}

// CreateApplication stores the optional resume in the same row.
func (uc *JobApplicationUseCase) CreateApplication(ctx context.Context, in ApplicationInput, resume *jobapplication.Resume) (*jobapplication.Application, error) {
	if err := policy.RequireActor(in.Actor); err != nil {
		return nil, err
	}

	a := &jobapplication.Application{}
	in.apply(a)
	if err := a.Validate(); err != nil {
		return nil, apperror.NewInvalidInput(err.Error(), err)
	}

	if err := uc.repo.Create(ctx, a, resume); err != nil {
		return nil, err
	}
	service.PublishOrLog(ctx, uc.events, uc.logger,
		service.NewDomainEvent(service.EventCreated, service.ResourceJobApplication, a.ID, in.Actor.ID))
	return a, nil
}

func (uc *JobApplicationUseCase) UpdateApplication(ctx context.Context, in ApplicationInput) (*jobapplication.Application, error) {
	if err := policy.RequireActor(in.Actor); err != nil {
		return nil, err
	}

	a := &jobapplication.Application{ID: in.ID}
	in.apply(a)
	if err := a.Validate(); err != nil {
		return nil, apperror.NewInvalidInput(err.Error(), err)
	}

	if err := uc.repo.Update(ctx, a); err != nil {
		return nil, err
	}
	service.PublishOrLog(ctx, uc.events, uc.logger,
		service.NewDomainEvent(service.EventUpdated, service.ResourceJobApplication, a.ID, in.Actor.ID))
	return a, nil
}

func (uc *JobApplicationUseCase) DeleteApplication(ctx context.Context, actor auth.Principal, id int64) error {
	if err := policy.RequireActor(actor); err != nil {
		return err
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	service.PublishOrLog(ctx, uc.events, uc.logger,
		service.NewDomainEvent(service.EventDeleted, service.ResourceJobApplication, id, actor.ID))
	return nil
}
