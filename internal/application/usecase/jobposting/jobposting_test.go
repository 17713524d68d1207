package jobposting

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/itww/admin-api/internal/application/service"
	"github.com/itww/admin-api/internal/application/service/servicetest"
	"github.com/itww/admin-api/internal/application/usecase/policy"
	"github.com/itww/admin-api/internal/domain/jobposting"
	"github.com/itww/admin-api/internal/domain/listing"
	"github.com/itww/admin-api/pkg/apperror"
	"github.com/itww/admin-api/pkg/auth"
	"github.com/itww/admin-api/pkg/logger"
)

type mockJobPostingRepository struct {
	mock.Mock
}

func (m *mockJobPostingRepository) List(ctx context.Context, q listing.Query) ([]*jobposting.JobPosting, int, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*jobposting.JobPosting), args.Int(1), args.Error(2)
}

func (m *mockJobPostingRepository) FindByID(ctx context.Context, id int64) (*jobposting.JobPosting, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*jobposting.JobPosting), args.Error(1)
}

func (m *mockJobPostingRepository) Create(ctx context.Context, j *jobposting.JobPosting) error {
	return m.Called(ctx, j).Error(0)
}

func (m *mockJobPostingRepository) Update(ctx context.Context, j *jobposting.JobPosting) error {
	return m.Called(ctx, j).Error(0)
}

func (m *mockJobPostingRepository) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

var recruiter = auth.Principal{ID: 3, Email: "hr@itww.test"}

func newUseCase(enforce bool) (*JobPostingUseCase, *mockJobPostingRepository, *servicetest.RecordingPublisher) {
	repo := new(mockJobPostingRepository)
	pub := &servicetest.RecordingPublisher{}
	return NewJobPostingUseCase(repo, pub, policy.Ownership{Enforce: enforce}, logger.NewNop()), repo, pub
}

func TestListJobPostings_OutOfRangePage(t *testing.T) {
	uc, repo, _ := newUseCase(false)
	q := listing.Query{Sort: listing.SortNewest, Page: 9, PageSize: 10}
	repo.On("List", mock.Anything, q).Return([]*jobposting.JobPosting{}, 12, nil)

	page, err := uc.ListJobPostings(context.Background(), q)
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Equal(t, 12, page.TotalResults)
	assert.Equal(t, 2, page.TotalPages)
	assert.Equal(t, 9, page.CurrentPage)
}

func TestCreateJobPosting_RecordsCreator(t *testing.T) {
	uc, repo, pub := newUseCase(false)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(j *jobposting.JobPosting) bool {
		return j.CreatedBy != nil && *j.CreatedBy == recruiter.ID && j.Location == "Remote"
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*jobposting.JobPosting).ID = 11
	}).Return(nil)

	j, err := uc.CreateJobPosting(context.Background(), JobPostingInput{
		Actor: recruiter, Title: "Go Engineer", Location: "Remote", Type: "full-time", Published: true,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(11), j.ID)

	events := pub.Events()
	require.Len(t, events, 1)
	assert.Equal(t, service.EventCreated, events[0].EventType)
	assert.Equal(t, service.ResourceJobPosting, events[0].Resource)
}

func TestCreateJobPosting_Rejections(t *testing.T) {
	uc, repo, pub := newUseCase(false)

	_, err := uc.CreateJobPosting(context.Background(), JobPostingInput{Title: "Go Engineer"})
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)

	_, err = uc.CreateJobPosting(context.Background(), JobPostingInput{Actor: recruiter})
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)

	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	assert.Empty(t, pub.Events())
}

func TestUpdateJobPosting_OwnershipEnforced(t *testing.T) {
	uc, repo, _ := newUseCase(true)
	other := int64(99)
	repo.On("FindByID", mock.Anything, int64(5)).Return(&jobposting.JobPosting{ID: 5, Title: "Old", CreatedBy: &other}, nil)

	_, err := uc.UpdateJobPosting(context.Background(), JobPostingInput{Actor: recruiter, ID: 5, Title: "New"})
	assert.ErrorIs(t, err, apperror.ErrPermission)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestUpdateJobPosting_AnyAuthenticatedUserWhenNotEnforced(t *testing.T) {
	uc, repo, _ := newUseCase(false)
	other := int64(99)
	repo.On("FindByID", mock.Anything, int64(5)).Return(&jobposting.JobPosting{ID: 5, Title: "Old", CreatedBy: &other}, nil)
	repo.On("Update", mock.Anything, mock.Anything).Return(nil)

	j, err := uc.UpdateJobPosting(context.Background(), JobPostingInput{Actor: recruiter, ID: 5, Title: "New", Location: "Hanoi"})
	require.NoError(t, err)
	assert.Equal(t, "New", j.Title)
	assert.Equal(t, "Hanoi", j.Location)
	assert.Equal(t, other, *j.CreatedBy)
}

func TestDeleteJobPosting_NotFound(t *testing.T) {
	uc, repo, pub := newUseCase(false)
	repo.On("FindByID", mock.Anything, int64(404)).Return(nil, apperror.NewNotFound("Job posting", "404"))

	err := uc.DeleteJobPosting(context.Background(), recruiter, 404)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	assert.Empty(t, pub.Events())
}
