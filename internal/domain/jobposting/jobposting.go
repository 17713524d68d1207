package jobposting

import (
	"context"
	"errors"
	"time"

	"github.com/itww/admin-api/internal/domain/listing"
)

// JobPosting is a row of jobs_infos.
type JobPosting struct {
	ID             int64     `json:"job_info_id"`
	Title          string    `json:"title"`
	Content        string    `json:"content"`
	Location       string    `json:"location"`
	Type           string    `json:"type"`
	PDFURL         *string   `json:"pdf_url"`
	Published      bool      `json:"published"`
	CreatedBy      *int64    `json:"created_by"`
	AuthorUsername *string   `json:"author_username,omitempty"`
	AuthorEmail    *string   `json:"author_email,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

var ErrTitleRequired = errors.New("title is required")

func (j *JobPosting) Validate() error {
	if j.Title == "" {
		return ErrTitleRequired
	}
	return nil
}

func (j *JobPosting) OwnedBy(userID int64) bool {
	return j.CreatedBy != nil && *j.CreatedBy == userID
}

type Repository interface {
	List(ctx context.Context, q listing.Query) ([]*JobPosting, int, error)
	FindByID(ctx context.Context, id int64) (*JobPosting, error)
	Create(ctx context.Context, j *JobPosting) error
	Update(ctx context.Context, j *JobPosting) error
	Delete(ctx context.Context, id int64) error
}
