package jobapplication

import (
	"context"
	"errors"
	"time"

	"github.com/itww/admin-api/internal/domain/listing"
)

// Application is a candidate's submission. The resume bytes live in the same
// row but are only loaded through Repository.FindResume.
type Application struct {
	ID             int64     `json:"job_applications_id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone"`
	Address        string    `json:"address"`
	Hear           string    `json:"hear"`
	Message        string    `json:"message"`
	JobCategoryID  *int64    `json:"job_category_id"`
	ResumeFilename *string   `json:"resume_filename"`
	ResumeMime     *string   `json:"resume_mime"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type Resume struct {
	Filename string
	MimeType string
	Data     []byte
}

var ErrNameRequired = errors.New("name is required")

// Validate checks what the row itself needs. Field formats are enforced by the
// HTTP binding tags.
func (a *Application) Validate() error {
	if a.Name == "" {
		return ErrNameRequired
	}
	return nil
}

type Repository interface {
	List(ctx context.Context, q listing.Query) ([]*Application, int, error)
	FindByID(ctx context.Context, id int64) (*Application, error)
	FindResume(ctx context.Context, id int64) (*Resume, error)
	Create(ctx context.Context, a *Application, resume *Resume) error
	Update(ctx context.Context, a *Application) error
	Delete(ctx context.Context, id int64) error
}
