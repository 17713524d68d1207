package blog

import (
	"context"
	"errors"
	"time"

	"github.com/itww/admin-api/internal/domain/listing"
	"github.com/itww/admin-api/pkg/slug"
)

type Blog struct {
	ID             int64     `json:"blog_id"`
	Title          string    `json:"title"`
	Slug           string    `json:"slug"`
	Content        string    `json:"content"`
	ImageURL       *string   `json:"image_url"`
	Published      bool      `json:"published"`
	AuthorID       *int64    `json:"author_id"`
	AuthorUsername *string   `json:"author_username,omitempty"`
	AuthorEmail    *string   `json:"author_email,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

var (
	ErrTitleRequired = errors.New("title is required")
	ErrEmptySlug     = errors.New("title must contain at least one letter or digit")
)

// DeriveSlug recomputes the slug from the title.
func (b *Blog) DeriveSlug() {
	b.Slug = slug.Generate(b.Title)
}

func (b *Blog) Validate() error {
	if b.Title == "" {
		return ErrTitleRequired
	}
	if b.Slug == "" {
		return ErrEmptySlug
	}
	return nil
}

// OwnedBy reports whether userID authored the blog. Rows without an author belong to nobody.
func (b *Blog) OwnedBy(userID int64) bool {
	return b.AuthorID != nil && *b.AuthorID == userID
}

type Repository interface {
	List(ctx context.Context, q listing.Query) ([]*Blog, int, error)
	FindByID(ctx context.Context, id int64) (*Blog, error)
	Create(ctx context.Context, b *Blog) error
	Update(ctx context.Context, b *Blog) error
	Delete(ctx context.Context, id int64) error
}
