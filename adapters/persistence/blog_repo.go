package persistence

import (
	"context"
	"errors"

	"github.com/itww/admin-api/internal/domain/blog"
	"github.com/itww/admin-api/internal/domain/listing"
	"github.com/itww/admin-api/pkg/apperror"
	"github.com/jackc/pgx/v5"
)

type postgresBlogRepo struct {
	db DBTX
}

func NewPostgresBlogRepo(db DBTX) blog.Repository {
	return &postgresBlogRepo{db: db}
}

var blogColumns = []string{
	"i.blog_id", "i.title", "i.slug", "i.content", "i.image_url", "i.published",
	"i.author_id", "i.created_at", "i.updated_at", "u.username", "u.email",
}

var blogList = listSpec{
	from:          "blogs AS i",
	idColumn:      "i.blog_id",
	createdColumn: "i.created_at",
	titleColumn:   "i.title",
	searchColumns: []string{"i.title", "i.content"},
	columns:       blogColumns,
	joins:         []string{"users AS u ON u.user_id = i.author_id"},
}

func scanBlog(row pgx.Row) (*blog.Blog, error) {
	b := &blog.Blog{}
	err := row.Scan(
		&b.ID, &b.Title, &b.Slug, &b.Content, &b.ImageURL, &b.Published,
		&b.AuthorID, &b.CreatedAt, &b.UpdatedAt, &b.AuthorUsername, &b.AuthorEmail,
	)
	return b, err
}

func (r *postgresBlogRepo) List(ctx context.Context, q listing.Query) ([]*blog.Blog, int, error) {
	st, err := buildList(blogList, q)
	if err != nil {
		return nil, 0, apperror.NewInternal("Failed to fetch blogs", err)
	}

	var total int
	if err := r.db.QueryRow(ctx, st.CountSQL, st.CountArgs...).Scan(&total); err != nil {
		return nil, 0, apperror.NewInternal("Failed to fetch blogs", err)
	}

	rows, err := r.db.Query(ctx, st.SQL, st.Args...)
	if err != nil {
		return nil, 0, apperror.NewInternal("Failed to fetch blogs", err)
	}
	defer rows.Close()

	blogs := make([]*blog.Blog, 0)
	for rows.Next() {
		b, err := scanBlog(rows)
		if err != nil {
			return nil, 0, apperror.NewInternal("Failed to fetch blogs", err)
		}
		blogs = append(blogs, b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, apperror.NewInternal("Failed to fetch blogs", err)
	}
	return blogs, total, nil
}

func (r *postgresBlogRepo) FindByID(ctx context.Context, id int64) (*blog.Blog, error) {
	query, args, err := psql.Select(blogColumns...).
		From(blogList.from).
		LeftJoin(blogList.joins[0]).
		Where("i.blog_id = ?", id).
		ToSql()
	if err != nil {
		return nil, apperror.NewInternal("Failed to fetch blog", err)
	}

	b, err := scanBlog(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("Blog", idString(id))
		}
		return nil, apperror.NewInternal("Failed to fetch blog", err)
	}
	return b, nil
}

func (r *postgresBlogRepo) Create(ctx context.Context, b *blog.Blog) error {
	query := `
		INSERT INTO blogs (title, slug, content, image_url, published, author_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING blog_id, created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query,
		b.Title, b.Slug, b.Content, b.ImageURL, b.Published, b.AuthorID,
	).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.NewConflict("Blog", "slug", b.Slug)
		}
		return apperror.NewInternal("Failed to create blog", err)
	}
	return nil
}

func (r *postgresBlogRepo) Update(ctx context.Context, b *blog.Blog) error {
	query := `
		UPDATE blogs
		SET title = $1, slug = $2, content = $3, image_url = $4, published = $5, updated_at = NOW()
		WHERE blog_id = $6
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query,
		b.Title, b.Slug, b.Content, b.ImageURL, b.Published, b.ID,
	).Scan(&b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperror.NewNotFound("Blog", idString(b.ID))
		}
		if isUniqueViolation(err) {
			return apperror.NewConflict("Blog", "slug", b.Slug)
		}
		return apperror.NewInternal("Failed to update blog", err)
	}
	return nil
}

func (r *postgresBlogRepo) Delete(ctx context.Context, id int64) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM blogs WHERE blog_id = $1`, id)
	if err != nil {
		return apperror.NewInternal("Failed to delete blog", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperror.NewNotFound("Blog", idString(id))
	}
	return nil
}
