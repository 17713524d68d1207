package persistence

import (
	"context"
	"errors"

	"github.com/itww/admin-api/internal/domain/jobposting"
	"github.com/itww/admin-api/internal/domain/listing"
	"github.com/itww/admin-api/pkg/apperror"
	"github.com/jackc/pgx/v5"
)

type postgresJobPostingRepo struct {
	db DBTX
}

func NewPostgresJobPostingRepo(db DBTX) jobposting.Repository {
	return &postgresJobPostingRepo{db: db}
}

var jobPostingColumns = []string{
	"i.job_info_id", "i.title", "i.content", "i.location", "i.type", "i.pdf_url",
	"i.published", "i.created_by", "i.created_at", "i.updated_at", "u.username", "u.email",
}

var jobPostingList = listSpec{
	from:          "jobs_infos AS i",
	idColumn:      "i.job_info_id",
	createdColumn: "i.created_at",
	titleColumn:   "i.title",
	searchColumns: []string{"i.title", "i.content"},
	columns:       jobPostingColumns,
	joins:         []string{"users AS u ON u.user_id = i.created_by"},
}

func scanJobPosting(row pgx.Row) (*jobposting.JobPosting, error) {
	j := &jobposting.JobPosting{}
	err := row.Scan(
		&j.ID, &j.Title, &j.Content, &j.Location, &j.Type, &j.PDFURL,
		&j.Published, &j.CreatedBy, &j.CreatedAt, &j.UpdatedAt, &j.AuthorUsername, &j.AuthorEmail,
	)
	return j, err
}

func (r *postgresJobPostingRepo) List(ctx context.Context, q listing.Query) ([]*jobposting.JobPosting, int, error) {
	st, err := buildList(jobPostingList, q)
	if err != nil {
		return nil, 0, apperror.NewInternal("Failed to fetch job postings", err)
	}

	var total int
	if err := r.db.QueryRow(ctx, st.CountSQL, st.CountArgs...).Scan(&total); err != nil {
		return nil, 0, apperror.NewInternal("Failed to fetch job postings", err)
	}

	rows, err := r.db.Query(ctx, st.SQL, st.Args...)
	if err != nil {
		return nil, 0, apperror.NewInternal("Failed to fetch job postings", err)
	}
	defer rows.Close()

	postings := make([]*jobposting.JobPosting, 0)
	for rows.Next() {
		j, err := scanJobPosting(rows)
		if err != nil {
			return nil, 0, apperror.NewInternal("Failed to fetch job postings", err)
		}
		postings = append(postings, j)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, apperror.NewInternal("Failed to fetch job postings", err)
	}
	return postings, total, nil
}

func (r *postgresJobPostingRepo) FindByID(ctx context.Context, id int64) (*jobposting.JobPosting, error) {
	query, args, err := psql.Select(jobPostingColumns...).
		From(jobPostingList.from).
		LeftJoin(jobPostingList.joins[0]).
		Where("i.job_info_id = ?", id).
		ToSql()
	if err != nil {
		return nil, apperror.NewInternal("Failed to fetch job posting", err)
	}

	j, err := scanJobPosting(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("Job posting", idString(id))
		}
		return nil, apperror.NewInternal("Failed to fetch job posting", err)
	}
	return j, nil
}

func (r *postgresJobPostingRepo) Create(ctx context.Context, j *jobposting.JobPosting) error {
	query := `
		INSERT INTO jobs_infos (title, content, location, type, pdf_url, published, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING job_info_id, created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query,
		j.Title, j.Content, j.Location, j.Type, j.PDFURL, j.Published, j.CreatedBy,
	).Scan(&j.ID, &j.CreatedAt, &j.UpdatedAt)
	if err != nil {
		return apperror.NewInternal("Failed to create job posting", err)
	}
	return nil
}

func (r *postgresJobPostingRepo) Update(ctx context.Context, j *jobposting.JobPosting) error {
	query := `
		UPDATE jobs_infos
		SET title = $1, content = $2, location = $3, type = $4, pdf_url = $5, published = $6, updated_at = NOW()
		WHERE job_info_id = $7
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query,
		j.Title, j.Content, j.Location, j.Type, j.PDFURL, j.Published, j.ID,
	).Scan(&j.CreatedAt, &j.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperror.NewNotFound("Job posting", idString(j.ID))
		}
		return apperror.NewInternal("Failed to update job posting", err)
	}
	return nil
}

func (r *postgresJobPostingRepo) Delete(ctx context.Context, id int64) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM jobs_infos WHERE job_info_id = $1`, id)
	if err != nil {
		return apperror.NewInternal("Failed to delete job posting", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperror.NewNotFound("Job posting", idString(id))
	}
	return nil
}
