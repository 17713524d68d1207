package persistence

import (
	"context"
	"errors"

	"github.com/itww/admin-api/internal/domain/jobapplication"
	"github.com/itww/admin-api/internal/domain/listing"
	"github.com/itww/admin-api/pkg/apperror"
	"github.com/jackc/pgx/v5"
)

type postgresJobApplicationRepo struct {
	db DBTX
}

func NewPostgresJobApplicationRepo(db DBTX) jobapplication.Repository {
	return &postgresJobApplicationRepo{db: db}
}

// resume_data is deliberately absent; only FindResume reads the bytes.
var jobApplicationColumns = []string{
	"i.job_applications_id", "i.name", "i.email", "i.phone", "i.address", "i.hear", "i.message",
	"i.job_category_id", "i.resume_filename", "i.resume_mime", "i.created_at", "i.updated_at",
}

var jobApplicationList = listSpec{
	from:          "job_applications AS i",
	idColumn:      "i.job_applications_id",
	createdColumn: "i.created_at",
	titleColumn:   "i.name",
	searchColumns: []string{"i.name", "i.message"},
	columns:       jobApplicationColumns,
}

func scanJobApplication(row pgx.Row) (*jobapplication.Application, error) {
	a := &jobapplication.Application{}
	err := row.Scan(
		&a.ID, &a.Name, &a.Email, &a.Phone, &a.Address, &a.Hear, &a.Message,
		&a.JobCategoryID, &a.ResumeFilename, &a.ResumeMime, &a.CreatedAt, &a.UpdatedAt,
	)
	return a, err
}

func (r *postgresJobApplicationRepo) List(ctx context.Context, q listing.Query) ([]*jobapplication.Application, int, error) {
	st, err := buildList(jobApplicationList, q)
	if err != nil {
		return nil, 0, apperror.NewInternal("Failed to fetch job applications", err)
	}

	var total int
	if err := r.db.QueryRow(ctx, st.CountSQL, st.CountArgs...).Scan(&total); err != nil {
		return nil, 0, apperror.NewInternal("Failed to fetch job applications", err)
	}

	rows, err := r.db.Query(ctx, st.SQL, st.Args...)
	if err != nil {
		return nil, 0, apperror.NewInternal("Failed to fetch job applications", err)
	}
	defer rows.Close()

	apps := make([]*jobapplication.Application, 0)
	for rows.Next() {
		a, err := scanJobApplication(rows)
		if err != nil {
			return nil, 0, apperror.NewInternal("Failed to fetch job applications", err)
		}
		apps = append(apps, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, apperror.NewInternal("Failed to fetch job applications", err)
	}
	return apps, total, nil
}

func (r *postgresJobApplicationRepo) FindByID(ctx context.Context, id int64) (*jobapplication.Application, error) {
	query, args, err := psql.Select(jobApplicationColumns...).
		From(jobApplicationList.from).
		Where("i.job_applications_id = ?", id).
		ToSql()
	if err != nil {
		return nil, apperror.NewInternal("Failed to fetch job application", err)
	}

	a, err := scanJobApplication(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("Job application", idString(id))
		}
		return nil, apperror.NewInternal("Failed to fetch job application", err)
	}
	return a, nil
}

// FindResume reports NotFound both for a missing row and for a row without an attachment.
func (r *postgresJobApplicationRepo) FindResume(ctx context.Context, id int64) (*jobapplication.Resume, error) {
	query := `
		SELECT resume_filename, resume_mime, resume_data
		FROM job_applications
		WHERE job_applications_id = $1
	`
	var filename, mime *string
	var data []byte
	err := r.db.QueryRow(ctx, query, id).Scan(&filename, &mime, &data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("Resume", idString(id))
		}
		return nil, apperror.NewInternal("Failed to fetch resume", err)
	}
	if data == nil {
		return nil, apperror.NewNotFound("Resume", idString(id))
	}

	res := &jobapplication.Resume{Data: data, Filename: "resume", MimeType: "application/octet-stream"}
	if filename != nil && *filename != "" {
		res.Filename = *filename
	}
	if mime != nil && *mime != "" {
		res.MimeType = *mime
	}
	return res, nil
}

func (r *postgresJobApplicationRepo) Create(ctx context.Context, a *jobapplication.Application, resume *jobapplication.Resume) error {
	var data []byte
	if resume != nil {
		data = resume.Data
		a.ResumeFilename = &resume.Filename
		a.ResumeMime = &resume.MimeType
	}

	query := `
		INSERT INTO job_applications
			(name, email, phone, address, hear, message, job_category_id,
			 resume_filename, resume_mime, resume_data, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
		RETURNING job_applications_id, created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query,
		a.Name, a.Email, a.Phone, a.Address, a.Hear, a.Message, a.JobCategoryID,
		a.ResumeFilename, a.ResumeMime, data,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return apperror.NewInternal("Failed to create job application", err)
	}
	return nil
}

// Update leaves the resume columns untouched.
func (r *postgresJobApplicationRepo) Update(ctx context.Context, a *jobapplication.Application) error {
	query := `
		UPDATE job_applications
		SET name = $1, email = $2, phone = $3, address = $4, hear = $5, message = $6,
			job_category_id = $7, updated_at = NOW()
		WHERE job_applications_id = $8
		RETURNING resume_filename, resume_mime, created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query,
		a.Name, a.Email, a.Phone, a.Address, a.Hear, a.Message, a.JobCategoryID, a.ID,
	).Scan(&a.ResumeFilename, &a.ResumeMime, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperror.NewNotFound("Job application", idString(a.ID))
		}
		return apperror.NewInternal("Failed to update job application", err)
	}
	return nil
}

func (r *postgresJobApplicationRepo) Delete(ctx context.Context, id int64) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM job_applications WHERE job_applications_id = $1`, id)
	if err != nil {
		return apperror.NewInternal("Failed to delete job application", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperror.NewNotFound("Job application", idString(id))
	}
	return nil
}
