package persistence

import (
	"context"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/itww/admin-api/internal/domain/media"
	"github.com/itww/admin-api/pkg/apperror"
	"github.com/jackc/pgx/v5"
)

type postgresMediaRepo struct {
	db DBTX
}

func NewPostgresMediaRepo(db DBTX) media.Repository {
	return &postgresMediaRepo{db: db}
}

var mediaColumns = []string{
	"media_id", "file_name", "file_path", "file_type", "module_ref", "uploaded_by", "created_at",
}

func scanMedia(row pgx.Row) (*media.Asset, error) {
	a := &media.Asset{}
	err := row.Scan(
		&a.ID, &a.FileName, &a.StorageKey, &a.ContentType, &a.ModuleRef, &a.UploadedBy, &a.CreatedAt,
	)
	return a, err
}

func (r *postgresMediaRepo) Create(ctx context.Context, a *media.Asset) error {
	query := `
		INSERT INTO media (file_name, file_path, file_type, module_ref, uploaded_by, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING media_id, created_at
	`
	err := r.db.QueryRow(ctx, query,
		a.FileName, a.StorageKey, a.ContentType, a.ModuleRef, a.UploadedBy,
	).Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		return apperror.NewInternal("Failed to upload media", err)
	}
	return nil
}

func (r *postgresMediaRepo) FindByID(ctx context.Context, id int64) (*media.Asset, error) {
	query, args, err := psql.Select(mediaColumns...).
		From("media").
		Where(sq.Eq{"media_id": id}).
		ToSql()
	if err != nil {
		return nil, apperror.NewInternal("Failed to fetch media", err)
	}

	a, err := scanMedia(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("Media", idString(id))
		}
		return nil, apperror.NewInternal("Failed to fetch media", err)
	}
	return a, nil
}

func (r *postgresMediaRepo) List(ctx context.Context, moduleRef string) ([]*media.Asset, error) {
	builder := psql.Select(mediaColumns...).
		From("media").
		OrderBy("created_at DESC", "media_id DESC")
	if moduleRef != "" {
		builder = builder.Where(sq.Eq{"module_ref": moduleRef})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, apperror.NewInternal("Failed to fetch media", err)
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, apperror.NewInternal("Failed to fetch media", err)
	}
	defer rows.Close()

	assets := make([]*media.Asset, 0)
	for rows.Next() {
		a, err := scanMedia(rows)
		if err != nil {
			return nil, apperror.NewInternal("Failed to fetch media", err)
		}
		assets = append(assets, a)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewInternal("Failed to fetch media", err)
	}
	return assets, nil
}

func (r *postgresMediaRepo) Delete(ctx context.Context, id int64) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM media WHERE media_id = $1`, id)
	if err != nil {
		return apperror.NewInternal("Failed to delete media", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperror.NewNotFound("Media", idString(id))
	}
	return nil
}
