package persistence

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/itww/admin-api/internal/domain/media"
	"github.com/itww/admin-api/pkg/apperror"
	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mediaRows() *pgxmock.Rows {
	return pgxmock.NewRows(mediaColumns)
}

func TestMediaRepo_Create(t *testing.T) {
	mock := setupMock(t)
	repo := NewPostgresMediaRepo(mock)

	a := &media.Asset{
		FileName: "cv final.pdf", StorageKey: "blogs/1700000000000-cv_final.pdf",
		ContentType: "application/pdf", ModuleRef: "blogs", UploadedBy: 7,
	}
	mock.ExpectQuery("INSERT INTO media").
		WithArgs(a.FileName, a.StorageKey, a.ContentType, a.ModuleRef, a.UploadedBy).
		WillReturnRows(pgxmock.NewRows([]string{"media_id", "created_at"}).AddRow(int64(9), testTime))

	require.NoError(t, repo.Create(context.Background(), a))
	assert.Equal(t, int64(9), a.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMediaRepo_List_FilterByModule(t *testing.T) {
	mock := setupMock(t)
	repo := NewPostgresMediaRepo(mock)

	mock.ExpectQuery(regexp.QuoteMeta("FROM media WHERE module_ref = $1 ORDER BY created_at DESC, media_id DESC")).
		WithArgs("blogs").
		WillReturnRows(mediaRows().
			AddRow(int64(2), "b.png", "blogs/2-b.png", "image/png", "blogs", int64(7), testTime).
			AddRow(int64(1), "a.png", "blogs/1-a.png", "image/png", "blogs", int64(7), testTime))

	assets, err := repo.List(context.Background(), "blogs")
	require.NoError(t, err)
	require.Len(t, assets, 2)
	assert.Equal(t, "blogs/2-b.png", assets[0].StorageKey)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMediaRepo_List_All(t *testing.T) {
	mock := setupMock(t)
	repo := NewPostgresMediaRepo(mock)

	mock.ExpectQuery(regexp.QuoteMeta("FROM media ORDER BY created_at DESC")).
		WillReturnRows(mediaRows())

	assets, err := repo.List(context.Background(), "")
	require.NoError(t, err)
	assert.NotNil(t, assets)
	assert.Empty(t, assets)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMediaRepo_FindByID(t *testing.T) {
	mock := setupMock(t)
	repo := NewPostgresMediaRepo(mock)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE media_id = $1")).
		WithArgs(int64(1)).
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE media_id = $1")).
		WithArgs(int64(2)).
		WillReturnError(errors.New("boom"))

	_, err := repo.FindByID(context.Background(), 1)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	_, err = repo.FindByID(context.Background(), 2)
	assert.ErrorIs(t, err, apperror.ErrInternal)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMediaRepo_Delete_Missing(t *testing.T) {
	mock := setupMock(t)
	repo := NewPostgresMediaRepo(mock)

	mock.ExpectExec("DELETE FROM media").WithArgs(int64(4)).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	assert.ErrorIs(t, repo.Delete(context.Background(), 4), apperror.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
