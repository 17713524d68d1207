package persistence

import (
	"context"
	"regexp"
	"testing"

	"github.com/itww/admin-api/internal/domain/jobapplication"
	"github.com/itww/admin-api/pkg/apperror"
	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resumeRows() *pgxmock.Rows {
	return pgxmock.NewRows([]string{"resume_filename", "resume_mime", "resume_data"})
}

func TestJobApplicationRepo_FindResume(t *testing.T) {
	mock := setupMock(t)
	repo := NewPostgresJobApplicationRepo(mock)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT resume_filename, resume_mime, resume_data")).
		WithArgs(int64(1)).
		WillReturnRows(resumeRows().AddRow(ptr("cv.pdf"), ptr("application/pdf"), []byte("%PDF-1.4")))

	res, err := repo.FindResume(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "cv.pdf", res.Filename)
	assert.Equal(t, "application/pdf", res.MimeType)
	assert.Equal(t, []byte("%PDF-1.4"), res.Data)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestJobApplicationRepo_FindResume_Absent(t *testing.T) {
	mock := setupMock(t)
	repo := NewPostgresJobApplicationRepo(mock)

	mock.ExpectQuery("SELECT resume_filename").WithArgs(int64(1)).
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectQuery("SELECT resume_filename").WithArgs(int64(2)).
		WillReturnRows(resumeRows().AddRow((*string)(nil), (*string)(nil), []byte(nil)))

	_, err := repo.FindResume(context.Background(), 1)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	_, err = repo.FindResume(context.Background(), 2)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestJobApplicationRepo_Create_WithResume(t *testing.T) {
	mock := setupMock(t)
	repo := NewPostgresJobApplicationRepo(mock)

	a := &jobapplication.Application{Name: "Ann", Email: "ann@example.com", Message: "hi"}
	res := &jobapplication.Resume{Filename: "cv.pdf", MimeType: "application/pdf", Data: []byte("pdf")}

	mock.ExpectQuery("INSERT INTO job_applications").
		WithArgs(a.Name, a.Email, a.Phone, a.Address, a.Hear, a.Message, a.JobCategoryID,
			&res.Filename, &res.MimeType, res.Data).
		WillReturnRows(pgxmock.NewRows([]string{"job_applications_id", "created_at", "updated_at"}).
			AddRow(int64(3), testTime, testTime))

	require.NoError(t, repo.Create(context.Background(), a, res))
	assert.Equal(t, int64(3), a.ID)
	assert.Equal(t, "cv.pdf", *a.ResumeFilename)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestJobApplicationRepo_ListNeverSelectsResumeBytes(t *testing.T) {
	for _, col := range jobApplicationColumns {
		assert.NotContains(t, col, "resume_data")
	}
}
