package persistence

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/itww/admin-api/internal/domain/blog"
	"github.com/itww/admin-api/internal/domain/listing"
	"github.com/itww/admin-api/internal/domain/media"
	"github.com/itww/admin-api/migrations"
)

type RepoIntegrationTestSuite struct {
	suite.Suite
	dbPool      *pgxpool.Pool
	pgContainer *postgres.PostgresContainer
	blogRepo    blog.Repository
	mediaRepo   media.Repository
	userRepo    *postgresUserRepo
	ownerID     int64
}

func (s *RepoIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("test_db"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).WithStartupTimeout(1*time.Minute),
		),
	)
	if err != nil {
		s.T().Fatalf("Failed to start postgres container: %s", err)
	}
	s.pgContainer = pgContainer

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		s.T().Fatalf("Failed to get connection string: %s", err)
	}
	if err := migrations.Up(dsn); err != nil {
		s.T().Fatalf("Failed to run migrations: %s", err)
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		s.T().Fatalf("Failed to create pgxpool: %s", err)
	}
	s.dbPool = pool

	s.blogRepo = NewPostgresBlogRepo(pool)
	s.mediaRepo = NewPostgresMediaRepo(pool)
	s.userRepo = &postgresUserRepo{db: pool}

	err = pool.QueryRow(ctx,
		`INSERT INTO users (username, email, password_hash) VALUES ($1, $2, $3) RETURNING user_id`,
		"owner", "owner@example.com", "hashedpassword",
	).Scan(&s.ownerID)
	if err != nil {
		s.T().Fatalf("Failed to seed owner: %s", err)
	}
}

func (s *RepoIntegrationTestSuite) TearDownSuite() {
	if s.dbPool != nil {
		s.dbPool.Close()
	}
	if s.pgContainer != nil {
		if err := s.pgContainer.Terminate(context.Background()); err != nil {
			s.T().Fatalf("Failed to terminate postgres container: %s", err)
		}
	}
}

func (s *RepoIntegrationTestSuite) SetupTest() {
	_, err := s.dbPool.Exec(context.Background(), `TRUNCATE blogs, media RESTART IDENTITY`)
	s.Require().NoError(err)
}

func TestRepoIntegration(t *testing.T) {
	if testing.Short() || os.Getenv("INTEGRATION_TESTS") == "" {
		t.Skip("Skipping integration test; set INTEGRATION_TESTS=1 to run.")
	}
	suite.Run(t, new(RepoIntegrationTestSuite))
}

func (s *RepoIntegrationTestSuite) createBlog(title string) *blog.Blog {
	b := &blog.Blog{Title: title, Content: "content of " + title, AuthorID: &s.ownerID}
	b.DeriveSlug()
	s.Require().NoError(s.blogRepo.Create(context.Background(), b))
	return b
}

func (s *RepoIntegrationTestSuite) Test_Blog_Create_And_FindByID() {
	created := s.createBlog("Hello, World!")

	found, err := s.blogRepo.FindByID(context.Background(), created.ID)
	s.Require().NoError(err)
	s.Equal("hello-world", found.Slug)
	s.Require().NotNil(found.AuthorUsername)
	s.Equal("owner", *found.AuthorUsername)
}

func (s *RepoIntegrationTestSuite) Test_Blog_List_NameDesc() {
	for _, title := range []string{"Bravo", "Alpha", "Charlie"} {
		s.createBlog(title)
	}

	blogs, total, err := s.blogRepo.List(context.Background(),
		listing.Query{Sort: listing.SortNameDesc, Page: 1, PageSize: 20})
	s.Require().NoError(err)
	s.Equal(3, total)

	titles := make([]string, 0, len(blogs))
	for _, b := range blogs {
		titles = append(titles, b.Title)
	}
	s.Equal([]string{"Charlie", "Bravo", "Alpha"}, titles)
}

func (s *RepoIntegrationTestSuite) Test_Blog_List_SearchTreatsWildcardsLiterally() {
	s.createBlog("Discount 50% off")
	s.createBlog("Discount 500 off")

	blogs, total, err := s.blogRepo.List(context.Background(),
		listing.Query{Search: "50%", Page: 1, PageSize: 20})
	s.Require().NoError(err)
	s.Equal(1, total)
	s.Require().Len(blogs, 1)
	s.Equal("Discount 50% off", blogs[0].Title)
}

func (s *RepoIntegrationTestSuite) Test_Blog_List_OutOfRangePage() {
	for _, title := range []string{"One", "Two", "Three"} {
		s.createBlog(title)
	}

	q := listing.Query{Page: 5, PageSize: 2}
	blogs, total, err := s.blogRepo.List(context.Background(), q)
	s.Require().NoError(err)

	page := listing.NewPage(blogs, total, q)
	s.Empty(page.Items)
	s.Equal(3, page.TotalResults)
	s.Equal(2, page.TotalPages)
	s.Equal(5, page.CurrentPage)
}

func (s *RepoIntegrationTestSuite) Test_Media_Lifecycle() {
	ctx := context.Background()
	a := &media.Asset{
		FileName: "logo.png", StorageKey: "blogs/1-logo.png",
		ContentType: "image/png", ModuleRef: "blogs", UploadedBy: s.ownerID,
	}
	s.Require().NoError(s.mediaRepo.Create(ctx, a))

	found, err := s.mediaRepo.FindByID(ctx, a.ID)
	s.Require().NoError(err)
	s.Equal(a.StorageKey, found.StorageKey)

	s.Require().NoError(s.mediaRepo.Delete(ctx, a.ID))
	s.Error(s.mediaRepo.Delete(ctx, a.ID))
}

func (s *RepoIntegrationTestSuite) Test_User_FindByEmail() {
	u, err := s.userRepo.FindByEmail(context.Background(), "owner@example.com")
	s.Require().NoError(err)
	s.Equal(s.ownerID, u.ID)
	s.Equal("hashedpassword", u.PasswordHash)
}
