package http

import (
	"github.com/gin-gonic/gin"

	"github.com/itww/admin-api/pkg/auth"
	"github.com/itww/admin-api/pkg/logger"
)

type RouterConfig struct {
	JWT        *auth.JWTService
	Logger     logger.Logger
	Metrics    *Metrics
	PublicRead bool

	Auth            *AuthHandler
	Blogs           *BlogHandler
	JobPostings     *JobPostingHandler
	JobApplications *JobApplicationHandler
	Media           *MediaHandler
	Health          *HealthHandler
	// Files is nil unless the local storage driver is active.
	Files *FileHandler
}

func NewRouter(rc RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(Recovery(rc.Logger), RequestLogger(rc.Logger))
	if rc.Metrics != nil {
		router.Use(rc.Metrics.Middleware())
		router.GET("/metrics", rc.Metrics.Handler())
	}
	router.Use(ErrorMiddleware(rc.Logger), AuthMiddleware(rc.JWT, rc.Logger))

	if rc.Files != nil {
		router.GET("/files/*key", rc.Files.ServeFile)
	}

	requireAuth := RequireAuth()
	mediaRead := []gin.HandlerFunc{}
	if !rc.PublicRead {
		mediaRead = append(mediaRead, requireAuth)
	}

	api := router.Group("/api")
	{
		api.GET("/health", rc.Health.Health)

		authRoutes := api.Group("/auth")
		{
			authRoutes.POST("/sign-in", rc.Auth.SignIn)
			authRoutes.POST("/sign-out", rc.Auth.SignOut)
			authRoutes.GET("/me", requireAuth, rc.Auth.Me)
		}

		blogs := api.Group("/blogs")
		{
			blogs.GET("", rc.Blogs.ListBlogs)
			blogs.POST("", requireAuth, rc.Blogs.CreateBlog)
			blogs.PUT("", requireAuth, rc.Blogs.UpdateBlog)
			blogs.DELETE("", requireAuth, rc.Blogs.DeleteBlog)
			blogs.GET("/:id", rc.Blogs.GetBlog)
			blogs.PUT("/:id", requireAuth, rc.Blogs.UpdateBlog)
			blogs.DELETE("/:id", requireAuth, rc.Blogs.DeleteBlog)
		}

		jobsInfo := api.Group("/jobs-info")
		{
			jobsInfo.GET("", rc.JobPostings.ListJobPostings)
			jobsInfo.POST("", requireAuth, rc.JobPostings.CreateJobPosting)
			jobsInfo.PUT("", requireAuth, rc.JobPostings.UpdateJobPosting)
			jobsInfo.DELETE("", requireAuth, rc.JobPostings.DeleteJobPosting)
			jobsInfo.GET("/:id", rc.JobPostings.GetJobPosting)
			jobsInfo.PUT("/:id", requireAuth, rc.JobPostings.UpdateJobPosting)
			jobsInfo.DELETE("/:id", requireAuth, rc.JobPostings.DeleteJobPosting)
		}

		applications := api.Group("/jobs-application")
		{
			applications.GET("", rc.JobApplications.ListApplications)
			applications.POST("", requireAuth, rc.JobApplications.CreateApplication)
			applications.PUT("", requireAuth, rc.JobApplications.UpdateApplication)
			applications.DELETE("", requireAuth, rc.JobApplications.DeleteApplication)
			applications.GET("/:id", rc.JobApplications.GetApplication)
			applications.GET("/:id/resume", rc.JobApplications.GetResume)
			applications.PUT("/:id", requireAuth, rc.JobApplications.UpdateApplication)
			applications.DELETE("/:id", requireAuth, rc.JobApplications.DeleteApplication)
		}

		media := api.Group("/media")
		{
			media.GET("", append(mediaRead, rc.Media.ListMedia)...)
			media.POST("", requireAuth, rc.Media.UploadMedia)
			media.DELETE("", requireAuth, rc.Media.DeleteMedia)
		}
	}

	return router
}
