package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	blogUC "github.com/itww/admin-api/internal/application/usecase/blog"
	"github.com/itww/admin-api/pkg/logger"
)

type BlogHandler struct {
	blogUseCase *blogUC.BlogUseCase
	logger      logger.Logger
}

func NewBlogHandler(uc *blogUC.BlogUseCase, log logger.Logger) *BlogHandler {
	return &BlogHandler{blogUseCase: uc, logger: log}
}

// ListBlogs also answers GET /blogs?id=.
func (h *BlogHandler) ListBlogs(c *gin.Context) {
	if hasID(c) {
		h.GetBlog(c)
		return
	}
	page, err := h.blogUseCase.ListBlogs(c.Request.Context(), listQuery(c))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *BlogHandler) GetBlog(c *gin.Context) {
	id, err := resourceID(c, "Blog ID is required")
	if err != nil {
		c.Error(err)
		return
	}
	b, err := h.blogUseCase.GetBlog(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *BlogHandler) CreateBlog(c *gin.Context) {
	var req BlogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(bindError(err))
		return
	}

	b, err := h.blogUseCase.CreateBlog(c.Request.Context(), blogUC.CreateBlogInput{
		Actor:     principal(c),
		Title:     req.Title,
		Content:   req.Content,
		ImageURL:  req.ImageURL,
		Published: req.Published,
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, b)
}

func (h *BlogHandler) UpdateBlog(c *gin.Context) {
	var req BlogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(bindError(err))
		return
	}
	id, err := pickID(c, req.ID)
	if err != nil {
		c.Error(err)
		return
	}

	b, err := h.blogUseCase.UpdateBlog(c.Request.Context(), blogUC.UpdateBlogInput{
		Actor:     principal(c),
		ID:        id,
		Title:     req.Title,
		Content:   req.Content,
		ImageURL:  req.ImageURL,
		Published: req.Published,
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *BlogHandler) DeleteBlog(c *gin.Context) {
	id, err := resourceID(c, "Blog ID is required")
	if err != nil {
		c.Error(err)
		return
	}
	if err := h.blogUseCase.DeleteBlog(c.Request.Context(), principal(c), id); err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Blog deleted successfully"})
}
