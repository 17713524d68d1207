package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	jobPostingUC "github.com/itww/admin-api/internal/application/usecase/jobposting"
	"github.com/itww/admin-api/pkg/logger"
)

type JobPostingHandler struct {
	jobPostingUseCase *jobPostingUC.JobPostingUseCase
	logger            logger.Logger
}

func NewJobPostingHandler(uc *jobPostingUC.JobPostingUseCase, log logger.Logger) *JobPostingHandler {
	return &JobPostingHandler{jobPostingUseCase: uc, logger: log}
}

func (h *JobPostingHandler) ListJobPostings(c *gin.Context) {
	if hasID(c) {
		h.GetJobPosting(c)
		return
	}
	page, err := h.jobPostingUseCase.ListJobPostings(c.Request.Context(), listQuery(c))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *JobPostingHandler) GetJobPosting(c *gin.Context) {
	id, err := resourceID(c, "Job posting ID is required")
	if err != nil {
		c.Error(err)
		return
	}
	j, err := h.jobPostingUseCase.GetJobPosting(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, j)
}

func (h *JobPostingHandler) input(c *gin.Context, req JobPostingRequest) jobPostingUC.JobPostingInput {
	return jobPostingUC.JobPostingInput{
		Actor:     principal(c),
		ID:        req.ID,
		Title:     req.Title,
		Content:   req.Content,
		Location:  req.Location,
		Type:      req.Type,
		PDFURL:    req.PDFURL,
		Published: req.Published,
	}
}

func (h *JobPostingHandler) CreateJobPosting(c *gin.Context) {
	var req JobPostingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(bindError(err))
		return
	}
	j, err := h.jobPostingUseCase.CreateJobPosting(c.Request.Context(), h.input(c, req))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, j)
}

func (h *JobPostingHandler) UpdateJobPosting(c *gin.Context) {
	var req JobPostingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(bindError(err))
		return
	}
	id, err := pickID(c, req.ID)
	if err != nil {
		c.Error(err)
		return
	}
	req.ID = id

	j, err := h.jobPostingUseCase.UpdateJobPosting(c.Request.Context(), h.input(c, req))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, j)
}

func (h *JobPostingHandler) DeleteJobPosting(c *gin.Context) {
	id, err := resourceID(c, "Job posting ID is required")
	if err != nil {
		c.Error(err)
		return
	}
	if err := h.jobPostingUseCase.DeleteJobPosting(c.Request.Context(), principal(c), id); err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Job posting deleted successfully"})
}
