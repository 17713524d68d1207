package http

import (
	"errors"
	"io"
	"mime"
	"net/http"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"

	jobApplicationUC "github.com/itww/admin-api/internal/application/usecase/jobapplication"
	"github.com/itww/admin-api/internal/domain/jobapplication"
	"github.com/itww/admin-api/pkg/apperror"
	"github.com/itww/admin-api/pkg/logger"
)

type JobApplicationHandler struct {
	applicationUseCase *jobApplicationUC.JobApplicationUseCase
	maxUploadBytes     int64
	logger             logger.Logger
}

func NewJobApplicationHandler(uc *jobApplicationUC.JobApplicationUseCase, maxUploadBytes int64, log logger.Logger) *JobApplicationHandler {
	return &JobApplicationHandler{applicationUseCase: uc, maxUploadBytes: maxUploadBytes, logger: log}
}

func (h *JobApplicationHandler) ListApplications(c *gin.Context) {
	if hasID(c) {
		h.GetApplication(c)
		return
	}
	page, err := h.applicationUseCase.ListApplications(c.Request.Context(), listQuery(c))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *JobApplicationHandler) GetApplication(c *gin.Context) {
	id, err := resourceID(c, "Job application ID is required")
	if err != nil {
		c.Error(err)
		return
	}
	a, err := h.applicationUseCase.GetApplication(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, a)
}

// GetResume streams the stored binary inline with its recorded type and name.
func (h *JobApplicationHandler) GetResume(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	r, err := h.applicationUseCase.GetResume(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}
	c.Header("Content-Disposition", mime.FormatMediaType("inline", map[string]string{"filename": r.Filename}))
	c.Data(http.StatusOK, r.MimeType, r.Data)
}

func (in JobApplicationRequest) toInput(c *gin.Context) jobApplicationUC.ApplicationInput {
	categoryID := in.JobCategoryID
	if categoryID != nil && *categoryID <= 0 {
		categoryID = nil
	}
	return jobApplicationUC.ApplicationInput{
		Actor:         principal(c),
		ID:            in.ID,
		Name:          in.Name,
		Email:         in.Email,
		Phone:         in.Phone,
		Address:       in.Address,
		Hear:          in.Hear,
		Message:       in.Message,
		JobCategoryID: categoryID,
	}
}

// CreateApplication accepts JSON or a multipart form with an optional "resume" file.
func (h *JobApplicationHandler) CreateApplication(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)

	var req JobApplicationRequest
	if err := c.ShouldBind(&req); err != nil {
		c.Error(bindError(err))
		return
	}

	resume, err := h.readResume(c)
	if err != nil {
		c.Error(err)
		return
	}

	a, err := h.applicationUseCase.CreateApplication(c.Request.Context(), req.toInput(c), resume)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, a)
}

func (h *JobApplicationHandler) readResume(c *gin.Context) (*jobapplication.Resume, error) {
	if c.ContentType() != gin.MIMEMultipartPOSTForm {
		return nil, nil
	}
	fh, err := c.FormFile("resume")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, bindError(err)
	}

	f, err := fh.Open()
	if err != nil {
		return nil, apperror.NewInternal("Failed to read resume", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, apperror.NewInternal("Failed to read resume", err)
	}

	mimeType := fh.Header.Get("Content-Type")
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = mimetype.Detect(data).String()
	}
	return &jobapplication.Resume{Filename: fh.Filename, MimeType: mimeType, Data: data}, nil
}

func (h *JobApplicationHandler) UpdateApplication(c *gin.Context) {
	var req JobApplicationRequest
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

	a, err := h.applicationUseCase.UpdateApplication(c.Request.Context(), req.toInput(c))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, a)
}

func (h *JobApplicationHandler) DeleteApplication(c *gin.Context) {
	id, err := resourceID(c, "Job application ID is required")
	if err != nil {
		c.Error(err)
		return
	}
	if err := h.applicationUseCase.DeleteApplication(c.Request.Context(), principal(c), id); err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Job application deleted successfully"})
}
