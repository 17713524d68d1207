package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	mediaUC "github.com/itww/admin-api/internal/application/usecase/media"
	"github.com/itww/admin-api/internal/domain/listing"
	"github.com/itww/admin-api/pkg/apperror"
	"github.com/itww/admin-api/pkg/logger"
)

type MediaHandler struct {
	mediaUseCase   *mediaUC.MediaUseCase
	maxUploadBytes int64
	logger         logger.Logger
}

func NewMediaHandler(uc *mediaUC.MediaUseCase, maxUploadBytes int64, log logger.Logger) *MediaHandler {
	return &MediaHandler{mediaUseCase: uc, maxUploadBytes: maxUploadBytes, logger: log}
}

// ListMedia returns a bare array, newest first. ?id= returns one asset and
// ?module_ref= narrows the list.
func (h *MediaHandler) ListMedia(c *gin.Context) {
	if hasID(c) {
		h.GetMedia(c)
		return
	}
	page, err := h.mediaUseCase.ListMedia(c.Request.Context(), c.Query("module_ref"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, listing.Map(page, ToMediaDTO).Items)
}

func (h *MediaHandler) GetMedia(c *gin.Context) {
	id, err := resourceID(c, "Missing media ID")
	if err != nil {
		c.Error(err)
		return
	}
	a, err := h.mediaUseCase.GetMedia(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToMediaDTO(a))
}

func (h *MediaHandler) UploadMedia(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.Error(apperror.NewInvalidInput("File too large", err))
			return
		}
		c.Error(apperror.NewInvalidInput("No file uploaded", err))
		return
	}
	if fileHeader.Size > h.maxUploadBytes {
		c.Error(apperror.NewInvalidInput("File too large", nil))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.Error(apperror.NewInternal("Failed to upload file", err))
		return
	}
	defer file.Close()

	a, err := h.mediaUseCase.UploadMedia(c.Request.Context(), mediaUC.UploadInput{
		Actor:       principal(c),
		ModuleRef:   c.PostForm("module_ref"),
		FileName:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Size:        fileHeader.Size,
		Body:        file,
	})
	if err != nil {
		c.Error(err)
		return
	}

	h.logger.Info("Media uploaded", zap.Int64("media_id", a.ID), zap.String("module_ref", a.ModuleRef))
	c.JSON(http.StatusCreated, ToMediaDTO(a))
}

func (h *MediaHandler) DeleteMedia(c *gin.Context) {
	id, err := resourceID(c, "Missing media ID")
	if err != nil {
		c.Error(err)
		return
	}
	if err := h.mediaUseCase.RemoveMedia(c.Request.Context(), principal(c), id); err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Deleted successfully"})
}
