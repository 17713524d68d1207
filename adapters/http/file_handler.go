package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/itww/admin-api/adapters/media_storage"
	"github.com/itww/admin-api/internal/application/service"
	"github.com/itww/admin-api/pkg/apperror"
	"github.com/itww/admin-api/pkg/logger"
)

// FileHandler serves objects of the local store behind the signed URLs it minted.
type FileHandler struct {
	store  *media_storage.LocalStore
	logger logger.Logger
}

func NewFileHandler(store *media_storage.LocalStore, log logger.Logger) *FileHandler {
	return &FileHandler{store: store, logger: log}
}

func (h *FileHandler) ServeFile(c *gin.Context) {
	key := strings.TrimPrefix(c.Param("key"), "/")

	if err := h.store.Verify(key, c.Query("expires"), c.Query("signature")); err != nil {
		c.Error(apperror.NewPermissionDenied(err.Error()))
		return
	}

	f, contentType, err := h.store.Open(key)
	if err != nil {
		if errors.Is(err, service.ErrObjectNotFound) || errors.Is(err, media_storage.ErrInvalidKey) {
			c.Error(apperror.NewNotFound("File", key))
			return
		}
		c.Error(apperror.NewInternal("Failed to read file", err))
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		c.Error(apperror.NewInternal("Failed to read file", err))
		return
	}
	c.DataFromReader(http.StatusOK, info.Size(), contentType, f, nil)
}
