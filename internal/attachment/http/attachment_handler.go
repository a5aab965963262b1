// Package http provides HTTP handlers for attachment state queries.
package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/allisson/mediavault/internal/attachment/http/dto"
	"github.com/allisson/mediavault/internal/attachment/usecase"
	"github.com/allisson/mediavault/internal/httputil"
)

// AttachmentHandler handles HTTP requests for attachment state queries and
// download queue management.
type AttachmentHandler struct {
	service *usecase.AttachmentService
	logger  *slog.Logger
}

// NewAttachmentHandler creates a new AttachmentHandler.
func NewAttachmentHandler(service *usecase.AttachmentService, logger *slog.Logger) *AttachmentHandler {
	return &AttachmentHandler{service: service, logger: logger}
}

// GetHandler returns the attachment's facet state.
// GET /v1/attachments/:id
func (h *AttachmentHandler) GetHandler(c *gin.Context) {
	id, err := h.parseID(c)
	if err != nil {
		return
	}

	attachment, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.NewAttachmentResponse(attachment))
}

// UploadStrategyHandler returns the transit upload strategy decision.
// GET /v1/attachments/:id/upload-strategy
func (h *AttachmentHandler) UploadStrategyHandler(c *gin.Context) {
	id, err := h.parseID(c)
	if err != nil {
		return
	}

	strategy, err := h.service.TransitUploadStrategy(c.Request.Context(), id)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.NewUploadStrategyResponse(strategy))
}

// DownloadStateHandler returns the computed download state.
// GET /v1/attachments/:id/download-state
func (h *AttachmentHandler) DownloadStateHandler(c *gin.Context) {
	id, err := h.parseID(c)
	if err != nil {
		return
	}

	state, err := h.service.DownloadState(c.Request.Context(), id)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.DownloadStateResponse{State: state})
}

// EnqueueDownloadHandler enqueues a pending download.
// POST /v1/attachments/:id/downloads
func (h *AttachmentHandler) EnqueueDownloadHandler(c *gin.Context) {
	id, err := h.parseID(c)
	if err != nil {
		return
	}

	var req dto.EnqueueDownloadRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			httputil.HandleValidationErrorGin(c, err, h.logger)
			return
		}
	}

	if err := h.service.EnqueueDownload(c.Request.Context(), id, req.MinRetryTimestamp); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Status(http.StatusNoContent)
}

// CancelDownloadHandler removes the pending download.
// DELETE /v1/attachments/:id/downloads
func (h *AttachmentHandler) CancelDownloadHandler(c *gin.Context) {
	id, err := h.parseID(c)
	if err != nil {
		return
	}

	if err := h.service.CancelDownload(c.Request.Context(), id); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *AttachmentHandler) parseID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		err = fmt.Errorf("invalid attachment id: %w", err)
		httputil.HandleBadRequestGin(c, err, h.logger)
		return 0, err
	}
	return id, nil
}
