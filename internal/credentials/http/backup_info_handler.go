// Package http provides HTTP handlers for credential operations.
package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/allisson/mediavault/internal/credentials/domain"
	"github.com/allisson/mediavault/internal/credentials/usecase"
	"github.com/allisson/mediavault/internal/httputil"
	keysDomain "github.com/allisson/mediavault/internal/keys/domain"
)

// BackupInfoHandler exposes cached backup info and credential maintenance.
type BackupInfoHandler struct {
	manager *usecase.Manager
	logger  *slog.Logger
}

// NewBackupInfoHandler creates a new BackupInfoHandler.
func NewBackupInfoHandler(manager *usecase.Manager, logger *slog.Logger) *BackupInfoHandler {
	return &BackupInfoHandler{manager: manager, logger: logger}
}

// GetHandler returns the backup info for a purpose, fetching through the
// credential cache.
// GET /v1/backup-info/:purpose
func (h *BackupInfoHandler) GetHandler(c *gin.Context) {
	purpose := keysDomain.Purpose(c.Param("purpose"))
	if purpose != keysDomain.PurposeMessages && purpose != keysDomain.PurposeMedia {
		httputil.HandleBadRequestGin(c, fmt.Errorf("invalid purpose %q", c.Param("purpose")), h.logger)
		return
	}

	info, err := h.manager.FetchBackupInfo(c.Request.Context(), purpose)
	if err != nil {
		if errors.Is(err, domain.ErrNoRootKey) {
			c.JSON(http.StatusNotFound, httputil.ErrorResponse{
				Error:   "backups_disabled",
				Message: "No root key exists for this purpose",
			})
			return
		}
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, info)
}

// WipeHandler removes all cached credentials.
// DELETE /v1/credentials
func (h *BackupInfoHandler) WipeHandler(c *gin.Context) {
	if err := h.manager.WipeCredentials(c.Request.Context()); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}
	c.Status(http.StatusNoContent)
}
