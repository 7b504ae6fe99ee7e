package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rovermark/agency_dashboard_app/internal/apperrors"
	portssvc "github.com/rovermark/agency_dashboard_app/internal/core/ports/services"
	"github.com/rovermark/agency_dashboard_app/internal/dto"
	"github.com/rovermark/agency_dashboard_app/internal/middleware"
)

// syncHandler handles HTTP requests that trigger warehouse syncs.
type syncHandler struct {
	syncService portssvc.SyncSvcFacade
}

// newSyncHandler creates a new syncHandler.
func newSyncHandler(ss portssvc.SyncSvcFacade) *syncHandler {
	return &syncHandler{
		syncService: ss,
	}
}

// RegisterSyncRoutes registers the sync trigger routes.
func RegisterSyncRoutes(rg *gin.RouterGroup, syncService portssvc.SyncSvcFacade) {
	h := newSyncHandler(syncService)

	accounts := rg.Group("/accounts")
	{
		accounts.POST("/sync", h.syncAllAccounts)
		accounts.POST("/:id/sync", h.syncAccount)
	}
}

// syncAccount godoc
// @Summary Sync one account from the external warehouse
// @Description Fetches the account's external record, normalizes it and merges it into the stored account. A failed fetch or merge leaves the stored account untouched and is reported in the outcome rather than as an HTTP error.
// @Tags sync
// @Produce  json
// @Param   id path string true "Account ID"
// @Success 200 {object} dto.SyncOutcomeResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 500 {object} map[string]string "Failed to record sync attempt"
// @Security BearerAuth
// @Router /accounts/{id}/sync [post]
func (h *syncHandler) syncAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	outcome, err := h.syncService.SyncAccount(c.Request.Context(), accountID, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
			return
		}
		logger.Error("Failed to record sync attempt", slog.String("error", err.Error()), slog.String("account_id", accountID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record sync attempt"})
		return
	}

	c.JSON(http.StatusOK, dto.ToSyncOutcomeResponse(*outcome))
}

// syncAllAccounts godoc
// @Summary Sync every account from the external warehouse
// @Description Runs the sync pipeline over all accounts with bounded concurrency and returns one outcome per account. Individual failures never abort the batch.
// @Tags sync
// @Produce  json
// @Success 200 {object} dto.BatchSyncResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to run batch sync"
// @Security BearerAuth
// @Router /accounts/sync [post]
func (h *syncHandler) syncAllAccounts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	outcomes, err := h.syncService.SyncAllAccounts(c.Request.Context(), userID)
	if err != nil {
		logger.Error("Failed to run batch sync", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to run batch sync"})
		return
	}

	c.JSON(http.StatusOK, dto.ToBatchSyncResponse(outcomes))
}
