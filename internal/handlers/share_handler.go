package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "shallowfind/internal/errors"
	"shallowfind/internal/models"
	"shallowfind/internal/services"
)

// ShareHandler handles scenario sharing requests.
type ShareHandler struct {
	shareService services.ShareServicer
	auditService services.AuditServicer
}

// NewShareHandler creates a new ShareHandler.
func NewShareHandler(shareService services.ShareServicer, auditService services.AuditServicer) *ShareHandler {
	return &ShareHandler{shareService: shareService, auditService: auditService}
}

// CreateShareRequest represents the request payload for sharing a scenario.
type CreateShareRequest struct {
	SharedWithUserID string                 `json:"shared_with_user_id" binding:"required,uuid"`
	Permission       models.SharePermission `json:"permission" binding:"required,share_permission"`
}

// CreateShare handles sharing a scenario with another user
// @Summary     Share a scenario
// @Description Grant another user access to a scenario. Only the owner can share.
// @Tags        shares
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string             true "Scenario ID"
// @Param       request body CreateShareRequest true "Share details"
// @Success     201 {object} models.ScenarioShare "Share created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Scenario or user not found"
// @Failure     409 {object} ErrorResponse "Scenario already shared with this user"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /scenarios/{id}/shares [post]
func (h *ShareHandler) CreateShare(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateShareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	share, err := h.shareService.CreateShare(userID, c.Param("id"), req.SharedWithUserID, req.Permission)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_SHARE", "scenario_share", share.ID, c.ClientIP(),
		map[string]any{"shared_with_user_id": req.SharedWithUserID, "permission": req.Permission})

	c.JSON(http.StatusCreated, gin.H{"share": share})
}

// GetScenarioShares handles listing a scenario's shares
// @Summary     List shares
// @Description Get the shares of a scenario the user owns
// @Tags        shares
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Scenario ID"
// @Success     200 {array} models.ScenarioShare "Shares"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Scenario not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /scenarios/{id}/shares [get]
func (h *ShareHandler) GetScenarioShares(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	shares, err := h.shareService.GetScenarioShares(userID, c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"shares": shares})
}

// RevokeShare handles revoking a share
// @Summary     Revoke share
// @Description Revoke a scenario share. Only the scenario owner can revoke.
// @Tags        shares
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Share ID"
// @Success     204 "Share revoked"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Share not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /shares/{id} [delete]
func (h *ShareHandler) RevokeShare(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	shareID := c.Param("id")
	if err := h.shareService.RevokeShare(userID, shareID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "REVOKE_SHARE", "scenario_share", shareID, c.ClientIP(), nil)

	c.Status(http.StatusNoContent)
}
