package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/storelane/storelane-api/internal/models"
	"github.com/storelane/storelane-api/internal/service"
	"github.com/storelane/storelane-api/internal/utils"
)

// StoreHandler handles store and team membership endpoints.
type StoreHandler struct {
	storeService *service.StoreService
	authService  *service.AuthService
	userService  service.UserStore
}

// NewStoreHandler constructs a StoreHandler.
func NewStoreHandler(storeService *service.StoreService, authService *service.AuthService, userService service.UserStore) *StoreHandler {
	return &StoreHandler{storeService: storeService, authService: authService, userService: userService}
}

// storeFromContext returns the store resolved by StoreMiddleware.
func storeFromContext(c *gin.Context) *models.Store {
	return c.MustGet("store").(*models.Store)
}

// CreateStore creates a store owned by the caller.
func (h *StoreHandler) CreateStore(c *gin.Context) {
	var in service.StoreInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.Error(c, 400, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	store, err := h.storeService.Create(c.Request.Context(), c.GetString("user_id"), &in)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, 201, "Store created", store)
}

// ListStores returns the stores the caller belongs to.
func (h *StoreHandler) ListStores(c *gin.Context) {
	stores, err := h.storeService.ListForUser(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, 200, "Stores retrieved successfully", gin.H{"stores": stores})
}

// GetStore returns the resolved store.
func (h *StoreHandler) GetStore(c *gin.Context) {
	utils.Success(c, 200, "Store retrieved successfully", storeFromContext(c))
}

// UpdateStore renames the store or changes its currency.
func (h *StoreHandler) UpdateStore(c *gin.Context) {
	var in service.StoreInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.Error(c, 400, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	store, err := h.storeService.Update(c.Request.Context(), storeFromContext(c).ID, &in)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, 200, "Store updated", store)
}

// DeleteStore removes the store. Owner only.
func (h *StoreHandler) DeleteStore(c *gin.Context) {
	if err := h.storeService.Delete(c.Request.Context(), storeFromContext(c).ID, c.GetString("user_id")); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, 200, "Store deleted", nil)
}

// ListMembers returns the store's team.
func (h *StoreHandler) ListMembers(c *gin.Context) {
	members, err := h.storeService.ListMembers(c.Request.Context(), storeFromContext(c).ID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, 200, "Members retrieved successfully", gin.H{"members": members})
}

type inviteRequest struct {
	Email string `json:"email"`
}

// InviteMember emails a store invitation.
func (h *StoreHandler) InviteMember(c *gin.Context) {
	var req inviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	if err := h.authService.Invite(c.Request.Context(), storeFromContext(c).ID, req.Email); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, 200, "Invitation sent", nil)
}

// AcceptInvite consumes an invitation token for the calling user.
func (h *StoreHandler) AcceptInvite(c *gin.Context) {
	var req struct {
		Token string `json:"token"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Token == "" {
		utils.Error(c, 400, "VALIDATION_ERROR", "Token is required")
		return
	}
	user, err := h.userService.GetByID(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	store, err := h.authService.AcceptInvite(c.Request.Context(), user, req.Token)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, 200, "Invitation accepted", store)
}

// RemoveMember drops a member from the store.
func (h *StoreHandler) RemoveMember(c *gin.Context) {
	if err := h.storeService.RemoveMember(c.Request.Context(), storeFromContext(c).ID, c.Param("userId")); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, 200, "Member removed", nil)
}
