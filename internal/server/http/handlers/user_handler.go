package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/bazaar/internal/domain/model"
	"github.com/polkiloo/bazaar/internal/server/http/dto"
)

// UserHandler serves profile endpoints.
type UserHandler struct {
	facade UserFacade
}

// NewUserHandler constructs UserHandler.
func NewUserHandler(facade UserFacade) *UserHandler {
	return &UserHandler{facade: facade}
}

// Me handles GET /api/user/me.
func (h *UserHandler) Me(c *gin.Context) {
	user, err := h.facade.Profile(c.Request.Context(), CurrentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewUserResponse(user))
}

// Update handles PUT /api/user.
func (h *UserHandler) Update(c *gin.Context) {
	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	user, err := h.facade.UpdateProfile(c.Request.Context(), CurrentUserID(c), req.Name, req.Bank)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewUserResponse(user))
}

// RequestSeller handles POST /api/user/seller-request.
func (h *UserHandler) RequestSeller(c *gin.Context) {
	user, err := h.facade.RequestSeller(c.Request.Context(), CurrentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, dto.NewUserResponse(user))
}

// SetRole handles PATCH /api/admin/users/:id/role.
func (h *UserHandler) SetRole(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		c.AbortWithStatus(http.StatusBadRequest)
		return
	}
	var req dto.RoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	user, err := h.facade.SetRole(c.Request.Context(), id, model.Role(req.Role))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewUserResponse(user))
}
