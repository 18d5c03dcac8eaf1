package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/bazaar/internal/domain/errors"
	"github.com/polkiloo/bazaar/internal/server/http/dto"
	"github.com/polkiloo/bazaar/internal/server/http/middleware"
)

// AuthHandler processes registration, login and logout.
type AuthHandler struct {
	facade  AuthFacade
	cookies middleware.CookiePolicy
}

// NewAuthHandler creates AuthHandler instance.
func NewAuthHandler(facade AuthFacade, cookies middleware.CookiePolicy) *AuthHandler {
	return &AuthHandler{facade: facade, cookies: cookies}
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	token, err := h.facade.Register(c.Request.Context(), req.Email, req.Name, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	h.cookies.SetAuthCookie(c, token)
	c.JSON(http.StatusCreated, dto.TokenResponse{Token: token})
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	token, err := h.facade.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domainErrors.ErrInvalidCredentials) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		respondError(c, err)
		return
	}

	h.cookies.SetAuthCookie(c, token)
	c.JSON(http.StatusOK, dto.TokenResponse{Token: token})
}

// Logout handles GET /api/auth/logout.
func (h *AuthHandler) Logout(c *gin.Context) {
	h.cookies.ClearAuthCookie(c)
	c.Status(http.StatusNoContent)
}
