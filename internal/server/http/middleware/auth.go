package middleware

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/bazaar/internal/domain/errors"
	"github.com/polkiloo/bazaar/internal/domain/model"
	pkgAuth "github.com/polkiloo/bazaar/internal/pkg/auth"
)

const (
	// UserIDContextKey is a gin context key for authenticated user identifier.
	UserIDContextKey = "userID"
	// UserContextKey holds the profile loaded by RequireRole.
	UserContextKey = "user"
	authCookieName = "token"
)

// TokenParser resolves session tokens into user identifiers.
type TokenParser interface {
	ParseToken(token string) (int64, error)
}

// ProfileLookup loads the authenticated user's profile.
type ProfileLookup interface {
	Profile(ctx context.Context, userID int64) (*model.User, error)
}

// AuthRequired ensures user is authenticated before accessing handler.
func AuthRequired(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		userID, err := parser.ParseToken(token)
		if err != nil {
			if errors.Is(err, pkgAuth.ErrInvalidToken) {
				c.AbortWithStatus(http.StatusUnauthorized)
				return
			}
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}

		c.Set(UserIDContextKey, userID)
		c.Next()
	}
}

// RequireRole lets through only users holding one of roles. Must run after AuthRequired.
func RequireRole(lookup ProfileLookup, roles ...model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetInt64(UserIDContextKey)
		user, err := lookup.Profile(c.Request.Context(), userID)
		if err != nil {
			if errors.Is(err, domainErrors.ErrNotFound) {
				c.AbortWithStatus(http.StatusUnauthorized)
				return
			}
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}
		if !slices.Contains(roles, user.Role) {
			c.AbortWithStatus(http.StatusForbidden)
			return
		}

		c.Set(UserContextKey, user)
		c.Next()
	}
}

func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(strings.ToLower(authHeader), "bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}

	if cookie, err := c.Cookie(authCookieName); err == nil {
		return cookie
	}
	return ""
}

// CookiePolicy controls attributes of the auth cookie. Secure cookies are sent
// cross-site with SameSite=None; otherwise the cookie is SameSite=Strict.
type CookiePolicy struct {
	Secure bool
	MaxAge time.Duration
}

func (p CookiePolicy) sameSite() http.SameSite {
	if p.Secure {
		return http.SameSiteNoneMode
	}
	return http.SameSiteStrictMode
}

// SetAuthCookie writes auth token cookie and Authorization header to response.
func (p CookiePolicy) SetAuthCookie(c *gin.Context, token string) {
	c.SetSameSite(p.sameSite())
	c.SetCookie(authCookieName, token, int(p.MaxAge/time.Second), "/", "", p.Secure, true)
	c.Header("Authorization", "Bearer "+token)
}

// ClearAuthCookie expires auth token cookie.
func (p CookiePolicy) ClearAuthCookie(c *gin.Context) {
	c.SetSameSite(p.sameSite())
	c.SetCookie(authCookieName, "", -1, "/", "", p.Secure, true)
}
