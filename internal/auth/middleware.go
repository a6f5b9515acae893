package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/hometaste/hometaste-api/internal/httpx"
	"github.com/hometaste/hometaste-api/internal/user"
)

const userKey = "current_user"

// Middleware resolves bearer tokens to user records.
type Middleware struct {
	users  user.Repository
	tokens *TokenService
}

func NewMiddleware(users user.Repository, tokens *TokenService) *Middleware {
	return &Middleware{users: users, tokens: tokens}
}

func bearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	parts := strings.SplitN(h, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return parts[1]
	}
	return ""
}

func (m *Middleware) resolve(c *gin.Context) (*user.User, bool) {
	token := bearerToken(c)
	if token == "" {
		httpx.AbortDetail(c, http.StatusUnauthorized, "Not authenticated")
		return nil, false
	}
	email, err := m.tokens.Resolve(token)
	if err != nil {
		httpx.AbortDetail(c, http.StatusUnauthorized, "Could not validate credentials")
		return nil, false
	}
	u, err := m.users.GetByEmail(c.Request.Context(), email)
	if err != nil {
		httpx.AbortDetail(c, http.StatusUnauthorized, "Could not validate credentials")
		return nil, false
	}
	if !u.IsActive {
		httpx.AbortDetail(c, http.StatusBadRequest, "Inactive user")
		return nil, false
	}
	return u, true
}

// RequireUser aborts unless the request carries a valid token for an active user.
func (m *Middleware) RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		u, ok := m.resolve(c)
		if !ok {
			return
		}
		c.Set(userKey, u)
		c.Next()
	}
}

// RequireAdmin additionally checks the admin role.
func (m *Middleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		u, ok := m.resolve(c)
		if !ok {
			return
		}
		if !u.Role.IsAdmin() {
			httpx.AbortDetail(c, http.StatusForbidden, "Not enough permissions")
			return
		}
		c.Set(userKey, u)
		c.Next()
	}
}

// OptionalUser attaches the user when credentials are present and valid,
// and proceeds anonymously otherwise.
func (m *Middleware) OptionalUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.Next()
			return
		}
		email, err := m.tokens.Resolve(token)
		if err != nil {
			c.Next()
			return
		}
		if u, err := m.users.GetByEmail(c.Request.Context(), email); err == nil && u.IsActive {
			c.Set(userKey, u)
		}
		c.Next()
	}
}

// CurrentUser returns the user attached by RequireUser/RequireAdmin.
func CurrentUser(c *gin.Context) *user.User {
	v, ok := c.Get(userKey)
	if !ok {
		return nil
	}
	u, _ := v.(*user.User)
	return u
}
