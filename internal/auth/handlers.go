package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hometaste/hometaste-api/internal/config"
	"github.com/hometaste/hometaste-api/internal/httpx"
	"github.com/hometaste/hometaste-api/internal/user"
)

// RegisterRequest payload for account creation.
// swagger:model RegisterRequest
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email" example:"buyer@x.com"`
	FullName string `json:"full_name" binding:"required" example:"Jane Doe"`
	Password string `json:"password" binding:"required" example:"s3cret"`
	Role     string `json:"role" example:"user"`
}

// LoginRequest payload for JSON login.
// swagger:model LoginRequest
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Token response for both login variants.
// swagger:model Token
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type" example:"bearer"`
}

// RegisterRoutes mounts the /auth endpoints.
func RegisterRoutes(rg *gin.RouterGroup, repo user.Repository, tokens *TokenService, cfg config.Config) {
	rg.POST("/register", registerHandler(repo, cfg))
	rg.POST("/login", loginHandler(repo, tokens))
	rg.POST("/token", tokenHandler(repo, tokens))
}

// registerHandler creates a user account.
//
//	@Summary	Register a new user
//	@Tags		authentication
//	@Accept		json
//	@Produce	json
//	@Param		body	body		RegisterRequest	true	"account data"
//	@Success	200		{object}	user.User
//	@Failure	400		{object}	httpx.HTTPError
//	@Router		/auth/register [post]
func registerHandler(repo user.Repository, cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.Detail(c, http.StatusBadRequest, "invalid request body: "+err.Error())
			return
		}
		role := user.RoleUser
		if req.Role != "" {
			var err error
			if role, err = user.ParseRole(req.Role); err != nil {
				httpx.Detail(c, http.StatusBadRequest, err.Error())
				return
			}
		}
		hash, err := HashPassword(req.Password, cfg.BcryptCost)
		if err != nil {
			httpx.Detail(c, http.StatusInternalServerError, "Failed to create user")
			return
		}
		u, err := repo.Create(c.Request.Context(), req.Email, req.FullName, role, hash)
		if err != nil {
			if errors.Is(err, user.ErrEmailTaken) {
				httpx.Detail(c, http.StatusBadRequest, "Email already registered")
				return
			}
			httpx.Detail(c, http.StatusInternalServerError, "Failed to create user")
			return
		}
		c.JSON(http.StatusOK, u)
	}
}

func authenticate(c *gin.Context, repo user.Repository, tokens *TokenService, email, password string) {
	creds, err := repo.GetCredentials(c.Request.Context(), email)
	if err != nil || !CheckPassword(creds.HashedPassword, password) {
		c.Header("WWW-Authenticate", "Bearer")
		httpx.Detail(c, http.StatusUnauthorized, "Incorrect email or password")
		return
	}
	if !creds.IsActive {
		httpx.Detail(c, http.StatusBadRequest, "Inactive user")
		return
	}
	token, err := tokens.Issue(creds.Email)
	if err != nil {
		httpx.Detail(c, http.StatusInternalServerError, "Failed to issue token")
		return
	}
	c.JSON(http.StatusOK, Token{AccessToken: token, TokenType: "bearer"})
}

// loginHandler verifies credentials from a JSON body.
//
//	@Summary	Login with email and password
//	@Tags		authentication
//	@Accept		json
//	@Produce	json
//	@Param		body	body		LoginRequest	true	"credentials"
//	@Success	200		{object}	Token
//	@Failure	401		{object}	httpx.HTTPError
//	@Router		/auth/login [post]
func loginHandler(repo user.Repository, tokens *TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.Detail(c, http.StatusBadRequest, "invalid request body: "+err.Error())
			return
		}
		authenticate(c, repo, tokens, req.Email, req.Password)
	}
}

// tokenHandler is the OAuth2-compatible form login; the form's username
// field carries the email.
//
//	@Summary	OAuth2-compatible token login
//	@Tags		authentication
//	@Accept		x-www-form-urlencoded
//	@Produce	json
//	@Param		username	formData	string	true	"email"
//	@Param		password	formData	string	true	"password"
//	@Success	200			{object}	Token
//	@Failure	401			{object}	httpx.HTTPError
//	@Router		/auth/token [post]
func tokenHandler(repo user.Repository, tokens *TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		email := c.PostForm("username")
		password := c.PostForm("password")
		if email == "" || password == "" {
			httpx.Detail(c, http.StatusBadRequest, "username and password are required")
			return
		}
		authenticate(c, repo, tokens, email, password)
	}
}
