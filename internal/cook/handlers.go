package cook

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/hometaste/hometaste-api/internal/auth"
	"github.com/hometaste/hometaste-api/internal/httpx"
)

// RegisterRoutes mounts the /cooks endpoints. Reads are public, writes
// require the owning user.
func RegisterRoutes(rg *gin.RouterGroup, repo Repository, mw *auth.Middleware) {
	rg.GET("", listCooksHandler(repo))
	rg.GET("/:id", getCookHandler(repo))
	rg.POST("", mw.RequireUser(), createCookHandler(repo))
	rg.GET("/me/profile", mw.RequireUser(), myCookProfileHandler(repo))
	rg.PUT("/:id", mw.RequireUser(), updateCookHandler(repo))
	rg.DELETE("/:id", mw.RequireUser(), deleteCookHandler(repo))
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		httpx.Detail(c, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}

// createCookHandler creates the requester's cook profile.
//
//	@Summary	Create a cook profile
//	@Tags		cook profiles
//	@Security	BearerAuth
//	@Accept		json
//	@Produce	json
//	@Param		body	body		CreateRequest	true	"profile data"
//	@Success	200		{object}	CookProfile
//	@Failure	400		{object}	httpx.HTTPError
//	@Router		/cooks [post]
func createCookHandler(repo Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.Detail(c, http.StatusBadRequest, "invalid request body: "+err.Error())
			return
		}
		radius := 5.0 // miles
		if req.DeliveryRadius != nil {
			radius = *req.DeliveryRadius
		}
		cur := auth.CurrentUser(c)
		p, err := repo.Create(c.Request.Context(), cur.ID, req.Name, req.Bio, req.PhotoURL, radius)
		if err != nil {
			if errors.Is(err, ErrAlreadyExists) {
				httpx.Detail(c, http.StatusBadRequest, "Cook profile already exists for this user")
				return
			}
			httpx.Detail(c, http.StatusInternalServerError, "Failed to create cook profile")
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

// listCooksHandler lists profiles newest-first.
//
//	@Summary	List cook profiles
//	@Tags		cook profiles
//	@Produce	json
//	@Param		skip	query	int	false	"offset"
//	@Param		limit	query	int	false	"page size"
//	@Success	200	{array}		CookProfile
//	@Router		/cooks [get]
func listCooksHandler(repo Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		page := httpx.PageFromQuery(c)
		out, err := repo.List(c.Request.Context(), page.Limit, page.Skip)
		if err != nil {
			httpx.Detail(c, http.StatusInternalServerError, "Failed to list cook profiles")
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

// getCookHandler returns one profile.
//
//	@Summary	Get a cook profile
//	@Tags		cook profiles
//	@Produce	json
//	@Param		id	path		int	true	"profile id"
//	@Success	200	{object}	CookProfile
//	@Failure	404	{object}	httpx.HTTPError
//	@Router		/cooks/{id} [get]
func getCookHandler(repo Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}
		p, err := repo.GetByID(c.Request.Context(), id)
		if err != nil {
			httpx.Detail(c, http.StatusNotFound, "Cook profile not found")
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

// myCookProfileHandler returns the requester's own profile.
//
//	@Summary	Get my cook profile
//	@Tags		cook profiles
//	@Security	BearerAuth
//	@Produce	json
//	@Success	200	{object}	CookProfile
//	@Failure	404	{object}	httpx.HTTPError
//	@Router		/cooks/me/profile [get]
func myCookProfileHandler(repo Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		cur := auth.CurrentUser(c)
		p, err := repo.GetByUserID(c.Request.Context(), cur.ID)
		if err != nil {
			httpx.Detail(c, http.StatusNotFound, "Cook profile not found")
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

// updateCookHandler applies a partial update; owner only.
//
//	@Summary	Update a cook profile
//	@Tags		cook profiles
//	@Security	BearerAuth
//	@Accept		json
//	@Produce	json
//	@Param		id		path		int				true	"profile id"
//	@Param		body	body		UpdateRequest	true	"fields to change"
//	@Success	200		{object}	CookProfile
//	@Failure	403		{object}	httpx.HTTPError
//	@Failure	404		{object}	httpx.HTTPError
//	@Router		/cooks/{id} [put]
func updateCookHandler(repo Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}
		var req UpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.Detail(c, http.StatusBadRequest, "invalid request body: "+err.Error())
			return
		}
		existing, err := repo.GetByID(c.Request.Context(), id)
		if err != nil {
			httpx.Detail(c, http.StatusNotFound, "Cook profile not found")
			return
		}
		if existing.UserID != auth.CurrentUser(c).ID {
			httpx.Detail(c, http.StatusForbidden, "Not authorized to update this profile")
			return
		}
		p, err := repo.Update(c.Request.Context(), id, Update{
			Name:           req.Name,
			Bio:            req.Bio,
			PhotoURL:       req.PhotoURL,
			DeliveryRadius: req.DeliveryRadius,
		})
		if err != nil {
			if errors.Is(err, ErrNoFields) {
				httpx.Detail(c, http.StatusBadRequest, "No fields to update")
				return
			}
			httpx.Detail(c, http.StatusInternalServerError, "Failed to update cook profile")
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

// deleteCookHandler removes a profile; owner only.
//
//	@Summary	Delete a cook profile
//	@Tags		cook profiles
//	@Security	BearerAuth
//	@Produce	json
//	@Param		id	path	int	true	"profile id"
//	@Success	200	{object}	map[string]string
//	@Failure	403	{object}	httpx.HTTPError
//	@Failure	404	{object}	httpx.HTTPError
//	@Router		/cooks/{id} [delete]
func deleteCookHandler(repo Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}
		existing, err := repo.GetByID(c.Request.Context(), id)
		if err != nil {
			httpx.Detail(c, http.StatusNotFound, "Cook profile not found")
			return
		}
		if existing.UserID != auth.CurrentUser(c).ID {
			httpx.Detail(c, http.StatusForbidden, "Not authorized to delete this profile")
			return
		}
		if _, err := repo.Delete(c.Request.Context(), id); err != nil {
			httpx.Detail(c, http.StatusInternalServerError, "Failed to delete cook profile")
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Cook profile deleted successfully"})
	}
}
