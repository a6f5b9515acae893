package menu

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/hometaste/hometaste-api/internal/auth"
	"github.com/hometaste/hometaste-api/internal/cook"
	"github.com/hometaste/hometaste-api/internal/httpx"
)

// RegisterRoutes mounts the /menu endpoints. Reads are public, writes require
// the owning cook's user.
func RegisterRoutes(rg *gin.RouterGroup, repo Repository, cooks cook.Repository, mw *auth.Middleware) {
	rg.GET("", listMenuHandler(repo))
	rg.GET("/:id", getMenuItemHandler(repo))
	rg.GET("/cook/:cook_id", listCookMenuHandler(repo, cooks))
	rg.POST("", mw.RequireUser(), createMenuItemHandler(repo, cooks))
	rg.PUT("/:id", mw.RequireUser(), updateMenuItemHandler(repo))
	rg.DELETE("/:id", mw.RequireUser(), deleteMenuItemHandler(repo))
}

func validPrice(s string) bool {
	d, err := decimal.NewFromString(s)
	return err == nil && d.Sign() > 0
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		httpx.Detail(c, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}

// createMenuItemHandler lists a new item under the requester's cook profile.
//
//	@Summary	Create a menu item
//	@Tags		menu items
//	@Security	BearerAuth
//	@Accept		json
//	@Produce	json
//	@Param		body	body		CreateRequest	true	"item data"
//	@Success	200		{object}	MenuItem
//	@Failure	400		{object}	httpx.HTTPError
//	@Router		/menu [post]
func createMenuItemHandler(repo Repository, cooks cook.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.Detail(c, http.StatusBadRequest, "invalid request body: "+err.Error())
			return
		}
		if !validPrice(req.Price) {
			httpx.Detail(c, http.StatusBadRequest, "price must be a positive decimal")
			return
		}
		cur := auth.CurrentUser(c)
		profile, err := cooks.GetByUserID(c.Request.Context(), cur.ID)
		if err != nil {
			httpx.Detail(c, http.StatusBadRequest, "You must have a cook profile to create menu items")
			return
		}
		available := true
		if req.IsAvailable != nil {
			available = *req.IsAvailable
		}
		m, err := repo.Create(c.Request.Context(), profile.ID, req.Title, req.Description, req.Price, req.PhotoURL, available)
		if err != nil {
			httpx.Detail(c, http.StatusInternalServerError, "Failed to create menu item")
			return
		}
		c.JSON(http.StatusOK, m)
	}
}

// listMenuHandler lists items with optional filters.
//
//	@Summary	List menu items
//	@Tags		menu items
//	@Produce	json
//	@Param		skip			query	int		false	"offset"
//	@Param		limit			query	int		false	"page size"
//	@Param		cook_id			query	int		false	"filter by cook"
//	@Param		available_only	query	bool	false	"only available items (default true)"
//	@Success	200	{array}	MenuItem
//	@Router		/menu [get]
func listMenuHandler(repo Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		page := httpx.PageFromQuery(c)
		q := Query{Limit: page.Limit, Offset: page.Skip, AvailableOnly: true}
		if v := c.Query("available_only"); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				httpx.Detail(c, http.StatusBadRequest, "available_only must be a boolean")
				return
			}
			q.AvailableOnly = b
		}
		if v := c.Query("cook_id"); v != "" {
			id, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				httpx.Detail(c, http.StatusBadRequest, "cook_id must be an integer")
				return
			}
			q.CookID = &id
		}
		out, err := repo.List(c.Request.Context(), q)
		if err != nil {
			httpx.Detail(c, http.StatusInternalServerError, "Failed to list menu items")
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

// getMenuItemHandler returns one item.
//
//	@Summary	Get a menu item
//	@Tags		menu items
//	@Produce	json
//	@Param		id	path		int	true	"item id"
//	@Success	200	{object}	MenuItem
//	@Failure	404	{object}	httpx.HTTPError
//	@Router		/menu/{id} [get]
func getMenuItemHandler(repo Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		m, err := repo.GetByID(c.Request.Context(), id)
		if err != nil {
			httpx.Detail(c, http.StatusNotFound, "Menu item not found")
			return
		}
		c.JSON(http.StatusOK, m)
	}
}

// listCookMenuHandler lists one cook's items; 404 when the cook is unknown.
//
//	@Summary	List a cook's menu items
//	@Tags		menu items
//	@Produce	json
//	@Param		cook_id			path	int		true	"cook profile id"
//	@Param		skip			query	int		false	"offset"
//	@Param		limit			query	int		false	"page size"
//	@Param		available_only	query	bool	false	"only available items (default true)"
//	@Success	200	{array}		MenuItem
//	@Failure	404	{object}	httpx.HTTPError
//	@Router		/menu/cook/{cook_id} [get]
func listCookMenuHandler(repo Repository, cooks cook.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		cookID, ok := pathID(c, "cook_id")
		if !ok {
			return
		}
		if _, err := cooks.GetByID(c.Request.Context(), cookID); err != nil {
			httpx.Detail(c, http.StatusNotFound, "Cook not found")
			return
		}
		page := httpx.PageFromQuery(c)
		q := Query{CookID: &cookID, Limit: page.Limit, Offset: page.Skip, AvailableOnly: true}
		if v := c.Query("available_only"); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				httpx.Detail(c, http.StatusBadRequest, "available_only must be a boolean")
				return
			}
			q.AvailableOnly = b
		}
		out, err := repo.List(c.Request.Context(), q)
		if err != nil {
			httpx.Detail(c, http.StatusInternalServerError, "Failed to list menu items")
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

// updateMenuItemHandler applies a partial update; owner only.
//
//	@Summary	Update a menu item
//	@Tags		menu items
//	@Security	BearerAuth
//	@Accept		json
//	@Produce	json
//	@Param		id		path		int				true	"item id"
//	@Param		body	body		UpdateRequest	true	"fields to change"
//	@Success	200		{object}	MenuItem
//	@Failure	403		{object}	httpx.HTTPError
//	@Failure	404		{object}	httpx.HTTPError
//	@Router		/menu/{id} [put]
func updateMenuItemHandler(repo Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		var req UpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.Detail(c, http.StatusBadRequest, "invalid request body: "+err.Error())
			return
		}
		if req.Price != nil && !validPrice(*req.Price) {
			httpx.Detail(c, http.StatusBadRequest, "price must be a positive decimal")
			return
		}
		existing, err := repo.GetWithOwner(c.Request.Context(), id)
		if err != nil {
			httpx.Detail(c, http.StatusNotFound, "Menu item not found")
			return
		}
		if existing.CookUserID != auth.CurrentUser(c).ID {
			httpx.Detail(c, http.StatusForbidden, "Not authorized to update this menu item")
			return
		}
		m, err := repo.Update(c.Request.Context(), id, Update{
			Title:       req.Title,
			Description: req.Description,
			Price:       req.Price,
			PhotoURL:    req.PhotoURL,
			IsAvailable: req.IsAvailable,
		})
		if err != nil {
			if errors.Is(err, ErrNoFields) {
				httpx.Detail(c, http.StatusBadRequest, "No fields to update")
				return
			}
			httpx.Detail(c, http.StatusInternalServerError, "Failed to update menu item")
			return
		}
		c.JSON(http.StatusOK, m)
	}
}

// deleteMenuItemHandler removes an item; owner only.
//
//	@Summary	Delete a menu item
//	@Tags		menu items
//	@Security	BearerAuth
//	@Produce	json
//	@Param		id	path	int	true	"item id"
//	@Success	200	{object}	map[string]string
//	@Failure	403	{object}	httpx.HTTPError
//	@Failure	404	{object}	httpx.HTTPError
//	@Router		/menu/{id} [delete]
func deleteMenuItemHandler(repo Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		existing, err := repo.GetWithOwner(c.Request.Context(), id)
		if err != nil {
			httpx.Detail(c, http.StatusNotFound, "Menu item not found")
			return
		}
		if existing.CookUserID != auth.CurrentUser(c).ID {
			httpx.Detail(c, http.StatusForbidden, "Not authorized to delete this menu item")
			return
		}
		if _, err := repo.Delete(c.Request.Context(), id); err != nil {
			httpx.Detail(c, http.StatusInternalServerError, "Failed to delete menu item")
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Menu item deleted successfully"})
	}
}
