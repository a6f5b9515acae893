package order

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/hometaste/hometaste-api/internal/auth"
	"github.com/hometaste/hometaste-api/internal/cook"
	"github.com/hometaste/hometaste-api/internal/httpx"
	"github.com/hometaste/hometaste-api/internal/menu"
)

// RegisterRoutes mounts the /orders endpoints; all of them require auth.
func RegisterRoutes(rg *gin.RouterGroup, repo Repository, items menu.Repository, cooks cook.Repository, mw *auth.Middleware) {
	rg.Use(mw.RequireUser())
	rg.POST("", placeOrderHandler(repo, items))
	rg.POST("/batch", placeBatchOrderHandler(repo, items))
	rg.GET("", listOrdersHandler(repo, cooks))
	rg.GET("/:id", getOrderHandler(repo))
	rg.PUT("/:id", updateOrderHandler(repo))
}

// checkLine validates one (menu item, quantity) pair for the given buyer and
// returns the frozen order values. The returned item carries the cook id for
// the same-cook batch rule.
func checkLine(c *gin.Context, items menu.Repository, buyerID, menuItemID int64, quantity int, instructions *string) (*NewOrder, *menu.ItemWithOwner, bool) {
	if quantity < 1 {
		httpx.Detail(c, http.StatusBadRequest, "quantity must be at least 1")
		return nil, nil, false
	}
	item, err := items.GetWithOwner(c.Request.Context(), menuItemID)
	if err != nil {
		httpx.Detail(c, http.StatusNotFound, "Menu item not found")
		return nil, nil, false
	}
	if !item.IsAvailable {
		httpx.Detail(c, http.StatusBadRequest, "Menu item is not available")
		return nil, nil, false
	}
	if item.CookUserID == buyerID {
		httpx.Detail(c, http.StatusBadRequest, "You cannot order your own menu items")
		return nil, nil, false
	}
	unit, err := decimal.NewFromString(item.Price)
	if err != nil {
		httpx.Detail(c, http.StatusInternalServerError, "Internal server error")
		return nil, nil, false
	}
	total := unit.Mul(decimal.NewFromInt(int64(quantity)))
	return &NewOrder{
		BuyerID:             buyerID,
		MenuItemID:          item.ID,
		CookID:              item.CookID,
		Quantity:            quantity,
		TotalPrice:          total.String(),
		SpecialInstructions: instructions,
	}, item, true
}

// placeOrderHandler places a single order.
//
//	@Summary	Place an order
//	@Tags		orders
//	@Security	BearerAuth
//	@Accept		json
//	@Produce	json
//	@Param		body	body		CreateRequest	true	"order data"
//	@Success	200		{object}	Order
//	@Failure	400		{object}	httpx.HTTPError
//	@Failure	404		{object}	httpx.HTTPError
//	@Router		/orders [post]
func placeOrderHandler(repo Repository, items menu.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.Detail(c, http.StatusBadRequest, "invalid request body: "+err.Error())
			return
		}
		if req.Quantity == 0 {
			req.Quantity = 1
		}
		cur := auth.CurrentUser(c)
		n, _, ok := checkLine(c, items, cur.ID, req.MenuItemID, req.Quantity, req.SpecialInstructions)
		if !ok {
			return
		}
		o, err := repo.Create(c.Request.Context(), *n)
		if err != nil {
			httpx.Detail(c, http.StatusInternalServerError, "Failed to create order")
			return
		}
		c.JSON(http.StatusOK, o)
	}
}

// placeBatchOrderHandler places one order per line item, all from one cook,
// atomically.
//
//	@Summary	Place a batch order
//	@Tags		orders
//	@Security	BearerAuth
//	@Accept		json
//	@Produce	json
//	@Param		body	body		BatchCreateRequest	true	"batch lines"
//	@Success	200		{object}	BatchResponse
//	@Failure	400		{object}	httpx.HTTPError
//	@Failure	404		{object}	httpx.HTTPError
//	@Router		/orders/batch [post]
func placeBatchOrderHandler(repo Repository, items menu.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req BatchCreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.Detail(c, http.StatusBadRequest, "invalid request body: "+err.Error())
			return
		}
		if len(req.Items) == 0 {
			httpx.Detail(c, http.StatusBadRequest, "batch order must contain at least one item")
			return
		}
		cur := auth.CurrentUser(c)

		lines := make([]NewOrder, 0, len(req.Items))
		total := decimal.Zero
		var batchCook *int64
		for _, line := range req.Items {
			qty := line.Quantity
			if qty == 0 {
				qty = 1
			}
			n, item, ok := checkLine(c, items, cur.ID, line.MenuItemID, qty, line.SpecialInstructions)
			if !ok {
				return
			}
			if batchCook == nil {
				id := item.CookID
				batchCook = &id
			} else if *batchCook != item.CookID {
				httpx.Detail(c, http.StatusBadRequest, "All items in a batch order must be from the same cook")
				return
			}
			lineTotal, err := decimal.NewFromString(n.TotalPrice)
			if err != nil {
				httpx.Detail(c, http.StatusInternalServerError, "Internal server error")
				return
			}
			total = total.Add(lineTotal)
			lines = append(lines, *n)
		}

		batch, orders, err := repo.CreateBatch(c.Request.Context(), cur.ID, total.String(), lines)
		if err != nil {
			httpx.Detail(c, http.StatusInternalServerError, "Failed to create batch order")
			return
		}
		c.JSON(http.StatusOK, BatchResponse{Batch: *batch, Orders: orders})
	}
}

// listOrdersHandler lists the requester's orders, from both sides of the
// marketplace.
//
//	@Summary	List my orders
//	@Tags		orders
//	@Security	BearerAuth
//	@Produce	json
//	@Param		skip	query	int		false	"offset"
//	@Param		limit	query	int		false	"page size"
//	@Param		status	query	string	false	"filter by status"
//	@Success	200	{array}		Order
//	@Failure	400	{object}	httpx.HTTPError
//	@Router		/orders [get]
func listOrdersHandler(repo Repository, cooks cook.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		cur := auth.CurrentUser(c)
		page := httpx.PageFromQuery(c)
		q := Query{BuyerID: &cur.ID, Limit: page.Limit, Offset: page.Skip}
		if profile, err := cooks.GetByUserID(c.Request.Context(), cur.ID); err == nil {
			q.CookID = &profile.ID
		}
		if v := c.Query("status"); v != "" {
			st, err := ParseStatus(v)
			if err != nil {
				httpx.Detail(c, http.StatusBadRequest, err.Error())
				return
			}
			q.Status = &st
		}
		out, err := repo.List(c.Request.Context(), q)
		if err != nil {
			httpx.Detail(c, http.StatusInternalServerError, "Failed to list orders")
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

// getOrderHandler returns one order when the requester is on either side;
// anything else is indistinguishable from a missing order.
//
//	@Summary	Get an order
//	@Tags		orders
//	@Security	BearerAuth
//	@Produce	json
//	@Param		id	path		int	true	"order id"
//	@Success	200	{object}	Order
//	@Failure	404	{object}	httpx.HTTPError
//	@Router		/orders/{id} [get]
func getOrderHandler(repo Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			httpx.Detail(c, http.StatusBadRequest, "invalid id")
			return
		}
		cur := auth.CurrentUser(c)
		o, err := repo.GetWithOwner(c.Request.Context(), id)
		if err != nil || (o.BuyerID != cur.ID && o.CookUserID != cur.ID) {
			httpx.Detail(c, http.StatusNotFound, "Order not found or access denied")
			return
		}
		c.JSON(http.StatusOK, o.Order)
	}
}

// updateOrderHandler mutates status and/or special instructions. The buyer
// may always edit instructions; only the cook may change status, and only
// along the transition table. Omitted fields are left unchanged.
//
//	@Summary	Update an order
//	@Tags		orders
//	@Security	BearerAuth
//	@Accept		json
//	@Produce	json
//	@Param		id		path		int				true	"order id"
//	@Param		body	body		UpdateRequest	true	"fields to change"
//	@Success	200		{object}	Order
//	@Failure	400		{object}	httpx.HTTPError
//	@Failure	403		{object}	httpx.HTTPError
//	@Failure	404		{object}	httpx.HTTPError
//	@Router		/orders/{id} [put]
func updateOrderHandler(repo Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			httpx.Detail(c, http.StatusBadRequest, "invalid id")
			return
		}
		var req UpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.Detail(c, http.StatusBadRequest, "invalid request body: "+err.Error())
			return
		}
		existing, err := repo.GetWithOwner(c.Request.Context(), id)
		if err != nil {
			httpx.Detail(c, http.StatusNotFound, "Order not found")
			return
		}
		cur := auth.CurrentUser(c)
		isBuyer := existing.BuyerID == cur.ID
		isCook := existing.CookUserID == cur.ID
		if !isBuyer && !isCook {
			httpx.Detail(c, http.StatusForbidden, "Not authorized to update this order")
			return
		}

		upd := Update{SpecialInstructions: req.SpecialInstructions}
		if req.Status != nil {
			if !isCook {
				httpx.Detail(c, http.StatusForbidden, "Only the cook can update order status")
				return
			}
			next, err := ParseStatus(*req.Status)
			if err != nil {
				httpx.Detail(c, http.StatusBadRequest, err.Error())
				return
			}
			if err := ValidateTransition(existing.Status, next); err != nil {
				httpx.Detail(c, http.StatusBadRequest, err.Error())
				return
			}
			upd.Status = &next
		}

		o, err := repo.Update(c.Request.Context(), id, upd)
		if err != nil {
			if errors.Is(err, ErrNoFields) {
				httpx.Detail(c, http.StatusBadRequest, "No fields to update")
				return
			}
			httpx.Detail(c, http.StatusInternalServerError, "Failed to update order")
			return
		}
		c.JSON(http.StatusOK, o)
	}
}
