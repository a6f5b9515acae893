package message

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/hometaste/hometaste-api/internal/auth"
	"github.com/hometaste/hometaste-api/internal/cook"
	"github.com/hometaste/hometaste-api/internal/httpx"
	"github.com/hometaste/hometaste-api/internal/order"
)

// RegisterRoutes mounts the /messages endpoints; all of them require auth.
func RegisterRoutes(rg *gin.RouterGroup, repo Repository, orders order.Repository, cooks cook.Repository, mw *auth.Middleware) {
	rg.Use(mw.RequireUser())
	rg.POST("", createMessageHandler(repo, orders))
	rg.GET("/order/:order_id", listOrderMessagesHandler(repo, orders))
	rg.GET("", listMyMessagesHandler(repo, cooks))
}

// orderParticipant loads the order and checks the requester is its buyer or
// its cook-side owner.
func orderParticipant(c *gin.Context, orders order.Repository, orderID int64, denied string) bool {
	o, err := orders.GetWithOwner(c.Request.Context(), orderID)
	if err != nil {
		httpx.Detail(c, http.StatusNotFound, "Order not found")
		return false
	}
	cur := auth.CurrentUser(c)
	if o.BuyerID != cur.ID && o.CookUserID != cur.ID {
		httpx.Detail(c, http.StatusForbidden, denied)
		return false
	}
	return true
}

// createMessageHandler posts a message on an order the requester takes part in.
//
//	@Summary	Post a message on an order
//	@Tags		messages
//	@Security	BearerAuth
//	@Accept		json
//	@Produce	json
//	@Param		body	body		CreateRequest	true	"message data"
//	@Success	200		{object}	Message
//	@Failure	403		{object}	httpx.HTTPError
//	@Failure	404		{object}	httpx.HTTPError
//	@Router		/messages [post]
func createMessageHandler(repo Repository, orders order.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.Detail(c, http.StatusBadRequest, "invalid request body: "+err.Error())
			return
		}
		if !orderParticipant(c, orders, req.OrderID, "You can only message on orders you're involved in") {
			return
		}
		m, err := repo.Create(c.Request.Context(), req.OrderID, auth.CurrentUser(c).ID, req.Content)
		if err != nil {
			httpx.Detail(c, http.StatusInternalServerError, "Failed to create message")
			return
		}
		c.JSON(http.StatusOK, m)
	}
}

// listOrderMessagesHandler returns an order's conversation, oldest first.
//
//	@Summary	List an order's messages
//	@Tags		messages
//	@Security	BearerAuth
//	@Produce	json
//	@Param		order_id	path	int	true	"order id"
//	@Success	200	{array}		Message
//	@Failure	403	{object}	httpx.HTTPError
//	@Failure	404	{object}	httpx.HTTPError
//	@Router		/messages/order/{order_id} [get]
func listOrderMessagesHandler(repo Repository, orders order.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, err := strconv.ParseInt(c.Param("order_id"), 10, 64)
		if err != nil {
			httpx.Detail(c, http.StatusBadRequest, "invalid order id")
			return
		}
		if !orderParticipant(c, orders, orderID, "You can only view messages for orders you're involved in") {
			return
		}
		out, err := repo.ListByOrder(c.Request.Context(), orderID)
		if err != nil {
			httpx.Detail(c, http.StatusInternalServerError, "Failed to list messages")
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

// listMyMessagesHandler returns messages across every order the requester is
// involved in, newest first.
//
//	@Summary	List my messages
//	@Tags		messages
//	@Security	BearerAuth
//	@Produce	json
//	@Param		skip	query	int	false	"offset"
//	@Param		limit	query	int	false	"page size"
//	@Success	200	{array}	Message
//	@Router		/messages [get]
func listMyMessagesHandler(repo Repository, cooks cook.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		cur := auth.CurrentUser(c)
		page := httpx.PageFromQuery(c)
		q := Query{BuyerID: &cur.ID, Limit: page.Limit, Offset: page.Skip}
		if profile, err := cooks.GetByUserID(c.Request.Context(), cur.ID); err == nil {
			q.CookID = &profile.ID
		}
		out, err := repo.List(c.Request.Context(), q)
		if err != nil {
			httpx.Detail(c, http.StatusInternalServerError, "Failed to list messages")
			return
		}
		c.JSON(http.StatusOK, out)
	}
}
