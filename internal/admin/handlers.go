package admin

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/hometaste/hometaste-api/internal/auth"
	"github.com/hometaste/hometaste-api/internal/httpx"
	"github.com/hometaste/hometaste-api/internal/message"
	"github.com/hometaste/hometaste-api/internal/order"
	"github.com/hometaste/hometaste-api/internal/user"
)

// RegisterRoutes mounts the /admin endpoints. Every route requires an
// authenticated admin.
func RegisterRoutes(rg *gin.RouterGroup, users user.Repository, orders order.Repository, messages message.Repository, stats StatsRepository, mw *auth.Middleware) {
	rg.Use(mw.RequireAdmin())

	rg.GET("/users", listUsersHandler(users))
	rg.GET("/users/:id", getUserHandler(users))
	rg.DELETE("/users/:id", deleteUserHandler(users))
	rg.PUT("/users/:id/deactivate", deactivateUserHandler(users))

	rg.GET("/orders", listOrdersHandler(orders))
	rg.GET("/orders/:id", getOrderHandler(orders))
	rg.DELETE("/orders/:id", deleteOrderHandler(orders))

	rg.GET("/messages", listMessagesHandler(messages))
	rg.DELETE("/messages/:id", deleteMessageHandler(messages))

	rg.GET("/stats", statsHandler(stats))
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		httpx.Detail(c, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}

// listUsersHandler returns all accounts.
//
//	@Summary	List users
//	@Tags		admin
//	@Security	BearerAuth
//	@Produce	json
//	@Param		skip	query		int	false	"offset"
//	@Param		limit	query		int	false	"page size"
//	@Success	200		{array}		user.User
//	@Failure	403		{object}	httpx.HTTPError
//	@Router		/admin/users [get]
func listUsersHandler(users user.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		page := httpx.PageFromQuery(c)
		out, err := users.List(c.Request.Context(), page.Limit, page.Skip)
		if err != nil {
			log.Printf("[admin] list users: %v", err)
			httpx.Detail(c, http.StatusInternalServerError, "Internal server error")
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

// getUserHandler returns one account by id.
//
//	@Summary	Get a user
//	@Tags		admin
//	@Security	BearerAuth
//	@Produce	json
//	@Param		id	path		int	true	"user id"
//	@Success	200	{object}	user.User
//	@Failure	404	{object}	httpx.HTTPError
//	@Router		/admin/users/{id} [get]
func getUserHandler(users user.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}
		u, err := users.GetByID(c.Request.Context(), id)
		if err != nil {
			if errors.Is(err, user.ErrNotFound) {
				httpx.Detail(c, http.StatusNotFound, "User not found")
				return
			}
			log.Printf("[admin] get user %d: %v", id, err)
			httpx.Detail(c, http.StatusInternalServerError, "Internal server error")
			return
		}
		c.JSON(http.StatusOK, u)
	}
}

// deleteUserHandler removes an account and everything cascading from it.
// Admins cannot delete themselves.
//
//	@Summary	Delete a user
//	@Tags		admin
//	@Security	BearerAuth
//	@Produce	json
//	@Param		id	path		int	true	"user id"
//	@Success	200	{object}	map[string]string
//	@Failure	400	{object}	httpx.HTTPError
//	@Failure	404	{object}	httpx.HTTPError
//	@Router		/admin/users/{id} [delete]
func deleteUserHandler(users user.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}
		if auth.CurrentUser(c).ID == id {
			httpx.Detail(c, http.StatusBadRequest, "Cannot delete your own account")
			return
		}
		deleted, err := users.Delete(c.Request.Context(), id)
		if err != nil {
			log.Printf("[admin] delete user %d: %v", id, err)
			httpx.Detail(c, http.StatusInternalServerError, "Internal server error")
			return
		}
		if !deleted {
			httpx.Detail(c, http.StatusNotFound, "User not found")
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
	}
}

// deactivateUserHandler flips is_active off, which blocks logins and
// bearer auth without destroying history. Admins cannot deactivate
// themselves.
//
//	@Summary	Deactivate a user
//	@Tags		admin
//	@Security	BearerAuth
//	@Produce	json
//	@Param		id	path		int	true	"user id"
//	@Success	200	{object}	user.User
//	@Failure	400	{object}	httpx.HTTPError
//	@Failure	404	{object}	httpx.HTTPError
//	@Router		/admin/users/{id}/deactivate [put]
func deactivateUserHandler(users user.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}
		if auth.CurrentUser(c).ID == id {
			httpx.Detail(c, http.StatusBadRequest, "Cannot deactivate your own account")
			return
		}
		if err := users.Deactivate(c.Request.Context(), id); err != nil {
			if errors.Is(err, user.ErrNotFound) {
				httpx.Detail(c, http.StatusNotFound, "User not found")
				return
			}
			log.Printf("[admin] deactivate user %d: %v", id, err)
			httpx.Detail(c, http.StatusInternalServerError, "Internal server error")
			return
		}
		u, err := users.GetByID(c.Request.Context(), id)
		if err != nil {
			log.Printf("[admin] reload user %d: %v", id, err)
			httpx.Detail(c, http.StatusInternalServerError, "Internal server error")
			return
		}
		c.JSON(http.StatusOK, u)
	}
}

// listOrdersHandler returns orders across all buyers and cooks, with an
// optional status filter.
//
//	@Summary	List all orders
//	@Tags		admin
//	@Security	BearerAuth
//	@Produce	json
//	@Param		status	query		string	false	"filter by status"
//	@Param		skip	query		int		false	"offset"
//	@Param		limit	query		int		false	"page size"
//	@Success	200		{array}		order.Order
//	@Failure	400		{object}	httpx.HTTPError
//	@Router		/admin/orders [get]
func listOrdersHandler(orders order.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		page := httpx.PageFromQuery(c)
		q := order.Query{Limit: page.Limit, Offset: page.Skip}
		if raw := c.Query("status"); raw != "" {
			st, err := order.ParseStatus(raw)
			if err != nil {
				httpx.Detail(c, http.StatusBadRequest, "invalid status filter")
				return
			}
			q.Status = &st
		}
		out, err := orders.List(c.Request.Context(), q)
		if err != nil {
			log.Printf("[admin] list orders: %v", err)
			httpx.Detail(c, http.StatusInternalServerError, "Internal server error")
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

// getOrderHandler returns any order by id, no participant check.
//
//	@Summary	Get an order
//	@Tags		admin
//	@Security	BearerAuth
//	@Produce	json
//	@Param		id	path		int	true	"order id"
//	@Success	200	{object}	order.Order
//	@Failure	404	{object}	httpx.HTTPError
//	@Router		/admin/orders/{id} [get]
func getOrderHandler(orders order.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}
		o, err := orders.GetByID(c.Request.Context(), id)
		if err != nil {
			if errors.Is(err, order.ErrNotFound) {
				httpx.Detail(c, http.StatusNotFound, "Order not found")
				return
			}
			log.Printf("[admin] get order %d: %v", id, err)
			httpx.Detail(c, http.StatusInternalServerError, "Internal server error")
			return
		}
		c.JSON(http.StatusOK, o)
	}
}

// deleteOrderHandler removes an order and its conversation.
//
//	@Summary	Delete an order
//	@Tags		admin
//	@Security	BearerAuth
//	@Produce	json
//	@Param		id	path		int	true	"order id"
//	@Success	200	{object}	map[string]string
//	@Failure	404	{object}	httpx.HTTPError
//	@Router		/admin/orders/{id} [delete]
func deleteOrderHandler(orders order.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}
		deleted, err := orders.Delete(c.Request.Context(), id)
		if err != nil {
			log.Printf("[admin] delete order %d: %v", id, err)
			httpx.Detail(c, http.StatusInternalServerError, "Internal server error")
			return
		}
		if !deleted {
			httpx.Detail(c, http.StatusNotFound, "Order not found")
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Order deleted successfully"})
	}
}

// listMessagesHandler returns messages across all orders, optionally
// narrowed to one order.
//
//	@Summary	List all messages
//	@Tags		admin
//	@Security	BearerAuth
//	@Produce	json
//	@Param		order_id	query		int	false	"filter by order"
//	@Param		skip		query		int	false	"offset"
//	@Param		limit		query		int	false	"page size"
//	@Success	200			{array}		message.Message
//	@Failure	400			{object}	httpx.HTTPError
//	@Router		/admin/messages [get]
func listMessagesHandler(messages message.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		page := httpx.PageFromQuery(c)
		q := message.Query{Limit: page.Limit, Offset: page.Skip}
		if raw := c.Query("order_id"); raw != "" {
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				httpx.Detail(c, http.StatusBadRequest, "invalid order_id filter")
				return
			}
			q.OrderID = &id
		}
		out, err := messages.List(c.Request.Context(), q)
		if err != nil {
			log.Printf("[admin] list messages: %v", err)
			httpx.Detail(c, http.StatusInternalServerError, "Internal server error")
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

// deleteMessageHandler removes a single message (moderation).
//
//	@Summary	Delete a message
//	@Tags		admin
//	@Security	BearerAuth
//	@Produce	json
//	@Param		id	path		int	true	"message id"
//	@Success	200	{object}	map[string]string
//	@Failure	404	{object}	httpx.HTTPError
//	@Router		/admin/messages/{id} [delete]
func deleteMessageHandler(messages message.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}
		deleted, err := messages.Delete(c.Request.Context(), id)
		if err != nil {
			log.Printf("[admin] delete message %d: %v", id, err)
			httpx.Detail(c, http.StatusInternalServerError, "Internal server error")
			return
		}
		if !deleted {
			httpx.Detail(c, http.StatusNotFound, "Message not found")
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Message deleted successfully"})
	}
}

// statsHandler computes the platform snapshot.
//
//	@Summary	Platform statistics
//	@Tags		admin
//	@Security	BearerAuth
//	@Produce	json
//	@Success	200	{object}	Stats
//	@Failure	403	{object}	httpx.HTTPError
//	@Router		/admin/stats [get]
func statsHandler(stats StatsRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, err := stats.Collect(c.Request.Context())
		if err != nil {
			log.Printf("[admin] collect stats: %v", err)
			httpx.Detail(c, http.StatusInternalServerError, "Internal server error")
			return
		}
		c.JSON(http.StatusOK, s)
	}
}
