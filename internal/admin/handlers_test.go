package admin

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/hometaste/hometaste-api/internal/auth"
	"github.com/hometaste/hometaste-api/internal/message"
	"github.com/hometaste/hometaste-api/internal/order"
	"github.com/hometaste/hometaste-api/internal/user"
)

//
// ---------- STUBS & FAKES ----------
//

type stubUsers struct {
	byID map[int64]*user.User
}

func (s *stubUsers) Create(context.Context, string, string, user.Role, string) (*user.User, error) {
	return nil, user.ErrEmailTaken
}

func (s *stubUsers) GetByID(ctx context.Context, id int64) (*user.User, error) {
	if u, ok := s.byID[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, user.ErrNotFound
}

func (s *stubUsers) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	for _, u := range s.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, user.ErrNotFound
}

func (s *stubUsers) GetCredentials(context.Context, string) (*user.Credentials, error) {
	return nil, user.ErrNotFound
}

func (s *stubUsers) List(ctx context.Context, limit, offset int) ([]user.User, error) {
	out := []user.User{}
	for _, u := range s.byID {
		out = append(out, *u)
	}
	return out, nil
}

func (s *stubUsers) Deactivate(ctx context.Context, id int64) error {
	if u, ok := s.byID[id]; ok {
		u.IsActive = false
		return nil
	}
	return user.ErrNotFound
}

func (s *stubUsers) Delete(ctx context.Context, id int64) (bool, error) {
	if _, ok := s.byID[id]; ok {
		delete(s.byID, id)
		return true, nil
	}
	return false, nil
}

type stubOrders struct {
	byID map[int64]*order.Order
}

func (s *stubOrders) Create(context.Context, order.NewOrder) (*order.Order, error) {
	return nil, order.ErrNotFound
}
func (s *stubOrders) CreateBatch(context.Context, int64, string, []order.NewOrder) (*order.BatchOrder, []order.Order, error) {
	return nil, nil, order.ErrNotFound
}

func (s *stubOrders) GetByID(ctx context.Context, id int64) (*order.Order, error) {
	if o, ok := s.byID[id]; ok {
		cp := *o
		return &cp, nil
	}
	return nil, order.ErrNotFound
}

func (s *stubOrders) GetWithOwner(context.Context, int64) (*order.OrderWithOwner, error) {
	return nil, order.ErrNotFound
}

func (s *stubOrders) List(ctx context.Context, q order.Query) ([]order.Order, error) {
	out := []order.Order{}
	for _, o := range s.byID {
		if q.Status != nil && o.Status != *q.Status {
			continue
		}
		out = append(out, *o)
	}
	return out, nil
}

func (s *stubOrders) Update(context.Context, int64, order.Update) (*order.Order, error) {
	return nil, order.ErrNotFound
}

func (s *stubOrders) Delete(ctx context.Context, id int64) (bool, error) {
	if _, ok := s.byID[id]; ok {
		delete(s.byID, id)
		return true, nil
	}
	return false, nil
}

type stubMessages struct {
	byID map[int64]*message.Message
}

func (s *stubMessages) Create(context.Context, int64, int64, string) (*message.Message, error) {
	return nil, message.ErrNotFound
}
func (s *stubMessages) ListByOrder(context.Context, int64) ([]message.Message, error) {
	return nil, nil
}

func (s *stubMessages) List(ctx context.Context, q message.Query) ([]message.Message, error) {
	out := []message.Message{}
	for _, m := range s.byID {
		if q.OrderID != nil && m.OrderID != *q.OrderID {
			continue
		}
		out = append(out, *m)
	}
	return out, nil
}

func (s *stubMessages) Exists(ctx context.Context, id int64) (bool, error) {
	_, ok := s.byID[id]
	return ok, nil
}

func (s *stubMessages) Delete(ctx context.Context, id int64) (bool, error) {
	if _, ok := s.byID[id]; ok {
		delete(s.byID, id)
		return true, nil
	}
	return false, nil
}

type stubStats struct {
	stats Stats
	err   error
}

func (s *stubStats) Collect(ctx context.Context) (*Stats, error) {
	if s.err != nil {
		return nil, s.err
	}
	cp := s.stats
	return &cp, nil
}

func seededUsers() *stubUsers {
	return &stubUsers{byID: map[int64]*user.User{
		1: {ID: 1, Email: "admin@x.com", Role: user.RoleAdmin, IsActive: true},
		2: {ID: 2, Email: "user@x.com", Role: user.RoleUser, IsActive: true},
	}}
}

func newTestRouter(users *stubUsers, orders *stubOrders, messages *stubMessages, stats StatsRepository) (*gin.Engine, func(email string) string) {
	tokens := auth.NewTokenService("test-secret", 30)
	mw := auth.NewMiddleware(users, tokens)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterRoutes(r.Group("/admin"), users, orders, messages, stats, mw)

	header := func(email string) string {
		tok, _ := tokens.Issue(email)
		return "Bearer " + tok
	}
	return r, header
}

func do(r *gin.Engine, method, target, authz string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, nil)
	if authz != "" {
		req.Header.Set("Authorization", authz)
	}
	r.ServeHTTP(w, req)
	return w
}

//
// ---------- TESTS ----------
//

func TestAdminRoutes_RejectNonAdmin(t *testing.T) {
	t.Parallel()

	r, header := newTestRouter(seededUsers(), &stubOrders{byID: map[int64]*order.Order{}}, &stubMessages{byID: map[int64]*message.Message{}}, &stubStats{})

	w := do(r, http.MethodGet, "/admin/users", header("user@x.com"))
	if w.Code != http.StatusForbidden || !strings.Contains(w.Body.String(), "Not enough permissions") {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}

	if w := do(r, http.MethodGet, "/admin/stats", ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous: status=%d body=%s", w.Code, w.Body.String())
	}
}

func TestDeleteUser_SelfGuard(t *testing.T) {
	t.Parallel()

	users := seededUsers()
	r, header := newTestRouter(users, &stubOrders{byID: map[int64]*order.Order{}}, &stubMessages{byID: map[int64]*message.Message{}}, &stubStats{})

	w := do(r, http.MethodDelete, "/admin/users/1", header("admin@x.com"))
	if w.Code != http.StatusBadRequest || !strings.Contains(w.Body.String(), "Cannot delete your own account") {
		t.Fatalf("self: status=%d body=%s", w.Code, w.Body.String())
	}

	w = do(r, http.MethodDelete, "/admin/users/2", header("admin@x.com"))
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "User deleted successfully") {
		t.Fatalf("other: status=%d body=%s", w.Code, w.Body.String())
	}
	if _, ok := users.byID[2]; ok {
		t.Fatal("user still present after delete")
	}

	w = do(r, http.MethodDelete, "/admin/users/99", header("admin@x.com"))
	if w.Code != http.StatusNotFound || !strings.Contains(w.Body.String(), "User not found") {
		t.Fatalf("missing: status=%d body=%s", w.Code, w.Body.String())
	}
}

func TestDeactivateUser_SelfGuard(t *testing.T) {
	t.Parallel()

	users := seededUsers()
	r, header := newTestRouter(users, &stubOrders{byID: map[int64]*order.Order{}}, &stubMessages{byID: map[int64]*message.Message{}}, &stubStats{})

	w := do(r, http.MethodPut, "/admin/users/1/deactivate", header("admin@x.com"))
	if w.Code != http.StatusBadRequest || !strings.Contains(w.Body.String(), "Cannot deactivate your own account") {
		t.Fatalf("self: status=%d body=%s", w.Code, w.Body.String())
	}

	w = do(r, http.MethodPut, "/admin/users/2/deactivate", header("admin@x.com"))
	if w.Code != http.StatusOK {
		t.Fatalf("other: status=%d body=%s", w.Code, w.Body.String())
	}
	var got user.User
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil || got.IsActive {
		t.Fatalf("body=%s err=%v", w.Body.String(), err)
	}
}

func TestGetUser(t *testing.T) {
	t.Parallel()

	r, header := newTestRouter(seededUsers(), &stubOrders{byID: map[int64]*order.Order{}}, &stubMessages{byID: map[int64]*message.Message{}}, &stubStats{})

	w := do(r, http.MethodGet, "/admin/users/2", header("admin@x.com"))
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "user@x.com") {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}

	w = do(r, http.MethodGet, "/admin/users/99", header("admin@x.com"))
	if w.Code != http.StatusNotFound || !strings.Contains(w.Body.String(), "User not found") {
		t.Fatalf("missing: status=%d body=%s", w.Code, w.Body.String())
	}
}

func TestListOrders_StatusFilter(t *testing.T) {
	t.Parallel()

	orders := &stubOrders{byID: map[int64]*order.Order{
		1: {ID: 1, Status: order.StatusPending},
		2: {ID: 2, Status: order.StatusCompleted},
	}}
	r, header := newTestRouter(seededUsers(), orders, &stubMessages{byID: map[int64]*message.Message{}}, &stubStats{})

	w := do(r, http.MethodGet, "/admin/orders?status=completed", header("admin@x.com"))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var got []order.Order
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 1 || got[0].ID != 2 {
		t.Fatalf("orders=%+v", got)
	}

	w = do(r, http.MethodGet, "/admin/orders?status=bogus", header("admin@x.com"))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("bogus filter: status=%d body=%s", w.Code, w.Body.String())
	}
}

func TestDeleteOrder(t *testing.T) {
	t.Parallel()

	orders := &stubOrders{byID: map[int64]*order.Order{1: {ID: 1, Status: order.StatusPending}}}
	r, header := newTestRouter(seededUsers(), orders, &stubMessages{byID: map[int64]*message.Message{}}, &stubStats{})

	w := do(r, http.MethodDelete, "/admin/orders/1", header("admin@x.com"))
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "Order deleted successfully") {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}

	w = do(r, http.MethodDelete, "/admin/orders/1", header("admin@x.com"))
	if w.Code != http.StatusNotFound || !strings.Contains(w.Body.String(), "Order not found") {
		t.Fatalf("second delete: status=%d body=%s", w.Code, w.Body.String())
	}
}

func TestDeleteMessage(t *testing.T) {
	t.Parallel()

	messages := &stubMessages{byID: map[int64]*message.Message{1: {ID: 1, OrderID: 1, SenderID: 2, Content: "x"}}}
	r, header := newTestRouter(seededUsers(), &stubOrders{byID: map[int64]*order.Order{}}, messages, &stubStats{})

	w := do(r, http.MethodDelete, "/admin/messages/1", header("admin@x.com"))
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "Message deleted successfully") {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}

	w = do(r, http.MethodDelete, "/admin/messages/1", header("admin@x.com"))
	if w.Code != http.StatusNotFound || !strings.Contains(w.Body.String(), "Message not found") {
		t.Fatalf("second delete: status=%d body=%s", w.Code, w.Body.String())
	}
}

func TestListMessages_OrderFilter(t *testing.T) {
	t.Parallel()

	messages := &stubMessages{byID: map[int64]*message.Message{
		1: {ID: 1, OrderID: 1, Content: "first"},
		2: {ID: 2, OrderID: 2, Content: "second"},
	}}
	r, header := newTestRouter(seededUsers(), &stubOrders{byID: map[int64]*order.Order{}}, messages, &stubStats{})

	w := do(r, http.MethodGet, "/admin/messages?order_id=2", header("admin@x.com"))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var got []message.Message
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 1 || got[0].Content != "second" {
		t.Fatalf("messages=%+v", got)
	}
}

func TestStats(t *testing.T) {
	t.Parallel()

	stats := &stubStats{stats: Stats{
		Users:     UserStats{Total: 10, Active: 8},
		Cooks:     3,
		MenuItems: MenuItemStats{Total: 12, Available: 9},
		Orders:    map[string]int64{"pending": 2, "completed": 5},
		Messages:  40,
		Revenue:   "123.45",
	}}
	r, header := newTestRouter(seededUsers(), &stubOrders{byID: map[int64]*order.Order{}}, &stubMessages{byID: map[int64]*message.Message{}}, stats)

	w := do(r, http.MethodGet, "/admin/stats", header("admin@x.com"))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var got Stats
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Users.Active != 8 || got.Orders["completed"] != 5 || got.Revenue != "123.45" {
		t.Fatalf("stats=%+v", got)
	}
}
