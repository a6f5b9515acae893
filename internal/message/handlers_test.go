package message

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hometaste/hometaste-api/internal/auth"
	"github.com/hometaste/hometaste-api/internal/cook"
	"github.com/hometaste/hometaste-api/internal/order"
	"github.com/hometaste/hometaste-api/internal/user"
)

//
// ---------- STUBS & FAKES ----------
//

type stubUsers struct {
	byEmail map[string]*user.User
}

func (s *stubUsers) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	if u, ok := s.byEmail[email]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, user.ErrNotFound
}

func (s *stubUsers) Create(context.Context, string, string, user.Role, string) (*user.User, error) {
	return nil, user.ErrNotFound
}
func (s *stubUsers) GetByID(context.Context, int64) (*user.User, error) {
	return nil, user.ErrNotFound
}
func (s *stubUsers) GetCredentials(context.Context, string) (*user.Credentials, error) {
	return nil, user.ErrNotFound
}
func (s *stubUsers) List(context.Context, int, int) ([]user.User, error) { return nil, nil }
func (s *stubUsers) Deactivate(context.Context, int64) error             { return user.ErrNotFound }
func (s *stubUsers) Delete(context.Context, int64) (bool, error)         { return false, nil }

type stubCooks struct {
	byID map[int64]*cook.CookProfile
}

func (s *stubCooks) GetByID(ctx context.Context, id int64) (*cook.CookProfile, error) {
	if p, ok := s.byID[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, cook.ErrNotFound
}

func (s *stubCooks) GetByUserID(ctx context.Context, userID int64) (*cook.CookProfile, error) {
	for _, p := range s.byID {
		if p.UserID == userID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, cook.ErrNotFound
}

func (s *stubCooks) Create(context.Context, int64, string, *string, *string, float64) (*cook.CookProfile, error) {
	return nil, cook.ErrAlreadyExists
}
func (s *stubCooks) List(context.Context, int, int) ([]cook.CookProfile, error) { return nil, nil }
func (s *stubCooks) Update(context.Context, int64, cook.Update) (*cook.CookProfile, error) {
	return nil, cook.ErrNotFound
}
func (s *stubCooks) Delete(context.Context, int64) (bool, error) { return false, nil }

// stubOrders only needs GetWithOwner for the participant check.
type stubOrders struct {
	byID map[int64]*order.OrderWithOwner
}

func (s *stubOrders) GetWithOwner(ctx context.Context, id int64) (*order.OrderWithOwner, error) {
	if o, ok := s.byID[id]; ok {
		cp := *o
		return &cp, nil
	}
	return nil, order.ErrNotFound
}

func (s *stubOrders) Create(context.Context, order.NewOrder) (*order.Order, error) {
	return nil, order.ErrNotFound
}
func (s *stubOrders) CreateBatch(context.Context, int64, string, []order.NewOrder) (*order.BatchOrder, []order.Order, error) {
	return nil, nil, order.ErrNotFound
}
func (s *stubOrders) GetByID(context.Context, int64) (*order.Order, error) {
	return nil, order.ErrNotFound
}
func (s *stubOrders) List(context.Context, order.Query) ([]order.Order, error) { return nil, nil }
func (s *stubOrders) Update(context.Context, int64, order.Update) (*order.Order, error) {
	return nil, order.ErrNotFound
}
func (s *stubOrders) Delete(context.Context, int64) (bool, error) { return false, nil }

// stubRepo implements Repository in memory; orderSides mirrors the rows the
// SQL List join would consult.
type stubRepo struct {
	nextID     int64
	messages   []Message
	orderSides map[int64][2]int64 // order id -> {buyer user id, cook profile id}
}

func (s *stubRepo) Create(ctx context.Context, orderID, senderID int64, content string) (*Message, error) {
	s.nextID++
	m := Message{ID: s.nextID, OrderID: orderID, SenderID: senderID, Content: content, CreatedAt: time.Now()}
	s.messages = append(s.messages, m)
	return &m, nil
}

func (s *stubRepo) ListByOrder(ctx context.Context, orderID int64) ([]Message, error) {
	out := []Message{}
	for _, m := range s.messages {
		if m.OrderID == orderID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *stubRepo) List(ctx context.Context, q Query) ([]Message, error) {
	out := []Message{}
	for _, m := range s.messages {
		if q.OrderID != nil && m.OrderID != *q.OrderID {
			continue
		}
		if q.BuyerID != nil || q.CookID != nil {
			sides := s.orderSides[m.OrderID]
			hit := (q.BuyerID != nil && sides[0] == *q.BuyerID) ||
				(q.CookID != nil && sides[1] == *q.CookID)
			if !hit {
				continue
			}
		}
		out = append(out, m)
	}
	return out, nil
}

func (s *stubRepo) Exists(ctx context.Context, id int64) (bool, error) {
	for _, m := range s.messages {
		if m.ID == id {
			return true, nil
		}
	}
	return false, nil
}

func (s *stubRepo) Delete(ctx context.Context, id int64) (bool, error) {
	for i, m := range s.messages {
		if m.ID == id {
			s.messages = append(s.messages[:i], s.messages[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func newTestRouter(repo Repository, orders order.Repository, cooks cook.Repository, users ...user.User) (*gin.Engine, func(email string) string) {
	byEmail := map[string]*user.User{}
	for i := range users {
		byEmail[users[i].Email] = &users[i]
	}
	tokens := auth.NewTokenService("test-secret", 30)
	mw := auth.NewMiddleware(&stubUsers{byEmail: byEmail}, tokens)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterRoutes(r.Group("/messages"), repo, orders, cooks, mw)

	header := func(email string) string {
		tok, _ := tokens.Issue(email)
		return "Bearer " + tok
	}
	return r, header
}

func activeUser(id int64, email string) user.User {
	return user.User{ID: id, Email: email, Role: user.RoleUser, IsActive: true}
}

// conversation wires order 1: buyer user 1, cook profile 10 owned by user 2.
func conversation() (*stubRepo, *stubOrders, *stubCooks) {
	repo := &stubRepo{orderSides: map[int64][2]int64{1: {1, 10}}}
	orders := &stubOrders{byID: map[int64]*order.OrderWithOwner{
		1: {
			Order:      order.Order{ID: 1, BuyerID: 1, CookID: 10, Status: order.StatusPending},
			CookUserID: 2,
		},
	}}
	cooks := &stubCooks{byID: map[int64]*cook.CookProfile{10: {ID: 10, UserID: 2}}}
	return repo, orders, cooks
}

//
// ---------- TESTS ----------
//

func TestCreateMessage_ParticipantsOnly(t *testing.T) {
	t.Parallel()

	repo, orders, cooks := conversation()
	r, header := newTestRouter(repo, orders, cooks,
		activeUser(1, "buyer@x.com"), activeUser(2, "cook@x.com"), activeUser(5, "stranger@x.com"))

	post := func(email, content string) *httptest.ResponseRecorder {
		body := `{"order_id":1,"content":"` + content + `"}`
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/messages", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", header(email))
		r.ServeHTTP(w, req)
		return w
	}

	if w := post("buyer@x.com", "Is it ready?"); w.Code != http.StatusOK {
		t.Fatalf("buyer: status=%d body=%s", w.Code, w.Body.String())
	}
	if w := post("cook@x.com", "Almost!"); w.Code != http.StatusOK {
		t.Fatalf("cook: status=%d body=%s", w.Code, w.Body.String())
	}
	w := post("stranger@x.com", "hello")
	if w.Code != http.StatusForbidden || !strings.Contains(w.Body.String(), "You can only message on orders you're involved in") {
		t.Fatalf("stranger: status=%d body=%s", w.Code, w.Body.String())
	}
}

func TestCreateMessage_UnknownOrder(t *testing.T) {
	t.Parallel()

	repo, orders, cooks := conversation()
	r, header := newTestRouter(repo, orders, cooks, activeUser(1, "buyer@x.com"))

	body := `{"order_id":99,"content":"hi"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/messages", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", header("buyer@x.com"))
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound || !strings.Contains(w.Body.String(), "Order not found") {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
}

func TestCreateMessage_RequiresContent(t *testing.T) {
	t.Parallel()

	repo, orders, cooks := conversation()
	r, header := newTestRouter(repo, orders, cooks, activeUser(1, "buyer@x.com"))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/messages", bytes.NewBufferString(`{"order_id":1}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", header("buyer@x.com"))
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
}

func TestListOrderMessages_Conversation(t *testing.T) {
	t.Parallel()

	repo, orders, cooks := conversation()
	repo.Create(context.Background(), 1, 1, "Is it ready?")
	repo.Create(context.Background(), 1, 2, "Almost!")
	r, header := newTestRouter(repo, orders, cooks,
		activeUser(1, "buyer@x.com"), activeUser(5, "stranger@x.com"))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/messages/order/1", nil)
	req.Header.Set("Authorization", header("buyer@x.com"))
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var got []Message
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 2 || got[0].Content != "Is it ready?" || got[1].Content != "Almost!" {
		t.Fatalf("messages=%+v", got)
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/messages/order/1", nil)
	req.Header.Set("Authorization", header("stranger@x.com"))
	r.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden || !strings.Contains(w.Body.String(), "You can only view messages for orders you're involved in") {
		t.Fatalf("stranger: status=%d body=%s", w.Code, w.Body.String())
	}
}

func TestListMyMessages_ScopesToParticipation(t *testing.T) {
	t.Parallel()

	// order 1: buyer 1, cook profile 10 (user 2); order 2: buyer 3, cook profile 11 (user 4)
	repo := &stubRepo{orderSides: map[int64][2]int64{1: {1, 10}, 2: {3, 11}}}
	repo.Create(context.Background(), 1, 1, "mine")
	repo.Create(context.Background(), 2, 3, "not mine")
	orders := &stubOrders{byID: map[int64]*order.OrderWithOwner{}}
	cooks := &stubCooks{byID: map[int64]*cook.CookProfile{10: {ID: 10, UserID: 2}, 11: {ID: 11, UserID: 4}}}
	r, header := newTestRouter(repo, orders, cooks, activeUser(1, "buyer@x.com"), activeUser(2, "cook@x.com"))

	list := func(email string) []Message {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/messages", nil)
		req.Header.Set("Authorization", header(email))
		r.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("%s: status=%d body=%s", email, w.Code, w.Body.String())
		}
		var got []Message
		if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
			t.Fatalf("decode: %v", err)
		}
		return got
	}

	if got := list("buyer@x.com"); len(got) != 1 || got[0].Content != "mine" {
		t.Fatalf("buyer inbox=%+v", got)
	}
	// user 2 sees the conversation of the order their cook profile fulfills
	if got := list("cook@x.com"); len(got) != 1 || got[0].Content != "mine" {
		t.Fatalf("cook inbox=%+v", got)
	}
}
