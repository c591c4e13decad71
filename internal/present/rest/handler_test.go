package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/KevinOrellana26/acme-dashboard/internal/domain"
	"github.com/KevinOrellana26/acme-dashboard/internal/service"
	"github.com/KevinOrellana26/acme-dashboard/internal/usecase"
)

// --- mocks ---

type mockInvoiceRepo struct {
	created *domain.Invoice
	deleted string
}

func (m *mockInvoiceRepo) Create(ctx context.Context, invoice domain.Invoice) error {
	m.created = &invoice
	return nil
}

func (m *mockInvoiceRepo) Update(ctx context.Context, invoice domain.Invoice) error {
	return nil
}

func (m *mockInvoiceRepo) Delete(ctx context.Context, id string) error {
	m.deleted = id
	return nil
}

func (m *mockInvoiceRepo) Get(ctx context.Context, id string) (domain.Invoice, error) {
	if id == "missing" {
		return domain.Invoice{}, domain.NotFoundError{Resource: "invoice"}
	}
	return domain.Invoice{ID: id, CustomerID: "cust_1", Amount: 1550, Status: domain.InvoiceStatusPending}, nil
}

func (m *mockInvoiceRepo) List(ctx context.Context, limit int) ([]domain.Invoice, error) {
	return []domain.Invoice{{ID: "inv_1", CustomerName: "Acme Corp"}}, nil
}

type mockCustomerRepo struct{}

func (m *mockCustomerRepo) List(ctx context.Context) ([]domain.Customer, error) {
	return []domain.Customer{{ID: "cust_1", Name: "Acme Corp"}}, nil
}

type noopViewCache struct{}

func (noopViewCache) Get(path, key string) ([]byte, bool)      { return nil, false }
func (noopViewCache) Set(path, key string, value []byte) error { return nil }
func (noopViewCache) InvalidatePath(path string) error         { return nil }

type noopPublisher struct{}

func (noopPublisher) Publish(ctx context.Context, event domain.RevalidationEvent) error { return nil }

type mockUserRepo struct {
	user domain.User
	err  error
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	if m.err != nil {
		return domain.User{}, m.err
	}
	return m.user, nil
}

// fakeStream drives the realtime endpoint from a test: events pushed
// into events are relayed to the connection, returned receives one
// value each time a relay loop exits.
type fakeStream struct {
	events   chan domain.RevalidationEvent
	returned chan struct{}
}

func newFakeStream() *fakeStream {
	return &fakeStream{
		events:   make(chan domain.RevalidationEvent, 32),
		returned: make(chan struct{}, 32),
	}
}

func (f *fakeStream) Realtime(ctx context.Context, input <-chan []string, output chan<- domain.RevalidationEvent) {
	defer func() { f.returned <- struct{}{} }()
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-input:
			if !ok {
				return
			}
		case event := <-f.events:
			select {
			case output <- event:
			case <-ctx.Done():
				return
			}
		}
	}
}

func newTestServer(t *testing.T, invoices *mockInvoiceRepo, users *mockUserRepo) *echo.Echo {
	return newTestServerWithStream(t, invoices, users, newFakeStream())
}

func newTestServerWithStream(t *testing.T, invoices *mockInvoiceRepo, users *mockUserRepo, stream RevalidationStream) *echo.Echo {
	t.Helper()

	invoiceUC := usecase.NewInvoiceUsecase(invoices, noopViewCache{}, noopPublisher{})
	customerUC := usecase.NewCustomerUsecase(&mockCustomerRepo{})
	auth := service.NewAuthService(domain.Config{SessionSecret: "test-secret", SessionTTLHours: 1}, users)

	h := NewHandler(invoiceUC, customerUC, auth, stream)

	e := echo.New()
	e.HTTPErrorHandler = NewHTTPErrorHandler(e)
	h.RegisterRoutes(e)
	return e
}

func postForm(e *echo.Echo, path string, values url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	res := httptest.NewRecorder()
	e.ServeHTTP(res, req)
	return res
}

// --- tests ---

func TestHandleCreateInvoice(t *testing.T) {
	repo := &mockInvoiceRepo{}
	e := newTestServer(t, repo, &mockUserRepo{})

	res := postForm(e, "/dashboard/invoices", url.Values{
		"customerId": {"cust_1"},
		"amount":     {"15.50"},
		"status":     {"pending"},
	})

	if res.Code != http.StatusSeeOther {
		t.Fatalf("expected 303 got %d: %s", res.Code, res.Body.String())
	}
	if location := res.Header().Get(echo.HeaderLocation); location != domain.InvoicesPath {
		t.Fatalf("expected redirect to %s, got %s", domain.InvoicesPath, location)
	}
	if repo.created == nil || repo.created.Amount != 1550 {
		t.Fatalf("expected persisted invoice with 1550 minor units, got %+v", repo.created)
	}
}

func TestHandleCreateInvoiceValidationFailure(t *testing.T) {
	repo := &mockInvoiceRepo{}
	e := newTestServer(t, repo, &mockUserRepo{})

	res := postForm(e, "/dashboard/invoices", url.Values{
		"customerId": {""},
		"amount":     {"0"},
		"status":     {"bogus"},
	})

	if res.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 got %d", res.Code)
	}

	var state domain.State
	if err := json.Unmarshal(res.Body.Bytes(), &state); err != nil {
		t.Fatalf("failed to decode state: %v", err)
	}
	if state.Message != "Missing Fields, Failed to Create Invoice" {
		t.Fatalf("unexpected message: %s", state.Message)
	}
	if len(state.Errors) != 3 {
		t.Fatalf("expected three field errors, got %v", state.Errors)
	}
	if repo.created != nil {
		t.Fatalf("persistence must not be touched on validation failure")
	}
}

func TestHandleDeleteInvoice(t *testing.T) {
	repo := &mockInvoiceRepo{}
	e := newTestServer(t, repo, &mockUserRepo{})

	res := postForm(e, "/dashboard/invoices/inv_1/delete", url.Values{})

	if res.Code != http.StatusSeeOther {
		t.Fatalf("expected 303 got %d", res.Code)
	}
	if repo.deleted != "inv_1" {
		t.Fatalf("expected deletion of inv_1, got %q", repo.deleted)
	}
}

func TestHandleGetInvoiceNotFound(t *testing.T) {
	e := newTestServer(t, &mockInvoiceRepo{}, &mockUserRepo{})

	req := httptest.NewRequest(http.MethodGet, "/dashboard/invoices/missing", nil)
	res := httptest.NewRecorder()
	e.ServeHTTP(res, req)

	if res.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", res.Code)
	}
}

func TestHandleListInvoices(t *testing.T) {
	e := newTestServer(t, &mockInvoiceRepo{}, &mockUserRepo{})

	req := httptest.NewRequest(http.MethodGet, "/dashboard/invoices", nil)
	res := httptest.NewRecorder()
	e.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", res.Code)
	}

	var invoices []domain.Invoice
	if err := json.Unmarshal(res.Body.Bytes(), &invoices); err != nil {
		t.Fatalf("failed to decode invoices: %v", err)
	}
	if len(invoices) != 1 || invoices[0].CustomerName != "Acme Corp" {
		t.Fatalf("unexpected listing: %v", invoices)
	}
}

func TestHandleLoginSuccess(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	users := &mockUserRepo{user: domain.User{ID: "user_1", Password: string(hash)}}
	e := newTestServer(t, &mockInvoiceRepo{}, users)

	res := postForm(e, "/login", url.Values{
		"email":    {"user@acme.test"},
		"password": {"secret123"},
	})

	if res.Code != http.StatusSeeOther {
		t.Fatalf("expected 303 got %d: %s", res.Code, res.Body.String())
	}

	cookies := res.Result().Cookies()
	var found bool
	for _, cookie := range cookies {
		if cookie.Name == domain.SessionCookieName && cookie.Value != "" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected session cookie to be set, got %v", cookies)
	}
}

func TestHandleLoginInvalidCredentials(t *testing.T) {
	users := &mockUserRepo{err: domain.NotFoundError{Resource: "user"}}
	e := newTestServer(t, &mockInvoiceRepo{}, users)

	res := postForm(e, "/login", url.Values{
		"email":    {"nobody@acme.test"},
		"password": {"wrong"},
	})

	if res.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", res.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(res.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body["message"] != "Invalid credentials." {
		t.Fatalf("unexpected message: %q", body["message"])
	}
}

func TestHandleLoginBackendFailureHitsBoundary(t *testing.T) {
	users := &mockUserRepo{err: context.DeadlineExceeded}
	e := newTestServer(t, &mockInvoiceRepo{}, users)

	res := postForm(e, "/login", url.Values{
		"email":    {"user@acme.test"},
		"password": {"secret123"},
	})

	if res.Code != http.StatusInternalServerError {
		t.Fatalf("expected unclassified failure to reach the error boundary, got %d", res.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(res.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body["message"] != "Something went wrong!" {
		t.Fatalf("unexpected boundary message: %q", body["message"])
	}
	if body["digest"] == "" {
		t.Fatalf("expected a digest identifier")
	}
}

func dialRealtime(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/realtime"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("failed to dial realtime endpoint: %v", err)
	}
	return conn
}

func TestHandleRealtimeStreamsEvents(t *testing.T) {
	stream := newFakeStream()
	e := newTestServerWithStream(t, &mockInvoiceRepo{}, &mockUserRepo{}, stream)
	srv := httptest.NewServer(e)
	defer srv.Close()

	conn := dialRealtime(t, srv)
	defer conn.Close()

	if err := conn.WriteJSON(map[string]any{"type": "listen", "paths": []string{domain.InvoicesPath}}); err != nil {
		t.Fatalf("failed to subscribe: %v", err)
	}

	stream.events <- domain.RevalidationEvent{Path: domain.InvoicesPath, Timestamp: time.Now().Unix()}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var event domain.RevalidationEvent
	if err := conn.ReadJSON(&event); err != nil {
		t.Fatalf("expected an event on the socket: %v", err)
	}
	if event.Path != domain.InvoicesPath {
		t.Fatalf("unexpected path: %s", event.Path)
	}
}

func TestHandleRealtimeDisconnectReleasesStream(t *testing.T) {
	stream := newFakeStream()
	e := newTestServerWithStream(t, &mockInvoiceRepo{}, &mockUserRepo{}, stream)
	srv := httptest.NewServer(e)
	defer srv.Close()

	before := runtime.NumGoroutine()

	for i := 0; i < 10; i++ {
		conn := dialRealtime(t, srv)

		stream.events <- domain.RevalidationEvent{Path: domain.InvoicesPath, Timestamp: time.Now().Unix()}
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		var event domain.RevalidationEvent
		if err := conn.ReadJSON(&event); err != nil {
			t.Fatalf("expected an event on the socket: %v", err)
		}

		conn.Close()
		// A write against the dropped connection forces the relay to
		// exit through its failure path.
		stream.events <- domain.RevalidationEvent{Path: domain.InvoicesPath, Timestamp: time.Now().Unix()}

		select {
		case <-stream.returned:
		case <-time.After(2 * time.Second):
			t.Fatalf("handler did not release the stream after disconnect")
		}
	}

	time.Sleep(200 * time.Millisecond)
	if grown := runtime.NumGoroutine() - before; grown > 5 {
		t.Fatalf("leaked %d goroutines across disconnects", grown)
	}
}

func TestHandleListCustomers(t *testing.T) {
	e := newTestServer(t, &mockInvoiceRepo{}, &mockUserRepo{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/customers", nil)
	res := httptest.NewRecorder()
	e.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", res.Code)
	}
}
