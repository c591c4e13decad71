package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/KevinOrellana26/acme-dashboard/internal/domain"
	"github.com/KevinOrellana26/acme-dashboard/internal/present/rest/presenter"
	"github.com/KevinOrellana26/acme-dashboard/internal/service"
	"github.com/KevinOrellana26/acme-dashboard/internal/usecase"
)

// RevalidationStream delivers revalidation events for the paths a
// client has subscribed to.
type RevalidationStream interface {
	Realtime(ctx context.Context, input <-chan []string, output chan<- domain.RevalidationEvent)
}

type Handler struct {
	invoice  *usecase.InvoiceUsecase
	customer *usecase.CustomerUsecase
	auth     *service.AuthService
	signal   RevalidationStream
}

func NewHandler(
	invoice *usecase.InvoiceUsecase,
	customer *usecase.CustomerUsecase,
	auth *service.AuthService,
	signal RevalidationStream,
) *Handler {
	return &Handler{
		invoice:  invoice,
		customer: customer,
		auth:     auth,
		signal:   signal,
	}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.POST("/login", h.handleLogin)
	e.POST("/logout", h.handleLogout)
	e.GET("/dashboard/invoices", h.handleListInvoices)
	e.POST("/dashboard/invoices", h.handleCreateInvoice)
	e.GET("/dashboard/invoices/:id", h.handleGetInvoice)
	e.POST("/dashboard/invoices/:id", h.handleUpdateInvoice)
	e.POST("/dashboard/invoices/:id/delete", h.handleDeleteInvoice)
	e.GET("/api/v1/customers", h.handleListCustomers)
	e.GET("/realtime", h.handleRealtime)
}

// invoiceFormValues extracts the raw mutation fields from the form
// body. Field names are part of the form contract.
func invoiceFormValues(c echo.Context) map[string]string {
	return map[string]string{
		"customerId": c.FormValue("customerId"),
		"amount":     c.FormValue("amount"),
		"status":     c.FormValue("status"),
	}
}

func (h *Handler) handleCreateInvoice(c echo.Context) error {
	ctx := c.Request().Context()

	if state := h.invoice.Create(ctx, invoiceFormValues(c)); state != nil {
		return presenter.MutationFailed(c, state)
	}

	return presenter.SeeOther(c, domain.InvoicesPath)
}

func (h *Handler) handleUpdateInvoice(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	if state := h.invoice.Update(ctx, id, invoiceFormValues(c)); state != nil {
		return presenter.MutationFailed(c, state)
	}

	return presenter.SeeOther(c, domain.InvoicesPath)
}

func (h *Handler) handleDeleteInvoice(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	if state := h.invoice.Delete(ctx, id); state != nil {
		return presenter.MutationFailed(c, state)
	}

	return presenter.SeeOther(c, domain.InvoicesPath)
}

func (h *Handler) handleGetInvoice(c echo.Context) error {
	ctx := c.Request().Context()

	invoice, err := h.invoice.Get(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return presenter.NotFound(c, "invoice not found")
		}
		return presenter.InternalError(c, err)
	}
	return presenter.OK(c, invoice)
}

func (h *Handler) handleListInvoices(c echo.Context) error {
	ctx := c.Request().Context()

	invoices, err := h.invoice.List(ctx)
	if err != nil {
		return presenter.InternalError(c, err)
	}
	return presenter.OK(c, invoices)
}

func (h *Handler) handleListCustomers(c echo.Context) error {
	ctx := c.Request().Context()

	customers, err := h.customer.List(ctx)
	if err != nil {
		return presenter.InternalError(c, err)
	}
	return presenter.OK(c, customers)
}

func (h *Handler) handleLogin(c echo.Context) error {
	ctx := c.Request().Context()

	email := c.FormValue("email")
	password := c.FormValue("password")

	token, err := h.auth.SignIn(ctx, email, password)
	if err != nil {
		var authErr domain.AuthError
		if errors.As(err, &authErr) {
			switch authErr.Kind {
			case domain.AuthErrorInvalidCredentials:
				return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Invalid credentials."})
			default:
				return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Something went wrong"})
			}
		}
		// Unrecognized failures go to the framework error handler.
		return err
	}

	// Expiry is carried by the token itself; the gate rejects stale ones.
	c.SetCookie(&http.Cookie{
		Name:     domain.SessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	return presenter.SeeOther(c, domain.DashboardPath)
}

func (h *Handler) handleLogout(c echo.Context) error {
	c.SetCookie(&http.Cookie{
		Name:     domain.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	return presenter.SeeOther(c, domain.LoginPath)
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type realtimeRequest struct {
	Type  string   `json:"type"`
	Paths []string `json:"paths"`
}

// handleRealtime streams revalidation events to an open dashboard so
// it can refetch stale views without a full reload.
func (h *Handler) handleRealtime(c echo.Context) error {
	ws, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		slog.Error(
			"Failed to upgrade WebSocket",
			slog.String("error", err.Error()),
			slog.String("module", "socket"),
		)
		return err
	}
	defer func() {
		ws.Close()
	}()

	ctx := c.Request().Context()

	input := make(chan []string)
	defer close(input)
	output := make(chan domain.RevalidationEvent)

	go h.signal.Realtime(ctx, input, output)

	// Buffered so the reader can always post its exit even when the
	// writer loop has already returned on a write failure.
	quit := make(chan struct{}, 1)

	go func() {
		for {
			var req realtimeRequest
			err := ws.ReadJSON(&req)
			if err != nil {

				wsErr, ok := err.(*websocket.CloseError)
				if ok {
					if !(wsErr.Code == websocket.CloseNormalClosure || wsErr.Code == websocket.CloseGoingAway) {
						slog.DebugContext(
							ctx, "WebSocket closed",
							slog.String("error", wsErr.Error()),
							slog.String("module", "socket"),
						)
					}
				} else {
					slog.ErrorContext(
						ctx, "Error reading message",
						slog.String("error", err.Error()),
						slog.String("module", "socket"),
					)
				}

				quit <- struct{}{}
				break
			}

			switch req.Type {
			case "listen":
				input <- req.Paths
				slog.DebugContext(
					ctx, fmt.Sprintf("Socket subscribe: %s", req.Paths),
					slog.String("module", "socket"),
				)
			case "h": // heartbeat
				// do nothing
			default:
				slog.InfoContext(
					ctx, "Unknown request type",
					slog.String("type", req.Type),
					slog.String("module", "socket"),
				)
			}
		}
	}()

	for {
		select {
		case <-quit:
			return nil
		case event := <-output:
			err := ws.WriteJSON(event)
			if err != nil {
				slog.ErrorContext(
					ctx, "Error writing message",
					slog.String("error", err.Error()),
					slog.String("module", "socket"),
				)
				return nil
			}
		}
	}
}
