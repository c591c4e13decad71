package usecase

import (
	"context"
	"encoding/json"
	"log/slog"
	"math"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/KevinOrellana26/acme-dashboard/internal/domain"
	"github.com/KevinOrellana26/acme-dashboard/internal/form"
)

const latestInvoicesLimit = 50

// maxInvoiceAmount bounds the major-unit amount so the minor-unit form
// always fits an int64.
const maxInvoiceAmount = 1e12

var invoiceSchema = form.New(
	form.Field{Name: "id", Rules: []form.Rule{form.Required("Missing invoice id")}},
	form.Field{Name: "customerId", Rules: []form.Rule{form.Required("Please select a customer")}},
	form.Field{Name: "amount", Rules: []form.Rule{
		form.NumberGreaterThan(0, "Please enter an amount greater than $0."),
		form.NumberAtMost(maxInvoiceAmount, "Please enter an amount below $1,000,000,000,000."),
	}},
	form.Field{Name: "status", Rules: []form.Rule{form.OneOf("Please select an invoice status",
		string(domain.InvoiceStatusPending), string(domain.InvoiceStatusPaid))}},
	form.Field{Name: "date"},
)

var (
	createInvoiceSchema = invoiceSchema.Omit("id", "date")
	updateInvoiceSchema = invoiceSchema.Omit("id", "date")
)

type InvoiceUsecase struct {
	repo   InvoiceRepository
	views  ViewCache
	signal RevalidationPublisher
}

func NewInvoiceUsecase(repo InvoiceRepository, views ViewCache, signal RevalidationPublisher) *InvoiceUsecase {
	return &InvoiceUsecase{
		repo:   repo,
		views:  views,
		signal: signal,
	}
}

// Create validates the raw form values and inserts a new invoice. The
// issue date is today and the identifier is freshly assigned. A nil
// return means success; otherwise the State describes the failure.
func (uc *InvoiceUsecase) Create(ctx context.Context, values map[string]string) *domain.State {
	result := createInvoiceSchema.Validate(values)
	if !result.Valid() {
		return &domain.State{
			Errors:  result.FieldErrors,
			Message: "Missing Fields, Failed to Create Invoice",
		}
	}

	amount, _ := strconv.ParseFloat(values["amount"], 64)

	invoice := domain.Invoice{
		ID:         uuid.NewString(),
		CustomerID: values["customerId"],
		Amount:     toMinorUnits(amount),
		Status:     domain.InvoiceStatus(values["status"]),
		Date:       time.Now().Format("2006-01-02"),
	}

	if err := uc.repo.Create(ctx, invoice); err != nil {
		return &domain.State{Message: "Database Error: Failed to Create Invoice"}
	}

	uc.revalidate(ctx, domain.InvoicesPath)
	return nil
}

// Update validates the raw form values and rewrites the customer
// reference, amount and status of the invoice with the given id. Date
// and id are never touched.
func (uc *InvoiceUsecase) Update(ctx context.Context, id string, values map[string]string) *domain.State {
	result := updateInvoiceSchema.Validate(values)
	if !result.Valid() {
		return &domain.State{
			Errors:  result.FieldErrors,
			Message: "Missing Fields, Failed to Update Invoice",
		}
	}

	amount, _ := strconv.ParseFloat(values["amount"], 64)

	invoice := domain.Invoice{
		ID:         id,
		CustomerID: values["customerId"],
		Amount:     toMinorUnits(amount),
		Status:     domain.InvoiceStatus(values["status"]),
	}

	if err := uc.repo.Update(ctx, invoice); err != nil {
		return &domain.State{Message: "Database Error: Failed to Update Invoice"}
	}

	uc.revalidate(ctx, domain.InvoicesPath)
	return nil
}

// Delete removes the invoice with the given id. No validation is
// performed on the identifier.
func (uc *InvoiceUsecase) Delete(ctx context.Context, id string) *domain.State {
	if err := uc.repo.Delete(ctx, id); err != nil {
		return &domain.State{Message: "Database Error: Failed to Delete Invoice"}
	}

	uc.revalidate(ctx, domain.InvoicesPath)
	return nil
}

// Get fetches a single invoice, typically to prefill the edit form.
func (uc *InvoiceUsecase) Get(ctx context.Context, id string) (domain.Invoice, error) {
	return uc.repo.Get(ctx, id)
}

// List returns the latest invoices joined with their customer names.
// The result is served from the view cache until a mutation
// invalidates the invoices path.
func (uc *InvoiceUsecase) List(ctx context.Context) ([]domain.Invoice, error) {
	if cached, ok := uc.views.Get(domain.InvoicesPath, "latest"); ok {
		var invoices []domain.Invoice
		if err := json.Unmarshal(cached, &invoices); err == nil {
			return invoices, nil
		}
	}

	invoices, err := uc.repo.List(ctx, latestInvoicesLimit)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(invoices); err == nil {
		if err := uc.views.Set(domain.InvoicesPath, "latest", payload); err != nil {
			slog.WarnContext(ctx, "failed to populate view cache",
				slog.String("path", domain.InvoicesPath),
				slog.String("error", err.Error()),
			)
		}
	}

	return invoices, nil
}

// revalidate marks the cached views under path stale and broadcasts
// the event. Both are fire-and-forget relative to the mutation.
func (uc *InvoiceUsecase) revalidate(ctx context.Context, path string) {
	if err := uc.views.InvalidatePath(path); err != nil {
		slog.WarnContext(ctx, "failed to invalidate view cache",
			slog.String("path", path),
			slog.String("error", err.Error()),
		)
	}

	event := domain.RevalidationEvent{
		Path:      path,
		Timestamp: time.Now().Unix(),
	}
	if err := uc.signal.Publish(ctx, event); err != nil {
		slog.WarnContext(ctx, "failed to publish revalidation event",
			slog.String("path", path),
			slog.String("error", err.Error()),
		)
	}
}

// toMinorUnits converts a major-unit amount to integer cents, rounding
// half away from zero.
func toMinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
