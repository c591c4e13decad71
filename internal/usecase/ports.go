package usecase

import (
	"context"

	"github.com/KevinOrellana26/acme-dashboard/internal/domain"
)

// InvoiceRepository defines storage operations for invoices.
type InvoiceRepository interface {
	Create(ctx context.Context, invoice domain.Invoice) error
	Update(ctx context.Context, invoice domain.Invoice) error
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (domain.Invoice, error)
	List(ctx context.Context, limit int) ([]domain.Invoice, error)
}

// CustomerRepository defines lookup for customers.
type CustomerRepository interface {
	List(ctx context.Context) ([]domain.Customer, error)
}

// ViewCache caches rendered view payloads scoped by request path and
// invalidates all of them at once when the path is written to.
type ViewCache interface {
	Get(path, key string) ([]byte, bool)
	Set(path, key string, value []byte) error
	InvalidatePath(path string) error
}

// RevalidationPublisher broadcasts that cached views under a path went
// stale.
type RevalidationPublisher interface {
	Publish(ctx context.Context, event domain.RevalidationEvent) error
}
