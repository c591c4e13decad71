package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/KevinOrellana26/acme-dashboard/internal/domain"
	"github.com/KevinOrellana26/acme-dashboard/internal/infra/database/models"
)

type InvoiceRepository struct {
	db *gorm.DB
}

func NewInvoiceRepository(db *gorm.DB) *InvoiceRepository {
	return &InvoiceRepository{db: db}
}

func (r *InvoiceRepository) Create(ctx context.Context, invoice domain.Invoice) error {
	record := models.Invoice{
		ID:         invoice.ID,
		CustomerID: invoice.CustomerID,
		Amount:     invoice.Amount,
		Status:     string(invoice.Status),
		Date:       invoice.Date,
	}
	return r.db.WithContext(ctx).Create(&record).Error
}

// Update rewrites customer reference, amount and status only. Date and
// id stay untouched. Concurrent updates race at the database level;
// last write wins.
func (r *InvoiceRepository) Update(ctx context.Context, invoice domain.Invoice) error {
	return r.db.WithContext(ctx).
		Model(&models.Invoice{}).
		Where("id = ?", invoice.ID).
		Updates(map[string]any{
			"customer_id": invoice.CustomerID,
			"amount":      invoice.Amount,
			"status":      string(invoice.Status),
		}).Error
}

func (r *InvoiceRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&models.Invoice{}, "id = ?", id).Error
}

func (r *InvoiceRepository) Get(ctx context.Context, id string) (domain.Invoice, error) {
	var record models.Invoice
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		Take(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Invoice{}, domain.NotFoundError{Resource: "invoice"}
		}
		return domain.Invoice{}, err
	}

	return domain.Invoice{
		ID:         record.ID,
		CustomerID: record.CustomerID,
		Amount:     record.Amount,
		Status:     domain.InvoiceStatus(record.Status),
		Date:       record.Date,
	}, nil
}

type invoiceRow struct {
	ID           string
	CustomerID   string
	CustomerName string
	Amount       int64
	Status       string
	Date         string
}

func (r *InvoiceRepository) List(ctx context.Context, limit int) ([]domain.Invoice, error) {
	var rows []invoiceRow
	err := r.db.WithContext(ctx).
		Model(&models.Invoice{}).
		Select("invoices.id, invoices.customer_id, customers.name AS customer_name, invoices.amount, invoices.status, invoices.date").
		Joins("JOIN customers ON customers.id = invoices.customer_id").
		Order("invoices.date DESC, invoices.c_date DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	invoices := make([]domain.Invoice, 0, len(rows))
	for _, row := range rows {
		invoices = append(invoices, domain.Invoice{
			ID:           row.ID,
			CustomerID:   row.CustomerID,
			CustomerName: row.CustomerName,
			Amount:       row.Amount,
			Status:       domain.InvoiceStatus(row.Status),
			Date:         row.Date,
		})
	}
	return invoices, nil
}
