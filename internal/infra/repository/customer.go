package repository

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
	"gorm.io/gorm"

	"github.com/KevinOrellana26/acme-dashboard/internal/domain"
	"github.com/KevinOrellana26/acme-dashboard/internal/infra/database/models"
)

const customersCacheKey = "customers"

type CustomerRepository struct {
	db    *gorm.DB
	cache *cache.Cache
}

func NewCustomerRepository(db *gorm.DB) *CustomerRepository {
	return &CustomerRepository{
		db:    db,
		cache: cache.New(5*time.Minute, 10*time.Minute),
	}
}

// List returns all customers ordered by name. The customer set changes
// rarely, so the result is held in-process for a few minutes.
func (r *CustomerRepository) List(ctx context.Context) ([]domain.Customer, error) {
	if cached, found := r.cache.Get(customersCacheKey); found {
		return cached.([]domain.Customer), nil
	}

	var records []models.Customer
	err := r.db.WithContext(ctx).
		Order("name ASC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	customers := make([]domain.Customer, 0, len(records))
	for _, record := range records {
		customers = append(customers, domain.Customer{
			ID:       record.ID,
			Name:     record.Name,
			Email:    record.Email,
			ImageURL: record.ImageURL,
		})
	}

	r.cache.Set(customersCacheKey, customers, cache.DefaultExpiration)
	return customers, nil
}
