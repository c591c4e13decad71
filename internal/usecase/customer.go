package usecase

import (
	"context"

	"github.com/KevinOrellana26/acme-dashboard/internal/domain"
)

type CustomerUsecase struct {
	repo CustomerRepository
}

func NewCustomerUsecase(repo CustomerRepository) *CustomerUsecase {
	return &CustomerUsecase{repo: repo}
}

// List returns all customers, ordered by name, for the invoice form
// select box.
func (uc *CustomerUsecase) List(ctx context.Context) ([]domain.Customer, error) {
	return uc.repo.List(ctx)
}
