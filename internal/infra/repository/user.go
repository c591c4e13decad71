package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/KevinOrellana26/acme-dashboard/internal/domain"
	"github.com/KevinOrellana26/acme-dashboard/internal/infra/database/models"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	var record models.User
	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		Take(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.User{}, domain.NotFoundError{Resource: "user"}
		}
		return domain.User{}, err
	}

	return domain.User{
		ID:       record.ID,
		Name:     record.Name,
		Email:    record.Email,
		Password: record.Password,
	}, nil
}
