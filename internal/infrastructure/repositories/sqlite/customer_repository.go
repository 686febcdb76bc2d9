package sqlite

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"peerlink/internal/core/domain"
	"peerlink/internal/core/ports"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

type SQLiteCustomerRepository struct {
	db *gorm.DB
}

func NewSQLiteCustomerRepository(path string) (ports.CustomerRepository, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open customer database: %w", err)
	}

	if err := db.AutoMigrate(&domain.Customer{}); err != nil {
		return nil, fmt.Errorf("failed to migrate customer schema: %w", err)
	}

	return &SQLiteCustomerRepository{db: db}, nil
}

func (r *SQLiteCustomerRepository) GetByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	var customer domain.Customer
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&customer).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrCustomerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query customer: %w", err)
	}
	return &customer, nil
}

func (r *SQLiteCustomerRepository) Save(ctx context.Context, customer *domain.Customer) error {
	if err := r.db.WithContext(ctx).Save(customer).Error; err != nil {
		return fmt.Errorf("failed to save customer: %w", err)
	}
	return nil
}

func (r *SQLiteCustomerRepository) List(ctx context.Context) ([]*domain.Customer, error) {
	var customers []*domain.Customer
	if err := r.db.WithContext(ctx).Order("id").Find(&customers).Error; err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	return customers, nil
}
