package services

import (
	"context"
	"fmt"

	"peerlink/internal/core/domain"
	"peerlink/internal/core/ports"
	apperrors "peerlink/pkg/errors"
	"peerlink/pkg/utils"
	"peerlink/pkg/validation"

	"go.uber.org/zap"
)

type customerService struct {
	repo   ports.CustomerRepository
	logger *zap.SugaredLogger
}

func NewCustomerService(repo ports.CustomerRepository, logger *zap.SugaredLogger) ports.CustomerService {
	return &customerService{
		repo:   repo,
		logger: logger,
	}
}

func (s *customerService) Save(ctx context.Context, customer *domain.Customer) (bool, error) {
	customer.LastName = utils.SanitizeString(customer.LastName)
	customer.FirstName = utils.SanitizeString(customer.FirstName)
	customer.City = utils.SanitizeString(customer.City)
	customer.Country = utils.SanitizeString(customer.Country)
	customer.Email = utils.NormalizeEmail(customer.Email)

	if err := s.validate(customer); err != nil {
		return false, err
	}

	created := false
	existing, err := s.repo.GetByEmail(ctx, customer.Email)
	switch err {
	case nil:
		customer.ID = existing.ID
		customer.CreatedAt = existing.CreatedAt
	case domain.ErrCustomerNotFound:
		created = true
	default:
		return false, fmt.Errorf("failed to look up customer: %w", err)
	}

	if err := s.repo.Save(ctx, customer); err != nil {
		return false, fmt.Errorf("failed to save customer: %w", err)
	}

	action := "update"
	if created {
		action = "insert"
	}
	s.logger.Infow("customer saved", "email", customer.Email, "action", action)
	return created, nil
}

func (s *customerService) validate(customer *domain.Customer) error {
	fields := map[string]string{
		"lastname":  customer.LastName,
		"firstname": customer.FirstName,
		"city":      customer.City,
		"country":   customer.Country,
	}
	for _, name := range []string{"lastname", "firstname", "city", "country"} {
		if err := validation.ValidateRequired(name, fields[name]); err != nil {
			return apperrors.NewInvalidRequestError(err.Error())
		}
	}
	if err := validation.ValidateEmail(customer.Email); err != nil {
		return apperrors.NewInvalidRequestError(err.Error())
	}
	if !domain.CountryAllowed(customer.Country) {
		return apperrors.NewInvalidRequestError("invalid country selection")
	}
	return nil
}

func (s *customerService) GetByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	email = utils.NormalizeEmail(email)
	if utils.IsEmpty(email) {
		return nil, apperrors.NewInvalidRequestError("email is required")
	}

	customer, err := s.repo.GetByEmail(ctx, email)
	if err == domain.ErrCustomerNotFound {
		return nil, apperrors.NewNotFoundError("customer")
	}
	return customer, err
}

func (s *customerService) List(ctx context.Context) ([]*domain.Customer, error) {
	return s.repo.List(ctx)
}
