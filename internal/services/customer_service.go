package services

import (
	"context"
	"errors"

	"github.com/jmoncada/servitec-api/internal/models"
	"github.com/jmoncada/servitec-api/internal/repository"
	"gorm.io/gorm"
)

// CustomerService manages the customer directory
type CustomerService struct {
	repo     repository.CustomerRepository
	saleRepo repository.SaleRepository
	subRepo  repository.SubscriptionRepository
}

// NewCustomerService creates a new customer service
func NewCustomerService(repo repository.CustomerRepository, saleRepo repository.SaleRepository, subRepo repository.SubscriptionRepository) *CustomerService {
	return &CustomerService{
		repo:     repo,
		saleRepo: saleRepo,
		subRepo:  subRepo,
	}
}

// FindByID returns one customer
func (s *CustomerService) FindByID(ctx context.Context, id uint) (*models.Customer, error) {
	customer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return customer, nil
}

// Create registers a new customer
func (s *CustomerService) Create(ctx context.Context, customer *models.Customer) error {
	return s.repo.Create(ctx, customer)
}

// UpdateCustomerInput carries the editable customer fields
type UpdateCustomerInput struct {
	FullName *string
	Phone    *string
	Email    *string
	Address  *string
	Active   *bool
}

// Update modifies a customer's profile. The identity document is
// immutable; corrections go through support with an audit trail.
func (s *CustomerService) Update(ctx context.Context, id uint, input UpdateCustomerInput) (*models.Customer, error) {
	customer, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.FullName != nil {
		customer.FullName = *input.FullName
	}
	if input.Phone != nil {
		customer.Phone = *input.Phone
	}
	if input.Email != nil {
		customer.Email = *input.Email
	}
	if input.Address != nil {
		customer.Address = input.Address
	}
	if input.Active != nil {
		customer.Active = *input.Active
	}

	if err := s.repo.Update(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// SoftDelete discards a customer from the directory
func (s *CustomerService) SoftDelete(ctx context.Context, id uint) error {
	if _, err := s.FindByID(ctx, id); err != nil {
		return err
	}
	return s.repo.SoftDelete(ctx, id)
}

// List returns customers matching the query
func (s *CustomerService) List(ctx context.Context, query *repository.ListQuery) ([]models.Customer, int64, error) {
	return s.repo.List(ctx, query)
}

// CustomerProfile bundles a customer with their commercial history
type CustomerProfile struct {
	Customer      models.CustomerResponse       `json:"customer"`
	Sales         []models.SaleResponse         `json:"sales"`
	Subscriptions []models.SubscriptionResponse `json:"subscriptions"`
}

// GetProfile returns a customer together with their sales and
// subscriptions, for the customer detail screen.
func (s *CustomerService) GetProfile(ctx context.Context, id uint) (*CustomerProfile, error) {
	customer, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	sales, err := s.saleRepo.FindByCustomer(ctx, id)
	if err != nil {
		return nil, err
	}
	subscriptions, err := s.subRepo.FindByCustomer(ctx, id)
	if err != nil {
		return nil, err
	}

	profile := &CustomerProfile{
		Customer:      customer.ToResponse(),
		Sales:         make([]models.SaleResponse, 0, len(sales)),
		Subscriptions: make([]models.SubscriptionResponse, 0, len(subscriptions)),
	}
	for i := range sales {
		profile.Sales = append(profile.Sales, sales[i].ToResponse())
	}
	for i := range subscriptions {
		profile.Subscriptions = append(profile.Subscriptions, subscriptions[i].ToResponse())
	}
	return profile, nil
}
