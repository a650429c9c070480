package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jmoncada/servitec-api/internal/models"
	"github.com/jmoncada/servitec-api/internal/repository"
	"github.com/jmoncada/servitec-api/pkg/logger"
	"gorm.io/gorm"
)

// SubscriptionService manages recurring service agreements and their
// monthly billing.
type SubscriptionService struct {
	repo            repository.SubscriptionRepository
	customerRepo    repository.CustomerRepository
	serviceItemRepo repository.ServiceItemRepository
	invoiceSvc      *InvoiceService
	clock           Clock
}

// NewSubscriptionService creates a new subscription service
func NewSubscriptionService(
	repo repository.SubscriptionRepository,
	customerRepo repository.CustomerRepository,
	serviceItemRepo repository.ServiceItemRepository,
	invoiceSvc *InvoiceService,
	clock Clock,
) *SubscriptionService {
	if clock == nil {
		clock = SystemClock
	}
	return &SubscriptionService{
		repo:            repo,
		customerRepo:    customerRepo,
		serviceItemRepo: serviceItemRepo,
		invoiceSvc:      invoiceSvc,
		clock:           clock,
	}
}

// CreateSubscriptionInput carries the fields needed to open an agreement
type CreateSubscriptionInput struct {
	CustomerID    uint
	ServiceItemID uint
	MonthlyFee    float64
	StartDate     time.Time
	Note          *string
}

// Create opens a subscription. A zero monthly fee falls back to the
// service item's catalog price.
func (s *SubscriptionService) Create(ctx context.Context, input CreateSubscriptionInput) (*models.Subscription, error) {
	if _, err := s.customerRepo.FindByID(ctx, input.CustomerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	item, err := s.serviceItemRepo.FindByID(ctx, input.ServiceItemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	fee := input.MonthlyFee
	if fee <= 0 {
		fee = item.Price
	}
	start := input.StartDate
	if start.IsZero() {
		start = s.clock.Now()
	}

	subscription := &models.Subscription{
		CustomerID:    input.CustomerID,
		ServiceItemID: input.ServiceItemID,
		MonthlyFee:    RoundMoney(fee),
		Status:        models.SubscriptionStatusActive,
		StartDate:     start,
		Note:          input.Note,
	}
	if err := s.repo.Create(ctx, subscription); err != nil {
		return nil, err
	}
	return subscription, nil
}

// FindByID returns one subscription
func (s *SubscriptionService) FindByID(ctx context.Context, id uint) (*models.Subscription, error) {
	subscription, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return subscription, nil
}

// Pause suspends billing without cancelling the agreement
func (s *SubscriptionService) Pause(ctx context.Context, id uint) (*models.Subscription, error) {
	return s.transition(ctx, id, models.SubscriptionStatusActive, models.SubscriptionStatusPaused)
}

// Resume reactivates a paused subscription
func (s *SubscriptionService) Resume(ctx context.Context, id uint) (*models.Subscription, error) {
	return s.transition(ctx, id, models.SubscriptionStatusPaused, models.SubscriptionStatusActive)
}

// Cancel ends the agreement permanently
func (s *SubscriptionService) Cancel(ctx context.Context, id uint) (*models.Subscription, error) {
	subscription, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if subscription.Status == models.SubscriptionStatusCancelled {
		return nil, ErrInvalidState
	}
	now := s.clock.Now()
	subscription.Status = models.SubscriptionStatusCancelled
	subscription.CancelledAt = &now
	if err := s.repo.Update(ctx, subscription); err != nil {
		return nil, err
	}
	return subscription, nil
}

func (s *SubscriptionService) transition(ctx context.Context, id uint, from, to string) (*models.Subscription, error) {
	subscription, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if subscription.Status != from {
		return nil, ErrInvalidState
	}
	subscription.Status = to
	if err := s.repo.Update(ctx, subscription); err != nil {
		return nil, err
	}
	return subscription, nil
}

// List returns subscriptions matching the query
func (s *SubscriptionService) List(ctx context.Context, query *repository.ListQuery) ([]models.Subscription, int64, error) {
	return s.repo.List(ctx, query)
}

// ChargeMonthly invoices every active subscription. Runs from the
// scheduler once per billing cycle; failures are logged per agreement
// so one bad record never blocks the batch.
func (s *SubscriptionService) ChargeMonthly(ctx context.Context) (int, error) {
	subscriptions, err := s.repo.FindActive(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load active subscriptions: %w", err)
	}

	charged := 0
	for i := range subscriptions {
		sub := subscriptions[i]
		description := fmt.Sprintf("Cargo mensual: %s (%s)", sub.ServiceItem.Name, s.clock.Now().Format("01/2006"))
		if _, err := s.invoiceSvc.IssueForSubscription(ctx, &sub, description); err != nil {
			logger.Error(fmt.Sprintf("[SubscriptionService] Charge failed for subscription %d: %v", sub.ID, err))
			continue
		}
		charged++
	}

	logger.Info(fmt.Sprintf("[SubscriptionService] Monthly charge issued %d invoices", charged))
	return charged, nil
}
