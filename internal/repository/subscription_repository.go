package repository

import (
	"context"

	"github.com/jmoncada/servitec-api/internal/models"
	"gorm.io/gorm"
)

// SubscriptionRepository defines the interface for subscription data access
type SubscriptionRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Subscription, error)
	FindActive(ctx context.Context) ([]models.Subscription, error)
	FindByCustomer(ctx context.Context, customerID uint) ([]models.Subscription, error)
	Create(ctx context.Context, subscription *models.Subscription) error
	Update(ctx context.Context, subscription *models.Subscription) error
	List(ctx context.Context, query *ListQuery) ([]models.Subscription, int64, error)
}

type subscriptionRepository struct {
	db *gorm.DB
}

// NewSubscriptionRepository creates a new subscription repository
func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

func (r *subscriptionRepository) FindByID(ctx context.Context, id uint) (*models.Subscription, error) {
	var subscription models.Subscription
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("ServiceItem").
		First(&subscription, id).Error
	if err != nil {
		return nil, err
	}
	return &subscription, nil
}

// FindActive returns every subscription currently billed, used by the
// monthly charge job.
func (r *subscriptionRepository) FindActive(ctx context.Context) ([]models.Subscription, error) {
	var subscriptions []models.Subscription
	err := r.db.WithContext(ctx).
		Where("status = ?", models.SubscriptionStatusActive).
		Preload("Customer").
		Preload("ServiceItem").
		Find(&subscriptions).Error
	return subscriptions, err
}

func (r *subscriptionRepository) FindByCustomer(ctx context.Context, customerID uint) ([]models.Subscription, error) {
	var subscriptions []models.Subscription
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Preload("ServiceItem").
		Order("created_at DESC").
		Find(&subscriptions).Error
	return subscriptions, err
}

func (r *subscriptionRepository) Create(ctx context.Context, subscription *models.Subscription) error {
	return r.db.WithContext(ctx).Create(subscription).Error
}

func (r *subscriptionRepository) Update(ctx context.Context, subscription *models.Subscription) error {
	return r.db.WithContext(ctx).Save(subscription).Error
}

func (r *subscriptionRepository) List(ctx context.Context, query *ListQuery) ([]models.Subscription, int64, error) {
	var subscriptions []models.Subscription
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Subscription{})

	if status := query.Filters["status"]; status != "" {
		db = db.Where("subscriptions.status = ?", status)
	}
	if query.Search != "" {
		term := "%" + query.Search + "%"
		db = db.Joins("Customer").
			Where("\"Customer\".full_name ILIKE ?", term)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order := sortColumn(query, map[string]string{
		"start_date":  "start_date",
		"monthly_fee": "monthly_fee",
	}, "subscriptions.created_at DESC")

	err := db.
		Preload("Customer").
		Preload("ServiceItem").
		Order(order).
		Scopes(Paginate(query)).
		Find(&subscriptions).Error
	return subscriptions, total, err
}
