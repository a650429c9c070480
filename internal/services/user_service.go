package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoncada/servitec-api/internal/jobs"
	"github.com/jmoncada/servitec-api/internal/models"
	"github.com/jmoncada/servitec-api/internal/repository"
	"github.com/jmoncada/servitec-api/pkg/logger"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserService manages back-office accounts
type UserService struct {
	repo     repository.UserRepository
	emailSvc *EmailService
	auditSvc *AuditService
	worker   *jobs.Worker
}

// NewUserService creates a new user service
func NewUserService(repo repository.UserRepository, emailSvc *EmailService, auditSvc *AuditService, worker *jobs.Worker) *UserService {
	return &UserService{
		repo:     repo,
		emailSvc: emailSvc,
		auditSvc: auditSvc,
		worker:   worker,
	}
}

// CreateUserInput carries the fields needed to create an account
type CreateUserInput struct {
	Email    string
	Password string
	FullName string
	Phone    string
	Role     string

	ActorID   uint
	IP        string
	UserAgent string
}

// Create registers a new account and emails the welcome message
func (s *UserService) Create(ctx context.Context, input CreateUserInput) (*models.User, error) {
	hash, err := HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:             input.Email,
		EncryptedPassword: hash,
		FullName:          input.FullName,
		Phone:             input.Phone,
		Role:              input.Role,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	if s.auditSvc != nil {
		details := fmt.Sprintf("Usuario %s creado con rol %s", user.Email, user.Role)
		if err := s.auditSvc.Log(ctx, input.ActorID, "CREATE", "User", user.ID, details, input.IP, input.UserAgent); err != nil {
			logger.Error(fmt.Sprintf("[UserService] Failed to write audit log: %v", err))
		}
	}

	if s.worker != nil && s.emailSvc != nil {
		created := *user
		s.worker.EnqueueAsync(func(ctx context.Context) error {
			return s.emailSvc.SendAccountCreated(ctx, &created)
		})
	}
	return user, nil
}

// FindByID returns one user
func (s *UserService) FindByID(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

// UpdateUserInput carries the editable account fields
type UpdateUserInput struct {
	FullName *string
	Phone    *string
	Role     *string
	Status   *string
}

// Update modifies an account's profile fields
func (s *UserService) Update(ctx context.Context, id uint, input UpdateUserInput) (*models.User, error) {
	user, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.FullName != nil {
		user.FullName = *input.FullName
	}
	if input.Phone != nil {
		user.Phone = *input.Phone
	}
	if input.Role != nil {
		user.Role = *input.Role
	}
	if input.Status != nil {
		user.Status = *input.Status
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ChangePassword verifies the current password and replaces it
func (s *UserService) ChangePassword(ctx context.Context, id uint, currentPassword, newPassword string) error {
	user, err := s.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.EncryptedPassword), []byte(currentPassword)); err != nil {
		return ErrInvalidPassword
	}

	hash, err := HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.EncryptedPassword = hash

	if err := s.repo.Update(ctx, user); err != nil {
		return err
	}
	// Password change invalidates every open session
	return s.repo.DeleteRefreshTokensForUser(ctx, id)
}

// SoftDelete deactivates an account
func (s *UserService) SoftDelete(ctx context.Context, id uint) error {
	if _, err := s.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return err
	}
	return s.repo.DeleteRefreshTokensForUser(ctx, id)
}

// List returns users matching the query
func (s *UserService) List(ctx context.Context, query *repository.ListQuery) ([]models.User, int64, error) {
	return s.repo.List(ctx, query)
}
