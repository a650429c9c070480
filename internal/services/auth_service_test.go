package services

import (
	"context"
	"testing"
	"time"

	"github.com/jmoncada/servitec-api/internal/config"
	"github.com/jmoncada/servitec-api/internal/models"
	"github.com/jmoncada/servitec-api/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserRepo struct {
	users  map[uint]*models.User
	tokens map[string]*models.RefreshToken
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:  make(map[uint]*models.User),
		tokens: make(map[string]*models.RefreshToken),
	}
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uint) (*models.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, ErrNotFound
}

func (r *fakeUserRepo) FindByRole(_ context.Context, role string) ([]models.User, error) {
	var result []models.User
	for _, user := range r.users {
		if user.Role == role {
			result = append(result, *user)
		}
	}
	return result, nil
}

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *models.User) error {
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) SoftDelete(_ context.Context, id uint) error {
	if user, ok := r.users[id]; ok {
		now := time.Now()
		user.DiscardedAt = &now
	}
	return nil
}

func (r *fakeUserRepo) List(_ context.Context, _ *repository.ListQuery) ([]models.User, int64, error) {
	return nil, 0, nil
}

func (r *fakeUserRepo) SaveRefreshToken(_ context.Context, token *models.RefreshToken) error {
	copied := *token
	r.tokens[token.Token] = &copied
	return nil
}

func (r *fakeUserRepo) FindRefreshToken(_ context.Context, token string) (*models.RefreshToken, error) {
	rt, ok := r.tokens[token]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *rt
	return &copied, nil
}

func (r *fakeUserRepo) DeleteRefreshToken(_ context.Context, token string) error {
	delete(r.tokens, token)
	return nil
}

func (r *fakeUserRepo) DeleteRefreshTokensForUser(_ context.Context, userID uint) error {
	for token, rt := range r.tokens {
		if rt.UserID == userID {
			delete(r.tokens, token)
		}
	}
	return nil
}

func newAuthFixture(t *testing.T) (*AuthService, *fakeUserRepo) {
	t.Helper()

	hash, err := HashPassword("secreto123")
	require.NoError(t, err)

	repo := newFakeUserRepo()
	repo.users[1] = &models.User{
		ID:                1,
		Email:             "cajero@servitec.hn",
		EncryptedPassword: hash,
		FullName:          "María Cajera",
		Role:              models.RoleCashier,
		Status:            models.StatusActive,
	}

	cfg := &config.Config{JWTSecret: "test-secret", JWTExpirationHours: 1}
	return NewAuthService(repo, cfg), repo
}

func TestLogin(t *testing.T) {
	svc, repo := newAuthFixture(t)
	ctx := context.Background()

	result, err := svc.Login(ctx, "cajero@servitec.hn", "secreto123")
	require.NoError(t, err)

	assert.NotEmpty(t, result.Token)
	assert.NotEmpty(t, result.RefreshToken)
	assert.Equal(t, "cajero@servitec.hn", result.User.Email)
	assert.Contains(t, repo.tokens, result.RefreshToken)

	claims, err := svc.ValidateToken(result.Token)
	require.NoError(t, err)
	assert.Equal(t, models.RoleCashier, claims["role"])
	assert.Equal(t, float64(1), claims["user_id"])
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := newAuthFixture(t)

	_, err := svc.Login(context.Background(), "cajero@servitec.hn", "incorrecta")
	require.Error(t, err)
	assert.Equal(t, "credenciales inválidas", err.Error())
}

func TestLoginUnknownEmail(t *testing.T) {
	svc, _ := newAuthFixture(t)

	_, err := svc.Login(context.Background(), "nadie@servitec.hn", "secreto123")
	require.Error(t, err)
	assert.Equal(t, "credenciales inválidas", err.Error())
}

func TestLoginInactiveAccount(t *testing.T) {
	svc, repo := newAuthFixture(t)
	repo.users[1].Status = models.StatusSuspended

	_, err := svc.Login(context.Background(), "cajero@servitec.hn", "secreto123")
	require.Error(t, err)
	assert.Equal(t, "cuenta inactiva o suspendida", err.Error())
}

func TestRefreshTokenRotation(t *testing.T) {
	svc, repo := newAuthFixture(t)
	ctx := context.Background()

	login, err := svc.Login(ctx, "cajero@servitec.hn", "secreto123")
	require.NoError(t, err)

	refreshed, err := svc.RefreshToken(ctx, login.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.Token)
	assert.NotEqual(t, login.RefreshToken, refreshed.RefreshToken)

	// One-time use: the consumed token no longer resolves
	assert.NotContains(t, repo.tokens, login.RefreshToken)
	_, err = svc.RefreshToken(ctx, login.RefreshToken)
	require.Error(t, err)
	assert.Equal(t, "token inválido", err.Error())
}

func TestRefreshTokenExpired(t *testing.T) {
	svc, repo := newAuthFixture(t)
	ctx := context.Background()

	expired := time.Now().Add(-time.Hour)
	repo.tokens["stale"] = &models.RefreshToken{UserID: 1, Token: "stale", ExpiresAt: &expired}

	_, err := svc.RefreshToken(ctx, "stale")
	require.Error(t, err)
	assert.Equal(t, "token expirado", err.Error())
	assert.NotContains(t, repo.tokens, "stale")
}

func TestLogout(t *testing.T) {
	svc, repo := newAuthFixture(t)
	ctx := context.Background()

	login, err := svc.Login(ctx, "cajero@servitec.hn", "secreto123")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, login.RefreshToken))
	assert.NotContains(t, repo.tokens, login.RefreshToken)
}

func TestValidateTokenRejectsForgedSignature(t *testing.T) {
	svc, _ := newAuthFixture(t)
	ctx := context.Background()

	login, err := svc.Login(ctx, "cajero@servitec.hn", "secreto123")
	require.NoError(t, err)

	other := NewAuthService(newFakeUserRepo(), &config.Config{JWTSecret: "otro-secreto", JWTExpirationHours: 1})
	_, err = other.ValidateToken(login.Token)
	assert.Error(t, err)
}
