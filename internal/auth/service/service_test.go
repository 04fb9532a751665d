package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"orcamento_backend/internal/auth/repository"
	"orcamento_backend/platform/logger"
)

type memRepo struct {
	users map[string]repository.User
}

func (m *memRepo) GetByEmail(_ context.Context, email string) (repository.User, error) {
	user, ok := m.users[email]
	if !ok {
		return repository.User{}, repository.ErrUserNotFound
	}
	return user, nil
}

func (m *memRepo) GetByID(_ context.Context, id uuid.UUID) (repository.User, error) {
	for _, user := range m.users {
		if user.ID == id {
			return user, nil
		}
	}
	return repository.User{}, repository.ErrUserNotFound
}

var _ repository.Repository = (*memRepo)(nil)

type testConfig struct{}

func (testConfig) GetJWTAccessSecret() string       { return "test-secret" }
func (testConfig) GetAccessTokenTTL() time.Duration { return time.Hour }

func newFixture(t *testing.T) (*Service, uuid.UUID) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("correct horse"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt hash failed: %v", err)
	}

	userID := uuid.New()
	repo := &memRepo{users: map[string]repository.User{
		"ana@example.com": {
			ID:           userID,
			Name:         "Ana",
			Email:        "ana@example.com",
			PasswordHash: string(hash),
		},
	}}
	return New(repo, testConfig{}, logger.New("development")), userID
}

func TestLoginIssuesAccessToken(t *testing.T) {
	svc, userID := newFixture(t)

	result, err := svc.Login(context.Background(), "ana@example.com", "correct horse")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if result.UserID != userID {
		t.Errorf("UserID = %s, want %s", result.UserID, userID)
	}

	parsed, err := jwt.Parse(result.AccessToken, func(*jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token does not verify: %v", err)
	}
	claims := parsed.Claims.(jwt.MapClaims)
	if claims["type"] != "access" {
		t.Errorf("token type = %v, want access", claims["type"])
	}
	if claims["sub"] != userID.String() {
		t.Errorf("token sub = %v, want %s", claims["sub"], userID)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, _ := newFixture(t)

	if _, err := svc.Login(context.Background(), "ana@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password: got %v, want ErrInvalidCredentials", err)
	}
	if _, err := svc.Login(context.Background(), "nobody@example.com", "correct horse"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown email: got %v, want ErrInvalidCredentials", err)
	}
}

func TestMe(t *testing.T) {
	svc, userID := newFixture(t)

	profile, err := svc.Me(context.Background(), userID)
	if err != nil {
		t.Fatalf("Me failed: %v", err)
	}
	if profile.Email != "ana@example.com" {
		t.Errorf("email = %s", profile.Email)
	}

	if _, err := svc.Me(context.Background(), uuid.New()); !errors.Is(err, repository.ErrUserNotFound) {
		t.Errorf("got %v, want ErrUserNotFound", err)
	}
}
