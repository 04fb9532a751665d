// Package service implements credential verification and access token
// issuance.
package service

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"orcamento_backend/internal/auth/repository"
	"orcamento_backend/platform/apperr"
	"orcamento_backend/platform/config"
	"orcamento_backend/platform/logger"
)

// ErrInvalidCredentials covers both unknown email and wrong password so the
// response never reveals which one failed.
var ErrInvalidCredentials = apperr.Unauthorized("invalid credentials")

// Service verifies credentials and issues JWT access tokens.
type Service struct {
	repo repository.Repository
	cfg  config.AuthServiceConfig
	log  *logger.Logger
}

func New(repo repository.Repository, cfg config.AuthServiceConfig, log *logger.Logger) *Service {
	return &Service{repo: repo, cfg: cfg, log: log}
}

// LoginResult carries the issued token and the account it belongs to.
type LoginResult struct {
	AccessToken string    `json:"accessToken"`
	ExpiresAt   time.Time `json:"expiresAt"`
	UserID      uuid.UUID `json:"userId"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
}

// Login checks the password against the stored bcrypt hash and returns a
// short-lived access token.
func (s *Service) Login(ctx context.Context, email, password string) (LoginResult, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		s.log.AuthEvent("login", email, false, "unknown email")
		return LoginResult{}, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.log.AuthEvent("login", email, false, "wrong password")
		return LoginResult{}, ErrInvalidCredentials
	}

	expiresAt := time.Now().Add(s.cfg.GetAccessTokenTTL())
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  user.ID.String(),
		"type": "access",
		"iat":  time.Now().Unix(),
		"exp":  expiresAt.Unix(),
	})
	signed, err := token.SignedString([]byte(s.cfg.GetJWTAccessSecret()))
	if err != nil {
		return LoginResult{}, apperr.Wrap(apperr.KindInternal, "token signing failed", err)
	}

	s.log.AuthEvent("login", email, true, "")
	return LoginResult{
		AccessToken: signed,
		ExpiresAt:   expiresAt,
		UserID:      user.ID,
		Name:        user.Name,
		Email:       user.Email,
	}, nil
}

// Profile is the authenticated account view.
type Profile struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

// Me returns the account behind an authenticated request.
func (s *Service) Me(ctx context.Context, userID uuid.UUID) (Profile, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return Profile{}, err
	}
	return Profile{ID: user.ID, Name: user.Name, Email: user.Email}, nil
}
