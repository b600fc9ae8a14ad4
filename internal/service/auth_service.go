package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"dmchat/internal/domain"
	"dmchat/internal/security"
)

// AuthService resolves bearer tokens to users and issues tokens for known
// users. Credential checks live outside this service.
type AuthService struct {
	users  domain.UserRepository
	tokens *security.TokenService
}

func NewAuthService(users domain.UserRepository, tokens *security.TokenService) *AuthService {
	return &AuthService{
		users:  users,
		tokens: tokens,
	}
}

type RegisterInput struct {
	Name       string
	Email      *string
	ProfilePic string
}

type TokenResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	User        *domain.User `json:"user"`
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	}
	if in.Email != nil && strings.TrimSpace(*in.Email) == "" {
		in.Email = nil
	}

	user := &domain.User{
		ID:         uuid.NewString(),
		Name:       name,
		Email:      in.Email,
		ProfilePic: in.ProfilePic,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// IssueToken mints an access token for an existing user.
func (s *AuthService) IssueToken(ctx context.Context, userID string) (*TokenResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	token, err := s.tokens.CreateForUser(user.ID)
	if err != nil {
		return nil, fmt.Errorf("create token: %w", err)
	}

	return &TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		User:        user,
	}, nil
}

// Authenticate returns the user a bearer token was issued for.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: missing token", domain.ErrUnauthorized)
	}
	userID, err := s.tokens.Subject(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrUnauthorized, err)
	}
	user, err := s.users.GetByID(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("%w: unknown user", domain.ErrUnauthorized)
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}
