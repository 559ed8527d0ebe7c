package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"firebase.google.com/go/v4/auth"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rahatul-dev/subbazar/internal/config"
	"github.com/rahatul-dev/subbazar/internal/domain"
)

// FirebaseAuthClient defines the interface for Firebase Auth operations.
// This allows mocking for tests.
type FirebaseAuthClient interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

// AuthService exchanges Firebase ID tokens for app JWTs and registers
// first-time shoppers.
type AuthService struct {
	userRepo   domain.UserRepository
	authClient FirebaseAuthClient
	jwtConfig  config.JWTConfig
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo domain.UserRepository, authClient FirebaseAuthClient, jwtConfig config.JWTConfig) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		authClient: authClient,
		jwtConfig:  jwtConfig,
	}
}

// LoginOrRegisterResponse contains the user, the issued token and whether
// the account was newly created.
type LoginOrRegisterResponse struct {
	User      *domain.User
	Token     string
	IsNewUser bool
}

// LoginOrRegister verifies a Firebase ID token and either logs in the
// matching user or creates a new customer account. Pre-provisioned accounts
// (created by an admin with an email but no firebase_uid) are linked on
// first login.
func (s *AuthService) LoginOrRegister(ctx context.Context, firebaseToken string) (*LoginOrRegisterResponse, error) {
	token, err := s.authClient.VerifyIDToken(ctx, firebaseToken)
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	firebaseUID := token.UID
	email, _ := token.Claims["email"].(string)
	name, _ := token.Claims["name"].(string)
	if name == "" {
		name = email
	}

	existing, err := s.userRepo.GetByFirebaseUID(ctx, firebaseUID)

	if err != nil && errors.Is(err, domain.ErrNotFound) && email != "" {
		emailUser, emailErr := s.userRepo.GetByEmail(ctx, email)
		if emailErr == nil && emailUser != nil {
			if emailUser.FirebaseUID != "" {
				return nil, fmt.Errorf("email already linked to a different account")
			}
			if linkErr := s.userRepo.UpdateFirebaseUID(ctx, emailUser.ID, firebaseUID); linkErr != nil {
				return nil, fmt.Errorf("failed to link firebase account: %w", linkErr)
			}
			emailUser.FirebaseUID = firebaseUID
			existing = emailUser
			err = nil
		}
	}

	if err == nil && existing != nil {
		signed, err := s.GenerateToken(existing)
		if err != nil {
			return nil, fmt.Errorf("failed to generate token: %w", err)
		}
		return &LoginOrRegisterResponse{User: existing, Token: signed}, nil
	}

	if errors.Is(err, domain.ErrNotFound) {
		// New shopper: always a plain customer. Admin accounts are
		// provisioned out of band.
		newUser := &domain.User{
			FirebaseUID: firebaseUID,
			Email:       email,
			Name:        name,
			Roles:       []string{domain.RoleCustomer},
		}
		if err := s.userRepo.Create(ctx, newUser); err != nil {
			return nil, fmt.Errorf("failed to create user: %w", err)
		}

		signed, err := s.GenerateToken(newUser)
		if err != nil {
			return nil, fmt.Errorf("failed to generate token: %w", err)
		}
		return &LoginOrRegisterResponse{User: newUser, Token: signed, IsNewUser: true}, nil
	}

	return nil, fmt.Errorf("failed to fetch user: %w", err)
}

// GenerateToken creates a signed JWT with the user's roles
func (s *AuthService) GenerateToken(user *domain.User) (string, error) {
	claims := domain.SubBazarClaims{
		UserID: user.ID,
		Name:   user.Name,
		Email:  user.Email,
		Roles:  user.Roles,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.jwtConfig.TokenExpiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.jwtConfig.Secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}
