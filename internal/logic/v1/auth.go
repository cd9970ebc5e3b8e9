package v1

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/crypto/bcrypt"

	"github.com/duynhne/customer-service/internal/core/domain"
	"github.com/duynhne/customer-service/middleware"
)

// AuthService issues and verifies bearer tokens for user accounts.
// Passwords are stored as bcrypt hashes; tokens are HS256 JWTs
// carrying the user id, email and roles.
type AuthService struct {
	users     domain.UserRepository
	secretKey []byte
	tokenTTL  time.Duration
}

// NewAuthService creates a new auth service
func NewAuthService(users domain.UserRepository, secretKey string, tokenTTL time.Duration) *AuthService {
	return &AuthService{
		users:     users,
		secretKey: []byte(secretKey),
		tokenTTL:  tokenTTL,
	}
}

type tokenClaims struct {
	Email string   `json:"email"`
	Roles []string `json:"roles"`
	jwt.RegisteredClaims
}

// Login verifies the credentials and returns a signed access token
// together with the authenticated user. A missing user and a wrong
// password both surface as domain.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	ctx, span := middleware.StartSpan(ctx, "auth.login", trace.WithAttributes(
		attribute.String("layer", "logic"),
	))
	defer span.End()

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			span.SetAttributes(attribute.Bool("auth.success", false))
			return "", nil, fmt.Errorf("login %q: %w", email, domain.ErrInvalidCredentials)
		}
		span.RecordError(err)
		return "", nil, fmt.Errorf("login %q: %w", email, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		span.SetAttributes(attribute.Bool("auth.success", false))
		return "", nil, fmt.Errorf("login %q: %w", email, domain.ErrInvalidCredentials)
	}

	now := time.Now()
	claims := tokenClaims{
		Email: user.Email,
		Roles: user.Roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.Itoa(user.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secretKey)
	if err != nil {
		span.RecordError(err)
		return "", nil, fmt.Errorf("sign token: %w", err)
	}

	span.SetAttributes(attribute.Bool("auth.success", true))
	return token, user, nil
}

// VerifyToken parses and validates a bearer token and returns the
// principal it carries.
func (s *AuthService) VerifyToken(tokenString string) (domain.Principal, error) {
	claims := &tokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secretKey, nil
	})
	if err != nil {
		return domain.Principal{}, fmt.Errorf("parse token: %w", err)
	}
	if !token.Valid {
		return domain.Principal{}, errors.New("invalid token")
	}

	id, err := strconv.Atoi(claims.Subject)
	if err != nil {
		return domain.Principal{}, fmt.Errorf("invalid token subject %q: %w", claims.Subject, err)
	}

	return domain.Principal{ID: id, Email: claims.Email, Roles: claims.Roles}, nil
}

// SeedUsers creates the default admin and regular accounts when they
// do not exist yet. Passwords are bcrypt-hashed before insert.
func (s *AuthService) SeedUsers(ctx context.Context) error {
	defaults := []struct {
		email    string
		password string
		roles    []string
	}{
		{"admin@email.com", "admin_password", []string{domain.RoleAdmin, domain.RoleUser}},
		{"user@email.com", "user_password", []string{domain.RoleUser}},
	}

	for _, d := range defaults {
		_, err := s.users.FindByEmail(ctx, d.email)
		if err == nil {
			continue
		}
		if !errors.Is(err, domain.ErrUserNotFound) {
			return fmt.Errorf("check seed user %q: %w", d.email, err)
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(d.password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash seed password: %w", err)
		}

		user := &domain.User{Email: d.email, Roles: d.roles, Password: string(hash)}
		if err := s.users.Create(ctx, user); err != nil {
			return fmt.Errorf("create seed user %q: %w", d.email, err)
		}
	}

	return nil
}
