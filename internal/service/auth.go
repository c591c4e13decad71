package service

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"golang.org/x/crypto/bcrypt"

	"github.com/KevinOrellana26/acme-dashboard/internal/domain"
)

var tracer = otel.Tracer("auth")

// UserRepository is the credential lookup the auth service delegates to.
type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (domain.User, error)
}

type AuthService struct {
	config domain.Config
	users  UserRepository
}

func NewAuthService(
	config domain.Config,
	users UserRepository,
) *AuthService {
	return &AuthService{
		config: config,
		users:  users,
	}
}

// SignIn verifies the credential pair and returns a session token on
// success. Recognized failures come back as domain.AuthError; anything
// else is propagated as-is for the caller to re-raise.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (string, error) {
	ctx, span := tracer.Start(ctx, "Auth.Service.SignIn")
	defer span.End()

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", domain.AuthError{Kind: domain.AuthErrorInvalidCredentials, Err: err}
		}
		span.RecordError(errors.Wrap(err, "user lookup failed"))
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", domain.AuthError{Kind: domain.AuthErrorInvalidCredentials, Err: err}
	}

	token, err := s.issueSession(user)
	if err != nil {
		span.RecordError(errors.Wrap(err, "session token issue failed"))
		return "", domain.AuthError{Kind: domain.AuthErrorSession, Err: err}
	}

	return token, nil
}

func (s *AuthService) issueSession(user domain.User) (string, error) {
	ttl := time.Duration(s.config.SessionTTLHours) * time.Hour
	claims := jwt.MapClaims{
		"sub": user.ID,
		"exp": time.Now().Add(ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.SessionSecret))
}

// ParseSession validates a session token and returns the user id it
// was issued for.
func (s *AuthService) ParseSession(token string) (string, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.config.SessionSecret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return "", err
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return "", fmt.Errorf("invalid session claims")
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return "", fmt.Errorf("session token without subject")
	}

	return sub, nil
}
