package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/tripflow/tripflow/internal/app/models"
	"github.com/tripflow/tripflow/internal/pkg/config"
)

var _ Service = (*ServiceImpl)(nil)

// Claims is the bearer-token payload.
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// Service is the account and token business logic.
type Service interface {
	Register(ctx context.Context, name, email, password string) (token string, user *models.UserAuth, err error)
	Login(ctx context.Context, email, password string) (token string, user *models.UserAuth, err error)
	ValidateToken(tokenString string) (*Claims, error)
}

type ServiceImpl struct {
	repo   Repository
	cfg    config.AuthConfig
	logger *zap.Logger
}

func NewService(repo Repository, cfg config.AuthConfig, logger *zap.Logger) *ServiceImpl {
	return &ServiceImpl{repo: repo, cfg: cfg, logger: logger}
}

func (s *ServiceImpl) Register(ctx context.Context, name, email, password string) (string, *models.UserAuth, error) {
	ctx, span := otel.Tracer("AuthService").Start(ctx, "Register")
	defer span.End()
	span.SetAttributes(attribute.String("user.email", email))

	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" || email == "" || len(password) < 6 {
		return "", nil, fmt.Errorf("name, email and a password of at least 6 characters are required: %w", models.ErrInvalidInput)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", nil, fmt.Errorf("hashing password: %w", err)
	}

	user, err := s.repo.CreateUser(ctx, name, email, string(hash))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "User creation failed")
		return "", nil, err
	}

	token, err := s.generateToken(user)
	if err != nil {
		return "", nil, err
	}

	s.logger.Info("User registered", zap.String("email", email))
	span.SetStatus(codes.Ok, "Registered")
	return token, user, nil
}

func (s *ServiceImpl) Login(ctx context.Context, email, password string) (string, *models.UserAuth, error) {
	ctx, span := otel.Tracer("AuthService").Start(ctx, "Login")
	defer span.End()

	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		// Do not reveal whether the account exists.
		s.logger.Warn("Login lookup failed", zap.String("email", email))
		return "", nil, fmt.Errorf("invalid credentials: %w", models.ErrUnauthenticated)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.logger.Warn("Password comparison failed", zap.String("email", email))
		return "", nil, fmt.Errorf("invalid credentials: %w", models.ErrUnauthenticated)
	}

	token, err := s.generateToken(user)
	if err != nil {
		return "", nil, err
	}

	span.SetStatus(codes.Ok, "Logged in")
	return token, user, nil
}

func (s *ServiceImpl) generateToken(user *models.UserAuth) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: user.ID.String(),
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.TokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		s.logger.Error("Failed to sign token", zap.Error(err))
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return signed, nil
}

// ValidateToken parses and verifies a bearer token, rejecting non-HMAC
// signing methods.
func (s *ServiceImpl) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrUnauthenticated, err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token: %w", models.ErrUnauthenticated)
	}
	return claims, nil
}
