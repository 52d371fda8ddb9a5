package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"restaurant-site/pkg/logger"
	"restaurant-site/pkg/metrics"
	"restaurant-site/pkg/models"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrMissingCredentials = errors.New("username and password are required")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("invalid token")
)

type UserRepository interface {
	FindByUsername(ctx context.Context, username string) (models.User, error)
	CreateUser(ctx context.Context, username, passwordHash string) (int64, error)
}

// Identity is the authenticated subject of a request.
type Identity struct {
	ID       int64
	Username string
}

// Claims is the payload of an access token.
type Claims struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

type AuthService struct {
	repo    UserRepository
	secret  []byte
	ttl     time.Duration
	now     func() time.Time
	metrics *metrics.Metrics
	logger  *logger.Logger
}

type Option func(*AuthService)

// WithClock replaces time.Now for issuing and checking tokens.
func WithClock(now func() time.Time) Option {
	return func(s *AuthService) {
		s.now = now
	}
}

func NewAuthService(repo UserRepository, secret string, ttl time.Duration, m *metrics.Metrics, logger *logger.Logger, opts ...Option) *AuthService {
	s := &AuthService{
		repo:    repo,
		secret:  []byte(secret),
		ttl:     ttl,
		now:     time.Now,
		metrics: m,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Login checks the credentials and issues a signed access token.
func (s *AuthService) Login(ctx context.Context, username, password, requestID string) (string, error) {
	log := s.logger.RequestID(requestID).Action("login")

	if username == "" || password == "" {
		s.metrics.LoginAttempts.WithLabelValues("missing").Inc()
		return "", ErrMissingCredentials
	}

	user, err := s.repo.FindByUsername(ctx, username)
	if errors.Is(err, models.ErrNotFound) {
		s.metrics.LoginAttempts.WithLabelValues("rejected").Inc()
		log.Debug("Unknown username", "username", username)
		return "", ErrInvalidCredentials
	}
	if err != nil {
		s.metrics.LoginAttempts.WithLabelValues("error").Inc()
		log.Error("Error during login", err)
		return "", fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		s.metrics.LoginAttempts.WithLabelValues("rejected").Inc()
		log.Debug("Password mismatch", "username", username)
		return "", ErrInvalidCredentials
	}

	token, err := s.issue(user)
	if err != nil {
		s.metrics.LoginAttempts.WithLabelValues("error").Inc()
		log.Error("Failed to sign token", err)
		return "", err
	}

	s.metrics.LoginAttempts.WithLabelValues("success").Inc()
	log.Info("User logged in", "user_id", user.ID)
	return token, nil
}

func (s *AuthService) issue(user models.User) (string, error) {
	now := s.now()
	claims := Claims{
		ID:       user.ID,
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Authenticate verifies the signature and expiry of token.
func (s *AuthService) Authenticate(token string) (Identity, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return Identity{}, ErrInvalidToken
	}
	return Identity{ID: claims.ID, Username: claims.Username}, nil
}

// CreateUser hashes password and stores a new user.
func (s *AuthService) CreateUser(ctx context.Context, username, password string) (int64, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return 0, ErrMissingCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return 0, fmt.Errorf("failed to hash password: %w", err)
	}

	id, err := s.repo.CreateUser(ctx, username, string(hash))
	if err != nil {
		return 0, err
	}
	s.logger.Action("user_created").Info("User created", "user_id", id, "username", username)
	return id, nil
}
