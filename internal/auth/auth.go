// Package auth implements email/password accounts and revocable session tokens.
//
// A token is an HS256 JWT whose jti is the id of a stored session. Signing out
// deletes the session, which invalidates the token before it expires.
package auth

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/julianstephens/ogtodo/internal/constants"
	apperrors "github.com/julianstephens/ogtodo/internal/errors"
	"github.com/julianstephens/ogtodo/internal/logger"
	"github.com/julianstephens/ogtodo/internal/models"
)

type Store interface {
	CreateUser(ctx context.Context, user models.User) error
	GetUser(ctx context.Context, id string) (models.User, error)
	GetUserByEmail(ctx context.Context, email string) (models.User, error)
	CreateSession(ctx context.Context, session models.Session) error
	GetSession(ctx context.Context, id string) (models.Session, error)
	DeleteSession(ctx context.Context, id string) error
}

// Claims is the JWT payload. ID (jti) carries the session id.
type Claims struct {
	UserID string `json:"uid"`
	jwt.RegisteredClaims
}

type Token struct {
	Value     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type Service struct {
	store  Store
	secret []byte
	ttl    time.Duration
	now    func() time.Time
	cost   int
}

type Option func(*Service)

func WithTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithBcryptCost sets the hashing cost. Tests use bcrypt.MinCost.
func WithBcryptCost(cost int) Option {
	return func(s *Service) { s.cost = cost }
}

func NewService(store Store, secret []byte, opts ...Option) (*Service, error) {
	if len(secret) < 32 {
		return nil, fmt.Errorf("jwt secret must be at least 32 bytes, got %d", len(secret))
	}
	s := &Service{
		store:  store,
		secret: secret,
		ttl:    constants.DefaultSessionTTL,
		now:    time.Now,
		cost:   bcrypt.DefaultCost,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

var errInvalidCredentials = apperrors.Unauthorized("auth.invalid_credentials", "invalid email or password")

func errInvalidToken(err error) error {
	return &apperrors.DomainError{
		Kind:    apperrors.ErrUnauthorized,
		Key:     "auth.invalid_token",
		Message: "invalid or expired session",
		Err:     err,
	}
}

// NormalizeEmail trims and lowercases an address and checks its shape.
func NormalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", apperrors.Validation("auth.email_required", "email is required")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", apperrors.Validation("auth.invalid_email", "invalid email address")
	}
	return email, nil
}

// HashPassword validates the password length and returns its bcrypt hash.
func HashPassword(password string, cost int) (string, error) {
	if len(password) < constants.MinPasswordLength {
		return "", apperrors.Validation("auth.password_too_short",
			fmt.Sprintf("password must be at least %d characters", constants.MinPasswordLength))
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// Cost returns the bcrypt cost the service hashes with.
func (s *Service) Cost() int {
	return s.cost
}

// SignUp creates an account and signs it in.
func (s *Service) SignUp(ctx context.Context, name, email, password string) (models.User, Token, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.User{}, Token{}, apperrors.Validation("auth.name_required", "name is required")
	}
	email, err := NormalizeEmail(email)
	if err != nil {
		return models.User{}, Token{}, err
	}
	hash, err := HashPassword(password, s.cost)
	if err != nil {
		return models.User{}, Token{}, err
	}

	now := s.now().UTC()
	user := models.User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		return models.User{}, Token{}, err
	}
	logger.Info("User signed up", "user", user.ID)

	token, err := s.issue(ctx, user.ID)
	if err != nil {
		return models.User{}, Token{}, err
	}
	return user, token, nil
}

func (s *Service) SignIn(ctx context.Context, email, password string) (models.User, Token, error) {
	email, err := NormalizeEmail(email)
	if err != nil {
		return models.User{}, Token{}, errInvalidCredentials
	}
	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return models.User{}, Token{}, errInvalidCredentials
		}
		return models.User{}, Token{}, fmt.Errorf("looking up user: %w", err)
	}
	if !CheckPassword(user.PasswordHash, password) {
		return models.User{}, Token{}, errInvalidCredentials
	}

	token, err := s.issue(ctx, user.ID)
	if err != nil {
		return models.User{}, Token{}, err
	}
	return user, token, nil
}

// SignOut revokes the session behind token. Unknown sessions are not an error.
func (s *Service) SignOut(ctx context.Context, token string) error {
	claims, err := s.parse(token)
	if err != nil {
		return err
	}
	if err := s.store.DeleteSession(ctx, claims.ID); err != nil && !apperrors.Is(err, apperrors.ErrNotFound) {
		return fmt.Errorf("deleting session: %w", err)
	}
	return nil
}

// Authenticate resolves a bearer token to its user and live session.
func (s *Service) Authenticate(ctx context.Context, token string) (models.User, models.Session, error) {
	claims, err := s.parse(token)
	if err != nil {
		return models.User{}, models.Session{}, err
	}
	session, err := s.store.GetSession(ctx, claims.ID)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return models.User{}, models.Session{}, errInvalidToken(err)
		}
		return models.User{}, models.Session{}, fmt.Errorf("loading session: %w", err)
	}
	if session.UserID != claims.UserID || session.Expired(s.now()) {
		return models.User{}, models.Session{}, errInvalidToken(nil)
	}
	user, err := s.store.GetUser(ctx, session.UserID)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return models.User{}, models.Session{}, errInvalidToken(err)
		}
		return models.User{}, models.Session{}, fmt.Errorf("loading user: %w", err)
	}
	return user, session, nil
}

func (s *Service) issue(ctx context.Context, userID string) (Token, error) {
	now := s.now().UTC()
	session := models.Session{
		ID:        uuid.New().String(),
		UserID:    userID,
		ExpiresAt: now.Add(s.ttl),
		CreatedAt: now,
	}
	if err := s.store.CreateSession(ctx, session); err != nil {
		return Token{}, fmt.Errorf("creating session: %w", err)
	}

	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        session.ID,
			Subject:   userID,
			Issuer:    constants.AppName,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return Token{}, fmt.Errorf("signing token: %w", err)
	}
	return Token{Value: signed, ExpiresAt: session.ExpiresAt}, nil
}

func (s *Service) parse(token string) (*Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, apperrors.Unauthorized("auth.required", "sign in required")
	}
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(constants.AppName),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, errInvalidToken(err)
	}
	if claims.ID == "" || claims.UserID == "" {
		return nil, errInvalidToken(nil)
	}
	return claims, nil
}
