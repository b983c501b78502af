// File: internal/service/auth.go
package service

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"sweet-shop/internal/apperror"
	"sweet-shop/internal/database"
	"sweet-shop/internal/model"
	"sweet-shop/internal/store"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

const (
	MinPasswordLength = 6

	msgInvalidEmail    = "Invalid email format"
	msgShortPassword   = "Password must be at least 6 characters"
	msgNameRequired    = "Name is required"
	msgEmailExists     = "Email already exists"
	msgInvalidCreds    = "Invalid credentials"
	msgTooManyAttempts = "Too many login attempts, try again later"
	pgUniqueViolation  = "23505"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var (
	getUserByEmail = store.GetUserByEmail
	createUser     = store.CreateUser
)

// NormalizeEmail trims and lowercases an address. Every lookup and insert
// goes through it.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// AuthResult is a user together with a freshly issued token.
type AuthResult struct {
	User  *model.User
	Token string
}

type AuthService struct {
	db         database.DB
	tokens     *TokenManager
	bcryptCost int
	throttle   *LoginThrottle
	log        *zap.Logger
}

// NewAuthService wires the auth use cases. throttle may be nil.
func NewAuthService(db database.DB, tokens *TokenManager, bcryptCost int, throttle *LoginThrottle, log *zap.Logger) *AuthService {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthService{db: db, tokens: tokens, bcryptCost: bcryptCost, throttle: throttle, log: log}
}

// Register creates a regular user and signs them in.
func (s *AuthService) Register(ctx context.Context, email, password, name string) (*AuthResult, error) {
	u, err := s.createAccount(ctx, email, password, name, model.RoleUser)
	if err != nil {
		return nil, err
	}
	return s.issue(u)
}

// CreateAdmin creates an admin account. No HTTP route reaches it.
func (s *AuthService) CreateAdmin(ctx context.Context, email, password, name string) (*model.User, error) {
	return s.createAccount(ctx, email, password, name, model.RoleAdmin)
}

func (s *AuthService) createAccount(ctx context.Context, email, password, name string, role model.Role) (*model.User, error) {
	email = NormalizeEmail(email)
	name = strings.TrimSpace(name)
	if !ValidEmail(email) {
		return nil, apperror.Validation(msgInvalidEmail)
	}
	if len(password) < MinPasswordLength {
		return nil, apperror.Validation(msgShortPassword)
	}
	if name == "" {
		return nil, apperror.Validation(msgNameRequired)
	}

	_, err := getUserByEmail(ctx, s.db, email)
	switch {
	case err == nil:
		return nil, apperror.Conflict(msgEmailExists)
	case !errors.Is(err, pgx.ErrNoRows):
		return nil, s.internal("lookup user", err)
	}

	hash, err := HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, s.internal("hash password", err)
	}
	u, err := createUser(ctx, s.db, &model.User{
		Email:        email,
		PasswordHash: hash,
		Name:         name,
		Role:         role,
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, apperror.Conflict(msgEmailExists)
		}
		return nil, s.internal("create user", err)
	}
	return u, nil
}

// Login checks credentials. Unknown email and wrong password fail identically.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = NormalizeEmail(email)
	if s.throttle.Blocked(ctx, email) {
		return nil, apperror.TooManyRequests(msgTooManyAttempts)
	}

	u, err := getUserByEmail(ctx, s.db, email)
	if errors.Is(err, pgx.ErrNoRows) {
		s.throttle.Fail(ctx, email)
		return nil, apperror.Auth(msgInvalidCreds)
	}
	if err != nil {
		return nil, s.internal("lookup user", err)
	}
	if err := ComparePassword(u.PasswordHash, password); err != nil {
		s.throttle.Fail(ctx, email)
		return nil, apperror.Auth(msgInvalidCreds)
	}
	s.throttle.Reset(ctx, email)
	return s.issue(u)
}

func (s *AuthService) issue(u *model.User) (*AuthResult, error) {
	token, err := s.tokens.Issue(*u)
	if err != nil {
		return nil, s.internal("issue token", err)
	}
	return &AuthResult{User: u, Token: token}, nil
}

func (s *AuthService) internal(op string, err error) error {
	s.log.Error(op, zap.Error(err))
	return apperror.Internal(err)
}
