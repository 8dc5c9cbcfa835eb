package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"finsmart/internal/auth"
	"finsmart/internal/events"
	"finsmart/internal/logging"
	"finsmart/internal/models"
	"finsmart/internal/session"
	"finsmart/internal/storage"
)

// MinPasswordLength is the shortest password accepted at registration.
const MinPasswordLength = 6

// RegisterInput is the body of a registration request.
type RegisterInput struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email_address"`
	Password string `json:"password" validate:"required,min=6,bcrypt_max"`
}

var registerRules = []Rule{
	{Field: "Name", Tag: "required", Message: "All fields are required"},
	{Field: "Email", Tag: "required", Message: "All fields are required"},
	{Field: "Password", Tag: "required", Message: "All fields are required"},
	{Field: "Email", Tag: "email_address", Message: "Invalid email format"},
	{Field: "Password", Tag: "min", Message: fmt.Sprintf("Password must be at least %d characters", MinPasswordLength)},
	{Field: "Password", Tag: "bcrypt_max", Message: fmt.Sprintf("Password must be at most %d bytes", MaxPasswordBytes)},
}

func (in RegisterInput) normalized() RegisterInput {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	return in
}

// LoginInput is the body of a login request.
type LoginInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

var loginRules = []Rule{
	{Field: "Email", Message: "Email and password are required"},
	{Field: "Password", Message: "Email and password are required"},
}

// AuthResult identifies the user and the session established for them.
type AuthResult struct {
	UserID  int64
	Session models.Session
}

// AuthService implements registration, login and logout on top of the
// user store and the session manager.
type AuthService struct {
	users    storage.UserStore
	sessions *session.Manager
	events   events.Publisher

	// dummyHash is compared against on unknown emails.
	dummyHash string
}

// NewAuthService creates an AuthService.
func NewAuthService(users storage.UserStore, sessions *session.Manager, publisher events.Publisher) *AuthService {
	if publisher == nil {
		publisher = events.Nop{}
	}
	dummy, err := auth.HashPassword("finsmart-timing-equalizer")
	if err != nil {
		panic(fmt.Sprintf("hash timing-equalizer password: %v", err))
	}
	return &AuthService{users: users, sessions: sessions, events: publisher, dummyHash: dummy}
}

// ValidateRegistration checks registration input before anything is hashed or stored.
func ValidateRegistration(in RegisterInput) error {
	return Check(in.normalized(), registerRules)
}

// Register creates an account and logs it in.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	in = in.normalized()
	if err := Check(in, registerRules); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("%w: hash password: %v", ErrStore, err)
	}

	user, err := s.users.CreateUser(ctx, in.Name, in.Email, hash)
	if err != nil {
		if errors.Is(err, storage.ErrDuplicateEmail) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("%w: create user: %v", ErrStore, err)
	}

	sess, err := s.sessions.Create(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStore, err)
	}

	logging.FromContext(ctx).WithField("user_id", user.ID).Info("user registered")
	publish(ctx, s.events, events.New(events.UserRegistered, user.ID, user.ID))

	return &AuthResult{UserID: user.ID, Session: sess}, nil
}

// Login verifies credentials and opens a new session. An unknown email and a
// wrong password both yield ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	in.Email = strings.TrimSpace(in.Email)
	if err := Check(in, loginRules); err != nil {
		return nil, err
	}

	user, err := s.users.GetUserByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			// Spend the same bcrypt time as a real comparison.
			auth.CheckPassword(in.Password, s.dummyHash)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("%w: find user: %v", ErrStore, err)
	}

	if !auth.CheckPassword(in.Password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	sess, err := s.sessions.Create(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStore, err)
	}
	return &AuthResult{UserID: user.ID, Session: sess}, nil
}

// Logout destroys the session identified by token.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if err := s.sessions.Destroy(ctx, token); err != nil {
		return fmt.Errorf("%w: destroy session: %v", ErrSession, err)
	}
	return nil
}

// Authenticate resolves token to its user. Missing, expired and stale sessions
// all yield ErrUnauthorized.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	user, err := s.sessions.Resolve(ctx, token)
	if err != nil {
		if errors.Is(err, session.ErrNoSession) {
			return nil, ErrUnauthorized
		}
		return nil, fmt.Errorf("%w: %v", ErrStore, err)
	}
	return user, nil
}

// CheckAuth reports whether token identifies an active session. It never fails.
func (s *AuthService) CheckAuth(ctx context.Context, token string) bool {
	_, err := s.Authenticate(ctx, token)
	if err != nil && !errors.Is(err, ErrUnauthorized) {
		logging.FromContext(ctx).WithError(err).Warn("check-auth could not validate session")
	}
	return err == nil
}

func publish(ctx context.Context, p events.Publisher, e events.Event) {
	if err := p.Publish(ctx, e); err != nil {
		logging.FromContext(ctx).WithError(err).WithField("event", e.Type).Warn("event publish failed")
	}
}
