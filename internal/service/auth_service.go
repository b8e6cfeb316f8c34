package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"expense_manager/internal/model"
	"expense_manager/internal/repository"
	"expense_manager/internal/utils"
)

// Loose shape check; the real gate is the unique index and bcrypt.
var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

const minPasswordLength = 6

// AuthService provides authentication related services
type AuthService interface {
	Register(ctx context.Context, name, email, password string) (*model.User, string, error)
	Login(ctx context.Context, email, password string) (*model.User, string, error)
}

type authService struct {
	userRepo repository.UserRepository
	jwtUtil  *utils.JWTUtil
	// initialAdminEmail, when non-empty, grants the admin role to the first
	// registration with that address (case-insensitive).
	initialAdminEmail string
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo repository.UserRepository, jwtUtil *utils.JWTUtil, initialAdminEmail string) AuthService {
	return &authService{
		userRepo:          userRepo,
		jwtUtil:           jwtUtil,
		initialAdminEmail: initialAdminEmail,
	}
}

// ValidateUserFields checks name/email/password format constraints shared by
// registration and admin-initiated creation. An empty password is only valid
// on paths that do not change the password.
func ValidateUserFields(name, email, password string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if !emailPattern.MatchString(email) {
		return fmt.Errorf("%w: invalid email format", ErrValidation)
	}
	if len(password) < minPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", ErrValidation, minPasswordLength)
	}
	return nil
}

// Register creates a new user account
func (s *authService) Register(ctx context.Context, name, email, password string) (*model.User, string, error) {
	if err := ValidateUserFields(name, email, password); err != nil {
		return nil, "", err
	}

	ctx, cancel := storeCtx(ctx)
	defer cancel()

	existingUser, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, "", fmt.Errorf("%w: failed to check existing user: %v", ErrStoreUnavailable, err)
	}
	if existingUser != nil {
		return nil, "", ErrDuplicateEmail
	}

	hashedPassword, err := utils.HashPassword(password)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	userRole := model.RoleUser // Default role

	if s.initialAdminEmail != "" && strings.EqualFold(email, s.initialAdminEmail) {
		userRole = model.RoleAdmin
		log.Printf("INFO: User %s is being registered as ADMIN via the initial admin email.", email)
	}

	user := &model.User{
		Name:         strings.TrimSpace(name),
		Email:        email,
		PasswordHash: hashedPassword,
		Role:         userRole,
		CreatedAt:    time.Now(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// The unique index can still fire under a concurrent registration
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, "", ErrDuplicateEmail
		}
		return nil, "", fmt.Errorf("%w: failed to create user: %v", ErrStoreUnavailable, err)
	}

	token, err := s.jwtUtil.GenerateToken(user.ID, user.Role)
	if err != nil {
		log.Printf("ERROR: User %s (ID: %d) created, but failed to generate token: %v", user.Email, user.ID, err)
		return user, "", fmt.Errorf("user created, but failed to generate token: %w", err)
	}

	return user, token, nil
}

// Login authenticates a user and returns a JWT token
func (s *authService) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	ctx, cancel := storeCtx(ctx)
	defer cancel()

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, "", fmt.Errorf("%w: error finding user by email: %v", ErrStoreUnavailable, err)
	}
	if user == nil {
		return nil, "", ErrInvalidCredentials // User not found
	}

	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, "", ErrInvalidCredentials // Password mismatch
	}

	token, err := s.jwtUtil.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	return user, token, nil
}
