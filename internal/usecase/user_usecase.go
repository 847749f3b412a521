package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"legerity_service/internal/auth"
	"legerity_service/internal/domain"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

var _ domain.UserUseCase = (*userUseCase)(nil)

// TokenManager is the part of auth.JWTManager the identity flows need.
type TokenManager interface {
	GenerateAccessToken(userID int64) (string, error)
	GenerateRefreshToken(userID int64) (string, error)
	ValidateRefreshToken(token string) (*auth.Claims, error)
}

type userUseCase struct {
	userRepo   domain.UserRepository
	tokens     TokenManager
	bcryptCost int
	log        *logrus.Logger
}

func NewUserUseCase(repo domain.UserRepository, tokens TokenManager, logger *logrus.Logger) domain.UserUseCase {
	return &userUseCase{
		userRepo:   repo,
		tokens:     tokens,
		bcryptCost: bcrypt.DefaultCost,
		log:        logger,
	}
}

func (uc *userUseCase) Register(ctx context.Context, input domain.RegisterInput) (*domain.User, error) {
	fullname := strings.TrimSpace(input.Fullname)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	uc.log.Infof("Use Case: Attempting registration for email: %s", email)

	if fullname == "" {
		uc.log.Warn("Use Case: Registration failed - empty fullname")
		return nil, domain.NewValidationError("fullname", "This field is required")
	}
	if !isValidEmail(email) {
		uc.log.Warnf("Use Case: Registration failed - invalid email format: %s", email)
		return nil, domain.NewValidationError("email", "Enter a valid email address.")
	}
	if err := validatePassword(input.Password); err != nil {
		uc.log.Warnf("Use Case: Registration failed - password validation error: %v", err)
		return nil, domain.NewValidationError("password", err.Error())
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), uc.bcryptCost)
	if err != nil {
		uc.log.Errorf("Use Case: Failed to hash password for %s: %v", email, err)
		return nil, fmt.Errorf("internal error processing password: %w", err)
	}

	user, err := uc.userRepo.CreateUser(ctx, &domain.User{
		Email:        email,
		Fullname:     fullname,
		PasswordHash: string(hashedPassword),
		IsActive:     true,
	})
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to create user %s: %v", email, err)
		return nil, err
	}

	uc.log.Infof("Use Case: User registered successfully. ID: %d, Email: %s", user.ID, user.Email)
	return user, nil
}

func (uc *userUseCase) Login(ctx context.Context, email, password string) (*domain.TokenPair, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	uc.log.Infof("Use Case: Attempting authentication for email: %s", email)

	if email == "" || password == "" {
		return nil, domain.NewValidationError("", "Email and password are required")
	}

	user, err := uc.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			uc.log.Warnf("Use Case: Auth failed - user not found: %s", email)
			return nil, domain.ErrInvalidCredentials
		}
		uc.log.Errorf("Use Case: Error retrieving user %s during auth: %v", email, err)
		return nil, fmt.Errorf("failed to retrieve user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			uc.log.Warnf("Use Case: Auth failed - incorrect password for user %s (ID: %d)", email, user.ID)
			return nil, domain.ErrInvalidCredentials
		}
		uc.log.Errorf("Use Case: Error comparing password hash for user %s: %v", email, err)
		return nil, fmt.Errorf("internal error during authentication: %w", err)
	}
	if !user.IsActive {
		uc.log.Warnf("Use Case: Auth failed - inactive user %d", user.ID)
		return nil, domain.Unauthorized("User account is disabled")
	}

	access, err := uc.tokens.GenerateAccessToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue access token: %w", err)
	}
	refresh, err := uc.tokens.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue refresh token: %w", err)
	}

	uc.log.Infof("Use Case: Authentication successful for user %s (ID: %d)", email, user.ID)
	return &domain.TokenPair{Access: access, Refresh: refresh}, nil
}

func (uc *userUseCase) RefreshAccessToken(ctx context.Context, refreshToken string) (string, error) {
	if refreshToken == "" {
		return "", domain.NewValidationError("refresh", "This field is required")
	}

	claims, err := uc.tokens.ValidateRefreshToken(refreshToken)
	if err != nil {
		uc.log.Warnf("Use Case: Refresh rejected: %v", err)
		return "", domain.Unauthorized("Token is invalid or expired")
	}

	user, err := uc.userRepo.GetUserByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", domain.Unauthorized("User not found")
		}
		return "", err
	}
	if !user.IsActive {
		return "", domain.Unauthorized("User account is disabled")
	}

	access, err := uc.tokens.GenerateAccessToken(user.ID)
	if err != nil {
		return "", fmt.Errorf("failed to issue access token: %w", err)
	}
	uc.log.Infof("Use Case: Access token refreshed for user %d", user.ID)
	return access, nil
}

func isValidEmail(email string) bool {
	parts := strings.Split(email, "@")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return false
	}
	domainParts := strings.Split(parts[1], ".")
	return len(domainParts) >= 2 && domainParts[0] != "" && domainParts[len(domainParts)-1] != ""
}

func validatePassword(password string) error {
	if len(password) < 8 {
		return errors.New("password must be at least 8 characters long")
	}
	var hasUpper, hasLower, hasDigit bool
	for _, char := range password {
		switch {
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsLower(char):
			hasLower = true
		case unicode.IsDigit(char):
			hasDigit = true
		}
	}
	switch {
	case !hasUpper:
		return errors.New("password must contain at least one uppercase letter")
	case !hasLower:
		return errors.New("password must contain at least one lowercase letter")
	case !hasDigit:
		return errors.New("password must contain at least one digit")
	}
	return nil
}
