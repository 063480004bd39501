package services

import (
	"errors"
	"fmt"

	"restro_backend/internal/models"
	"restro_backend/internal/repositories"
	"restro_backend/pkg/utils"

	"golang.org/x/crypto/bcrypt"
)

// AuthService handles registration, login and token refresh for staff
// accounts.
type AuthService struct {
	txManager repositories.TxManager
	authRepo  repositories.AuthRepository
}

// NewAuthService creates a new AuthService.
func NewAuthService(txManager repositories.TxManager, authRepo repositories.AuthRepository) *AuthService {
	return &AuthService{txManager: txManager, authRepo: authRepo}
}

// RegisterRequest is the payload for creating a staff account. Empty optional
// fields are stored as NULL, not as empty strings.
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=100"`
	Password string `json:"password" binding:"required,min=8"`
	Email    string `json:"email" binding:"omitempty,email"`
	FullName string `json:"full_name"`
	RoleName string `json:"role_name" binding:"required,oneof=Admin Manager Staff"`
}

// LoginRequest is the payload for a credential login.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// TokenPair carries a fresh access/refresh token pair.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

const minPasswordLength = 8

// Register creates a new staff account with a bcrypt password hash. The
// invariants are enforced here as well as in the binding tags, so callers
// that bypass HTTP binding get the same checks.
func (s *AuthService) Register(req RegisterRequest) (*models.User, error) {
	if utils.IsEmpty(req.Username) {
		return nil, fmt.Errorf("%w: username is required", ErrValidation)
	}
	if !utils.IsValidPasswordLength(req.Password, minPasswordLength) {
		return nil, fmt.Errorf("%w: password must be at least %d characters", ErrValidation, minPasswordLength)
	}
	if !utils.IsEmpty(req.Email) && !utils.IsValidEmail(req.Email) {
		return nil, fmt.Errorf("%w: invalid email address", ErrValidation)
	}

	role, err := s.authRepo.GetRoleByName(req.RoleName)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: unknown role '%s'", ErrValidation, req.RoleName)
		}
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user := &models.User{
		Username:     req.Username,
		PasswordHash: string(hash),
		Email:        utils.NewNullString(req.Email),
		FullName:     utils.NewNullString(req.FullName),
		RoleID:       &role.ID,
		IsActive:     true,
	}

	err = s.txManager.WithTransaction(func(executor repositories.SQLExecutor) error {
		_, err := s.authRepo.CreateUser(executor, user)
		return err
	})
	if err != nil {
		return nil, err
	}
	user.Role = role

	utils.LogInfo(fmt.Sprintf("user registered: %s (role %s)", user.Username, role.Name))
	return user, nil
}

// Login verifies credentials and issues a token pair.
func (s *AuthService) Login(req LoginRequest) (*models.User, *TokenPair, error) {
	user, err := s.authRepo.GetUserByUsername(req.Username)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, nil, fmt.Errorf("%w: invalid username or password", ErrUnauthorized)
		}
		return nil, nil, err
	}
	if !user.IsActive {
		return nil, nil, fmt.Errorf("%w: account is disabled", ErrUnauthorized)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, nil, fmt.Errorf("%w: invalid username or password", ErrUnauthorized)
	}

	pair, err := s.issueTokens(user)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// RefreshTokens validates a refresh token and issues a new pair.
func (s *AuthService) RefreshTokens(refreshToken string) (*TokenPair, error) {
	claims, err := utils.ValidateToken(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid refresh token", ErrUnauthorized)
	}

	user, err := s.authRepo.GetUserByID(claims.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: account no longer exists", ErrUnauthorized)
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, fmt.Errorf("%w: account is disabled", ErrUnauthorized)
	}
	return s.issueTokens(user)
}

// GetUserByID fetches one staff account with its role.
func (s *AuthService) GetUserByID(id int64) (*models.User, error) {
	return s.authRepo.GetUserByID(id)
}

// GetUsers lists staff accounts.
func (s *AuthService) GetUsers(page, pageSize int) ([]models.User, int, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	return s.authRepo.GetUsers(page, pageSize)
}

// SetUserActive enables or disables a staff account.
func (s *AuthService) SetUserActive(userID int64, active bool) error {
	return s.txManager.WithTransaction(func(executor repositories.SQLExecutor) error {
		return s.authRepo.SetUserActive(executor, userID, active)
	})
}

func (s *AuthService) issueTokens(user *models.User) (*TokenPair, error) {
	roleName := ""
	if user.Role != nil {
		roleName = user.Role.Name
	}

	accessToken, err := utils.GenerateAccessToken(user.ID, user.Username, roleName)
	if err != nil {
		return nil, err
	}
	refreshToken, err := utils.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}
