package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/sportshub/sports-community/models"
	"github.com/sportshub/sports-community/repositories"
	"github.com/sportshub/sports-community/utils"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

// ExternalIdentity - проверенный профиль внешнего OAuth-провайдера.
// Email может быть синтезирован из внешнего идентификатора, если провайдер
// его не отдаёт.
type ExternalIdentity struct {
	OpenID string
	Name   string
	Email  string
	Avatar string
}

type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*models.User, error)
	Login(ctx context.Context, input LoginInput) (*models.User, error)

	// ResolveExternalIdentity находит пользователя по внешнему идентификатору
	// (вторично - по email) и обновляет профиль свежими данными провайдера,
	// либо создаёт нового. Ошибка персистентности прерывает вход целиком.
	ResolveExternalIdentity(ctx context.Context, identity ExternalIdentity) (*models.User, error)
}

type authService struct {
	userRepo repositories.UserRepository
}

func NewAuthService(userRepo repositories.UserRepository) AuthService {
	return &authService{userRepo: userRepo}
}

func (s *authService) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	if input.Name == "" || input.Email == "" || input.Password == "" {
		return nil, fmt.Errorf("%w: name, email and password are required", ErrValidationFailed)
	}
	if !utils.IsValidEmail(input.Email) {
		return nil, fmt.Errorf("%w: malformed email", ErrValidationFailed)
	}
	if len(input.Password) < minPasswordLength {
		return nil, ErrPasswordTooShort
	}

	hash, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Name:         input.Name,
		Email:        &input.Email,
		PasswordHash: &hash,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrUserEmailConflict) {
			return nil, ErrUserEmailConflict
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

func (s *authService) Login(ctx context.Context, input LoginInput) (*models.User, error) {
	if input.Email == "" || input.Password == "" {
		return nil, ErrAuthInvalidCredentials
	}

	user, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrAuthInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}

	// Пользователи, созданные через OAuth, не имеют пароля.
	if user.PasswordHash == nil {
		return nil, ErrAuthInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(input.Password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, ErrAuthInvalidCredentials
		}
		return nil, fmt.Errorf("failed to compare password hash: %w", err)
	}

	return user, nil
}

func (s *authService) ResolveExternalIdentity(ctx context.Context, identity ExternalIdentity) (*models.User, error) {
	if identity.OpenID == "" {
		return nil, fmt.Errorf("%w: external id is required", ErrValidationFailed)
	}

	user, err := s.userRepo.GetByWechatOpenID(ctx, identity.OpenID)
	if err != nil && !errors.Is(err, repositories.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to find user by external id: %w", err)
	}

	if user == nil && identity.Email != "" {
		user, err = s.userRepo.GetByEmail(ctx, identity.Email)
		if err != nil && !errors.Is(err, repositories.ErrUserNotFound) {
			return nil, fmt.Errorf("failed to find user by email: %w", err)
		}
	}

	if user != nil {
		// Обновляем изменяемые поля профиля свежими данными провайдера.
		if identity.Name != "" {
			user.Name = identity.Name
		}
		if identity.Avatar != "" {
			user.Avatar = identity.Avatar
		}
		openID := identity.OpenID
		user.WechatOpenID = &openID
		if err := s.userRepo.Update(ctx, user); err != nil {
			return nil, fmt.Errorf("failed to refresh user profile: %w", err)
		}
		return user, nil
	}

	name := identity.Name
	if name == "" {
		name = "WeChat user"
	}
	openID := identity.OpenID
	user = &models.User{
		Name:         name,
		Avatar:       identity.Avatar,
		WechatOpenID: &openID,
	}
	if identity.Email != "" {
		email := identity.Email
		user.Email = &email
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user from external identity: %w", err)
	}
	return user, nil
}
