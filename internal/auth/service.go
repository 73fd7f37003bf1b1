package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/openshophq/openshop-backend/internal/users"
	pkgAuth "github.com/openshophq/openshop-backend/pkg/auth"
	"github.com/openshophq/openshop-backend/pkg/config"
	"github.com/openshophq/openshop-backend/pkg/db"
	"github.com/openshophq/openshop-backend/pkg/db/models"
	"github.com/openshophq/openshop-backend/pkg/enums"
	pkgerrors "github.com/openshophq/openshop-backend/pkg/errors"
	"github.com/openshophq/openshop-backend/pkg/security"
)

const (
	invalidCredentialsMessage = "invalid credentials"
	tokenTypeBearer           = "Bearer"
)

// Service defines the behavior needed by the auth controller.
type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, req LoginRequest) (*AuthResponse, error)
	Profile(ctx context.Context, userID uuid.UUID) (*users.UserDTO, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req UpdateProfileRequest) (*users.UserDTO, error)
}

type userRepository interface {
	Create(ctx context.Context, dto users.CreateUserDTO) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, dto users.UpdateProfileDTO) (*models.User, error)
}

type service struct {
	users       userRepository
	jwtCfg      config.JWTConfig
	passwordCfg config.PasswordConfig
}

// ServiceParams bundles the dependencies required to build an auth service.
type ServiceParams struct {
	UserRepo       userRepository
	JWTConfig      config.JWTConfig
	PasswordConfig config.PasswordConfig
}

// NewService constructs an auth service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.UserRepo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	return &service{
		users:       params.UserRepo,
		jwtCfg:      params.JWTConfig,
		passwordCfg: params.PasswordConfig,
	}, nil
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}

	hash, err := security.HashPassword(req.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	userType := enums.UserTypeCustomer
	if req.Type != "" {
		parsed, parseErr := enums.ParseUserType(req.Type)
		if parseErr != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid account type")
		}
		if parsed == enums.UserTypeAdmin || parsed == enums.UserTypeArchived {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid account type")
		}
		userType = parsed
	}

	user, err := s.users.Create(ctx, users.CreateUserDTO{
		Email:         email,
		PasswordHash:  hash,
		FirstName:     strings.TrimSpace(req.FirstName),
		MiddleName:    strings.TrimSpace(req.MiddleName),
		LastName:      strings.TrimSpace(req.LastName),
		Phone1:        strings.TrimSpace(req.Phone1),
		Phone2:        strings.TrimSpace(req.Phone2),
		Gender:        enums.Gender(req.Gender),
		Title:         enums.Title(req.Title),
		MaritalStatus: enums.MaritalStatus(req.MaritalStatus),
		Address1:      strings.TrimSpace(req.Address1),
		Address2:      strings.TrimSpace(req.Address2),
		Type:          userType,
	})
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create user")
	}

	return s.issueToken(user)
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	input := strings.TrimSpace(req.Email)
	if input == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	user, err := s.users.FindByEmail(ctx, strings.ToLower(input))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}

	valid, err := security.VerifyPassword(req.Password, user.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !valid || !user.IsActive || user.Type == enums.UserTypeArchived {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	return s.issueToken(user)
}

func (s *service) Profile(ctx context.Context, userID uuid.UUID) (*users.UserDTO, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "account not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load profile")
	}
	return users.FromModel(user), nil
}

func (s *service) UpdateProfile(ctx context.Context, userID uuid.UUID, req UpdateProfileRequest) (*users.UserDTO, error) {
	dto := users.UpdateProfileDTO{
		FirstName:  req.FirstName,
		MiddleName: req.MiddleName,
		LastName:   req.LastName,
		Phone1:     req.Phone1,
		Phone2:     req.Phone2,
		Address1:   req.Address1,
		Address2:   req.Address2,
	}
	if req.Gender != nil {
		gender, err := enums.ParseGender(*req.Gender)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid gender")
		}
		dto.Gender = &gender
	}
	if req.Title != nil {
		title, err := enums.ParseTitle(*req.Title)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid title")
		}
		dto.Title = &title
	}
	if req.MaritalStatus != nil {
		marital, err := enums.ParseMaritalStatus(*req.MaritalStatus)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid marital status")
		}
		dto.MaritalStatus = &marital
	}

	user, err := s.users.UpdateProfile(ctx, userID, dto)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "account not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update profile")
	}
	return users.FromModel(user), nil
}

func (s *service) issueToken(user *models.User) (*AuthResponse, error) {
	token, err := pkgAuth.MintAccessToken(s.jwtCfg, time.Now().UTC(), pkgAuth.AccessTokenPayload{
		UserID: user.ID,
		Type:   user.Type,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}

	return &AuthResponse{
		AccessToken: token,
		TokenType:   tokenTypeBearer,
		User:        users.FromModel(user),
	}, nil
}
