package auth

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/openshophq/openshop-backend/internal/users"
	pkgAuth "github.com/openshophq/openshop-backend/pkg/auth"
	"github.com/openshophq/openshop-backend/pkg/config"
	"github.com/openshophq/openshop-backend/pkg/db/models"
	"github.com/openshophq/openshop-backend/pkg/enums"
	pkgerrors "github.com/openshophq/openshop-backend/pkg/errors"
	"github.com/openshophq/openshop-backend/pkg/security"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "secret",
		Issuer:            "openshop",
		ExpirationMinutes: 30,
	}
}

func mustHashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := security.HashPassword(password, config.PasswordConfig{})
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return hash
}

func buildTestService(t *testing.T, repo *stubUserRepo) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		UserRepo:  repo,
		JWTConfig: testJWTConfig(),
	})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc
}

func TestServiceRegisterIssuesToken(t *testing.T) {
	repo := &stubUserRepo{}
	svc := buildTestService(t, repo)

	resp, err := svc.Register(context.Background(), RegisterRequest{
		Email:     "Owner@Example.com",
		Password:  "super-secret",
		FirstName: "Ada",
		LastName:  "Okafor",
		Type:      "shop_owner",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if repo.created == nil {
		t.Fatalf("expected user to be persisted")
	}
	if repo.created.Email != "owner@example.com" {
		t.Fatalf("expected lowercased email, got %s", repo.created.Email)
	}
	if repo.created.PasswordHash == "super-secret" {
		t.Fatalf("password must not be stored in plaintext")
	}

	claims, err := pkgAuth.ParseAccessToken(testJWTConfig(), resp.AccessToken)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if claims.Type != enums.UserTypeShopOwner {
		t.Fatalf("expected shop_owner claim, got %s", claims.Type)
	}
	if resp.User == nil || resp.User.Type != enums.UserTypeShopOwner {
		t.Fatalf("expected shop_owner user in response")
	}
}

func TestServiceRegisterDuplicateEmailConflicts(t *testing.T) {
	repo := &stubUserRepo{createErr: errDuplicateKey{}}
	svc := buildTestService(t, repo)

	_, err := svc.Register(context.Background(), RegisterRequest{
		Email:     "dup@example.com",
		Password:  "super-secret",
		FirstName: "Dup",
		LastName:  "User",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict error, got %v", err)
	}
}

func TestServiceRegisterRejectsAdminType(t *testing.T) {
	svc := buildTestService(t, &stubUserRepo{})

	_, err := svc.Register(context.Background(), RegisterRequest{
		Email:     "admin@example.com",
		Password:  "super-secret",
		FirstName: "Root",
		LastName:  "User",
		Type:      "admin",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestServiceLoginSuccess(t *testing.T) {
	password := "customer-secret"
	user := &models.User{
		ID:           uuid.New(),
		Email:        "buyer@example.com",
		PasswordHash: mustHashPassword(t, password),
		FirstName:    "Bisi",
		LastName:     "Ade",
		Type:         enums.UserTypeCustomer,
		IsActive:     true,
	}
	svc := buildTestService(t, &stubUserRepo{user: user})

	resp, err := svc.Login(context.Background(), LoginRequest{
		Email:    "Buyer@Example.com",
		Password: password,
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	claims, err := pkgAuth.ParseAccessToken(testJWTConfig(), resp.AccessToken)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if claims.UserID != user.ID {
		t.Fatalf("expected user id claim %s, got %s", user.ID, claims.UserID)
	}
	if resp.TokenType != "Bearer" {
		t.Fatalf("expected Bearer token type, got %s", resp.TokenType)
	}
}

func TestServiceLoginWrongPasswordUnauthorized(t *testing.T) {
	user := &models.User{
		ID:           uuid.New(),
		Email:        "buyer@example.com",
		PasswordHash: mustHashPassword(t, "right-password"),
		Type:         enums.UserTypeCustomer,
		IsActive:     true,
	}
	svc := buildTestService(t, &stubUserRepo{user: user})

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    user.Email,
		Password: "wrong-password",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized error, got %v", err)
	}
}

func TestServiceLoginUnknownEmailUnauthorized(t *testing.T) {
	svc := buildTestService(t, &stubUserRepo{findErr: gorm.ErrRecordNotFound})

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    "ghost@example.com",
		Password: "anything",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized error, got %v", err)
	}
}

func TestServiceLoginArchivedAccountUnauthorized(t *testing.T) {
	password := "archived-secret"
	user := &models.User{
		ID:           uuid.New(),
		Email:        "old@example.com",
		PasswordHash: mustHashPassword(t, password),
		Type:         enums.UserTypeArchived,
		IsActive:     true,
	}
	svc := buildTestService(t, &stubUserRepo{user: user})

	_, err := svc.Login(context.Background(), LoginRequest{Email: user.Email, Password: password})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized error, got %v", err)
	}
}

type errDuplicateKey struct{}

func (errDuplicateKey) Error() string {
	return `duplicate key value violates unique constraint "users_email_key"`
}

type stubUserRepo struct {
	user      *models.User
	created   *models.User
	createErr error
	findErr   error
}

func (s *stubUserRepo) Create(ctx context.Context, dto users.CreateUserDTO) (*models.User, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	user := dto.ToModel()
	user.ID = uuid.New()
	s.created = user
	return user, nil
}

func (s *stubUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	if s.user == nil || s.user.Email != email {
		return nil, gorm.ErrRecordNotFound
	}
	return s.user, nil
}

func (s *stubUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if s.user == nil || s.user.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return s.user, nil
}

func (s *stubUserRepo) UpdateProfile(ctx context.Context, id uuid.UUID, dto users.UpdateProfileDTO) (*models.User, error) {
	if s.user == nil || s.user.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	if dto.FirstName != nil {
		s.user.FirstName = *dto.FirstName
	}
	if dto.LastName != nil {
		s.user.LastName = *dto.LastName
	}
	return s.user, nil
}
