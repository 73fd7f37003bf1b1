package users

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/openshophq/openshop-backend/pkg/db/models"
	"github.com/openshophq/openshop-backend/pkg/enums"
)

func setupUsersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&models.User{}))
	return conn
}

func newCustomerDTO(email string) CreateUserDTO {
	return CreateUserDTO{
		Email:         email,
		PasswordHash:  "$argon2id$stub",
		FirstName:     "Ada",
		LastName:      "Shopper",
		Gender:        enums.GenderFemale,
		Title:         enums.TitleMrs,
		MaritalStatus: enums.MaritalStatusMarried,
		Type:          enums.UserTypeCustomer,
	}
}

func TestCreateAndFindByEmail(t *testing.T) {
	repo := NewRepository(setupUsersTestDB(t))
	ctx := context.Background()

	created, err := repo.Create(ctx, newCustomerDTO("ada@example.com"))
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, created.ID)

	found, err := repo.FindByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
	assert.Equal(t, enums.UserTypeCustomer, found.Type)
}

func TestCreateDuplicateEmailFails(t *testing.T) {
	repo := NewRepository(setupUsersTestDB(t))
	ctx := context.Background()

	_, err := repo.Create(ctx, newCustomerDTO("dup@example.com"))
	require.NoError(t, err)

	_, err = repo.Create(ctx, newCustomerDTO("dup@example.com"))
	assert.Error(t, err)
}

func TestUpdateProfileOnlyTouchesProvidedFields(t *testing.T) {
	repo := NewRepository(setupUsersTestDB(t))
	ctx := context.Background()

	created, err := repo.Create(ctx, newCustomerDTO("update@example.com"))
	require.NoError(t, err)

	newName := "Grace"
	updated, err := repo.UpdateProfile(ctx, created.ID, UpdateProfileDTO{FirstName: &newName})
	require.NoError(t, err)

	assert.Equal(t, "Grace", updated.FirstName)
	assert.Equal(t, created.LastName, updated.LastName)
	assert.Equal(t, created.Email, updated.Email)
}

func TestUpdateProfileNoFieldsIsNoOp(t *testing.T) {
	repo := NewRepository(setupUsersTestDB(t))
	ctx := context.Background()

	created, err := repo.Create(ctx, newCustomerDTO("noop@example.com"))
	require.NoError(t, err)

	same, err := repo.UpdateProfile(ctx, created.ID, UpdateProfileDTO{})
	require.NoError(t, err)
	assert.Equal(t, created.FirstName, same.FirstName)
}

func TestFindByIDMissing(t *testing.T) {
	repo := NewRepository(setupUsersTestDB(t))

	_, err := repo.FindByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
