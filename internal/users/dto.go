package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/openshophq/openshop-backend/pkg/db/models"
	"github.com/openshophq/openshop-backend/pkg/enums"
)

// UserDTO is the transport shape that omits sensitive credentials.
type UserDTO struct {
	ID            uuid.UUID           `json:"id"`
	Email         string              `json:"email"`
	FirstName     string              `json:"first_name"`
	MiddleName    string              `json:"middle_name,omitempty"`
	LastName      string              `json:"last_name"`
	Phone1        string              `json:"phone_number1,omitempty"`
	Phone2        string              `json:"phone_number2,omitempty"`
	Gender        enums.Gender        `json:"gender"`
	Title         enums.Title         `json:"title"`
	MaritalStatus enums.MaritalStatus `json:"marital_status"`
	Address1      string              `json:"address1,omitempty"`
	Address2      string              `json:"address2,omitempty"`
	Status        enums.UserStatus    `json:"status"`
	Type          enums.UserType      `json:"type"`
	IsActive      bool                `json:"is_active"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

// CreateUserDTO holds the data required by the repo to persist a new user.
type CreateUserDTO struct {
	Email         string
	PasswordHash  string
	FirstName     string
	MiddleName    string
	LastName      string
	Phone1        string
	Phone2        string
	Gender        enums.Gender
	Title         enums.Title
	MaritalStatus enums.MaritalStatus
	Address1      string
	Address2      string
	Type          enums.UserType
}

// UpdateProfileDTO holds optional profile mutations. Nil fields are untouched.
type UpdateProfileDTO struct {
	FirstName     *string
	MiddleName    *string
	LastName      *string
	Phone1        *string
	Phone2        *string
	Gender        *enums.Gender
	Title         *enums.Title
	MaritalStatus *enums.MaritalStatus
	Address1      *string
	Address2      *string
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}

	return &UserDTO{
		ID:            u.ID,
		Email:         u.Email,
		FirstName:     u.FirstName,
		MiddleName:    u.MiddleName,
		LastName:      u.LastName,
		Phone1:        u.Phone1,
		Phone2:        u.Phone2,
		Gender:        u.Gender,
		Title:         u.Title,
		MaritalStatus: u.MaritalStatus,
		Address1:      u.Address1,
		Address2:      u.Address2,
		Status:        u.Status,
		Type:          u.Type,
		IsActive:      u.IsActive,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
}

func (c CreateUserDTO) ToModel() *models.User {
	userType := c.Type
	if !userType.IsValid() {
		userType = enums.UserTypeCustomer
	}
	gender := c.Gender
	if !gender.IsValid() {
		gender = enums.GenderMale
	}
	title := c.Title
	if !title.IsValid() {
		title = enums.TitleMr
	}
	marital := c.MaritalStatus
	if !marital.IsValid() {
		marital = enums.MaritalStatusSingle
	}

	return &models.User{
		Email:         c.Email,
		PasswordHash:  c.PasswordHash,
		FirstName:     c.FirstName,
		MiddleName:    c.MiddleName,
		LastName:      c.LastName,
		Phone1:        c.Phone1,
		Phone2:        c.Phone2,
		Gender:        gender,
		Title:         title,
		MaritalStatus: marital,
		Address1:      c.Address1,
		Address2:      c.Address2,
		Status:        enums.UserStatusNone,
		Type:          userType,
		IsActive:      true,
	}
}
