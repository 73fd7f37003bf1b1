package models

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/openshophq/openshop-backend/pkg/enums"
)

// User represents the canonical identity entity. Accounts are never
// hard-deleted; archival flips Type and IsActive.
type User struct {
	ID            uuid.UUID           `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Email         string              `gorm:"type:text;not null;uniqueIndex"`
	PasswordHash  string              `gorm:"column:password_hash;not null"`
	FirstName     string              `gorm:"column:first_name"`
	MiddleName    string              `gorm:"column:middle_name"`
	LastName      string              `gorm:"column:last_name"`
	Phone1        string              `gorm:"column:phone_number1"`
	Phone2        string              `gorm:"column:phone_number2"`
	Gender        enums.Gender        `gorm:"column:gender;not null;default:'male'"`
	Title         enums.Title         `gorm:"column:title;not null;default:'mr'"`
	MaritalStatus enums.MaritalStatus `gorm:"column:marital_status;not null;default:'single'"`
	Address1      string              `gorm:"column:address1"`
	Address2      string              `gorm:"column:address2"`
	Status        enums.UserStatus    `gorm:"column:status;not null;default:'none'"`
	Type          enums.UserType      `gorm:"column:type;not null;default:'customer'"`
	IsActive      bool                `gorm:"column:is_active;not null;default:true"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

// FullName joins the first and last name for display purposes.
func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}
