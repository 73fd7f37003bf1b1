package enums

import "fmt"

// UserType is the closed set of account roles.
type UserType string

const (
	UserTypeCustomer  UserType = "customer"
	UserTypeShopOwner UserType = "shop_owner"
	UserTypeAdmin     UserType = "admin"
	UserTypeArchived  UserType = "archived"
)

var validUserTypes = []UserType{
	UserTypeCustomer,
	UserTypeShopOwner,
	UserTypeAdmin,
	UserTypeArchived,
}

// String implements fmt.Stringer.
func (u UserType) String() string {
	return string(u)
}

// IsValid reports whether the value is a known UserType.
func (u UserType) IsValid() bool {
	for _, candidate := range validUserTypes {
		if candidate == u {
			return true
		}
	}
	return false
}

// ParseUserType converts raw input into a UserType.
func ParseUserType(value string) (UserType, error) {
	for _, candidate := range validUserTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid user type %q", value)
}

// CanOwnBusinesses reports whether the role may register and manage shops.
func (u UserType) CanOwnBusinesses() bool {
	return u == UserTypeShopOwner || u == UserTypeAdmin
}

// IsAdmin reports whether the role carries platform-wide access.
func (u UserType) IsAdmin() bool {
	return u == UserTypeAdmin
}

// IsCustomer reports whether the role may shop, favorite, and check out.
func (u UserType) IsCustomer() bool {
	return u == UserTypeCustomer
}
