package enums

import "fmt"

// Gender mirrors the profile field on accounts.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

var validGenders = []Gender{GenderMale, GenderFemale}

func (g Gender) String() string { return string(g) }

// IsValid reports whether the value is a known Gender.
func (g Gender) IsValid() bool {
	for _, candidate := range validGenders {
		if candidate == g {
			return true
		}
	}
	return false
}

// ParseGender converts raw input into a Gender.
func ParseGender(value string) (Gender, error) {
	for _, candidate := range validGenders {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid gender %q", value)
}

// Title is the salutation prefix on a profile.
type Title string

const (
	TitleMr   Title = "mr"
	TitleMrs  Title = "mrs"
	TitleMiss Title = "miss"
	TitleDr   Title = "dr"
)

var validTitles = []Title{TitleMr, TitleMrs, TitleMiss, TitleDr}

func (t Title) String() string { return string(t) }

// IsValid reports whether the value is a known Title.
func (t Title) IsValid() bool {
	for _, candidate := range validTitles {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseTitle converts raw input into a Title.
func ParseTitle(value string) (Title, error) {
	for _, candidate := range validTitles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid title %q", value)
}

// MaritalStatus is the marital status profile field.
type MaritalStatus string

const (
	MaritalStatusSingle   MaritalStatus = "single"
	MaritalStatusMarried  MaritalStatus = "married"
	MaritalStatusDivorced MaritalStatus = "divorced"
	MaritalStatusWidowed  MaritalStatus = "widowed"
)

var validMaritalStatuses = []MaritalStatus{
	MaritalStatusSingle,
	MaritalStatusMarried,
	MaritalStatusDivorced,
	MaritalStatusWidowed,
}

func (m MaritalStatus) String() string { return string(m) }

// IsValid reports whether the value is a known MaritalStatus.
func (m MaritalStatus) IsValid() bool {
	for _, candidate := range validMaritalStatuses {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParseMaritalStatus converts raw input into a MaritalStatus.
func ParseMaritalStatus(value string) (MaritalStatus, error) {
	for _, candidate := range validMaritalStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid marital status %q", value)
}
