package enums

import "fmt"

// BusinessRating is the coarse shop quality tier.
type BusinessRating string

const (
	BusinessRatingLevel1 BusinessRating = "level_1"
	BusinessRatingLevel2 BusinessRating = "level_2"
	BusinessRatingLevel3 BusinessRating = "level_3"
	BusinessRatingLevel4 BusinessRating = "level_4"
	BusinessRatingLevel5 BusinessRating = "level_5"
)

var validBusinessRatings = []BusinessRating{
	BusinessRatingLevel1,
	BusinessRatingLevel2,
	BusinessRatingLevel3,
	BusinessRatingLevel4,
	BusinessRatingLevel5,
}

// String implements fmt.Stringer.
func (b BusinessRating) String() string {
	return string(b)
}

// IsValid reports whether the value is a known BusinessRating.
func (b BusinessRating) IsValid() bool {
	for _, candidate := range validBusinessRatings {
		if candidate == b {
			return true
		}
	}
	return false
}

// ParseBusinessRating converts raw input into a BusinessRating.
func ParseBusinessRating(value string) (BusinessRating, error) {
	for _, candidate := range validBusinessRatings {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid business rating %q", value)
}
