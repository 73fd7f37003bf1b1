package enums

import "fmt"

// ProductCategory buckets catalog entries.
type ProductCategory string

const (
	ProductCategoryRandom      ProductCategory = "random"
	ProductCategoryGrocery     ProductCategory = "grocery"
	ProductCategoryElectronics ProductCategory = "electronics"
	ProductCategoryFashion     ProductCategory = "fashion"
	ProductCategoryHome        ProductCategory = "home"
	ProductCategoryBeauty      ProductCategory = "beauty"
)

var validProductCategories = []ProductCategory{
	ProductCategoryRandom,
	ProductCategoryGrocery,
	ProductCategoryElectronics,
	ProductCategoryFashion,
	ProductCategoryHome,
	ProductCategoryBeauty,
}

// String implements fmt.Stringer.
func (p ProductCategory) String() string {
	return string(p)
}

// IsValid reports whether the value is a known ProductCategory.
func (p ProductCategory) IsValid() bool {
	for _, candidate := range validProductCategories {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParseProductCategory converts raw input into a ProductCategory.
func ParseProductCategory(value string) (ProductCategory, error) {
	for _, candidate := range validProductCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product category %q", value)
}

// ProductStatus tracks catalog availability.
type ProductStatus string

const (
	ProductStatusAvailable  ProductStatus = "available"
	ProductStatusOutOfStock ProductStatus = "out_of_stock"
)

var validProductStatuses = []ProductStatus{
	ProductStatusAvailable,
	ProductStatusOutOfStock,
}

// String implements fmt.Stringer.
func (p ProductStatus) String() string {
	return string(p)
}

// IsValid reports whether the value is a known ProductStatus.
func (p ProductStatus) IsValid() bool {
	for _, candidate := range validProductStatuses {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParseProductStatus converts raw input into a ProductStatus.
func ParseProductStatus(value string) (ProductStatus, error) {
	for _, candidate := range validProductStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product status %q", value)
}
