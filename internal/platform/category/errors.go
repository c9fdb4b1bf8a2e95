package category

import "errors"

var (
	ErrCategoryNotFound    = errors.New("category not found")
	ErrSubcategoryMismatch = errors.New("subcategory does not belong to the selected category")
)
