package dashboard

import "errors"

var (
	ErrCategoryNotFound = errors.New("category not found in the current snapshot")
	ErrCategoryRequired = errors.New("category is required")
)
