package recommendations

import "errors"

var (
	// ErrNotFound indicates the addressed recommendation does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates a malformed id, enum value or missing filter.
	ErrInvalidInput = errors.New("invalid input")

	// ErrDuplicate indicates the product pair already has a recommendation.
	ErrDuplicate = errors.New("already exists")

	// ErrUnsupportedMediaType indicates a request body that is not JSON.
	ErrUnsupportedMediaType = errors.New("unsupported media type")
)
