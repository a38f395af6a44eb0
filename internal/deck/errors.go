package deck

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound         = errors.New("card not found")
	ErrUnknownCategory  = errors.New("unknown category")
	ErrMalformedPayload = errors.New("malformed payload")
)

// NotFoundError reports a count change against a name missing from its category.
type NotFoundError struct {
	Category Category
	Name     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: %q in %s", ErrNotFound, e.Name, e.Category)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// PayloadError describes a stored count that is not a positive integer. Name
// is empty when the category itself is not an object.
type PayloadError struct {
	Category string
	Name     string
	Value    any
}

func (e *PayloadError) Error() string {
	if e.Name == "" && e.Value == nil {
		return fmt.Sprintf("%s: category %s is not an object", ErrMalformedPayload, e.Category)
	}
	return fmt.Sprintf("%s: %s/%q has count %v (%T)", ErrMalformedPayload, e.Category, e.Name, e.Value, e.Value)
}

func (e *PayloadError) Unwrap() error { return ErrMalformedPayload }
