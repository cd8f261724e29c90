package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Not found errors
	ErrNotFound         = errors.New("resource not found")
	ErrAttributeUnknown = fmt.Errorf("%w: attribute", ErrNotFound)
	ErrSpeciesUnknown   = fmt.Errorf("%w: species", ErrNotFound)

	// Paired data integrity errors
	ErrColumnMissing  = errors.New("columns do not appear in table")
	ErrNullValues     = errors.New("table has null attribute values")
	ErrLengthMismatch = errors.New("merged table does not have same length as originals")

	// Assessment errors
	ErrBinMismatch    = errors.New("bin names are not the same")
	ErrMissingInput   = errors.New("required input file missing")
	ErrEmptySelection = errors.New("no attributes selected")
	ErrEmptyMatrix    = errors.New("error matrix has no observations")
)

// Error constructors with context
func NewNotFoundError(resource string, name string) error {
	return fmt.Errorf("%w: %s %s", ErrNotFound, resource, name)
}

func NewColumnMissingError(columns []string) error {
	return fmt.Errorf("%w: %v", ErrColumnMissing, columns)
}

func NewBinMismatchError(attribute string) error {
	return fmt.Errorf("%w for %s", ErrBinMismatch, attribute)
}

func NewMissingInputError(section string, fields []string) error {
	return fmt.Errorf("%w: section %s needs %v", ErrMissingInput, section, fields)
}

// Error checking helpers
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsMissingInputError(err error) bool {
	return errors.Is(err, ErrMissingInput)
}

func IsDataIntegrityError(err error) bool {
	return errors.Is(err, ErrColumnMissing) ||
		errors.Is(err, ErrNullValues) ||
		errors.Is(err, ErrLengthMismatch)
}
