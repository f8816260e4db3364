package utils

import "go.uber.org/multierr"

// CombineErrors combines multiple errors into one, dropping nils.
func CombineErrors(errs ...error) error {
	return multierr.Combine(errs...)
}
