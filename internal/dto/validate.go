package dto

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/householderhq/householder/internal/apperrors"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks a request struct against its validation tags, folding any
// failure into apperrors.ErrValidation so callers only match one sentinel.
func Validate(req any) error {
	if err := validate.Struct(req); err != nil {
		return fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
	}
	return nil
}
