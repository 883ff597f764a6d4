package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	apperrors "atc-transcribe/internal/app/errors"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks s against its struct tags and the range helpers below.
func Validate(s *Settings) error {
	if s == nil {
		return apperrors.ErrMissingConfig
	}

	if err := validate.Struct(s); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fieldError(verrs[0])
		}
		return apperrors.ErrInvalidConfig.WithCause(err)
	}

	if s.Timeout > 0 {
		if err := ValidateTimeout(s.Timeout, "transcription"); err != nil {
			return err
		}
	}
	return ValidateConcurrency(s.Concurrency, "transcription")
}

func fieldError(fe validator.FieldError) error {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return apperrors.RequiredField(field)
	case "http_url":
		return apperrors.InvalidField(field, fmt.Sprintf("%q is not an http(s) URL", fe.Value()))
	case "min", "max":
		return apperrors.OutOfRange(field, 1, MaxConcurrency)
	default:
		return apperrors.InvalidField(field, "failed "+fe.Tag()+" check")
	}
}

// ValidateTimeout validates timeout duration
func ValidateTimeout(timeout time.Duration, name string) error {
	if timeout <= 0 {
		return fmt.Errorf("%s timeout must be positive", name)
	}
	if timeout > MaxTimeout {
		return fmt.Errorf("%s timeout too large (max 30 minutes)", name)
	}
	return nil
}

// ValidateConcurrency validates concurrency setting
func ValidateConcurrency(concurrency int, name string) error {
	if concurrency <= 0 {
		return fmt.Errorf("%s concurrency must be positive", name)
	}
	if concurrency > MaxConcurrency {
		return fmt.Errorf("%s concurrency too high (max %d)", name, MaxConcurrency)
	}
	return nil
}
