package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Domain errors as sentinel values
var (
	ErrValidation     = errors.New("validation failed")
	ErrDuplicateValue = errors.New("duplicate attribute value")

	ErrValueNotFound     = errors.New("product attribute value not found")
	ErrAttributeNotFound = errors.New("attribute not found")
	ErrProductNotFound   = errors.New("product not found")
	ErrChannelNotFound   = errors.New("channel not found")
	ErrEdgeNotFound      = errors.New("product hierarchy edge not found")
	ErrJobNotFound       = errors.New("pseudo transaction job not found")
	ErrFileNotFound      = errors.New("attachment not found")
)

// Message keys of validation and duplicate errors.
const (
	KeyFieldIsRequired        = "fieldIsRequired"
	KeyFieldShouldBeGreater   = "fieldShouldBeGreater"
	KeyFieldShouldBeLess      = "fieldShouldBeLess"
	KeyValueToShouldBeGreater = "valueToShouldBeGreater"
	KeyNoSuchOptions          = "noSuchOptions"
	KeyNoSuchUnit             = "noSuchUnit"
	KeyMaxLengthIsExceeded    = "maxLengthIsExceeded"
	KeyPatternMismatch        = "attributeDontMatchToPattern"
	KeyInvalidValue           = "invalidValue"

	KeyAttributeRecordAlreadyExists = "attributeRecordAlreadyExists"
	KeyAttributeShouldBeUnique      = "attributeShouldHaveBeUnique"
)

// ValidationError is a user-correctable rejection. Key names a message in the
// catalog and Params holds its substitutions.
type ValidationError struct {
	Key    string
	Params map[string]any
}

// NewValidationError creates a ValidationError.
func NewValidationError(key string, params map[string]any) *ValidationError {
	return &ValidationError{Key: key, Params: params}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s%s", ErrValidation.Error(), e.Key, formatParams(e.Params))
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// DuplicateValueError reports a uniqueness violation with the attribute and
// the channel (or scope) it happened in.
type DuplicateValueError struct {
	Key       string
	Attribute string
	Channel   string
}

func (e *DuplicateValueError) Error() string {
	if e.Channel == "" {
		return fmt.Sprintf("%s: attribute %q", ErrDuplicateValue.Error(), e.Attribute)
	}
	return fmt.Sprintf("%s: attribute %q, channel %q", ErrDuplicateValue.Error(), e.Attribute, e.Channel)
}

func (e *DuplicateValueError) Unwrap() error {
	return ErrDuplicateValue
}

// Params returns the message substitutions of the error.
func (e *DuplicateValueError) Params() map[string]any {
	return map[string]any{
		"attribute": e.Attribute,
		"channel":   e.Channel,
	}
}

func formatParams(params map[string]any) string {
	if len(params) == 0 {
		return ""
	}
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, params[k]))
	}
	return " (" + strings.Join(parts, ", ") + ")"
}
