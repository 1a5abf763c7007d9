package sqlpatch

import (
	"fmt"

	"github.com/goliatone/go-errors"
)

const (
	TextCodeInvalidUpdate    = "INVALID_UPDATE"
	TextCodeColumnNotAllowed = "COLUMN_NOT_ALLOWED"
)

// ErrInvalidUpdate is returned when a statement cannot be built from the
// given change-set, table or identifier column.
var ErrInvalidUpdate = errors.New("invalid update", errors.CategoryBadInput).
	WithTextCode(TextCodeInvalidUpdate).
	WithCode(errors.CodeBadRequest)

// ErrColumnNotAllowed is returned by Allowlist.Filter for columns the
// caller did not declare.
var ErrColumnNotAllowed = errors.New("column not allowed", errors.CategoryBadInput).
	WithTextCode(TextCodeColumnNotAllowed).
	WithCode(errors.CodeBadRequest)

func invalidUpdate(format string, args ...any) error {
	clone := ErrInvalidUpdate.Clone()
	if clone == nil {
		return ErrInvalidUpdate
	}
	clone.Message = fmt.Sprintf(format, args...)
	clone.Source = ErrInvalidUpdate
	return clone
}

func columnNotAllowed(column string) error {
	clone := ErrColumnNotAllowed.Clone()
	if clone == nil {
		return ErrColumnNotAllowed
	}
	clone.Message = fmt.Sprintf("column not allowed: %s", column)
	clone.Source = ErrColumnNotAllowed
	return clone.WithMetadata(map[string]any{"column": column})
}
