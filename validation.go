package jobly

import (
	"fmt"
	"sort"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
)

const payloadLocalsKey = "jobly.payload"

// Validatable is implemented by every request payload
type Validatable interface {
	Validate() error
}

// ValidateBody decodes the request body into T and runs its rules. A
// valid payload is stored for the handler, see Payload. Invalid bodies
// are rejected with ErrValidation before any later handler runs.
func ValidateBody[T any, PT interface {
	*T
	Validatable
}]() fiber.Handler {
	return func(c *fiber.Ctx) error {
		payload := PT(new(T))

		body := c.Body()
		if len(body) == 0 {
			body = []byte("{}")
		}

		if err := c.App().Config().JSONDecoder(body, payload); err != nil {
			return ValidationError([]string{"request body must be a valid JSON object"})
		}

		if err := payload.Validate(); err != nil {
			messages, ierr := validationMessages(err)
			if ierr != nil {
				return goerrors.Wrap(ierr, goerrors.CategoryInternal, "failed to validate payload")
			}
			return ValidationError(messages)
		}

		c.Locals(payloadLocalsKey, payload)
		return c.Next()
	}
}

// Payload returns the body stored by ValidateBody
func Payload[T any](c *fiber.Ctx) (*T, bool) {
	payload, ok := c.Locals(payloadLocalsKey).(*T)
	return payload, ok && payload != nil
}

// validationMessages flattens ozzo errors into "field: message" lines
// sorted by field. Internal rule failures are returned as error.
func validationMessages(err error) ([]string, error) {
	if ierr, ok := err.(validation.InternalError); ok {
		return nil, ierr.InternalError()
	}

	errs, ok := err.(validation.Errors)
	if !ok {
		return []string{err.Error()}, nil
	}

	fields := make([]string, 0, len(errs))
	for field := range errs {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	out := make([]string, 0, len(fields))
	for _, field := range fields {
		fieldErr := errs[field]
		if fieldErr == nil {
			continue
		}
		if nested, ok := fieldErr.(validation.Errors); ok {
			inner, ierr := validationMessages(nested)
			if ierr != nil {
				return nil, ierr
			}
			for _, msg := range inner {
				out = append(out, fmt.Sprintf("%s.%s", field, msg))
			}
			continue
		}
		out = append(out, fmt.Sprintf("%s: %s", field, fieldErr.Error()))
	}
	return out, nil
}
