package jobly

import (
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
)

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Status  int `json:"status"`
	Message any `json:"message"`
}

// AppOptions configures NewApp
type AppOptions struct {
	ReadTimeout   time.Duration
	WriteTimeout  time.Duration
	Logger        Logger
	AccessLog     bool
	AccessLogFunc func(string)
}

// NewApp returns a fiber app with the error handler, panic recovery and
// request ids installed. Routes are added with RegisterRoutes.
func NewApp(opts AppOptions) *fiber.App {
	l := normalizeLogger(opts.Logger)

	app := fiber.New(fiber.Config{
		AppName:               "jobly",
		ReadTimeout:           opts.ReadTimeout,
		WriteTimeout:          opts.WriteTimeout,
		ErrorHandler:          ErrorHandler(l),
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(requestid.New())

	if opts.AccessLog {
		cfg := logger.Config{
			Format:     "${time} ${locals:requestid} ${status} ${method} ${path} ${latency}\n",
			TimeFormat: time.RFC3339,
		}
		if opts.AccessLogFunc != nil {
			cfg.Done = func(c *fiber.Ctx, line []byte) {
				opts.AccessLogFunc(string(line))
			}
		}
		app.Use(logger.New(cfg))
	}

	return app
}

// ErrorHandler renders errors as {status, message}. Validation failures
// carry the list of messages, server errors never leak their cause.
func ErrorHandler(l Logger) fiber.ErrorHandler {
	l = normalizeLogger(l)
	return func(c *fiber.Ctx, err error) error {
		res := errorResponse(err)

		if res.Status >= http.StatusInternalServerError {
			l.Error("%s %s failed: %v", c.Method(), c.OriginalURL(), err)
		} else {
			l.Debug("%s %s rejected with %d: %v", c.Method(), c.OriginalURL(), res.Status, err)
		}

		return c.Status(res.Status).JSON(res)
	}
}

func errorResponse(err error) ErrorResponse {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		msg := fiberErr.Message
		if fiberErr.Code >= http.StatusInternalServerError {
			msg = http.StatusText(fiberErr.Code)
		}
		return ErrorResponse{Status: fiberErr.Code, Message: msg}
	}

	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) {
		return ErrorResponse{
			Status:  http.StatusInternalServerError,
			Message: http.StatusText(http.StatusInternalServerError),
		}
	}

	status := richErr.Code
	if status == 0 {
		status = statusForCategory(richErr.Category)
	}

	if status >= http.StatusInternalServerError {
		return ErrorResponse{Status: status, Message: http.StatusText(status)}
	}

	if goerrors.Is(err, ErrValidation) {
		if list, ok := richErr.Metadata["errors"].([]string); ok && len(list) > 0 {
			return ErrorResponse{Status: status, Message: list}
		}
	}

	return ErrorResponse{Status: status, Message: richErr.Message}
}

func statusForCategory(cat goerrors.Category) int {
	switch cat {
	case goerrors.CategoryValidation, goerrors.CategoryBadInput:
		return http.StatusBadRequest
	case goerrors.CategoryAuth, goerrors.CategoryAuthz:
		return http.StatusUnauthorized
	case goerrors.CategoryNotFound, goerrors.CategoryRouting:
		return http.StatusNotFound
	case goerrors.CategoryConflict:
		return http.StatusConflict
	case goerrors.CategoryMethodNotAllowed:
		return http.StatusMethodNotAllowed
	}
	return http.StatusInternalServerError
}

// NotFoundHandler is mounted last and answers every unmatched route
func NotFoundHandler(c *fiber.Ctx) error {
	return withMessage(ErrNotFound, "Not Found").
		WithMetadata(map[string]any{"path": c.Path(), "method": c.Method()})
}

// DumpConfig logs a redacted view of cfg at debug level
func DumpConfig(l Logger, cfg any) {
	normalizeLogger(l).Debug("effective configuration:\n%s", print.MaybePrettyJSON(cfg))
}
