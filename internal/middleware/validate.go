package middleware

import (
	"errors"
	"net/http"

	"github.com/bilgisen/chronos/internal/logger"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// BodyKey is the Locals key under which ValidateBody stores the parsed body
const BodyKey = "validated"

var validate = validator.New()

// ValidationError lists the failing field tags of a request body
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return "validation failed"
}

// ValidateStruct checks s against its validate tags
func ValidateStruct(s any) error {
	if err := validate.Struct(s); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fe.Field()] = fe.Tag()
		}
		return &ValidationError{Fields: fields}
	}
	return nil
}

// ValidateBody parses the JSON body into a fresh T, validates it and stores it
// for the handler. Retrieve it with Body.
func ValidateBody[T any]() fiber.Handler {
	return func(c *fiber.Ctx) error {
		body := new(T)
		if err := c.BodyParser(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body: "+err.Error())
		}
		if err := ValidateStruct(body); err != nil {
			return err
		}
		c.Locals(BodyKey, body)
		return c.Next()
	}
}

// Body returns the value stored by ValidateBody
func Body[T any](c *fiber.Ctx) *T {
	body, _ := c.Locals(BodyKey).(*T)
	return body
}

// ErrorHandler renders every error as {"error": ...} JSON
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	msg := http.StatusText(code)
	resp := fiber.Map{}

	var ferr *fiber.Error
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		code = fiber.StatusUnprocessableEntity
		msg = verr.Error()
		resp["fields"] = verr.Fields
	case errors.As(err, &ferr):
		code = ferr.Code
		msg = ferr.Message
	}
	resp["error"] = msg

	if code >= fiber.StatusInternalServerError {
		logger.Get().Error().
			Err(err).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", code).
			Msg("HTTP error")
	}

	return c.Status(code).JSON(resp)
}
