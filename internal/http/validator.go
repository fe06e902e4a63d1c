package http

import (
	"fmt"
	"reflect"
	"strings"

	"chessrules/internal/core"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

var validate = validator.New()

// validationMiddleware decodes and validates JSON bodies of mutating requests
// and stores the result for the handler
func validationMiddleware(c *fiber.Ctx) error {
	method := c.Method()
	if method == fiber.MethodGet || method == fiber.MethodDelete || method == fiber.MethodOptions {
		return c.Next()
	}

	path := c.Path()
	var requestType any

	switch {
	case strings.HasSuffix(path, "/games") && method == fiber.MethodPost:
		requestType = &core.CreateGameRequest{}
	case strings.HasSuffix(path, "/players") && method == fiber.MethodPut:
		requestType = &core.ConfigurePlayersRequest{}
	case strings.HasSuffix(path, "/moves") && method == fiber.MethodPost:
		requestType = &core.MoveRequest{}
	case strings.HasSuffix(path, "/undo") && method == fiber.MethodPost:
		requestType = &core.UndoRequest{}
	default:
		return c.Next()
	}

	if err := c.BodyParser(requestType); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(core.ErrorResponse{
			Error:   "invalid request body",
			Code:    core.ErrInvalidRequest,
			Details: err.Error(),
		})
	}

	if err := validate.Struct(requestType); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(core.ErrorResponse{
			Error:   "validation failed",
			Code:    core.ErrInvalidRequest,
			Details: describeValidation(err),
		})
	}

	c.Locals("validatedBody", requestType)
	c.Locals("validated", true)

	return c.Next()
}

// describeValidation renders validator errors as one readable line
func describeValidation(err error) string {
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}

	var details strings.Builder
	for _, fe := range errs {
		if details.Len() > 0 {
			details.WriteString("; ")
		}
		switch fe.Tag() {
		case "required":
			fmt.Fprintf(&details, "%s is required", fe.Field())
		case "oneof":
			fmt.Fprintf(&details, "%s must be one of [%s]", fe.Field(), fe.Param())
		case "len":
			fmt.Fprintf(&details, "%s must be exactly %s characters", fe.Field(), fe.Param())
		case "min", "max":
			bound := "at least"
			if fe.Tag() == "max" {
				bound = "at most"
			}
			if fe.Type().Kind() == reflect.String {
				fmt.Fprintf(&details, "%s must be %s %s characters", fe.Field(), bound, fe.Param())
			} else {
				fmt.Fprintf(&details, "%s must be %s %s", fe.Field(), bound, fe.Param())
			}
		default:
			fmt.Fprintf(&details, "%s failed %s validation", fe.Field(), fe.Tag())
		}
	}
	return details.String()
}

func isValidUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
