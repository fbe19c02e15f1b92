package handlers

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/roadmapdb/internal/services"
	"github.com/localnerve/roadmapdb/internal/types"
	"github.com/localnerve/roadmapdb/internal/utils"
)

var validate = newValidator()

// newValidator reports fields by their json names
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// parseBody decodes the JSON body into in and checks its validate tags
func parseBody(c *fiber.Ctx, in interface{}) error {
	if err := c.BodyParser(in); err != nil {
		return types.NewValidationError(fmt.Sprintf("Invalid request body: %v", err))
	}
	if err := validate.Struct(in); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return types.NewValidationError(fieldMessage(verrs[0]))
		}
		return types.NewValidationError(err.Error())
	}
	return nil
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", fe.Field())
	case "min", "max":
		return fmt.Sprintf("%s must satisfy %s=%s", fe.Field(), fe.Tag(), fe.Param())
	}
	return fmt.Sprintf("%s is invalid (%s)", fe.Field(), fe.Tag())
}

// paramID reads a positive numeric path parameter
func paramID(c *fiber.Ctx, name string) (uint, error) {
	raw := c.Params(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, types.NewValidationError(fmt.Sprintf("Invalid %s: %q", name, raw))
	}
	return uint(id), nil
}

// serviceError converts service sentinels to coded HTTP errors.
// Anything it does not recognize is left for the global handler as a 500.
func serviceError(err error, notFoundMessage string) error {
	var verr *services.ValidationError
	var custom *types.CustomError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &custom):
		return custom
	case errors.Is(err, services.ErrNotFound):
		return types.NewNotFoundError(notFoundMessage)
	case errors.Is(err, services.ErrDuplicate):
		return types.NewDuplicateError(err.Error())
	case errors.As(err, &verr):
		return types.NewValidationError(err.Error())
	}
	return err
}

// deleted is the body returned after a successful delete
func deleted(c *fiber.Ctx, what string, id uint) error {
	return utils.DeleteSuccessResponse(c, fmt.Sprintf("%s %d deleted", what, id))
}

// trimmed returns the trimmed value of s or "" for nil
func trimmed(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
