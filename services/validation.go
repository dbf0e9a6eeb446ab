package services

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"sports-event-platform/models"
)

var validate = newValidator()

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// validateInput runs struct tags and reports the first failing field.
func validateInput(in interface{}) error {
	err := validate.Struct(in)
	var ve validator.ValidationErrors
	if errors.As(err, &ve) && len(ve) > 0 {
		fe := ve[0]
		return invalid(fe.Field(), fmt.Sprintf("failed '%s' check", fe.Tag()))
	}
	return err
}

func bindJSON(c *fiber.Ctx, req interface{}) error {
	if err := c.BodyParser(req); err != nil {
		return invalid("body", "invalid JSON")
	}
	return nil
}

// callerFrom returns the identity attached by middleware.Authenticate.
func callerFrom(c *fiber.Ctx) models.Caller {
	caller, _ := c.Locals(models.CallerLocalsKey).(models.Caller)
	return caller
}
