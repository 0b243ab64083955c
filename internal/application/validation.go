package application

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/bnema/campus-cli/internal/domain"
	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
)

func newValidator() *validator.Validate {
	validate := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their wire name.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return validate
}

func (a *API) check(op string, input any) error {
	err := a.validate.Struct(input)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return domain.NewError(domain.KindInvalidInput, op, err.Error())
	}

	messages := lo.Map(fieldErrs, func(fe validator.FieldError, _ int) string {
		return describeFieldError(fe)
	})
	return domain.NewError(domain.KindInvalidInput, op, strings.Join(messages, "; "))
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return fe.Field() + " must be a valid email address"
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s failed %q", fe.Field(), fe.Tag())
	}
}

func requireID(op string, field string, value string) error {
	if strings.TrimSpace(value) == "" {
		return domain.NewError(domain.KindInvalidInput, op, field+" is required")
	}
	return nil
}
