package bot

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" || tag == "-" {
			return strings.ToLower(f.Name[:1]) + f.Name[1:]
		}
		return tag
	})
	return v
}

// validateArgs checks a command payload and returns a message fit for the chat.
func (b *Bot) validateArgs(payload any) error {
	if err := b.validate.Struct(payload); err != nil {
		return formatValidationErrors(err)
	}
	return nil
}

func formatValidationErrors(err error) error {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return fmt.Errorf("invalid arguments: %w", err)
	}

	details := make([]string, 0, len(errs))
	for _, fieldErr := range errs {
		details = append(details, fieldErr.Field()+" "+validationMessage(fieldErr))
	}
	sort.Strings(details)

	return errors.New(strings.Join(details, "; "))
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("needs at least %s item(s)", fe.Param())
		}
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "email":
		return "must be a valid email"
	}
	return "is invalid"
}
