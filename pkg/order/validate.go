package order

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/thegioirubik/lubestation-service/models"
	"github.com/thegioirubik/lubestation-service/pkg/apperr"
	"github.com/thegioirubik/lubestation-service/pkg/pricing"
)

const invalidFormMsg = "Please check the highlighted fields."

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("city", func(fl validator.FieldLevel) bool {
		return pricing.IsKnownCity(fl.Field().String())
	})
	return v
}

var formValidator = newValidator()

// ValidateForm checks the contact form and returns an invalid error keyed by
// JSON field name.
func ValidateForm(form models.ContactForm) error {
	form = trimForm(form)
	err := formValidator.Struct(form)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return apperr.Wrap(err)
	}
	fields := make(map[string]string, len(ve))
	for _, fe := range ve {
		fields[fe.Field()] = messageForTag(fe.Tag(), fe.Param())
	}
	return apperr.InvalidErr(invalidFormMsg, fields)
}

func trimForm(f models.ContactForm) models.ContactForm {
	f.FullName = strings.TrimSpace(f.FullName)
	f.Email = strings.TrimSpace(f.Email)
	f.Phone = strings.TrimSpace(f.Phone)
	f.City = strings.TrimSpace(f.City)
	f.Address = strings.TrimSpace(f.Address)
	f.Notes = strings.TrimSpace(f.Notes)
	return f
}

func messageForTag(tag, param string) string {
	switch tag {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "city":
		return "Choose a city from the list."
	case "max":
		return "Must be at most " + param + " characters."
	default:
		return "Invalid value."
	}
}
