package contact

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/illegalcall/second-opinion/internal/models"
)

var validate = newValidator()

type requiredInput struct {
	Name      string `form:"name" validate:"required"`
	Phone     string `form:"phone" validate:"required"`
	Treatment string `form:"requested_treatment" validate:"required"`
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		return fld.Tag.Get("form")
	})
	return v
}

// Validate checks the required fields and, when strictEmail is set, the
// syntax of a supplied email. It returns nil or a *ValidationError.
func Validate(fields models.FieldSet, strictEmail bool) error {
	in := requiredInput{
		Name:      strings.TrimSpace(fields.Get(FieldName.Key)),
		Phone:     strings.TrimSpace(fields.Get(FieldPhone.Key)),
		Treatment: strings.TrimSpace(fields.Get(FieldTreatment.Key)),
	}

	verr := &ValidationError{}
	if err := validate.Struct(in); err != nil {
		fieldErrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return err
		}
		for _, fe := range fieldErrs {
			verr.Missing = append(verr.Missing, fe.Field())
		}
	}

	if strictEmail {
		if email := fields.Get(FieldEmail.Key); email != "" && !IsEmail(email) {
			verr.InvalidEmail = true
		}
	}

	if len(verr.Missing) == 0 && !verr.InvalidEmail {
		return nil
	}
	return verr
}

// IsEmail reports whether s is a single well-formed address.
func IsEmail(s string) bool {
	return validate.Var(s, "required,email") == nil
}
