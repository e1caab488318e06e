package validation

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"portfolio-contact-backend/internal/domain"
)

// New returns a validator configured for request payloads.
func New() *validator.Validate {
	v := validator.New()
	RegisterValidators(v)
	return v
}

// RegisterValidators makes field errors report JSON names ("phone_number")
// instead of Go struct field names.
func RegisterValidators(v *validator.Validate) {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
}

// ValidateContact trims every field and checks it against the contact rules.
// All violated fields are reported together.
func ValidateContact(v *validator.Validate, req domain.ContactRequest) (domain.ValidatedContact, map[string]string) {
	vc := domain.ValidatedContact{
		Name:        strings.TrimSpace(req.Name),
		Email:       strings.TrimSpace(req.Email),
		PhoneNumber: strings.TrimSpace(req.PhoneNumber),
		Message:     strings.TrimSpace(req.Message),
	}
	if err := v.Struct(vc); err != nil {
		return domain.ValidatedContact{}, FormatValidationErrors(err)
	}
	return vc, nil
}
