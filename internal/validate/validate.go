// Package validate wraps go-playground/validator behind a field-error
// representation the form handlers can render directly.
package validate

import (
	"log"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// FieldError is one failed check on one form field.
type FieldError struct {
	Field   string
	Message string
}

var v = newValidator()

func newValidator() *validator.Validate {
	val := validator.New(validator.WithRequiredStructEnabled())
	if err := val.RegisterValidation("strongpassword", strongPassword); err != nil {
		log.Fatalf("validate: failed to register strongpassword rule: %v", err)
	}
	return val
}

// strongPassword enforces the account password policy: at least 12
// characters with at least one lowercase letter, one uppercase letter, one
// digit and one symbol.
func strongPassword(fl validator.FieldLevel) bool {
	password := fl.Field().String()
	if len(password) < 12 {
		return false
	}

	var hasLower, hasUpper, hasDigit, hasSymbol bool
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			hasSymbol = true
		}
	}
	return hasLower && hasUpper && hasDigit && hasSymbol
}

// PasswordRequirements returns the password policy for form display.
func PasswordRequirements() []string {
	return []string{
		"At least 12 characters long",
		"At least 1 lowercase letter (a-z)",
		"At least 1 uppercase letter (A-Z)",
		"At least 1 number (0-9)",
		"At least 1 symbol (!@#$%^&*...)",
	}
}

// Struct validates s and translates failures into field errors using the
// messages map, keyed by "Field.tag" with a "Field" fallback.
func Struct(s interface{}, messages map[string]string) []FieldError {
	err := v.Struct(s)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []FieldError{{Field: "", Message: "Invalid input."}}
	}

	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		msg := messages[fe.StructField()+"."+fe.Tag()]
		if msg == "" {
			msg = messages[fe.StructField()]
		}
		if msg == "" {
			msg = fe.StructField() + " is invalid."
		}
		out = append(out, FieldError{Field: fe.StructField(), Message: msg})
	}
	return out
}
