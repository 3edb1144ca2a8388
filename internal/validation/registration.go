package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Registration is the sign-up form.
type Registration struct {
	Username    string `validate:"required,max=64,nospace"`
	Email       string `validate:"required,email"`
	DisplayName string `validate:"required,max=64"`
	Age         int    `validate:"gte=0,lte=150"`
}

// formValidate is the validator instance for form structs.
// Initialized in init() with custom validators.
var formValidate *validator.Validate

func init() {
	formValidate = validator.New(validator.WithRequiredStructEnabled())

	// Usernames seed avatar URLs, so they may not contain whitespace.
	if err := formValidate.RegisterValidation("nospace", validateNoSpace); err != nil {
		panic(fmt.Sprintf("failed to register nospace validator: %v", err))
	}
}

func validateNoSpace(fl validator.FieldLevel) bool {
	return !strings.ContainsAny(fl.Field().String(), " \t\r\n")
}

// FieldError names the first form field that failed and the rule it broke.
type FieldError struct {
	Field string
	Rule  string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s failed %q validation", e.Field, e.Rule)
}

// ValidateRegistration checks the sign-up form. Returns a *FieldError for the
// first violated rule.
func ValidateRegistration(r Registration) error {
	err := formValidate.Struct(r)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return &FieldError{Field: verrs[0].Field(), Rule: verrs[0].Tag()}
	}
	return err
}
