package session

import (
	"github.com/go-playground/validator/v10"
)

// loginAttempt is the ephemeral email + one-time passcode pair being
// validated. It exists only for the duration of one login call and is
// never persisted.
type loginAttempt struct {
	Identifier string `validate:"required,email"`
	Passcode   string `validate:"required,len=6"`
}

var loginValidator = validator.New(validator.WithRequiredStructEnabled())

// validateLogin checks the attempt locally so an obviously bad passcode
// never costs a network round trip.
func validateLogin(identifier, passcode string) error {
	attempt := loginAttempt{Identifier: identifier, Passcode: passcode}
	err := loginValidator.Struct(attempt)
	if err == nil {
		return nil
	}

	if fieldErrs, ok := err.(validator.ValidationErrors); ok && len(fieldErrs) > 0 {
		switch fieldErrs[0].Field() {
		case "Passcode":
			return &ValidationError{Field: "passcode", Message: "passcode must be 6 digits"}
		case "Identifier":
			return &ValidationError{Field: "identifier", Message: "a valid email address is required"}
		}
	}
	return &ValidationError{Message: "invalid login details"}
}
