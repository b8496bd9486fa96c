package auth

import (
	"regexp"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// Vietnamese mobile numbers: leading 0 or +84, then a carrier digit and
// eight more digits.
var phonePattern = regexp.MustCompile(`^(0|\+84)[35789]\d{8}$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("vnphone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("strongpwd", func(fl validator.FieldLevel) bool {
		return strongPassword(fl.Field().String())
	})
	return v
}

// strongPassword enforces the signup policy: at least 8 characters with
// one lowercase, one uppercase, one digit and one symbol.
func strongPassword(pw string) bool {
	if len(pw) < 8 {
		return false
	}
	var lower, upper, digit, symbol bool
	for _, r := range pw {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			symbol = true
		}
	}
	return lower && upper && digit && symbol
}

type signupInput struct {
	FullName string `validate:"required"`
	Email    string `validate:"required,email"`
	Phone    string `validate:"required,vnphone"`
	Password string `validate:"required,strongpwd"`
}

type profileInput struct {
	Email *string `validate:"omitempty,email"`
	Phone *string `validate:"omitempty,vnphone"`
}

// checkStruct runs the validator and converts its output into a
// ValidationError keyed by the JSON-ish field name.
func checkStruct(in any) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fieldName(fe.Field())] = fieldMessage(fe)
	}
	return &ValidationError{Fields: fields}
}

func fieldName(structField string) string {
	switch structField {
	case "FullName":
		return "fullName"
	case "Email":
		return "email"
	case "Phone":
		return "phone"
	case "Password":
		return "password"
	default:
		return structField
	}
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "vnphone":
		return "must be a valid phone number"
	case "strongpwd":
		return "must be at least 8 characters and contain a lowercase, an uppercase, a number and a symbol"
	default:
		return "is invalid"
	}
}

// validatePassword checks a bare password outside of struct binding
// (reset and change-password flows).
func validatePassword(pw string) error {
	if pw == "" {
		return &ValidationError{Fields: map[string]string{"password": "is required"}}
	}
	if !strongPassword(pw) {
		return &ValidationError{Fields: map[string]string{
			"password": "must be at least 8 characters and contain a lowercase, an uppercase, a number and a symbol",
		}}
	}
	return nil
}
