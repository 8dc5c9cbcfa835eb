package service

import (
	"errors"
	"regexp"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// MaxPasswordBytes is the longest password bcrypt can hash.
const MaxPasswordBytes = 72

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	must(v.RegisterValidation("notblank", validators.NotBlank))
	must(v.RegisterValidation("email_address", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	}))
	must(v.RegisterValidation("bcrypt_max", func(fl validator.FieldLevel) bool {
		return len(fl.Field().String()) <= MaxPasswordBytes
	}))
	return v
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

// Rule maps a failed validation tag on a struct field to a client-facing message.
// An empty Tag matches any tag on Field.
type Rule struct {
	Field   string
	Tag     string
	Message string
}

// Check validates the `validate` tags of s. When several fields fail, the
// message of the earliest matching rule wins.
func Check(s any, rules []Rule) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var failures validator.ValidationErrors
	if !errors.As(err, &failures) {
		return Invalid("Invalid request body")
	}
	for _, rule := range rules {
		for _, fe := range failures {
			if fe.StructField() == rule.Field && (rule.Tag == "" || fe.Tag() == rule.Tag) {
				return Invalid(rule.Message)
			}
		}
	}
	return Invalid("Invalid request body")
}
