package validate

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

// phoneRegexp accepts international numbers with an optional leading
// plus and country code, 9 to 15 digits.
var phoneRegexp = regexp.MustCompile(`^\+?1?\d{9,15}$`)

var instance = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Registration only fails for an empty tag name.
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phoneRegexp.MatchString(fl.Field().String())
	})

	return v
}

// Struct validates a request DTO against its validate tags.
func Struct(v any) error {
	return instance.Struct(v)
}
