package httpdto

import (
	"errors"
	"reflect"
	"strings"

	catalog_errors "service-catalog/pkg/errors"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var categoryNameChars = func() [256]bool {
	var ok [256]bool
	for c := 'a'; c <= 'z'; c++ {
		ok[c] = true
	}
	for c := 'A'; c <= 'Z'; c++ {
		ok[c] = true
	}
	for c := '0'; c <= '9'; c++ {
		ok[c] = true
	}
	ok[' '], ok['-'], ok['.'] = true, true, true
	return ok
}()

// validCategoryName implements the "catalogname" tag: letters, digits,
// spaces, hyphens and dots.
func validCategoryName(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	for i := 0; i < len(s); i++ {
		if !categoryNameChars[s[i]] {
			return false
		}
	}
	return true
}

// RegisterValidators installs the custom rules on gin's validator and makes
// it report json field names.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("unexpected binding validator engine")
	}
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return f.Name
	})
	return v.RegisterValidation("catalogname", validCategoryName)
}

// BindingError converts a gin binding failure into a validation error.
func BindingError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return catalog_errors.Validation("body", "The request body is malformed.")
	}
	fields := make([]catalog_errors.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, catalog_errors.FieldError{Field: fe.Field(), Message: fieldMessage(fe)})
	}
	return catalog_errors.ValidationFields("One or more validation errors occurred.", fields...)
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "min":
		return fe.Field() + " must be at least " + fe.Param()
	case "max":
		return fe.Field() + " must be at most " + fe.Param()
	case "uuid":
		return fe.Field() + " must be a valid UUID"
	case "catalogname":
		return fe.Field() + " can only contain letters, numbers, spaces, hyphens and dots"
	default:
		return fe.Field() + " is invalid"
	}
}
