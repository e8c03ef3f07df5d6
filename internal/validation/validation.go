// Package validation holds the request validation rules shared by gin's
// binding engine and by handlers that merge query and body parameters.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/SscSPs/knowledge_hub/internal/apperrors"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// mobilePattern accepts E.164 style numbers: an optional "+", then up to
// fifteen digits with no leading zero.
var mobilePattern = regexp.MustCompile(`^\+?[1-9]\d{1,14}$`)

var (
	once     sync.Once
	validate *validator.Validate
)

func isMobile(fl validator.FieldLevel) bool {
	return mobilePattern.MatchString(fl.Field().String())
}

// jsonFieldName reports fields by their json name in error messages.
func jsonFieldName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return fld.Name
	}
	return name
}

func configure(v *validator.Validate) error {
	v.RegisterTagNameFunc(jsonFieldName)
	return v.RegisterValidation("mobile", isMobile)
}

// RegisterGinValidators installs the custom rules on gin's default validator,
// so `binding:"mobile"` works with ShouldBindJSON.
func RegisterGinValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("gin binding engine is not go-playground/validator")
	}
	return configure(v)
}

// Validator returns the process wide validator used with `validate` tags.
func Validator() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		if err := configure(validate); err != nil {
			panic(fmt.Sprintf("validation: %v", err))
		}
	})
	return validate
}

// Struct validates s and converts failures to an apperrors.ErrValidation
// carrying a readable message.
func Struct(s any) error {
	err := Validator().Struct(s)
	if err == nil {
		return nil
	}
	return Describe(err)
}

// Describe turns validator errors into a single apperrors.ErrValidation.
// Other errors are wrapped unchanged.
func Describe(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describeField(fe))
	}
	return fmt.Errorf("%w: %s", apperrors.ErrValidation, strings.Join(msgs, "; "))
}

func describeField(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email address"
	case "mobile":
		return field + " must be a valid mobile number"
	case "min":
		return fmt.Sprintf("%s must be at least %s long", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s long", field, fe.Param())
	}
	return fmt.Sprintf("%s failed on the '%s' rule", field, fe.Tag())
}
