package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/yigit/registrar/internal/pkg/apperrors"
)

// Validation rule patterns
var (
	// Clock pattern - 24 hour HH:MM
	ClockPattern = `^([01]?\d|2[0-3]):[0-5]\d$`

	// Date pattern - MM-DD-YYYY
	DatePattern = `^\d{2}-\d{2}-\d{4}$`
)

// CompiledPatterns caches compiled regex patterns for better performance
var CompiledPatterns = struct {
	Clock *regexp.Regexp
	Date  *regexp.Regexp
}{
	Clock: regexp.MustCompile(ClockPattern),
	Date:  regexp.MustCompile(DatePattern),
}

// EnumLookup resolves an enum name to its allowed values
type EnumLookup func(name string) []string

var (
	mu       sync.RWMutex
	enums    EnumLookup = func(string) []string { return nil }
	validate *validator.Validate
	initOnce sync.Once
)

// SetEnums installs the table the `enum=<name>` tag reads from
func SetEnums(lookup EnumLookup) {
	mu.Lock()
	defer mu.Unlock()
	enums = lookup
}

func allowed(name string) []string {
	mu.RLock()
	defer mu.RUnlock()
	return enums(name)
}

func instance() *validator.Validate {
	initOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		// Report fields by their storage name
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})

		_ = validate.RegisterValidation("enum", func(fl validator.FieldLevel) bool {
			value := fl.Field().String()
			for _, v := range allowed(fl.Param()) {
				if v == value {
					return true
				}
			}
			return false
		})
		_ = validate.RegisterValidation("clock", func(fl validator.FieldLevel) bool {
			return CompiledPatterns.Clock.MatchString(fl.Field().String())
		})
		_ = validate.RegisterValidation("date", func(fl validator.FieldLevel) bool {
			return CompiledPatterns.Date.MatchString(fl.Field().String())
		})
	})
	return validate
}

// Struct validates s and reports every failing field as an apperrors.ValidationError
func Struct(entity string, s interface{}) error {
	err := instance().Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate %s: %w", strings.ToLower(entity), err)
	}

	fields := make([]apperrors.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, apperrors.FieldError{
			Field:   fe.Field(),
			Rule:    fe.Tag(),
			Param:   fe.Param(),
			Message: Message(fe),
		})
	}
	return apperrors.NewValidationError(entity, fields...)
}

// Message renders one failed rule for the operator
func Message(fe validator.FieldError) string {
	field := fe.Field()
	isString := fe.Kind() == reflect.String

	switch fe.Tag() {
	case "required", "required_if":
		return fmt.Sprintf("%s is required", field)
	case "min":
		if isString {
			return fmt.Sprintf("%s must be at least %s characters long", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		if isString {
			return fmt.Sprintf("%s must be at most %s characters long", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "email":
		return fmt.Sprintf("%s must be a valid e-mail address", field)
	case "enum":
		return fmt.Sprintf("invalid value for field '%s'. Allowed values are: %s", field, strings.Join(allowed(fe.Param()), ", "))
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "clock":
		return fmt.Sprintf("%s must be a time in HH:MM format", field)
	case "date":
		return fmt.Sprintf("%s must be a date in MM-DD-YYYY format", field)
	}
	return fmt.Sprintf("%s failed the %s rule", field, fe.Tag())
}
