package dto

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/jsamuelsen/route-fetch-service/internal/domain"
)

var (
	// ErrValidation wraps validator field errors.
	ErrValidation = errors.New("validation failed")

	// ErrBinding wraps JSON, query and path decoding failures.
	ErrBinding = errors.New("binding failed")
)

var poiTypePattern = regexp.MustCompile(`^[a-z]+(,[a-z]+)*$`)

// Validator returns the shared validator. Field errors are named after the
// json, form or uri tag the client actually sent.
var Validator = sync.OnceValue(func() *validator.Validate {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, key := range []string{"json", "form", "uri"} {
			name, _, _ := strings.Cut(fld.Tag.Get(key), ",")

			switch name {
			case "":
				continue
			case "-":
				return ""
			default:
				return name
			}
		}

		return fld.Name
	})

	_ = v.RegisterValidation("routekind", func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		if value == "" {
			return true
		}

		_, err := domain.ParseRouteKind(value)

		return err == nil
	})

	_ = v.RegisterValidation("poitypes", func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		return value == "" || poiTypePattern.MatchString(value)
	})

	return v
})

// Validate checks v against its validate tags.
func Validate(v any) error {
	if err := Validator().Struct(v); err != nil {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}

	return nil
}

// BindAndValidate decodes the JSON body into v and validates it.
func BindAndValidate(c *gin.Context, v any) error {
	return bindThenValidate(c.ShouldBindJSON(v), v)
}

// BindQueryAndValidate decodes the query string into v and validates it.
func BindQueryAndValidate(c *gin.Context, v any) error {
	return bindThenValidate(c.ShouldBindQuery(v), v)
}

// BindURIAndValidate decodes path parameters into v and validates it.
func BindURIAndValidate(c *gin.Context, v any) error {
	return bindThenValidate(c.ShouldBindUri(v), v)
}

func bindThenValidate(bindErr error, v any) error {
	if bindErr != nil {
		return fmt.Errorf("%w: %w", ErrBinding, bindErr)
	}

	return Validate(v)
}

// ValidationErrors maps each failing field path, such as
// "waypoints[1].latitude", to a readable message.
func ValidationErrors(err error) map[string]string {
	details := map[string]string{}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return details
	}

	for _, fe := range fieldErrs {
		path := fe.Field()
		if _, rest, ok := strings.Cut(fe.Namespace(), "."); ok {
			path = rest
		}

		details[path] = fieldMessage(fe)
	}

	return details
}

// IsValidationError reports whether err carries validator field errors.
func IsValidationError(err error) bool {
	var fieldErrs validator.ValidationErrors
	return errors.As(err, &fieldErrs)
}

func fieldMessage(fe validator.FieldError) string {
	param := strings.ToLower(fe.Param())

	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "required_without":
		return "this field is required without " + param
	case "gte":
		return "must be greater than or equal to " + param
	case "lte":
		return "must be less than or equal to " + param
	case "gt":
		return "must be greater than " + param
	case "lt":
		return "must be less than " + param
	case "oneof":
		return "must be one of: " + param
	case "min":
		return "must be at least " + param + lengthUnit(fe.Kind())
	case "max":
		return "must be at most " + param + lengthUnit(fe.Kind())
	case "routekind":
		return "must be one of: " + routeKindList()
	case "poitypes":
		return "must be a comma separated list of lowercase names"
	default:
		return "failed validation: " + fe.Tag()
	}
}

// lengthUnit names what min and max count for strings and slices.
func lengthUnit(kind reflect.Kind) string {
	switch kind {
	case reflect.String:
		return " characters"
	case reflect.Slice, reflect.Array:
		return " items"
	default:
		return ""
	}
}

func routeKindList() string {
	names := make([]string, len(domain.RouteKinds))
	for i, k := range domain.RouteKinds {
		names[i] = string(k)
	}

	return strings.Join(names, " ")
}
