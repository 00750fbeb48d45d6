package config

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/san-kum/fieldtrace/internal/trace"
)

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their yaml key.
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	_ = validate.RegisterValidation("finite", validateFinite)
	_ = validate.RegisterValidation("direction", validateDirection)
}

func validateFinite(fl validator.FieldLevel) bool {
	v := fl.Field()
	if v.Kind() != reflect.Float64 && v.Kind() != reflect.Float32 {
		return false
	}
	f := v.Float()
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func validateDirection(fl validator.FieldLevel) bool {
	_, err := trace.ParseDirection(fl.Field().String())
	return err == nil
}

// describe turns validator errors into one readable line.
func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		key := strings.TrimPrefix(fe.Namespace(), "Config.")
		switch fe.Tag() {
		case "required_without":
			msgs = append(msgs, "field or expr is required")
		case "excluded_with":
			msgs = append(msgs, "field and expr are mutually exclusive")
		case "gte", "gt":
			msgs = append(msgs, fmt.Sprintf("%s must be %s %s, got %v", key, fe.Tag(), fe.Param(), fe.Value()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s, got %v", key, fe.Tag(), fe.Value()))
		}
	}
	return strings.Join(msgs, "; ")
}
