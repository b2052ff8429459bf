package app

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// Validator returns the shared validator. It reads the same `binding` tags
// gin uses, so input structs are checked identically whether they arrive over
// HTTP or from another caller, and it reports fields by their JSON names.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.SetTagName("binding")
		validate.RegisterTagNameFunc(jsonFieldName)
	})
	return validate
}

func jsonFieldName(f reflect.StructField) string {
	name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return f.Name
	}
	return name
}

// validateInput checks v and turns field errors into a validation Error.
func validateInput(v any) error {
	err := Validator().Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return WrapValidation(nil, ValidationMessage(verrs))
	}
	return WrapValidation(err, "Input tidak valid")
}

// ValidationMessage lists every failing field in one line.
func ValidationMessage(errs validator.ValidationErrors) string {
	parts := make([]string, 0, len(errs))
	for _, fe := range errs {
		parts = append(parts, fieldMessage(fe))
	}
	return strings.Join(parts, "; ")
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s tidak boleh kosong", field)
	case "len":
		return fmt.Sprintf("%s harus terdiri dari %s karakter", field, fe.Param())
	case "number", "numeric":
		return fmt.Sprintf("%s harus berupa angka", field)
	case "uuid":
		return fmt.Sprintf("%s harus berupa UUID", field)
	case "gte":
		return fmt.Sprintf("%s minimal %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s maksimal %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s tidak valid (%s)", field, fe.Tag())
	}
}
