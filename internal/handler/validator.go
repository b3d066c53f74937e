package handler

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator plugs validator/v10 into echo. Field names in messages use the
// json tag so they match what the client sent.
type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Validator{validate: v}
}

func (v *Validator) Validate(i interface{}) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return &RequestError{Message: "Dados inválidos"}
	}
	return &RequestError{Message: describe(fieldErrs[0])}
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s é obrigatório", fe.Field())
	case "email":
		return "E-mail inválido"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s deve ter pelo menos %s caracteres", fe.Field(), fe.Param())
		}
		return fmt.Sprintf("%s deve ser no mínimo %s", fe.Field(), fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s excede o tamanho máximo (%s)", fe.Field(), fe.Param())
		}
		return fmt.Sprintf("%s deve ser no máximo %s", fe.Field(), fe.Param())
	case "gt":
		return fmt.Sprintf("%s deve ser maior que %s", fe.Field(), fe.Param())
	case "url":
		return fmt.Sprintf("%s deve ser uma URL válida", fe.Field())
	default:
		return fmt.Sprintf("%s inválido", fe.Field())
	}
}
