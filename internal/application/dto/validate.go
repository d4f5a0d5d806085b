package dto

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jhoicas/Granja-api/internal/domain"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Los errores reportan el nombre JSON (o de query string) del campo, que es el que conoce el cliente.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, key := range []string{"json", "query"} {
			tag := strings.SplitN(f.Tag.Get(key), ",", 2)[0]
			if tag != "" && tag != "-" {
				return tag
			}
		}
		return f.Name
	})
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		field := fl.Field()
		switch field.Kind() {
		case reflect.String:
			return strings.TrimSpace(field.String()) != ""
		case reflect.Ptr:
			if field.IsNil() {
				return true
			}
			return strings.TrimSpace(field.Elem().String()) != ""
		}
		return true
	})
	return v
}

// Validate aplica las etiquetas validate de in y devuelve un *domain.ValidationError
// con el primer campo inválido.
func Validate(in any) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	var errs validator.ValidationErrors
	if errors.As(err, &errs) && len(errs) > 0 {
		fe := errs[0]
		return domain.NewValidationError(fe.Field(), validationMessage(fe))
	}
	return domain.NewValidationError("", err.Error())
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "es requerido"
	case "notblank":
		return "no puede estar vacío"
	case "max":
		return fmt.Sprintf("debe tener como máximo %s caracteres", fe.Param())
	case "min":
		return fmt.Sprintf("debe ser al menos %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("debe ser uno de: %s", fe.Param())
	case "email":
		return "debe ser un email válido"
	case "uuid":
		return "debe ser un UUID válido"
	default:
		return "valor inválido"
	}
}
