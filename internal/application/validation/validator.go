// Package validation centraliza las reglas declarativas de entrada (tags `validate`) y traduce
// sus fallas a domain.ValidationError con claves por ruta JSON.
package validation

import (
	"errors"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jhoicas/refineria-api/internal/domain"
	"github.com/shopspring/decimal"
)

// DateLayout formato de fecha aceptado además de RFC3339.
const DateLayout = "2006-01-02"

// Validator envoltorio sobre validator.Validate con los tipos del dominio registrados.
type Validator struct {
	v *validator.Validate
}

// New construye el validador: nombres de campo desde el tag json, decimal.Decimal validable
// con min/max y las reglas propias "date" y "decimal_places".
func New() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	_ = v.RegisterValidation("date", func(fl validator.FieldLevel) bool {
		_, err := ParseDate(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("decimal_places", func(fl validator.FieldLevel) bool {
		max, err := strconv.Atoi(fl.Param())
		if err != nil {
			return false
		}
		s := strconv.FormatFloat(fl.Field().Float(), 'f', -1, 64)
		if i := strings.IndexByte(s, '.'); i >= 0 {
			return len(s)-i-1 <= max
		}
		return true
	})
	return &Validator{v: v}
}

// Struct valida s y devuelve *domain.ValidationError si alguna regla falla.
func (val *Validator) Struct(s interface{}) error {
	err := val.v.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return domain.ErrInvalidInput
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fieldPath(fe.Namespace())] = message(fe)
	}
	return &domain.ValidationError{Fields: fields}
}

// ParseDate acepta AAAA-MM-DD o RFC3339.
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// fieldPath quita el nombre del struct raíz: "BatchRequest.processes[0].notes" -> "processes[0].notes".
func fieldPath(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "es obligatorio"
	case "oneof":
		return "debe ser uno de: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "min", "gte":
		return "debe ser mayor o igual a " + fe.Param()
	case "max", "lte":
		if fe.Kind() == reflect.String {
			return "no debe superar " + fe.Param() + " caracteres"
		}
		return "debe ser menor o igual a " + fe.Param()
	case "len":
		return "debe tener " + fe.Param() + " caracteres"
	case "date":
		return "fecha inválida (AAAA-MM-DD)"
	case "decimal_places":
		return "admite como máximo " + fe.Param() + " decimales"
	case "uuid":
		return "debe ser un UUID válido"
	case "ne":
		return "no puede ser " + fe.Param()
	}
	return "valor inválido"
}
