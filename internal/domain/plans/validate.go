package plans

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Usamos los nombres JSON para que los errores coincidan con el payload.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Normalize recorta espacios de los campos de texto. No modifica el original.
func Normalize(p TreatmentPlan) TreatmentPlan {
	out := p.Clone()
	out.ID = strings.TrimSpace(out.ID)
	out.Name = strings.TrimSpace(out.Name)
	out.StartDate = strings.TrimSpace(out.StartDate)
	for i := range out.Medications {
		m := &out.Medications[i]
		m.ID = strings.TrimSpace(m.ID)
		m.Name = strings.TrimSpace(m.Name)
		m.Dosage = strings.TrimSpace(m.Dosage)
		m.FirstDoseTime = strings.TrimSpace(m.FirstDoseTime)
	}
	return out
}

// Validate aplica las reglas de un plan guardable. Espera un plan ya normalizado.
func Validate(p TreatmentPlan) error {
	if err := validate.Struct(p); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fromFieldError(verrs[0])
		}
		return &ValidationError{Reason: err.Error()}
	}

	seen := make(map[string]struct{}, len(p.Medications))
	for i, m := range p.Medications {
		if m.ID == "" {
			continue
		}
		if _, dup := seen[m.ID]; dup {
			return &ValidationError{
				Field:  fmt.Sprintf("medications[%d].id", i),
				Reason: "must be unique within the plan",
			}
		}
		seen[m.ID] = struct{}{}
	}
	return nil
}

func fromFieldError(fe validator.FieldError) *ValidationError {
	field := fe.Namespace()
	if i := strings.Index(field, "."); i >= 0 {
		field = field[i+1:]
	}

	var reason string
	switch fe.Tag() {
	case "required":
		reason = "is required"
	case "min":
		if fe.Kind() == reflect.Slice {
			reason = fmt.Sprintf("must have at least %s item(s)", fe.Param())
		} else {
			reason = "must be at least " + fe.Param()
		}
	case "max":
		reason = "must be at most " + fe.Param()
	case "datetime":
		reason = "must match layout " + fe.Param()
	case "excludes":
		reason = fmt.Sprintf("must not contain %q", fe.Param())
	default:
		reason = "failed rule " + fe.Tag()
	}
	return &ValidationError{Field: field, Reason: reason}
}
