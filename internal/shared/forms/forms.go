package forms

import "github.com/go-playground/validator/v10"

var validate = validator.New()

// Validate checks the struct's validate tags and returns field-level
// messages keyed by the struct field name, or nil when everything passed.
func Validate(s any) map[string]string {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return map[string]string{"__all__": err.Error()}
	}

	msgs := make(map[string]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs[fe.Field()] = message(fe)
	}
	return msgs
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "email":
		return "enter a valid email address"
	case "min":
		return "value is too short (minimum " + fe.Param() + ")"
	default:
		return "invalid value"
	}
}
