package validator

import (
	"errors"
	"reflect"
	"strings"

	val "github.com/go-playground/validator/v10"
)

var messages = map[string]string{
	"required": "{field} is required",
	"uuid":     "{field} must be a valid UUID",
	"dateonly": "{field} must use the YYYY-MM-DD format",
	"oneof":    "{field} must be one of {param}",
	"gte":      "{field} must be greater than or equal to {param}",
	"lte":      "{field} must be less than or equal to {param}",
	"min":      "{field} must be greater than or equal to {param}",
	"max":      "{field} must be less than or equal to {param}",
}

// jsonName reports fields under their JSON name so messages match the request body.
func jsonName(field reflect.StructField) string {
	name, _, _ := strings.Cut(field.Tag.Get("json"), ",")

	switch name {
	case "-":
		return ""
	case "":
		return field.Name
	default:
		return name
	}
}

// message renders one sentence per failed field, joined with "; ".
func message(err error) string {
	var fieldErrors val.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return err.Error()
	}

	sentences := make([]string, 0, len(fieldErrors))

	for _, fieldErr := range fieldErrors {
		template, ok := messages[fieldErr.Tag()]
		if !ok {
			sentences = append(sentences, fieldErr.Error())

			continue
		}

		sentences = append(sentences, strings.NewReplacer("{field}", fieldErr.Field(), "{param}", fieldErr.Param()).Replace(template))
	}

	return strings.Join(sentences, "; ")
}
