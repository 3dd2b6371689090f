package httpx

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

// ValidationFields flattens validator errors into a field-keyed map
// suitable for ProblemFields.
func ValidationFields(err error) map[string]string {
	fields := map[string]string{}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			fields[fe.Field()] = fe.Tag()
		}
	}
	return fields
}
