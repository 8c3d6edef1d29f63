package inquiry

import (
	"slices"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	enums := map[string][]string{
		"industry":         Industries,
		"team_size":        TeamSizes,
		"data_sensitivity": DataSensitivities,
		"budget_range":     BudgetRanges,
		"project_urgency":  ProjectUrgencies,
		"tool":             Tools,
	}
	for tag, allowed := range enums {
		allowed := allowed
		_ = v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			return slices.Contains(allowed, fl.Field().String())
		})
	}

	return v
}

// Validate checks an inquiry against the form schema. The returned error is
// a validator.ValidationErrors carrying per-field detail; callers log it and
// show the user only a generic message.
func Validate(q *Inquiry) error {
	return validate.Struct(q)
}
