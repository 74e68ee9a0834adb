package validate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/AmolBhalerao8/dechico/internal/domain/enums"
)

var instance *validator.Validate

func init() {
	instance = validator.New(validator.WithRequiredStructEnabled())
	_ = instance.RegisterValidation("notblank", notBlank)
	_ = instance.RegisterValidation("direction", direction)
}

func Required(value string) bool {
	return strings.TrimSpace(value) != ""
}

// Struct validates v by its `validate` tags and reports the first failing
// field as "<field> failed <tag>".
func Struct(v any) error {
	err := instance.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		first := fieldErrs[0]
		return fmt.Errorf("%s failed %s", first.Field(), first.Tag())
	}
	return err
}

func notBlank(fl validator.FieldLevel) bool {
	return Required(fl.Field().String())
}

func direction(fl validator.FieldLevel) bool {
	_, ok := enums.ParseDirection(fl.Field().String())
	return ok
}
