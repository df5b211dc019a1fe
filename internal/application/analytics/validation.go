package analytics

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/NataliPereb/sales-bonus/internal/domain/sales"
	"github.com/NataliPereb/sales-bonus/internal/domain/shared"
	"github.com/go-playground/validator/v10"
)

var datasetValidator = newDatasetValidator()

func newDatasetValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})
	return v
}

// validateDataset checks that the dataset is present, that sellers, products and
// purchase records are non-empty, and that customers is present (it may be empty).
func validateDataset(dataset *sales.Dataset) error {
	if dataset == nil {
		return fmt.Errorf("%w: dataset is nil", shared.ErrInvalidInput)
	}

	err := datasetValidator.Struct(dataset)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	problems := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		switch fe.Tag() {
		case "required":
			problems = append(problems, fe.Field()+" is missing")
		case "min":
			problems = append(problems, fe.Field()+" is empty")
		default:
			problems = append(problems, fe.Field()+" failed "+fe.Tag())
		}
	}
	return fmt.Errorf("%w: %s", shared.ErrInvalidInput, strings.Join(problems, ", "))
}

// validateStrategies rejects absent strategies, including typed nils such as a nil
// RevenueFunc stored in the interface.
func validateStrategies(strategies Strategies) error {
	var missing []string
	if isNil(strategies.Revenue) {
		missing = append(missing, "revenue")
	}
	if isNil(strategies.Bonus) {
		missing = append(missing, "bonus")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", shared.ErrInvalidStrategies, strings.Join(missing, ", "))
	}
	return nil
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Func, reflect.Map, reflect.Slice, reflect.Interface, reflect.Chan:
		return rv.IsNil()
	default:
		return false
	}
}
