package query

import (
	"fmt"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// Define a single validator to do all of the validations for us.
var v = validator.New()

// ValidatedQueryParam extracts a query parameter and validates it.
func ValidatedQueryParam(ctx echo.Context, name, validationTag string) (string, error) {
	value := ctx.QueryParam(name)

	// Validate the value.
	if err := v.Var(value, validationTag); err != nil {
		return "", err
	}

	return value, nil
}

// ValidateIntQueryParam extracts an optional integer query parameter and
// validates it.
func ValidateIntQueryParam(ctx echo.Context, name string, defaultValue *int, checks ...string) (int, error) {
	errMsg := fmt.Sprintf("invalid query parameter: %s", name)
	value := ctx.QueryParam(name)

	// Assume that the parameter is required if there's no default.
	if defaultValue == nil && value == "" {
		return 0, fmt.Errorf("missing required query parameter: %s", name)
	}

	// If no value was provided at this point then the parameter is optional;
	// return the default value.
	if value == "" {
		return *defaultValue, nil
	}

	// Parse the parameter value.
	result, err := strconv.Atoi(value)
	if err != nil {
		return 0, errors.Wrap(err, errMsg)
	}

	// Run any additional validations on the value.
	for _, check := range checks {
		if err := v.Var(result, check); err != nil {
			return 0, errors.Wrap(err, errMsg)
		}
	}

	return result, nil
}
