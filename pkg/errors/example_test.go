// Package errors provides examples of structured error handling in colframe.
package errors_test

import (
	"fmt"
	"strconv"

	"github.com/colframe/colframe/pkg/errors"
)

// Example demonstrates basic error creation with details.
func Example() {
	err := errors.New(errors.ErrorTypeColumnNotFound, "column does not exist").
		WithDetail("column", "dbl_col")

	fmt.Println(err.Error())

	// Output:
	// column_not_found: column does not exist
}

// ExampleWrap shows how a converter failure is wrapped with context.
func ExampleWrap() {
	_, cause := strconv.Atoi("x1")

	err := errors.Wrap(cause, errors.ErrorTypeConversion, "converter failed").
		WithDetail("column", "str_col").
		WithDetail("position", 3)

	if errors.IsType(err, errors.ErrorTypeConversion) {
		fmt.Println("This is a conversion error")
	}
	fmt.Println(err.Details["position"])

	// Output:
	// This is a conversion error
	// 3
}

// ExampleTypeOf demonstrates branching on the error category.
func ExampleTypeOf() {
	err := errors.Newf(errors.ErrorTypeInvalidArgument, "stride must be positive, got %d", 0)

	switch errors.TypeOf(err) {
	case errors.ErrorTypeInvalidArgument:
		fmt.Println("invalid:", err.Message)
	default:
		fmt.Println("other")
	}

	// Output:
	// invalid: stride must be positive, got 0
}
