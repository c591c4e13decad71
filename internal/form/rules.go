package form

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Required passes when the value is non-empty.
func Required(message string) Rule {
	return Rule{
		Message: message,
		Check: func(value string) bool {
			return validate.Var(value, "required") == nil
		},
	}
}

// NumberGreaterThan passes when the value is coercible to a finite
// number strictly greater than min. Inf and NaN spellings parse but
// are not amounts.
func NumberGreaterThan(min float64, message string) Rule {
	tag := fmt.Sprintf("gt=%v", min)
	return Rule{
		Message: message,
		Check: func(value string) bool {
			number, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return false
			}
			if math.IsInf(number, 0) || math.IsNaN(number) {
				return false
			}
			return validate.Var(number, tag) == nil
		},
	}
}

// NumberAtMost passes when the value is coercible to a finite number
// no greater than max.
func NumberAtMost(max float64, message string) Rule {
	tag := fmt.Sprintf("lte=%v", max)
	return Rule{
		Message: message,
		Check: func(value string) bool {
			number, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return false
			}
			if math.IsInf(number, 0) || math.IsNaN(number) {
				return false
			}
			return validate.Var(number, tag) == nil
		},
	}
}

// OneOf passes when the value equals one of the options.
func OneOf(message string, options ...string) Rule {
	tag := "oneof=" + strings.Join(options, " ")
	return Rule{
		Message: message,
		Check: func(value string) bool {
			return validate.Var(value, tag) == nil
		},
	}
}
