// Package quantity normalizes user-entered quantity strings.
//
// Field crews type amounts with either a comma or a dot decimal separator
// depending on device locale; everything downstream works with float64.
package quantity

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/kovalyshyn/workvol/internal/common"
)

// Policy selects the accepted value range for a normalized quantity.
type Policy int

const (
	// ForAdd requires a strictly positive quantity.
	ForAdd Policy = iota
	// ForEdit permits zero, which corrects an erroneous entry to nothing.
	ForEdit
)

// Normalize parses a locale-variant numeric string into a canonical value.
// Only the first comma is treated as a decimal separator, matching what the
// input form accepts. Errors wrap common.ErrInvalidQuantity.
func Normalize(input string, policy Policy) (float64, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return 0, fmt.Errorf("%w: empty input", common.ErrInvalidQuantity)
	}

	s = strings.Replace(s, ",", ".", 1)

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %q is not a number", common.ErrInvalidQuantity, input)
	}

	switch policy {
	case ForAdd:
		if v <= 0 {
			return 0, fmt.Errorf("%w: %q must be greater than zero", common.ErrInvalidQuantity, input)
		}
	case ForEdit:
		if v < 0 {
			return 0, fmt.Errorf("%w: %q must not be negative", common.ErrInvalidQuantity, input)
		}
	}

	return v, nil
}
