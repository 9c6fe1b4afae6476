// pkg/checker/fodselsnummer.go
package checker

import (
	"context"
	"regexp"
	"strings"

	"github.com/praetorian-inc/vouch/pkg/types"
)

// Day/month shape including D-numbers (day+40) and H-numbers (month+40).
var fodselsnummerRe = regexp.MustCompile(
	`^(([04][1-9]|[15][0-9]|[26][0-9])(0[1-9]|1[0-2])|[37]0(0[469]|11)|[37][01](0[13578]|1[02]))[0-9]{2} ?[0-9]{3} ?[0-9]{2}$`,
)

// Control digit weights per the standard modulo-11 scheme.
var (
	fnrWeightsK1 = [9]int{3, 7, 6, 1, 8, 9, 4, 5, 2}
	fnrWeightsK2 = [10]int{5, 4, 3, 2, 7, 6, 5, 4, 3, 2}
)

// FodselsnummerChecker validates Norwegian national identity numbers
// (fødselsnummer). Validation is fully offline: a shape and checksum
// check with no network I/O, so this checker never returns an error
// outcome.
type FodselsnummerChecker struct{}

// NewFodselsnummerChecker creates a new fødselsnummer checker.
func NewFodselsnummerChecker() *FodselsnummerChecker {
	return &FodselsnummerChecker{}
}

// Name returns the checker name. Not a GitHub secret type, but still a
// checker selectable by name or declared kind.
func (c *FodselsnummerChecker) Name() string {
	return "fodselsnummer"
}

// Description returns the checker description.
func (c *FodselsnummerChecker) Description() string {
	return "Validates Norwegian national identity numbers (fødselsnummer)"
}

// Kind returns the secret kind this checker handles.
func (c *FodselsnummerChecker) Kind() string {
	return "fodselsnummer"
}

// Check validates the number's shape and both control digits.
func (c *FodselsnummerChecker) Check(ctx context.Context, secret string) (types.Outcome, error) {
	number := strings.TrimSpace(secret)

	if !fodselsnummerRe.MatchString(number) {
		return types.Invalid("not a fødselsnummer (shape mismatch)"), nil
	}

	number = strings.ReplaceAll(number, " ", "")

	digits := make([]int, 11)
	for i, r := range number {
		digits[i] = int(r - '0')
	}

	k1 := controlDigit(digits[:9], fnrWeightsK1[:])
	if k1 < 0 || k1 != digits[9] {
		return types.Invalid("first control digit mismatch"), nil
	}

	k2 := controlDigit(digits[:10], fnrWeightsK2[:])
	if k2 < 0 || k2 != digits[10] {
		return types.Invalid("second control digit mismatch"), nil
	}

	return types.Valid("checksum verified"), nil
}

// controlDigit computes a modulo-11 control digit. A remainder of 1 has
// no legal control digit and is reported as -1.
func controlDigit(digits, weights []int) int {
	sum := 0
	for i, d := range digits {
		sum += d * weights[i]
	}

	switch remainder := sum % 11; remainder {
	case 0:
		return 0
	case 1:
		return -1
	default:
		return 11 - remainder
	}
}
