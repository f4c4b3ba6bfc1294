// Package payment generates SIMULATED payment references. There is no real
// settlement behind them: a reference is a random bank label and account
// number, produced so a checkout has something to show on its receipt. It
// must never be treated as a real settlement instrument.
package payment

import (
	"fmt"
	"regexp"

	"github.com/c14230103-dot/projectcspevolene/random"
)

var banks = [...]string{"BCA", "BNI", "BRI", "Mandiri", "CIMB"}

const accountDigits = 10

var refPattern = regexp.MustCompile(`^(BCA|BNI|BRI|Mandiri|CIMB) - [1-9][0-9]{9}$`)

// SimulatedRef returns a fake "<bank> - <10-digit account>" reference.
func SimulatedRef() string {
	bank := banks[random.Intn(len(banks))]

	// No leading zero, matching a real-looking account number.
	first := byte('1' + random.Intn(9))
	return fmt.Sprintf("%s - %c%s", bank, first, random.Digits(accountDigits-1))
}

// IsSimulatedRef reports whether s has the shape produced by SimulatedRef.
func IsSimulatedRef(s string) bool {
	return refPattern.MatchString(s)
}
