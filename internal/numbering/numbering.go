// Package numbering produces sequential human-readable document numbers
// such as INV-001. Numbers are a best-effort uniqueness aid, not a strict
// sequence: nothing serializes concurrent creations, so two simultaneous
// callers can receive the same value.
package numbering

import (
	"fmt"
	"strconv"
	"strings"
)

// Document number prefixes.
const (
	PrefixInvoice   = "INV"
	PrefixQuotation = "QUO"
	PrefixReceipt   = "REC"
)

// width is the zero-padded digit count of the numeric suffix.
const width = 3

// Seed returns the first number in a sequence, e.g. INV-001.
func Seed(prefix string) string {
	return fmt.Sprintf("%s-%0*d", prefix, width, 1)
}

// Next returns the number following latest. An empty latest yields the seed
// value. A latest that does not match PREFIX-### also falls back to the
// seed value rather than erroring; callers tolerate this.
func Next(latest, prefix string) string {
	if latest == "" {
		return Seed(prefix)
	}

	suffix, ok := strings.CutPrefix(latest, prefix+"-")
	if !ok {
		return Seed(prefix)
	}

	n, err := strconv.Atoi(suffix)
	if err != nil || n < 0 {
		return Seed(prefix)
	}

	return fmt.Sprintf("%s-%0*d", prefix, width, n+1)
}
