package order

import (
	"crypto/rand"
	"math"
)

const (
	codeAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	codeLength   = 9
)

// NewCode generates a short base-36 order code. Codes are terminal-generated
// with no cross-terminal coordination; the unique index on order_number is
// what turns the (small) collision chance into a failed insert instead of
// silent data corruption.
func NewCode() string {
	buf := make([]byte, codeLength)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand failing means something far worse than order codes
		// is broken; produce a degenerate but valid code.
		for i := range buf {
			buf[i] = 0
		}
	}
	for i, b := range buf {
		buf[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}
	return string(buf)
}

// RoundCents rounds to two decimal places; totals are sums of
// price*quantity and accumulate float noise otherwise.
func RoundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
