package checkout

import (
	"fmt"
	"math/rand"
	"strings"
	"time"
)

const sessionSuffixAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// newSessionID mints the externally visible checkout correlator shared by
// every order of one checkout.
func newSessionID(now time.Time) string {
	return fmt.Sprintf("cf_session_%d_%s", now.UnixMilli(), randomBase36(5))
}

// newOrderID mints a 9 digit numeric order identifier.
func newOrderID() string {
	return fmt.Sprintf("%d", 100_000_000+rand.Intn(900_000_000))
}

func randomBase36(n int) string {
	var b strings.Builder
	b.Grow(n)
	for i := 0; i < n; i++ {
		b.WriteByte(sessionSuffixAlphabet[rand.Intn(len(sessionSuffixAlphabet))])
	}
	return b.String()
}
