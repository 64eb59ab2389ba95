package commit

import (
	"fmt"
	"time"
)

// durationDays returns the whole number of days between received and
// published (both YYYY-MM-DD), formatted as a plain integer string. Either
// date being absent or unparseable leaves the duration empty rather than
// failing the commit -- it is a convenience field, not a correctness gate.
func durationDays(received, published string) string {
	if received == "" || published == "" {
		return ""
	}
	r, err := time.Parse("2006-01-02", received)
	if err != nil {
		return ""
	}
	p, err := time.Parse("2006-01-02", published)
	if err != nil {
		return ""
	}
	days := int(p.Sub(r).Hours() / 24)
	if days < 0 {
		return ""
	}
	return fmt.Sprintf("%d", days)
}
