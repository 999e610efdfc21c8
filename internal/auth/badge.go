package auth

import (
	"fmt"
	"math/rand"
)

// SimulatedBadgePassword is filled in alongside a simulated badge scan.
const SimulatedBadgePassword = "scanned-password"

// SimulatedBadgeID stands in for a badge reader: EMP followed by three digits.
func SimulatedBadgeID() string {
	return fmt.Sprintf("EMP%03d", rand.Intn(1000))
}
