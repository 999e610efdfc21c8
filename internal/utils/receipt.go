package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// GenerateReceiptNumber formats RCP-YYYYMMDD-HHMMSS-mmm-RRRR in UTC.
func GenerateReceiptNumber() string {
	now := time.Now().UTC()

	datePart := now.Format("20060102-150405")
	millis := now.Nanosecond() / int(time.Millisecond)

	return fmt.Sprintf(
		"RCP-%s-%03d-%04d",
		datePart,
		millis,
		randomBelow(10000, now),
	)
}

// GenerateTransactionNumber returns the 7-digit number shown on the
// payment-complete screen.
func GenerateTransactionNumber() string {
	return fmt.Sprintf("%d", 1000000+randomBelow(9000000, time.Now()))
}

func randomBelow(n int64, now time.Time) int64 {
	v, err := rand.Int(rand.Reader, big.NewInt(n))
	if err != nil {
		// fallback: time-based entropy
		return now.UnixNano() % n
	}
	return v.Int64()
}
