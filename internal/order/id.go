package order

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"
)

const (
	idPrefix       = "SH"
	idSuffixLength = 4
	base36Digits   = "0123456789abcdefghijklmnopqrstuvwxyz"
)

// GenerateID builds the display order number: prefix + base-36 millisecond
// timestamp + short random base-36 suffix, all uppercased. For anonymous
// sessions this is the only identifier the order ever has.
func GenerateID(now time.Time) string {
	timestamp := strconv.FormatInt(now.UnixMilli(), 36)
	suffix := make([]byte, idSuffixLength)
	for i := range suffix {
		suffix[i] = base36Digits[rand.Intn(len(base36Digits))]
	}
	return idPrefix + strings.ToUpper(timestamp) + strings.ToUpper(string(suffix))
}

// EstimatedDelivery renders the today+3 .. today+5 calendar-day range.
func EstimatedDelivery(now time.Time) string {
	start := now.AddDate(0, 0, 3)
	end := now.AddDate(0, 0, 5)
	return fmt.Sprintf("%s - %s", start.Format("Mon, Jan 2"), end.Format("Mon, Jan 2"))
}
