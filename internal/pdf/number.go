package pdf

import (
	"fmt"
	"strings"
	"time"
)

// NumberPrefix anchors every document number issued by the company.
const NumberPrefix = "CIT"

// FormatNumber builds a document number from the order date:
//
//	CIT{MM}{DD}{YY}-{suffix}
//
// Month and day are zero padded, the year is two digits, and the suffix
// defaults to "1" when blank.
func FormatNumber(date time.Time, suffix string) string {
	s := strings.TrimSpace(suffix)
	if s == "" {
		s = "1"
	}
	return fmt.Sprintf("%s%02d%02d%02d-%s", NumberPrefix, int(date.Month()), date.Day(), date.Year()%100, s)
}
