package normalize

import (
	"fmt"
	"strings"
	"time"

	"maintcli/pkg/contracts/domain"
)

// dateLayouts are tried in order. Day and month may be zero padded or not.
var dateLayouts = []string{
	"2006-1-2", // 2024-01-15
	"2-1-2006", // 15-01-2024
	"2/1/2006", // 15/01/2024
	"2.1.2006", // 15.01.2024
	"2006/1/2", // 2024/01/15
}

// ParseDate normalizes an intervention date to YYYY-MM-DD.
// Unparsable dates are reported invalid and render as an empty cell.
func ParseDate(raw string) Result[time.Time] {
	s := strings.TrimSpace(raw)
	if s == "" {
		return missing(time.Time{}, "")
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return parsed(t, t.Format(domain.DateLayout))
		}
	}

	return invalid(time.Time{}, "", fmt.Sprintf("unrecognized date format %q", s))
}
