package classify

import (
	"fmt"
	"strings"
	"time"

	"github.com/flipwell/compintel/internal/domain"
)

// dateLayouts covers the formats seen across transaction and status sources:
// "Jul 11, 2022" timeline rows, "12/01/2022" status tables, and ISO dates
// from already-normalized feeds.
var dateLayouts = []string{
	"Jan 2, 2006",
	"January 2, 2006",
	"01/02/2006",
	"1/2/2006",
	"2006-01-02",
}

// ParseDate parses a raw source date into a day-precision Date.
func ParseDate(raw string) (domain.Date, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return domain.Date{}, fmt.Errorf("empty date")
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return domain.DateOf(t), nil
		}
	}
	return domain.Date{}, fmt.Errorf("unrecognized date %q", s)
}

// ParseAmount extracts a whole-dollar amount from raw text like "$1,358,000".
// A "*" placeholder or empty string reports absent; a price is never invented
// for them.
func ParseAmount(raw string) (int64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" || s == "*" {
		return 0, false
	}
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	var n int64
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
		n = n*10 + int64(r-'0')
	}
	return n, true
}
