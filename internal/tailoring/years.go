package tailoring

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/jonathan/cv-ats/internal/types"
)

// defaultYears is reported when no experience entry has parseable dates.
const defaultYears = 2

var (
	dateTokenRe = regexp.MustCompile(`(?i)(?:\b(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?\s+)?(?:\b(\d{1,2})/)?\b((?:19|20)\d{2})\b|\b(present|current|now)\b`)

	monthNumbers = map[string]time.Month{
		"jan": time.January, "feb": time.February, "mar": time.March, "apr": time.April,
		"may": time.May, "jun": time.June, "jul": time.July, "aug": time.August,
		"sep": time.September, "oct": time.October, "nov": time.November, "dec": time.December,
	}
)

// estimateYears sums the months covered by entries with a parseable start and
// end and rounds the total to whole years.
func estimateYears(entries []types.ExperienceEntry, now time.Time) int {
	months := 0
	parsed := false
	for _, e := range entries {
		start, end, ok := parseRange(e.DateRange, now)
		if !ok {
			continue
		}
		parsed = true
		if span := monthsBetween(start, end); span > 0 {
			months += span
		}
	}
	if !parsed {
		return defaultYears
	}
	return int(math.Round(float64(months) / 12))
}

func parseRange(dateRange string, now time.Time) (start, end time.Time, ok bool) {
	matches := dateTokenRe.FindAllStringSubmatch(dateRange, -1)
	if len(matches) < 2 {
		return time.Time{}, time.Time{}, false
	}
	start, ok = tokenTime(matches[0], now)
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	end, ok = tokenTime(matches[1], now)
	return start, end, ok
}

// tokenTime converts one dateTokenRe match. Present/current map to now; a
// bare year means January of that year.
func tokenTime(m []string, now time.Time) (time.Time, bool) {
	if m[4] != "" {
		return now, true
	}
	year, err := strconv.Atoi(m[3])
	if err != nil {
		return time.Time{}, false
	}
	month := time.January
	switch {
	case m[1] != "":
		month = monthNumbers[strings.ToLower(m[1])]
	case m[2] != "":
		n, err := strconv.Atoi(m[2])
		if err != nil || n < 1 || n > 12 {
			return time.Time{}, false
		}
		month = time.Month(n)
	}
	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC), true
}

func monthsBetween(start, end time.Time) int {
	return (end.Year()-start.Year())*12 + int(end.Month()) - int(start.Month())
}
