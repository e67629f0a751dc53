package validate

import (
	"regexp"
	"strconv"
	"strings"
)

// Best-effort regex extraction from raw text. Used only as a fallback
// when the extraction capability does not apply (offline harness runs).

// #region patterns

var (
	ssnLast4Pattern = regexp.MustCompile(`\d{4}`)
	emailPattern    = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	amountPattern   = regexp.MustCompile(`\$?([\d,]+)`)

	combinedTenurePattern = regexp.MustCompile(`(\d+)\s*years?\D*?(\d+)\s*months?`)
	monthsTenurePattern   = regexp.MustCompile(`(\d+)\s*months?`)
	yearsTenurePattern    = regexp.MustCompile(`(\d+)\s*years?`)
	bareNumberPattern     = regexp.MustCompile(`\d+`)
)

// #endregion patterns

// #region extractors

// ExtractSSNLast4 finds the first 4-digit run in the input.
func ExtractSSNLast4(input string) (string, bool) {
	m := ssnLast4Pattern.FindString(input)
	return m, m != ""
}

// ExtractEmail finds the first email address, lowercased.
func ExtractEmail(input string) (string, bool) {
	m := emailPattern.FindString(input)
	if m == "" {
		return "", false
	}
	return strings.ToLower(m), true
}

// ExtractAmount finds the first currency amount, stripping separators.
func ExtractAmount(input string) (int, bool) {
	m := amountPattern.FindStringSubmatch(input)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(strings.ReplaceAll(m[1], ",", ""))
	if err != nil {
		return 0, false
	}
	return n, true
}

// ExtractTenureMonths finds an employment duration and normalizes it to
// months. Combined forms ("2 years and 3 months") are checked before
// single units so the year part is not lost. A bare number is read as
// months when under 20, else as years — an ambiguous heuristic for
// values like 18-24, kept as-is.
func ExtractTenureMonths(input string) (int, bool) {
	lower := strings.ToLower(input)

	if m := combinedTenurePattern.FindStringSubmatch(lower); m != nil {
		years, _ := strconv.Atoi(m[1])
		months, _ := strconv.Atoi(m[2])
		return years*12 + months, true
	}
	if m := monthsTenurePattern.FindStringSubmatch(lower); m != nil {
		months, _ := strconv.Atoi(m[1])
		return months, true
	}
	if m := yearsTenurePattern.FindStringSubmatch(lower); m != nil {
		years, _ := strconv.Atoi(m[1])
		return years * 12, true
	}
	if m := bareNumberPattern.FindString(lower); m != "" {
		n, _ := strconv.Atoi(m)
		if n < 20 {
			return n, true
		}
		return n * 12, true
	}
	return 0, false
}

// #endregion extractors
