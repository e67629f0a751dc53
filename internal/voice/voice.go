package voice

import (
	"fmt"
	"strings"
)

// Voice-friendly formatting for values the agent reads back to the
// caller over the phone.

// #region ssn

// FormatSSN renders the SSN last-4 digit by digit: "7234" → "7-2-3-4".
func FormatSSN(ssnLast4 string) string {
	var digits []string
	for _, r := range ssnLast4 {
		if r >= '0' && r <= '9' {
			digits = append(digits, string(r))
		}
	}
	return strings.Join(digits, "-")
}

// #endregion ssn

// #region email

// FormatEmail spells an email address out for reading aloud:
// "jdoe@gmail.com" → "J-D-O-E at G-M-A-I-L dot com".
func FormatEmail(email string) string {
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return spellOut(email)
	}
	local := email[:at]
	domain := email[at+1:]

	dot := strings.LastIndex(domain, ".")
	if dot < 0 {
		return spellOut(local) + " at " + spellOut(domain)
	}
	return spellOut(local) + " at " + spellOut(domain[:dot]) + " dot " + domain[dot+1:]
}

// spellOut upper-cases and hyphenates letters and digits, keeping other
// runes (dots, underscores) spoken as words.
func spellOut(s string) string {
	var parts []string
	for _, r := range s {
		switch {
		case r == '.':
			parts = append(parts, "dot")
		case r == '_':
			parts = append(parts, "underscore")
		case r == '-':
			parts = append(parts, "dash")
		default:
			parts = append(parts, strings.ToUpper(string(r)))
		}
	}
	return strings.Join(parts, "-")
}

// #endregion email

// #region currency

// FormatIncome renders a dollar amount with thousands separators:
// 4250 → "$4,250".
func FormatIncome(amount int) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}
	s := fmt.Sprintf("%d", amount)
	for i := len(s) - 3; i > 0; i -= 3 {
		s = s[:i] + "," + s[i:]
	}
	if neg {
		return "-$" + s
	}
	return "$" + s
}

// #endregion currency
