// Package mask reformats partially typed document numbers, postal codes
// and phone numbers into their canonical Brazilian display forms.
//
// Every function is pure, total and idempotent: it accepts arbitrary
// input (pastes included), keeps only the characters that matter, caps
// the length, and renders however much valid input exists so far without
// trailing separators or placeholders.
package mask

import "strings"

// digits strips everything but 0-9 from s.
func digits(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}

// Phone formats a phone number progressively:
// "(DD", "(DD) DDDD", "(DD) DDDD-DDDD" and, at 11 digits,
// "(DD) DDDDD-DDDD".
func Phone(v string) string {
	r := digits(v)
	if len(r) > 11 {
		r = r[:11]
	}
	switch {
	case len(r) == 0:
		return ""
	case len(r) <= 2:
		return "(" + r
	case len(r) <= 6:
		return "(" + r[:2] + ") " + r[2:]
	case len(r) <= 10:
		return "(" + r[:2] + ") " + r[2:6] + "-" + r[6:]
	default:
		return "(" + r[:2] + ") " + r[2:7] + "-" + r[7:]
	}
}

// CEP formats a postal code, inserting the separator once the 6th digit
// is typed: "00000-000".
func CEP(v string) string {
	r := digits(v)
	if len(r) > 8 {
		r = r[:8]
	}
	if len(r) > 5 {
		return r[:5] + "-" + r[5:]
	}
	return r
}

// CNPJ formats a corporate tax id progressively toward
// "XX.XXX.XXX/XXXX-XX".
func CNPJ(v string) string {
	r := digits(v)
	if len(r) > 14 {
		r = r[:14]
	}
	var b strings.Builder
	for i, c := range r {
		switch i {
		case 2, 5:
			b.WriteByte('.')
		case 8:
			b.WriteByte('/')
		case 12:
			b.WriteByte('-')
		}
		b.WriteRune(c)
	}
	return b.String()
}

// CPF formats an individual tax id progressively toward
// "XXX.XXX.XXX-XX".
func CPF(v string) string {
	r := digits(v)
	if len(r) > 11 {
		r = r[:11]
	}
	var b strings.Builder
	for i, c := range r {
		switch i {
		case 3, 6:
			b.WriteByte('.')
		case 9:
			b.WriteByte('-')
		}
		b.WriteRune(c)
	}
	return b.String()
}

// CRECI formats a broker license number. Input keeps digits plus the
// entity-type letters J (company) and F (individual), capped at 8
// characters; a present type letter is rendered as "<digits>-<letter>",
// J winning when both appear.
func CRECI(v string) string {
	var clean strings.Builder
	for _, r := range strings.ToUpper(v) {
		if (r >= '0' && r <= '9') || r == 'J' || r == 'F' {
			clean.WriteRune(r)
		}
	}
	s := clean.String()
	if len(s) > 8 {
		s = s[:8]
	}
	if !strings.ContainsAny(s, "JF") {
		return s
	}
	letter := "F"
	if strings.Contains(s, "J") {
		letter = "J"
	}
	nums := strings.Map(func(r rune) rune {
		if r == 'J' || r == 'F' {
			return -1
		}
		return r
	}, s)
	if nums == "" {
		return letter
	}
	return nums + "-" + letter
}
