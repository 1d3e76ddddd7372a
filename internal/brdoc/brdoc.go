// Package brdoc validates Brazilian identity documents and the contact
// fields of the registration form.
//
// All validators are pure, total predicates: invalid input yields false,
// never an error or a panic, and nothing here performs I/O.
package brdoc

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

var emailRe = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,6}$`)

func onlyDigits(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}

// allSame reports whether s is a single repeated character. Sequences
// like "11111111111111" pass the checksum but are placeholder values.
func allSame(s string) bool {
	for i := 1; i < len(s); i++ {
		if s[i] != s[0] {
			return false
		}
	}
	return len(s) > 0
}

// ValidCNPJ runs the two-pass modulo-11 check over a corporate tax id.
// The weights descend from the starting position to 2 and wrap back to 9.
// Requires exactly 14 digits after stripping.
func ValidCNPJ(cnpj string) bool {
	d := onlyDigits(cnpj)
	if len(d) != 14 || allSame(d) {
		return false
	}
	if cnpjDigit(d[:12]) != int(d[12]-'0') {
		return false
	}
	return cnpjDigit(d[:13]) == int(d[13]-'0')
}

// cnpjDigit computes one check digit over the given base digits.
func cnpjDigit(base string) int {
	pos := len(base) - 7
	sum := 0
	for i := 0; i < len(base); i++ {
		sum += int(base[i]-'0') * pos
		pos--
		if pos < 2 {
			pos = 9
		}
	}
	if sum%11 < 2 {
		return 0
	}
	return 11 - sum%11
}

// ValidCPF runs the two-pass modulo-11 check over an individual tax id:
// weights descend from 10 (11 on the second pass), and a remainder of 10
// or 11 maps to 0. Requires exactly 11 digits after stripping.
func ValidCPF(cpf string) bool {
	d := onlyDigits(cpf)
	if len(d) != 11 || allSame(d) {
		return false
	}
	if cpfDigit(d, 9) != int(d[9]-'0') {
		return false
	}
	return cpfDigit(d, 10) == int(d[10]-'0')
}

func cpfDigit(d string, n int) int {
	sum := 0
	for i := 0; i < n; i++ {
		sum += int(d[i]-'0') * (n + 1 - i)
	}
	r := (sum * 10) % 11
	if r == 10 || r == 11 {
		r = 0
	}
	return r
}

// ValidCRECI is structural only: no checksum exists for broker licenses.
// It requires at least two digits in the number and a non-empty issuing
// region.
func ValidCRECI(number, region string) bool {
	return len(onlyDigits(number)) >= 2 && region != ""
}

// ValidEmail accepts the permissive local@domain.tld shape with a 2-6
// character top-level segment.
func ValidEmail(email string) bool {
	return emailRe.MatchString(email)
}

// ValidURL accepts the empty string (the field is optional). A non-empty
// value must parse as a URL with a host once https:// is prepended when
// no scheme is present.
func ValidURL(raw string) bool {
	if raw == "" {
		return true
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	return err == nil && u.Host != "" && strings.Contains(u.Host, ".")
}

// ValidPhone checks national phone plausibility: 10 or 11 digits, area
// code inside the 11-99 range, a leading 9 on the subscriber number when
// 11 digits are given, and no all-identical sequences.
func ValidPhone(phone string) bool {
	d := onlyDigits(phone)
	if len(d) != 10 && len(d) != 11 {
		return false
	}
	ddd, err := strconv.Atoi(d[:2])
	if err != nil || ddd < 11 || ddd > 99 {
		return false
	}
	if len(d) == 11 && d[2] != '9' {
		return false
	}
	return !allSame(d)
}
