// Package address folds discrete address fields into the single canonical
// string used for storage and display, and re-parses that string when a
// record is reopened for editing.
package address

import "strings"

// Assemble produces the canonical address string:
//
//	street, number[ - complement] - neighborhood - city/region
//
// An empty complement is omitted without leaving a stray separator. The
// remaining fields are rendered literally even when blank so the format
// stays stable for re-parsing.
func Assemble(p Parts) string {
	var b strings.Builder
	b.WriteString(p.Street)
	b.WriteString(", ")
	b.WriteString(p.Number)
	if p.Complement != "" {
		b.WriteString(" - ")
		b.WriteString(p.Complement)
	}
	b.WriteString(" - ")
	b.WriteString(p.Neighborhood)
	b.WriteString(" - ")
	b.WriteString(p.City)
	b.WriteString("/")
	b.WriteString(p.State)
	return b.String()
}

// Parts are the discrete fields of a canonical address string.
type Parts struct {
	Street       string
	Number       string
	Complement   string
	Neighborhood string
	City         string
	State        string
}

// Parse splits a canonical string back into parts. The split is purely
// positional: segments on " - ", the head on ", ", the tail on "/".
// Records stored with a complement shift the tail segments one slot; the
// street and number always round-trip.
func Parse(s string) Parts {
	var p Parts
	segs := strings.Split(s, " - ")
	if len(segs) > 0 {
		head := strings.SplitN(segs[0], ", ", 2)
		p.Street = head[0]
		if len(head) > 1 {
			p.Number = head[1]
		}
	}
	if len(segs) > 1 {
		p.Neighborhood = segs[1]
	}
	if len(segs) > 2 {
		cityState := strings.SplitN(segs[2], "/", 2)
		p.City = cityState[0]
		if len(cityState) > 1 {
			p.State = cityState[1]
		}
	}
	return p
}

// Preview renders the live form preview, substituting placeholders for
// fields not yet filled in ("..." and "SN" for a missing number).
func Preview(p Parts) string {
	if p.Street == "" && p.City == "" {
		return "Informe o CEP ou Logradouro..."
	}
	or := func(v, fallback string) string {
		if v == "" {
			return fallback
		}
		return v
	}
	out := or(p.Street, "...") + ", " + or(p.Number, "SN")
	if p.Complement != "" {
		out += " (" + p.Complement + ")"
	}
	return out + " - " + or(p.Neighborhood, "...") + " - " + or(p.City, "...") + "/" + or(p.State, "...")
}
