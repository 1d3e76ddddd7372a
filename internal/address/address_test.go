package address_test

import (
	"testing"

	"github.com/partnerhub/partner-hub-go/internal/address"
)

func TestAssemble(t *testing.T) {
	cases := []struct {
		name string
		in   address.Parts
		want string
	}{
		{
			name: "no complement",
			in: address.Parts{
				Street: "Av. Paulista", Number: "1000",
				Neighborhood: "Bela Vista", City: "SP", State: "SP",
			},
			want: "Av. Paulista, 1000 - Bela Vista - SP/SP",
		},
		{
			name: "with complement",
			in: address.Parts{
				Street: "Rua das Flores", Number: "12", Complement: "Apto 34",
				Neighborhood: "Centro", City: "Marília", State: "SP",
			},
			want: "Rua das Flores, 12 - Apto 34 - Centro - Marília/SP",
		},
		{
			name: "blank fields render literally",
			in:   address.Parts{Street: "Rua X"},
			want: "Rua X,  -  - /",
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := address.Assemble(c.in); got != c.want {
				t.Errorf("Assemble() = %q, want %q", got, c.want)
			}
		})
	}
}

func TestAssembleParseRoundTrip(t *testing.T) {
	in := address.Parts{
		Street: "Av. Paulista", Number: "1000",
		Neighborhood: "Bela Vista", City: "SP", State: "SP",
	}
	s := address.Assemble(in)
	got := address.Parse(s)

	if got.Street != in.Street || got.Number != in.Number {
		t.Fatalf("street/number did not round-trip: got %+v", got)
	}
	if got.Neighborhood != in.Neighborhood || got.City != in.City || got.State != in.State {
		t.Errorf("tail fields did not round-trip: got %+v", got)
	}
}

func TestParsePositionalWithComplement(t *testing.T) {
	// A stored complement shifts the tail slots; street and number still
	// round-trip, which is the documented guarantee.
	got := address.Parse("Rua das Flores, 12 - Apto 34 - Centro - Marília/SP")
	if got.Street != "Rua das Flores" || got.Number != "12" {
		t.Fatalf("street/number = %q/%q", got.Street, got.Number)
	}
	if got.Neighborhood != "Apto 34" {
		t.Errorf("positional parse changed: neighborhood = %q", got.Neighborhood)
	}
}

func TestParseEmpty(t *testing.T) {
	got := address.Parse("")
	if got.Street != "" || got.Number != "" || got.City != "" {
		t.Errorf("Parse(\"\") = %+v, want zero parts", got)
	}
}

func TestPreview(t *testing.T) {
	if got := address.Preview(address.Parts{}); got != "Informe o CEP ou Logradouro..." {
		t.Errorf("empty preview = %q", got)
	}
	got := address.Preview(address.Parts{Street: "Av. Paulista", Complement: "cj 5", City: "SP", State: "SP"})
	want := "Av. Paulista, SN (cj 5) - ... - SP/SP"
	if got != want {
		t.Errorf("Preview() = %q, want %q", got, want)
	}
}
