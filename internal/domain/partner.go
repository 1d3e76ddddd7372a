package domain

// ============================================================
// Partner record (output of the registration form)
// ============================================================

// DocumentKind identifies which of the three mutually exclusive
// identity documents a partner record carries.
type DocumentKind string

const (
	DocCNPJ  DocumentKind = "cnpj"
	DocCPF   DocumentKind = "cpf"
	DocCRECI DocumentKind = "creci"
)

// Valid reports whether k is one of the known document kinds.
func (k DocumentKind) Valid() bool {
	return k == DocCNPJ || k == DocCPF || k == DocCRECI
}

// ChannelType is the contact channel of an interaction history entry.
type ChannelType string

const (
	ChannelPhone    ChannelType = "Telefone"
	ChannelWhatsApp ChannelType = "WhatsApp"
	ChannelEmail    ChannelType = "E-mail"
	ChannelMeeting  ChannelType = "Reunião"
	ChannelVideo    ChannelType = "Vídeo"
)

// Valid reports whether t is a known channel type.
func (t ChannelType) Valid() bool {
	switch t {
	case ChannelPhone, ChannelWhatsApp, ChannelEmail, ChannelMeeting, ChannelVideo:
		return true
	}
	return false
}

// Partner statuses. The hub only distinguishes active from inactive.
const (
	StatusActive   = "Ativo"
	StatusInactive = "Inativo"
)

// IdentityDocument is the finalized identity of a partner. For CRECI the
// license value is substituted into Value so downstream storage is uniform,
// and Region carries the issuing state.
type IdentityDocument struct {
	Kind   DocumentKind `json:"kind"`
	Value  string       `json:"value"`
	Region string       `json:"region,omitempty"`
}

// AddressParts holds the discrete address fields while the form is open.
// City and State are owned by enrichment; Number and Complement are always
// user supplied. The parts are folded into a single canonical string at
// submit and re-parsed when a record is reopened for editing.
type AddressParts struct {
	CEP          string `json:"cep"`
	Street       string `json:"street"`
	Number       string `json:"number"`
	Complement   string `json:"complement,omitempty"`
	Neighborhood string `json:"neighborhood"`
	City         string `json:"city"`
	State        string `json:"state"`
}

// InteractionRecord is one dated entry of the relationship timeline.
// Records are immutable once added, except for deletion.
type InteractionRecord struct {
	ID              string      `json:"id"`
	Date            string      `json:"date"` // YYYY-MM-DD
	Type            ChannelType `json:"type"`
	Summary         string      `json:"summary"`
	Notes           string      `json:"notes,omitempty"`
	NextContactDate string      `json:"next_contact_date,omitempty"`
}

// ContactSummary is derived from the head of the interaction history at
// submit time. All fields are empty when the history is empty.
type ContactSummary struct {
	LastContactDate string      `json:"last_contact_date,omitempty"`
	LastContactType ChannelType `json:"last_contact_type,omitempty"`
	ContactSummary  string      `json:"contact_summary,omitempty"`
	NextContactDate string      `json:"next_contact_date,omitempty"`
}

// CommercialTerms are the negotiated partnership conditions.
type CommercialTerms struct {
	CommissionRate float64 `json:"commission_rate"`
	BrokerCount    int     `json:"broker_count"`
}

// Partner is the validated, normalized record handed to the persistence
// collaborator. Address is the canonical formatted string, not parts.
type Partner struct {
	ID                 string              `json:"id"`
	Name               string              `json:"name"`
	Document           IdentityDocument    `json:"document"`
	Email              string              `json:"email"`
	Phone              string              `json:"phone"`
	Website            string              `json:"website,omitempty"`
	CEP                string              `json:"cep"`
	Address            string              `json:"address"`
	Responsible        string              `json:"responsible,omitempty"`
	PartnershipManager string              `json:"partnership_manager,omitempty"`
	HiringManager      string              `json:"hiring_manager,omitempty"`
	Commercial         CommercialTerms     `json:"commercial"`
	Status             string              `json:"status"`
	Notes              string              `json:"notes,omitempty"`
	RegistrationDate   string              `json:"registration_date"` // YYYY-MM-DD
	ContactHistory     []InteractionRecord `json:"contact_history"`
	Derived            ContactSummary      `json:"derived_summary"`
}

// LatestInteraction returns the head of the history, which by the insertion
// rule is the most recently added entry regardless of its date field.
func (p *Partner) LatestInteraction() (InteractionRecord, bool) {
	if len(p.ContactHistory) == 0 {
		return InteractionRecord{}, false
	}
	return p.ContactHistory[0], true
}
