package domain

// ============================================================
// Form draft DTOs
// ============================================================

// FieldErrors carries the inline error texts the form renders. Empty
// strings mean the field is currently clean.
type FieldErrors struct {
	Document string `json:"document,omitempty"`
	CEP      string `json:"cep,omitempty"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Website  string `json:"website,omitempty"`
}

// FormSnapshot is the full observable state of a draft at one instant.
// It is recomputed on every read; no stale validity is ever served.
type FormSnapshot struct {
	ID   string       `json:"id"`
	Kind DocumentKind `json:"kind"`

	// Masked input values.
	Document string `json:"document"`
	CRECI    string `json:"creci"`
	CRECIUF  string `json:"creci_uf"`

	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Website string `json:"website,omitempty"`

	Address        AddressParts `json:"address"`
	AddressPreview string       `json:"address_preview"`

	Responsible        string  `json:"responsible,omitempty"`
	PartnershipManager string  `json:"partnership_manager,omitempty"`
	HiringManager      string  `json:"hiring_manager,omitempty"`
	BrokerCount        int     `json:"broker_count"`
	CommissionRate     float64 `json:"commission_rate"`
	Status             string  `json:"status"`
	Notes              string  `json:"notes,omitempty"`

	ContactHistory []InteractionRecord `json:"contact_history"`

	DocumentValid    bool        `json:"document_valid"`
	Errors           FieldErrors `json:"errors"`
	SearchingCEP     bool        `json:"searching_cep"`
	SearchingCompany bool        `json:"searching_company"`
	CanSubmit        bool        `json:"can_submit"`

	// Deep link enabled only while the phone validates.
	WhatsAppURL string `json:"whatsapp_url,omitempty"`

	// Set when the draft edits an existing partner.
	EditingPartnerID string `json:"editing_partner_id,omitempty"`
}

// UpdateFieldRequest is one keystroke-level change to a draft field.
type UpdateFieldRequest struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

// SetKindRequest switches the active document kind.
type SetKindRequest struct {
	Kind DocumentKind `json:"kind"`
}

// BlurRequest confirms a field after the user leaves it.
type BlurRequest struct {
	Field string `json:"field"`
}

// FormMetrics is the JSON snapshot served by GET /v1/metrics/form.
type FormMetrics struct {
	CEPLookups      int64   `json:"cep_lookups"`
	CEPNotFound     int64   `json:"cep_not_found"`
	CEPErrors       int64   `json:"cep_errors"`
	CNPJLookups     int64   `json:"cnpj_lookups"`
	CNPJNotFound    int64   `json:"cnpj_not_found"`
	CNPJErrors      int64   `json:"cnpj_errors"`
	StaleDiscarded  int64   `json:"stale_discarded"`
	CacheHitRate    float64 `json:"cache_hit_rate"`
	SubmitsAccepted int64   `json:"submits_accepted"`
	SubmitsRejected int64   `json:"submits_rejected"`
}

// AddInteractionRequest appends an entry to the draft's history.
type AddInteractionRequest struct {
	Date            string      `json:"date"`
	Type            ChannelType `json:"type"`
	Summary         string      `json:"summary"`
	Notes           string      `json:"notes,omitempty"`
	NextContactDate string      `json:"next_contact_date,omitempty"`
}
