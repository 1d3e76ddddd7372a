package domain

// ============================================================
// External registry responses
// ============================================================

// CEPResult is a resolved postal code. Registries may omit any field;
// absent fields come back as empty strings and are applied as-is.
type CEPResult struct {
	CEP          string `json:"cep"`
	Street       string `json:"street"`
	Neighborhood string `json:"neighborhood"`
	City         string `json:"city"`
	State        string `json:"state"`
}

// CompanyResult is a resolved corporate tax id. LegalName falls back to
// TradeName at merge time when the registry omits the former.
type CompanyResult struct {
	CNPJ         string `json:"cnpj"`
	LegalName    string `json:"legal_name"`
	TradeName    string `json:"trade_name,omitempty"`
	CEP          string `json:"cep"`
	Street       string `json:"street"`
	Number       string `json:"number,omitempty"`
	Neighborhood string `json:"neighborhood"`
	City         string `json:"city"`
	State        string `json:"state"`
}

// DisplayName picks the name a resolved company should be stored under.
func (c *CompanyResult) DisplayName() string {
	if c.LegalName != "" {
		return c.LegalName
	}
	return c.TradeName
}
