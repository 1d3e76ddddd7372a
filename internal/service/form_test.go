package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/partnerhub/partner-hub-go/internal/domain"
	"github.com/partnerhub/partner-hub-go/internal/infra/cache"
	"github.com/partnerhub/partner-hub-go/internal/infra/memstore"
	"github.com/partnerhub/partner-hub-go/internal/infra/observability"

	"go.uber.org/zap"
)

// stubCEPFetcher serves canned results keyed by the 8-digit code. A gate
// channel, when present, blocks the call until the test closes it.
type stubCEPFetcher struct {
	mu      sync.Mutex
	results map[string]*domain.CEPResult
	errs    map[string]error
	gates   map[string]chan struct{}
	calls   int
}

func (f *stubCEPFetcher) LookupCEP(ctx context.Context, cep string) (*domain.CEPResult, error) {
	f.mu.Lock()
	gate := f.gates[cep]
	f.calls++
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.errs[cep]; ok {
		return nil, err
	}
	if res, ok := f.results[cep]; ok {
		return res, nil
	}
	return nil, &domain.ErrNotFound{Resource: "cep", ID: cep}
}

type stubCompanyFetcher struct {
	mu      sync.Mutex
	results map[string]*domain.CompanyResult
	errs    map[string]error
	calls   int
}

func (f *stubCompanyFetcher) LookupCNPJ(ctx context.Context, cnpj string) (*domain.CompanyResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if err, ok := f.errs[cnpj]; ok {
		return nil, err
	}
	if res, ok := f.results[cnpj]; ok {
		return res, nil
	}
	return nil, &domain.ErrNotFound{Resource: "cnpj", ID: cnpj}
}

func newTestFormService(cep *stubCEPFetcher, cnpj *stubCompanyFetcher) (*FormService, *memstore.PartnerStore) {
	store := memstore.New()
	lookups := NewLookupService(
		cep,
		cnpj,
		cache.New[*domain.CEPResult](time.Minute),
		cache.New[*domain.CompanyResult](time.Minute),
		observability.NewMetrics(),
		zap.NewNop(),
	)
	svc := NewFormService(lookups, store, observability.NewMetrics(), zap.NewNop(), 2*time.Second)
	return svc, store
}

func update(t *testing.T, svc *FormService, id, field, value string) *domain.FormSnapshot {
	t.Helper()
	snap, err := svc.UpdateField(context.Background(), id, &domain.UpdateFieldRequest{Field: field, Value: value})
	if err != nil {
		t.Fatalf("UpdateField(%s) error: %v", field, err)
	}
	return snap
}

// waitFor polls the draft until cond holds or the deadline passes.
func waitFor(t *testing.T, svc *FormService, id string, cond func(*domain.FormSnapshot) bool) *domain.FormSnapshot {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		snap, err := svc.Snapshot(context.Background(), id)
		if err != nil {
			t.Fatalf("Snapshot error: %v", err)
		}
		if cond(snap) {
			return snap
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
	return nil
}

func TestUpdateFieldMasksDocument(t *testing.T) {
	svc, _ := newTestFormService(&stubCEPFetcher{}, &stubCompanyFetcher{})
	snap, err := svc.CreateDraft(context.Background())
	if err != nil {
		t.Fatalf("CreateDraft error: %v", err)
	}

	got := update(t, svc, snap.ID, "document", "11222333000")
	if got.Document != "11.222.333/000" {
		t.Errorf("partial cnpj mask = %q, want %q", got.Document, "11.222.333/000")
	}
	if got.DocumentValid {
		t.Error("incomplete document reported valid")
	}
}

func TestCEPLookupFillsAddress(t *testing.T) {
	cep := &stubCEPFetcher{results: map[string]*domain.CEPResult{
		"01310100": {CEP: "01310-100", Street: "Avenida Paulista", Neighborhood: "Bela Vista", City: "São Paulo", State: "SP"},
	}}
	svc, _ := newTestFormService(cep, &stubCompanyFetcher{})
	snap, _ := svc.CreateDraft(context.Background())

	got := update(t, svc, snap.ID, "cep", "01310100")
	if !got.SearchingCEP {
		t.Error("SearchingCEP not set right after trigger")
	}

	got = waitFor(t, svc, snap.ID, func(s *domain.FormSnapshot) bool { return !s.SearchingCEP })
	if got.Address.Street != "Avenida Paulista" {
		t.Errorf("street = %q, want %q", got.Address.Street, "Avenida Paulista")
	}
	if got.Address.City != "São Paulo" || got.Address.State != "SP" {
		t.Errorf("city/state = %q/%q", got.Address.City, got.Address.State)
	}
	if got.Errors.CEP != "" {
		t.Errorf("unexpected cep error %q", got.Errors.CEP)
	}
}

func TestStaleCEPResultDiscarded(t *testing.T) {
	gate := make(chan struct{})
	cep := &stubCEPFetcher{
		results: map[string]*domain.CEPResult{
			"01310100": {Street: "Avenida Paulista", Neighborhood: "Bela Vista", City: "São Paulo", State: "SP"},
			"04567000": {Street: "Rua Alvorada", Neighborhood: "Vila Olímpia", City: "São Paulo", State: "SP"},
		},
		gates: map[string]chan struct{}{"01310100": gate},
	}
	svc, _ := newTestFormService(cep, &stubCompanyFetcher{})
	snap, _ := svc.CreateDraft(context.Background())

	// First lookup parks on the gate, second resolves immediately.
	update(t, svc, snap.ID, "cep", "01310-100")
	update(t, svc, snap.ID, "cep", "04567-000")

	waitFor(t, svc, snap.ID, func(s *domain.FormSnapshot) bool { return s.Address.Street == "Rua Alvorada" })
	close(gate)

	got := waitFor(t, svc, snap.ID, func(s *domain.FormSnapshot) bool { return !s.SearchingCEP })
	if got.Address.Street != "Rua Alvorada" {
		t.Errorf("street = %q, stale first result overwrote the second", got.Address.Street)
	}
	if got.Address.Neighborhood != "Vila Olímpia" {
		t.Errorf("neighborhood = %q, want %q", got.Address.Neighborhood, "Vila Olímpia")
	}
}

func TestCEPNotFoundSetsError(t *testing.T) {
	svc, _ := newTestFormService(&stubCEPFetcher{}, &stubCompanyFetcher{})
	snap, _ := svc.CreateDraft(context.Background())

	update(t, svc, snap.ID, "cep", "99999999")
	got := waitFor(t, svc, snap.ID, func(s *domain.FormSnapshot) bool { return !s.SearchingCEP })
	if got.Errors.CEP != "CEP inexistente." {
		t.Errorf("cep error = %q, want %q", got.Errors.CEP, "CEP inexistente.")
	}
}

func TestCNPJLookupKeepsEditedName(t *testing.T) {
	cnpj := &stubCompanyFetcher{results: map[string]*domain.CompanyResult{
		"11222333000181": {
			LegalName: "Imobiliária Horizonte LTDA",
			CEP:       "01310100", Street: "Avenida Paulista", Number: "1000",
			Neighborhood: "Bela Vista", City: "São Paulo", State: "SP",
		},
	}}
	svc, _ := newTestFormService(&stubCEPFetcher{}, cnpj)
	snap, _ := svc.CreateDraft(context.Background())

	update(t, svc, snap.ID, "name", "Nome Escolhido")
	update(t, svc, snap.ID, "document", "11222333000181")

	got := waitFor(t, svc, snap.ID, func(s *domain.FormSnapshot) bool { return !s.SearchingCompany })
	if got.Name != "Nome Escolhido" {
		t.Errorf("name = %q, registry overwrote a manual edit", got.Name)
	}
	if got.Address.Number != "1000" {
		t.Errorf("number = %q, want %q", got.Address.Number, "1000")
	}
	if got.Address.CEP != "01310-100" {
		t.Errorf("cep = %q, want masked %q", got.Address.CEP, "01310-100")
	}
}

func TestCNPJLookupFillsNameWhenUntouched(t *testing.T) {
	cnpj := &stubCompanyFetcher{results: map[string]*domain.CompanyResult{
		"11222333000181": {TradeName: "Horizonte Imóveis", City: "São Paulo", State: "SP"},
	}}
	svc, _ := newTestFormService(&stubCEPFetcher{}, cnpj)
	snap, _ := svc.CreateDraft(context.Background())

	update(t, svc, snap.ID, "document", "11222333000181")
	got := waitFor(t, svc, snap.ID, func(s *domain.FormSnapshot) bool { return !s.SearchingCompany })
	if got.Name != "Horizonte Imóveis" {
		t.Errorf("name = %q, want trade name fallback", got.Name)
	}
}

func TestInvalidCNPJNeverLooksUp(t *testing.T) {
	cnpj := &stubCompanyFetcher{}
	svc, _ := newTestFormService(&stubCEPFetcher{}, cnpj)
	snap, _ := svc.CreateDraft(context.Background())

	// Complete but with a flipped check digit.
	got := update(t, svc, snap.ID, "document", "11222333000182")
	if got.DocumentValid {
		t.Error("bad check digit reported valid")
	}
	if got.SearchingCompany {
		t.Error("lookup triggered for an invalid document")
	}
	cnpj.mu.Lock()
	calls := cnpj.calls
	cnpj.mu.Unlock()
	if calls != 0 {
		t.Errorf("registry called %d times for an invalid document", calls)
	}
}

func TestSetDocumentKindResets(t *testing.T) {
	svc, _ := newTestFormService(&stubCEPFetcher{}, &stubCompanyFetcher{})
	snap, _ := svc.CreateDraft(context.Background())

	update(t, svc, snap.ID, "name", "Parceiro")
	update(t, svc, snap.ID, "document", "52998224725")

	got, err := svc.SetDocumentKind(context.Background(), snap.ID, domain.DocCPF)
	if err != nil {
		t.Fatalf("SetDocumentKind error: %v", err)
	}
	if got.DocumentValid {
		t.Error("validity survived a kind switch")
	}
	if got.Name != "Parceiro" {
		t.Error("shared field lost on kind switch")
	}

	got = update(t, svc, snap.ID, "document", "52998224725")
	if got.Document != "529.982.247-25" {
		t.Errorf("cpf mask = %q", got.Document)
	}
	if !got.DocumentValid {
		t.Error("valid cpf reported invalid")
	}
}

func TestBlurConfirmsEmail(t *testing.T) {
	svc, _ := newTestFormService(&stubCEPFetcher{}, &stubCompanyFetcher{})
	snap, _ := svc.CreateDraft(context.Background())

	got := update(t, svc, snap.ID, "email", "nope@")
	if got.Errors.Email != "" {
		t.Errorf("error set before blur: %q", got.Errors.Email)
	}

	got, err := svc.Blur(context.Background(), snap.ID, "email")
	if err != nil {
		t.Fatalf("Blur error: %v", err)
	}
	if got.Errors.Email != "E-mail inválido." {
		t.Errorf("email error = %q", got.Errors.Email)
	}

	// Typing again clears the error optimistically.
	got = update(t, svc, snap.ID, "email", "contato@horizonte.com.br")
	if got.Errors.Email != "" {
		t.Errorf("error kept after edit: %q", got.Errors.Email)
	}
}

func TestCityAndStateAreReadOnly(t *testing.T) {
	svc, _ := newTestFormService(&stubCEPFetcher{}, &stubCompanyFetcher{})
	snap, _ := svc.CreateDraft(context.Background())

	for _, field := range []string{"city", "state"} {
		_, err := svc.UpdateField(context.Background(), snap.ID, &domain.UpdateFieldRequest{Field: field, Value: "X"})
		var verr *domain.ErrValidation
		if !errors.As(err, &verr) {
			t.Errorf("UpdateField(%s) error = %v, want validation error", field, err)
		}
	}
}

// fillValidDraft types a complete, submittable CPF partner.
func fillValidDraft(t *testing.T, svc *FormService, id string) {
	t.Helper()
	if _, err := svc.SetDocumentKind(context.Background(), id, domain.DocCPF); err != nil {
		t.Fatalf("SetDocumentKind error: %v", err)
	}
	update(t, svc, id, "document", "52998224725")
	update(t, svc, id, "name", "Corretora Lima")
	update(t, svc, id, "email", "ana@corretoralima.com.br")
	update(t, svc, id, "phone", "11988887777")
	update(t, svc, id, "street", "Rua das Flores")
	update(t, svc, id, "number", "52")
}

func TestSubmitBlockedWhileLookupPending(t *testing.T) {
	gate := make(chan struct{})
	cep := &stubCEPFetcher{
		results: map[string]*domain.CEPResult{"01310100": {Street: "Avenida Paulista", City: "São Paulo", State: "SP"}},
		gates:   map[string]chan struct{}{"01310100": gate},
	}
	svc, _ := newTestFormService(cep, &stubCompanyFetcher{})
	snap, _ := svc.CreateDraft(context.Background())
	fillValidDraft(t, svc, snap.ID)

	got := update(t, svc, snap.ID, "cep", "01310100")
	if got.CanSubmit {
		t.Error("CanSubmit true with a lookup in flight")
	}

	_, err := svc.Submit(context.Background(), snap.ID)
	var pending *domain.ErrLookupPending
	if !errors.As(err, &pending) {
		t.Fatalf("Submit error = %v, want ErrLookupPending", err)
	}

	close(gate)
	got = waitFor(t, svc, snap.ID, func(s *domain.FormSnapshot) bool { return !s.SearchingCEP })
	if !got.CanSubmit {
		t.Errorf("CanSubmit still false after lookup settled: %+v", got.Errors)
	}
}

func TestSubmitStoresCanonicalRecord(t *testing.T) {
	svc, store := newTestFormService(&stubCEPFetcher{}, &stubCompanyFetcher{})
	snap, _ := svc.CreateDraft(context.Background())
	fillValidDraft(t, svc, snap.ID)
	update(t, svc, snap.ID, "complement", "Sala 3")
	update(t, svc, snap.ID, "neighborhood", "Centro")

	_, err := svc.AddInteraction(context.Background(), snap.ID, &domain.AddInteractionRequest{
		Date: "2026-08-20", Type: domain.ChannelWhatsApp, Summary: "Proposta enviada", NextContactDate: "2026-09-01",
	})
	if err != nil {
		t.Fatalf("AddInteraction error: %v", err)
	}

	p, err := svc.Submit(context.Background(), snap.ID)
	if err != nil {
		t.Fatalf("Submit error: %v", err)
	}
	if p.ID == "" || p.RegistrationDate == "" {
		t.Errorf("id/date not assigned: %+v", p)
	}
	if p.Address != "Rua das Flores, 52 - Sala 3 - Centro - /" {
		t.Errorf("address = %q", p.Address)
	}
	if p.Document.Kind != domain.DocCPF || p.Document.Value != "52998224725" {
		t.Errorf("document = %+v", p.Document)
	}
	if p.Derived.LastContactDate != "2026-08-20" || p.Derived.NextContactDate != "2026-09-01" {
		t.Errorf("derived summary = %+v", p.Derived)
	}
	if p.Status != domain.StatusActive || p.Commercial.CommissionRate != 5 {
		t.Errorf("defaults not applied: status=%q commission=%v", p.Status, p.Commercial.CommissionRate)
	}

	// The draft is gone and the record landed in the store.
	if _, err := svc.Snapshot(context.Background(), snap.ID); err == nil {
		t.Error("draft survived a successful submit")
	}
	if _, err := store.Get(context.Background(), p.ID); err != nil {
		t.Errorf("stored record not retrievable: %v", err)
	}
}

func TestSubmitRejectsInvalidDraft(t *testing.T) {
	svc, _ := newTestFormService(&stubCEPFetcher{}, &stubCompanyFetcher{})
	snap, _ := svc.CreateDraft(context.Background())

	_, err := svc.Submit(context.Background(), snap.ID)
	var verr *domain.ErrValidation
	if !errors.As(err, &verr) {
		t.Fatalf("Submit error = %v, want validation error", err)
	}
	// The draft stays open for fixing.
	if _, err := svc.Snapshot(context.Background(), snap.ID); err != nil {
		t.Errorf("draft dropped after rejected submit: %v", err)
	}
}

func TestHistoryNewestAdditionFirst(t *testing.T) {
	svc, _ := newTestFormService(&stubCEPFetcher{}, &stubCompanyFetcher{})
	snap, _ := svc.CreateDraft(context.Background())

	ctx := context.Background()
	_, err := svc.AddInteraction(ctx, snap.ID, &domain.AddInteractionRequest{
		Date: "2026-08-25", Type: domain.ChannelPhone, Summary: "mais recente por data",
	})
	if err != nil {
		t.Fatalf("AddInteraction error: %v", err)
	}
	got, err := svc.AddInteraction(ctx, snap.ID, &domain.AddInteractionRequest{
		Date: "2026-08-01", Type: domain.ChannelEmail, Summary: "adicionada por último",
	})
	if err != nil {
		t.Fatalf("AddInteraction error: %v", err)
	}

	// Head position follows insertion, not the date field.
	if got.ContactHistory[0].Summary != "adicionada por último" {
		t.Errorf("head = %q", got.ContactHistory[0].Summary)
	}

	got, err = svc.RemoveInteraction(ctx, snap.ID, got.ContactHistory[0].ID)
	if err != nil {
		t.Fatalf("RemoveInteraction error: %v", err)
	}
	if len(got.ContactHistory) != 1 || got.ContactHistory[0].Summary != "mais recente por data" {
		t.Errorf("history after removal = %+v", got.ContactHistory)
	}
}

func TestRefreshBypassesCache(t *testing.T) {
	cep := &stubCEPFetcher{results: map[string]*domain.CEPResult{
		"01310100": {Street: "Avenida Paulista", City: "São Paulo", State: "SP"},
	}}
	svc, _ := newTestFormService(cep, &stubCompanyFetcher{})
	snap, _ := svc.CreateDraft(context.Background())

	update(t, svc, snap.ID, "cep", "01310100")
	waitFor(t, svc, snap.ID, func(s *domain.FormSnapshot) bool { return !s.SearchingCEP })

	cep.mu.Lock()
	cep.results["01310100"] = &domain.CEPResult{Street: "Avenida Paulista Renomeada", City: "São Paulo", State: "SP"}
	cep.mu.Unlock()

	got, err := svc.Refresh(context.Background(), snap.ID)
	if err != nil {
		t.Fatalf("Refresh error: %v", err)
	}
	if got.Address.Street != "Avenida Paulista Renomeada" {
		t.Errorf("street after refresh = %q, cache was not bypassed", got.Address.Street)
	}
}

func TestWhatsAppLinkFollowsPhoneValidity(t *testing.T) {
	svc, _ := newTestFormService(&stubCEPFetcher{}, &stubCompanyFetcher{})
	snap, _ := svc.CreateDraft(context.Background())

	got := update(t, svc, snap.ID, "phone", "11988887777")
	if got.WhatsAppURL != "https://wa.me/5511988887777" {
		t.Errorf("whatsapp url = %q", got.WhatsAppURL)
	}
	got = update(t, svc, snap.ID, "phone", "119888")
	if got.WhatsAppURL != "" {
		t.Errorf("whatsapp url kept for partial phone: %q", got.WhatsAppURL)
	}
}
