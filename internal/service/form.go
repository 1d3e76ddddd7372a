package service

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/partnerhub/partner-hub-go/internal/address"
	"github.com/partnerhub/partner-hub-go/internal/brdoc"
	"github.com/partnerhub/partner-hub-go/internal/domain"
	"github.com/partnerhub/partner-hub-go/internal/infra/observability"
	"github.com/partnerhub/partner-hub-go/internal/mask"
	"github.com/partnerhub/partner-hub-go/internal/port"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Inline error texts, matching what the form renders.
const (
	msgCEPNotFound    = "CEP inexistente."
	msgCEPFailed      = "Erro ao buscar CEP."
	msgCNPJNotFound   = "CNPJ não encontrado."
	msgCNPJFailed     = "Falha na consulta do CNPJ."
	msgEmailInvalid   = "E-mail inválido."
	msgPhoneInvalid   = "Telefone inválido."
	msgWebsiteInvalid = "URL inválida."
)

// FormService owns the mutable registration drafts. Each draft has
// exactly one writer (this service, under the draft mutex); enrichment
// goroutines hand their results back here and never touch state directly.
type FormService struct {
	lookups       *LookupService
	store         port.PartnerStore
	metrics       *observability.Metrics
	logger        *zap.Logger
	lookupTimeout time.Duration

	mu     sync.RWMutex
	drafts map[string]*formDraft
}

// formDraft is the single mutable state bag of one open form.
type formDraft struct {
	mu sync.Mutex

	id   string
	kind domain.DocumentKind

	doc     string // masked CNPJ or CPF, shared slot like the form input
	creci   string
	creciUF string

	name       string
	nameEdited bool // manual edits win over registry names this session

	email   string
	phone   string
	website string

	addr domain.AddressParts

	responsible        string
	partnershipManager string
	hiringManager      string
	brokerCount        int
	commissionRate     float64
	status             string
	notes              string

	history []domain.InteractionRecord

	docValid bool
	errs     domain.FieldErrors

	// Enrichment bookkeeping: generation counters detect superseded
	// responses, pending counts gate submission.
	cepGen      uint64
	cnpjGen     uint64
	cepPending  int
	cnpjPending int

	editingPartnerID string
}

// NewFormService creates the draft controller.
func NewFormService(
	lookups *LookupService,
	store port.PartnerStore,
	metrics *observability.Metrics,
	logger *zap.Logger,
	lookupTimeout time.Duration,
) *FormService {
	return &FormService{
		lookups:       lookups,
		store:         store,
		metrics:       metrics,
		logger:        logger,
		lookupTimeout: lookupTimeout,
		drafts:        make(map[string]*formDraft),
	}
}

// CreateDraft opens a blank draft with the form's defaults.
func (s *FormService) CreateDraft(ctx context.Context) (*domain.FormSnapshot, error) {
	_, span := tracer.Start(ctx, "FormService.CreateDraft")
	defer span.End()

	d := &formDraft{
		id:             uuid.NewString(),
		kind:           domain.DocCNPJ,
		commissionRate: 5,
		status:         domain.StatusActive,
	}

	s.mu.Lock()
	s.drafts[d.id] = d
	s.mu.Unlock()

	return s.snapshotLocked(d), nil
}

// CreateDraftFromPartner opens a draft seeded from a stored record for
// editing. The canonical address string is re-parsed into parts and the
// phone re-masked, exactly as the form does when reopened.
func (s *FormService) CreateDraftFromPartner(ctx context.Context, partnerID string) (*domain.FormSnapshot, error) {
	ctx, span := tracer.Start(ctx, "FormService.CreateDraftFromPartner")
	defer span.End()

	p, err := s.store.Get(ctx, partnerID)
	if err != nil {
		return nil, err
	}

	d := &formDraft{
		id:                 uuid.NewString(),
		kind:               p.Document.Kind,
		name:               p.Name,
		email:              p.Email,
		phone:              mask.Phone(p.Phone),
		website:            p.Website,
		responsible:        p.Responsible,
		partnershipManager: p.PartnershipManager,
		hiringManager:      p.HiringManager,
		brokerCount:        p.Commercial.BrokerCount,
		commissionRate:     p.Commercial.CommissionRate,
		status:             p.Status,
		notes:              p.Notes,
		history:            append([]domain.InteractionRecord(nil), p.ContactHistory...),
		editingPartnerID:   p.ID,
	}

	switch p.Document.Kind {
	case domain.DocCNPJ:
		d.doc = mask.CNPJ(p.Document.Value)
	case domain.DocCPF:
		d.doc = mask.CPF(p.Document.Value)
	case domain.DocCRECI:
		d.creci = mask.CRECI(p.Document.Value)
		d.creciUF = p.Document.Region
	}

	parts := address.Parse(p.Address)
	d.addr = domain.AddressParts{
		CEP:          mask.CEP(p.CEP),
		Street:       parts.Street,
		Number:       parts.Number,
		Complement:   parts.Complement,
		Neighborhood: parts.Neighborhood,
		City:         parts.City,
		State:        parts.State,
	}

	d.revalidate()

	s.mu.Lock()
	s.drafts[d.id] = d
	s.mu.Unlock()

	return s.snapshotLocked(d), nil
}

// draft fetches a live draft by id.
func (s *FormService) draft(id string) (*formDraft, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.drafts[id]
	if !ok {
		return nil, &domain.ErrNotFound{Resource: "draft", ID: id}
	}
	return d, nil
}

// Snapshot returns the current observable state of a draft.
func (s *FormService) Snapshot(ctx context.Context, id string) (*domain.FormSnapshot, error) {
	_, span := tracer.Start(ctx, "FormService.Snapshot")
	defer span.End()

	d, err := s.draft(id)
	if err != nil {
		return nil, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.snapshot(), nil
}

// SetDocumentKind switches the active document kind. Validity and the
// document error are reset; every shared field survives.
func (s *FormService) SetDocumentKind(ctx context.Context, id string, kind domain.DocumentKind) (*domain.FormSnapshot, error) {
	_, span := tracer.Start(ctx, "FormService.SetDocumentKind")
	defer span.End()

	if !kind.Valid() {
		return nil, &domain.ErrValidation{Field: "kind", Message: "deve ser cnpj, cpf ou creci"}
	}
	d, err := s.draft(id)
	if err != nil {
		return nil, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.kind = kind
	d.docValid = false
	d.errs.Document = ""
	return d.snapshot(), nil
}

// UpdateField applies one keystroke-level change: mask, revalidate
// synchronously, and trigger enrichment when the field just became
// complete.
func (s *FormService) UpdateField(ctx context.Context, id string, req *domain.UpdateFieldRequest) (*domain.FormSnapshot, error) {
	_, span := tracer.Start(ctx, "FormService.UpdateField")
	defer span.End()

	d, err := s.draft(id)
	if err != nil {
		return nil, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	switch req.Field {
	case "document":
		switch d.kind {
		case domain.DocCNPJ:
			d.doc = mask.CNPJ(req.Value)
			d.errs.Document = ""
			d.revalidate()
			if len(digitsOf(d.doc)) == 14 && d.docValid {
				s.triggerCNPJLookup(d)
			}
		case domain.DocCPF:
			d.doc = mask.CPF(req.Value)
			d.errs.Document = ""
			d.revalidate()
		case domain.DocCRECI:
			d.creci = mask.CRECI(req.Value)
			d.errs.Document = ""
			d.revalidate()
		}
	case "creci_uf":
		d.creciUF = req.Value
		d.revalidate()
	case "name":
		d.name = req.Value
		d.nameEdited = true
	case "email":
		d.email = req.Value
		d.errs.Email = "" // optimistic: confirmed again on blur
	case "phone":
		d.phone = mask.Phone(req.Value)
		d.errs.Phone = ""
	case "website":
		d.website = req.Value
		d.errs.Website = ""
	case "cep":
		d.addr.CEP = mask.CEP(req.Value)
		d.errs.CEP = ""
		if len(digitsOf(d.addr.CEP)) == 8 {
			s.triggerCEPLookup(d)
		}
	case "street":
		d.addr.Street = req.Value
	case "number":
		d.addr.Number = req.Value
	case "complement":
		d.addr.Complement = req.Value
	case "neighborhood":
		d.addr.Neighborhood = req.Value
	case "city", "state":
		return nil, &domain.ErrValidation{Field: req.Field, Message: "somente leitura; preenchido pela consulta de CEP"}
	case "responsible":
		d.responsible = req.Value
	case "partnership_manager":
		d.partnershipManager = req.Value
	case "hiring_manager":
		d.hiringManager = req.Value
	case "notes":
		d.notes = req.Value
	case "status":
		if req.Value != domain.StatusActive && req.Value != domain.StatusInactive {
			return nil, &domain.ErrValidation{Field: "status", Message: "deve ser Ativo ou Inativo"}
		}
		d.status = req.Value
	case "broker_count":
		n, err := strconv.Atoi(req.Value)
		if err != nil || n < 0 {
			return nil, &domain.ErrValidation{Field: "broker_count", Message: "deve ser um inteiro não negativo"}
		}
		d.brokerCount = n
	case "commission_rate":
		f, err := strconv.ParseFloat(req.Value, 64)
		if err != nil || f < 0 {
			return nil, &domain.ErrValidation{Field: "commission_rate", Message: "deve ser um percentual válido"}
		}
		d.commissionRate = f
	default:
		return nil, &domain.ErrValidation{Field: req.Field, Message: "campo desconhecido"}
	}

	return d.snapshot(), nil
}

// Blur confirms a contact field after the user leaves it, setting the
// inline error the form shows.
func (s *FormService) Blur(ctx context.Context, id, field string) (*domain.FormSnapshot, error) {
	_, span := tracer.Start(ctx, "FormService.Blur")
	defer span.End()

	d, err := s.draft(id)
	if err != nil {
		return nil, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	switch field {
	case "email":
		d.errs.Email = ""
		if d.email != "" && !brdoc.ValidEmail(d.email) {
			d.errs.Email = msgEmailInvalid
			s.metrics.IncrValidationFailure("email")
		}
	case "phone":
		d.errs.Phone = ""
		if d.phone != "" && !brdoc.ValidPhone(d.phone) {
			d.errs.Phone = msgPhoneInvalid
			s.metrics.IncrValidationFailure("phone")
		}
	case "website":
		d.errs.Website = ""
		if !brdoc.ValidURL(d.website) {
			d.errs.Website = msgWebsiteInvalid
			s.metrics.IncrValidationFailure("website")
		}
	default:
		return nil, &domain.ErrValidation{Field: field, Message: "campo sem validação de blur"}
	}

	return d.snapshot(), nil
}

// revalidate recomputes document validity from (kind, value, region).
// Callers hold the draft mutex.
func (d *formDraft) revalidate() {
	switch d.kind {
	case domain.DocCNPJ:
		d.docValid = brdoc.ValidCNPJ(d.doc)
	case domain.DocCPF:
		d.docValid = brdoc.ValidCPF(d.doc)
	case domain.DocCRECI:
		d.docValid = brdoc.ValidCRECI(d.creci, d.creciUF)
	}
}

// snapshot builds the observable state. Callers hold the draft mutex.
func (d *formDraft) snapshot() *domain.FormSnapshot {
	parts := address.Parts{
		Street:       d.addr.Street,
		Number:       d.addr.Number,
		Complement:   d.addr.Complement,
		Neighborhood: d.addr.Neighborhood,
		City:         d.addr.City,
		State:        d.addr.State,
	}

	snap := &domain.FormSnapshot{
		ID:                 d.id,
		Kind:               d.kind,
		Document:           d.doc,
		CRECI:              d.creci,
		CRECIUF:            d.creciUF,
		Name:               d.name,
		Email:              d.email,
		Phone:              d.phone,
		Website:            d.website,
		Address:            d.addr,
		AddressPreview:     address.Preview(parts),
		Responsible:        d.responsible,
		PartnershipManager: d.partnershipManager,
		HiringManager:      d.hiringManager,
		BrokerCount:        d.brokerCount,
		CommissionRate:     d.commissionRate,
		Status:             d.status,
		Notes:              d.notes,
		ContactHistory:     append([]domain.InteractionRecord(nil), d.history...),
		DocumentValid:      d.docValid,
		Errors:             d.errs,
		SearchingCEP:       d.cepPending > 0,
		SearchingCompany:   d.cnpjPending > 0,
		EditingPartnerID:   d.editingPartnerID,
	}

	snap.CanSubmit = d.docValid &&
		brdoc.ValidEmail(d.email) &&
		brdoc.ValidPhone(d.phone) &&
		brdoc.ValidURL(d.website) &&
		d.cepPending == 0 && d.cnpjPending == 0

	if brdoc.ValidPhone(d.phone) {
		snap.WhatsAppURL = "https://wa.me/55" + digitsOf(d.phone)
	}

	return snap
}

// snapshotLocked takes the draft mutex before reading.
func (s *FormService) snapshotLocked(d *formDraft) *domain.FormSnapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.snapshot()
}

// triggerCEPLookup starts an async postal-code resolution. Callers hold
// the draft mutex. The goroutine reports back under the same mutex and
// applies nothing when the field moved on in the meantime.
func (s *FormService) triggerCEPLookup(d *formDraft) {
	d.cepGen++
	gen := d.cepGen
	trigger := digitsOf(d.addr.CEP)
	d.cepPending++

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.lookupTimeout)
		defer cancel()

		res, err := s.lookups.CEP(ctx, trigger)

		d.mu.Lock()
		defer d.mu.Unlock()
		d.cepPending--

		if gen != d.cepGen || digitsOf(d.addr.CEP) != trigger {
			s.metrics.IncrStaleResult("cep")
			s.logger.Debug("discarding stale cep result", zap.String("cep", trigger))
			return
		}

		if err != nil {
			var notFound *domain.ErrNotFound
			if errors.As(err, &notFound) {
				d.errs.CEP = msgCEPNotFound
			} else {
				d.errs.CEP = msgCEPFailed
			}
			return
		}

		// Resolved fields overwrite unconditionally; number and
		// complement stay with the user.
		d.errs.CEP = ""
		d.addr.Street = res.Street
		d.addr.Neighborhood = res.Neighborhood
		d.addr.City = res.City
		d.addr.State = res.State
	}()
}

// triggerCNPJLookup starts an async company resolution for a complete,
// checksum-valid CNPJ. Callers hold the draft mutex.
func (s *FormService) triggerCNPJLookup(d *formDraft) {
	d.cnpjGen++
	gen := d.cnpjGen
	trigger := digitsOf(d.doc)
	d.cnpjPending++

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.lookupTimeout)
		defer cancel()

		res, err := s.lookups.CNPJ(ctx, trigger)

		d.mu.Lock()
		defer d.mu.Unlock()
		d.cnpjPending--

		if gen != d.cnpjGen || d.kind != domain.DocCNPJ || digitsOf(d.doc) != trigger {
			s.metrics.IncrStaleResult("cnpj")
			s.logger.Debug("discarding stale cnpj result", zap.String("cnpj", trigger))
			return
		}

		if err != nil {
			var notFound *domain.ErrNotFound
			if errors.As(err, &notFound) {
				d.errs.Document = msgCNPJNotFound
			} else {
				d.errs.Document = msgCNPJFailed
			}
			return
		}

		d.errs.Document = ""
		d.applyCompany(res)
	}()
}

// applyCompany merges a resolved company into the draft. The registry
// owns the address, number included; the name only fills in while the
// user has not typed one. Callers hold the draft mutex.
func (d *formDraft) applyCompany(res *domain.CompanyResult) {
	if !d.nameEdited {
		d.name = res.DisplayName()
	}
	if res.CEP != "" {
		d.addr.CEP = mask.CEP(res.CEP)
	}
	d.addr.Street = res.Street
	d.addr.Number = res.Number
	d.addr.Neighborhood = res.Neighborhood
	d.addr.City = res.City
	d.addr.State = res.State
}

// Refresh re-runs every enrichment whose input is complete and waits for
// the results. Both registries are consulted concurrently.
func (s *FormService) Refresh(ctx context.Context, id string) (*domain.FormSnapshot, error) {
	ctx, span := tracer.Start(ctx, "FormService.Refresh")
	defer span.End()

	d, err := s.draft(id)
	if err != nil {
		return nil, err
	}

	d.mu.Lock()
	cep := digitsOf(d.addr.CEP)
	doc := digitsOf(d.doc)
	runCEP := len(cep) == 8
	runCNPJ := d.kind == domain.DocCNPJ && len(doc) == 14 && d.docValid
	if runCEP {
		d.cepGen++
	}
	if runCNPJ {
		d.cnpjGen++
	}
	cepGen := d.cepGen
	cnpjGen := d.cnpjGen
	// Bypass the cache so a refresh observes registry changes.
	if runCEP {
		s.lookups.cepCache.Delete(cep)
	}
	if runCNPJ {
		s.lookups.cnpjCache.Delete(doc)
	}
	d.mu.Unlock()

	g, gctx := errgroup.WithContext(ctx)

	if runCEP {
		g.Go(func() error {
			res, err := s.lookups.CEP(gctx, cep)

			d.mu.Lock()
			defer d.mu.Unlock()
			if cepGen != d.cepGen || digitsOf(d.addr.CEP) != cep {
				s.metrics.IncrStaleResult("cep")
				return nil
			}
			if err != nil {
				var notFound *domain.ErrNotFound
				if errors.As(err, &notFound) {
					d.errs.CEP = msgCEPNotFound
				} else {
					d.errs.CEP = msgCEPFailed
				}
				return nil
			}
			d.errs.CEP = ""
			d.addr.Street = res.Street
			d.addr.Neighborhood = res.Neighborhood
			d.addr.City = res.City
			d.addr.State = res.State
			return nil
		})
	}

	if runCNPJ {
		g.Go(func() error {
			res, err := s.lookups.CNPJ(gctx, doc)

			d.mu.Lock()
			defer d.mu.Unlock()
			if cnpjGen != d.cnpjGen || digitsOf(d.doc) != doc {
				s.metrics.IncrStaleResult("cnpj")
				return nil
			}
			if err != nil {
				var notFound *domain.ErrNotFound
				if errors.As(err, &notFound) {
					d.errs.Document = msgCNPJNotFound
				} else {
					d.errs.Document = msgCNPJFailed
				}
				return nil
			}
			d.errs.Document = ""
			d.applyCompany(res)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return s.snapshotLocked(d), nil
}

// AddInteraction prepends an entry to the draft's history. The newest
// addition always sits at the head regardless of its date.
func (s *FormService) AddInteraction(ctx context.Context, id string, req *domain.AddInteractionRequest) (*domain.FormSnapshot, error) {
	_, span := tracer.Start(ctx, "FormService.AddInteraction")
	defer span.End()

	if req.Date == "" {
		return nil, &domain.ErrValidation{Field: "date", Message: "obrigatório"}
	}
	if !req.Type.Valid() {
		return nil, &domain.ErrValidation{Field: "type", Message: "canal de contato desconhecido"}
	}
	if req.Summary == "" {
		return nil, &domain.ErrValidation{Field: "summary", Message: "obrigatório"}
	}

	d, err := s.draft(id)
	if err != nil {
		return nil, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	rec := domain.InteractionRecord{
		ID:              uuid.NewString(),
		Date:            req.Date,
		Type:            req.Type,
		Summary:         req.Summary,
		Notes:           req.Notes,
		NextContactDate: req.NextContactDate,
	}
	d.history = append([]domain.InteractionRecord{rec}, d.history...)
	return d.snapshot(), nil
}

// RemoveInteraction deletes one history entry by id.
func (s *FormService) RemoveInteraction(ctx context.Context, id, interactionID string) (*domain.FormSnapshot, error) {
	_, span := tracer.Start(ctx, "FormService.RemoveInteraction")
	defer span.End()

	d, err := s.draft(id)
	if err != nil {
		return nil, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	for i, rec := range d.history {
		if rec.ID == interactionID {
			d.history = append(d.history[:i:i], d.history[i+1:]...)
			return d.snapshot(), nil
		}
	}
	return nil, &domain.ErrNotFound{Resource: "interaction", ID: interactionID}
}

// Submit finalizes the draft into a partner record. Pending lookups and
// failing validations both reject the attempt; an accepted submit stores
// the record and closes the draft.
func (s *FormService) Submit(ctx context.Context, id string) (*domain.Partner, error) {
	ctx, span := tracer.Start(ctx, "FormService.Submit")
	defer span.End()

	d, err := s.draft(id)
	if err != nil {
		return nil, err
	}

	d.mu.Lock()

	if d.cepPending > 0 {
		d.mu.Unlock()
		s.metrics.IncrSubmit("rejected")
		return nil, &domain.ErrLookupPending{Kind: "cep"}
	}
	if d.cnpjPending > 0 {
		d.mu.Unlock()
		s.metrics.IncrSubmit("rejected")
		return nil, &domain.ErrLookupPending{Kind: "cnpj"}
	}
	if verr := d.validateForSubmit(); verr != nil {
		s.metrics.IncrValidationFailure(verr.Field)
		d.mu.Unlock()
		s.metrics.IncrSubmit("rejected")
		return nil, verr
	}

	p := d.toPartner()
	editing := d.editingPartnerID
	d.mu.Unlock()

	var stored *domain.Partner
	if editing != "" {
		p.ID = editing
		stored, err = s.store.Update(ctx, p)
	} else {
		stored, err = s.store.Create(ctx, p)
	}
	if err != nil {
		s.metrics.IncrSubmit("rejected")
		return nil, err
	}

	s.mu.Lock()
	delete(s.drafts, id)
	s.mu.Unlock()

	s.metrics.IncrSubmit("accepted")
	s.logger.Info("partner submitted",
		zap.String("partner_id", stored.ID),
		zap.String("kind", string(stored.Document.Kind)),
		zap.Bool("update", editing != ""),
	)
	return stored, nil
}

// DiscardDraft drops an open draft without storing anything.
func (s *FormService) DiscardDraft(ctx context.Context, id string) error {
	_, span := tracer.Start(ctx, "FormService.DiscardDraft")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.drafts[id]; !ok {
		return &domain.ErrNotFound{Resource: "draft", ID: id}
	}
	delete(s.drafts, id)
	return nil
}

// validateForSubmit re-runs every gate CanSubmit reflects and returns
// the first failure. Callers hold the draft mutex.
func (d *formDraft) validateForSubmit() *domain.ErrValidation {
	d.revalidate()
	if !d.docValid {
		return &domain.ErrValidation{Field: "document", Message: "documento inválido"}
	}
	if d.name == "" {
		return &domain.ErrValidation{Field: "name", Message: "obrigatório"}
	}
	if !brdoc.ValidEmail(d.email) {
		return &domain.ErrValidation{Field: "email", Message: msgEmailInvalid}
	}
	if !brdoc.ValidPhone(d.phone) {
		return &domain.ErrValidation{Field: "phone", Message: msgPhoneInvalid}
	}
	if !brdoc.ValidURL(d.website) {
		return &domain.ErrValidation{Field: "website", Message: msgWebsiteInvalid}
	}
	return nil
}

// toPartner normalizes the draft into the stored record shape. Callers
// hold the draft mutex.
func (d *formDraft) toPartner() *domain.Partner {
	doc := domain.IdentityDocument{Kind: d.kind}
	switch d.kind {
	case domain.DocCNPJ, domain.DocCPF:
		doc.Value = digitsOf(d.doc)
	case domain.DocCRECI:
		doc.Value = d.creci
		doc.Region = d.creciUF
	}

	p := &domain.Partner{
		Name:     d.name,
		Document: doc,
		Email:    d.email,
		Phone:    d.phone,
		Website:  d.website,
		CEP:      d.addr.CEP,
		Address: address.Assemble(address.Parts{
			Street:       d.addr.Street,
			Number:       d.addr.Number,
			Complement:   d.addr.Complement,
			Neighborhood: d.addr.Neighborhood,
			City:         d.addr.City,
			State:        d.addr.State,
		}),
		Responsible:        d.responsible,
		PartnershipManager: d.partnershipManager,
		HiringManager:      d.hiringManager,
		Commercial: domain.CommercialTerms{
			CommissionRate: d.commissionRate,
			BrokerCount:    d.brokerCount,
		},
		Status:         d.status,
		Notes:          d.notes,
		ContactHistory: append([]domain.InteractionRecord(nil), d.history...),
	}

	if head, ok := p.LatestInteraction(); ok {
		p.Derived = domain.ContactSummary{
			LastContactDate: head.Date,
			LastContactType: head.Type,
			ContactSummary:  head.Summary,
			NextContactDate: head.NextContactDate,
		}
	}
	return p
}
