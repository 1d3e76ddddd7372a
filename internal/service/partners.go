package service

import (
	"context"
	"sort"
	"time"

	"github.com/partnerhub/partner-hub-go/internal/domain"
	"github.com/partnerhub/partner-hub-go/internal/port"

	"go.uber.org/zap"
)

// upcomingContactWindow is how far ahead the follow-up panel looks.
const upcomingContactWindow = 7 * 24 * time.Hour

// PartnerService exposes the stored partner catalog: listing, deletion,
// duplication and the follow-up agenda.
type PartnerService struct {
	store  port.PartnerStore
	logger *zap.Logger
}

// NewPartnerService creates the catalog service.
func NewPartnerService(store port.PartnerStore, logger *zap.Logger) *PartnerService {
	return &PartnerService{store: store, logger: logger}
}

// List returns every stored partner, newest first.
func (s *PartnerService) List(ctx context.Context) ([]domain.Partner, error) {
	ctx, span := tracer.Start(ctx, "PartnerService.List")
	defer span.End()
	return s.store.List(ctx)
}

// Get returns one partner by id.
func (s *PartnerService) Get(ctx context.Context, id string) (*domain.Partner, error) {
	ctx, span := tracer.Start(ctx, "PartnerService.Get")
	defer span.End()
	return s.store.Get(ctx, id)
}

// Delete removes a partner by id.
func (s *PartnerService) Delete(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "PartnerService.Delete")
	defer span.End()

	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("partner deleted", zap.String("partner_id", id))
	return nil
}

// Duplicate clones a partner as a fresh record. The copy gets a marked
// name, today's registration date and an empty interaction history.
func (s *PartnerService) Duplicate(ctx context.Context, id string) (*domain.Partner, error) {
	ctx, span := tracer.Start(ctx, "PartnerService.Duplicate")
	defer span.End()

	src, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	cp := *src
	cp.ID = ""
	cp.Name = src.Name + " (Cópia)"
	cp.RegistrationDate = ""
	cp.ContactHistory = nil
	cp.Derived = domain.ContactSummary{}

	dup, err := s.store.Create(ctx, &cp)
	if err != nil {
		return nil, err
	}
	s.logger.Info("partner duplicated",
		zap.String("source_id", id),
		zap.String("partner_id", dup.ID),
	)
	return dup, nil
}

// UpcomingContact is one entry of the follow-up agenda.
type UpcomingContact struct {
	PartnerID       string `json:"partner_id"`
	PartnerName     string `json:"partner_name"`
	NextContactDate string `json:"next_contact_date"`
	Summary         string `json:"summary,omitempty"`
}

// UpcomingContacts returns partners whose latest interaction schedules a
// next contact within the coming week, soonest first. Dates that fail to
// parse are skipped.
func (s *PartnerService) UpcomingContacts(ctx context.Context, now time.Time) ([]UpcomingContact, error) {
	ctx, span := tracer.Start(ctx, "PartnerService.UpcomingContacts")
	defer span.End()

	partners, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}

	today := now.Truncate(24 * time.Hour)
	horizon := today.Add(upcomingContactWindow)

	out := make([]UpcomingContact, 0)
	for i := range partners {
		p := &partners[i]
		head, ok := p.LatestInteraction()
		if !ok || head.NextContactDate == "" {
			continue
		}
		next, err := time.Parse("2006-01-02", head.NextContactDate)
		if err != nil {
			continue
		}
		if next.Before(today) || next.After(horizon) {
			continue
		}
		out = append(out, UpcomingContact{
			PartnerID:       p.ID,
			PartnerName:     p.Name,
			NextContactDate: head.NextContactDate,
			Summary:         head.Summary,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].NextContactDate != out[j].NextContactDate {
			return out[i].NextContactDate < out[j].NextContactDate
		}
		return out[i].PartnerName < out[j].PartnerName
	})
	return out, nil
}
