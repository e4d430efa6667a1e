package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"shootbook/internal/amqp"
	"shootbook/internal/analytics"
	"shootbook/internal/core"
	"shootbook/internal/log"
	"shootbook/internal/metrics"
	"shootbook/internal/store"
)

// Shoot list views.
const (
	ViewAll      = "all"
	ViewUpcoming = "upcoming"
	ViewHistory  = "history"
)

const maxAdvanceDays = 365

// EventPublisher receives a change event after every successful mutation.
type EventPublisher interface {
	PublishRecordChanged(ctx context.Context, msg *amqp.RecordChanged) error
}

// CRMService owns the shoot and lead collections. The store serialises
// mutations; publishing and metrics are best effort and never fail a call.
type CRMService struct {
	repo      store.Repository
	publisher EventPublisher
	metrics   *metrics.CRMMetrics
	logger    *log.Logger
	now       func() time.Time
}

func NewCRMService(repo store.Repository, publisher EventPublisher, m *metrics.CRMMetrics, logger *log.Logger) *CRMService {
	if logger == nil {
		logger = log.Default()
	}
	return &CRMService{
		repo:      repo,
		publisher: publisher,
		metrics:   m,
		logger:    logger.WithComponent(log.ComponentCRM),
		now:       time.Now,
	}
}

// Dashboard is everything the overview screen shows for one day.
type Dashboard struct {
	Today        core.Date                  `json:"today"`
	Window       analytics.Window           `json:"window"`
	Upcoming     []core.Shoot               `json:"upcoming"`
	History      []core.Shoot               `json:"history"`
	Revenue      []analytics.MonthlyRevenue `json:"revenue"`
	Clients      []analytics.ClientValue    `json:"clients"`
	OverdueLeads int                        `json:"overdueLeads"`
	PastRevenue  core.Money                 `json:"pastRevenue"`
	ShootCount   int                        `json:"shootCount"`
	LeadCount    int                        `json:"leadCount"`
}

// ListShoots returns the shoots for a view: upcoming ascending, history
// descending, or all in stored order.
func (s *CRMService) ListShoots(ctx context.Context, view string, today core.Date) ([]core.Shoot, error) {
	shoots, err := s.repo.ListShoots(ctx)
	if err != nil {
		return nil, fmt.Errorf("list shoots: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(view)) {
	case "", ViewAll:
		return shoots, nil
	case ViewUpcoming:
		upcoming, _ := analytics.PartitionShoots(shoots, today)
		return upcoming, nil
	case ViewHistory:
		_, history := analytics.PartitionShoots(shoots, today)
		return history, nil
	default:
		return nil, invalid(fmt.Errorf("unknown view %q", view))
	}
}

func (s *CRMService) GetShoot(ctx context.Context, id string) (core.Shoot, error) {
	return s.repo.GetShoot(ctx, id)
}

// SaveShoot creates the shoot when in.ID is empty and edits it otherwise.
func (s *CRMService) SaveShoot(ctx context.Context, in ShootInput) (core.Shoot, bool, error) {
	shoot, err := in.toShoot()
	if err != nil {
		return core.Shoot{}, false, err
	}

	if shoot.ID == "" {
		shoot.ID = uuid.NewString()
		shoot.CreatedAt = s.now().UTC()
		if err := s.repo.CreateShoot(ctx, shoot); err != nil {
			return core.Shoot{}, false, fmt.Errorf("create shoot: %w", err)
		}
		s.logger.InfoContext(ctx, "Shoot created", log.NewFields().
			WithOperation(log.OpCreate).
			WithRecord(amqp.KindShoot, shoot.ID).
			WithShoot(shoot.ClientName, shoot.Date.String(), shoot.Price.Units).ToSlice()...)
		s.changed(ctx, amqp.KindShoot, shoot.ID, amqp.OpCreated)
		return shoot, true, nil
	}

	if err := s.repo.UpdateShoot(ctx, shoot); err != nil {
		return core.Shoot{}, false, fmt.Errorf("update shoot: %w", err)
	}
	// the store keeps the original createdAt
	saved, err := s.repo.GetShoot(ctx, shoot.ID)
	if err != nil {
		return core.Shoot{}, false, fmt.Errorf("reload shoot: %w", err)
	}
	s.logger.InfoContext(ctx, "Shoot updated", log.NewFields().
		WithOperation(log.OpUpdate).
		WithRecord(amqp.KindShoot, saved.ID).
		WithShoot(saved.ClientName, saved.Date.String(), saved.Price.Units).ToSlice()...)
	s.changed(ctx, amqp.KindShoot, saved.ID, amqp.OpUpdated)
	return saved, false, nil
}

// DeleteShoot removes a shoot. Without confirmation nothing changes.
func (s *CRMService) DeleteShoot(ctx context.Context, id string, confirmed bool) error {
	if _, err := s.repo.GetShoot(ctx, id); err != nil {
		return err
	}
	if !confirmed {
		return core.ErrConfirmationRequired
	}
	if err := s.repo.DeleteShoot(ctx, id); err != nil {
		return fmt.Errorf("delete shoot: %w", err)
	}
	s.logger.InfoContext(ctx, "Shoot deleted", log.NewFields().
		WithOperation(log.OpDelete).WithRecord(amqp.KindShoot, id).ToSlice()...)
	s.changed(ctx, amqp.KindShoot, id, amqp.OpDeleted)
	return nil
}

// ListLeads filters by query and orders by next follow-up, blanks first.
func (s *CRMService) ListLeads(ctx context.Context, query string) ([]core.Lead, error) {
	leads, err := s.repo.ListLeads(ctx)
	if err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	return analytics.SortLeadsByFollowUp(analytics.FilterLeads(leads, query)), nil
}

func (s *CRMService) GetLead(ctx context.Context, id string) (core.Lead, error) {
	return s.repo.GetLead(ctx, id)
}

// SaveLead creates the lead when in.ID is empty and edits it otherwise.
func (s *CRMService) SaveLead(ctx context.Context, in LeadInput) (core.Lead, bool, error) {
	lead, err := in.toLead()
	if err != nil {
		return core.Lead{}, false, err
	}

	if lead.ID == "" {
		lead.ID = uuid.NewString()
		lead.CreatedAt = s.now().UTC()
		if err := s.repo.CreateLead(ctx, lead); err != nil {
			return core.Lead{}, false, fmt.Errorf("create lead: %w", err)
		}
		s.logger.InfoContext(ctx, "Lead created",
			log.FieldOperation, log.OpCreate,
			log.FieldRecordID, lead.ID,
			log.FieldLeadStatus, string(lead.Status))
		s.changed(ctx, amqp.KindLead, lead.ID, amqp.OpCreated)
		return lead, true, nil
	}

	if err := s.repo.UpdateLead(ctx, lead); err != nil {
		return core.Lead{}, false, fmt.Errorf("update lead: %w", err)
	}
	saved, err := s.repo.GetLead(ctx, lead.ID)
	if err != nil {
		return core.Lead{}, false, fmt.Errorf("reload lead: %w", err)
	}
	s.logger.InfoContext(ctx, "Lead updated",
		log.FieldOperation, log.OpUpdate,
		log.FieldRecordID, saved.ID,
		log.FieldLeadStatus, string(saved.Status))
	s.changed(ctx, amqp.KindLead, saved.ID, amqp.OpUpdated)
	return saved, false, nil
}

func (s *CRMService) DeleteLead(ctx context.Context, id string, confirmed bool) error {
	if _, err := s.repo.GetLead(ctx, id); err != nil {
		return err
	}
	if !confirmed {
		return core.ErrConfirmationRequired
	}
	if err := s.repo.DeleteLead(ctx, id); err != nil {
		return fmt.Errorf("delete lead: %w", err)
	}
	s.logger.InfoContext(ctx, "Lead deleted", log.FieldOperation, log.OpDelete, log.FieldRecordID, id)
	s.changed(ctx, amqp.KindLead, id, amqp.OpDeleted)
	return nil
}

// AdvanceFollowUp pushes the lead's next follow-up forward by days,
// counting from the current follow-up or from today when there is none.
func (s *CRMService) AdvanceFollowUp(ctx context.Context, id string, days int, today core.Date) (core.Lead, error) {
	if days < 1 || days > maxAdvanceDays {
		return core.Lead{}, invalid(fmt.Errorf("days must be between 1 and %d, got %d", maxAdvanceDays, days))
	}
	lead, err := s.repo.GetLead(ctx, id)
	if err != nil {
		return core.Lead{}, err
	}
	base := lead.NextFollow
	if base.IsEmpty() {
		base = today
	}
	lead.NextFollow = base.AddDays(days)
	if err := s.repo.UpdateLead(ctx, lead); err != nil {
		return core.Lead{}, fmt.Errorf("advance follow-up: %w", err)
	}
	s.logger.InfoContext(ctx, "Follow-up advanced",
		log.FieldOperation, log.OpUpdate,
		log.FieldRecordID, id,
		"next_follow", lead.NextFollow.String())
	s.changed(ctx, amqp.KindLead, id, amqp.OpUpdated)
	return lead, nil
}

// SuggestPhone returns the phone of the first lead whose name matches
// clientName, ignoring case and surrounding space.
func (s *CRMService) SuggestPhone(ctx context.Context, clientName string) (string, bool, error) {
	name := strings.ToLower(strings.TrimSpace(clientName))
	if name == "" {
		return "", false, nil
	}
	leads, err := s.repo.ListLeads(ctx)
	if err != nil {
		return "", false, fmt.Errorf("list leads: %w", err)
	}
	for _, l := range leads {
		if strings.ToLower(strings.TrimSpace(l.Name)) == name {
			return l.Phone, true, nil
		}
	}
	return "", false, nil
}

// LeadNames returns the distinct lead names, sorted, for client autocomplete.
func (s *CRMService) LeadNames(ctx context.Context) ([]string, error) {
	leads, err := s.repo.ListLeads(ctx)
	if err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	seen := make(map[string]struct{}, len(leads))
	names := make([]string, 0, len(leads))
	for _, l := range leads {
		n := strings.TrimSpace(l.Name)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		names = append(names, n)
	}
	sort.Strings(names)
	return names, nil
}

// RevenueSeries is the monthly revenue for window months ending at today.
func (s *CRMService) RevenueSeries(ctx context.Context, window analytics.Window, today core.Date) ([]analytics.MonthlyRevenue, error) {
	if err := window.Validate(); err != nil {
		return nil, invalid(err)
	}
	shoots, err := s.repo.ListShoots(ctx)
	if err != nil {
		return nil, fmt.Errorf("list shoots: %w", err)
	}
	start := time.Now()
	series, err := analytics.RevenueSeries(shoots, window, today)
	s.metrics.ObserveAnalytics("revenue", time.Since(start).Seconds())
	return series, err
}

// ClientLTV ranks clients by lifetime value.
func (s *CRMService) ClientLTV(ctx context.Context) ([]analytics.ClientValue, error) {
	shoots, err := s.repo.ListShoots(ctx)
	if err != nil {
		return nil, fmt.Errorf("list shoots: %w", err)
	}
	start := time.Now()
	clients := analytics.ClientLTV(shoots)
	s.metrics.ObserveAnalytics("ltv", time.Since(start).Seconds())
	return clients, nil
}

// Dashboard recomputes the overview from the current collections.
func (s *CRMService) Dashboard(ctx context.Context, window analytics.Window, today core.Date) (Dashboard, error) {
	if err := window.Validate(); err != nil {
		return Dashboard{}, invalid(err)
	}
	shoots, err := s.repo.ListShoots(ctx)
	if err != nil {
		return Dashboard{}, fmt.Errorf("list shoots: %w", err)
	}
	leads, err := s.repo.ListLeads(ctx)
	if err != nil {
		return Dashboard{}, fmt.Errorf("list leads: %w", err)
	}

	start := time.Now()
	revenue, err := analytics.RevenueSeries(shoots, window, today)
	if err != nil {
		return Dashboard{}, err
	}
	upcoming, history := analytics.PartitionShoots(shoots, today)
	d := Dashboard{
		Today:        today,
		Window:       window,
		Upcoming:     upcoming,
		History:      history,
		Revenue:      revenue,
		Clients:      analytics.ClientLTV(shoots),
		OverdueLeads: analytics.OverdueCount(leads, today),
		PastRevenue:  analytics.PastRevenue(shoots, today),
		ShootCount:   len(shoots),
		LeadCount:    len(leads),
	}
	elapsed := time.Since(start)
	s.metrics.ObserveAnalytics("summary", elapsed.Seconds())
	s.metrics.SetOverdueLeads(d.OverdueLeads)

	s.logger.DebugContext(ctx, "Dashboard computed",
		log.FieldWindow, int(window),
		log.FieldRecordCount, len(shoots)+len(leads),
		log.FieldDuration, elapsed.Milliseconds())
	return d, nil
}

// Seed replaces both collections with sample data relative to today.
func (s *CRMService) Seed(ctx context.Context, today core.Date) error {
	shoots, leads := sampleData(today, s.now().UTC())
	if err := s.repo.ReplaceShoots(ctx, shoots); err != nil {
		return fmt.Errorf("seed shoots: %w", err)
	}
	if err := s.repo.ReplaceLeads(ctx, leads); err != nil {
		return fmt.Errorf("seed leads: %w", err)
	}
	s.logger.InfoContext(ctx, "Sample data loaded",
		log.FieldOperation, log.OpSeed,
		"shoots", len(shoots),
		"leads", len(leads))
	s.changed(ctx, amqp.KindShoot, "", amqp.OpReplaced)
	s.changed(ctx, amqp.KindLead, "", amqp.OpReplaced)
	return nil
}

// changed records the mutation and announces it. Failures are logged only.
func (s *CRMService) changed(ctx context.Context, kind, id, op string) {
	s.metrics.ObserveMutation(kind, op)
	if s.publisher == nil {
		return
	}
	err := s.publisher.PublishRecordChanged(ctx, amqp.NewRecordChanged(kind, id, op))
	s.metrics.ObservePublish(err == nil)
	if err != nil {
		s.logger.WarnContext(ctx, "Failed to publish change event",
			log.FieldKind, kind,
			log.FieldRecordID, id,
			log.FieldOperation, op,
			log.FieldError, err.Error())
	}
}

// Close releases the store and the publisher when it owns a connection.
func (s *CRMService) Close() error {
	var errs []error

	if s.repo != nil {
		if err := s.repo.Close(); err != nil {
			errs = append(errs, fmt.Errorf("store: %w", err))
		}
	}

	if c, ok := s.publisher.(interface{ Close() error }); ok && c != nil {
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("publisher: %w", err))
		}
	}

	return errors.Join(errs...)
}
