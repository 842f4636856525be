package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/zatekoja/localdeals/internal/application/loaders"
	"github.com/zatekoja/localdeals/internal/application/session"
	"github.com/zatekoja/localdeals/internal/domain/entities"
	"github.com/zatekoja/localdeals/internal/domain/providers"
	"github.com/zatekoja/localdeals/internal/domain/repositories"
	"github.com/zatekoja/localdeals/internal/infrastructure/observability"
	"github.com/zatekoja/localdeals/pkg/datetime"
	apperrors "github.com/zatekoja/localdeals/pkg/errors"
	"github.com/zatekoja/localdeals/pkg/validator"
)

// DealServiceConfig holds the listing settings of DealService
type DealServiceConfig struct {
	Location        *time.Location
	TopDefaultLimit int
	TopMaxLimit     int
	HotDealsTTL     time.Duration
}

// DealService handles business logic for deals and hot deal markings
type DealService struct {
	deals     repositories.DealRepository
	hotDeals  repositories.HotDealRepository
	cache     providers.CacheProvider
	images    *loaders.Enricher
	validator *validator.Validator
	metrics   *observability.Metrics
	cfg       DealServiceConfig
	now       func() time.Time
}

// NewDealService creates a new deal service. images and metrics may be nil.
func NewDealService(
	deals repositories.DealRepository,
	hotDeals repositories.HotDealRepository,
	cache providers.CacheProvider,
	images *loaders.Enricher,
	v *validator.Validator,
	metrics *observability.Metrics,
	cfg DealServiceConfig,
) *DealService {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.TopDefaultLimit <= 0 {
		cfg.TopDefaultLimit = 10
	}
	if cfg.TopMaxLimit < cfg.TopDefaultLimit {
		cfg.TopMaxLimit = cfg.TopDefaultLimit
	}
	if cfg.HotDealsTTL <= 0 {
		cfg.HotDealsTTL = 10 * time.Minute
	}
	if v == nil {
		v = validator.New()
	}
	return &DealService{
		deals:     deals,
		hotDeals:  hotDeals,
		cache:     cache,
		images:    images,
		validator: v,
		metrics:   metrics,
		cfg:       cfg,
		now:       time.Now,
	}
}

// SetClock replaces the time source used to classify deals
func (s *DealService) SetClock(now func() time.Time) {
	s.now = now
}

// UpsertResult reports the IDs written by UpsertDeal
type UpsertResult struct {
	ID         string `json:"id"`
	TemplateID string `json:"template_id,omitempty"`
}

// GetDeal retrieves a deal by ID
func (s *DealService) GetDeal(ctx context.Context, id string) (*entities.Deal, error) {
	if err := checkID(id, "deal"); err != nil {
		return nil, err
	}
	deal, err := s.deals.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.normalizeStart(ctx, deal)

	if s.images != nil {
		wrapped := []*entities.ActiveDeal{{Deal: *deal}}
		s.images.EnrichDeals(ctx, wrapped)
		deal.ImageURLs = wrapped[0].ImageURLs
	}
	return deal, nil
}

// UpsertDeal stores the deal of a dealer. Start is read as wall clock in the
// reference zone and stored with its offset. With saveTemplate a template
// copy is stored too.
func (s *DealService) UpsertDeal(ctx context.Context, dealerID string, deal *entities.Deal, saveTemplate bool) (*UpsertResult, error) {
	if err := s.validator.ValidateStruct(deal); err != nil {
		return nil, err
	}

	if deal.ID != "" {
		if _, err := uuid.Parse(deal.ID); err != nil {
			return nil, apperrors.NewValidationError("id is not a valid deal id")
		}
		existing, err := s.deals.GetByID(ctx, deal.ID)
		switch {
		case err == nil && existing.DealerID != dealerID:
			return nil, apperrors.NewForbiddenError("deal belongs to another dealer")
		case err != nil && !apperrors.IsType(err, apperrors.ErrorTypeNotFound):
			return nil, err
		}
	} else {
		deal.ID = uuid.New().String()
	}

	start, err := datetime.AddOffset(deal.Start, s.cfg.Location)
	if err != nil {
		return nil, apperrors.NewValidationError("start is not a valid date")
	}
	deal.Start = start
	deal.DealerID = dealerID

	id, err := s.deals.Upsert(ctx, deal)
	if err != nil {
		return nil, err
	}
	result := &UpsertResult{ID: id}

	if saveTemplate && !deal.Template {
		template := *deal
		template.ID = uuid.New().String()
		template.Template = true
		templateID, err := s.deals.Upsert(ctx, &template)
		if err != nil {
			return nil, err
		}
		result.TemplateID = templateID
	}

	return result, nil
}

// DeleteDeal removes a deal of the dealer
func (s *DealService) DeleteDeal(ctx context.Context, dealerID, id string) error {
	if err := checkID(id, "deal"); err != nil {
		return err
	}
	existing, err := s.deals.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing.DealerID != dealerID {
		return apperrors.NewForbiddenError("deal belongs to another dealer")
	}
	return s.deals.Delete(ctx, id, dealerID)
}

// ActiveDealerDeals lists the active deals of a dealer
func (s *DealService) ActiveDealerDeals(ctx context.Context, dealerID, userID string) ([]*entities.ActiveDeal, error) {
	deals, err := s.deals.ListActiveByDealers(ctx, []string{dealerID})
	if err != nil {
		return nil, err
	}
	s.Decorate(ctx, userID, deals)
	return deals, nil
}

// DealerDeals lists the stored deals of a dealer, either the templates or
// everything else.
func (s *DealService) DealerDeals(ctx context.Context, dealerID string, templates bool) ([]*entities.Deal, error) {
	deals, err := s.deals.List(ctx, repositories.DealListFilter{DealerID: dealerID, Template: &templates})
	if err != nil {
		return nil, err
	}
	for _, d := range deals {
		s.normalizeStart(ctx, d)
	}
	if deals == nil {
		deals = []*entities.Deal{}
	}
	return deals, nil
}

// DealsByState buckets the non-template deals of a dealer into past,
// future and active.
func (s *DealService) DealsByState(ctx context.Context, dealerID string) (entities.SortedDeals, error) {
	if err := checkID(dealerID, "dealer"); err != nil {
		return entities.SortedDeals{}, err
	}
	deals, err := s.DealerDeals(ctx, dealerID, false)
	if err != nil {
		return entities.SortedDeals{}, err
	}
	return entities.PartitionDeals(deals, s.now(), s.cfg.Location), nil
}

// DealsByFilter runs the geospatial search. A filter without an area yields
// an empty list.
func (s *DealService) DealsByFilter(ctx context.Context, userID string, filter entities.DealFilter) ([]*entities.ActiveDeal, error) {
	query, ok := filter.Query()
	if !ok {
		return []*entities.ActiveDeal{}, nil
	}
	if query.Mode == entities.GeoModeExtent && !query.Extent.Valid() {
		return nil, apperrors.NewValidationError("extent must span a positive area")
	}

	deals, err := s.deals.ListActiveWithin(ctx, query)
	if err != nil {
		return nil, err
	}
	if deals == nil {
		deals = []*entities.ActiveDeal{}
	}
	s.Decorate(ctx, userID, deals)
	return deals, nil
}

// TopDeals returns the most liked deals matching filter
func (s *DealService) TopDeals(ctx context.Context, userID string, filter entities.DealFilter) ([]*entities.ActiveDeal, error) {
	switch {
	case filter.Limit <= 0:
		filter.Limit = s.cfg.TopDefaultLimit
	case filter.Limit > s.cfg.TopMaxLimit:
		filter.Limit = s.cfg.TopMaxLimit
	}
	filter.Order = &entities.DealOrder{Column: "likes", Ascending: false}

	return s.DealsByFilter(ctx, userID, filter)
}

// ToggleHotDeal marks the deal for the user, or removes the marking when it
// exists.
func (s *DealService) ToggleHotDeal(ctx context.Context, userID, dealID string) (*entities.HotDealToggle, error) {
	if err := checkID(dealID, "deal"); err != nil {
		return nil, err
	}

	logger := observability.LoggerFromContext(ctx)
	hot := session.FromContext(ctx)

	exists, err := s.hotDeals.Exists(ctx, userID, dealID)
	if err != nil {
		return nil, err
	}

	if exists {
		if err := s.hotDeals.Delete(ctx, userID, dealID); err != nil {
			return nil, err
		}
		s.invalidateHotDeals(ctx, userID)
		hot.Remove(dealID)
		observability.RecordHotDealToggle(ctx, s.metrics, false)
		return &entities.HotDealToggle{Marked: false}, nil
	}

	if err := s.hotDeals.Create(ctx, userID, dealID); err != nil {
		return nil, err
	}
	s.invalidateHotDeals(ctx, userID)
	observability.RecordHotDealToggle(ctx, s.metrics, true)

	deal, err := s.deals.GetActiveByID(ctx, dealID)
	if err != nil {
		if !apperrors.IsType(err, apperrors.ErrorTypeNotFound) {
			logger.Warn().Err(err).Str("deal_id", dealID).Msg("Failed to load marked deal")
		}
		hot.Invalidate()
		return &entities.HotDealToggle{Marked: true}, nil
	}

	s.decorate(ctx, []*entities.ActiveDeal{deal})
	hot.Add(deal)
	return &entities.HotDealToggle{Marked: true, Deal: deal}, nil
}

// HotDeals lists the active deals the user marked
func (s *DealService) HotDeals(ctx context.Context, userID string) ([]*entities.ActiveDeal, error) {
	hot, err := s.loadHotDeals(ctx, userID)
	if err != nil {
		return nil, err
	}

	ids := hot.IDs()
	if len(ids) == 0 {
		return []*entities.ActiveDeal{}, nil
	}

	deals, err := s.deals.ListActiveByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if deals == nil {
		deals = []*entities.ActiveDeal{}
	}

	s.decorate(ctx, deals)
	for _, d := range deals {
		hot.Add(d)
	}
	return deals, nil
}

// Decorate prepares listed deals for output: starts in wall clock,
// IsHot for the user and image URLs.
func (s *DealService) Decorate(ctx context.Context, userID string, deals []*entities.ActiveDeal) {
	if len(deals) == 0 {
		return
	}
	if userID != "" {
		hot, err := s.loadHotDeals(ctx, userID)
		if err != nil {
			observability.LoggerFromContext(ctx).Warn().Err(err).Msg("Failed to load hot deals")
		} else {
			hot.MarkHot(deals)
		}
	}
	s.decorate(ctx, deals)
}

func (s *DealService) decorate(ctx context.Context, deals []*entities.ActiveDeal) {
	for _, d := range deals {
		s.normalizeStart(ctx, &d.Deal)
	}
	if s.images != nil {
		s.images.EnrichDeals(ctx, deals)
	}
}

// loadHotDeals returns the hot deal store of the request, filling it from the
// cache or the database on first use.
func (s *DealService) loadHotDeals(ctx context.Context, userID string) (*session.HotDeals, error) {
	hot := session.FromContext(ctx)
	if hot == nil {
		hot = session.New()
	}
	if hot.Loaded() {
		return hot, nil
	}

	key := providers.HotDealsKey(userID)
	if raw, err := s.cache.Get(ctx, key); err == nil {
		var ids []string
		if err := json.Unmarshal(raw, &ids); err == nil {
			observability.RecordCacheHit(ctx, s.metrics, "hot_deals")
			hot.SetIDs(ids)
			return hot, nil
		}
	} else if !errors.Is(err, providers.ErrCacheMiss) {
		observability.LoggerFromContext(ctx).Warn().Err(err).Str("key", key).Msg("Hot deal cache read failed")
	}
	observability.RecordCacheMiss(ctx, s.metrics, "hot_deals")

	ids, err := s.hotDeals.ListDealIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	if ids == nil {
		ids = []string{}
	}
	hot.SetIDs(ids)

	if raw, err := json.Marshal(ids); err == nil {
		if err := s.cache.Set(ctx, key, raw, s.cfg.HotDealsTTL); err != nil {
			observability.LoggerFromContext(ctx).Warn().Err(err).Str("key", key).Msg("Hot deal cache write failed")
		}
	}
	return hot, nil
}

func (s *DealService) invalidateHotDeals(ctx context.Context, userID string) {
	if err := s.cache.Delete(ctx, providers.HotDealsKey(userID)); err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).Str("user_id", userID).Msg("Failed to invalidate hot deal cache")
	}
}

func (s *DealService) normalizeStart(ctx context.Context, deal *entities.Deal) {
	naive, err := datetime.RemoveOffset(deal.Start, s.cfg.Location)
	if err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).Str("deal_id", deal.ID).Msg("Unreadable deal start")
		return
	}
	deal.Start = naive
}

// checkID rejects IDs that cannot name a stored row
func checkID(id, kind string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperrors.NewNotFoundError(fmt.Sprintf("%s with id %s not found", kind, id))
	}
	return nil
}
