package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"gorm.io/datatypes"

	"landivo/internal/activity"
	"landivo/internal/apperr"
	"landivo/internal/logging"
	"landivo/internal/model"
	"landivo/internal/repository"
)

// DefaultActivityLimit is the page size of detailed activity queries.
const DefaultActivityLimit = 500

// EventInput is one event reported by the public site.
type EventInput struct {
	EventType  string          `json:"eventType"`
	Page       string          `json:"page"`
	PropertyID string          `json:"propertyId"`
	EventData  json.RawMessage `json:"eventData"`
	IPAddress  string          `json:"ipAddress"`
	UserAgent  string          `json:"userAgent"`
	Timestamp  *time.Time      `json:"timestamp"`
}

type ActivityService struct {
	Buyers     *repository.BuyerRepository
	Offers     *repository.OfferRepository
	Properties *repository.PropertyRepository
	Activity   *repository.ActivityRepository
	format     *activity.Formatter
	log        logging.Logger
}

func NewActivityService(br *repository.BuyerRepository, or *repository.OfferRepository, pr *repository.PropertyRepository, ar *repository.ActivityRepository, log logging.Logger) *ActivityService {
	return &ActivityService{
		Buyers:     br,
		Offers:     or,
		Properties: pr,
		Activity:   ar,
		format:     activity.NewFormatter(log),
		log:        log,
	}
}

// Record stores events for a buyer and returns how many were stored.
func (s *ActivityService) Record(ctx context.Context, buyerID string, events []EventInput) (int, error) {
	if len(events) == 0 {
		return 0, apperr.Validation("At least one event is required")
	}
	if _, err := s.buyer(ctx, buyerID); err != nil {
		return 0, err
	}

	rows := make([]model.BuyerActivity, 0, len(events))
	for _, e := range events {
		if strings.TrimSpace(e.EventType) == "" {
			return 0, apperr.Validation("eventType is required")
		}
		if len(e.EventData) > 0 && !json.Valid(e.EventData) {
			return 0, apperr.Validation("eventData must be valid JSON")
		}
		row := model.BuyerActivity{
			BuyerID:    buyerID,
			EventType:  e.EventType,
			Page:       model.StringPtr(e.Page),
			PropertyID: model.StringPtr(e.PropertyID),
			IPAddress:  model.StringPtr(e.IPAddress),
			UserAgent:  model.StringPtr(e.UserAgent),
		}
		if len(e.EventData) > 0 {
			row.EventData = datatypes.JSON(e.EventData)
		}
		if e.Timestamp != nil {
			row.Timestamp = *e.Timestamp
		}
		rows = append(rows, row)
	}
	if err := s.Activity.Record(ctx, rows); err != nil {
		return 0, apperr.Internal("An error occurred while recording activity", err)
	}
	return len(rows), nil
}

// Summary gathers every category of a buyer's activity.
func (s *ActivityService) Summary(ctx context.Context, buyerID string) (*activity.Summary, error) {
	b, err := s.buyer(ctx, buyerID)
	if err != nil {
		return nil, err
	}

	events, err := s.Activity.ListByBuyer(ctx, buyerID, "", 0, 0)
	if err != nil {
		return nil, apperr.Internal("An error occurred while fetching activity", err)
	}
	byType := make(map[string][]model.BuyerActivity)
	for _, e := range events {
		byType[e.EventType] = append(byType[e.EventType], e)
	}
	offers, err := s.Offers.ListByBuyerWithProperty(ctx, buyerID)
	if err != nil {
		return nil, apperr.Internal("An error occurred while fetching offers", err)
	}

	sum := &activity.Summary{
		BuyerID:           b.ID,
		BuyerName:         b.FullName(),
		PropertyViews:     s.format.PropertyViews(s.decode(byType[model.EventPropertyView])),
		ClickEvents:       s.format.ClickEvents(s.decode(byType[model.EventClick])),
		PageVisits:        s.format.PageVisits(s.decode(byType[model.EventPageView])),
		SearchHistory:     s.format.SearchHistory(s.decode(byType[model.EventSearch])),
		OfferHistory:      s.format.OfferHistory(s.decode(offers)),
		EmailInteractions: s.format.EmailInteractions(s.decode(byType[model.EventEmailInteraction])),
		SessionHistory:    s.format.SessionHistory(s.decode(byType[model.EventSessionStart])),
	}
	sum.EngagementScore = activity.EngagementScore(sum)
	if len(events) > 0 {
		sum.LastActive = events[0].Timestamp.UTC().Format(time.RFC3339Nano)
	} else {
		sum.LastActive = time.Now().UTC().Format(time.RFC3339Nano)
	}
	return sum, nil
}

// Detail returns one category of activity, a page at a time. Offer
// history is always complete and enriched with property details.
func (s *ActivityService) Detail(ctx context.Context, buyerID, category string, limit, page int) (any, error) {
	if _, err := s.buyer(ctx, buyerID); err != nil {
		return nil, err
	}
	if category == activity.TypeOfferHistory {
		return s.offerHistory(ctx, buyerID)
	}

	if limit <= 0 {
		limit = DefaultActivityLimit
	}
	if page <= 0 {
		page = 1
	}
	events, err := s.Activity.ListByBuyer(ctx, buyerID, activity.EventType(category), limit, (page-1)*limit)
	if err != nil {
		return nil, apperr.Internal("An error occurred while fetching activity", err)
	}
	raw := s.decode(events)

	switch category {
	case activity.TypePropertyViews:
		return s.format.PropertyViews(raw), nil
	case activity.TypeClickEvents:
		return s.format.ClickEvents(raw), nil
	case activity.TypePageVisits:
		return s.format.PageVisits(raw), nil
	case activity.TypeSearchHistory, activity.TypeSearchQuery:
		return s.format.SearchHistory(raw), nil
	case activity.TypeEmailInteractions:
		return s.format.EmailInteractions(raw), nil
	case activity.TypeSessionHistory:
		return s.format.SessionHistory(raw), nil
	default:
		return raw, nil
	}
}

// OfferHistory returns the buyer's offers with property details and
// normalized status history, newest first.
func (s *ActivityService) OfferHistory(ctx context.Context, buyerID string) ([]activity.EnhancedOffer, error) {
	if _, err := s.buyer(ctx, buyerID); err != nil {
		return nil, err
	}
	return s.offerHistory(ctx, buyerID)
}

func (s *ActivityService) offerHistory(ctx context.Context, buyerID string) ([]activity.EnhancedOffer, error) {
	offers, err := s.Offers.ListByBuyer(ctx, buyerID)
	if err != nil {
		return nil, apperr.Internal("An error occurred while fetching offers", err)
	}
	return s.format.EnhancedOffers(ctx, offers, s.Properties.Get), nil
}

func (s *ActivityService) buyer(ctx context.Context, id string) (*model.Buyer, error) {
	if strings.TrimSpace(id) == "" {
		return nil, apperr.Validation("Buyer ID is required")
	}
	b, err := s.Buyers.Get(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Buyer not found", "An error occurred while fetching the buyer")
	}
	return b, nil
}

// decode turns stored rows into the generic form the formatters read. An
// empty set decodes to an empty array.
func (s *ActivityService) decode(v any) any {
	raw, err := activity.Decode(v)
	if err != nil {
		s.log.Warning("could not decode activity", "error", err.Error())
		return []any{}
	}
	if raw == nil {
		return []any{}
	}
	return raw
}
