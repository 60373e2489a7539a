package service

import (
	"context"

	"landivo/internal/apperr"
	"landivo/internal/model"
)

const unknownSource = "Unknown"

// BuyerStats are aggregate buyer counts for the admin dashboard.
type BuyerStats struct {
	TotalCount    int            `json:"totalCount"`
	VipCount      int            `json:"vipCount"`
	ByArea        map[string]int `json:"byArea"`
	ByType        map[string]int `json:"byType"`
	BySource      map[string]int `json:"bySource"`
	MonthlyGrowth map[string]int `json:"monthlyGrowth"`
}

// Stats counts buyers by area, type, source and UTC creation month in one
// pass. A buyer counts once for each of its areas.
func (s *BuyerService) Stats(ctx context.Context) (*BuyerStats, error) {
	buyers, err := s.Buyers.ListPlain(ctx)
	if err != nil {
		return nil, apperr.Internal("An error occurred while fetching buyer statistics", err)
	}
	return computeStats(buyers), nil
}

func computeStats(buyers []model.Buyer) *BuyerStats {
	st := &BuyerStats{
		TotalCount:    len(buyers),
		ByArea:        map[string]int{},
		ByType:        map[string]int{},
		BySource:      map[string]int{},
		MonthlyGrowth: map[string]int{},
	}
	for _, b := range buyers {
		for _, area := range b.PreferredAreas {
			st.ByArea[area]++
		}
		if t := model.Deref(b.BuyerType); t != "" {
			st.ByType[t]++
		}
		source := model.Deref(b.Source)
		if source == "" {
			source = unknownSource
		}
		st.BySource[source]++
		if source == model.SourceVIP {
			st.VipCount++
		}
		if !b.CreatedAt.IsZero() {
			st.MonthlyGrowth[b.CreatedAt.UTC().Format("2006-01")]++
		}
	}
	return st
}
