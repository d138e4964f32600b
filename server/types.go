package server

import (
	"github.com/shopspring/decimal"

	"github.com/sig-0/pricecast/schedule"
	"github.com/sig-0/pricecast/storage/types"
)

type HealthResponse struct {
	Health *schedule.Health `json:"health,omitempty"`
	Status string           `json:"status"`
}

type PriceResponse struct {
	types.PriceEntry

	Category   string `json:"category"`
	SnapshotID string `json:"snapshot_id"`
}

type CategoryInfo struct {
	Min       decimal.Decimal `json:"min"`
	Max       decimal.Decimal `json:"max"`
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Group     string          `json:"group"`
	Unit      string          `json:"unit"`
	Sources   []string        `json:"sources"`
	Precision int32           `json:"precision"`
}

type CategoriesResponse struct {
	Results []CategoryInfo `json:"results"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
