package connectors

import (
	"time"

	"github.com/shopspring/decimal"
)

// Default POS endpoint paths, overridable per integration through the
// "endpoints" config map.
const (
	posDefaultPingPath  = "/v1/ping"
	posDefaultMenusPath = "/v1/menu/items"
	posDefaultCheckPath = "/v1/checks"
)

// posPingResponse answers the lightweight connectivity probe
type posPingResponse struct {
	Status string `json:"status"`
}

// posMenuListResponse is the bulk menu feed
type posMenuListResponse struct {
	Items []posMenuItem `json:"items"`
}

// posMenuItem is one menu item on the provider's feed. Price accepts both
// JSON numbers and quoted decimals, which vendors alternate between.
type posMenuItem struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	Currency    string          `json:"currency"`
	Available   *bool           `json:"available"`
}

// posCheckRequest posts a guest check to the provider
type posCheckRequest struct {
	Reference  string         `json:"reference"`
	RoomNumber string         `json:"room_number"`
	GuestName  string         `json:"guest_name"`
	Items      []posCheckLine `json:"items"`
	Total      string         `json:"total"`
	Currency   string         `json:"currency"`
	Notes      string         `json:"notes,omitempty"`
}

// posCheckLine is one line on a posted check
type posCheckLine struct {
	ItemID    string `json:"item_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unit_price"`
}

// posVoidRequest voids a previously posted check
type posVoidRequest struct {
	Reason string `json:"reason,omitempty"`
}

// posCheckResponse is the provider's answer to check operations
type posCheckResponse struct {
	CheckID  string          `json:"check_id"`
	Status   string          `json:"status"`
	Total    decimal.Decimal `json:"total"`
	ClosedAt *time.Time      `json:"closed_at"`
}
