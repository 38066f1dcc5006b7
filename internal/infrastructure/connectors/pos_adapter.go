package connectors

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/hotelier/backend/internal/domain/hotel"
	"github.com/hotelier/backend/internal/domain/integration"
)

// defaultCurrency fills menu items whose feed omits a currency code
const defaultCurrency = "USD"

// POSAdapter talks to cloud point-of-sale APIs: bulk menu reconciliation plus
// guest-check actions. One adapter instance serves every POS integration; the
// per-integration endpoints and credentials arrive on the resolved profile.
type POSAdapter struct {
	exec      *RequestExecutor
	menuItems hotel.MenuItemRepository
	log       *zap.Logger
}

// NewPOSAdapter creates a new POSAdapter
func NewPOSAdapter(exec *RequestExecutor, menuItems hotel.MenuItemRepository, log *zap.Logger) *POSAdapter {
	return &POSAdapter{
		exec:      exec,
		menuItems: menuItems,
		log:       log.Named("pos-adapter"),
	}
}

// Type returns the integration family this adapter serves
func (a *POSAdapter) Type() integration.Type {
	return integration.TypePOS
}

// Collections lists the remote collections the adapter can sync
func (a *POSAdapter) Collections() []string {
	return []string{"menus"}
}

// SyncPlan returns the function set for one collection
func (a *POSAdapter) SyncPlan(collection string) (*integration.CollectionSync, error) {
	switch collection {
	case "menus":
		return &integration.CollectionSync{
			Operation: "sync_menus",
			Fetch:     a.fetchMenus,
			Apply:     a.applyMenuItem,
		}, nil
	default:
		return nil, fmt.Errorf("%w: %q", integration.ErrUnknownCollection, collection)
	}
}

// ---------------------------------------------------------------------------
// Menu reconciliation
// ---------------------------------------------------------------------------

// fetchMenus retrieves the provider's full menu feed. A malformed or
// non-list response fails the whole run.
func (a *POSAdapter) fetchMenus(ctx context.Context, profile *integration.ConnectionProfile) ([]integration.RemoteRecord, error) {
	path := profile.EndpointFor("menus", posDefaultMenusPath)
	if profile.Cursor != "" {
		path += "?updated_since=" + url.QueryEscape(profile.Cursor)
	}

	body, err := a.exec.Execute(ctx, profile, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	var resp posMenuListResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: menu feed: %v", integration.ErrInvalidProviderResponse, err)
	}
	if resp.Items == nil {
		return nil, fmt.Errorf("%w: menu feed has no items list", integration.ErrInvalidProviderResponse)
	}

	records := make([]integration.RemoteRecord, 0, len(resp.Items))
	for _, item := range resp.Items {
		records = append(records, integration.RemoteRecord{
			ExternalID: item.ID,
			Payload:    item,
		})
	}
	return records, nil
}

// applyMenuItem validates and upserts one menu item. A record missing its
// identity or name fails on its own without touching the rest of the run.
func (a *POSAdapter) applyMenuItem(ctx context.Context, profile *integration.ConnectionProfile, record integration.RemoteRecord) error {
	item, ok := record.Payload.(posMenuItem)
	if !ok {
		return integration.ErrRecordMalformed
	}
	if item.ID == "" || item.Name == "" {
		return fmt.Errorf("%w: menu item requires id and name", integration.ErrRecordMalformed)
	}
	if item.Price.IsNegative() {
		return fmt.Errorf("%w: menu item %q has negative price", integration.ErrRecordMalformed, item.ID)
	}

	currency := item.Currency
	if currency == "" {
		currency = defaultCurrency
	}
	available := true
	if item.Available != nil {
		available = *item.Available
	}

	return a.menuItems.Upsert(ctx, &hotel.MenuItem{
		ExternalRef: hotel.ExternalRef{
			ExternalID:     item.ID,
			ExternalSource: profile.Provider,
		},
		HotelID:     profile.HotelID,
		Name:        item.Name,
		Description: item.Description,
		Category:    item.Category,
		Price:       item.Price,
		Currency:    currency,
		Available:   available,
	})
}

// ---------------------------------------------------------------------------
// Guest check actions
// ---------------------------------------------------------------------------

// PostGuestCheck creates a check on the POS
func (a *POSAdapter) PostGuestCheck(ctx context.Context, profile *integration.ConnectionProfile, check *integration.GuestCheck) (*integration.CheckResult, error) {
	lines := make([]posCheckLine, 0, len(check.Items))
	for _, item := range check.Items {
		lines = append(lines, posCheckLine{
			ItemID:    item.MenuItemExternalID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice.String(),
		})
	}
	req := posCheckRequest{
		Reference:  check.Reference,
		RoomNumber: check.RoomNumber,
		GuestName:  check.GuestName,
		Items:      lines,
		Total:      check.Total.String(),
		Currency:   check.Currency,
		Notes:      check.Notes,
	}

	path := profile.EndpointFor("checks", posDefaultCheckPath)
	body, err := a.exec.Execute(ctx, profile, http.MethodPost, path, req)
	if err != nil {
		return nil, err
	}
	return parseCheckResponse(body)
}

// GetCheckStatus retrieves the current state of a posted check
func (a *POSAdapter) GetCheckStatus(ctx context.Context, profile *integration.ConnectionProfile, externalCheckID string) (*integration.CheckResult, error) {
	path := profile.EndpointFor("checks", posDefaultCheckPath) + "/" + url.PathEscape(externalCheckID)
	body, err := a.exec.Execute(ctx, profile, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	return parseCheckResponse(body)
}

// VoidCheck voids a previously posted check
func (a *POSAdapter) VoidCheck(ctx context.Context, profile *integration.ConnectionProfile, externalCheckID, reason string) (*integration.CheckResult, error) {
	path := profile.EndpointFor("checks", posDefaultCheckPath) + "/" + url.PathEscape(externalCheckID) + "/void"
	body, err := a.exec.Execute(ctx, profile, http.MethodPost, path, posVoidRequest{Reason: reason})
	if err != nil {
		return nil, err
	}
	return parseCheckResponse(body)
}

// ---------------------------------------------------------------------------
// Connectivity test
// ---------------------------------------------------------------------------

// Test pings the provider and probes the menu feed read-only. Neither call
// mutates local state.
func (a *POSAdapter) Test(ctx context.Context, profile *integration.ConnectionProfile) (*integration.TestReport, error) {
	report := &integration.TestReport{}

	body, err := a.exec.Execute(ctx, profile, http.MethodGet, profile.EndpointFor("ping", posDefaultPingPath), nil)
	if err != nil {
		report.Error = err.Error()
		return report, nil
	}
	var ping posPingResponse
	if err := json.Unmarshal(body, &ping); err != nil {
		report.Error = fmt.Sprintf("ping: %v", err)
		return report, nil
	}
	report.Connection = true

	probe := integration.CapabilityResult{Capability: "menus", OK: true}
	if records, err := a.fetchMenus(ctx, profile); err != nil {
		probe.OK = false
		probe.Error = err.Error()
	} else {
		probe.Records = len(records)
	}
	report.Capabilities = append(report.Capabilities, probe)

	return report, nil
}

// parseCheckResponse decodes the provider's check payload into the domain
// result, failing on responses without a check identity.
func parseCheckResponse(body []byte) (*integration.CheckResult, error) {
	var resp posCheckResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: check payload: %v", integration.ErrInvalidProviderResponse, err)
	}
	if resp.CheckID == "" {
		return nil, fmt.Errorf("%w: check payload missing check_id", integration.ErrInvalidProviderResponse)
	}
	return &integration.CheckResult{
		ExternalCheckID: resp.CheckID,
		State:           mapCheckState(resp.Status),
		Total:           resp.Total,
		ClosedAt:        resp.ClosedAt,
	}, nil
}

// mapCheckState normalizes provider check states onto the domain lifecycle
func mapCheckState(status string) integration.CheckState {
	switch strings.ToLower(status) {
	case "closed", "settled", "paid":
		return integration.CheckStateClosed
	case "voided", "cancelled", "canceled":
		return integration.CheckStateVoided
	default:
		return integration.CheckStateOpen
	}
}

var (
	_ integration.SyncSource = (*POSAdapter)(nil)
	_ integration.POSPort    = (*POSAdapter)(nil)
)
