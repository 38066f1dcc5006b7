package integration

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// POS value objects
// ---------------------------------------------------------------------------

// GuestCheckItem is one line on a guest check posted to the POS
type GuestCheckItem struct {
	// MenuItemExternalID is the POS-side menu item identifier
	MenuItemExternalID string
	// Name is the item name as it should appear on the check
	Name string
	// Quantity is the ordered quantity
	Quantity int
	// UnitPrice is the per-unit price
	UnitPrice decimal.Decimal
}

// GuestCheck is an order posted from the hotel platform to the POS, e.g. a
// room-service order charged to a room.
type GuestCheck struct {
	// Reference is the hotel-side order reference
	Reference string
	// RoomNumber is the room the check is charged to
	RoomNumber string
	// GuestName is the name on the check
	GuestName string
	// Items are the check lines
	Items []GuestCheckItem
	// Total is the check total
	Total decimal.Decimal
	// Currency is the ISO currency code
	Currency string
	// Notes is free-form kitchen/server instruction text
	Notes string
}

// Validate checks the guest check before it is sent to the provider
func (c *GuestCheck) Validate() error {
	if c.Reference == "" || len(c.Items) == 0 {
		return ErrRecordMalformed
	}
	for _, item := range c.Items {
		if item.Quantity <= 0 {
			return ErrRecordMalformed
		}
	}
	return nil
}

// CheckState represents the provider-side lifecycle of a posted check
type CheckState string

const (
	// CheckStateOpen indicates the check is open on the POS
	CheckStateOpen CheckState = "open"
	// CheckStateClosed indicates the check is settled
	CheckStateClosed CheckState = "closed"
	// CheckStateVoided indicates the check was voided
	CheckStateVoided CheckState = "voided"
)

// CheckResult is the provider's answer to a posted, queried or voided check
type CheckResult struct {
	// ExternalCheckID is the POS-side check identifier
	ExternalCheckID string
	// State is the check lifecycle state
	State CheckState
	// Total is the provider-computed total, including POS-side charges
	Total decimal.Decimal
	// ClosedAt is when the check settled, nil while open
	ClosedAt *time.Time
}

// ---------------------------------------------------------------------------
// POS port
// ---------------------------------------------------------------------------

// POSPort is the single-action surface of a POS adapter. Bulk menu
// reconciliation goes through SyncSource instead. Each call either fully
// succeeds or fully fails; there is no partial-failure concept here.
type POSPort interface {
	// PostGuestCheck creates a check on the POS
	PostGuestCheck(ctx context.Context, profile *ConnectionProfile, check *GuestCheck) (*CheckResult, error)
	// GetCheckStatus retrieves the current state of a posted check
	GetCheckStatus(ctx context.Context, profile *ConnectionProfile, externalCheckID string) (*CheckResult, error)
	// VoidCheck voids a previously posted check
	VoidCheck(ctx context.Context, profile *ConnectionProfile, externalCheckID, reason string) (*CheckResult, error)
}
