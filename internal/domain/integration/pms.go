package integration

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// PMS value objects
// ---------------------------------------------------------------------------

// CheckInRequest posts a guest arrival to the PMS
type CheckInRequest struct {
	// ReservationExternalID is the PMS-side reservation identifier
	ReservationExternalID string
	// RoomNumber is the assigned room
	RoomNumber string
	// ArrivedAt is the actual arrival time; zero means now
	ArrivedAt time.Time
}

// Validate checks the request before it is sent to the provider
func (r *CheckInRequest) Validate() error {
	if r.ReservationExternalID == "" || r.RoomNumber == "" {
		return ErrRecordMalformed
	}
	return nil
}

// CheckOutRequest posts a guest departure to the PMS
type CheckOutRequest struct {
	// ReservationExternalID is the PMS-side reservation identifier
	ReservationExternalID string
	// DepartedAt is the actual departure time; zero means now
	DepartedAt time.Time
	// FolioTotal is the final folio amount settled at departure
	FolioTotal decimal.Decimal
}

// Validate checks the request before it is sent to the provider
func (r *CheckOutRequest) Validate() error {
	if r.ReservationExternalID == "" {
		return ErrRecordMalformed
	}
	return nil
}

// StayResult is the provider's answer to a check-in or check-out action
type StayResult struct {
	// ReservationExternalID is the PMS-side reservation identifier
	ReservationExternalID string
	// Status is the provider-reported reservation status after the action
	Status string
	// RoomNumber is the room assigned by the PMS
	RoomNumber string
}

// GuestRequest forwards a concierge request to the PMS work-order queue
type GuestRequest struct {
	// RoomNumber is the requesting room
	RoomNumber string
	// Category classifies the request, e.g. "housekeeping", "maintenance"
	Category string
	// Message is the guest's request text
	Message string
	// Priority is the provider-facing priority hint
	Priority string
}

// Validate checks the request before it is sent to the provider
func (r *GuestRequest) Validate() error {
	if r.RoomNumber == "" || r.Message == "" {
		return ErrRecordMalformed
	}
	return nil
}

// GuestRequestResult is the provider's acknowledgement of a forwarded request
type GuestRequestResult struct {
	// ExternalRequestID is the PMS-side work-order identifier
	ExternalRequestID string
	// Status is the provider-reported queue status
	Status string
}

// RoomStatusResult is the provider's live view of one room
type RoomStatusResult struct {
	// RoomNumber is the queried room
	RoomNumber string
	// Occupancy is the provider occupancy state, e.g. "occupied", "vacant"
	Occupancy string
	// Housekeeping is the housekeeping state, e.g. "clean", "dirty"
	Housekeeping string
	// OutOfOrder is true when the room is blocked from sale
	OutOfOrder bool
}

// ---------------------------------------------------------------------------
// PMS port
// ---------------------------------------------------------------------------

// PMSPort is the single-action surface of a PMS adapter. Bulk reservation and
// room reconciliation goes through SyncSource instead.
type PMSPort interface {
	// PostCheckIn marks a reservation as arrived on the PMS
	PostCheckIn(ctx context.Context, profile *ConnectionProfile, req *CheckInRequest) (*StayResult, error)
	// PostCheckOut marks a reservation as departed on the PMS
	PostCheckOut(ctx context.Context, profile *ConnectionProfile, req *CheckOutRequest) (*StayResult, error)
	// SendGuestRequest forwards a concierge request to the PMS
	SendGuestRequest(ctx context.Context, profile *ConnectionProfile, req *GuestRequest) (*GuestRequestResult, error)
	// GetRoomStatus retrieves the provider's live state of one room
	GetRoomStatus(ctx context.Context, profile *ConnectionProfile, roomNumber string) (*RoomStatusResult, error)
}
