// Package hotel holds the downstream entities the sync engine writes into:
// menu items, guests and rooms. These are owned by other subsystems of the
// platform; the engine's only contract with them is locate-or-create by
// (hotel, external_id, external_source) and update-in-place on later syncs.
package hotel

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hotelier/backend/internal/domain/shared"
)

var (
	// ErrMenuItemNotFound indicates no menu item matches the reference
	ErrMenuItemNotFound = errors.New("hotel: menu item not found")
	// ErrGuestNotFound indicates no guest matches the reference
	ErrGuestNotFound = errors.New("hotel: guest not found")
	// ErrRoomNotFound indicates no room matches the reference
	ErrRoomNotFound = errors.New("hotel: room not found")
)

// ExternalRef is the composite key matching a local entity to its remote
// counterpart across sync runs.
type ExternalRef struct {
	// ExternalID is the provider-side identifier
	ExternalID string
	// ExternalSource is the provider that owns the identifier
	ExternalSource string
}

// MenuItem is one sellable restaurant item synchronized from a POS
type MenuItem struct {
	shared.BaseEntity
	ExternalRef
	HotelID     uuid.UUID
	Name        string
	Description string
	Category    string
	Price       decimal.Decimal
	Currency    string
	Available   bool
}

// Guest is a hotel guest synchronized from a PMS reservation feed
type Guest struct {
	shared.BaseEntity
	ExternalRef
	HotelID      uuid.UUID
	FirstName    string
	LastName     string
	Email        string
	Phone        string
	RoomNumber   string
	CheckInDate  *time.Time
	CheckOutDate *time.Time
	Status       string
}

// Room is a physical room synchronized from a PMS room inventory feed
type Room struct {
	shared.BaseEntity
	ExternalRef
	HotelID  uuid.UUID
	Number   string
	RoomType string
	Floor    int
	Status   string
}
