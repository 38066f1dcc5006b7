package hotel

import (
	"context"

	"github.com/google/uuid"
)

// MenuItemRepository is the upsert port for synchronized menu items
type MenuItemRepository interface {
	// FindByExternalRef locates a menu item by its remote identity
	FindByExternalRef(ctx context.Context, hotelID uuid.UUID, ref ExternalRef) (*MenuItem, error)
	// Upsert locates by (hotel, external_id, external_source) and updates in
	// place, or creates the item when no match exists
	Upsert(ctx context.Context, item *MenuItem) error
	// CountByHotel returns the number of items a hotel has
	CountByHotel(ctx context.Context, hotelID uuid.UUID) (int64, error)
}

// GuestRepository is the upsert port for synchronized guests
type GuestRepository interface {
	// FindByExternalRef locates a guest by their remote identity
	FindByExternalRef(ctx context.Context, hotelID uuid.UUID, ref ExternalRef) (*Guest, error)
	// Upsert locates by (hotel, external_id, external_source) and updates in
	// place, or creates the guest when no match exists
	Upsert(ctx context.Context, guest *Guest) error
	// CountByHotel returns the number of guests a hotel has
	CountByHotel(ctx context.Context, hotelID uuid.UUID) (int64, error)
}

// RoomRepository is the upsert port for synchronized rooms
type RoomRepository interface {
	// FindByExternalRef locates a room by its remote identity
	FindByExternalRef(ctx context.Context, hotelID uuid.UUID, ref ExternalRef) (*Room, error)
	// Upsert locates by (hotel, external_id, external_source) and updates in
	// place, or creates the room when no match exists
	Upsert(ctx context.Context, room *Room) error
	// CountByHotel returns the number of rooms a hotel has
	CountByHotel(ctx context.Context, hotelID uuid.UUID) (int64, error)
}
