package connectors

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/hotelier/backend/internal/domain/hotel"
	"github.com/hotelier/backend/internal/domain/integration"
)

// testProfile builds a resolved profile pointing at a test server
func testProfile(baseURL string) *integration.ConnectionProfile {
	return &integration.ConnectionProfile{
		IntegrationID: uuid.New(),
		HotelID:       uuid.New(),
		Type:          integration.TypePOS,
		Provider:      "square",
		BaseURL:       baseURL,
		Endpoints:     map[string]string{},
		AuthMethod:    integration.AuthAPIKey,
		AuthHeader:    integration.DefaultAuthHeader,
		Secret:        "sk_test_123",
	}
}

// newRef builds the remote identity downstream lookups key on
func newRef(externalID string) hotel.ExternalRef {
	return hotel.ExternalRef{ExternalID: externalID, ExternalSource: "square"}
}

// ---------------------------------------------------------------------------
// In-memory downstream repositories
// ---------------------------------------------------------------------------

type memMenuItems struct {
	mu    sync.Mutex
	items map[string]*hotel.MenuItem
}

func newMemMenuItems() *memMenuItems {
	return &memMenuItems{items: make(map[string]*hotel.MenuItem)}
}

func (r *memMenuItems) FindByExternalRef(_ context.Context, hotelID uuid.UUID, ref hotel.ExternalRef) (*hotel.MenuItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[ref.ExternalID]
	if !ok || item.HotelID != hotelID {
		return nil, hotel.ErrMenuItemNotFound
	}
	return item, nil
}

func (r *memMenuItems) Upsert(_ context.Context, item *hotel.MenuItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[item.ExternalID] = item
	return nil
}

func (r *memMenuItems) CountByHotel(_ context.Context, _ uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.items)), nil
}

var _ hotel.MenuItemRepository = (*memMenuItems)(nil)

type memGuests struct {
	mu     sync.Mutex
	guests map[string]*hotel.Guest
}

func newMemGuests() *memGuests {
	return &memGuests{guests: make(map[string]*hotel.Guest)}
}

func (r *memGuests) FindByExternalRef(_ context.Context, hotelID uuid.UUID, ref hotel.ExternalRef) (*hotel.Guest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	guest, ok := r.guests[ref.ExternalID]
	if !ok || guest.HotelID != hotelID {
		return nil, hotel.ErrGuestNotFound
	}
	return guest, nil
}

func (r *memGuests) Upsert(_ context.Context, guest *hotel.Guest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.guests[guest.ExternalID] = guest
	return nil
}

func (r *memGuests) CountByHotel(_ context.Context, _ uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.guests)), nil
}

var _ hotel.GuestRepository = (*memGuests)(nil)

type memRooms struct {
	mu    sync.Mutex
	rooms map[string]*hotel.Room
}

func newMemRooms() *memRooms {
	return &memRooms{rooms: make(map[string]*hotel.Room)}
}

func (r *memRooms) FindByExternalRef(_ context.Context, hotelID uuid.UUID, ref hotel.ExternalRef) (*hotel.Room, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	room, ok := r.rooms[ref.ExternalID]
	if !ok || room.HotelID != hotelID {
		return nil, hotel.ErrRoomNotFound
	}
	return room, nil
}

func (r *memRooms) Upsert(_ context.Context, room *hotel.Room) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rooms[room.ExternalID] = room
	return nil
}

func (r *memRooms) CountByHotel(_ context.Context, _ uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.rooms)), nil
}

var _ hotel.RoomRepository = (*memRooms)(nil)
