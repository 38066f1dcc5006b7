package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hotelier/backend/internal/domain/hotel"
	"github.com/hotelier/backend/internal/domain/shared"
	"github.com/hotelier/backend/internal/infrastructure/persistence/models"
)

// GormRoomRepository implements hotel.RoomRepository using GORM
type GormRoomRepository struct {
	db *gorm.DB
}

// NewGormRoomRepository creates a new GormRoomRepository
func NewGormRoomRepository(db *gorm.DB) *GormRoomRepository {
	return &GormRoomRepository{db: db}
}

// FindByExternalRef locates a room by its remote identity
func (r *GormRoomRepository) FindByExternalRef(ctx context.Context, hotelID uuid.UUID, ref hotel.ExternalRef) (*hotel.Room, error) {
	var model models.RoomModel
	if err := r.db.WithContext(ctx).
		Where("hotel_id = ? AND external_id = ? AND external_source = ?", hotelID, ref.ExternalID, ref.ExternalSource).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, hotel.ErrRoomNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Upsert updates the existing room matching (hotel, external_id,
// external_source) in place, or creates it when no match exists
func (r *GormRoomRepository) Upsert(ctx context.Context, room *hotel.Room) error {
	existing, err := r.FindByExternalRef(ctx, room.HotelID, room.ExternalRef)
	switch {
	case err == nil:
		room.ID = existing.ID
		room.CreatedAt = existing.CreatedAt
	case errors.Is(err, hotel.ErrRoomNotFound):
		if room.ID == uuid.Nil {
			room.BaseEntity = shared.NewBaseEntity()
		}
	default:
		return err
	}
	room.UpdatedAt = time.Now()

	model := &models.RoomModel{}
	model.FromDomain(room)
	return r.db.WithContext(ctx).Save(model).Error
}

// CountByHotel returns the number of rooms a hotel has
func (r *GormRoomRepository) CountByHotel(ctx context.Context, hotelID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.RoomModel{}).
		Where("hotel_id = ?", hotelID).
		Count(&count).Error
	return count, err
}

// Ensure GormRoomRepository implements RoomRepository
var _ hotel.RoomRepository = (*GormRoomRepository)(nil)
