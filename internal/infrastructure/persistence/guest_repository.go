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

// GormGuestRepository implements hotel.GuestRepository using GORM
type GormGuestRepository struct {
	db *gorm.DB
}

// NewGormGuestRepository creates a new GormGuestRepository
func NewGormGuestRepository(db *gorm.DB) *GormGuestRepository {
	return &GormGuestRepository{db: db}
}

// FindByExternalRef locates a guest by their remote identity
func (r *GormGuestRepository) FindByExternalRef(ctx context.Context, hotelID uuid.UUID, ref hotel.ExternalRef) (*hotel.Guest, error) {
	var model models.GuestModel
	if err := r.db.WithContext(ctx).
		Where("hotel_id = ? AND external_id = ? AND external_source = ?", hotelID, ref.ExternalID, ref.ExternalSource).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, hotel.ErrGuestNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Upsert updates the existing guest matching (hotel, external_id,
// external_source) in place, or creates them when no match exists
func (r *GormGuestRepository) Upsert(ctx context.Context, guest *hotel.Guest) error {
	existing, err := r.FindByExternalRef(ctx, guest.HotelID, guest.ExternalRef)
	switch {
	case err == nil:
		guest.ID = existing.ID
		guest.CreatedAt = existing.CreatedAt
	case errors.Is(err, hotel.ErrGuestNotFound):
		if guest.ID == uuid.Nil {
			guest.BaseEntity = shared.NewBaseEntity()
		}
	default:
		return err
	}
	guest.UpdatedAt = time.Now()

	model := &models.GuestModel{}
	model.FromDomain(guest)
	return r.db.WithContext(ctx).Save(model).Error
}

// CountByHotel returns the number of guests a hotel has
func (r *GormGuestRepository) CountByHotel(ctx context.Context, hotelID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.GuestModel{}).
		Where("hotel_id = ?", hotelID).
		Count(&count).Error
	return count, err
}

// Ensure GormGuestRepository implements GuestRepository
var _ hotel.GuestRepository = (*GormGuestRepository)(nil)
