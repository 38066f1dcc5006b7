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

// GormMenuItemRepository implements hotel.MenuItemRepository using GORM
type GormMenuItemRepository struct {
	db *gorm.DB
}

// NewGormMenuItemRepository creates a new GormMenuItemRepository
func NewGormMenuItemRepository(db *gorm.DB) *GormMenuItemRepository {
	return &GormMenuItemRepository{db: db}
}

// FindByExternalRef locates a menu item by its remote identity
func (r *GormMenuItemRepository) FindByExternalRef(ctx context.Context, hotelID uuid.UUID, ref hotel.ExternalRef) (*hotel.MenuItem, error) {
	var model models.MenuItemModel
	if err := r.db.WithContext(ctx).
		Where("hotel_id = ? AND external_id = ? AND external_source = ?", hotelID, ref.ExternalID, ref.ExternalSource).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, hotel.ErrMenuItemNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Upsert updates the existing item matching (hotel, external_id,
// external_source) in place, or creates it when no match exists. Existing
// rows keep their identity across syncs.
func (r *GormMenuItemRepository) Upsert(ctx context.Context, item *hotel.MenuItem) error {
	existing, err := r.FindByExternalRef(ctx, item.HotelID, item.ExternalRef)
	switch {
	case err == nil:
		item.ID = existing.ID
		item.CreatedAt = existing.CreatedAt
	case errors.Is(err, hotel.ErrMenuItemNotFound):
		if item.ID == uuid.Nil {
			item.BaseEntity = shared.NewBaseEntity()
		}
	default:
		return err
	}
	item.UpdatedAt = time.Now()

	model := &models.MenuItemModel{}
	model.FromDomain(item)
	return r.db.WithContext(ctx).Save(model).Error
}

// CountByHotel returns the number of menu items a hotel has
func (r *GormMenuItemRepository) CountByHotel(ctx context.Context, hotelID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.MenuItemModel{}).
		Where("hotel_id = ?", hotelID).
		Count(&count).Error
	return count, err
}

// Ensure GormMenuItemRepository implements MenuItemRepository
var _ hotel.MenuItemRepository = (*GormMenuItemRepository)(nil)
