package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hotelier/backend/internal/domain/integration"
	"github.com/hotelier/backend/internal/infrastructure/persistence/models"
)

// GormIntegrationRepository implements integration.Repository using GORM
type GormIntegrationRepository struct {
	db *gorm.DB
}

// NewGormIntegrationRepository creates a new GormIntegrationRepository
func NewGormIntegrationRepository(db *gorm.DB) *GormIntegrationRepository {
	return &GormIntegrationRepository{db: db}
}

// FindByID finds an integration by its ID
func (r *GormIntegrationRepository) FindByID(ctx context.Context, id uuid.UUID) (*integration.Integration, error) {
	var model models.IntegrationModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, integration.ErrIntegrationNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByHotelAndType finds a hotel's integration of the given family
func (r *GormIntegrationRepository) FindByHotelAndType(ctx context.Context, hotelID uuid.UUID, typ integration.Type) (*integration.Integration, error) {
	var model models.IntegrationModel
	if err := r.db.WithContext(ctx).
		Where("hotel_id = ? AND type = ?", hotelID, string(typ)).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, integration.ErrIntegrationNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save creates or fully updates an integration record
func (r *GormIntegrationRepository) Save(ctx context.Context, i *integration.Integration) error {
	model := models.IntegrationModelFromDomain(i)
	model.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).Save(model).Error
}

// UpdateSyncState applies one atomic write to the integration's sync fields,
// leaving configuration and credentials untouched. This is the only mutation
// path the orchestrator uses at run boundaries.
func (r *GormIntegrationRepository) UpdateSyncState(ctx context.Context, id uuid.UUID, update integration.SyncStateUpdate) error {
	result := r.db.WithContext(ctx).
		Model(&models.IntegrationModel{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"sync_status":     string(update.SyncStatus),
			"last_sync":       update.LastSync,
			"sync_started_at": update.SyncStartedAt,
			"error_count":     update.ErrorCount,
			"last_error":      update.LastError,
			"updated_at":      time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return integration.ErrIntegrationNotFound
	}
	return nil
}

// Ensure GormIntegrationRepository implements Repository
var _ integration.Repository = (*GormIntegrationRepository)(nil)
