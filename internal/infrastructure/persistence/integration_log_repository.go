package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hotelier/backend/internal/domain/integration"
	"github.com/hotelier/backend/internal/infrastructure/persistence/models"
)

// GormIntegrationLogRepository implements integration.LogRepository using
// GORM. The table is append-only; there is no update or delete path.
type GormIntegrationLogRepository struct {
	db *gorm.DB
}

// NewGormIntegrationLogRepository creates a new GormIntegrationLogRepository
func NewGormIntegrationLogRepository(db *gorm.DB) *GormIntegrationLogRepository {
	return &GormIntegrationLogRepository{db: db}
}

// Append writes one immutable audit entry
func (r *GormIntegrationLogRepository) Append(ctx context.Context, log *integration.Log) error {
	model := models.IntegrationLogModelFromDomain(log)
	return r.db.WithContext(ctx).Create(model).Error
}

// FindByIntegration lists an integration's audit entries newest first,
// narrowed by the filter and paginated.
func (r *GormIntegrationLogRepository) FindByIntegration(ctx context.Context, integrationID uuid.UUID, filter integration.LogFilter) ([]integration.Log, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&models.IntegrationLogModel{}).
		Where("integration_id = ?", integrationID)

	if filter.OperationType != nil {
		query = query.Where("operation_type = ?", string(*filter.OperationType))
	}
	if filter.Status != nil {
		query = query.Where("status = ?", string(*filter.Status))
	}
	if filter.Since != nil {
		query = query.Where("created_at >= ?", *filter.Since)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page
	if page <= 0 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}

	var rows []models.IntegrationLogModel
	if err := query.
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	logs := make([]integration.Log, 0, len(rows))
	for i := range rows {
		logs = append(logs, *rows[i].ToDomain())
	}
	return logs, total, nil
}

// Ensure GormIntegrationLogRepository implements LogRepository
var _ integration.LogRepository = (*GormIntegrationLogRepository)(nil)
