package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/hotelier/backend/internal/domain/integration"
	"github.com/hotelier/backend/internal/infrastructure/persistence/models"
)

func setupIntegrationLogTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&models.IntegrationLogModel{})
	require.NoError(t, err)

	return db
}

// appendEntry writes one entry with a controlled timestamp so ordering and
// since-filters are deterministic.
func appendEntry(t *testing.T, repo *GormIntegrationLogRepository, integrationID uuid.UUID, opType integration.OperationType, status integration.LogStatus, createdAt time.Time) *integration.Log {
	t.Helper()
	entry := integration.NewLog(integrationID, opType, "sync_menus", integration.DirectionInbound)
	entry.Status = status
	entry.CreatedAt = createdAt
	if opType != integration.OperationSync {
		entry.OperationName = string(opType)
	}
	require.NoError(t, repo.Append(context.Background(), entry))
	return entry
}

func TestGormIntegrationLogRepository_Append(t *testing.T) {
	db := setupIntegrationLogTestDB(t)
	repo := NewGormIntegrationLogRepository(db)
	ctx := context.Background()

	entry := integration.NewLog(uuid.New(), integration.OperationSync, "sync_menus", integration.DirectionInbound)
	entry.Status = integration.LogStatusPartial
	entry.RecordsProcessed = 10
	entry.RecordsSuccess = 9
	entry.RecordsFailed = 1
	entry.ErrorCode = "RECORD_MALFORMED"
	entry.Metadata = map[string]any{"collection": "menus"}
	require.NoError(t, repo.Append(ctx, entry))

	logs, total, err := repo.FindByIntegration(ctx, entry.IntegrationID, integration.LogFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, logs, 1)

	got := logs[0]
	assert.Equal(t, entry.ID, got.ID)
	assert.Equal(t, integration.LogStatusPartial, got.Status)
	assert.Equal(t, 10, got.RecordsProcessed)
	assert.Equal(t, 9, got.RecordsSuccess)
	assert.Equal(t, 1, got.RecordsFailed)
	assert.Equal(t, "RECORD_MALFORMED", got.ErrorCode)
	assert.Equal(t, "menus", got.Metadata["collection"])
}

func TestGormIntegrationLogRepository_FindByIntegration(t *testing.T) {
	db := setupIntegrationLogTestDB(t)
	repo := NewGormIntegrationLogRepository(db)
	ctx := context.Background()

	integrationID := uuid.New()
	base := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)

	appendEntry(t, repo, integrationID, integration.OperationSync, integration.LogStatusSuccess, base)
	appendEntry(t, repo, integrationID, integration.OperationSync, integration.LogStatusFailed, base.Add(1*time.Hour))
	appendEntry(t, repo, integrationID, integration.OperationWebhook, integration.LogStatusSuccess, base.Add(2*time.Hour))
	appendEntry(t, repo, integrationID, integration.OperationTest, integration.LogStatusSuccess, base.Add(3*time.Hour))
	// Noise belonging to another integration
	appendEntry(t, repo, uuid.New(), integration.OperationSync, integration.LogStatusSuccess, base)

	t.Run("lists newest first scoped to the integration", func(t *testing.T) {
		logs, total, err := repo.FindByIntegration(ctx, integrationID, integration.LogFilter{})
		require.NoError(t, err)
		assert.Equal(t, int64(4), total)
		require.Len(t, logs, 4)
		assert.Equal(t, integration.OperationTest, logs[0].OperationType)
		assert.Equal(t, integration.OperationSync, logs[3].OperationType)
	})

	t.Run("filters by operation type", func(t *testing.T) {
		opType := integration.OperationSync
		logs, total, err := repo.FindByIntegration(ctx, integrationID, integration.LogFilter{OperationType: &opType})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		for _, l := range logs {
			assert.Equal(t, integration.OperationSync, l.OperationType)
		}
	})

	t.Run("filters by status", func(t *testing.T) {
		status := integration.LogStatusFailed
		logs, total, err := repo.FindByIntegration(ctx, integrationID, integration.LogFilter{Status: &status})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, logs, 1)
		assert.Equal(t, integration.LogStatusFailed, logs[0].Status)
	})

	t.Run("filters by since", func(t *testing.T) {
		since := base.Add(90 * time.Minute)
		_, total, err := repo.FindByIntegration(ctx, integrationID, integration.LogFilter{Since: &since})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
	})

	t.Run("paginates with a stable total", func(t *testing.T) {
		logs, total, err := repo.FindByIntegration(ctx, integrationID, integration.LogFilter{Page: 1, PageSize: 3})
		require.NoError(t, err)
		assert.Equal(t, int64(4), total)
		assert.Len(t, logs, 3)

		logs, total, err = repo.FindByIntegration(ctx, integrationID, integration.LogFilter{Page: 2, PageSize: 3})
		require.NoError(t, err)
		assert.Equal(t, int64(4), total)
		assert.Len(t, logs, 1)
	})

	t.Run("unknown integration lists empty", func(t *testing.T) {
		logs, total, err := repo.FindByIntegration(ctx, uuid.New(), integration.LogFilter{})
		require.NoError(t, err)
		assert.Zero(t, total)
		assert.Empty(t, logs)
	})
}
