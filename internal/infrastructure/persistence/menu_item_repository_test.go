package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/hotelier/backend/internal/domain/hotel"
	"github.com/hotelier/backend/internal/infrastructure/persistence/models"
)

func setupMenuItemTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&models.MenuItemModel{})
	require.NoError(t, err)

	return db
}

func sampleMenuItem(hotelID uuid.UUID) *hotel.MenuItem {
	return &hotel.MenuItem{
		ExternalRef: hotel.ExternalRef{
			ExternalID:     "itm-1",
			ExternalSource: "square",
		},
		HotelID:   hotelID,
		Name:      "Club Sandwich",
		Category:  "mains",
		Price:     decimal.NewFromFloat(14.50),
		Currency:  "USD",
		Available: true,
	}
}

func TestGormMenuItemRepository_Upsert(t *testing.T) {
	db := setupMenuItemTestDB(t)
	repo := NewGormMenuItemRepository(db)
	ctx := context.Background()

	t.Run("creates then updates the same row", func(t *testing.T) {
		hotelID := uuid.New()
		item := sampleMenuItem(hotelID)
		require.NoError(t, repo.Upsert(ctx, item))

		firstID := item.ID
		require.NotEqual(t, uuid.Nil, firstID)

		// A later sync delivering the same remote identity updates in place
		updated := sampleMenuItem(hotelID)
		updated.Name = "Club Sandwich Deluxe"
		updated.Price = decimal.NewFromFloat(16.00)
		require.NoError(t, repo.Upsert(ctx, updated))

		assert.Equal(t, firstID, updated.ID)

		count, err := repo.CountByHotel(ctx, hotelID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)

		found, err := repo.FindByExternalRef(ctx, hotelID, item.ExternalRef)
		require.NoError(t, err)
		assert.Equal(t, "Club Sandwich Deluxe", found.Name)
		assert.True(t, found.Price.Equal(decimal.NewFromFloat(16.00)))
		assert.Equal(t, item.CreatedAt.Unix(), found.CreatedAt.Unix())
	})

	t.Run("same external id from another source is a distinct row", func(t *testing.T) {
		hotelID := uuid.New()
		require.NoError(t, repo.Upsert(ctx, sampleMenuItem(hotelID)))

		other := sampleMenuItem(hotelID)
		other.ExternalSource = "toast"
		require.NoError(t, repo.Upsert(ctx, other))

		count, err := repo.CountByHotel(ctx, hotelID)
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)
	})

	t.Run("same external id for another hotel is a distinct row", func(t *testing.T) {
		first := sampleMenuItem(uuid.New())
		second := sampleMenuItem(uuid.New())
		require.NoError(t, repo.Upsert(ctx, first))
		require.NoError(t, repo.Upsert(ctx, second))
		assert.NotEqual(t, first.ID, second.ID)
	})
}

func TestGormMenuItemRepository_FindByExternalRef(t *testing.T) {
	db := setupMenuItemTestDB(t)
	repo := NewGormMenuItemRepository(db)
	ctx := context.Background()

	hotelID := uuid.New()
	require.NoError(t, repo.Upsert(ctx, sampleMenuItem(hotelID)))

	t.Run("finds by the full remote identity", func(t *testing.T) {
		found, err := repo.FindByExternalRef(ctx, hotelID, hotel.ExternalRef{ExternalID: "itm-1", ExternalSource: "square"})
		require.NoError(t, err)
		assert.Equal(t, "Club Sandwich", found.Name)
	})

	t.Run("misses yield the not-found sentinel", func(t *testing.T) {
		_, err := repo.FindByExternalRef(ctx, hotelID, hotel.ExternalRef{ExternalID: "itm-1", ExternalSource: "toast"})
		assert.ErrorIs(t, err, hotel.ErrMenuItemNotFound)

		_, err = repo.FindByExternalRef(ctx, uuid.New(), hotel.ExternalRef{ExternalID: "itm-1", ExternalSource: "square"})
		assert.ErrorIs(t, err, hotel.ErrMenuItemNotFound)
	})
}
