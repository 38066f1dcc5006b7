package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/hotelier/backend/internal/domain/hotel"
	"github.com/hotelier/backend/internal/infrastructure/persistence/models"
)

func setupRoomTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&models.RoomModel{})
	require.NoError(t, err)

	return db
}

func sampleRoom(hotelID uuid.UUID) *hotel.Room {
	return &hotel.Room{
		ExternalRef: hotel.ExternalRef{
			ExternalID:     "rm-1",
			ExternalSource: "mews",
		},
		HotelID:  hotelID,
		Number:   "204",
		RoomType: "deluxe",
		Floor:    2,
		Status:   "clean",
	}
}

func TestGormRoomRepository_Upsert(t *testing.T) {
	db := setupRoomTestDB(t)
	repo := NewGormRoomRepository(db)
	ctx := context.Background()

	t.Run("re-synced room updates the same row", func(t *testing.T) {
		hotelID := uuid.New()
		room := sampleRoom(hotelID)
		require.NoError(t, repo.Upsert(ctx, room))
		firstID := room.ID

		dirty := sampleRoom(hotelID)
		dirty.Status = "dirty"
		require.NoError(t, repo.Upsert(ctx, dirty))
		assert.Equal(t, firstID, dirty.ID)

		count, err := repo.CountByHotel(ctx, hotelID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)

		found, err := repo.FindByExternalRef(ctx, hotelID, room.ExternalRef)
		require.NoError(t, err)
		assert.Equal(t, "dirty", found.Status)
		assert.Equal(t, 2, found.Floor)
	})

	t.Run("misses yield the not-found sentinel", func(t *testing.T) {
		_, err := repo.FindByExternalRef(ctx, uuid.New(), hotel.ExternalRef{ExternalID: "rm-404", ExternalSource: "mews"})
		assert.ErrorIs(t, err, hotel.ErrRoomNotFound)
	})
}
