package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hotelier/backend/internal/domain/hotel"
)

// The downstream models share the (hotel_id, external_id, external_source)
// unique index that makes sync upserts idempotent.

// MenuItemModel is the persistence model for synchronized menu items
type MenuItemModel struct {
	BaseModel
	HotelID        uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_menu_items_external_ref,priority:1"`
	ExternalID     string          `gorm:"type:varchar(100);not null;uniqueIndex:idx_menu_items_external_ref,priority:2"`
	ExternalSource string          `gorm:"type:varchar(100);not null;uniqueIndex:idx_menu_items_external_ref,priority:3"`
	Name           string          `gorm:"type:varchar(255);not null"`
	Description    string          `gorm:"type:text"`
	Category       string          `gorm:"type:varchar(100);index"`
	Price          decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Currency       string          `gorm:"type:varchar(3);not null"`
	Available      bool            `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (MenuItemModel) TableName() string {
	return "menu_items"
}

// ToDomain converts the persistence model to a domain MenuItem
func (m *MenuItemModel) ToDomain() *hotel.MenuItem {
	return &hotel.MenuItem{
		BaseEntity: m.BaseModel.ToDomain(),
		ExternalRef: hotel.ExternalRef{
			ExternalID:     m.ExternalID,
			ExternalSource: m.ExternalSource,
		},
		HotelID:     m.HotelID,
		Name:        m.Name,
		Description: m.Description,
		Category:    m.Category,
		Price:       m.Price,
		Currency:    m.Currency,
		Available:   m.Available,
	}
}

// FromDomain populates the persistence model from a domain MenuItem
func (m *MenuItemModel) FromDomain(item *hotel.MenuItem) {
	m.FromDomainBaseEntity(item.BaseEntity)
	m.HotelID = item.HotelID
	m.ExternalID = item.ExternalID
	m.ExternalSource = item.ExternalSource
	m.Name = item.Name
	m.Description = item.Description
	m.Category = item.Category
	m.Price = item.Price
	m.Currency = item.Currency
	m.Available = item.Available
}

// GuestModel is the persistence model for synchronized guests
type GuestModel struct {
	BaseModel
	HotelID        uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_guests_external_ref,priority:1"`
	ExternalID     string     `gorm:"type:varchar(100);not null;uniqueIndex:idx_guests_external_ref,priority:2"`
	ExternalSource string     `gorm:"type:varchar(100);not null;uniqueIndex:idx_guests_external_ref,priority:3"`
	FirstName      string     `gorm:"type:varchar(100)"`
	LastName       string     `gorm:"type:varchar(100)"`
	Email          string     `gorm:"type:varchar(255);index"`
	Phone          string     `gorm:"type:varchar(50)"`
	RoomNumber     string     `gorm:"type:varchar(20);index"`
	CheckInDate    *time.Time `gorm:""`
	CheckOutDate   *time.Time `gorm:""`
	Status         string     `gorm:"type:varchar(30);index"`
}

// TableName returns the table name for GORM
func (GuestModel) TableName() string {
	return "guests"
}

// ToDomain converts the persistence model to a domain Guest
func (m *GuestModel) ToDomain() *hotel.Guest {
	return &hotel.Guest{
		BaseEntity: m.BaseModel.ToDomain(),
		ExternalRef: hotel.ExternalRef{
			ExternalID:     m.ExternalID,
			ExternalSource: m.ExternalSource,
		},
		HotelID:      m.HotelID,
		FirstName:    m.FirstName,
		LastName:     m.LastName,
		Email:        m.Email,
		Phone:        m.Phone,
		RoomNumber:   m.RoomNumber,
		CheckInDate:  m.CheckInDate,
		CheckOutDate: m.CheckOutDate,
		Status:       m.Status,
	}
}

// FromDomain populates the persistence model from a domain Guest
func (m *GuestModel) FromDomain(g *hotel.Guest) {
	m.FromDomainBaseEntity(g.BaseEntity)
	m.HotelID = g.HotelID
	m.ExternalID = g.ExternalID
	m.ExternalSource = g.ExternalSource
	m.FirstName = g.FirstName
	m.LastName = g.LastName
	m.Email = g.Email
	m.Phone = g.Phone
	m.RoomNumber = g.RoomNumber
	m.CheckInDate = g.CheckInDate
	m.CheckOutDate = g.CheckOutDate
	m.Status = g.Status
}

// RoomModel is the persistence model for synchronized rooms
type RoomModel struct {
	BaseModel
	HotelID        uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_rooms_external_ref,priority:1"`
	ExternalID     string    `gorm:"type:varchar(100);not null;uniqueIndex:idx_rooms_external_ref,priority:2"`
	ExternalSource string    `gorm:"type:varchar(100);not null;uniqueIndex:idx_rooms_external_ref,priority:3"`
	Number         string    `gorm:"type:varchar(20);not null;index"`
	RoomType       string    `gorm:"type:varchar(50)"`
	Floor          int       `gorm:"not null;default:0"`
	Status         string    `gorm:"type:varchar(30);index"`
}

// TableName returns the table name for GORM
func (RoomModel) TableName() string {
	return "rooms"
}

// ToDomain converts the persistence model to a domain Room
func (m *RoomModel) ToDomain() *hotel.Room {
	return &hotel.Room{
		BaseEntity: m.BaseModel.ToDomain(),
		ExternalRef: hotel.ExternalRef{
			ExternalID:     m.ExternalID,
			ExternalSource: m.ExternalSource,
		},
		HotelID:  m.HotelID,
		Number:   m.Number,
		RoomType: m.RoomType,
		Floor:    m.Floor,
		Status:   m.Status,
	}
}

// FromDomain populates the persistence model from a domain Room
func (m *RoomModel) FromDomain(r *hotel.Room) {
	m.FromDomainBaseEntity(r.BaseEntity)
	m.HotelID = r.HotelID
	m.ExternalID = r.ExternalID
	m.ExternalSource = r.ExternalSource
	m.Number = r.Number
	m.RoomType = r.RoomType
	m.Floor = r.Floor
	m.Status = r.Status
}
