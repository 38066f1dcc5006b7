package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/hotelier/backend/internal/domain/integration"
)

// IntegrationModel is the persistence model for the Integration aggregate.
// Config, credentials and sync settings are stored as JSON documents; the
// unique (hotel_id, type) index enforces at most one integration per family
// per hotel.
type IntegrationModel struct {
	BaseModel
	HotelID         uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_integrations_hotel_type,priority:1"`
	Type            string     `gorm:"type:varchar(30);not null;uniqueIndex:idx_integrations_hotel_type,priority:2"`
	Provider        string     `gorm:"type:varchar(100);not null"`
	ProviderVersion string     `gorm:"type:varchar(30)"`
	Status          string     `gorm:"type:varchar(20);not null;default:'inactive';index"`
	ConfigJSON      string     `gorm:"type:jsonb;column:config"`
	CredentialsJSON string     `gorm:"type:jsonb;column:credentials"`
	WebhookURL      string     `gorm:"type:varchar(500)"`
	WebhookSecret   string     `gorm:"type:varchar(255)"`
	SyncSettings    string     `gorm:"type:jsonb;column:sync_settings"`
	LastSync        *time.Time `gorm:""`
	SyncStatus      string     `gorm:"type:varchar(20)"`
	SyncStartedAt   *time.Time `gorm:""`
	ErrorCount      int        `gorm:"not null;default:0"`
	LastError       string     `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (IntegrationModel) TableName() string {
	return "integrations"
}

// ToDomain converts the persistence model to a domain Integration aggregate
func (m *IntegrationModel) ToDomain() *integration.Integration {
	i := &integration.Integration{
		BaseEntity:      m.BaseModel.ToDomain(),
		HotelID:         m.HotelID,
		Type:            integration.Type(m.Type),
		Provider:        m.Provider,
		ProviderVersion: m.ProviderVersion,
		Status:          integration.Status(m.Status),
		Config:          make(map[string]any),
		Credentials:     make(map[string]string),
		WebhookURL:      m.WebhookURL,
		WebhookSecret:   m.WebhookSecret,
		LastSync:        m.LastSync,
		SyncStatus:      integration.SyncStatus(m.SyncStatus),
		SyncStartedAt:   m.SyncStartedAt,
		ErrorCount:      m.ErrorCount,
		LastError:       m.LastError,
	}

	if m.ConfigJSON != "" {
		var config map[string]any
		if err := json.Unmarshal([]byte(m.ConfigJSON), &config); err == nil {
			i.Config = config
		}
	}
	if m.CredentialsJSON != "" {
		var credentials map[string]string
		if err := json.Unmarshal([]byte(m.CredentialsJSON), &credentials); err == nil {
			i.Credentials = credentials
		}
	}
	if m.SyncSettings != "" {
		var settings integration.SyncSettings
		if err := json.Unmarshal([]byte(m.SyncSettings), &settings); err == nil {
			i.SyncSettings = settings
		}
	}

	return i
}

// FromDomain populates the persistence model from a domain Integration
func (m *IntegrationModel) FromDomain(i *integration.Integration) {
	m.FromDomainBaseEntity(i.BaseEntity)
	m.HotelID = i.HotelID
	m.Type = string(i.Type)
	m.Provider = i.Provider
	m.ProviderVersion = i.ProviderVersion
	m.Status = string(i.Status)
	m.WebhookURL = i.WebhookURL
	m.WebhookSecret = i.WebhookSecret
	m.LastSync = i.LastSync
	m.SyncStatus = string(i.SyncStatus)
	m.SyncStartedAt = i.SyncStartedAt
	m.ErrorCount = i.ErrorCount
	m.LastError = i.LastError

	m.ConfigJSON = marshalJSONMap(i.Config)
	if raw, err := json.Marshal(i.Credentials); err == nil {
		m.CredentialsJSON = string(raw)
	} else {
		m.CredentialsJSON = "{}"
	}
	if raw, err := json.Marshal(i.SyncSettings); err == nil {
		m.SyncSettings = string(raw)
	}
}

// IntegrationModelFromDomain creates a new persistence model from a domain
// Integration aggregate
func IntegrationModelFromDomain(i *integration.Integration) *IntegrationModel {
	m := &IntegrationModel{}
	m.FromDomain(i)
	return m
}

// IntegrationLogModel is the persistence model for append-only audit entries
type IntegrationLogModel struct {
	ID               uuid.UUID `gorm:"type:uuid;primary_key"`
	IntegrationID    uuid.UUID `gorm:"type:uuid;not null;index:idx_integration_logs_integration_created,priority:1"`
	OperationType    string    `gorm:"type:varchar(20);not null;index"`
	OperationName    string    `gorm:"type:varchar(100);not null"`
	Direction        string    `gorm:"type:varchar(20);not null"`
	Status           string    `gorm:"type:varchar(20);not null;index"`
	RequestData      string    `gorm:"type:jsonb"`
	ResponseData     string    `gorm:"type:jsonb"`
	ErrorMessage     string    `gorm:"type:text"`
	ErrorCode        string    `gorm:"type:varchar(50)"`
	ProcessingTime   int64     `gorm:"not null;default:0"`
	RecordsProcessed int       `gorm:"not null;default:0"`
	RecordsSuccess   int       `gorm:"not null;default:0"`
	RecordsFailed    int       `gorm:"not null;default:0"`
	Metadata         string    `gorm:"type:jsonb"`
	CreatedAt        time.Time `gorm:"not null;index:idx_integration_logs_integration_created,priority:2,sort:desc"`
}

// TableName returns the table name for GORM
func (IntegrationLogModel) TableName() string {
	return "integration_logs"
}

// ToDomain converts the persistence model to a domain Log entity
func (m *IntegrationLogModel) ToDomain() *integration.Log {
	l := &integration.Log{
		ID:               m.ID,
		IntegrationID:    m.IntegrationID,
		OperationType:    integration.OperationType(m.OperationType),
		OperationName:    m.OperationName,
		Direction:        integration.Direction(m.Direction),
		Status:           integration.LogStatus(m.Status),
		ErrorMessage:     m.ErrorMessage,
		ErrorCode:        m.ErrorCode,
		ProcessingTime:   m.ProcessingTime,
		RecordsProcessed: m.RecordsProcessed,
		RecordsSuccess:   m.RecordsSuccess,
		RecordsFailed:    m.RecordsFailed,
		CreatedAt:        m.CreatedAt,
	}

	if m.RequestData != "" {
		var data map[string]any
		if err := json.Unmarshal([]byte(m.RequestData), &data); err == nil {
			l.RequestData = data
		}
	}
	if m.ResponseData != "" {
		var data map[string]any
		if err := json.Unmarshal([]byte(m.ResponseData), &data); err == nil {
			l.ResponseData = data
		}
	}
	if m.Metadata != "" {
		var data map[string]any
		if err := json.Unmarshal([]byte(m.Metadata), &data); err == nil {
			l.Metadata = data
		}
	}

	return l
}

// FromDomain populates the persistence model from a domain Log entity
func (m *IntegrationLogModel) FromDomain(l *integration.Log) {
	m.ID = l.ID
	m.IntegrationID = l.IntegrationID
	m.OperationType = string(l.OperationType)
	m.OperationName = l.OperationName
	m.Direction = string(l.Direction)
	m.Status = string(l.Status)
	m.ErrorMessage = l.ErrorMessage
	m.ErrorCode = l.ErrorCode
	m.ProcessingTime = l.ProcessingTime
	m.RecordsProcessed = l.RecordsProcessed
	m.RecordsSuccess = l.RecordsSuccess
	m.RecordsFailed = l.RecordsFailed
	m.CreatedAt = l.CreatedAt

	m.RequestData = marshalJSONMap(l.RequestData)
	m.ResponseData = marshalJSONMap(l.ResponseData)
	m.Metadata = marshalJSONMap(l.Metadata)
}

// IntegrationLogModelFromDomain creates a new persistence model from a domain
// Log entity
func IntegrationLogModelFromDomain(l *integration.Log) *IntegrationLogModel {
	m := &IntegrationLogModel{}
	m.FromDomain(l)
	return m
}

// marshalJSONMap serializes an optional map column, storing empty documents
// as "{}" so the column is always valid JSON.
func marshalJSONMap(v map[string]any) string {
	if len(v) == 0 {
		return "{}"
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return string(raw)
}
