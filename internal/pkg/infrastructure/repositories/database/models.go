package database

import (
	"time"
)

type Location struct {
	ID        string    `gorm:"primaryKey;size:64" json:"id"`
	Tenant    string    `gorm:"index;not null" json:"tenant"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"-"`
}

type Sensor struct {
	ID         string    `gorm:"primaryKey;size:64" json:"id"`
	Tenant     string    `gorm:"index;not null" json:"tenant"`
	LocationID string    `gorm:"index;size:64" json:"locationID"`
	Location   Location  `json:"location"`
	Name       string    `json:"name"`
	Type       string    `json:"type"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"-"`
	UpdatedAt  time.Time `json:"-"`
}

// TemperatureReading rows are written once and never updated.
type TemperatureReading struct {
	ID         string   `gorm:"primaryKey;size:64" json:"id"`
	Tenant     string   `gorm:"index:idx_readings_tenant_recorded,priority:1;not null" json:"tenant"`
	SensorID   string   `gorm:"index;size:64;not null" json:"sensorID"`
	Sensor     Sensor   `json:"sensor"`
	LocationID string   `gorm:"index;size:64;not null" json:"locationID"`
	Location   Location `json:"location"`
	UserID     *string  `gorm:"size:64" json:"userID,omitempty"`

	Temperature  float64  `gorm:"not null" json:"temperature"`
	Humidity     *float64 `json:"humidity"`
	ThresholdMin float64  `gorm:"not null" json:"thresholdMin"`
	ThresholdMax float64  `gorm:"not null" json:"thresholdMax"`

	AlertTriggered   bool    `gorm:"not null" json:"alertTriggered"`
	AlertLevel       *string `gorm:"size:16" json:"alertLevel"`
	ComplianceStatus string  `gorm:"size:16;not null" json:"complianceStatus"`

	RecordedAt time.Time `gorm:"index:idx_readings_tenant_recorded,priority:2;not null" json:"recordedAt"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

type AuditEvent struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	Tenant     string         `gorm:"index;not null" json:"tenant"`
	UserID     *string        `gorm:"size:64" json:"userID,omitempty"`
	Action     string         `gorm:"size:32;not null" json:"action"`
	Resource   string         `gorm:"size:64;not null" json:"resource"`
	ResourceID *string        `gorm:"size:64" json:"resourceID,omitempty"`
	Outcome    string         `gorm:"size:16;not null" json:"outcome"`
	RiskLevel  string         `gorm:"size:16;not null" json:"riskLevel"`
	Metadata   map[string]any `gorm:"serializer:json" json:"metadata,omitempty"`
	CreatedAt  time.Time      `gorm:"index" json:"createdAt"`
}
