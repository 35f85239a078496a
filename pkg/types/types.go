package types

import (
	"time"
)

type AlertLevel string

const (
	AlertLevelLow      AlertLevel = "LOW"
	AlertLevelMedium   AlertLevel = "MEDIUM"
	AlertLevelHigh     AlertLevel = "HIGH"
	AlertLevelCritical AlertLevel = "CRITICAL"
)

// Rank orders alert levels by severity, LOW being 1 and CRITICAL 4. Unknown levels rank 0.
func (l AlertLevel) Rank() int {
	switch l {
	case AlertLevelLow:
		return 1
	case AlertLevelMedium:
		return 2
	case AlertLevelHigh:
		return 3
	case AlertLevelCritical:
		return 4
	}
	return 0
}

func (l AlertLevel) Ptr() *AlertLevel {
	return &l
}

type ComplianceStatus string

const (
	ComplianceStatusCompliant    ComplianceStatus = "COMPLIANT"
	ComplianceStatusWarning      ComplianceStatus = "WARNING"
	ComplianceStatusNonCompliant ComplianceStatus = "NON_COMPLIANT"
)

type User struct {
	ID       string `json:"id"`
	TenantID string `json:"tenantId"`
}

// ReadingSubmission is the body of a POST to the temperature resource.
// Optional and required-but-possibly-missing fields are pointers so that
// absence can be told apart from a zero value.
type ReadingSubmission struct {
	SensorID     string   `json:"sensorId"`
	Temperature  *float64 `json:"temperature"`
	Humidity     *float64 `json:"humidity,omitempty"`
	ThresholdMin *float64 `json:"thresholdMin"`
	ThresholdMax *float64 `json:"thresholdMax"`
	RecordedAt   *string  `json:"recordedAt,omitempty"`
}

type Named struct {
	Name string `json:"name"`
}

type ReadingSummary struct {
	ID               string           `json:"id"`
	Temperature      float64          `json:"temperature"`
	Humidity         *float64         `json:"humidity"`
	AlertTriggered   bool             `json:"alertTriggered"`
	AlertLevel       *AlertLevel      `json:"alertLevel"`
	ComplianceStatus ComplianceStatus `json:"complianceStatus"`
	RecordedAt       time.Time        `json:"recordedAt"`
	Sensor           Named            `json:"sensor"`
	Location         Named            `json:"location"`
}

type Pagination struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Total  int `json:"total"`
}

type Thresholds struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

type ValidationDetail struct {
	Path    string `json:"path"`
	Code    string `json:"code"`
	Message string `json:"message"`
}
