package types

import (
	"encoding/json"
	"time"
)

type TemperatureAlert struct {
	ReadingID   string     `json:"readingID"`
	SensorID    string     `json:"sensorID"`
	LocationID  string     `json:"locationID"`
	Tenant      string     `json:"tenant"`
	Temperature float64    `json:"temperature"`
	Thresholds  Thresholds `json:"thresholds"`
	Severity    AlertLevel `json:"severity"`
	Timestamp   time.Time  `json:"timestamp"`
}

func (a *TemperatureAlert) ContentType() string {
	return "application/json"
}
func (a *TemperatureAlert) TopicName() string {
	return "temperature.alertTriggered"
}
func (a *TemperatureAlert) Body() []byte {
	b, _ := json.Marshal(a)
	return b
}
