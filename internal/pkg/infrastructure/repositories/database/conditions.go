package database

import (
	"time"
)

type ConditionFunc func(*Condition) *Condition

type Condition struct {
	Tenant     string
	SensorID   string
	LocationID string

	RecordedAfter  *time.Time
	RecordedBefore *time.Time

	AlertsOnly bool

	offset *int
	limit  *int
}

func (c Condition) Offset() (int, bool) {
	if c.offset == nil {
		return 0, false
	}
	return *c.offset, true
}

func (c Condition) Limit() (int, bool) {
	if c.limit == nil {
		return 0, false
	}
	return *c.limit, true
}

func WithTenant(tenant string) ConditionFunc {
	return func(c *Condition) *Condition {
		c.Tenant = tenant
		return c
	}
}

func WithSensorID(sensorID string) ConditionFunc {
	return func(c *Condition) *Condition {
		c.SensorID = sensorID
		return c
	}
}

func WithLocationID(locationID string) ConditionFunc {
	return func(c *Condition) *Condition {
		c.LocationID = locationID
		return c
	}
}

// WithRecordedAfter includes readings recorded at or after t
func WithRecordedAfter(t time.Time) ConditionFunc {
	return func(c *Condition) *Condition {
		t := t.UTC()
		c.RecordedAfter = &t
		return c
	}
}

// WithRecordedBefore includes readings recorded at or before t
func WithRecordedBefore(t time.Time) ConditionFunc {
	return func(c *Condition) *Condition {
		t := t.UTC()
		c.RecordedBefore = &t
		return c
	}
}

func WithAlertsOnly(alertsOnly bool) ConditionFunc {
	return func(c *Condition) *Condition {
		c.AlertsOnly = alertsOnly
		return c
	}
}

func WithOffset(offset int) ConditionFunc {
	return func(c *Condition) *Condition {
		c.offset = &offset
		return c
	}
}

func WithLimit(limit int) ConditionFunc {
	return func(c *Condition) *Condition {
		c.limit = &limit
		return c
	}
}

func newCondition(conditions ...ConditionFunc) *Condition {
	c := &Condition{}
	for _, f := range conditions {
		f(c)
	}
	return c
}
