package database

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

type AuditRepository interface {
	AddAuditEvent(ctx context.Context, event *AuditEvent) error
	QueryAuditEvents(ctx context.Context, conditions ...ConditionFunc) ([]AuditEvent, error)
}

type auditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) AuditRepository {
	return &auditRepository{
		db: db,
	}
}

func (r *auditRepository) AddAuditEvent(ctx context.Context, event *AuditEvent) error {
	if event.Tenant == "" {
		return ErrMissingTenant
	}

	err := r.db.WithContext(ctx).Create(event).Error
	if err != nil {
		return fmt.Errorf("%w: %s", ErrStoreFailed, err.Error())
	}

	return nil
}

func (r *auditRepository) QueryAuditEvents(ctx context.Context, conditions ...ConditionFunc) ([]AuditEvent, error) {
	c := newCondition(conditions...)

	if c.Tenant == "" {
		return nil, ErrMissingTenant
	}

	query := r.db.WithContext(ctx).Where(&AuditEvent{Tenant: c.Tenant})

	if offset, ok := c.Offset(); ok {
		query = query.Offset(offset)
	}

	if limit, ok := c.Limit(); ok {
		query = query.Limit(limit)
	}

	events := []AuditEvent{}

	err := query.Order("created_at DESC").Order("id DESC").Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrQueryFailed, err.Error())
	}

	return events, nil
}
