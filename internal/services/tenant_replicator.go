package services

import (
	"context"
	"errors"

	"service-catalog/internal/domain/tenant"
	"service-catalog/internal/events"
	"service-catalog/internal/metrics"
	"service-catalog/internal/repository"
	catalog_errors "service-catalog/pkg/errors"

	"go.uber.org/zap"
)

const (
	replicationCreate = "create"
	replicationUpdate = "update"

	replicationApplied = "applied"
	replicationNoop    = "noop"
	replicationFailed  = "failed"
)

// TenantReplicator keeps the local tenant table in step with upstream tenant
// events. Both handlers are idempotent so redelivered messages are harmless.
type TenantReplicator struct {
	repo    repository.TenantRepository
	log     *zap.Logger
	metrics *metrics.Metrics
}

func NewTenantReplicator(repo repository.TenantRepository, log *zap.Logger, m *metrics.Metrics) *TenantReplicator {
	return &TenantReplicator{repo: repo, log: log.Named("tenant_replicator"), metrics: m}
}

func (r *TenantReplicator) HandleTenantCreated(ctx context.Context, ev events.TenantCreatedEvent) error {
	log := r.log.With(zap.String("tenant_id", ev.TenantID.String()), zap.String("event_id", ev.EventID.String()))

	_, err := r.repo.FindByID(ctx, ev.TenantID)
	switch {
	case err == nil:
		log.Info("tenant already exists, skipping create")
		r.metrics.RecordTenantReplication(replicationCreate, replicationNoop)
		return nil
	case !errors.Is(err, catalog_errors.ErrNotFound):
		return r.fail(log, replicationCreate, err)
	}

	t := tenant.Tenant{
		ID:           ev.TenantID,
		BusinessName: ev.BusinessName,
		Address:      valueOrEmpty(ev.Address),
	}
	if err := r.repo.Insert(ctx, &t); err != nil {
		if errors.Is(err, catalog_errors.ErrAlreadyExists) {
			log.Info("tenant inserted concurrently, skipping create")
			r.metrics.RecordTenantReplication(replicationCreate, replicationNoop)
			return nil
		}
		return r.fail(log, replicationCreate, err)
	}

	log.Info("tenant created", zap.String("business_name", t.BusinessName))
	r.metrics.RecordTenantReplication(replicationCreate, replicationApplied)
	return nil
}

func (r *TenantReplicator) HandleTenantUpdated(ctx context.Context, ev events.TenantUpdatedEvent) error {
	log := r.log.With(zap.String("tenant_id", ev.TenantID.String()), zap.String("event_id", ev.EventID.String()))

	t, err := r.repo.FindByID(ctx, ev.TenantID)
	if err != nil {
		if errors.Is(err, catalog_errors.ErrNotFound) {
			log.Warn("tenant not found, skipping update")
			r.metrics.RecordTenantReplication(replicationUpdate, replicationNoop)
			return nil
		}
		return r.fail(log, replicationUpdate, err)
	}

	t.BusinessName = ev.BusinessName
	t.Address = valueOrEmpty(ev.Address)
	if err := r.repo.Update(ctx, &t); err != nil {
		// deleted between read and write
		if errors.Is(err, catalog_errors.ErrNotFound) {
			log.Warn("tenant disappeared before update, skipping")
			r.metrics.RecordTenantReplication(replicationUpdate, replicationNoop)
			return nil
		}
		return r.fail(log, replicationUpdate, err)
	}

	log.Info("tenant updated", zap.String("business_name", t.BusinessName))
	r.metrics.RecordTenantReplication(replicationUpdate, replicationApplied)
	return nil
}

func (r *TenantReplicator) fail(log *zap.Logger, operation string, err error) error {
	log.Error("tenant replication failed", zap.String("operation", operation), zap.Error(err))
	r.metrics.RecordTenantReplication(operation, replicationFailed)
	return catalog_errors.Persistence(operation, "Tenant", err)
}

func valueOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
