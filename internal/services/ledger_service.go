// Package services orchestrates ledger operations across the storage engine
// and the event bus.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/yinsights8/personal-expense-tracker-mcp/internal/amqp"
	"github.com/yinsights8/personal-expense-tracker-mcp/internal/core"
	"github.com/yinsights8/personal-expense-tracker-mcp/internal/storage"
)

// LedgerService validates requests, drives the storage engine and announces
// committed mutations on the event bus. The AMQP client is optional: with a
// nil client every operation still works, events are just skipped.
type LedgerService struct {
	storage    *storage.Store
	amqpClient *amqp.Client
}

func NewLedgerService(storage *storage.Store, amqpClient *amqp.Client) *LedgerService {
	return &LedgerService{
		storage:    storage,
		amqpClient: amqpClient,
	}
}

// Add validates and persists a new record, returning the assigned id.
func (s *LedgerService) Add(ctx context.Context, kind core.Kind, rec core.Record) (int64, error) {
	if err := kind.Validate(); err != nil {
		return 0, err
	}
	if err := rec.Validate(); err != nil {
		return 0, err
	}

	id, err := s.storage.Insert(ctx, kind, rec)
	if err != nil {
		return 0, fmt.Errorf("save record: %w", err)
	}

	s.publishEvent(ctx, kind, amqp.ActionInserted, id)
	return id, nil
}

// List returns records within the inclusive date range.
func (s *LedgerService) List(ctx context.Context, kind core.Kind, start, end string) ([]core.Record, error) {
	if err := kind.Validate(); err != nil {
		return nil, err
	}
	if err := core.ValidateDate(start); err != nil {
		return nil, err
	}
	if err := core.ValidateDate(end); err != nil {
		return nil, err
	}
	return s.storage.ListRange(ctx, kind, start, end)
}

// Edit applies a sparse patch to one record. An empty patch is rejected
// before the store is touched.
func (s *LedgerService) Edit(ctx context.Context, kind core.Kind, id int64, patch core.Patch) error {
	if err := kind.Validate(); err != nil {
		return err
	}
	if err := patch.Validate(); err != nil {
		return err
	}

	if err := s.storage.EditFields(ctx, kind, id, patch); err != nil {
		return err
	}

	s.publishEvent(ctx, kind, amqp.ActionUpdated, id)
	return nil
}

// DeleteByID removes one record by id.
func (s *LedgerService) DeleteByID(ctx context.Context, kind core.Kind, id int64) error {
	if err := kind.Validate(); err != nil {
		return err
	}

	if err := s.storage.DeleteByID(ctx, kind, id); err != nil {
		return err
	}

	s.publishEvent(ctx, kind, amqp.ActionDeleted, id)
	return nil
}

// RemoveByCriteria deletes every record matching all fields exactly and
// returns the count removed. The ids of the removed rows are not known, so
// no per-record event is published for this path.
func (s *LedgerService) RemoveByCriteria(ctx context.Context, kind core.Kind, rec core.Record) (int64, error) {
	if err := kind.Validate(); err != nil {
		return 0, err
	}
	if err := rec.Validate(); err != nil {
		return 0, err
	}
	return s.storage.DeleteByCriteria(ctx, kind, rec)
}

// Summarize aggregates amounts per category within the inclusive date range.
func (s *LedgerService) Summarize(ctx context.Context, kind core.Kind, start, end, category string) ([]core.Summary, error) {
	if err := kind.Validate(); err != nil {
		return nil, err
	}
	if err := core.ValidateDate(start); err != nil {
		return nil, err
	}
	if err := core.ValidateDate(end); err != nil {
		return nil, err
	}
	return s.storage.Summarize(ctx, kind, start, end, category)
}

// Get returns one record by id.
func (s *LedgerService) Get(ctx context.Context, kind core.Kind, id int64) (core.Record, error) {
	if err := kind.Validate(); err != nil {
		return core.Record{}, err
	}
	return s.storage.Get(ctx, kind, id)
}

// publishEvent announces a committed mutation. Event failures are logged and
// never fail the user operation: the row is already committed locally.
func (s *LedgerService) publishEvent(ctx context.Context, kind core.Kind, action string, id int64) {
	if s.amqpClient == nil {
		return
	}
	if err := s.amqpClient.PublishRecordEvent(ctx, amqp.NewRecordEvent(kind, action, id)); err != nil {
		slog.ErrorContext(ctx, "Failed to publish record event",
			"ledger", kind,
			"action", action,
			"record_id", id,
			"error", err)
	}
}

// Close closes both storage and AMQP connections.
func (s *LedgerService) Close() error {
	var errs []error

	if s.storage != nil {
		if err := s.storage.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}

	if s.amqpClient != nil {
		if err := s.amqpClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close ledger service: %v", errs)
	}
	return nil
}
