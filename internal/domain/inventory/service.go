package inventory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/frostedfabrics/inventory-api/internal/apperr"
	"github.com/frostedfabrics/inventory-api/internal/domain/variations"
)

const (
	OutcomeApplied     = "applied"
	OutcomeNoDeduction = "no_deduction"
	OutcomeRejected    = "rejected"
	OutcomeNotFound    = "not_found"
	OutcomeError       = "error"
)

type Service struct {
	tx     TxRunner
	notify Notifier
	rec    Recorder
	log    *slog.Logger
}

type Option func(*Service)

func WithNotifier(n Notifier) Option { return func(s *Service) { s.notify = n } }

func WithRecorder(r Recorder) Option { return func(s *Service) { s.rec = r } }

func NewService(tx TxRunner, log *slog.Logger, opts ...Option) *Service {
	s := &Service{tx: tx, notify: nopNotifier{}, rec: nopRecorder{}, log: log}
	for _, o := range opts {
		o(s)
	}
	return s
}

// ReconcileVariationUpdate applies u to the variation and, when var_inv
// grows, deducts amount*delta from every material of its bill of materials.
// Either everything commits or nothing does; the returned graph is read in
// the same transaction, so a failed read rolls the deduction back too. A
// lower var_inv never returns stock to materials.
func (s *Service) ReconcileVariationUpdate(ctx context.Context, variationID int64, u variations.Update) (*variations.Graph, error) {
	if err := u.Check(); err != nil {
		s.rec.Reconciliation(OutcomeRejected)
		return nil, err
	}

	var (
		changes []Change
		graph   *variations.Graph
	)
	err := s.tx.InTx(ctx, func(r Repos) error {
		changes, graph = nil, nil

		current, ok, err := r.LockVariationInventory(ctx, variationID)
		if err != nil {
			return err
		}
		if !ok {
			return apperr.ErrNotFound
		}

		target := current
		if u.Inventory != nil {
			target = *u.Inventory
		}
		delta := target - current

		if u.ProductID != nil {
			exists, err := r.ProductExists(ctx, *u.ProductID)
			if err != nil {
				return err
			}
			if !exists {
				return apperr.Invalid("Invalid product ID")
			}
		}
		if err := r.ApplyVariationUpdate(ctx, variationID, u); err != nil {
			return err
		}

		if delta > 0 {
			lines, err := r.LockStockLines(ctx, variationID)
			if err != nil {
				return err
			}
			planned, err := PlanDeduction(lines, delta)
			if err != nil {
				return err
			}
			if err := r.SetStock(ctx, planned); err != nil {
				return err
			}
			vid := variationID
			if err := r.LogMovements(ctx, &vid, ReasonProduction, planned); err != nil {
				return err
			}
			changes = planned
		}

		g, err := r.VariationGraph(ctx, variationID)
		if err != nil {
			return fmt.Errorf("read variation graph: %w", err)
		}
		if g == nil {
			return apperr.ErrNotFound
		}
		graph = g
		return nil
	})
	if err != nil {
		s.recordFailure(variationID, err)
		return nil, err
	}

	s.afterCommit(changes)
	return graph, nil
}

// ImportStock sets absolute stock counts in one transaction and returns how
// many materials changed.
func (s *Service) ImportStock(ctx context.Context, counts []StockCount) (int, error) {
	if len(counts) == 0 {
		return 0, apperr.Invalid("Stock sheet has no rows")
	}
	if _, err := dedupeCounts(counts); err != nil {
		return 0, err
	}
	ids := make([]int64, len(counts))
	for i, c := range counts {
		ids[i] = c.MaterialID
	}

	var changes []Change
	err := s.tx.InTx(ctx, func(r Repos) error {
		changes = nil

		current, err := r.LockMaterials(ctx, ids)
		if err != nil {
			return err
		}
		planned, err := PlanImport(current, counts)
		if err != nil {
			return err
		}
		if err := r.SetStock(ctx, planned); err != nil {
			return err
		}
		if err := r.LogMovements(ctx, nil, ReasonImport, planned); err != nil {
			return err
		}
		changes = planned
		return nil
	})
	if err != nil {
		return 0, err
	}

	if low := lowStock(changes); len(low) > 0 {
		s.notify.NotifyLowStock(low)
	}
	s.log.Info("stock imported", "rows", len(counts), "changed", len(changes))
	return len(changes), nil
}

func (s *Service) afterCommit(changes []Change) {
	if len(changes) == 0 {
		s.rec.Reconciliation(OutcomeNoDeduction)
		return
	}

	var units int64
	for _, c := range changes {
		units += c.Before - c.After
	}
	s.rec.Reconciliation(OutcomeApplied)
	s.rec.UnitsDeducted(units)

	if low := lowStock(changes); len(low) > 0 {
		s.notify.NotifyLowStock(low)
	}
}

func (s *Service) recordFailure(variationID int64, err error) {
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		s.rec.Reconciliation(OutcomeNotFound)
	case isValidation(err):
		s.rec.Reconciliation(OutcomeRejected)
		s.log.Info("reconciliation rejected", "var_id", variationID, "err", err)
	default:
		s.rec.Reconciliation(OutcomeError)
		s.log.Error("reconciliation failed", "var_id", variationID, "err", err)
	}
}

func isValidation(err error) bool {
	_, ok := apperr.AsValidation(err)
	return ok
}

type nopNotifier struct{}

func (nopNotifier) NotifyLowStock([]LowStock) {}

type nopRecorder struct{}

func (nopRecorder) Reconciliation(string) {}
func (nopRecorder) UnitsDeducted(int64)   {}
