// Package ledger maintains a work item's cumulative quantity against its
// dated history.
//
// Additions always pass through an explicit confirmation step carried by
// PendingAdd; amendments adopt the backend's recomputed state verbatim so
// client and server can never drift apart.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/kovalyshyn/workvol/internal/common"
	"github.com/kovalyshyn/workvol/internal/model"
	"github.com/kovalyshyn/workvol/internal/quantity"
)

// ErrPendingResolved is returned when Confirm or Cancel is called on a
// pending addition that has already been committed or cancelled.
var ErrPendingResolved = errors.New("pending addition already resolved")

// EntryWriter is the remote ledger mutation boundary.
type EntryWriter interface {
	AddEntry(ctx context.Context, workID string, amount float64) error
	EditLast(ctx context.Context, workID string, amount float64) (model.LedgerState, error)
}

// State tracks a staged addition through its confirmation gate.
type State int

const (
	// StateConfirming means the addition is staged and awaiting the user.
	StateConfirming State = iota
	// StateCommitted means the backend accepted the entry and the local
	// copy was updated.
	StateCommitted
	// StateCancelled means the user dismissed the confirmation; nothing
	// was mutated.
	StateCancelled
)

// Engine applies ledger mutations to locally cached work items.
type Engine struct {
	writer EntryWriter
	now    func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the time source used to date new entries.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// NewEngine creates a ledger engine over the given write boundary.
func NewEngine(writer EntryWriter, opts ...Option) *Engine {
	e := &Engine{
		writer: writer,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// PendingAdd is a staged addition awaiting explicit confirmation. Every
// addition is gated, not just overages; Overage only changes the warning the
// user sees.
type PendingAdd struct {
	engine *Engine
	item   *model.WorkItem

	// Amount is the normalized quantity to append.
	Amount float64
	// ProjectedTotal is item.Done + Amount at staging time.
	ProjectedTotal float64
	// Overage is set when the projected total exceeds a non-zero planned
	// volume.
	Overage bool

	state State
}

// StageAdd validates a raw amount against the addition policy and stages it
// for confirmation. No state is mutated and no I/O happens here.
func (e *Engine) StageAdd(item *model.WorkItem, rawAmount string) (*PendingAdd, error) {
	amount, err := quantity.Normalize(rawAmount, quantity.ForAdd)
	if err != nil {
		return nil, err
	}

	projected := item.Done + amount

	return &PendingAdd{
		engine:         e,
		item:           item,
		Amount:         amount,
		ProjectedTotal: projected,
		Overage:        item.Volume > 0 && projected > item.Volume,
		state:          StateConfirming,
	}, nil
}

// State returns where the staged addition is in its lifecycle.
func (p *PendingAdd) State() State {
	return p.state
}

// Item returns the work item the addition targets.
func (p *PendingAdd) Item() *model.WorkItem {
	return p.item
}

// Confirm submits the staged entry. The local copy is mutated only after the
// backend acknowledges the write; on failure it is left untouched and the
// addition stays confirmable for a retry.
func (p *PendingAdd) Confirm(ctx context.Context) error {
	if p.state != StateConfirming {
		return ErrPendingResolved
	}

	if err := p.engine.writer.AddEntry(ctx, p.item.ID, p.Amount); err != nil {
		return fmt.Errorf("failed to submit entry for %s: %w", p.item.ID, err)
	}

	p.item.History = append(p.item.History, model.HistoryEntry{
		Amount: p.Amount,
		Date:   p.engine.now(),
	})
	p.item.Done = p.ProjectedTotal
	p.state = StateCommitted

	slog.Info("Entry committed",
		"work_id", p.item.ID,
		"amount", p.Amount,
		"done", p.item.Done,
		"overage", p.Overage)

	return nil
}

// Cancel dismisses the staged addition without any mutation.
func (p *PendingAdd) Cancel() error {
	if p.state != StateConfirming {
		return ErrPendingResolved
	}
	p.state = StateCancelled
	return nil
}

// EditLast amends the most recent history entry. The backend recomputes the
// ledger and returns the authoritative done/history, which replaces the
// local values verbatim. Amendments need no confirmation gate: they correct
// a just-made mistake.
func (e *Engine) EditLast(ctx context.Context, item *model.WorkItem, rawAmount string) error {
	amount, err := quantity.Normalize(rawAmount, quantity.ForEdit)
	if err != nil {
		return err
	}

	if len(item.History) == 0 {
		return fmt.Errorf("%w: %s", common.ErrEmptyHistory, item.ID)
	}

	state, err := e.writer.EditLast(ctx, item.ID, amount)
	if err != nil {
		return fmt.Errorf("failed to amend last entry for %s: %w", item.ID, err)
	}

	item.Done = state.Done
	item.History = state.History

	slog.Info("Last entry amended",
		"work_id", item.ID,
		"amount", amount,
		"done", item.Done,
		"entries", len(item.History))

	return nil
}
