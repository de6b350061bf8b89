package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kovalyshyn/workvol/internal/ledger"
	"github.com/kovalyshyn/workvol/internal/model"
)

// mutationDoneMsg reports the outcome of a backend mutation.
type mutationDoneMsg struct {
	err    error
	status string
}

// confirmAddCmd commits a confirmed addition.
func (m Model) confirmAddCmd(pending *ledger.PendingAdd) tea.Cmd {
	return func() tea.Msg {
		if err := pending.Confirm(m.ctx); err != nil {
			return mutationDoneMsg{err: err}
		}
		item := pending.Item()
		return mutationDoneMsg{status: fmt.Sprintf("Added %s %s to %s",
			model.FormatQuantity(pending.Amount), item.Unit, item.Name)}
	}
}

// editLastCmd amends the most recent entry.
func (m Model) editLastCmd(item *model.WorkItem, raw string) tea.Cmd {
	return func() tea.Msg {
		if err := m.engine.EditLast(m.ctx, item, raw); err != nil {
			return mutationDoneMsg{err: err}
		}
		return mutationDoneMsg{status: fmt.Sprintf("Amended last entry of %s", item.Name)}
	}
}
