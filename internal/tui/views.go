package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/kovalyshyn/workvol/internal/cli"
	"github.com/kovalyshyn/workvol/internal/model"
)

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	switch m.step {
	case stepAmount:
		return m.renderAmount()
	case stepConfirm:
		return m.renderConfirm()
	case stepSubmitting:
		return m.renderSubmitting()
	default:
		return m.renderList()
	}
}

func (m Model) renderList() string {
	var b strings.Builder
	b.WriteString(m.picker.View())
	if m.statusMsg != "" {
		b.WriteString("\n" + cli.SuccessStyle.Render(m.statusMsg))
	}
	if m.errMsg != "" {
		b.WriteString("\n" + cli.ErrorStyle.Render(m.errMsg))
	}
	if m.step == stepWorks {
		b.WriteString("\n" + cli.SubtleStyle.Render("enter: add entry · e: amend last · esc: back · q: quit"))
	}
	return b.String()
}

func (m Model) renderAmount() string {
	item := m.works[m.selected]

	label := "New quantity for the last entry"
	if m.mode == modeAdd {
		label = "Quantity to add"
	}

	lines := []string{
		cli.TitleStyle.Render(item.Name),
		fmt.Sprintf("Completed: %s %s", model.FormatQuantity(item.Done), item.Unit),
		"",
		fmt.Sprintf("%s (%s):", label, item.Unit),
		m.amount.View(),
	}
	if m.errMsg != "" {
		lines = append(lines, "", cli.ErrorStyle.Render(m.errMsg))
	}
	lines = append(lines, "", cli.SubtleStyle.Render("enter: continue · esc: back"))

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m Model) renderConfirm() string {
	item := m.pending.Item()

	var body []string
	body = append(body, fmt.Sprintf("%s (%s)", item.Name, item.Object))
	body = append(body, fmt.Sprintf("Completed so far: %s %s", model.FormatQuantity(item.Done), item.Unit))

	if m.pending.Overage {
		body = append(body, cli.WarningStyle.Render(fmt.Sprintf(
			"Projected total %s exceeds the contracted volume %s.",
			model.FormatQuantity(m.pending.ProjectedTotal),
			model.FormatQuantity(item.Volume))))
	} else {
		body = append(body, fmt.Sprintf("Add %s %s?",
			model.FormatQuantity(m.pending.Amount), item.Unit))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		cli.RenderBox("Confirm entry", strings.Join(body, "\n")),
		cli.SubtleStyle.Render("y: confirm · n/esc: cancel"),
	)
}

func (m Model) renderSubmitting() string {
	return cli.InfoStyle.Render("Submitting…")
}
