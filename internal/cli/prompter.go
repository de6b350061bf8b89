package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/kovalyshyn/workvol/internal/ledger"
	"github.com/kovalyshyn/workvol/internal/model"
)

// Prompter renders confirmation gates and collects input on the terminal.
// Reader and writer are injected so tests drive it with buffers.
type Prompter struct {
	writer io.Writer
	reader *LineReader
}

// NewPrompter creates a prompter over the given reader and writer, falling
// back to stdin/stdout.
func NewPrompter(reader io.Reader, writer io.Writer) *Prompter {
	if reader == nil {
		reader = os.Stdin
	}
	if writer == nil {
		writer = os.Stdout
	}
	return &Prompter{
		reader: NewLineReader(reader),
		writer: writer,
	}
}

// ConfirmAdd shows the confirmation gate for a staged addition and returns
// the user's decision. Every addition is confirmed; an overage only changes
// the warning text.
func (p *Prompter) ConfirmAdd(ctx context.Context, pending *ledger.PendingAdd) (bool, error) {
	item := pending.Item()

	var lines []string
	lines = append(lines, fmt.Sprintf("%s (%s)", item.Name, item.Object))
	lines = append(lines, fmt.Sprintf("Completed so far: %s %s", model.FormatQuantity(item.Done), item.Unit))

	if pending.Overage {
		lines = append(lines, WarningStyle.Render(fmt.Sprintf(
			"Projected total %s exceeds the contracted volume %s.",
			model.FormatQuantity(pending.ProjectedTotal),
			model.FormatQuantity(item.Volume))))
		lines = append(lines, WarningStyle.Render("Confirm the entry anyway?"))
	} else {
		lines = append(lines, fmt.Sprintf("Add %s %s?",
			model.FormatQuantity(pending.Amount), item.Unit))
	}

	if _, err := fmt.Fprintln(p.writer, RenderBox("Confirm entry", strings.Join(lines, "\n"))); err != nil {
		return false, fmt.Errorf("failed to write confirmation: %w", err)
	}

	return p.askYesNo(ctx)
}

// ReadAmount prompts for a raw quantity string. Normalization and policy
// checks happen in the ledger, not here.
func (p *Prompter) ReadAmount(ctx context.Context, label string) (string, error) {
	if _, err := fmt.Fprintf(p.writer, "%s ", InfoStyle.Render(label)); err != nil {
		return "", fmt.Errorf("failed to write prompt: %w", err)
	}
	return p.reader.ReadLine(ctx)
}

// Successf prints a success line.
func (p *Prompter) Successf(format string, args ...any) {
	fmt.Fprintln(p.writer, SuccessStyle.Render(fmt.Sprintf(format, args...)))
}

// Noticef prints a dismissible notice line.
func (p *Prompter) Noticef(format string, args ...any) {
	fmt.Fprintln(p.writer, SubtleStyle.Render(fmt.Sprintf(format, args...)))
}

func (p *Prompter) askYesNo(ctx context.Context) (bool, error) {
	for {
		if _, err := fmt.Fprint(p.writer, "Confirm? [y/N]: "); err != nil {
			return false, fmt.Errorf("failed to write prompt: %w", err)
		}

		line, err := p.reader.ReadLine(ctx)
		if err != nil {
			return false, err
		}

		switch strings.ToLower(line) {
		case "y", "yes":
			return true, nil
		case "n", "no", "":
			return false, nil
		default:
			if _, err := fmt.Fprintln(p.writer, SubtleStyle.Render("Please answer y or n.")); err != nil {
				return false, fmt.Errorf("failed to write prompt: %w", err)
			}
		}
	}
}
