// Package tui implements the interactive navigation browser: city → object →
// work type → category → work list, with quantity entry and the confirmation
// gate for additions.
package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kovalyshyn/workvol/internal/catalog"
	"github.com/kovalyshyn/workvol/internal/common"
	"github.com/kovalyshyn/workvol/internal/ledger"
	"github.com/kovalyshyn/workvol/internal/model"
)

// step identifies the current screen.
type step int

const (
	stepCities step = iota
	stepObjects
	stepSubnames
	stepCategories
	stepWorks
	stepAmount
	stepConfirm
	stepSubmitting
)

// entryMode says what the amount being typed is for.
type entryMode int

const (
	modeAdd entryMode = iota
	modeEdit
)

// Config wires the browser to the rest of the application.
type Config struct {
	// Ctx bounds every backend call issued from the browser.
	Ctx context.Context
	// Engine applies ledger mutations.
	Engine *ledger.Engine
	// Index is the hierarchy over the fetched snapshot.
	Index *catalog.Index
	// Width and Height preset the window size; zero means wait for the
	// first resize message.
	Width  int
	Height int
}

// Model holds the browser state.
type Model struct {
	ctx    context.Context
	engine *ledger.Engine
	index  *catalog.Index

	picker  list.Model
	amount  textinput.Model
	path    model.SelectionPath
	works   []*model.WorkItem
	pending *ledger.PendingAdd

	// trail records how we got here so esc walks back the same way,
	// including short-circuit jumps.
	trail []step

	step      step
	mode      entryMode
	selected  int
	statusMsg string
	errMsg    string
	width     int
	height    int
	quitting  bool
}

func newModel(cfg Config) Model {
	picker := list.New(nil, list.NewDefaultDelegate(), cfg.Width, cfg.Height)
	picker.SetShowTitle(true)
	picker.SetShowStatusBar(false)
	picker.SetFilteringEnabled(false)
	picker.SetShowHelp(true)

	amount := textinput.New()
	amount.Placeholder = "e.g. 39,3"
	amount.CharLimit = 16
	amount.Width = 24

	m := Model{
		ctx:    cfg.Ctx,
		engine: cfg.Engine,
		index:  cfg.Index,
		picker: picker,
		amount: amount,
		width:  cfg.Width,
		height: cfg.Height,
	}
	m.enterCities()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.picker.SetSize(msg.Width, msg.Height-2)
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}
		return m.handleKey(msg)

	case mutationDoneMsg:
		return m.handleMutationDone(msg)
	}

	return m.updateActiveControl(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.step {
	case stepCities, stepObjects, stepSubnames, stepCategories, stepWorks:
		return m.handleListKey(msg)
	case stepAmount:
		return m.handleAmountKey(msg)
	case stepConfirm:
		return m.handleConfirmKey(msg)
	case stepSubmitting:
		// Mutation in flight; the triggering controls stay disabled.
		return m, nil
	}
	return m, nil
}

func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		m.quitting = true
		return m, tea.Quit

	case "esc":
		return m.goBack(), nil

	case "e":
		if m.step == stepWorks {
			return m.startAmountEntry(modeEdit), nil
		}

	case "enter":
		return m.handleSelection()
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	return m, cmd
}

func (m Model) handleSelection() (tea.Model, tea.Cmd) {
	i := m.picker.Index()
	switch m.step {
	case stepCities:
		cities := m.index.Cities()
		if i >= len(cities) {
			return m, nil
		}
		m.path.City = cities[i]
		m.pushTrail(stepCities)
		m.enterObjects()

	case stepObjects:
		objects := m.index.Objects(m.path.City)
		if i >= len(objects) {
			return m, nil
		}
		m.path.Object = objects[i]
		m.pushTrail(stepObjects)
		// An object whose items sit at a shallower level skips work-type
		// and category selection entirely.
		if m.index.ShortCircuit(m.path.Object) {
			m.path.Subname = ""
			m.path.Category = ""
			m.enterWorks()
		} else {
			m.enterSubnames()
		}

	case stepSubnames:
		subnames := m.index.Subnames(m.path.Object)
		if i >= len(subnames) {
			return m, nil
		}
		m.path.Subname = subnames[i]
		m.pushTrail(stepSubnames)
		if m.index.SubnameHasCategories(m.path.Object, m.path.Subname) {
			m.enterCategories()
		} else {
			m.path.Category = ""
			m.enterWorks()
		}

	case stepCategories:
		categories := m.index.Categories(m.path.Object, m.path.Subname)
		if i >= len(categories) {
			return m, nil
		}
		m.path.Category = categories[i]
		m.pushTrail(stepCategories)
		m.enterWorks()

	case stepWorks:
		if i >= len(m.works) {
			return m, nil
		}
		return m.startAmountEntry(modeAdd), nil
	}

	return m, nil
}

func (m Model) handleAmountKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.amount.Blur()
		m.step = stepWorks
		m.errMsg = ""
		return m, nil

	case "enter":
		raw := m.amount.Value()
		item := m.works[m.selected]

		if m.mode == modeEdit {
			m.step = stepSubmitting
			m.errMsg = ""
			return m, m.editLastCmd(item, raw)
		}

		pending, err := m.engine.StageAdd(item, raw)
		if err != nil {
			m.errMsg = err.Error()
			return m, nil
		}
		m.pending = pending
		m.errMsg = ""
		m.step = stepConfirm
		return m, nil
	}

	var cmd tea.Cmd
	m.amount, cmd = m.amount.Update(msg)
	return m, cmd
}

func (m Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		m.step = stepSubmitting
		return m, m.confirmAddCmd(m.pending)

	case "n", "N", "esc":
		// Dismissing the gate aborts before any I/O is issued.
		_ = m.pending.Cancel()
		m.pending = nil
		m.statusMsg = "Entry cancelled"
		m.step = stepWorks
		return m, nil
	}
	return m, nil
}

func (m Model) handleMutationDone(msg mutationDoneMsg) (tea.Model, tea.Cmd) {
	// Validation failures happened before any I/O; keep the form open so the
	// value can be corrected in place.
	if msg.err != nil && common.IsLocalValidation(msg.err) {
		m.step = stepAmount
		m.errMsg = msg.err.Error()
		m.amount.Focus()
		return m, nil
	}

	m.pending = nil
	m.step = stepWorks
	if msg.err != nil {
		m.errMsg = msg.err.Error()
		m.statusMsg = ""
	} else {
		m.errMsg = ""
		m.statusMsg = msg.status
	}
	m.refreshWorksList()
	return m, nil
}

func (m Model) updateActiveControl(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.step {
	case stepAmount:
		m.amount, cmd = m.amount.Update(msg)
	default:
		m.picker, cmd = m.picker.Update(msg)
	}
	return m, cmd
}

func (m Model) startAmountEntry(mode entryMode) Model {
	i := m.picker.Index()
	if i >= len(m.works) {
		return m
	}
	m.selected = i
	m.mode = mode

	item := m.works[i]
	if mode == modeEdit {
		// Prefill with the last entry, the value being corrected.
		if last, ok := item.LastEntry(); ok {
			m.amount.SetValue(model.FormatQuantity(last.Amount))
		} else {
			m.amount.SetValue("")
		}
	} else {
		m.amount.SetValue("")
	}

	m.amount.Focus()
	m.errMsg = ""
	m.statusMsg = ""
	m.step = stepAmount
	return m
}

func (m *Model) pushTrail(s step) {
	m.trail = append(m.trail, s)
}

func (m Model) goBack() Model {
	if len(m.trail) == 0 {
		m.quitting = true
		return m
	}

	prev := m.trail[len(m.trail)-1]
	m.trail = m.trail[:len(m.trail)-1]

	switch prev {
	case stepCities:
		m.path = model.SelectionPath{}
		m.enterCities()
	case stepObjects:
		m.path.Object, m.path.Subname, m.path.Category = "", "", ""
		m.enterObjects()
	case stepSubnames:
		m.path.Subname, m.path.Category = "", ""
		m.enterSubnames()
	case stepCategories:
		m.path.Category = ""
		m.enterCategories()
	}
	return m
}

func (m *Model) enterCities() {
	m.step = stepCities
	m.setChoices("Locations", m.index.Cities(), nil)
}

func (m *Model) enterObjects() {
	m.step = stepObjects
	m.setChoices(fmt.Sprintf("Objects in %s", m.path.City), m.index.Objects(m.path.City), nil)
}

func (m *Model) enterSubnames() {
	m.step = stepSubnames
	m.setChoices(fmt.Sprintf("Work types: %s", m.path.Object), m.index.Subnames(m.path.Object), nil)
}

func (m *Model) enterCategories() {
	m.step = stepCategories
	m.setChoices(fmt.Sprintf("Categories: %s", m.path.Subname),
		m.index.Categories(m.path.Object, m.path.Subname), nil)
}

func (m *Model) enterWorks() {
	m.step = stepWorks
	// Pointers into the snapshot: committed mutations stay visible when the
	// same list is entered again.
	m.works = m.index.ResolveRefs(m.path)
	m.refreshWorksList()
}

func (m *Model) refreshWorksList() {
	if m.step != stepWorks && m.step != stepSubmitting {
		return
	}
	titles := make([]string, len(m.works))
	descs := make([]string, len(m.works))
	for i, w := range m.works {
		titles[i] = w.Name
		descs[i] = fmt.Sprintf("Completed: %s / %s %s",
			model.FormatQuantity(w.Done), model.FormatQuantity(w.Volume), w.Unit)
	}
	m.setChoices(m.path.Object, titles, descs)
}

func (m *Model) setChoices(title string, titles, descs []string) {
	items := make([]list.Item, len(titles))
	for i, t := range titles {
		desc := ""
		if descs != nil {
			desc = descs[i]
		}
		items[i] = choice{title: t, desc: desc}
	}
	m.picker.Title = title
	m.picker.SetItems(items)
	m.picker.ResetSelected()
}

// choice is a plain list entry.
type choice struct {
	title string
	desc  string
}

func (c choice) Title() string       { return c.title }
func (c choice) Description() string { return c.desc }
func (c choice) FilterValue() string { return c.title }
