// Package model holds the canonical data types for tracked work.
package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// HistoryEntry is a single dated quantity contribution toward a work item's
// cumulative total. Entries are append-only facts; only the most recent one
// may ever be amended, and only through the backend.
type HistoryEntry struct {
	Date   time.Time `json:"date"`
	Amount float64   `json:"amount"`
}

// WorkItem is one trackable unit of physical work: a planned volume, the
// cumulative completed quantity, and the ordered history behind it. The
// backend owns the record; the client holds a snapshot per fetch cycle.
type WorkItem struct {
	ID       string         `json:"_id"`
	City     string         `json:"city"`
	Object   string         `json:"object"`
	Subname  string         `json:"subname,omitempty"`
	Category string         `json:"category,omitempty"`
	Name     string         `json:"name"`
	Unit     string         `json:"unit"`
	Volume   float64        `json:"volume"`
	Done     float64        `json:"done"`
	History  []HistoryEntry `json:"history"`
}

// Validate checks the shape of a fetched record so the rest of the client
// never operates on partially-shaped data.
func (w *WorkItem) Validate() error {
	if strings.TrimSpace(w.ID) == "" {
		return fmt.Errorf("work item is missing an id")
	}
	if strings.TrimSpace(w.City) == "" {
		return fmt.Errorf("work item %s is missing a city", w.ID)
	}
	if strings.TrimSpace(w.Object) == "" {
		return fmt.Errorf("work item %s is missing an object", w.ID)
	}
	if strings.TrimSpace(w.Name) == "" {
		return fmt.Errorf("work item %s is missing a name", w.ID)
	}
	if w.Volume < 0 {
		return fmt.Errorf("work item %s has negative volume %.2f", w.ID, w.Volume)
	}
	if w.Done < 0 {
		return fmt.Errorf("work item %s has negative done %.2f", w.ID, w.Done)
	}
	return nil
}

// HistoryTotal sums all history amounts. After any successful mutation this
// equals Done.
func (w *WorkItem) HistoryTotal() float64 {
	var total float64
	for _, e := range w.History {
		total += e.Amount
	}
	return total
}

// LastEntry returns the most recent history entry, if any.
func (w *WorkItem) LastEntry() (HistoryEntry, bool) {
	if len(w.History) == 0 {
		return HistoryEntry{}, false
	}
	return w.History[len(w.History)-1], true
}

// Remaining is the planned volume still outstanding. Negative when work has
// exceeded the contracted volume.
func (w *WorkItem) Remaining() float64 {
	return w.Volume - w.Done
}

// Clone returns a deep copy so derived views never alias the cached snapshot.
func (w WorkItem) Clone() WorkItem {
	out := w
	out.History = make([]HistoryEntry, len(w.History))
	copy(out.History, w.History)
	return out
}

// LedgerState is the authoritative done/history pair returned by the backend
// after an amendment. It is adopted verbatim, never recomputed locally.
type LedgerState struct {
	Done    float64        `json:"done"`
	History []HistoryEntry `json:"history"`
}

// SelectionPath narrows the catalog down the city → object → subname →
// category hierarchy. Empty fields match everything at that level.
type SelectionPath struct {
	City     string
	Object   string
	Subname  string
	Category string
}

// ReportRequest is the body sent to the report-generation endpoint. The
// backend renders the spreadsheet; the client only says what it wants.
type ReportRequest struct {
	Object   string `json:"object"`
	Type     string `json:"type"`
	Month    string `json:"month,omitempty"`
	UserOnly bool   `json:"userOnly"`
	Format   string `json:"format"`
}

// MonthKey formats a timestamp as the YYYY-MM key used for report periods.
func MonthKey(t time.Time) string {
	return t.Format("2006-01")
}

// FormatQuantity renders a quantity the way field users enter it: no
// decimals for whole numbers, two decimals with a comma separator otherwise.
func FormatQuantity(v float64) string {
	if v == float64(int64(v)) {
		return strconv.FormatInt(int64(v), 10)
	}
	return strings.Replace(strconv.FormatFloat(v, 'f', 2, 64), ".", ",", 1)
}
