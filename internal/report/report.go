// Package report derives time-windowed views of work history and builds the
// export request handed to the backend.
//
// All filtering here is pure computation over snapshot copies; the spreadsheet
// itself is rendered server-side and arrives as opaque bytes.
package report

import (
	"fmt"
	"time"

	"github.com/kovalyshyn/workvol/internal/common"
	"github.com/kovalyshyn/workvol/internal/model"
)

// PeriodType selects the report time window.
type PeriodType int

const (
	// PeriodAll keeps the full history.
	PeriodAll PeriodType = iota
	// PeriodCurrentMonth keeps entries from the calendar month containing
	// the filter time.
	PeriodCurrentMonth
	// PeriodSpecificMonth keeps entries from one named YYYY-MM month.
	PeriodSpecificMonth
)

// Wire values understood by the report endpoint.
const (
	wireAll          = "all"
	wireCurrentMonth = "currentMonth"
	wireSpecific     = "specific"
)

// Period is a report time-window selector.
type Period struct {
	// Month is the YYYY-MM key; set only for PeriodSpecificMonth.
	Month string
	Type  PeriodType
}

// ParsePeriod converts the CLI flag value into a Period: "all", "current",
// or a YYYY-MM month.
func ParsePeriod(s string) (Period, error) {
	switch s {
	case "all":
		return Period{Type: PeriodAll}, nil
	case "current":
		return Period{Type: PeriodCurrentMonth}, nil
	}
	if _, err := time.Parse("2006-01", s); err != nil {
		return Period{}, fmt.Errorf("invalid period %q: want all, current, or YYYY-MM", s)
	}
	return Period{Type: PeriodSpecificMonth, Month: s}, nil
}

// String renders the period for display.
func (p Period) String() string {
	switch p.Type {
	case PeriodCurrentMonth:
		return "current month"
	case PeriodSpecificMonth:
		return p.Month
	default:
		return "all time"
	}
}

// monthKey resolves the month the period selects at filter time, or "" when
// the period keeps everything.
func (p Period) monthKey(now time.Time) string {
	switch p.Type {
	case PeriodCurrentMonth:
		return model.MonthKey(now)
	case PeriodSpecificMonth:
		return p.Month
	default:
		return ""
	}
}

// FilterHistory returns a copy of the item whose history is narrowed to the
// period. The current month is resolved at filter time, not at entry time.
func FilterHistory(item model.WorkItem, period Period, now time.Time) model.WorkItem {
	out := item.Clone()

	key := period.monthKey(now)
	if key == "" {
		return out
	}

	filtered := out.History[:0]
	for _, e := range out.History {
		if model.MonthKey(e.Date) == key {
			filtered = append(filtered, e)
		}
	}
	out.History = filtered
	return out
}

// BuildPreview assembles the report dataset for one object: every item of
// the object with its history narrowed to the period, dropping items with no
// relevant activity. An empty result is the non-fatal NoDataForPeriod
// condition.
func BuildPreview(items []model.WorkItem, object string, period Period, now time.Time) ([]model.WorkItem, error) {
	var out []model.WorkItem
	for _, w := range items {
		if w.Object != object {
			continue
		}
		filtered := FilterHistory(w, period, now)
		if len(filtered.History) == 0 {
			continue
		}
		out = append(out, filtered)
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("%w: %s (%s)", common.ErrNoDataForPeriod, object, period)
	}
	return out, nil
}

// BuildRequest builds the body for the report-generation endpoint. Reports
// are always scoped to the signed-in user's own entries.
func BuildRequest(object string, period Period) model.ReportRequest {
	req := model.ReportRequest{
		Object:   object,
		UserOnly: true,
		Format:   "excel",
	}
	switch period.Type {
	case PeriodCurrentMonth:
		req.Type = wireCurrentMonth
	case PeriodSpecificMonth:
		req.Type = wireSpecific
		req.Month = period.Month
	default:
		req.Type = wireAll
	}
	return req
}
