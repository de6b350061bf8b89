package report

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kovalyshyn/workvol/internal/common"
	"github.com/kovalyshyn/workvol/internal/model"
)

var filterNow = time.Date(2025, time.June, 20, 8, 0, 0, 0, time.UTC)

func entry(y int, m time.Month, amount float64) model.HistoryEntry {
	return model.HistoryEntry{Date: time.Date(y, m, 10, 12, 0, 0, 0, time.UTC), Amount: amount}
}

func TestParsePeriod(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    Period
		wantErr bool
	}{
		{name: "all", in: "all", want: Period{Type: PeriodAll}},
		{name: "current", in: "current", want: Period{Type: PeriodCurrentMonth}},
		{name: "specific month", in: "2025-03", want: Period{Type: PeriodSpecificMonth, Month: "2025-03"}},
		{name: "garbage", in: "yesterday", wantErr: true},
		{name: "bad month", in: "2025-13", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePeriod(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFilterHistory(t *testing.T) {
	item := model.WorkItem{
		ID:     "w1",
		Object: "Greenhouse 4",
		History: []model.HistoryEntry{
			entry(2025, time.May, 10),
			entry(2025, time.June, 5),
			entry(2025, time.June, 2.5),
		},
	}

	t.Run("all keeps history unchanged", func(t *testing.T) {
		got := FilterHistory(item, Period{Type: PeriodAll}, filterNow)
		assert.Equal(t, item.History, got.History)
	})

	t.Run("current month", func(t *testing.T) {
		got := FilterHistory(item, Period{Type: PeriodCurrentMonth}, filterNow)
		require.Len(t, got.History, 2)
		assert.InDelta(t, 5, got.History[0].Amount, 1e-9)
		assert.InDelta(t, 2.5, got.History[1].Amount, 1e-9)
	})

	t.Run("specific month", func(t *testing.T) {
		got := FilterHistory(item, Period{Type: PeriodSpecificMonth, Month: "2025-05"}, filterNow)
		require.Len(t, got.History, 1)
		assert.InDelta(t, 10, got.History[0].Amount, 1e-9)
	})

	t.Run("does not alias the source item", func(t *testing.T) {
		got := FilterHistory(item, Period{Type: PeriodCurrentMonth}, filterNow)
		got.History[0].Amount = 999
		assert.InDelta(t, 5, item.History[1].Amount, 1e-9)
	})

	t.Run("idempotent", func(t *testing.T) {
		period := Period{Type: PeriodCurrentMonth}
		once := FilterHistory(item, period, filterNow)
		twice := FilterHistory(once, period, filterNow)
		assert.Equal(t, once.History, twice.History)
	})
}

func TestBuildPreview(t *testing.T) {
	items := []model.WorkItem{
		{ID: "w1", Object: "Greenhouse 4", Name: "Footing", History: []model.HistoryEntry{entry(2025, time.June, 5)}},
		{ID: "w2", Object: "Greenhouse 4", Name: "Slab", History: []model.HistoryEntry{entry(2025, time.April, 7)}},
		{ID: "w3", Object: "Silo 2", Name: "Excavation", History: []model.HistoryEntry{entry(2025, time.June, 3)}},
	}

	t.Run("drops items without activity in the period", func(t *testing.T) {
		got, err := BuildPreview(items, "Greenhouse 4", Period{Type: PeriodCurrentMonth}, filterNow)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "w1", got[0].ID)
	})

	t.Run("all time keeps every item of the object", func(t *testing.T) {
		got, err := BuildPreview(items, "Greenhouse 4", Period{Type: PeriodAll}, filterNow)
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("empty result is NoDataForPeriod", func(t *testing.T) {
		_, err := BuildPreview(items, "Silo 2", Period{Type: PeriodSpecificMonth, Month: "2024-01"}, filterNow)
		require.Error(t, err)
		assert.True(t, errors.Is(err, common.ErrNoDataForPeriod))
	})

	t.Run("unknown object is NoDataForPeriod", func(t *testing.T) {
		_, err := BuildPreview(items, "Bridge 9", Period{Type: PeriodAll}, filterNow)
		assert.True(t, errors.Is(err, common.ErrNoDataForPeriod))
	})
}

func TestBuildRequest(t *testing.T) {
	tests := []struct {
		name   string
		period Period
		want   model.ReportRequest
	}{
		{
			name:   "all time",
			period: Period{Type: PeriodAll},
			want:   model.ReportRequest{Object: "Greenhouse 4", Type: "all", UserOnly: true, Format: "excel"},
		},
		{
			name:   "current month",
			period: Period{Type: PeriodCurrentMonth},
			want:   model.ReportRequest{Object: "Greenhouse 4", Type: "currentMonth", UserOnly: true, Format: "excel"},
		},
		{
			name:   "specific month",
			period: Period{Type: PeriodSpecificMonth, Month: "2025-03"},
			want:   model.ReportRequest{Object: "Greenhouse 4", Type: "specific", Month: "2025-03", UserOnly: true, Format: "excel"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BuildRequest("Greenhouse 4", tt.period))
		})
	}
}

func TestSanitizeObjectName(t *testing.T) {
	assert.Equal(t, "Block A_B _3_", SanitizeObjectName(`Block A/B [3]`))
	assert.Equal(t, "Silo 2", SanitizeObjectName("Silo 2"))
}

func TestSaveWorkbook(t *testing.T) {
	dir := t.TempDir()

	path, err := SaveWorkbook(dir, "Block A/B", []byte("xlsx-bytes"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "Block A_B_report.xlsx"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("xlsx-bytes"), data)
}
