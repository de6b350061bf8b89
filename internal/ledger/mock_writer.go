package ledger

import (
	"context"

	"github.com/kovalyshyn/workvol/internal/model"
)

// mockWriter records ledger writes for tests.
type mockWriter struct {
	addErr     error
	editErr    error
	editResult model.LedgerState

	addCalls  []addCall
	editCalls []editCall
}

type addCall struct {
	workID string
	amount float64
}

type editCall struct {
	workID string
	amount float64
}

func (m *mockWriter) AddEntry(_ context.Context, workID string, amount float64) error {
	m.addCalls = append(m.addCalls, addCall{workID: workID, amount: amount})
	return m.addErr
}

func (m *mockWriter) EditLast(_ context.Context, workID string, amount float64) (model.LedgerState, error) {
	m.editCalls = append(m.editCalls, editCall{workID: workID, amount: amount})
	if m.editErr != nil {
		return model.LedgerState{}, m.editErr
	}
	return m.editResult, nil
}
