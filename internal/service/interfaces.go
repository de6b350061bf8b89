// Package service defines the interface contracts between the application's
// components.
package service

import (
	"context"
	"time"

	"github.com/kovalyshyn/workvol/internal/model"
)

// TokenStore supplies and persists the bearer token for the backend. Token
// must fail fast with common.ErrUnauthenticated when no session exists, so
// callers never issue a doomed network call.
type TokenStore interface {
	Token() (string, error)
	Save(token, email string) error
	Clear() error
}

// WorkClient is the remote system of record for work items.
type WorkClient interface {
	// FetchWorks returns the authoritative snapshot for the signed-in user.
	FetchWorks(ctx context.Context) ([]model.WorkItem, error)
	// AddEntry appends a dated quantity to a work item's history.
	AddEntry(ctx context.Context, workID string, amount float64) error
	// EditLast amends the most recent entry and returns the recomputed
	// authoritative ledger state.
	EditLast(ctx context.Context, workID string, amount float64) (model.LedgerState, error)
	// GenerateReport asks the backend to render a spreadsheet and returns
	// its bytes.
	GenerateReport(ctx context.Context, req model.ReportRequest) ([]byte, error)
}

// Authenticator covers the credential operations of the backend.
type Authenticator interface {
	SignIn(ctx context.Context, email, password string) (string, error)
	ChangePassword(ctx context.Context, newPassword string) error
}

// SnapshotStore caches the last successfully fetched work list locally. It
// is a read-only fallback, never a write queue.
type SnapshotStore interface {
	ReplaceSnapshot(ctx context.Context, items []model.WorkItem) error
	LoadSnapshot(ctx context.Context) ([]model.WorkItem, error)
	LastSyncedAt(ctx context.Context) (time.Time, error)
	Close() error
}
