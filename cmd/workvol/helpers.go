package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/kovalyshyn/workvol/internal/api"
	"github.com/kovalyshyn/workvol/internal/auth"
	"github.com/kovalyshyn/workvol/internal/common"
	"github.com/kovalyshyn/workvol/internal/model"
	"github.com/kovalyshyn/workvol/internal/storage"
)

// dataDir resolves where the session file and snapshot cache live.
func dataDir() (string, error) {
	if dir := viper.GetString("data.dir"); dir != "" {
		return dir, nil
	}
	return auth.DefaultDir()
}

func newSessionStore() (*auth.Store, error) {
	dir, err := dataDir()
	if err != nil {
		return nil, err
	}
	return auth.NewStore(dir)
}

func newAPIClient() (*api.Client, *auth.Store, error) {
	store, err := newSessionStore()
	if err != nil {
		return nil, nil, err
	}

	var opts []api.Option
	if timeout := viper.GetDuration("api.timeout"); timeout > 0 {
		opts = append(opts, api.WithHTTPClient(&http.Client{Timeout: timeout}))
	}

	client, err := api.NewClient(viper.GetString("api.base_url"), store, opts...)
	if err != nil {
		return nil, nil, err
	}
	return client, store, nil
}

// openSnapshotStore opens the local snapshot cache database.
func openSnapshotStore() (*storage.SQLiteStore, error) {
	dir, err := dataDir()
	if err != nil {
		return nil, err
	}
	return storage.NewSQLiteStore(filepath.Join(dir, "workvol.db"))
}

// loadWorks fetches the authoritative snapshot, refreshes the local cache,
// and falls back to the cached copy when the backend is unreachable. The
// cache is read-only fallback data; it never absorbs writes.
func loadWorks(ctx context.Context, client *api.Client) ([]model.WorkItem, error) {
	items, err := client.FetchWorks(ctx)
	if err == nil {
		cacheSnapshot(ctx, items)
		return items, nil
	}

	if errors.Is(err, common.ErrUnauthenticated) {
		return nil, common.NewUserError("not signed in, run `workvol login` first", err)
	}

	cached, cacheErr := loadCachedWorks(ctx)
	if cacheErr != nil {
		return nil, err
	}

	slog.Warn("Backend unreachable, using cached snapshot", "error", err)
	return cached, nil
}

// loadCachedWorks reads the snapshot cache without touching the network.
func loadCachedWorks(ctx context.Context) ([]model.WorkItem, error) {
	store, err := openSnapshotStore()
	if err != nil {
		return nil, err
	}
	defer func() { _ = store.Close() }()

	items, err := store.LoadSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, errors.New("snapshot cache is empty, run `workvol refresh` while online")
	}

	if syncedAt, err := store.LastSyncedAt(ctx); err == nil && !syncedAt.IsZero() {
		slog.Info("Loaded cached snapshot", "count", len(items), "synced_at", syncedAt.Format("2006-01-02 15:04"))
	}
	return items, nil
}

// cacheSnapshot replaces the local cache with a fresh snapshot. Failures are
// logged, not fatal: the fetched data is already in hand.
func cacheSnapshot(ctx context.Context, items []model.WorkItem) {
	store, err := openSnapshotStore()
	if err != nil {
		slog.Warn("Failed to open snapshot cache", "error", err)
		return
	}
	defer func() { _ = store.Close() }()

	if err := store.ReplaceSnapshot(ctx, items); err != nil {
		slog.Warn("Failed to refresh snapshot cache", "error", err)
	}
}
