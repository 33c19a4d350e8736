package commands

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"swiftcheck/internal/adapter"
	"swiftcheck/internal/cases"
	"swiftcheck/internal/config"
	"swiftcheck/internal/history"
	"swiftcheck/internal/storage"
)

// selectCases loads the case table and applies the category, id and
// last-run filters from the config flags
func selectCases(cfg *config.Config, filter *cases.Filter, st storage.Storage) (*cases.Catalog, error) {
	catalog, err := cases.Load(cfg.GetCasesPath(), cfg.PathsToIgnore)
	if err != nil {
		return nil, err
	}

	catalog = filter.ByCategory(catalog, cfg.Flags.CategoryFilter)
	catalog = filter.ByID(catalog, cfg.Flags.IDFilter)

	if cfg.Flags.OnlyFailed {
		ids, err := st.FailedIDs()
		if err != nil {
			return nil, fmt.Errorf("load last run: %w", err)
		}
		catalog = filter.ByIDs(catalog, ids)
	}
	return catalog, nil
}

// failedSet returns last-run problem ids, or nil when there is no last run
func failedSet(st storage.Storage) map[string]struct{} {
	ids, err := st.FailedIDs()
	if err != nil {
		return nil
	}
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// sessionFactory picks the adapter backend: a recording when --replay is
// set, otherwise a live browser. --record wraps either in a recorder.
func sessionFactory(cfg *config.Config, logger *zap.Logger) (adapter.Factory, *adapter.RecordingFactory, error) {
	var factory adapter.Factory
	if cfg.Flags.ReplayPath != "" {
		rec, err := adapter.LoadRecording(cfg.Flags.ReplayPath)
		if err != nil {
			return nil, nil, err
		}
		logger.Debug("replaying recorded responses",
			zap.String("path", cfg.Flags.ReplayPath),
			zap.Int("responses", len(rec.Responses)))
		factory = adapter.NewReplayFactory(rec)
	} else {
		factory = adapter.NewBrowser(cfg, logger)
	}

	if cfg.Flags.RecordPath == "" {
		return factory, nil, nil
	}
	recorder := adapter.NewRecordingFactory(factory, cfg.Target.URL)
	return recorder, recorder, nil
}

// openHistory opens and migrates the history store
func openHistory(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*history.Store, error) {
	store, err := history.Open(ctx, cfg.History.Driver, cfg.GetHistoryDSN(), logger)
	if err != nil {
		return nil, err
	}
	if err := store.Migrate(ctx); err != nil {
		store.Close()
		return nil, err
	}
	return store, nil
}
