package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"taskboard-backend/lib/browser"
	"taskboard-backend/lib/chrono"
	"taskboard-backend/services/collector"
	"taskboard-backend/services/taskstore"
)

type CollectorConfig struct {
	Browser browser.Options `json:"browser"`
	// Schedule is a cron expression; empty means hourly.
	Schedule string `json:"schedule"`
	// SkipInitialRun waits for the first scheduled trigger instead of
	// collecting immediately on startup.
	SkipInitialRun bool                             `json:"skip_initial_run"`
	Credentials    map[string]collector.Credentials `json:"credentials"`
	// Platforms overrides portal urls and selectors per platform when
	// portal markup drifts ahead of a release.
	Platforms map[string]collector.PlatformOverride `json:"platforms"`
}

func InitCollector(ctx context.Context, mux *http.ServeMux, cfg CollectorConfig, store taskstore.Store) error {
	platforms, err := collector.ConfiguredPlatforms(cfg.Platforms)
	if err != nil {
		return err
	}
	factory := browser.NewChromeFactory(cfg.Browser)
	runner := collector.NewRunner(
		store,
		factory,
		platforms,
		collector.CredentialSource(cfg.Credentials),
	)

	schedule := cfg.Schedule
	if schedule == "" {
		schedule = "@hourly"
	}
	cronner := chrono.NewStandardCron()
	err = runner.Schedule(ctx, cronner, schedule)
	if err != nil {
		return err
	}
	go func() {
		<-ctx.Done()
		cronner.Stop()
	}()

	if !cfg.SkipInitialRun {
		go func() {
			_, err := runner.RunOnce(ctx)
			if err != nil {
				slog.WarnContext(ctx, "initial collection run", "err", err)
			}
		}()
	}

	mux.HandleFunc("POST /collector/run", func(w http.ResponseWriter, r *http.Request) {
		summary, err := runner.RunOnce(r.Context())
		if errors.Is(err, collector.ErrRunInProgress) {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, r, summary)
	})

	return nil
}
