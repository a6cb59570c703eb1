// Package collector ingests pending assignments from the supported
// learning platforms. Each run drives a fresh headless browser session
// through a platform's login flow, scrapes its course listings,
// normalizes the fragments into task records, and hands the batch to
// the task store. Platform failures degrade to zero records for that
// platform; they never abort the run or the schedule.
package collector

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"

	"taskboard-backend/lib/browser"
	"taskboard-backend/lib/chrono"
	"taskboard-backend/lib/timezone"
	"taskboard-backend/services/taskstore"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("services/collector")

// ErrRunInProgress reports that a trigger arrived while a previous run
// was still in flight. Runs are serialized with a skip-if-running
// policy: overlapping browser sessions interleaving store writes is
// worse than a delayed refresh.
var ErrRunInProgress = errors.New("a collection run is already in progress")

// Summary is what one run produced.
type Summary struct {
	// Records is how many tasks the scrape yielded across platforms.
	Records int
	// Written is how many of those the store accepted.
	Written int
	// Swept is how many expired tasks were removed after persistence.
	Swept int64
	// Errors holds the per-platform failure, if any, keyed by platform
	// name. A platform skipped for missing credentials is not an error
	// and does not appear here.
	Errors map[string]error
}

// MarshalJSON flattens Errors to their messages so the manual-trigger
// response reports which platforms failed and why.
func (s Summary) MarshalJSON() ([]byte, error) {
	out := struct {
		Records int               `json:"records"`
		Written int               `json:"written"`
		Swept   int64             `json:"swept"`
		Errors  map[string]string `json:"errors,omitempty"`
	}{
		Records: s.Records,
		Written: s.Written,
		Swept:   s.Swept,
	}
	if len(s.Errors) > 0 {
		out.Errors = make(map[string]string, len(s.Errors))
		for platform, err := range s.Errors {
			out.Errors[platform] = err.Error()
		}
	}
	return json.Marshal(out)
}

type Runner struct {
	store     taskstore.Store
	factory   browser.Factory
	platforms []Platform
	creds     CredentialSource
	probe     *resty.Client

	running sync.Mutex
}

func NewRunner(store taskstore.Store, factory browser.Factory, platforms []Platform, creds CredentialSource) *Runner {
	return &Runner{
		store:     store,
		factory:   factory,
		platforms: platforms,
		creds:     creds,
		probe:     newProbeClient(),
	}
}

// RunOnce executes one full collection cycle: scrape every platform
// with complete credentials, persist the concatenated batch, then
// sweep expired tasks. The sweep runs even when every scrape failed,
// so stale records age out regardless of portal health.
func (r *Runner) RunOnce(ctx context.Context) (Summary, error) {
	if !r.running.TryLock() {
		return Summary{}, ErrRunInProgress
	}
	defer r.running.Unlock()

	ctx, span := tracer.Start(ctx, "RunOnce")
	defer span.End()

	summary := Summary{Errors: map[string]error{}}
	var batch []taskstore.Task

	for _, platform := range r.platforms {
		creds, ok := r.creds.Lookup(platform.Name)
		if !ok {
			slog.InfoContext(ctx, "platform disabled, credentials missing or incomplete",
				"platform", platform.Name,
			)
			continue
		}

		tasks, err := r.collectPlatform(ctx, platform, creds)
		if err != nil {
			slog.ErrorContext(ctx, "platform collection failed",
				"platform", platform.Name,
				"err", err,
			)
			span.RecordError(err)
			summary.Errors[platform.Name] = err
			continue
		}
		slog.InfoContext(ctx, "platform collected",
			"platform", platform.Name,
			"records", len(tasks),
		)
		batch = append(batch, tasks...)
	}

	summary.Records = len(batch)
	span.SetAttributes(attribute.Int("records", summary.Records))

	written, err := r.store.UpsertAll(ctx, batch)
	summary.Written = written
	if err != nil {
		// per-record failures were already logged by the store;
		// persistence trouble must not stop the sweep or the schedule.
		span.SetStatus(codes.Error, err.Error())
	}

	swept, err := r.store.SweepExpired(ctx, timezone.Today())
	if err != nil {
		slog.ErrorContext(ctx, "sweep failed", "err", err)
		span.RecordError(err)
	}
	summary.Swept = swept

	slog.InfoContext(ctx, "run complete",
		"records", summary.Records,
		"written", summary.Written,
		"swept", summary.Swept,
		"failed_platforms", len(summary.Errors),
	)
	return summary, nil
}

// collectPlatform owns exactly one browser session: created here,
// closed here on every path.
func (r *Runner) collectPlatform(ctx context.Context, platform Platform, creds Credentials) ([]taskstore.Task, error) {
	ctx, span := tracer.Start(ctx, "collectPlatform")
	defer span.End()
	span.SetAttributes(attribute.String("platform", platform.Name))

	fail := func(err error) ([]taskstore.Task, error) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if r.probe != nil {
		if err := probePortal(ctx, r.probe, platform.PortalURL); err != nil {
			return fail(err)
		}
	}

	session, err := r.factory.NewSession(ctx)
	if err != nil {
		return fail(err)
	}
	defer session.Close()

	if err := platform.Auth.Authenticate(ctx, session, creds); err != nil {
		return fail(err)
	}

	fragments, err := scrapeListings(ctx, session, platform)
	if err != nil {
		return fail(err)
	}

	now := timezone.Now()
	tasks := make([]taskstore.Task, len(fragments))
	for i, frag := range fragments {
		tasks[i] = normalize(frag, platform.Name, now)
	}
	return tasks, nil
}

// Schedule registers the runner on a cron schedule. Triggers that land
// while a run is still in flight are skipped and logged.
func (r *Runner) Schedule(ctx context.Context, cronner chrono.CronAPI, spec string) error {
	return cronner.Cron(spec, func() {
		_, err := r.RunOnce(ctx)
		if errors.Is(err, ErrRunInProgress) {
			slog.InfoContext(ctx, "skipping scheduled run, previous run still in flight")
		}
	})
}
