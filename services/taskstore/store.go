// Package taskstore persists scraped assignment tasks. It is the only
// writer of the task collection: the collector pushes batches through
// UpsertAll and expires stale rows through SweepExpired, while the
// dashboard reads through ListLatest/ListAll.
package taskstore

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"taskboard-backend/services/taskstore/db"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("services/taskstore")

const StatusPending = "pending"

// Task is one pending assignment. Identity is the
// (Platform, Course, Title, DueDate) tuple; ScrapedAt and Status are
// payload and never participate in matching.
type Task struct {
	Platform  string    `json:"platform"`
	Course    string    `json:"course"`
	Title     string    `json:"title"`
	DueDate   string    `json:"due_date"`
	Status    string    `json:"status"`
	ScrapedAt time.Time `json:"scraped_at"`
}

type Store struct {
	db  *sql.DB
	qry *db.Queries
}

func NewStore(database *sql.DB) Store {
	return Store{
		db:  database,
		qry: db.New(database),
	}
}

// UpsertAll writes a batch. Each record is an atomic
// insert-or-replace on its key, so replaying a batch or reordering it
// cannot produce duplicates. The batch is fail-soft: a rejected record
// is logged and skipped, the rest still land. Returns the number of
// records written.
func (s Store) UpsertAll(ctx context.Context, tasks []Task) (int, error) {
	ctx, span := tracer.Start(ctx, "UpsertAll")
	defer span.End()
	span.SetAttributes(attribute.Int("batch_size", len(tasks)))

	written := 0
	var lastErr error
	for _, t := range tasks {
		err := s.qry.UpsertTask(ctx, db.UpsertTaskParams{
			Platform:  t.Platform,
			Course:    t.Course,
			Title:     t.Title,
			DueDate:   t.DueDate,
			Status:    t.Status,
			ScrapedAt: t.ScrapedAt.Unix(),
		})
		if err != nil {
			slog.WarnContext(ctx, "failed to upsert task",
				"platform", t.Platform,
				"course", t.Course,
				"title", t.Title,
				"err", err,
			)
			span.RecordError(err)
			lastErr = err
			continue
		}
		written++
	}

	if lastErr != nil {
		span.SetStatus(codes.Error, lastErr.Error())
	}
	return written, lastErr
}

// SweepExpired deletes every task strictly due before `today`, an ISO
// date string. ISO dates compare correctly as strings so this is a
// plain lexicographic delete.
func (s Store) SweepExpired(ctx context.Context, today string) (int64, error) {
	ctx, span := tracer.Start(ctx, "SweepExpired")
	defer span.End()
	span.SetAttributes(attribute.String("today", today))

	removed, err := s.qry.DeleteTasksDueBefore(ctx, today)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return 0, err
	}
	span.SetAttributes(attribute.Int64("removed", removed))
	return removed, nil
}

// ListLatest returns up to `limit` tasks ordered by scrape time,
// newest first. This backs the dashboard's overview widget.
func (s Store) ListLatest(ctx context.Context, limit int64) ([]Task, error) {
	ctx, span := tracer.Start(ctx, "ListLatest")
	defer span.End()

	rows, err := s.qry.ListLatestTasks(ctx, limit)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return fromRows(rows), nil
}

func (s Store) ListAll(ctx context.Context) ([]Task, error) {
	ctx, span := tracer.Start(ctx, "ListAll")
	defer span.End()

	rows, err := s.qry.ListAllTasks(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return fromRows(rows), nil
}

func (s Store) Count(ctx context.Context) (int64, error) {
	return s.qry.CountTasks(ctx)
}

func fromRows(rows []db.Task) []Task {
	tasks := make([]Task, len(rows))
	for i, r := range rows {
		tasks[i] = Task{
			Platform:  r.Platform,
			Course:    r.Course,
			Title:     r.Title,
			DueDate:   r.DueDate,
			Status:    r.Status,
			ScrapedAt: time.Unix(r.ScrapedAt, 0),
		}
	}
	return tasks
}
