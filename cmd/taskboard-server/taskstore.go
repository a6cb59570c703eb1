package main

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"taskboard-backend/lib/configutil/sqlitecfg"
	"taskboard-backend/services/taskstore"
	"taskboard-backend/services/taskstore/db"
)

type TaskstoreConfig struct {
	Database sqlitecfg.Struct `json:"database"`
	// LatestLimit caps GET /tasks/latest when the request does not
	// carry its own limit. Zero falls back to 50.
	LatestLimit int64 `json:"latest_limit"`
}

func InitTaskstore(mux *http.ServeMux, cfg TaskstoreConfig) (taskstore.Store, error) {
	database, err := cfg.Database.OpenDB(db.Schema)
	if err != nil {
		return taskstore.Store{}, err
	}
	store := taskstore.NewStore(database)

	defaultLimit := cfg.LatestLimit
	if defaultLimit <= 0 {
		defaultLimit = 50
	}

	mux.HandleFunc("GET /tasks/latest", func(w http.ResponseWriter, r *http.Request) {
		limit := defaultLimit
		if raw := r.URL.Query().Get("limit"); raw != "" {
			parsed, err := strconv.ParseInt(raw, 10, 64)
			if err != nil || parsed <= 0 {
				http.Error(w, "invalid limit", http.StatusBadRequest)
				return
			}
			limit = parsed
		}
		tasks, err := store.ListLatest(r.Context(), limit)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, r, tasks)
	})
	mux.HandleFunc("GET /tasks", func(w http.ResponseWriter, r *http.Request) {
		tasks, err := store.ListAll(r.Context())
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, r, tasks)
	})

	return store, nil
}

func writeJSON(w http.ResponseWriter, r *http.Request, value any) {
	w.Header().Set("Content-Type", "application/json")
	err := json.NewEncoder(w).Encode(value)
	if err != nil {
		slog.WarnContext(r.Context(), "write response", "err", err)
	}
}
