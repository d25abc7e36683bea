package rest

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	jsoniter "github.com/json-iterator/go"

	"github.com/rocketscienceinc/tictactoe-core/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-core/internal/entity"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type sessionReader interface {
	GetByID(ctx context.Context, id string) (entity.Snapshot, error)
}

type statsReader interface {
	Stats(ctx context.Context) (entity.Stats, error)
}

type handlers struct {
	logger   *slog.Logger
	sessions sessionReader
	stats    statsReader
}

func (that *handlers) getSession(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "getSession")

	id := r.PathValue("id")

	snapshot, err := that.sessions.GetByID(r.Context(), id)
	if errors.Is(err, apperror.ErrNotFound) {
		http.Error(w, "Session not found", http.StatusNotFound)
		return
	}

	if err != nil {
		log.Error("failed to get session", "session_id", id, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	that.writeJSON(w, snapshot)
}

func (that *handlers) getStats(w http.ResponseWriter, r *http.Request) {
	stats, err := that.stats.Stats(r.Context())
	if err != nil {
		that.logger.Error("failed to get stats", "method", "getStats", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	that.writeJSON(w, stats)
}

func (that *handlers) writeJSON(w http.ResponseWriter, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if err := json.NewEncoder(w).Encode(value); err != nil {
		that.logger.Error("failed to write response", "error", err)
	}
}
