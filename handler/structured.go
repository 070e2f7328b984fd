package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"event-manager-backend/logger"
	"event-manager-backend/response"
	"event-manager-backend/store"
	"event-manager-backend/structured"

	"github.com/gorilla/mux"
)

// StructuredData serves the schema.org JSON-LD of a public event. Pages that
// must not be indexed are marked with X-Robots-Tag.
func StructuredData(emitter *structured.Emitter, s *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
		if err != nil || id <= 0 {
			response.InvalidData("event id must be a positive integer").Send(ctx, w)
			return
		}

		e, err := s.Event(ctx, id)
		if store.IsNotFound(err) {
			response.ResourceNotFound("Event not found", "").Send(ctx, w)
			return
		}
		if err != nil {
			logger.Errorf(ctx, "structuredData: %v", err)
			response.SomethingWrong().Send(ctx, w)
			return
		}

		data, err := emitter.Build(ctx, id)
		if errors.Is(err, structured.ErrNotPublic) {
			response.ResourceNotFound("Event not found", "structured data is only published for public events").Send(ctx, w)
			return
		}
		if err != nil {
			logger.Errorf(ctx, "structuredData: %v", err)
			response.SomethingWrong().Send(ctx, w)
			return
		}

		if !emitter.AllowIndexing(ctx, e) {
			w.Header().Set("X-Robots-Tag", "noindex")
		}
		w.Header().Set("Content-Type", "application/ld+json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(data)
	}
}
