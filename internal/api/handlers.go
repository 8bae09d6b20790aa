package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/drasi-project/drasi-server/internal/component"
	"github.com/drasi-project/drasi-server/internal/config"
	"github.com/drasi-project/drasi-server/internal/metrics"
	pkgstrings "github.com/drasi-project/drasi-server/pkg/strings"
)

// queryListSummaryMaxLen bounds the query-text preview returned by
// listQueries to a single readable line.
const queryListSummaryMaxLen = 80

// Router builds the control-plane HTTP mux, grounded on original_source's
// route table (GET /health, CRUD + /start + /stop under /sources,
// /queries and /reactions, plus /queries/{id}/results).
func Router(o Orchestrator) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", handleHealth)
	mux.Handle("GET /metrics", metrics.Handler())

	mux.HandleFunc("GET /sources", listSources(o))
	mux.HandleFunc("POST /sources", createSource(o))
	mux.HandleFunc("GET /sources/{id}", getSource(o))
	mux.HandleFunc("PUT /sources/{id}", updateSource(o))
	mux.HandleFunc("DELETE /sources/{id}", deleteSource(o))
	mux.HandleFunc("POST /sources/{id}/start", startSource(o))
	mux.HandleFunc("POST /sources/{id}/stop", stopSource(o))

	mux.HandleFunc("GET /queries", listQueries(o))
	mux.HandleFunc("POST /queries", createQuery(o))
	mux.HandleFunc("GET /queries/{id}", getQuery(o))
	mux.HandleFunc("PUT /queries/{id}", updateQuery(o))
	mux.HandleFunc("DELETE /queries/{id}", deleteQuery(o))
	mux.HandleFunc("POST /queries/{id}/start", startQuery(o))
	mux.HandleFunc("POST /queries/{id}/stop", stopQuery(o))
	mux.HandleFunc("GET /queries/{id}/results", queryResults(o))

	mux.HandleFunc("GET /reactions", listReactions(o))
	mux.HandleFunc("POST /reactions", createReaction(o))
	mux.HandleFunc("GET /reactions/{id}", getReaction(o))
	mux.HandleFunc("PUT /reactions/{id}", updateReaction(o))
	mux.HandleFunc("DELETE /reactions/{id}", deleteReaction(o))
	mux.HandleFunc("POST /reactions/{id}/start", startReaction(o))
	mux.HandleFunc("POST /reactions/{id}/stop", stopReaction(o))

	return metrics.InstrumentMux(mux)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Timestamp: time.Now().UTC()})
}

func readOnlyGuard(w http.ResponseWriter, o Orchestrator) bool {
	if o.ReadOnly() {
		writeError(w, component.NewError(component.ReadOnly, "server is in read-only mode"))
		return true
	}
	return false
}

func decodeBody[T any](w http.ResponseWriter, r *http.Request) (T, bool) {
	var v T
	if err := json.NewDecoder(r.Body).Decode(&v); err != nil {
		var zero T
		writeError(w, component.WrapError(component.InvalidConfig, "decoding request body", err))
		return zero, false
	}
	return v, true
}

// --- Sources ---

func listSources(o Orchestrator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items := o.ListSources()
		out := make([]componentListItem, 0, len(items))
		for _, it := range items {
			out = append(out, componentListItem{ID: it.DTO.ID, Status: it.Status})
		}
		writeData(w, out)
	}
}

func createSource(o Orchestrator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if readOnlyGuard(w, o) {
			return
		}
		dto, ok := decodeBody[config.SourceConfigDTO](w, r)
		if !ok {
			return
		}
		alreadyExists, err := o.CreateSource(r.Context(), dto)
		if err != nil {
			writeError(w, err)
			return
		}
		if alreadyExists {
			writeData(w, statusMessage{Message: fmt.Sprintf("Source '%s' already exists", dto.ID)})
			return
		}
		writeData(w, statusMessage{Message: "Source created successfully"})
	}
}

func getSource(o Orchestrator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dto, status, err := o.GetSource(r.PathValue("id"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeData(w, sourceRuntime{DTO: dto, Status: status})
	}
}

func updateSource(o Orchestrator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if readOnlyGuard(w, o) {
			return
		}
		dto, ok := decodeBody[config.SourceConfigDTO](w, r)
		if !ok {
			return
		}
		if dto.ID != r.PathValue("id") {
			writeError(w, component.NewError(component.InvalidConfig, "body id does not match path id"))
			return
		}
		if err := o.UpdateSource(r.Context(), dto); err != nil {
			writeError(w, err)
			return
		}
		writeData(w, statusMessage{Message: "source updated"})
	}
}

func deleteSource(o Orchestrator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if readOnlyGuard(w, o) {
			return
		}
		if err := o.RemoveSource(r.Context(), r.PathValue("id")); err != nil {
			writeError(w, err)
			return
		}
		writeData(w, statusMessage{Message: "source deleted"})
	}
}

func startSource(o Orchestrator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := o.StartSource(r.Context(), r.PathValue("id")); err != nil {
			writeError(w, err)
			return
		}
		writeData(w, statusMessage{Message: "source started"})
	}
}

func stopSource(o Orchestrator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := o.StopSource(r.Context(), r.PathValue("id")); err != nil {
			writeError(w, err)
			return
		}
		writeData(w, statusMessage{Message: "source stopped"})
	}
}

// --- Queries ---

func listQueries(o Orchestrator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items := o.ListQueries()
		out := make([]queryListItem, 0, len(items))
		for _, it := range items {
			out = append(out, queryListItem{
				ID:      it.DTO.ID,
				Status:  it.Status,
				Summary: pkgstrings.TruncateDescription(it.DTO.Query, queryListSummaryMaxLen),
			})
		}
		writeData(w, out)
	}
}

func createQuery(o Orchestrator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if readOnlyGuard(w, o) {
			return
		}
		dto, ok := decodeBody[config.QueryConfigDTO](w, r)
		if !ok {
			return
		}
		alreadyExists, err := o.CreateQuery(r.Context(), dto)
		if err != nil {
			writeError(w, err)
			return
		}
		if alreadyExists {
			writeData(w, statusMessage{Message: fmt.Sprintf("Query '%s' already exists", dto.ID)})
			return
		}
		writeData(w, statusMessage{Message: "Query created successfully"})
	}
}

func getQuery(o Orchestrator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dto, status, err := o.GetQuery(r.PathValue("id"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeData(w, sourceRuntime{DTO: dto, Status: status})
	}
}

func updateQuery(o Orchestrator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if readOnlyGuard(w, o) {
			return
		}
		dto, ok := decodeBody[config.QueryConfigDTO](w, r)
		if !ok {
			return
		}
		if dto.ID != r.PathValue("id") {
			writeError(w, component.NewError(component.InvalidConfig, "body id does not match path id"))
			return
		}
		if err := o.UpdateQuery(r.Context(), dto); err != nil {
			writeError(w, err)
			return
		}
		writeData(w, statusMessage{Message: "query updated"})
	}
}

func deleteQuery(o Orchestrator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if readOnlyGuard(w, o) {
			return
		}
		if err := o.RemoveQuery(r.Context(), r.PathValue("id")); err != nil {
			writeError(w, err)
			return
		}
		writeData(w, statusMessage{Message: "query deleted"})
	}
}

func startQuery(o Orchestrator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := o.StartQuery(r.Context(), r.PathValue("id")); err != nil {
			writeError(w, err)
			return
		}
		writeData(w, statusMessage{Message: "query started"})
	}
}

func stopQuery(o Orchestrator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := o.StopQuery(r.Context(), r.PathValue("id")); err != nil {
			writeError(w, err)
			return
		}
		writeData(w, statusMessage{Message: "query stopped"})
	}
}

func queryResults(o Orchestrator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		results, err := o.QueryResults(r.PathValue("id"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeData(w, results)
	}
}

// --- Reactions ---

func listReactions(o Orchestrator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items := o.ListReactions()
		out := make([]componentListItem, 0, len(items))
		for _, it := range items {
			out = append(out, componentListItem{ID: it.DTO.ID, Status: it.Status})
		}
		writeData(w, out)
	}
}

func createReaction(o Orchestrator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if readOnlyGuard(w, o) {
			return
		}
		dto, ok := decodeBody[config.ReactionConfigDTO](w, r)
		if !ok {
			return
		}
		alreadyExists, err := o.CreateReaction(r.Context(), dto)
		if err != nil {
			writeError(w, err)
			return
		}
		if alreadyExists {
			writeData(w, statusMessage{Message: fmt.Sprintf("Reaction '%s' already exists", dto.ID)})
			return
		}
		writeData(w, statusMessage{Message: "Reaction created successfully"})
	}
}

func getReaction(o Orchestrator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dto, status, err := o.GetReaction(r.PathValue("id"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeData(w, sourceRuntime{DTO: dto, Status: status})
	}
}

func updateReaction(o Orchestrator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if readOnlyGuard(w, o) {
			return
		}
		dto, ok := decodeBody[config.ReactionConfigDTO](w, r)
		if !ok {
			return
		}
		if dto.ID != r.PathValue("id") {
			writeError(w, component.NewError(component.InvalidConfig, "body id does not match path id"))
			return
		}
		if err := o.UpdateReaction(r.Context(), dto); err != nil {
			writeError(w, err)
			return
		}
		writeData(w, statusMessage{Message: "reaction updated"})
	}
}

func deleteReaction(o Orchestrator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if readOnlyGuard(w, o) {
			return
		}
		if err := o.RemoveReaction(r.Context(), r.PathValue("id")); err != nil {
			writeError(w, err)
			return
		}
		writeData(w, statusMessage{Message: "reaction deleted"})
	}
}

func startReaction(o Orchestrator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := o.StartReaction(r.Context(), r.PathValue("id")); err != nil {
			writeError(w, err)
			return
		}
		writeData(w, statusMessage{Message: "reaction started"})
	}
}

func stopReaction(o Orchestrator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := o.StopReaction(r.Context(), r.PathValue("id")); err != nil {
			writeError(w, err)
			return
		}
		writeData(w, statusMessage{Message: "reaction stopped"})
	}
}
