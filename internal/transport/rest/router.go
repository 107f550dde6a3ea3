package rest

import "net/http"

// NewRouter wires every endpoint onto a ServeMux. Method and path
// matching is done by the mux patterns; identity and other cross-cutting
// concerns are applied by the middleware chain around the router.
func NewRouter(
	training *TrainingHandler,
	words *WordsHandler,
	stats *StatsHandler,
	users *UsersHandler,
	health *HealthHandler,
) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", health.Health)
	mux.HandleFunc("GET /healthz", health.Live)
	mux.HandleFunc("GET /ready", health.Ready)

	mux.HandleFunc("POST /training/sessions", training.Start)
	mux.HandleFunc("GET /training/sessions/{id}/task", training.CurrentTask)
	mux.HandleFunc("POST /training/sessions/{id}/answer", training.Submit)
	mux.HandleFunc("POST /training/sessions/{id}/next", training.Advance)
	mux.HandleFunc("POST /training/sessions/{id}/prefetch", training.Prefetch)
	mux.HandleFunc("DELETE /training/sessions/{id}", training.Finish)

	mux.HandleFunc("POST /words/import", words.Import)
	mux.HandleFunc("GET /words", words.List)
	mux.HandleFunc("DELETE /words/{id}", words.Delete)

	mux.HandleFunc("GET /stats", stats.Overview)
	mux.HandleFunc("GET /stats/errors", stats.TopErrors)

	mux.HandleFunc("GET /users/me", users.Me)
	mux.HandleFunc("PATCH /users/me", users.Update)

	return mux
}
