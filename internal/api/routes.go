package api

import (
	"net/http"
)

// RegisterRoutes регистрирует все маршруты API.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	chain := Chain(
		Recovery(h.logger),
		Metrics(h.metrics),
		Logging(h.logger),
	)

	// Cards
	mux.Handle("GET /api/v1/cards", chain(http.HandlerFunc(h.ListCards)))
	mux.Handle("GET /api/v1/cards/{id}", chain(http.HandlerFunc(h.GetCard)))
	mux.Handle("POST /api/v1/cards/{id}/instances", chain(http.HandlerFunc(h.CreateCardInstance)))

	// Executions
	mux.Handle("POST /api/v1/executions", chain(http.HandlerFunc(h.CreateExecution)))
	mux.Handle("POST /api/v1/executions/queue", chain(http.HandlerFunc(h.QueueExecution)))
	mux.Handle("GET /api/v1/executions/stream", chain(http.HandlerFunc(h.StreamExecution)))
	mux.Handle("GET /api/v1/executions/{id}", chain(http.HandlerFunc(h.GetExecution)))

	// Pipeline history
	mux.Handle("GET /api/v1/pipelines/{id}/executions", chain(http.HandlerFunc(h.ListPipelineExecutions)))
	mux.Handle("GET /api/v1/pipelines/{id}/executions/latest", chain(http.HandlerFunc(h.GetLatestExecution)))
}
