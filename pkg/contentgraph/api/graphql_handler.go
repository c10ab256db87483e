// Package api exposes a built schema over HTTP.
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/graphql-go/graphql"
)

// QueryRequest is the request body for a GraphQL query
type QueryRequest struct {
	Query         string         `json:"query"`
	Variables     map[string]any `json:"variables,omitempty"`
	OperationName string         `json:"operationName,omitempty"`
}

// GraphQLHandler serves queries against one frozen schema
type GraphQLHandler struct {
	schema graphql.Schema
	logger *slog.Logger
}

// NewGraphQLHandler creates a handler for the given schema
func NewGraphQLHandler(schema graphql.Schema, logger *slog.Logger) *GraphQLHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &GraphQLHandler{schema: schema, logger: logger}
}

// Routes returns the routes for the GraphQL endpoint
func (h *GraphQLHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/graphql", h.Query)
	r.Get("/healthz", h.Health)

	return r
}

// Query executes a GraphQL query against the frozen schema
func (h *GraphQLHandler) Query(w http.ResponseWriter, r *http.Request) {
	var req QueryRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		h.logger.Warn("invalid query request", "error", err)
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, map[string]string{"error": "invalid request body"})
		return
	}

	result := graphql.Do(graphql.Params{
		Schema:         h.schema,
		RequestString:  req.Query,
		VariableValues: req.Variables,
		OperationName:  req.OperationName,
		Context:        r.Context(),
	})
	if len(result.Errors) > 0 {
		h.logger.Warn("query completed with errors",
			"operation", req.OperationName, "errors", len(result.Errors))
	}

	render.JSON(w, r, result)
}

// Health reports liveness
func (h *GraphQLHandler) Health(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{"status": "ok"})
}
