// Package graphql serves read-only GraphQL queries over HTTP using
// graphql-go. The application builds the root query; this package only
// wires it to a handler.
package graphql

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/graphql-go/graphql"

	"github.com/shashiranjanraj/storefront/config"
	"github.com/shashiranjanraj/storefront/pkg/bind"
	"github.com/shashiranjanraj/storefront/pkg/response"
)

// NewSchema creates a query-only schema from the root query object.
func NewSchema(query *graphql.Object) (graphql.Schema, error) {
	return graphql.NewSchema(graphql.SchemaConfig{
		Query: query,
	})
}

// Request is the standard GraphQL-over-HTTP payload.
type Request struct {
	Query         string         `json:"query"`
	Variables     map[string]any `json:"variables"`
	OperationName string         `json:"operationName"`
}

// Execute runs req against schema.
func Execute(ctx context.Context, schema graphql.Schema, req Request) *graphql.Result {
	return graphql.Do(graphql.Params{
		Schema:         schema,
		RequestString:  req.Query,
		VariableValues: req.Variables,
		OperationName:  req.OperationName,
		Context:        ctx,
	})
}

// Handler accepts POST bodies and GET ?query= requests. Query errors are
// reported in the result's "errors" with status 200.
func Handler(schema graphql.Schema) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req Request

		if r.Method == http.MethodGet {
			q := r.URL.Query()
			req.Query = q.Get("query")
			req.OperationName = q.Get("operationName")
			if raw := q.Get("variables"); raw != "" {
				if err := json.Unmarshal([]byte(raw), &req.Variables); err != nil {
					response.Error(w, http.StatusBadRequest, "variables must be a JSON object")
					return
				}
			}
		} else {
			fields, err := bind.JSON(r, &req, config.MaxBodyBytes())
			if err != nil {
				response.Error(w, http.StatusBadRequest, err.Error())
				return
			}
			if len(fields) > 0 {
				response.ValidationError(w, fields)
				return
			}
		}

		if req.Query == "" {
			response.Error(w, http.StatusBadRequest, "query required")
			return
		}

		response.OK(w, Execute(r.Context(), schema, req))
	}
}
