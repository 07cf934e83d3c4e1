package graphql_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/graphql-go/graphql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gql "github.com/shashiranjanraj/storefront/pkg/graphql"
)

func greetingSchema(t *testing.T) graphql.Schema {
	t.Helper()

	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"greeting": &graphql.Field{
				Type: graphql.String,
				Args: graphql.FieldConfigArgument{
					"name": &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: "world"},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return "hello " + p.Args["name"].(string), nil
				},
			},
		},
	})

	schema, err := gql.NewSchema(query)
	require.NoError(t, err)
	return schema
}

func TestExecute(t *testing.T) {
	schema := greetingSchema(t)

	res := gql.Execute(context.Background(), schema, gql.Request{Query: `{ greeting }`})
	require.Empty(t, res.Errors)
	assert.Equal(t, map[string]any{"greeting": "hello world"}, res.Data)

	res = gql.Execute(context.Background(), schema, gql.Request{
		Query:     `query Greet($n: String) { greeting(name: $n) }`,
		Variables: map[string]any{"n": "Asha"},
	})
	require.Empty(t, res.Errors)
	assert.Equal(t, map[string]any{"greeting": "hello Asha"}, res.Data)
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHandlerPOST(t *testing.T) {
	h := gql.Handler(greetingSchema(t))

	rec := serve(h, httptest.NewRequest(http.MethodPost, "/graphql",
		strings.NewReader(`{"query":"query($n:String){greeting(name:$n)}","variables":{"n":"Ravi"}}`)))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"data":{"greeting":"hello Ravi"}}`, rec.Body.String())
}

func TestHandlerGET(t *testing.T) {
	h := gql.Handler(greetingSchema(t))

	target := "/graphql?query=" + url.QueryEscape(`{ greeting }`)
	rec := serve(h, httptest.NewRequest(http.MethodGet, target, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"data":{"greeting":"hello world"}}`, rec.Body.String())

	target = "/graphql?query=" + url.QueryEscape(`{ greeting }`) + "&variables=" + url.QueryEscape(`[1]`)
	rec = serve(h, httptest.NewRequest(http.MethodGet, target, nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlerQueryErrorsAre200(t *testing.T) {
	h := gql.Handler(greetingSchema(t))

	rec := serve(h, httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader(`{"query":"{ nope }"}`)))
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body["errors"])
}

func TestHandlerRejectsBadRequests(t *testing.T) {
	h := gql.Handler(greetingSchema(t))

	rec := serve(h, httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"status":400,"message":"query required"}`, rec.Body.String())

	rec = serve(h, httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader(`{"query":`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(h, httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader(`{"query":5}`)))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}
