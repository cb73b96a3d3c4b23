package entityinput_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	gqlgo "github.com/graphql-go/graphql"
	"github.com/kylelemons/godebug/pretty"
	"github.com/stretchr/testify/require"
	"go.appointy.com/entityinput"
	"go.appointy.com/entityinput/engine"
	"go.appointy.com/entityinput/schemabuilder"
	"go.appointy.com/entityinput/storage"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func testSchema(t *testing.T) gqlgo.Schema {
	t.Helper()

	sb := schemabuilder.NewSchema()
	page := sb.EntityInput("NodePageInput", "node", "page")
	page.Field("title", "", "String!")
	page.Field("body", "body_value", "String")

	store, err := storage.Open(context.Background(), storage.DefaultURL)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	e, err := engine.New(sb.MustBuild(), store)
	require.NoError(t, err)
	return e.Schema()
}

func testHTTPRequest(t *testing.T, req *http.Request, opts ...entityinput.HandlerOption) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	handler := entityinput.HTTPHandler(testSchema(t), opts...)

	handler.ServeHTTP(rr, req)
	return rr
}

func TestHTTPMustPost(t *testing.T) {
	req, err := http.NewRequest("GET", "/graphql", nil)
	if err != nil {
		t.Fatal(err)
	}

	rr := testHTTPRequest(t, req)

	if diff := pretty.Compare(rr.Body.String(), `{"data":null,"errors":[{"message":"request must be a POST","extensions":{"code":"Unknown"},"paths":[]}]}`); diff != "" {
		t.Errorf("expected response to match, but received %s", diff)
	}
}

func TestHTTPParseQuery(t *testing.T) {
	req, err := http.NewRequest("POST", "/graphql", nil)
	if err != nil {
		t.Fatal(err)
	}

	rr := testHTTPRequest(t, req)

	if rr.Code != http.StatusOK {
		t.Errorf("expected 200, but received %d", rr.Code)
	}

	if diff := pretty.Compare(rr.Body.String(), `{"data":null,"errors":[{"message":"request must include a query","extensions":{"code":"Unknown"},"paths":[]}]}`); diff != "" {
		t.Errorf("expected response to match, but received %s", diff)
	}
}

func TestHTTPMustHaveQuery(t *testing.T) {
	req, err := http.NewRequest("POST", "/graphql", strings.NewReader(`{"query":""}`))
	if err != nil {
		t.Fatal(err)
	}

	rr := testHTTPRequest(t, req)

	if rr.Code != http.StatusOK {
		t.Errorf("expected 200, but received %d", rr.Code)
	}

	if diff := pretty.Compare(rr.Body.String(), `{"data":null,"errors":[{"message":"must have a single query","extensions":{"code":"Unknown"},"paths":[]}]}`); diff != "" {
		t.Errorf("expected response to match, but received %s", diff)
	}
}

func TestHTTPSuccess(t *testing.T) {
	req, err := http.NewRequest("POST", "/graphql", strings.NewReader(`{"query": "mutation Create($input: NodePageInput!) { createNodePage(input: $input) { bundle fields } }", "variables": { "input": { "title": "About", "body": "Hi" } }}`))
	if err != nil {
		t.Fatal(err)
	}

	rr := testHTTPRequest(t, req)

	if rr.Code != http.StatusOK {
		t.Errorf("expected 200, but received %d", rr.Code)
	}

	if diff := pretty.Compare(rr.Body.String(), `{"data":{"createNodePage":{"bundle":"page","fields":{"body_value":"Hi","title":"About"}}},"errors":null}`); diff != "" {
		t.Errorf("expected response to match, but received %s", diff)
	}
}

func TestHTTPContentType(t *testing.T) {
	req, err := http.NewRequest("POST", "/graphql", strings.NewReader(`{"query": "{ entities { id } }"}`))
	if err != nil {
		t.Fatal(err)
	}

	rr := testHTTPRequest(t, req)

	if diff := pretty.Compare(rr.Header().Get("Content-Type"), "application/json"); diff != "" {
		t.Errorf("expected response to match, but received %s", diff)
	}
	if diff := pretty.Compare(rr.Body.String(), `{"data":{"entities":[]},"errors":null}`); diff != "" {
		t.Errorf("expected response to match, but received %s", diff)
	}
}

func TestHTTPResolverErrorCode(t *testing.T) {
	req, err := http.NewRequest("POST", "/graphql", strings.NewReader(`{"query": "mutation { deleteNodePage(id: \"nope\") { id } }"}`))
	require.NoError(t, err)

	rr := testHTTPRequest(t, req)

	var body struct {
		Errors []struct {
			Message    string            `json:"message"`
			Extensions map[string]string `json:"extensions"`
		} `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.Len(t, body.Errors, 1)
	require.Equal(t, "entity nope not found", body.Errors[0].Message)
	require.Equal(t, "NotFound", body.Errors[0].Extensions["code"])
}

func TestHTTPMiddlewares(t *testing.T) {
	var order []string
	var variables map[string]interface{}

	record := func(name string) entityinput.MiddlewareFunc {
		return func(next entityinput.HandlerFunc) entityinput.HandlerFunc {
			return func(ctx context.Context, req *entityinput.Request) *gqlgo.Result {
				order = append(order, name)
				variables = entityinput.ExtractVariables(ctx)
				return next(ctx, req)
			}
		}
	}

	core, logs := observer.New(zapcore.DebugLevel)
	logger := zap.New(core)

	req, err := http.NewRequest("POST", "/graphql", strings.NewReader(`{"query": "query List($type: String) { entities(entityType: $type) { id } }", "variables": {"type": "node"}, "operationName": "List"}`))
	require.NoError(t, err)

	rr := testHTTPRequest(t, req, entityinput.WithMiddlewares(record("outer"), record("inner")),
		entityinput.WithMiddlewares(entityinput.LoggingMiddleware(logger)), entityinput.WithLogger(logger))
	require.Equal(t, http.StatusOK, rr.Code)

	require.Equal(t, []string{"outer", "inner"}, order)
	require.Equal(t, map[string]interface{}{"type": "node"}, variables)

	entries := logs.FilterMessage("GraphQL request").All()
	require.Len(t, entries, 1)
	require.Equal(t, "List", entries[0].ContextMap()["operation_name"])
}

func TestExtractVariablesMissing(t *testing.T) {
	require.Nil(t, entityinput.ExtractVariables(context.Background()))
}

func TestPlaygroundHandler(t *testing.T) {
	h := entityinput.PlaygroundHandler("Entity Input Playground", "/graphql")

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("GET", "/", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "text/html; charset=utf-8", rr.Header().Get("Content-Type"))
	require.Contains(t, rr.Body.String(), "<title>Entity Input Playground</title>")
	require.Contains(t, rr.Body.String(), "'/graphql'")

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("POST", "/", nil))
	require.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestHTTPUpdateClearsNullVariable(t *testing.T) {
	handler := entityinput.HTTPHandler(testSchema(t))
	post := func(body string) string {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest("POST", "/graphql", strings.NewReader(body)))
		require.Equal(t, http.StatusOK, rr.Code)
		return rr.Body.String()
	}

	var created struct {
		Data struct {
			CreateNodePage struct {
				ID string `json:"id"`
			} `json:"createNodePage"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(post(`{"query":"mutation { createNodePage(input: {title: \"a\", body: \"text\"}) { id } }"}`)), &created))
	id := created.Data.CreateNodePage.ID
	require.NotEmpty(t, id)

	body := post(`{"query":"mutation Update($id: ID!, $input: NodePageInput!) { updateNodePage(id: $id, input: $input) { fields } }",` +
		`"variables":{"id":"` + id + `","input":{"title":"b","body":null}}}`)

	if diff := pretty.Compare(body, `{"data":{"updateNodePage":{"fields":{"body_value":null,"title":"b"}}},"errors":null}`); diff != "" {
		t.Errorf("expected response to match, but received %s", diff)
	}
}
