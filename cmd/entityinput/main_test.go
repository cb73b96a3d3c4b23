package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.appointy.com/entityinput/config"
	"go.appointy.com/entityinput/storage"
	"go.uber.org/zap"
)

func testConfig() config.Config {
	return config.Config{
		GraphQLPath:       "/graphql",
		PlaygroundEnabled: true,
		PlaygroundPath:    "/",
		SchemaPath:        "../../sdl/testdata/article.graphql",
		StorageURL:        storage.DefaultURL,
		UnknownKeys:       "reject",
		LogLevel:          "info",
	}
}

func TestRouter(t *testing.T) {
	cfg := testConfig()

	store, err := storage.Open(context.Background(), cfg.StorageURL)
	require.NoError(t, err)
	defer store.Close()

	e, err := newEngine(cfg, store, zap.NewNop())
	require.NoError(t, err)

	r := newRouter(cfg, e, zap.NewNop())

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest("POST", "/graphql", strings.NewReader(
		`{"query": "mutation { createNodeArticle(input: {title: \"Hi\", tags: [{targetId: \"3\"}]}) { fields } }"}`)))
	require.Equal(t, http.StatusOK, rr.Code)
	require.JSONEq(t, `{"data":{"createNodeArticle":{"fields":{"title":"Hi","field_tags":[{"target_id":"3"}]}}},"errors":null}`, rr.Body.String())

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest("GET", "/", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	require.Contains(t, rr.Body.String(), "Entity Input Playground")
}

func TestPlaygroundDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.PlaygroundEnabled = false

	store, err := storage.Open(context.Background(), cfg.StorageURL)
	require.NoError(t, err)
	defer store.Close()

	e, err := newEngine(cfg, store, zap.NewNop())
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	newRouter(cfg, e, zap.NewNop()).ServeHTTP(rr, httptest.NewRequest("GET", "/", nil))
	require.Equal(t, http.StatusNotFound, rr.Code)
}

func TestMissingSchema(t *testing.T) {
	cfg := testConfig()
	cfg.SchemaPath = "missing.graphql"

	_, err := newEngine(cfg, nil, zap.NewNop())
	require.ErrorContains(t, err, "could not read schema file missing.graphql")
}
